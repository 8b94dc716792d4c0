package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/darkforest-eth/df-deployer/pkg/deployer/state"
	"github.com/ethereum-optimism/optimism/op-service/eth"
	"github.com/ethereum-optimism/optimism/op-service/testlog"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

var (
	testDeployer = common.HexToAddress("0x00000000000000000000000000000000000000d0")
	testAdmin    = common.HexToAddress("0x00000000000000000000000000000000000000ad")
)

// events is shared by the fakes so tests can assert on ordering.
type events []string

func (e *events) add(format string, args ...any) {
	*e = append(*e, fmt.Sprintf(format, args...))
}

type deployCall struct {
	spec state.ComponentSpec
	args []any
	libs map[string]common.Address
	// known is the set of registry entries at the time of the call.
	known map[string]bool
}

type fakeDeployer struct {
	log      *events
	registry func() *state.AddressRegistry
	failOn   string
	calls    []deployCall
	inits    map[string][]any
	count    int
}

func (f *fakeDeployer) Deploy(_ context.Context, spec state.ComponentSpec, args []any, libs map[string]common.Address) (state.DeployedComponent, error) {
	known := make(map[string]bool)
	for _, c := range f.registry().Entries() {
		known[c.Name] = true
	}
	f.calls = append(f.calls, deployCall{spec: spec, args: args, libs: libs, known: known})
	f.log.add("deploy:%s", spec.Name)
	if spec.Name == f.failOn {
		return state.DeployedComponent{}, errors.New("out of gas")
	}
	f.count++
	return state.DeployedComponent{
		Name:        spec.Name,
		Address:     common.BigToAddress(big.NewInt(int64(0x1000 + f.count))),
		BlockNumber: uint64(500 + f.count),
	}, nil
}

func (f *fakeDeployer) Initialize(_ context.Context, c state.DeployedComponent, args []any) error {
	f.log.add("initialize:%s", c.Name)
	if f.inits == nil {
		f.inits = make(map[string][]any)
	}
	f.inits[c.Name] = args
	if f.failOn == "initialize:"+c.Name {
		return errors.New("initializer reverted")
	}
	return nil
}

func (f *fakeDeployer) call(name string) (deployCall, bool) {
	for _, c := range f.calls {
		if c.spec.Name == name {
			return c, true
		}
	}
	return deployCall{}, false
}

type fakeChain struct {
	log      *events
	chainID  uint64
	balances map[common.Address]eth.ETH
	queried  []common.Address
}

func (f *fakeChain) ChainID(context.Context) (uint64, error) {
	return f.chainID, nil
}

func (f *fakeChain) Balance(_ context.Context, addr common.Address) (eth.ETH, error) {
	f.queried = append(f.queried, addr)
	return f.balances[addr], nil
}

type fakeWriter struct {
	log     *events
	written []state.DeploymentArtifact
	err     error
}

func (f *fakeWriter) Write(a state.DeploymentArtifact) error {
	if f.err != nil {
		return f.err
	}
	f.log.add("write")
	f.written = append(f.written, a)
	return nil
}

func (f *fakeWriter) Path() string {
	return "/tmp/contracts.ts"
}

type fakeAdmin struct {
	log        *events
	owner      common.Address
	components []state.DeployedComponent
	calls      int
	err        error
}

func (f *fakeAdmin) TransferOwnership(_ context.Context, newOwner common.Address, components []state.DeployedComponent) error {
	f.log.add("transfer-ownership")
	f.calls++
	f.owner = newOwner
	f.components = components
	return f.err
}

type transfer struct {
	to     common.Address
	amount eth.ETH
}

type fakeFunder struct {
	log       *events
	transfers []transfer
	err       error
}

func (f *fakeFunder) Fund(_ context.Context, to common.Address, amount eth.ETH) error {
	f.log.add("fund")
	if f.err != nil {
		return f.err
	}
	f.transfers = append(f.transfers, transfer{to: to, amount: amount})
	return nil
}

type fakeLauncher struct {
	log     *events
	started []string
	err     error
}

func (f *fakeLauncher) Launch(_ context.Context, name string) error {
	f.log.add("launch:%s", name)
	f.started = append(f.started, name)
	return f.err
}

type testHarness struct {
	log      *events
	env      *Env
	intent   *state.Intent
	deployer *fakeDeployer
	chain    *fakeChain
	writer   *fakeWriter
	admin    *fakeAdmin
	funder   *fakeFunder
	launcher *fakeLauncher
	pipeline *Pipeline
}

func newHarness(t *testing.T, network string) *testHarness {
	h := &testHarness{log: new(events)}
	h.deployer = &fakeDeployer{log: h.log}
	h.chain = &fakeChain{log: h.log, chainID: 31337, balances: make(map[common.Address]eth.ETH)}
	h.writer = &fakeWriter{log: h.log}
	h.admin = &fakeAdmin{log: h.log}
	h.funder = &fakeFunder{log: h.log}
	h.launcher = &fakeLauncher{log: h.log}
	h.intent = &state.Intent{
		Network:    network,
		FundAmount: state.DefaultFundAmount,
	}
	h.env = &Env{
		Logger:          testlog.Logger(t, log.LevelInfo),
		Environment:     state.EnvironmentForNetwork(network),
		Deployer:        h.deployer,
		Chain:           h.chain,
		Writer:          h.writer,
		Admin:           h.admin,
		Funder:          h.funder,
		Launcher:        h.launcher,
		DeployerAddress: testDeployer,
	}
	h.pipeline = New(h.env, h.intent)
	h.deployer.registry = func() *state.AddressRegistry { return h.pipeline.State().Registry }
	return h
}

func (h *testHarness) run() error {
	return h.pipeline.Run(context.Background())
}

func (h *testHarness) address(t *testing.T, name string) common.Address {
	addr, err := h.pipeline.State().Registry.Address(name)
	if err != nil {
		t.Fatalf("no address for %s: %v", name, err)
	}
	return addr
}
