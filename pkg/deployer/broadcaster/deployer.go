package broadcaster

import (
	"context"
	"errors"
	"fmt"

	"github.com/darkforest-eth/df-deployer/pkg/deployer/artifacts"
	"github.com/darkforest-eth/df-deployer/pkg/deployer/state"
	"github.com/ethereum-optimism/optimism/op-service/eth"
	"github.com/ethereum-optimism/optimism/op-service/txmgr"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
)

const (
	ProxyAdminContract = "ProxyAdmin"
	ProxyContract      = "TransparentUpgradeableProxy"

	initializeMethod        = "initialize"
	transferOwnershipMethod = "transferOwnership"
)

var ErrNotOwner = errors.New("deployer is not the owner")

// Sender is the part of txmgr.TxManager the deployer uses.
type Sender interface {
	Send(ctx context.Context, candidate txmgr.TxCandidate) (*types.Receipt, error)
	From() common.Address
}

type ArtifactSource interface {
	Load(contract string) (*artifacts.Artifact, error)
}

type OwnershipReader interface {
	Owner(ctx context.Context, contract common.Address) (common.Address, error)
	ProxyAdminOf(ctx context.Context, proxyAdmin common.Address, proxy common.Address) (common.Address, error)
}

// ChainDeployer deploys components with real transactions. Upgradeable
// components share a single ProxyAdmin created on first use.
type ChainDeployer struct {
	lgr       log.Logger
	sender    Sender
	artifacts ArtifactSource
	reader    OwnershipReader

	proxyAdmin common.Address
}

func NewChainDeployer(lgr log.Logger, sender Sender, source ArtifactSource, reader OwnershipReader) *ChainDeployer {
	return &ChainDeployer{
		lgr:       lgr,
		sender:    sender,
		artifacts: source,
		reader:    reader,
	}
}

// ProxyAdmin is zero until the first upgradeable component is deployed.
func (d *ChainDeployer) ProxyAdmin() common.Address {
	return d.proxyAdmin
}

func (d *ChainDeployer) Deploy(ctx context.Context, spec state.ComponentSpec, args []any, libs map[string]common.Address) (state.DeployedComponent, error) {
	art, err := d.artifacts.Load(spec.Contract)
	if err != nil {
		return state.DeployedComponent{}, err
	}
	code, err := art.Link(libs)
	if err != nil {
		return state.DeployedComponent{}, err
	}

	lgr := d.lgr.New("component", spec.Name, "contract", spec.Contract)
	if !spec.IsUpgradeable() {
		if len(args) > 0 {
			return state.DeployedComponent{}, fmt.Errorf("library %s takes no arguments", spec.Name)
		}
		addr, receipt, err := d.create(ctx, code)
		if err != nil {
			return state.DeployedComponent{}, err
		}
		lgr.Info("deployed library", "address", addr, "block", receipt.BlockNumber)
		return newDeployedComponent(spec, addr, common.Address{}, receipt), nil
	}

	var initData []byte
	if args != nil {
		initData, err = packInitialize(art, args)
		if err != nil {
			return state.DeployedComponent{}, err
		}
	}

	impl, _, err := d.create(ctx, code)
	if err != nil {
		return state.DeployedComponent{}, fmt.Errorf("failed to deploy implementation: %w", err)
	}
	lgr.Info("deployed implementation", "address", impl)

	admin, err := d.ensureProxyAdmin(ctx)
	if err != nil {
		return state.DeployedComponent{}, err
	}

	proxyArt, err := d.artifacts.Load(ProxyContract)
	if err != nil {
		return state.DeployedComponent{}, err
	}
	proxyCode, err := proxyArt.Link(nil)
	if err != nil {
		return state.DeployedComponent{}, err
	}
	ctorArgs, err := proxyArt.ABI.Pack("", impl, admin, initData)
	if err != nil {
		return state.DeployedComponent{}, fmt.Errorf("failed to pack proxy constructor: %w", err)
	}
	proxy, receipt, err := d.create(ctx, append(proxyCode, ctorArgs...))
	if err != nil {
		return state.DeployedComponent{}, fmt.Errorf("failed to deploy proxy: %w", err)
	}
	lgr.Info("deployed proxy", "address", proxy, "implementation", impl, "block", receipt.BlockNumber)

	comp := newDeployedComponent(spec, proxy, impl, receipt)
	comp.Initialized = initData != nil
	return comp, nil
}

// Initialize calls initialize on an already deployed proxy and waits for it.
func (d *ChainDeployer) Initialize(ctx context.Context, c state.DeployedComponent, args []any) error {
	art, err := d.artifacts.Load(c.Contract)
	if err != nil {
		return err
	}
	data, err := packInitialize(art, args)
	if err != nil {
		return err
	}
	receipt, err := d.send(ctx, txmgr.TxCandidate{TxData: data, To: &c.Address})
	if err != nil {
		return fmt.Errorf("failed to initialize %s: %w", c.Name, err)
	}
	d.lgr.Info("initialized component", "component", c.Name, "address", c.Address, "tx", receipt.TxHash)
	return nil
}

// TransferOwnership hands the ProxyAdmin, and every component that is itself
// Ownable, to newOwner. The deployer must currently own each of them.
func (d *ChainDeployer) TransferOwnership(ctx context.Context, newOwner common.Address, components []state.DeployedComponent) error {
	if d.proxyAdmin == (common.Address{}) {
		return errors.New("no proxy admin deployed")
	}
	from := d.sender.From()

	owner, err := d.reader.Owner(ctx, d.proxyAdmin)
	if err != nil {
		return err
	}
	if owner != from {
		return fmt.Errorf("%w of proxy admin %s, owner is %s", ErrNotOwner, d.proxyAdmin, owner)
	}
	for _, c := range components {
		admin, err := d.reader.ProxyAdminOf(ctx, d.proxyAdmin, c.Address)
		if err != nil {
			return err
		}
		if admin != d.proxyAdmin {
			return fmt.Errorf("proxy of %s is administered by %s, not %s", c.Name, admin, d.proxyAdmin)
		}
	}

	for _, c := range components {
		art, err := d.artifacts.Load(c.Contract)
		if err != nil {
			return err
		}
		if _, ok := art.ABI.Methods[transferOwnershipMethod]; !ok {
			continue
		}
		owner, err := d.reader.Owner(ctx, c.Address)
		if err != nil {
			return err
		}
		if owner == newOwner {
			continue
		}
		if owner != from {
			return fmt.Errorf("%w of %s, owner is %s", ErrNotOwner, c.Name, owner)
		}
		if err := d.transferOwnership(ctx, art, c.Address, newOwner); err != nil {
			return fmt.Errorf("failed to transfer ownership of %s: %w", c.Name, err)
		}
		d.lgr.Info("transferred component ownership", "component", c.Name, "owner", newOwner)
	}

	adminArt, err := d.artifacts.Load(ProxyAdminContract)
	if err != nil {
		return err
	}
	if err := d.transferOwnership(ctx, adminArt, d.proxyAdmin, newOwner); err != nil {
		return fmt.Errorf("failed to transfer proxy admin ownership: %w", err)
	}
	d.lgr.Info("transferred proxy admin ownership", "proxyAdmin", d.proxyAdmin, "owner", newOwner)
	return nil
}

// Fund sends amount to the given address.
func (d *ChainDeployer) Fund(ctx context.Context, to common.Address, amount eth.ETH) error {
	receipt, err := d.send(ctx, txmgr.TxCandidate{To: &to, Value: amount.ToBig()})
	if err != nil {
		return err
	}
	d.lgr.Info("sent funds", "to", to, "amount", amount, "tx", receipt.TxHash)
	return nil
}

func (d *ChainDeployer) transferOwnership(ctx context.Context, art *artifacts.Artifact, target common.Address, newOwner common.Address) error {
	data, err := art.ABI.Pack(transferOwnershipMethod, newOwner)
	if err != nil {
		return fmt.Errorf("failed to pack %s: %w", transferOwnershipMethod, err)
	}
	_, err = d.send(ctx, txmgr.TxCandidate{TxData: data, To: &target})
	return err
}

func (d *ChainDeployer) ensureProxyAdmin(ctx context.Context) (common.Address, error) {
	if d.proxyAdmin != (common.Address{}) {
		return d.proxyAdmin, nil
	}
	art, err := d.artifacts.Load(ProxyAdminContract)
	if err != nil {
		return common.Address{}, err
	}
	code, err := art.Link(nil)
	if err != nil {
		return common.Address{}, err
	}
	addr, _, err := d.create(ctx, code)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to deploy proxy admin: %w", err)
	}
	d.lgr.Info("deployed proxy admin", "address", addr)
	d.proxyAdmin = addr
	return addr, nil
}

func (d *ChainDeployer) create(ctx context.Context, code []byte) (common.Address, *types.Receipt, error) {
	receipt, err := d.send(ctx, txmgr.TxCandidate{TxData: code})
	if err != nil {
		return common.Address{}, nil, err
	}
	if receipt.ContractAddress == (common.Address{}) {
		return common.Address{}, nil, fmt.Errorf("receipt of %s has no contract address", receipt.TxHash)
	}
	return receipt.ContractAddress, receipt, nil
}

func (d *ChainDeployer) send(ctx context.Context, candidate txmgr.TxCandidate) (*types.Receipt, error) {
	receipt, err := d.sender.Send(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return nil, fmt.Errorf("transaction %s reverted", receipt.TxHash)
	}
	return receipt, nil
}

func packInitialize(art *artifacts.Artifact, args []any) ([]byte, error) {
	method, ok := art.ABI.Methods[initializeMethod]
	if !ok {
		return nil, fmt.Errorf("%s has no %s method", art.ContractName, initializeMethod)
	}
	converted, err := ConvertArgs(method.Inputs, args)
	if err != nil {
		return nil, fmt.Errorf("invalid %s.%s arguments: %w", art.ContractName, initializeMethod, err)
	}
	data, err := art.ABI.Pack(initializeMethod, converted...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s.%s: %w", art.ContractName, initializeMethod, err)
	}
	return data, nil
}

func newDeployedComponent(spec state.ComponentSpec, addr common.Address, impl common.Address, receipt *types.Receipt) state.DeployedComponent {
	var block uint64
	if receipt.BlockNumber != nil {
		block = receipt.BlockNumber.Uint64()
	}
	return state.DeployedComponent{
		Name:           spec.Name,
		Contract:       spec.Contract,
		Kind:           spec.Kind,
		Address:        addr,
		Implementation: impl,
		BlockNumber:    block,
		TxHash:         receipt.TxHash,
	}
}
