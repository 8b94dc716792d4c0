package pipeline

import (
	"context"

	"github.com/darkforest-eth/df-deployer/pkg/deployer/state"
	"github.com/ethereum-optimism/optimism/op-service/eth"
	"github.com/ethereum-optimism/optimism/op-service/ioutil"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// RequiredBalance is the minimum deployer balance outside development.
var RequiredBalance = eth.GWei(2_100_000_000)

// ComponentDeployer deploys a single component and waits for confirmation.
// libs is keyed by library contract name.
type ComponentDeployer interface {
	Deploy(ctx context.Context, spec state.ComponentSpec, args []any, libs map[string]common.Address) (state.DeployedComponent, error)
	Initialize(ctx context.Context, c state.DeployedComponent, args []any) error
}

type ChainReader interface {
	ChainID(ctx context.Context) (uint64, error)
	Balance(ctx context.Context, addr common.Address) (eth.ETH, error)
}

type ArtifactWriter interface {
	Write(artifact state.DeploymentArtifact) error
	Path() string
}

type Administrator interface {
	TransferOwnership(ctx context.Context, newOwner common.Address, components []state.DeployedComponent) error
}

type Funder interface {
	Fund(ctx context.Context, to common.Address, amount eth.ETH) error
}

type ServiceLauncher interface {
	Launch(ctx context.Context, name string) error
}

type Env struct {
	Logger      log.Logger
	Environment state.Environment
	Deployer    ComponentDeployer
	Chain       ChainReader
	Writer      ArtifactWriter
	Admin       Administrator
	Funder      Funder
	// Launcher may be nil when no service is requested.
	Launcher ServiceLauncher
	// Progressor is told after every completed stage. Optional.
	Progressor ioutil.Progressor

	DeployerAddress common.Address
}
