package deployer

import (
	"github.com/darkforest-eth/df-deployer/pkg/deployer/writer"
	opservice "github.com/ethereum-optimism/optimism/op-service"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"
	"github.com/ethereum-optimism/optimism/op-service/txmgr"
	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "DF_DEPLOYER"

const (
	L1RPCURLFlagName         = txmgr.L1RPCFlagName
	NetworkFlagName          = "network"
	NetworkIDFlagName        = "network-id"
	ArtifactsLocatorFlagName = "artifacts-locator"
	ArtifactPathFlagName     = "artifact-path"
	ArtifactFormatFlagName   = "artifact-format"
	WhitelistFlagName        = "whitelist"
	FundFlagName             = "fund"
	AdminAddressFlagName     = "admin-address"
	SubgraphFlagName         = "subgraph"
	InitializersFlagName     = "initializers"
	DeployerAddressFlagName  = "deployer-address"
	ProgressFlagName         = "progress"
	EnvironmentFlagName      = "environment"
)

func PrefixEnvVar(name string) []string {
	return opservice.PrefixEnvVar(EnvVarPrefix, name)
}

var (
	L1RPCURLFlag = &cli.StringFlag{
		Name:    L1RPCURLFlagName,
		Usage:   "RPC URL of the chain to deploy to.",
		EnvVars: PrefixEnvVar("L1_RPC_URL"),
	}
	NetworkFlag = &cli.StringFlag{
		Name:    NetworkFlagName,
		Usage:   "Network name written to the artifact. localhost and hardhat deploy in development mode.",
		EnvVars: PrefixEnvVar("NETWORK"),
		Value:   "localhost",
	}
	NetworkIDFlag = &cli.Uint64Flag{
		Name:    NetworkIDFlagName,
		Usage:   "Expected chain ID. Deployment aborts if the RPC reports another. 0 disables the check.",
		EnvVars: PrefixEnvVar("NETWORK_ID"),
	}
	ArtifactsLocatorFlag = &cli.StringFlag{
		Name:    ArtifactsLocatorFlagName,
		Usage:   "Locator of the compiled contract artifacts, as a file:// URL or a path.",
		EnvVars: PrefixEnvVar("ARTIFACTS_LOCATOR"),
		Value:   "artifacts",
	}
	ArtifactPathFlag = &cli.StringFlag{
		Name:    ArtifactPathFlagName,
		Usage:   "Path the deployment artifact is written to.",
		EnvVars: PrefixEnvVar("ARTIFACT_PATH"),
		Value:   "contracts.ts",
	}
	ArtifactFormatFlag = &cli.StringFlag{
		Name:    ArtifactFormatFlagName,
		Usage:   "Format of the deployment artifact: ts, json, toml or yaml.",
		EnvVars: PrefixEnvVar("ARTIFACT_FORMAT"),
		Value:   string(writer.FormatTypeScript),
	}
	WhitelistFlag = &cli.BoolFlag{
		Name:    WhitelistFlagName,
		Usage:   "Enable whitelist gating.",
		EnvVars: PrefixEnvVar("WHITELIST"),
	}
	FundFlag = &cli.Float64Flag{
		Name:    FundFlagName,
		Usage:   "Amount of ether to fund the whitelist drip with.",
		EnvVars: PrefixEnvVar("FUND"),
		Value:   0.5,
	}
	AdminAddressFlag = &cli.StringFlag{
		Name:    AdminAddressFlagName,
		Usage:   "Address that receives ownership of the upgradeable contracts.",
		EnvVars: PrefixEnvVar("ADMIN_ADDRESS"),
	}
	SubgraphFlag = &cli.StringFlag{
		Name:    SubgraphFlagName,
		Usage:   "Name of the indexing service container to start once deployed.",
		EnvVars: PrefixEnvVar("SUBGRAPH"),
	}
	InitializersFlag = &cli.StringFlag{
		Name:    InitializersFlagName,
		Usage:   "TOML or YAML file with the core contract initializer values.",
		EnvVars: PrefixEnvVar("INITIALIZERS"),
	}
	DeployerAddressFlag = &cli.StringFlag{
		Name:    DeployerAddressFlagName,
		Usage:   "Address the mnemonic and HD path are expected to derive.",
		EnvVars: PrefixEnvVar("DEPLOYER_ADDRESS"),
	}
	EnvironmentFlag = &cli.StringFlag{
		Name:    EnvironmentFlagName,
		Usage:   "Force the development or production environment instead of deriving it from the network name.",
		EnvVars: PrefixEnvVar("ENVIRONMENT"),
	}
	ProgressFlag = &cli.BoolFlag{
		Name:    ProgressFlagName,
		Usage:   "Show a progress bar of the pipeline stages on stderr.",
		EnvVars: PrefixEnvVar("PROGRESS"),
	}
)

var GlobalFlags = append([]cli.Flag{}, oplog.CLIFlags(EnvVarPrefix)...)

var DeployFlags = append([]cli.Flag{
	L1RPCURLFlag,
	NetworkFlag,
	NetworkIDFlag,
	ArtifactsLocatorFlag,
	ArtifactPathFlag,
	ArtifactFormatFlag,
	WhitelistFlag,
	FundFlag,
	AdminAddressFlag,
	SubgraphFlag,
	InitializersFlag,
	DeployerAddressFlag,
	EnvironmentFlag,
	ProgressFlag,
}, txmgr.CLIFlagsWithDefaults(EnvVarPrefix, txmgr.DefaultChallengerFlagValues)...)
