package deployer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/darkforest-eth/df-deployer/pkg/deployer/artifacts"
	"github.com/darkforest-eth/df-deployer/pkg/deployer/broadcaster"
	"github.com/darkforest-eth/df-deployer/pkg/deployer/pipeline"
	"github.com/darkforest-eth/df-deployer/pkg/deployer/service"
	"github.com/darkforest-eth/df-deployer/pkg/deployer/state"
	"github.com/darkforest-eth/df-deployer/pkg/deployer/writer"
	"github.com/ethereum-optimism/optimism/op-service/ctxinterrupt"
	"github.com/ethereum-optimism/optimism/op-service/eth"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"
	"github.com/ethereum-optimism/optimism/op-service/txmgr"
	txmetrics "github.com/ethereum-optimism/optimism/op-service/txmgr/metrics"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
)

type DeployConfig struct {
	L1RPCUrl         string
	Network          string
	ExpectedChainID  uint64
	ArtifactsLocator *artifacts.Locator
	ArtifactPath     string
	ArtifactFormat   writer.Format
	WhitelistEnabled bool
	// FundAmount is in ether.
	FundAmount       float64
	AdminAddress     string
	Service          string
	InitializersPath string
	DeployerAddress  string
	// Environment overrides the environment derived from Network when set.
	Environment string
	TxMgrConfig txmgr.CLIConfig

	Logger log.Logger
	// Progress receives a stage progress bar when set.
	Progress io.Writer
	// Fs defaults to the OS filesystem.
	Fs afero.Fs
}

// Check validates key material first so that every missing key is reported
// together.
func (c *DeployConfig) Check() error {
	var missing []string
	if c.TxMgrConfig.Mnemonic == "" {
		missing = append(missing, txmgr.MnemonicFlagName)
	}
	if c.TxMgrConfig.HDPath == "" {
		missing = append(missing, txmgr.HDPathFlagName)
	}
	if c.DeployerAddress == "" {
		missing = append(missing, DeployerAddressFlagName)
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &pipeline.MissingConfigurationError{Keys: missing}
	}

	if c.L1RPCUrl == "" {
		return errors.New("l1RPCUrl must be specified")
	}
	if c.Network == "" {
		return errors.New("network must be specified")
	}
	if !common.IsHexAddress(c.DeployerAddress) {
		return fmt.Errorf("invalid deployer address %q", c.DeployerAddress)
	}
	if c.AdminAddress != "" && !common.IsHexAddress(c.AdminAddress) {
		return fmt.Errorf("invalid admin address %q", c.AdminAddress)
	}
	if c.FundAmount < 0 || math.IsNaN(c.FundAmount) || math.IsInf(c.FundAmount, 0) {
		return fmt.Errorf("invalid fund amount %v", c.FundAmount)
	}
	if c.Environment != "" {
		if _, err := state.NewEnvironment(c.Environment); err != nil {
			return err
		}
	}
	if c.ArtifactsLocator == nil {
		return errors.New("artifacts locator must be specified")
	}
	if c.ArtifactPath == "" {
		return errors.New("artifact path must be specified")
	}
	if _, err := writer.NewFormat(string(c.ArtifactFormat)); err != nil {
		return err
	}
	if c.Logger == nil {
		return errors.New("logger must be specified")
	}
	if err := c.TxMgrConfig.Check(); err != nil {
		return fmt.Errorf("invalid tx manager config: %w", err)
	}
	return nil
}

// Intent turns the flat configuration into the pipeline parameters.
func (c *DeployConfig) Intent() (*state.Intent, error) {
	fund, err := EtherToWei(c.FundAmount)
	if err != nil {
		return nil, err
	}
	intent := &state.Intent{
		Network:          c.Network,
		ExpectedChainID:  c.ExpectedChainID,
		WhitelistEnabled: c.WhitelistEnabled,
		FundAmount:       fund,
		Service:          c.Service,
	}
	if c.Environment != "" {
		env, err := state.NewEnvironment(c.Environment)
		if err != nil {
			return nil, err
		}
		intent.EnvironmentOverride = env
	}
	if c.AdminAddress != "" {
		admin := common.HexToAddress(c.AdminAddress)
		intent.AdminAddress = &admin
	}
	if c.InitializersPath != "" {
		inits, err := state.LoadInitializers(c.fs(), c.InitializersPath)
		if err != nil {
			return nil, err
		}
		intent.CoreInitializers = inits
	}
	if err := intent.Check(); err != nil {
		return nil, err
	}
	return intent, nil
}

func (c *DeployConfig) fs() afero.Fs {
	if c.Fs == nil {
		return afero.NewOsFs()
	}
	return c.Fs
}

func DeployCLI() func(cliCtx *cli.Context) error {
	return func(cliCtx *cli.Context) error {
		logCfg := oplog.ReadCLIConfig(cliCtx)
		l := oplog.NewLogger(oplog.AppOut(cliCtx), logCfg)
		oplog.SetGlobalLogHandler(l.Handler())

		artifactsLocator := new(artifacts.Locator)
		if err := artifactsLocator.UnmarshalText([]byte(cliCtx.String(ArtifactsLocatorFlagName))); err != nil {
			return fmt.Errorf("failed to parse artifacts locator: %w", err)
		}

		cfg := DeployConfig{
			L1RPCUrl:         cliCtx.String(L1RPCURLFlagName),
			Network:          cliCtx.String(NetworkFlagName),
			ExpectedChainID:  cliCtx.Uint64(NetworkIDFlagName),
			ArtifactsLocator: artifactsLocator,
			ArtifactPath:     cliCtx.String(ArtifactPathFlagName),
			ArtifactFormat:   writer.Format(cliCtx.String(ArtifactFormatFlagName)),
			WhitelistEnabled: cliCtx.Bool(WhitelistFlagName),
			FundAmount:       cliCtx.Float64(FundFlagName),
			AdminAddress:     cliCtx.String(AdminAddressFlagName),
			Service:          cliCtx.String(SubgraphFlagName),
			InitializersPath: cliCtx.String(InitializersFlagName),
			DeployerAddress:  cliCtx.String(DeployerAddressFlagName),
			Environment:      cliCtx.String(EnvironmentFlagName),
			TxMgrConfig:      txmgr.ReadCLIConfig(cliCtx),
			Logger:           l,
		}
		if cliCtx.Bool(ProgressFlagName) {
			cfg.Progress = cliCtx.App.ErrWriter
		}

		ctx := ctxinterrupt.WithCancelOnInterrupt(cliCtx.Context)
		st, err := Deploy(ctx, cfg)
		if st != nil {
			if werr := WriteSummary(cliCtx.App.Writer, st); werr != nil {
				l.Error("failed to write summary", "err", werr)
			}
		}
		if err != nil {
			return fmt.Errorf("failed to deploy: %w", err)
		}
		return nil
	}
}

// Deploy runs the full pipeline. The returned state is non-nil whenever the
// artifact was written, including when post-deployment actions failed.
func Deploy(ctx context.Context, cfg DeployConfig) (*state.State, error) {
	if err := cfg.Check(); err != nil {
		return nil, fmt.Errorf("invalid config for deploy: %w", err)
	}
	lgr := cfg.Logger

	intent, err := cfg.Intent()
	if err != nil {
		return nil, fmt.Errorf("failed to build intent: %w", err)
	}
	store, err := artifacts.NewStoreFromLocator(cfg.fs(), cfg.ArtifactsLocator)
	if err != nil {
		return nil, fmt.Errorf("failed to load artifacts: %w", err)
	}

	rpcClient, err := rpc.DialContext(ctx, cfg.L1RPCUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	defer rpcClient.Close()
	reader := broadcaster.NewReader(rpcClient)

	txMgr, err := txmgr.NewSimpleTxManager("df-deployer", lgr, new(txmetrics.NoopTxMetrics), cfg.TxMgrConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create tx manager: %w", err)
	}
	defer txMgr.Close()

	deployerAddr := common.HexToAddress(cfg.DeployerAddress)
	if txMgr.From() != deployerAddr {
		return nil, fmt.Errorf("%s derives %s, expected deployer %s", txmgr.HDPathFlagName, txMgr.From(), deployerAddr)
	}

	chainDeployer := broadcaster.NewChainDeployer(lgr, txMgr, store, reader)
	env := &pipeline.Env{
		Logger:          lgr,
		Environment:     intent.Environment(),
		Deployer:        chainDeployer,
		Chain:           reader,
		Writer:          writer.New(cfg.fs(), cfg.ArtifactPath, cfg.ArtifactFormat),
		Admin:           chainDeployer,
		Funder:          chainDeployer,
		DeployerAddress: deployerAddr,
	}
	if cfg.Progress != nil {
		env.Progressor = StageProgressor(cfg.Progress)
	}
	if intent.Service != "" {
		launcher, err := service.NewDockerLauncher(lgr)
		if err != nil {
			return nil, err
		}
		env.Launcher = launcher
	}

	return runPipeline(ctx, env, intent)
}

func runPipeline(ctx context.Context, env *pipeline.Env, intent *state.Intent) (*state.State, error) {
	p := pipeline.New(env, intent)
	err := p.Run(ctx)
	if p.Machine().State() != pipeline.Done {
		return nil, err
	}
	return p.State(), err
}

// EtherToWei converts a decimal ether amount, as given on the command line.
func EtherToWei(ether float64) (eth.ETH, error) {
	wei, err := eth.GweiToWei(ether * 1e9)
	if err != nil {
		return eth.ETH{}, fmt.Errorf("invalid ether amount %v: %w", ether, err)
	}
	return eth.WeiBig(wei), nil
}
