package pipeline

import (
	"context"

	"github.com/darkforest-eth/df-deployer/pkg/deployer/state"
	"github.com/ethereum/go-ethereum/common"
)

func DeployWhitelist(ctx context.Context, env *Env, intent *state.Intent, st *state.State) error {
	lgr := env.Logger.New("stage", "deploy-whitelist")
	lgr.Info("deploying whitelist", "enabled", intent.WhitelistEnabled)

	comp, err := deployComponent(ctx, env, st, state.WhitelistSpec, func(map[string]common.Address) []any {
		return []any{env.DeployerAddress, intent.WhitelistEnabled}
	})
	if err != nil {
		return err
	}
	lgr.Info("deployed whitelist", "address", comp.Address)
	return nil
}
