package pipeline

import (
	"context"

	"github.com/darkforest-eth/df-deployer/pkg/deployer/state"
	"github.com/ethereum/go-ethereum/common"
)

func DeployCore(ctx context.Context, env *Env, intent *state.Intent, st *state.State) error {
	lgr := env.Logger.New("stage", "deploy-core")
	lgr.Info("deploying core")

	initializers := intent.CoreInitializers
	if initializers == nil {
		initializers = map[string]any{}
	}
	comp, err := deployComponent(ctx, env, st, state.CoreSpec, func(inputs map[string]common.Address) []any {
		return []any{
			env.DeployerAddress,
			inputs[state.Whitelist],
			inputs[state.Tokens],
			initializers,
		}
	})
	if err != nil {
		return err
	}

	// Local chains are thrown away, so their block numbers mean nothing.
	if env.Environment.IsProduction() {
		st.Network.StartBlock = comp.BlockNumber
	} else {
		st.Network.StartBlock = 0
	}
	lgr.Info("deployed core", "address", comp.Address, "startBlock", st.Network.StartBlock)
	return nil
}
