package pipeline

import (
	"context"

	"github.com/darkforest-eth/df-deployer/pkg/deployer/state"
	"github.com/ethereum/go-ethereum/common"
)

func DeployCredits(ctx context.Context, env *Env, _ *state.Intent, st *state.State) error {
	lgr := env.Logger.New("stage", "deploy-credits")
	lgr.Info("deploying GPT credits")

	comp, err := deployComponent(ctx, env, st, state.GPTCreditSpec, func(map[string]common.Address) []any {
		return []any{env.DeployerAddress}
	})
	if err != nil {
		return err
	}
	lgr.Info("deployed GPT credits", "address", comp.Address)
	return nil
}
