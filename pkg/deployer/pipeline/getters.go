package pipeline

import (
	"context"

	"github.com/darkforest-eth/df-deployer/pkg/deployer/state"
	"github.com/ethereum/go-ethereum/common"
)

func DeployGetters(ctx context.Context, env *Env, _ *state.Intent, st *state.State) error {
	lgr := env.Logger.New("stage", "deploy-getters")

	if !st.TokensInitialized() {
		return &DeploymentError{Component: state.Getters, Err: ErrTokensNotInitialized}
	}

	lgr.Info("deploying getters")
	comp, err := deployComponent(ctx, env, st, state.GettersSpec, func(inputs map[string]common.Address) []any {
		return []any{env.DeployerAddress, inputs[state.Core], inputs[state.Tokens]}
	})
	if err != nil {
		return err
	}
	lgr.Info("deployed getters", "address", comp.Address)
	return nil
}
