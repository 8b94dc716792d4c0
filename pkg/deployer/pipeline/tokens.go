package pipeline

import (
	"context"
	"errors"

	"github.com/darkforest-eth/df-deployer/pkg/deployer/state"
)

var ErrTokensNotInitialized = errors.New("tokens have not been bound to core")

// DeployTokens creates the tokens proxy without initializing it. Core needs
// the tokens address and tokens needs the core address, so binding happens in
// InitializeTokens once core exists.
func DeployTokens(ctx context.Context, env *Env, _ *state.Intent, st *state.State) error {
	lgr := env.Logger.New("stage", "deploy-tokens")
	lgr.Info("deploying tokens")

	comp, err := deployComponent(ctx, env, st, state.TokensSpec, nil)
	if err != nil {
		return err
	}
	lgr.Info("deployed tokens", "address", comp.Address)
	return nil
}

func InitializeTokens(ctx context.Context, env *Env, _ *state.Intent, st *state.State) error {
	lgr := env.Logger.New("stage", "initialize-tokens")

	if st.TokensInitialized() {
		lgr.Info("tokens already initialized")
		return nil
	}

	addrs, err := st.Registry.Resolve(state.Tokens, state.Core)
	if err != nil {
		return &DeploymentError{Component: state.Tokens, Err: err}
	}
	tokens, _ := st.Registry.Get(state.Tokens)

	lgr.Info("binding tokens to core", "tokens", tokens.Address, "core", addrs[state.Core])
	if err := env.Deployer.Initialize(ctx, tokens, []any{addrs[state.Core], env.DeployerAddress}); err != nil {
		return &DeploymentError{Component: state.Tokens, Err: err}
	}
	if err := st.Registry.MarkInitialized(state.Tokens); err != nil {
		return &DeploymentError{Component: state.Tokens, Err: err}
	}
	lgr.Info("initialized tokens")
	return nil
}
