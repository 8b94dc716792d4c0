package pipeline

import (
	"context"
	"fmt"

	"github.com/darkforest-eth/df-deployer/pkg/deployer/state"
)

func CheckPreconditions(ctx context.Context, env *Env, intent *state.Intent, st *state.State) error {
	lgr := env.Logger.New("stage", "check-preconditions")

	chainID, err := env.Chain.ChainID(ctx)
	if err != nil {
		return err
	}
	if intent.ExpectedChainID != 0 && intent.ExpectedChainID != chainID {
		return &ChainIDMismatchError{Expected: intent.ExpectedChainID, Actual: chainID}
	}
	st.Network.ID = chainID

	if !env.Environment.IsProduction() {
		lgr.Info("skipping balance check in development", "chainID", chainID)
		return nil
	}

	balance, err := env.Chain.Balance(ctx, env.DeployerAddress)
	if err != nil {
		return fmt.Errorf("failed to check deployer balance: %w", err)
	}
	if balance.Lt(RequiredBalance) {
		return &InsufficientFundsError{
			Account:  env.DeployerAddress,
			Required: RequiredBalance,
			Actual:   balance,
		}
	}
	lgr.Info("deployer balance sufficient", "account", env.DeployerAddress, "balance", balance, "chainID", chainID)
	return nil
}
