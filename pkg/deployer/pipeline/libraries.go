package pipeline

import (
	"context"

	"github.com/darkforest-eth/df-deployer/pkg/deployer/state"
)

func DeployLibraries(ctx context.Context, env *Env, _ *state.Intent, st *state.State) error {
	lgr := env.Logger.New("stage", "deploy-libraries")
	lgr.Info("deploying libraries", "count", len(state.LibrarySpecs))

	for _, spec := range state.LibrarySpecs {
		comp, err := deployComponent(ctx, env, st, spec, nil)
		if err != nil {
			return err
		}
		lgr.Info("deployed library", "name", spec.Name, "address", comp.Address)
	}
	return nil
}
