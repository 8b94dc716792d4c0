package pipeline

import (
	"context"

	"github.com/darkforest-eth/df-deployer/pkg/deployer/state"
)

func PersistArtifact(_ context.Context, env *Env, _ *state.Intent, st *state.State) error {
	lgr := env.Logger.New("stage", "persist-artifact")

	artifact, err := state.NewDeploymentArtifact(st.Registry, st.Network)
	if err != nil {
		return &PersistenceError{Path: env.Writer.Path(), Err: err}
	}
	if err := env.Writer.Write(artifact); err != nil {
		return &PersistenceError{Path: env.Writer.Path(), Err: err}
	}
	lgr.Info("wrote deployment artifact", "path", env.Writer.Path(), "network", st.Network.Name, "startBlock", st.Network.StartBlock)
	return nil
}
