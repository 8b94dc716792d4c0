package pipeline

import (
	"context"
	"fmt"

	"github.com/darkforest-eth/df-deployer/pkg/deployer/state"
)

type stageFunc func(ctx context.Context, env *Env, intent *state.Intent, st *state.State) error

type pipelineStage struct {
	name  string
	state State
	apply stageFunc
}

var stages = []pipelineStage{
	{"check-preconditions", PreconditionChecked, CheckPreconditions},
	{"deploy-whitelist", WhitelistDeployed, DeployWhitelist},
	{"deploy-tokens", TokensDeployed, DeployTokens},
	{"deploy-libraries", LibrariesDeployed, DeployLibraries},
	{"deploy-core", CoreDeployed, DeployCore},
	{"initialize-tokens", TokensLateInitialized, InitializeTokens},
	{"deploy-getters", GettersDeployed, DeployGetters},
	{"deploy-credits", CreditsDeployed, DeployCredits},
	{"persist-artifact", ArtifactPersisted, PersistArtifact},
}

// Pipeline runs the fixed deployment sequence once.
type Pipeline struct {
	env     *Env
	intent  *state.Intent
	st      *state.State
	machine *Machine
}

func New(env *Env, intent *state.Intent) *Pipeline {
	return &Pipeline{
		env:     env,
		intent:  intent,
		st:      state.NewState(intent.Network),
		machine: NewMachine(),
	}
}

func (p *Pipeline) State() *state.State {
	return p.st
}

func (p *Pipeline) Machine() *Machine {
	return p.machine
}

// Run stops at the first failing stage and returns a *StageError. Once the
// artifact is persisted the post-deployment actions always run; their
// combined failure is returned after the machine reaches Done.
func (p *Pipeline) Run(ctx context.Context) error {
	lgr := p.env.Logger
	lgr.Info("starting deployment", "network", p.intent.Network, "environment", p.env.Environment)

	for i, stage := range stages {
		if err := p.machine.CanEnter(stage.state); err != nil {
			return fmt.Errorf("cannot run stage %s: %w", stage.name, err)
		}
		if err := stage.apply(ctx, p.env, p.intent, p.st); err != nil {
			p.machine.Abort(stage.state, err)
			lgr.Error("deployment aborted", "stage", stage.name, "err", err)
			return &StageError{Stage: stage.name, State: stage.state, Err: err}
		}
		if err := p.machine.Advance(stage.state); err != nil {
			return err
		}
		if p.env.Progressor != nil {
			p.env.Progressor(int64(i+1), int64(len(stages)))
		}
	}

	postErr := RunPostActions(ctx, p.env, p.intent, p.st)
	if postErr != nil {
		lgr.Error("post-deployment actions failed", "err", postErr)
	}
	if err := p.machine.Advance(PostActionsComplete); err != nil {
		return err
	}
	if err := p.machine.Advance(Done); err != nil {
		return err
	}
	lgr.Info("deployment complete", "components", p.st.Registry.Len())
	return postErr
}
