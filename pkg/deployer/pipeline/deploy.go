package pipeline

import (
	"context"
	"errors"

	"github.com/darkforest-eth/df-deployer/pkg/deployer/state"
	"github.com/ethereum/go-ethereum/common"
)

type argsFunc func(inputs map[string]common.Address) []any

// deployComponent resolves the spec's dependencies from the registry, deploys
// it and records the result. A nil args defers initialization.
func deployComponent(ctx context.Context, env *Env, st *state.State, spec state.ComponentSpec, args argsFunc) (state.DeployedComponent, error) {
	inputs, err := st.Registry.Resolve(spec.Dependencies()...)
	if err != nil {
		return state.DeployedComponent{}, &DeploymentError{Component: spec.Name, Err: err}
	}

	libs := make(map[string]common.Address, len(spec.Libraries))
	for _, name := range spec.Libraries {
		lib, _ := st.Registry.Get(name)
		libs[lib.Contract] = lib.Address
	}

	var callArgs []any
	if args != nil {
		callArgs = args(inputs)
	}

	comp, err := env.Deployer.Deploy(ctx, spec, callArgs, libs)
	if err != nil {
		return state.DeployedComponent{}, &DeploymentError{Component: spec.Name, Err: err}
	}
	if comp.Address == (common.Address{}) {
		return state.DeployedComponent{}, &DeploymentError{Component: spec.Name, Err: errors.New("no address returned")}
	}
	comp.Name = spec.Name
	comp.Contract = spec.Contract
	comp.Kind = spec.Kind
	if len(inputs) > 0 {
		comp.Inputs = inputs
	}
	if err := st.Registry.Put(comp); err != nil {
		return state.DeployedComponent{}, &DeploymentError{Component: spec.Name, Err: err}
	}
	return comp, nil
}
