package pipeline

import (
	"context"
	"errors"

	"github.com/darkforest-eth/df-deployer/pkg/deployer/state"
	"github.com/hashicorp/go-multierror"
)

// RunPostActions applies the side effects that follow a persisted deployment.
// Each action runs regardless of the others failing; the failures are
// returned together.
func RunPostActions(ctx context.Context, env *Env, intent *state.Intent, st *state.State) error {
	var result *multierror.Error
	if err := TransferOwnership(ctx, env, intent, st); err != nil {
		result = multierror.Append(result, err)
	}
	if err := FundWhitelist(ctx, env, intent, st); err != nil {
		result = multierror.Append(result, err)
	}
	if err := StartService(ctx, env, intent, st); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// TransferOwnership hands every upgradeable component to the configured admin.
func TransferOwnership(ctx context.Context, env *Env, intent *state.Intent, st *state.State) error {
	lgr := env.Logger.New("stage", "transfer-ownership")

	if intent.AdminAddress == nil {
		lgr.Info("no admin address configured, skipping ownership transfer")
		return nil
	}
	admin := *intent.AdminAddress
	if admin == env.DeployerAddress {
		lgr.Info("admin is the deployer, skipping ownership transfer", "admin", admin)
		return nil
	}

	var (
		upgradeable []state.DeployedComponent
		names       []string
	)
	for _, c := range st.Registry.Entries() {
		if c.Kind == state.KindUpgradeable {
			upgradeable = append(upgradeable, c)
			names = append(names, c.Name)
		}
	}

	if env.Admin == nil {
		return &OwnershipTransferError{Target: admin, Components: names, Err: errors.New("no administrator configured")}
	}
	lgr.Info("transferring ownership", "admin", admin, "components", names)
	if err := env.Admin.TransferOwnership(ctx, admin, upgradeable); err != nil {
		lgr.Error("ownership transfer failed", "err", err)
		return &OwnershipTransferError{Target: admin, Components: names, Err: err}
	}
	lgr.Info("transferred ownership", "admin", admin)
	return nil
}

// FundWhitelist tops the whitelist balance up to the configured amount. A
// whitelist that already holds the amount is left alone.
func FundWhitelist(ctx context.Context, env *Env, intent *state.Intent, st *state.State) error {
	lgr := env.Logger.New("stage", "fund-whitelist")

	target := intent.FundAmount
	if target.IsZero() {
		lgr.Info("no funding amount configured, skipping whitelist funding")
		return nil
	}
	whitelist, err := st.Registry.Address(state.Whitelist)
	if err != nil {
		return &FundingTransferError{Amount: target, Err: err}
	}

	balance, err := env.Chain.Balance(ctx, whitelist)
	if err != nil {
		return &FundingTransferError{Target: whitelist, Amount: target, Err: err}
	}
	if !balance.Lt(target) {
		lgr.Info("whitelist already funded", "address", whitelist, "balance", balance, "target", target)
		return nil
	}

	amount := target.Sub(balance)
	lgr.Info("funding whitelist", "address", whitelist, "amount", amount)
	if err := env.Funder.Fund(ctx, whitelist, amount); err != nil {
		lgr.Error("whitelist funding failed", "err", err)
		return &FundingTransferError{Target: whitelist, Amount: amount, Err: err}
	}
	return nil
}

// StartService brings up the auxiliary service, if one was requested.
func StartService(ctx context.Context, env *Env, intent *state.Intent, _ *state.State) error {
	lgr := env.Logger.New("stage", "start-service")

	if intent.Service == "" {
		return nil
	}
	if env.Launcher == nil {
		return &ServiceError{Service: intent.Service, Err: errors.New("no service launcher configured")}
	}
	lgr.Info("starting service", "name", intent.Service)
	if err := env.Launcher.Launch(ctx, intent.Service); err != nil {
		lgr.Error("service start failed", "name", intent.Service, "err", err)
		return &ServiceError{Service: intent.Service, Err: err}
	}
	lgr.Info("started service", "name", intent.Service)
	return nil
}
