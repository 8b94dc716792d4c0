package pipeline

import (
	"fmt"
	"strings"

	"github.com/ethereum-optimism/optimism/op-service/eth"
	"github.com/ethereum/go-ethereum/common"
)

// MissingConfigurationError is returned before any work starts.
type MissingConfigurationError struct {
	Keys []string
}

func (e *MissingConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Keys, ", "))
}

type InsufficientFundsError struct {
	Account  common.Address
	Required eth.ETH
	Actual   eth.ETH
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds in %s: required %s, have %s", e.Account, e.Required, e.Actual)
}

type ChainIDMismatchError struct {
	Expected uint64
	Actual   uint64
}

func (e *ChainIDMismatchError) Error() string {
	return fmt.Sprintf("chain ID mismatch: expected %d, RPC reports %d", e.Expected, e.Actual)
}

type DeploymentError struct {
	Component string
	Err       error
}

func (e *DeploymentError) Error() string {
	return fmt.Sprintf("failed to deploy %s: %v", e.Component, e.Err)
}

func (e *DeploymentError) Unwrap() error {
	return e.Err
}

type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist deployment artifact to %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

type OwnershipTransferError struct {
	Target     common.Address
	Components []string
	Err        error
}

func (e *OwnershipTransferError) Error() string {
	return fmt.Sprintf("failed to transfer ownership of %s to %s: %v", strings.Join(e.Components, ", "), e.Target, e.Err)
}

func (e *OwnershipTransferError) Unwrap() error {
	return e.Err
}

type FundingTransferError struct {
	Target common.Address
	Amount eth.ETH
	Err    error
}

func (e *FundingTransferError) Error() string {
	return fmt.Sprintf("failed to send %s to %s: %v", e.Amount, e.Target, e.Err)
}

func (e *FundingTransferError) Unwrap() error {
	return e.Err
}

type ServiceError struct {
	Service string
	Err     error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("failed to bring up service %s: %v", e.Service, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// StageError names the pipeline stage that aborted the run.
type StageError struct {
	Stage string
	State State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("error in pipeline stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
