package state

import (
	"fmt"
	"strings"
)

// Environment decides whether fund checks and start-block recording apply.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentProduction  Environment = "production"
)

// developmentNetworks are ephemeral local chains.
var developmentNetworks = map[string]bool{
	"localhost": true,
	"hardhat":   true,
	"anvil":     true,
}

// EnvironmentForNetwork maps a network name to the environment it deploys into.
func EnvironmentForNetwork(network string) Environment {
	if developmentNetworks[strings.ToLower(network)] {
		return EnvironmentDevelopment
	}
	return EnvironmentProduction
}

func NewEnvironment(s string) (Environment, error) {
	switch s {
	case string(EnvironmentDevelopment):
		return EnvironmentDevelopment, nil
	case string(EnvironmentProduction):
		return EnvironmentProduction, nil
	default:
		return "", fmt.Errorf("invalid environment: %s", s)
	}
}

func (e Environment) IsProduction() bool {
	return e == EnvironmentProduction
}
