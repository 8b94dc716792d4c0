package state

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethereum-optimism/optimism/op-service/eth"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultFundAmount is sent to the whitelist drip when no amount is given.
var DefaultFundAmount = eth.HalfEther

// Intent holds the parameters of one deployment.
type Intent struct {
	Network string
	// ExpectedChainID is checked against the RPC when non-zero.
	ExpectedChainID  uint64
	WhitelistEnabled bool
	FundAmount       eth.ETH
	// AdminAddress receives proxy admin ownership when set.
	AdminAddress *common.Address
	// Service is brought up after deployment when non-empty.
	Service string
	// CoreInitializers is the core contract's initializer tuple, keyed by
	// the ABI field names.
	CoreInitializers map[string]any
	// EnvironmentOverride replaces the environment derived from Network.
	EnvironmentOverride Environment
}

func (i *Intent) Check() error {
	if i.Network == "" {
		return errors.New("network must be specified")
	}
	if i.AdminAddress != nil && *i.AdminAddress == (common.Address{}) {
		return errors.New("admin address must not be the zero address")
	}
	return nil
}

func (i *Intent) Environment() Environment {
	if i.EnvironmentOverride != "" {
		return i.EnvironmentOverride
	}
	return EnvironmentForNetwork(i.Network)
}

// LoadInitializers reads a TOML or YAML file, chosen by extension.
func LoadInitializers(fs afero.Fs, path string) (map[string]any, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read initializers: %w", err)
	}

	out := make(map[string]any)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("failed to decode TOML initializers: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("failed to decode YAML initializers: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported initializers format: %s", ext)
	}
	return out, nil
}
