package state

import (
	"github.com/ethereum/go-ethereum/common"
)

// Component names. These are the keys of the address registry.
const (
	Whitelist         = "whitelist"
	Tokens            = "tokens"
	UtilsLibrary      = "utils"
	LazyUpdateLibrary = "lazyUpdate"
	PlanetLibrary     = "planet"
	VerifierLibrary   = "verifier"
	InitializeLibrary = "initialize"
	Core              = "core"
	Getters           = "getters"
	GPTCredit         = "gptCredit"
)

type ComponentKind string

const (
	// KindLibrary is a linked library deployed with a bare CREATE.
	KindLibrary ComponentKind = "library"
	// KindUpgradeable is an implementation behind a transparent proxy.
	KindUpgradeable ComponentKind = "upgradeable"
)

// ComponentSpec describes one deployable unit. Specs are fixed at build time.
type ComponentSpec struct {
	Name     string
	Contract string
	Kind     ComponentKind
	// Inputs are components whose addresses are passed to the initializer.
	Inputs []string
	// Libraries are linked into the bytecode before deployment.
	Libraries []string
}

// Dependencies lists every component that must already be deployed.
func (c ComponentSpec) Dependencies() []string {
	deps := make([]string, 0, len(c.Inputs)+len(c.Libraries))
	deps = append(deps, c.Inputs...)
	deps = append(deps, c.Libraries...)
	return deps
}

func (c ComponentSpec) IsUpgradeable() bool {
	return c.Kind == KindUpgradeable
}

var (
	WhitelistSpec = ComponentSpec{
		Name:     Whitelist,
		Contract: "Whitelist",
		Kind:     KindUpgradeable,
	}
	TokensSpec = ComponentSpec{
		Name:     Tokens,
		Contract: "DarkForestTokens",
		Kind:     KindUpgradeable,
	}
	UtilsLibrarySpec = ComponentSpec{
		Name:     UtilsLibrary,
		Contract: "DarkForestUtils",
		Kind:     KindLibrary,
	}
	LazyUpdateLibrarySpec = ComponentSpec{
		Name:     LazyUpdateLibrary,
		Contract: "DarkForestLazyUpdate",
		Kind:     KindLibrary,
	}
	PlanetLibrarySpec = ComponentSpec{
		Name:      PlanetLibrary,
		Contract:  "DarkForestPlanet",
		Kind:      KindLibrary,
		Libraries: []string{LazyUpdateLibrary, UtilsLibrary},
	}
	VerifierLibrarySpec = ComponentSpec{
		Name:     VerifierLibrary,
		Contract: "Verifier",
		Kind:     KindLibrary,
	}
	InitializeLibrarySpec = ComponentSpec{
		Name:     InitializeLibrary,
		Contract: "DarkForestInitialize",
		Kind:     KindLibrary,
	}
	CoreSpec = ComponentSpec{
		Name:     Core,
		Contract: "DarkForestCore",
		Kind:     KindUpgradeable,
		Inputs:   []string{Whitelist, Tokens},
		Libraries: []string{
			UtilsLibrary,
			PlanetLibrary,
			VerifierLibrary,
			InitializeLibrary,
			LazyUpdateLibrary,
		},
	}
	GettersSpec = ComponentSpec{
		Name:      Getters,
		Contract:  "DarkForestGetters",
		Kind:      KindUpgradeable,
		Inputs:    []string{Core, Tokens},
		Libraries: []string{UtilsLibrary},
	}
	GPTCreditSpec = ComponentSpec{
		Name:     GPTCredit,
		Contract: "DarkForestGPTCredit",
		Kind:     KindUpgradeable,
	}
)

// LibrarySpecs is in deployment order; a library only links earlier ones.
var LibrarySpecs = []ComponentSpec{
	UtilsLibrarySpec,
	LazyUpdateLibrarySpec,
	PlanetLibrarySpec,
	VerifierLibrarySpec,
	InitializeLibrarySpec,
}

// ComponentSpecs is every component of a complete deployment in pipeline order.
var ComponentSpecs = []ComponentSpec{
	WhitelistSpec,
	TokensSpec,
	UtilsLibrarySpec,
	LazyUpdateLibrarySpec,
	PlanetLibrarySpec,
	VerifierLibrarySpec,
	InitializeLibrarySpec,
	CoreSpec,
	GettersSpec,
	GPTCreditSpec,
}

// DeployedComponent is created once per component. Only Initialized changes
// afterwards, when a late initialization completes.
type DeployedComponent struct {
	Name     string         `json:"name"`
	Contract string         `json:"contract"`
	Kind     ComponentKind  `json:"kind"`
	Address  common.Address `json:"address"`
	// Implementation is zero for libraries.
	Implementation common.Address            `json:"implementation"`
	BlockNumber    uint64                    `json:"blockNumber"`
	TxHash         common.Hash               `json:"txHash"`
	Inputs         map[string]common.Address `json:"inputs,omitempty"`
	Initialized    bool                      `json:"initialized"`
}
