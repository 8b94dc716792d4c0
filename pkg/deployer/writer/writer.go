package writer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	"github.com/darkforest-eth/df-deployer/pkg/deployer/state"
	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatTypeScript Format = "ts"
	FormatJSON       Format = "json"
	FormatTOML       Format = "toml"
	FormatYAML       Format = "yaml"
)

func NewFormat(s string) (Format, error) {
	switch s {
	case string(FormatTypeScript):
		return FormatTypeScript, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatTOML):
		return FormatTOML, nil
	case string(FormatYAML):
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid artifact format: %s", s)
	}
}

// Constants is the field set client code reads. Field order is the output order.
type Constants struct {
	Network                  string `json:"NETWORK" toml:"NETWORK" yaml:"NETWORK"`
	NetworkID                uint64 `json:"NETWORK_ID" toml:"NETWORK_ID" yaml:"NETWORK_ID"`
	StartBlock               uint64 `json:"START_BLOCK" toml:"START_BLOCK" yaml:"START_BLOCK"`
	UtilsLibraryAddress      string `json:"UTILS_LIBRARY_ADDRESS" toml:"UTILS_LIBRARY_ADDRESS" yaml:"UTILS_LIBRARY_ADDRESS"`
	PlanetLibraryAddress     string `json:"PLANET_LIBRARY_ADDRESS" toml:"PLANET_LIBRARY_ADDRESS" yaml:"PLANET_LIBRARY_ADDRESS"`
	VerifierLibraryAddress   string `json:"VERIFIER_LIBRARY_ADDRESS" toml:"VERIFIER_LIBRARY_ADDRESS" yaml:"VERIFIER_LIBRARY_ADDRESS"`
	InitializeLibraryAddress string `json:"INITIALIZE_LIBRARY_ADDRESS" toml:"INITIALIZE_LIBRARY_ADDRESS" yaml:"INITIALIZE_LIBRARY_ADDRESS"`
	LazyUpdateLibraryAddress string `json:"LAZY_UPDATE_LIBRARY_ADDRESS" toml:"LAZY_UPDATE_LIBRARY_ADDRESS" yaml:"LAZY_UPDATE_LIBRARY_ADDRESS"`
	CoreContractAddress      string `json:"CORE_CONTRACT_ADDRESS" toml:"CORE_CONTRACT_ADDRESS" yaml:"CORE_CONTRACT_ADDRESS"`
	TokensContractAddress    string `json:"TOKENS_CONTRACT_ADDRESS" toml:"TOKENS_CONTRACT_ADDRESS" yaml:"TOKENS_CONTRACT_ADDRESS"`
	GettersContractAddress   string `json:"GETTERS_CONTRACT_ADDRESS" toml:"GETTERS_CONTRACT_ADDRESS" yaml:"GETTERS_CONTRACT_ADDRESS"`
	WhitelistContractAddress string `json:"WHITELIST_CONTRACT_ADDRESS" toml:"WHITELIST_CONTRACT_ADDRESS" yaml:"WHITELIST_CONTRACT_ADDRESS"`
	GPTCreditContractAddress string `json:"GPT_CREDIT_CONTRACT_ADDRESS" toml:"GPT_CREDIT_CONTRACT_ADDRESS" yaml:"GPT_CREDIT_CONTRACT_ADDRESS"`
}

func NewConstants(a state.DeploymentArtifact) (Constants, error) {
	var missing []string
	addr := func(name string) string {
		c, ok := a.Component(name)
		if !ok {
			missing = append(missing, name)
			return ""
		}
		return c.Address.Hex()
	}
	out := Constants{
		Network:                  a.Network.Name,
		NetworkID:                a.Network.ID,
		StartBlock:               a.Network.StartBlock,
		UtilsLibraryAddress:      addr(state.UtilsLibrary),
		PlanetLibraryAddress:     addr(state.PlanetLibrary),
		VerifierLibraryAddress:   addr(state.VerifierLibrary),
		InitializeLibraryAddress: addr(state.InitializeLibrary),
		LazyUpdateLibraryAddress: addr(state.LazyUpdateLibrary),
		CoreContractAddress:      addr(state.Core),
		TokensContractAddress:    addr(state.Tokens),
		GettersContractAddress:   addr(state.Getters),
		WhitelistContractAddress: addr(state.Whitelist),
		GPTCreditContractAddress: addr(state.GPTCredit),
	}
	if len(missing) > 0 {
		return Constants{}, fmt.Errorf("artifact is missing components: %s", strings.Join(missing, ", "))
	}
	if out.Network == "" {
		return Constants{}, fmt.Errorf("artifact has no network name")
	}
	return out, nil
}

const tsTemplate = `// This file is generated by df-deployer. Do not edit.
{{- with .Constants }}
export const NETWORK = {{ .Network | js | squote }};
export const NETWORK_ID = {{ .NetworkID }};
export const START_BLOCK = {{ .StartBlock }};
export const UTILS_LIBRARY_ADDRESS = {{ .UtilsLibraryAddress | squote }};
export const PLANET_LIBRARY_ADDRESS = {{ .PlanetLibraryAddress | squote }};
export const VERIFIER_LIBRARY_ADDRESS = {{ .VerifierLibraryAddress | squote }};
export const INITIALIZE_LIBRARY_ADDRESS = {{ .InitializeLibraryAddress | squote }};
export const LAZY_UPDATE_LIBRARY_ADDRESS = {{ .LazyUpdateLibraryAddress | squote }};
export const CORE_CONTRACT_ADDRESS = {{ .CoreContractAddress | squote }};
export const TOKENS_CONTRACT_ADDRESS = {{ .TokensContractAddress | squote }};
export const GETTERS_CONTRACT_ADDRESS = {{ .GettersContractAddress | squote }};
export const WHITELIST_CONTRACT_ADDRESS = {{ .WhitelistContractAddress | squote }};
export const GPT_CREDIT_CONTRACT_ADDRESS = {{ .GPTCreditContractAddress | squote }};
{{- end }}
`

var tsTmpl = template.Must(template.New("contracts.ts").Funcs(sprig.TxtFuncMap()).Parse(tsTemplate))

// Render serializes the artifact. Equal artifacts render to equal bytes.
func Render(a state.DeploymentArtifact, format Format) ([]byte, error) {
	consts, err := NewConstants(a)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch format {
	case FormatTypeScript:
		if err := tsTmpl.Execute(&buf, struct{ Constants Constants }{consts}); err != nil {
			return nil, fmt.Errorf("failed to render template: %w", err)
		}
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(consts); err != nil {
			return nil, fmt.Errorf("failed to encode JSON: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(consts); err != nil {
			return nil, fmt.Errorf("failed to encode TOML: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(consts); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("invalid artifact format: %s", format)
	}
	return buf.Bytes(), nil
}

// Writer replaces the artifact file on every write.
type Writer struct {
	fs     afero.Fs
	path   string
	format Format
}

func New(fs afero.Fs, path string, format Format) *Writer {
	return &Writer{
		fs:     fs,
		path:   path,
		format: format,
	}
}

func (w *Writer) Path() string {
	return w.path
}

func (w *Writer) Write(a state.DeploymentArtifact) error {
	data, err := Render(a, w.format)
	if err != nil {
		return err
	}

	if err := w.fs.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}
	tmp := w.path + ".tmp"
	if err := afero.WriteFile(w.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := w.fs.Rename(tmp, w.path); err != nil {
		_ = w.fs.Remove(tmp)
		return fmt.Errorf("failed to move artifact into place: %w", err)
	}
	return nil
}
