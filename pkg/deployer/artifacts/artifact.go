package artifacts

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// LinkReferences maps source file to library name to placeholder offsets.
type LinkReferences map[string]map[string][]LinkOffset

type LinkOffset struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// Artifact is a compiled contract as emitted by Hardhat or Foundry.
type Artifact struct {
	ContractName   string
	ABI            abi.ABI
	LinkReferences LinkReferences
	// bytecode is kept as hex since unlinked code does not decode.
	bytecode string
}

type rawBytecode struct {
	Object         string         `json:"object"`
	LinkReferences LinkReferences `json:"linkReferences"`
}

type rawArtifact struct {
	ContractName   string          `json:"contractName"`
	ABI            json.RawMessage `json:"abi"`
	Bytecode       json.RawMessage `json:"bytecode"`
	LinkReferences LinkReferences  `json:"linkReferences"`
}

func ParseArtifact(data []byte) (*Artifact, error) {
	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode artifact: %w", err)
	}
	if len(raw.ABI) == 0 {
		return nil, fmt.Errorf("artifact has no abi")
	}
	parsedABI, err := abi.JSON(bytes.NewReader(raw.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse abi: %w", err)
	}

	art := &Artifact{
		ContractName:   raw.ContractName,
		ABI:            parsedABI,
		LinkReferences: raw.LinkReferences,
	}

	trimmed := bytes.TrimSpace(raw.Bytecode)
	switch {
	case len(trimmed) == 0:
		return nil, fmt.Errorf("artifact has no bytecode")
	case trimmed[0] == '"':
		// Hardhat layout
		if err := json.Unmarshal(trimmed, &art.bytecode); err != nil {
			return nil, fmt.Errorf("failed to decode bytecode: %w", err)
		}
	default:
		// Foundry layout
		var obj rawBytecode
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil, fmt.Errorf("failed to decode bytecode: %w", err)
		}
		art.bytecode = obj.Object
		if art.LinkReferences == nil {
			art.LinkReferences = obj.LinkReferences
		}
	}
	art.bytecode = strings.TrimPrefix(art.bytecode, "0x")
	if art.bytecode == "" {
		return nil, fmt.Errorf("artifact has empty bytecode")
	}
	return art, nil
}

// Libraries lists the library names the bytecode must be linked against.
func (a *Artifact) Libraries() []string {
	seen := make(map[string]bool)
	var out []string
	for _, libs := range a.LinkReferences {
		for name := range libs {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Link substitutes library addresses into the bytecode placeholders. Every
// referenced library must be supplied.
func (a *Artifact) Link(libs map[string]common.Address) ([]byte, error) {
	code := []byte(a.bytecode)

	var unresolved []string
	for _, name := range a.Libraries() {
		addr, ok := libs[name]
		if !ok {
			unresolved = append(unresolved, name)
			continue
		}
		addrHex := []byte(hex.EncodeToString(addr.Bytes()))
		for _, refs := range a.LinkReferences {
			for _, off := range refs[name] {
				if off.Length != common.AddressLength {
					return nil, fmt.Errorf("library %s has a %d byte placeholder", name, off.Length)
				}
				start := off.Start * 2
				end := start + len(addrHex)
				if start < 0 || end > len(code) {
					return nil, fmt.Errorf("library %s placeholder at %d is out of range", name, off.Start)
				}
				copy(code[start:end], addrHex)
			}
		}
	}
	if len(unresolved) > 0 {
		return nil, fmt.Errorf("unresolved libraries for %s: %s", a.ContractName, strings.Join(unresolved, ", "))
	}

	out, err := hex.DecodeString(string(code))
	if err != nil {
		return nil, fmt.Errorf("bytecode of %s is not fully linked: %w", a.ContractName, err)
	}
	return out, nil
}
