package artifacts

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const testPlaceholder = "__$0123456789abcdef0123456789abcdef01$__"

const testABI = `[{"type":"function","name":"initialize","inputs":[{"name":"admin","type":"address"}],"outputs":[],"stateMutability":"nonpayable"}]`

func hardhatArtifact(name string) string {
	return fmt.Sprintf(`{
  "contractName": %q,
  "abi": %s,
  "bytecode": "0x6080%s00",
  "linkReferences": {
    "contracts/libraries/LibUtils.sol": {
      "DarkForestUtils": [{"length": 20, "start": 2}]
    }
  }
}`, name, testABI, testPlaceholder)
}

func foundryArtifact() string {
	return fmt.Sprintf(`{
  "abi": %s,
  "bytecode": {
    "object": "0x60806040",
    "linkReferences": {}
  }
}`, testABI)
}

func TestParseArtifact(t *testing.T) {
	t.Run("hardhat", func(t *testing.T) {
		art, err := ParseArtifact([]byte(hardhatArtifact("DarkForestGetters")))
		require.NoError(t, err)
		require.Equal(t, "DarkForestGetters", art.ContractName)
		require.Contains(t, art.ABI.Methods, "initialize")
		require.Equal(t, []string{"DarkForestUtils"}, art.Libraries())
	})

	t.Run("foundry", func(t *testing.T) {
		art, err := ParseArtifact([]byte(foundryArtifact()))
		require.NoError(t, err)
		require.Empty(t, art.Libraries())
		code, err := art.Link(nil)
		require.NoError(t, err)
		require.Equal(t, common.FromHex("0x60806040"), code)
	})

	t.Run("missing bytecode", func(t *testing.T) {
		_, err := ParseArtifact([]byte(`{"abi": []}`))
		require.ErrorContains(t, err, "no bytecode")
	})

	t.Run("missing abi", func(t *testing.T) {
		_, err := ParseArtifact([]byte(`{"bytecode": "0x00"}`))
		require.ErrorContains(t, err, "no abi")
	})
}

func TestArtifactLink(t *testing.T) {
	art, err := ParseArtifact([]byte(hardhatArtifact("DarkForestGetters")))
	require.NoError(t, err)

	_, err = art.Link(nil)
	require.ErrorContains(t, err, "unresolved libraries for DarkForestGetters: DarkForestUtils")

	lib := common.HexToAddress("0x1111111111111111111111111111111111111111")
	code, err := art.Link(map[string]common.Address{"DarkForestUtils": lib})
	require.NoError(t, err)
	require.Len(t, code, 2+20+1)
	require.Equal(t, []byte{0x60, 0x80}, code[:2])
	require.Equal(t, lib.Bytes(), code[2:22])
	require.Equal(t, byte(0x00), code[22])

	// linking does not disturb the stored template
	_, err = art.Link(nil)
	require.Error(t, err)
}

func TestStore(t *testing.T) {
	fs := afero.NewMemMapFs()
	root := "/artifacts"
	write := func(path, content string) {
		require.NoError(t, afero.WriteFile(fs, filepath.Join(root, path), []byte(content), 0o644))
	}
	write("contracts/DarkForestGetters.sol/DarkForestGetters.json", hardhatArtifact("DarkForestGetters"))
	write("contracts/DarkForestGetters.sol/DarkForestGetters.dbg.json", `{"buildInfo": "x"}`)
	write("build-info/abc.json", `{}`)
	write("Whitelist.sol/Whitelist.json", foundryArtifact())

	store, err := NewStore(fs, root)
	require.NoError(t, err)

	art, err := store.Load("DarkForestGetters")
	require.NoError(t, err)
	require.Equal(t, "DarkForestGetters", art.ContractName)

	again, err := store.Load("DarkForestGetters")
	require.NoError(t, err)
	require.Same(t, art, again)

	wl, err := store.Load("Whitelist")
	require.NoError(t, err)
	require.Equal(t, "Whitelist", wl.ContractName)

	_, err = store.Load("abc")
	require.ErrorContains(t, err, "no artifact found")
}

func TestLocator_Marshaling(t *testing.T) {
	tests := []struct {
		name string
		in   string
		path string
		err  bool
	}{
		{
			name: "file URL",
			in:   "file:///tmp/artifacts",
			path: "/tmp/artifacts",
		},
		{
			name: "absolute path",
			in:   "/tmp/artifacts",
			path: "/tmp/artifacts",
		},
		{
			name: "empty",
			in:   "",
			err:  true,
		},
		{
			name: "unsupported scheme",
			in:   "https://example.com",
			err:  true,
		},
		{
			name: "file URL without path",
			in:   "file://",
			err:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := new(Locator)
			err := loc.UnmarshalText([]byte(tt.in))
			if tt.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, filepath.FromSlash(tt.path), loc.Path())

			out, err := loc.MarshalText()
			require.NoError(t, err)
			require.Equal(t, "file:///tmp/artifacts", string(out))
		})
	}
}
