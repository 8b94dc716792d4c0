package broadcaster

import (
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

const coreInitializeABI = `[{"type":"function","name":"initialize","stateMutability":"nonpayable","outputs":[],"inputs":[
  {"name":"_adminAddress","type":"address"},
  {"name":"_whitelistAddress","type":"address"},
  {"name":"_tokensAddress","type":"address"},
  {"name":"initArgs","type":"tuple","components":[
    {"name":"ADMIN_CAN_ADD_PLANETS","type":"bool"},
    {"name":"WORLD_RADIUS_MIN","type":"uint256"},
    {"name":"PLANET_RARITY","type":"uint32"},
    {"name":"DISABLE_ZK_CHECKS","type":"bool"},
    {"name":"PLANETHASH_KEY","type":"uint256"},
    {"name":"PLANET_TYPE_WEIGHTS","type":"uint8[4][2]"},
    {"name":"ARTIFACT_POINT_VALUES","type":"uint256[]"},
    {"name":"LOCATION_REVEAL_COOLDOWN","type":"int64"},
    {"name":"SEED","type":"bytes32"}
  ]}
]}]`

func TestConvertArgs(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(coreInitializeABI))
	require.NoError(t, err)
	method := parsed.Methods["initialize"]

	admin := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	initArgs := map[string]any{
		"ADMIN_CAN_ADD_PLANETS":    true,
		"WORLD_RADIUS_MIN":         int64(1000),
		"PLANET_RARITY":            16384,
		"DISABLE_ZK_CHECKS":        false,
		"PLANETHASH_KEY":           "115792089237316195423570985008687907853269984665640564039457584007913129639935",
		"PLANET_TYPE_WEIGHTS":      []any{[]any{1, 2, 3, 4}, []any{int64(5), 6, 7, 8}},
		"ARTIFACT_POINT_VALUES":    []any{0, float64(2000), "0x61a8"},
		"LOCATION_REVEAL_COOLDOWN": -1,
		"SEED":                     "0x01",
	}

	args, err := ConvertArgs(method.Inputs, []any{
		admin,
		"0x00000000000000000000000000000000000000bb",
		&admin,
		initArgs,
	})
	require.NoError(t, err)
	require.Equal(t, admin, args[0])
	require.Equal(t, common.HexToAddress("0xbb"), args[1])
	require.Equal(t, admin, args[2])

	// the converted values are accepted by the packer
	_, err = parsed.Pack("initialize", args...)
	require.NoError(t, err)

	tuple := method.Inputs[3].Type
	decoded, err := abi.Arguments{{Type: tuple}}.Unpack(mustPackTuple(t, tuple, args[3]))
	require.NoError(t, err)
	require.Len(t, decoded, 1)
}

func mustPackTuple(t *testing.T, tuple abi.Type, v any) []byte {
	out, err := abi.Arguments{{Type: tuple}}.Pack(v)
	require.NoError(t, err)
	return out
}

func TestConvertArgsErrors(t *testing.T) {
	newArgs := func(types ...string) abi.Arguments {
		var out abi.Arguments
		for _, typ := range types {
			ty, err := abi.NewType(typ, "", nil)
			require.NoError(t, err)
			out = append(out, abi.Argument{Name: "x", Type: ty})
		}
		return out
	}

	tests := []struct {
		name  string
		types []string
		args  []any
		err   string
	}{
		{"arity", []string{"bool"}, []any{true, false}, "expected 1 arguments"},
		{"nil", []string{"address"}, []any{nil}, "missing address"},
		{"bad address", []string{"address"}, []any{"0x1234"}, "invalid address"},
		{"uint overflow", []string{"uint8"}, []any{256}, "overflows uint8"},
		{"negative uint", []string{"uint256"}, []any{-1}, "negative value"},
		{"fractional", []string{"uint256"}, []any{1.5}, "non-integer"},
		{"bad decimal", []string{"uint256"}, []any{"12ab"}, "invalid integer"},
		{"wrong kind", []string{"bool"}, []any{"true"}, "cannot use string as bool"},
		{"array length", []string{"uint8[2]"}, []any{[]any{1}}, "expected 2 elements"},
		{"bytes too long", []string{"bytes2"}, []any{"0x010203"}, "do not fit"},
		{"positive infinity", []string{"uint256"}, []any{math.Inf(1)}, "invalid integer"},
		{"negative infinity", []string{"int256"}, []any{math.Inf(-1)}, "invalid integer"},
		{"nan", []string{"uint256"}, []any{math.NaN()}, "invalid integer"},
		{"inexact float", []string{"uint256"}, []any{float64(1 << 60)}, "too large for a float"},
		{"int overflow", []string{"int8"}, []any{128}, "overflows int8"},
		{"int underflow", []string{"int8"}, []any{-129}, "overflows int8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ConvertArgs(newArgs(tt.types...), tt.args)
			require.ErrorContains(t, err, tt.err)
		})
	}
}

func TestToBigInt(t *testing.T) {
	tests := []struct {
		in   any
		want *big.Int
	}{
		{42, big.NewInt(42)},
		{int64(-7), big.NewInt(-7)},
		{uint64(9), big.NewInt(9)},
		{float64(1e6), big.NewInt(1_000_000)},
		{"1_000", big.NewInt(1000)},
		{"0xff", big.NewInt(255)},
		{"-12", big.NewInt(-12)},
		{big.NewInt(3), big.NewInt(3)},
	}
	for _, tt := range tests {
		got, err := toBigInt(tt.in)
		require.NoError(t, err)
		require.Zero(t, tt.want.Cmp(got), "%v: got %s", tt.in, got)
	}
}

func TestConvertArgsSignedBounds(t *testing.T) {
	int8Type, err := abi.NewType("int8", "", nil)
	require.NoError(t, err)
	int256Type, err := abi.NewType("int256", "", nil)
	require.NoError(t, err)
	args := abi.Arguments{{Name: "small", Type: int8Type}, {Name: "large", Type: int256Type}}

	minInt256 := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 255))
	out, err := ConvertArgs(args, []any{int64(-128), minInt256})
	require.NoError(t, err)
	require.Equal(t, int8(-128), out[0])
	require.Zero(t, minInt256.Cmp(out[1].(*big.Int)))

	out, err = ConvertArgs(args, []any{127, float64(1 << 53)})
	require.NoError(t, err)
	require.Equal(t, int8(127), out[0])
	require.Zero(t, big.NewInt(1<<53).Cmp(out[1].(*big.Int)))
}
