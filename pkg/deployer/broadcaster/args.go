package broadcaster

import (
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var bigIntType = reflect.TypeOf((*big.Int)(nil))

// ConvertArgs coerces loosely typed values, as decoded from TOML or YAML,
// into the Go types the ABI packer expects for the given inputs.
func ConvertArgs(inputs abi.Arguments, args []any) ([]any, error) {
	if len(inputs) != len(args) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(inputs), len(args))
	}
	out := make([]any, len(args))
	for i, input := range inputs {
		v, err := convertValue(input.Type, args[i])
		if err != nil {
			name := input.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("argument %s: %w", name, err)
		}
		out[i] = v.Interface()
	}
	return out, nil
}

func convertValue(t abi.Type, v any) (reflect.Value, error) {
	target := t.GetType()
	if v == nil {
		return reflect.Value{}, fmt.Errorf("missing %s value", t.String())
	}
	if rv := reflect.ValueOf(v); rv.Type() == target {
		return rv, nil
	}

	switch t.T {
	case abi.AddressTy:
		switch x := v.(type) {
		case string:
			if !common.IsHexAddress(x) {
				return reflect.Value{}, fmt.Errorf("invalid address %q", x)
			}
			return reflect.ValueOf(common.HexToAddress(x)), nil
		case *common.Address:
			return reflect.ValueOf(*x), nil
		}
	case abi.BoolTy:
		if b, ok := v.(bool); ok {
			return reflect.ValueOf(b), nil
		}
	case abi.StringTy:
		if s, ok := v.(string); ok {
			return reflect.ValueOf(s), nil
		}
	case abi.IntTy, abi.UintTy:
		return convertInteger(t, target, v)
	case abi.FixedBytesTy, abi.BytesTy:
		return convertBytes(t, target, v)
	case abi.SliceTy, abi.ArrayTy:
		return convertList(t, target, v)
	case abi.TupleTy:
		return convertTuple(t, target, v)
	}
	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", v, t.String())
}

func convertInteger(t abi.Type, target reflect.Type, v any) (reflect.Value, error) {
	n, err := toBigInt(v)
	if err != nil {
		return reflect.Value{}, err
	}
	if t.T == abi.UintTy {
		if n.Sign() < 0 {
			return reflect.Value{}, fmt.Errorf("negative value %s for %s", n, t.String())
		}
		if n.BitLen() > t.Size {
			return reflect.Value{}, fmt.Errorf("value %s overflows %s", n, t.String())
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return reflect.Value{}, fmt.Errorf("value %s overflows %s", n, t.String())
		}
	}

	if target == bigIntType {
		return reflect.ValueOf(n), nil
	}
	if t.T == abi.UintTy {
		return reflect.ValueOf(n.Uint64()).Convert(target), nil
	}
	return reflect.ValueOf(n.Int64()).Convert(target), nil
}

const maxExactFloat = 1 << 53

func toBigInt(v any) (*big.Int, error) {
	switch x := v.(type) {
	case int:
		return big.NewInt(int64(x)), nil
	case int64:
		return big.NewInt(x), nil
	case int32:
		return big.NewInt(int64(x)), nil
	case uint:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint64:
		return new(big.Int).SetUint64(x), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(x)), nil
	case float64:
		if math.IsInf(x, 0) || math.IsNaN(x) {
			return nil, fmt.Errorf("invalid integer %v", x)
		}
		if x != math.Trunc(x) {
			return nil, fmt.Errorf("non-integer value %v", x)
		}
		// larger floats have already lost precision when decoded
		if math.Abs(x) > maxExactFloat {
			return nil, fmt.Errorf("value %v is too large for a float, quote it as a string", x)
		}
		n, _ := big.NewFloat(x).Int(nil)
		return n, nil
	case *big.Int:
		return new(big.Int).Set(x), nil
	case string:
		return parseIntegerString(x)
	}
	return nil, fmt.Errorf("cannot use %T as an integer", v)
}

func parseIntegerString(s string) (*big.Int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		n, ok := new(big.Int).SetString(s, 0)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", s)
		}
		return n, nil
	}
	n, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("invalid integer %q: %w", s, err)
	}
	return n.ToBig(), nil
}

func convertBytes(t abi.Type, target reflect.Type, v any) (reflect.Value, error) {
	s, ok := v.(string)
	if !ok {
		return reflect.Value{}, fmt.Errorf("cannot use %T as %s", v, t.String())
	}
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return reflect.Value{}, fmt.Errorf("invalid hex %q: %w", s, err)
	}
	if t.T == abi.BytesTy {
		return reflect.ValueOf(b), nil
	}
	if len(b) > t.Size {
		return reflect.Value{}, fmt.Errorf("%d bytes do not fit %s", len(b), t.String())
	}
	out := reflect.New(target).Elem()
	reflect.Copy(out, reflect.ValueOf(b))
	return out, nil
}

func convertList(t abi.Type, target reflect.Type, v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return reflect.Value{}, fmt.Errorf("cannot use %T as %s", v, t.String())
	}
	var out reflect.Value
	if t.T == abi.ArrayTy {
		if rv.Len() != t.Size {
			return reflect.Value{}, fmt.Errorf("expected %d elements for %s, got %d", t.Size, t.String(), rv.Len())
		}
		out = reflect.New(target).Elem()
	} else {
		out = reflect.MakeSlice(target, rv.Len(), rv.Len())
	}
	for i := 0; i < rv.Len(); i++ {
		elem, err := convertValue(*t.Elem, rv.Index(i).Interface())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
		}
		out.Index(i).Set(elem)
	}
	return out, nil
}

func convertTuple(t abi.Type, target reflect.Type, v any) (reflect.Value, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return reflect.Value{}, fmt.Errorf("cannot use %T as tuple %s", v, t.String())
	}
	out := reflect.New(target).Elem()
	for i, name := range t.TupleRawNames {
		raw, ok := m[name]
		if !ok {
			return reflect.Value{}, fmt.Errorf("missing tuple field %s", name)
		}
		elem, err := convertValue(*t.TupleElems[i], raw)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("tuple field %s: %w", name, err)
		}
		out.Field(i).Set(elem)
	}
	return out, nil
}
