package decoder

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/goran-ethernal/ChainDecoder/pkg/value"
)

// FromABI converts a Go value produced by go-ethereum's unpacker for typ into
// a value tree.
func FromABI(typ abi.Type, v any) (value.Value, error) {
	switch typ.T {
	case abi.BoolTy:
		b, ok := v.(bool)
		if !ok {
			return nil, mismatch(typ, v)
		}
		return value.Bool(b), nil

	case abi.IntTy:
		n, err := toBigInt(v)
		if err != nil {
			return nil, err
		}
		return value.Int{Value: n, Bits: typ.Size}, nil

	case abi.UintTy:
		n, err := toBigInt(v)
		if err != nil {
			return nil, err
		}
		return value.Uint{Value: n, Bits: typ.Size}, nil

	case abi.AddressTy:
		a, ok := v.(common.Address)
		if !ok {
			return nil, mismatch(typ, v)
		}
		return value.Address(a), nil

	case abi.StringTy:
		s, ok := v.(string)
		if !ok {
			return nil, mismatch(typ, v)
		}
		return value.String(s), nil

	case abi.BytesTy:
		b, ok := v.([]byte)
		if !ok {
			return nil, mismatch(typ, v)
		}
		return value.Bytes(common.CopyBytes(b)), nil

	case abi.FixedBytesTy:
		b, err := byteArray(v)
		if err != nil {
			return nil, err
		}
		fb := value.NewFixedBytes(b)
		fb.Size = typ.Size
		return fb, nil

	case abi.HashTy:
		h, ok := v.(common.Hash)
		if !ok {
			return nil, mismatch(typ, v)
		}
		return value.FixedBytes{Word: h, Size: common.HashLength}, nil

	case abi.FunctionTy:
		raw, ok := v.([24]byte)
		if !ok {
			return nil, mismatch(typ, v)
		}
		return value.NewFunction(raw), nil

	case abi.SliceTy:
		elems, err := convertElems(typ, v)
		if err != nil {
			return nil, err
		}
		return value.Array(elems), nil

	case abi.ArrayTy:
		elems, err := convertElems(typ, v)
		if err != nil {
			return nil, err
		}
		return value.FixedArray(elems), nil

	case abi.TupleTy:
		return convertTuple(typ, v)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, typ.String())
	}
}

func convertElems(typ abi.Type, v any) ([]value.Value, error) {
	if typ.Elem == nil {
		return nil, fmt.Errorf("%w: %s has no element type", ErrUnsupportedType, typ.String())
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, mismatch(typ, v)
	}

	elems := make([]value.Value, rv.Len())
	for i := range elems {
		elem, err := FromABI(*typ.Elem, rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		elems[i] = elem
	}

	return elems, nil
}

// convertTuple walks the struct built by the unpacker. Its fields follow the
// order of typ.TupleElems.
func convertTuple(typ abi.Type, v any) (value.Value, error) {
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct || rv.NumField() != len(typ.TupleElems) {
		return nil, mismatch(typ, v)
	}

	elems := make([]value.Value, len(typ.TupleElems))
	for i, elemType := range typ.TupleElems {
		elem, err := FromABI(*elemType, rv.Field(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		elems[i] = elem
	}

	if typ.TupleRawName == "" {
		return value.Tuple(elems), nil
	}

	names := make([]string, len(typ.TupleRawNames))
	copy(names, typ.TupleRawNames)

	return value.CustomStruct{
		Name:      typ.TupleRawName,
		PropNames: names,
		Tuple:     elems,
	}, nil
}

func toBigInt(v any) (*big.Int, error) {
	if n, ok := v.(*big.Int); ok {
		if n == nil {
			return nil, fmt.Errorf("nil integer")
		}
		return new(big.Int).Set(n), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return new(big.Int).SetUint64(rv.Uint()), nil
	default:
		return nil, fmt.Errorf("unsupported integer representation %T", v)
	}
}

func byteArray(v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Array || rv.Type().Elem().Kind() != reflect.Uint8 {
		return nil, fmt.Errorf("unsupported fixed bytes representation %T", v)
	}

	b := make([]byte, rv.Len())
	for i := range b {
		b[i] = byte(rv.Index(i).Uint())
	}
	return b, nil
}

func mismatch(typ abi.Type, v any) error {
	return fmt.Errorf("cannot convert %T to %s", v, typ.String())
}
