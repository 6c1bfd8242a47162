package value

import (
	"encoding/base64"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is the JSON object representation used for named structs and
// decoded events. It serializes keys in insertion order.
type Object = orderedmap.OrderedMap[string, any]

// NewObject returns an empty Object.
func NewObject() *Object {
	return orderedmap.New[string, any]()
}

// Normalize converts a decoded value into its canonical JSON-like form.
//
// The result is built from bool, string, []any and *Object only:
// integers become base-10 strings, byte strings become standard base64,
// addresses use their EIP-55 checksummed form, arrays and tuples become
// arrays and named structs become objects keyed by property name.
func Normalize(v Value) any {
	return v.normalize()
}

func (b Bool) normalize() any {
	return bool(b)
}

func (i Int) normalize() any {
	return decimal(i.Value)
}

func (u Uint) normalize() any {
	return decimal(u.Value)
}

// The whole 32-byte word is encoded, padding included.
func (f FixedBytes) normalize() any {
	return base64.StdEncoding.EncodeToString(f.Word[:])
}

func (a Address) normalize() any {
	return common.Address(a).Hex()
}

func (f Function) normalize() any {
	raw := f.Bytes24()
	return hexutil.Encode(raw[:])
}

func (b Bytes) normalize() any {
	return base64.StdEncoding.EncodeToString(b)
}

func (s String) normalize() any {
	return string(s)
}

func (a Array) normalize() any {
	return normalizeAll(a)
}

func (a FixedArray) normalize() any {
	return normalizeAll(a)
}

func (t Tuple) normalize() any {
	return normalizeAll(t)
}

// The struct name is not part of the encoding.
func (s CustomStruct) normalize() any {
	obj := NewObject()
	for i, name := range s.PropNames {
		if i >= len(s.Tuple) {
			break
		}
		obj.Set(name, s.Tuple[i].normalize())
	}
	return obj
}

func normalizeAll(values []Value) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v.normalize()
	}
	return out
}

func decimal(n *big.Int) string {
	if n == nil {
		return "0"
	}
	return n.String()
}
