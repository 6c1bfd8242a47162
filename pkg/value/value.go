// Package value defines the decoded ABI value tree and its canonical
// JSON-like representation.
package value

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Kind identifies the category of a decoded value.
type Kind string

const (
	KindBool         Kind = "bool"
	KindInt          Kind = "int"
	KindUint         Kind = "uint"
	KindFixedBytes   Kind = "fixed_bytes"
	KindAddress      Kind = "address"
	KindFunction     Kind = "function"
	KindBytes        Kind = "bytes"
	KindString       Kind = "string"
	KindArray        Kind = "array"
	KindFixedArray   Kind = "fixed_array"
	KindTuple        Kind = "tuple"
	KindCustomStruct Kind = "custom_struct"
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	return string(k)
}

// Value is a single decoded ABI value.
// The set of implementations is closed: every variant lives in this package
// and provides its own normalization.
type Value interface {
	// Kind returns the category of the value.
	Kind() Kind

	normalize() any
}

// Bool is a decoded `bool`.
type Bool bool

// Int is a decoded signed integer of the given bit width.
type Int struct {
	Value *big.Int
	Bits  int
}

// Uint is a decoded unsigned integer of the given bit width.
type Uint struct {
	Value *big.Int
	Bits  int
}

// FixedBytes is a decoded `bytesN`. Word holds the value left-aligned and
// zero padded to 32 bytes, Size is N.
type FixedBytes struct {
	Word common.Hash
	Size int
}

// Address is a decoded `address`.
type Address common.Address

// Function is a decoded `function` reference: a contract address followed by
// a 4-byte function selector.
type Function struct {
	Address  common.Address
	Selector [4]byte
}

// Bytes is a decoded dynamic `bytes`.
type Bytes []byte

// String is a decoded `string`.
type String string

// Array is a decoded dynamic array `T[]`.
type Array []Value

// FixedArray is a decoded fixed-size array `T[N]`.
type FixedArray []Value

// Tuple is a decoded tuple without field names.
type Tuple []Value

// CustomStruct is a decoded tuple declared as a named struct.
// PropNames and Tuple are aligned by position.
type CustomStruct struct {
	Name      string
	PropNames []string
	Tuple     []Value
}

func (Bool) Kind() Kind         { return KindBool }
func (Int) Kind() Kind          { return KindInt }
func (Uint) Kind() Kind         { return KindUint }
func (FixedBytes) Kind() Kind   { return KindFixedBytes }
func (Address) Kind() Kind      { return KindAddress }
func (Function) Kind() Kind     { return KindFunction }
func (Bytes) Kind() Kind        { return KindBytes }
func (String) Kind() Kind       { return KindString }
func (Array) Kind() Kind        { return KindArray }
func (FixedArray) Kind() Kind   { return KindFixedArray }
func (Tuple) Kind() Kind        { return KindTuple }
func (CustomStruct) Kind() Kind { return KindCustomStruct }

// NewFixedBytes copies b into a left-aligned 32-byte word.
// Input longer than 32 bytes is truncated.
func NewFixedBytes(b []byte) FixedBytes {
	var word common.Hash
	n := copy(word[:], b)
	return FixedBytes{Word: word, Size: n}
}

// NewFunction splits a 24-byte function reference into address and selector.
func NewFunction(raw [24]byte) Function {
	var f Function
	copy(f.Address[:], raw[:common.AddressLength])
	copy(f.Selector[:], raw[common.AddressLength:])
	return f
}

// Bytes24 returns the packed address ‖ selector form.
func (f Function) Bytes24() [24]byte {
	var out [24]byte
	copy(out[:], f.Address[:])
	copy(out[common.AddressLength:], f.Selector[:])
	return out
}
