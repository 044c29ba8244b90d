/*
 * Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License").
 * You may not use this file except in compliance with the License.
 * A copy of the License is located at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * or in the "license" file accompanying this file. This file is distributed
 * on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
 * express or implied. See the License for the specific language governing
 * permissions and limitations under the License.
 */

package ion

import (
	"math"
	"math/big"
)

// Kind identifies which variant of Value is populated.
type Kind uint8

// The Ion value kinds, in wire type-nibble order.
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindDecimal
	KindTimestamp
	KindSymbol
	KindString
	KindClob
	KindBlob
	KindList
	KindSExpr
	KindStruct
	KindAnnotation
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDecimal:
		return "decimal"
	case KindTimestamp:
		return "timestamp"
	case KindSymbol:
		return "symbol"
	case KindString:
		return "string"
	case KindClob:
		return "clob"
	case KindBlob:
		return "blob"
	case KindList:
		return "list"
	case KindSExpr:
		return "sexp"
	case KindStruct:
		return "struct"
	case KindAnnotation:
		return "annotation"
	default:
		return "<unknown kind>"
	}
}

// Value is a single Ion value: exactly one Kind is populated, and only the
// fields relevant to that Kind are meaningful. Containers own their
// children; there is no shared ownership.
type Value struct {
	Kind Kind

	// NullKind is meaningful only when Kind == KindNull: it records which
	// type this typed null stands in for (KindNull itself for the
	// untyped null).
	NullKind Kind

	Bool bool

	// Int holds an arbitrary-precision integer. Use IsExactInt64 to query
	// whether it fits in a native int64.
	Int *big.Int

	// Float holds both binary32 and binary64 values; FloatIs32 records
	// that the value is a binary32.
	FloatIs32 bool
	Float     float64

	Decimal Decimal

	Timestamp Timestamp

	// String holds text for both KindString and KindSymbol (the resolved
	// symbol string, never a raw symbol ID).
	String string

	// Bytes holds the opaque payload for KindClob and KindBlob.
	Bytes []byte

	// List holds ordered children for KindList and KindSExpr.
	List []Value

	// Struct holds field values for KindStruct, keyed by field name.
	// Per the documented duplicate-field policy, the wire decoder
	// collapses repeated field names to the last occurrence; this map
	// cannot itself represent duplicates.
	Struct map[string]Value

	// Annotations and Annotated are meaningful only when Kind ==
	// KindAnnotation: Annotations is non-empty and Annotated must not
	// itself be a KindAnnotation value.
	Annotations []string
	Annotated   *Value
}

// Null returns the untyped null value.
func Null() Value { return Value{Kind: KindNull, NullKind: KindNull} }

// TypedNull returns a typed null value of the given kind.
func TypedNull(kind Kind) Value { return Value{Kind: KindNull, NullKind: kind} }

// BoolValue returns a boolean value.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// IntValue returns an integer value from a native int64.
func IntValue(n int64) Value { return Value{Kind: KindInt, Int: big.NewInt(n)} }

// BigIntValue returns an integer value from an arbitrary-precision integer.
func BigIntValue(n *big.Int) Value { return Value{Kind: KindInt, Int: new(big.Int).Set(n)} }

// Float64Value returns a binary64 float value.
func Float64Value(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// Float32Value returns a binary32 float value, stored as its exact
// float64 promotion with FloatIs32 set so the encoder knows to narrow it
// back down on the wire.
func Float32Value(f float32) Value {
	return Value{Kind: KindFloat, Float: float64(f), FloatIs32: true}
}

// DecimalValue returns a decimal value.
func DecimalValue(d Decimal) Value { return Value{Kind: KindDecimal, Decimal: d} }

// TimestampValue returns a timestamp value.
func TimestampValue(t Timestamp) Value { return Value{Kind: KindTimestamp, Timestamp: t} }

// StringValue returns a string value.
func StringValue(s string) Value { return Value{Kind: KindString, String: s} }

// SymbolValue returns a symbol value carrying the resolved text (use "$0"
// for the unknown-symbol sentinel).
func SymbolValue(s string) Value { return Value{Kind: KindSymbol, String: s} }

// ClobValue returns a clob value.
func ClobValue(b []byte) Value { return Value{Kind: KindClob, Bytes: append([]byte(nil), b...)} }

// BlobValue returns a blob value.
func BlobValue(b []byte) Value { return Value{Kind: KindBlob, Bytes: append([]byte(nil), b...)} }

// ListValue returns a list value.
func ListValue(vs []Value) Value { return Value{Kind: KindList, List: vs} }

// SExprValue returns an s-expression value.
func SExprValue(vs []Value) Value { return Value{Kind: KindSExpr, List: vs} }

// StructValue returns a struct value.
func StructValue(fields map[string]Value) Value { return Value{Kind: KindStruct, Struct: fields} }

// AnnotationValue wraps a value with one or more annotation strings. It
// panics if annotated is itself a KindAnnotation value or if annotations is
// empty, since both are illegal per the wire format.
func AnnotationValue(annotations []string, annotated Value) Value {
	if len(annotations) == 0 {
		panic("ion: AnnotationValue requires at least one annotation")
	}
	if annotated.Kind == KindAnnotation {
		panic("ion: AnnotationValue cannot wrap another annotation")
	}
	v := annotated
	return Value{
		Kind:        KindAnnotation,
		Annotations: append([]string(nil), annotations...),
		Annotated:   &v,
	}
}

// IsNull reports whether v is any null variant (typed or untyped).
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	out := v
	if v.Int != nil {
		out.Int = new(big.Int).Set(v.Int)
	}
	out.Decimal = v.Decimal.Clone()
	out.Timestamp = v.Timestamp.Clone()
	if v.Bytes != nil {
		out.Bytes = append([]byte(nil), v.Bytes...)
	}
	if v.List != nil {
		out.List = make([]Value, len(v.List))
		for i, c := range v.List {
			out.List[i] = c.Clone()
		}
	}
	if v.Struct != nil {
		out.Struct = make(map[string]Value, len(v.Struct))
		for k, c := range v.Struct {
			out.Struct[k] = c.Clone()
		}
	}
	if v.Annotations != nil {
		out.Annotations = append([]string(nil), v.Annotations...)
	}
	if v.Annotated != nil {
		a := v.Annotated.Clone()
		out.Annotated = &a
	}
	return out
}

// Equal reports whether v and other are structurally equal per the Ion
// value-equality semantics: two NaN floats are NOT equal (IEEE-754), two
// decimals/timestamps are equal iff mathematically equal regardless of
// trailing-zero precision, and struct field order never matters.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return v.NullKind == other.NullKind
	case KindBool:
		return v.Bool == other.Bool
	case KindInt:
		return intOrNil(v.Int).Cmp(intOrNil(other.Int)) == 0
	case KindFloat:
		return v.Float == other.Float // NaN != NaN, matching IEEE-754
	case KindDecimal:
		return v.Decimal.Equal(other.Decimal)
	case KindTimestamp:
		return v.Timestamp.Equal(other.Timestamp)
	case KindSymbol, KindString:
		return v.String == other.String
	case KindClob, KindBlob:
		return bytesEqual(v.Bytes, other.Bytes)
	case KindList, KindSExpr:
		if len(v.List) != len(other.List) {
			return false
		}
		for i := range v.List {
			if !v.List[i].Equal(other.List[i]) {
				return false
			}
		}
		return true
	case KindStruct:
		if len(v.Struct) != len(other.Struct) {
			return false
		}
		for k, c := range v.Struct {
			oc, ok := other.Struct[k]
			if !ok || !c.Equal(oc) {
				return false
			}
		}
		return true
	case KindAnnotation:
		if len(v.Annotations) != len(other.Annotations) {
			return false
		}
		for i := range v.Annotations {
			if v.Annotations[i] != other.Annotations[i] {
				return false
			}
		}
		if (v.Annotated == nil) != (other.Annotated == nil) {
			return false
		}
		if v.Annotated == nil {
			return true
		}
		return v.Annotated.Equal(*other.Annotated)
	default:
		return false
	}
}

func intOrNil(n *big.Int) *big.Int {
	if n == nil {
		return new(big.Int)
	}
	return n
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsExactInt64 reports whether v's integer payload fits in a native int64.
func (v Value) IsExactInt64() (int64, bool) {
	if v.Kind != KindInt || v.Int == nil {
		return 0, false
	}
	if !v.Int.IsInt64() {
		return 0, false
	}
	return v.Int.Int64(), true
}

// isFinite reports whether f is neither NaN nor infinite.
func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
