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
	"sort"
)

// Encoder buffers a sequence of top-level Value trees and serializes them
// in one pass: values are encoded first (interning symbol text into a
// local symbol table as they go), then the table's directive is written
// ahead of the buffered value bytes, since the directive has to come
// first on the wire but isn't known complete until every value has been
// visited.
type Encoder struct {
	catalog *Catalog
	builder *SymbolTableBuilder
	table   *LocalSymbolTable
	values  []Value
}

// NewEncoder returns an empty Encoder with a fresh catalog.
func NewEncoder() *Encoder {
	cat := NewCatalog()
	return &Encoder{catalog: cat, builder: NewSymbolTableBuilder(cat)}
}

// WithCatalog replaces the encoder's catalog, used to resolve import
// declarations added with Import.
func (e *Encoder) WithCatalog(cat *Catalog) *Encoder {
	e.catalog = cat
	e.builder = NewSymbolTableBuilder(cat)
	return e
}

// Import declares a shared-table import to appear in the encoded stream's
// local symbol table, ahead of any symbols interned from added values.
func (e *Encoder) Import(name string, version int, maxID int) *Encoder {
	e.builder.Import(name, version, maxID)
	return e
}

// Add queues a top-level value to be written.
func (e *Encoder) Add(v Value) *Encoder {
	e.values = append(e.values, v)
	return e
}

// Encode serializes every queued value, prefixed by the version marker
// and, if any imports or local symbols ended up in use, the local
// symbol-table directive that declares them.
func (e *Encoder) Encode() ([]byte, error) {
	table, err := e.builder.Build()
	if err != nil {
		return nil, err
	}
	e.table = table

	var body []byte
	for _, v := range e.values {
		vb, err := e.encodeValue(v)
		if err != nil {
			return nil, err
		}
		body = append(body, vb...)
	}

	out := append([]byte(nil), byteVersionMarker[:]...)
	if len(e.table.Imports()) > 0 || len(e.table.LocalSymbols()) > 0 {
		dir, err := e.encodeDirective()
		if err != nil {
			return nil, err
		}
		out = append(out, dir...)
	}
	return append(out, body...), nil
}

func (e *Encoder) encodeDirective() ([]byte, error) {
	fields := make(map[string]Value)

	if imports := e.table.Imports(); len(imports) > 0 {
		entries := make([]Value, len(imports))
		for i, imp := range imports {
			entries[i] = StructValue(map[string]Value{
				"name":    StringValue(imp.Name),
				"version": IntValue(int64(imp.Version)),
				"max_id":  IntValue(int64(imp.MaxID)),
			})
		}
		fields["imports"] = ListValue(entries)
	}

	if locals := e.table.LocalSymbols(); len(locals) > 0 {
		entries := make([]Value, len(locals))
		for i, s := range locals {
			entries[i] = StringValue(s)
		}
		fields["symbols"] = ListValue(entries)
	}

	directive := AnnotationValue([]string{"$ion_symbol_table"}, StructValue(fields))
	return e.encodeValue(directive)
}

func (e *Encoder) encodeValue(v Value) ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte{byte(kindTypeCode(v.NullKind))<<4 | 0x0F}, nil
	case KindBool:
		code := byte(tcBool) << 4
		if v.Bool {
			code |= 1
		}
		return []byte{code}, nil
	case KindInt:
		return e.encodeInt(v)
	case KindFloat:
		return e.encodeFloat(v)
	case KindDecimal:
		return e.encodeDecimal(v)
	case KindTimestamp:
		return e.encodeTimestamp(v)
	case KindSymbol:
		return e.encodeSymbol(v)
	case KindString:
		return appendTaggedContent(tcString, []byte(v.String)), nil
	case KindClob:
		return appendTaggedContent(tcClob, v.Bytes), nil
	case KindBlob:
		return appendTaggedContent(tcBlob, v.Bytes), nil
	case KindList:
		return e.encodeContainer(tcList, v.List)
	case KindSExpr:
		return e.encodeContainer(tcSExpr, v.List)
	case KindStruct:
		return e.encodeStruct(v)
	case KindAnnotation:
		return e.encodeAnnotation(v)
	default:
		return nil, &TypeNotSupportedError{Kind: v.Kind}
	}
}

func kindTypeCode(k Kind) typeCode {
	switch k {
	case KindBool:
		return tcBool
	case KindFloat:
		return tcFloat
	case KindDecimal:
		return tcDecimal
	case KindTimestamp:
		return tcTimestamp
	case KindSymbol:
		return tcSymbol
	case KindString:
		return tcString
	case KindClob:
		return tcClob
	case KindBlob:
		return tcBlob
	case KindList:
		return tcList
	case KindSExpr:
		return tcSExpr
	case KindStruct:
		return tcStruct
	case KindInt:
		return tcPositiveInt
	default:
		return tcNullOrNop
	}
}

// appendTag appends a type+length tag, using the long VarUInt form once
// the length no longer fits the 4-bit short form.
func appendTag(b []byte, t typeCode, length uint64) []byte {
	code := byte(t) << 4
	if length < 14 {
		return append(b, code|byte(length))
	}
	b = append(b, code|0x0E)
	return appendVarUIntU64(b, length)
}

func appendTaggedContent(t typeCode, content []byte) []byte {
	b := appendTag(nil, t, uint64(len(content)))
	return append(b, content...)
}

func (e *Encoder) encodeInt(v Value) ([]byte, error) {
	n := v.Int
	if n == nil {
		n = new(big.Int)
	}
	t := tcPositiveInt
	mag := n
	if n.Sign() < 0 {
		t = tcNegativeInt
		mag = new(big.Int).Neg(n)
	}
	b := appendTag(nil, t, uintLen(mag))
	return appendUInt(b, mag), nil
}

func (e *Encoder) encodeFloat(v Value) ([]byte, error) {
	if v.FloatIs32 {
		bits := math.Float32bits(float32(v.Float))
		b := appendTag(nil, tcFloat, 4)
		return append(b, byte(bits>>24), byte(bits>>16), byte(bits>>8), byte(bits)), nil
	}
	bits := math.Float64bits(v.Float)
	b := appendTag(nil, tcFloat, 8)
	for i := 7; i >= 0; i-- {
		b = append(b, byte(bits>>(8*uint(i))))
	}
	return b, nil
}

func (e *Encoder) encodeDecimal(v Value) ([]byte, error) {
	d := v.Decimal
	mag := decimalMagnitude(d)

	if mag.Sign() == 0 && !d.Negative && d.Exponent == 0 {
		return []byte{byte(tcDecimal) << 4}, nil
	}

	var body []byte
	body = appendVarInt(body, big.NewInt(int64(d.Exponent)))
	if mag.Sign() == 0 {
		if d.Negative {
			body = append(body, 0x80)
		}
		// positive zero coefficient contributes no magnitude byte
	} else {
		coeff := new(big.Int).Set(mag)
		if d.Negative {
			coeff.Neg(coeff)
		}
		body = appendBigInt(body, coeff)
	}

	b := appendTag(nil, tcDecimal, uint64(len(body)))
	return append(b, body...), nil
}

func (e *Encoder) encodeTimestamp(v Value) ([]byte, error) {
	body := encodeTimestampBody(v.Timestamp)
	b := appendTag(nil, tcTimestamp, uint64(len(body)))
	return append(b, body...), nil
}

// encodeTimestampBody appends the offset/year/.../fraction fields a
// timestamp's tag+length header wraps on the wire. hash.go reuses it for
// the hash encoding, which prefixes the same body with a bare marker byte
// instead of a tag+length header.
func encodeTimestampBody(t Timestamp) []byte {
	var body []byte

	if !t.OffsetKnown {
		body = append(body, 0xC0) // VarInt -0: sign + end bits, zero magnitude
	} else {
		body = appendVarInt(body, big.NewInt(int64(t.OffsetMinutes)))
	}

	body = appendVarUIntU64(body, uint64(t.Year))
	if t.Precision >= PrecisionMonth {
		body = appendVarUIntU64(body, uint64(t.Month))
	}
	if t.Precision >= PrecisionDay {
		body = appendVarUIntU64(body, uint64(t.Day))
	}
	if t.Precision >= PrecisionMinute {
		body = appendVarUIntU64(body, uint64(t.Hour))
		body = appendVarUIntU64(body, uint64(t.Minute))
	}
	if t.Precision >= PrecisionSecond {
		body = appendVarUIntU64(body, uint64(t.Second))
	}
	if t.Precision == PrecisionNanosecond {
		body = appendVarInt(body, big.NewInt(int64(t.FractionExponent)))
		coeff := t.FractionCoefficient
		if coeff == nil {
			coeff = new(big.Int)
		}
		body = appendBigInt(body, coeff)
	}

	return body
}

func (e *Encoder) encodeSymbol(v Value) ([]byte, error) {
	id := 0
	if v.String != "$0" {
		id = e.table.Intern(v.String)
	}
	mag := big.NewInt(int64(id))
	b := appendTag(nil, tcSymbol, uintLen(mag))
	return appendUInt(b, mag), nil
}

func (e *Encoder) encodeContainer(t typeCode, children []Value) ([]byte, error) {
	var body []byte
	for _, c := range children {
		cb, err := e.encodeValue(c)
		if err != nil {
			return nil, err
		}
		body = append(body, cb...)
	}
	b := appendTag(nil, t, uint64(len(body)))
	return append(b, body...), nil
}

func (e *Encoder) encodeStruct(v Value) ([]byte, error) {
	names := make([]string, 0, len(v.Struct))
	for name := range v.Struct {
		names = append(names, name)
	}
	sort.Strings(names) // deterministic output; field order carries no meaning

	var body []byte
	for _, name := range names {
		id := e.table.Intern(name)
		body = appendVarUIntU64(body, uint64(id))
		fb, err := e.encodeValue(v.Struct[name])
		if err != nil {
			return nil, err
		}
		body = append(body, fb...)
	}
	b := appendTag(nil, tcStruct, uint64(len(body)))
	return append(b, body...), nil
}

func (e *Encoder) encodeAnnotation(v Value) ([]byte, error) {
	if v.Annotated == nil {
		return nil, &NullAnnotationFoundError{}
	}
	wrapped, err := e.encodeValue(*v.Annotated)
	if err != nil {
		return nil, err
	}

	var annotIDs []byte
	for _, a := range v.Annotations {
		id := e.table.Intern(a)
		annotIDs = appendVarUIntU64(annotIDs, uint64(id))
	}

	body := appendVarUIntU64(nil, uint64(len(annotIDs)))
	body = append(body, annotIDs...)
	body = append(body, wrapped...)

	b := appendTag(nil, tcAnnotation, uint64(len(body)))
	return append(b, body...), nil
}
