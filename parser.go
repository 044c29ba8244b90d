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
	"io"
	"math"
	"math/big"
	"unicode/utf8"
)

// Parser turns a binary Ion byte stream into a sequence of top-level Value
// trees, tracking whatever local symbol table is currently in effect and
// transparently installing a new one whenever the stream emits an
// ion_symbol_table directive.
type Parser struct {
	c       *cursor
	catalog *Catalog
	table   *LocalSymbolTable
}

// NewParser returns a Parser reading from r, with a fresh, empty catalog.
func NewParser(r io.Reader) *Parser {
	p := &Parser{c: newCursor(r), catalog: NewCatalog()}
	p.resetTable()
	return p
}

// NewParserBytes returns a Parser reading from an in-memory buffer.
func NewParserBytes(b []byte) *Parser {
	p := &Parser{c: newCursorBytes(b), catalog: NewCatalog()}
	p.resetTable()
	return p
}

// WithCatalog replaces the parser's catalog, used to resolve shared-table
// imports encountered in symbol-table directives.
func (p *Parser) WithCatalog(cat *Catalog) *Parser {
	p.catalog = cat
	return p
}

// RegisterSharedTable registers a shared symbol table with the parser's
// catalog, so subsequent imports of it can resolve.
func (p *Parser) RegisterSharedTable(t *SharedSymbolTable) error {
	return p.catalog.RegisterShared(t)
}

func (p *Parser) resetTable() {
	lst, _ := NewSymbolTableBuilder(p.catalog).Build()
	p.table = lst
}

// ConsumeValue reads and returns the next top-level value, transparently
// skipping NOP pads, BVMs (which reset the local symbol table), and
// ion_symbol_table directives (which install a new local symbol table
// instead of producing a value). It returns *NoDataToReadError once the
// stream is exhausted at a value boundary.
func (p *Parser) ConsumeValue() (Value, error) {
	for {
		first, err := p.c.readByte()
		if err != nil {
			return Value{}, err
		}
		if first == -1 {
			return Value{}, &NoDataToReadError{}
		}

		if byte(first) == byteVersionMarker[0] {
			if err := ReadBVM(p.c); err != nil {
				return Value{}, err
			}
			p.resetTable()
			continue
		}

		h, err := readHeaderFromFirstByte(p.c, byte(first))
		if err != nil {
			return Value{}, err
		}

		if h.IsNop {
			if err := p.c.skip(h.Length); err != nil {
				return Value{}, err
			}
			continue
		}

		v, isDirective, err := p.decodeTopLevel(h)
		if err != nil {
			return Value{}, err
		}
		if isDirective {
			continue
		}
		return v, nil
	}
}

// ConsumeAll reads every top-level value in the stream.
func (p *Parser) ConsumeAll() ([]Value, error) {
	var out []Value
	for {
		v, err := p.ConsumeValue()
		if err != nil {
			if _, ok := err.(*NoDataToReadError); ok {
				return out, nil
			}
			return nil, err
		}
		out = append(out, v)
	}
}

// decodeTopLevel decodes one top-level value, recognizing the
// ion_symbol_table annotation as a local-table directive rather than an
// ordinary annotated value.
func (p *Parser) decodeTopLevel(h header) (v Value, isDirective bool, err error) {
	if h.Type == tcAnnotation {
		texts, wrapped, directive, err := p.decodeAnnotationWrapper(h, true)
		if err != nil {
			return Value{}, false, err
		}
		if directive {
			if err := p.installDirective(wrapped); err != nil {
				return Value{}, false, err
			}
			return Value{}, true, nil
		}
		return AnnotationValue(texts, wrapped), false, nil
	}

	v, err = p.decodeValue(h)
	return v, false, err
}

// decodeValue decodes the content of a value whose header has already been
// read, dispatching on its type code.
func (p *Parser) decodeValue(h header) (Value, error) {
	switch h.Type {
	case tcNullOrNop:
		return p.decodeNull(h)
	case tcBool:
		return p.decodeBool(h)
	case tcPositiveInt:
		return p.decodeInt(h, false)
	case tcNegativeInt:
		return p.decodeInt(h, true)
	case tcFloat:
		return p.decodeFloat(h)
	case tcDecimal:
		return p.decodeDecimal(h)
	case tcTimestamp:
		return p.decodeTimestamp(h)
	case tcSymbol:
		return p.decodeSymbol(h)
	case tcString:
		return p.decodeString(h)
	case tcClob:
		return p.decodeBytes(h, KindClob)
	case tcBlob:
		return p.decodeBytes(h, KindBlob)
	case tcList:
		return p.decodeList(h, KindList)
	case tcSExpr:
		return p.decodeList(h, KindSExpr)
	case tcStruct:
		return p.decodeStruct(h)
	case tcAnnotation:
		texts, wrapped, _, err := p.decodeAnnotationWrapper(h, false)
		if err != nil {
			return Value{}, err
		}
		return AnnotationValue(texts, wrapped), nil
	default:
		return Value{}, &InvalidHeaderTypeError{Offset: h.Offset}
	}
}

func (p *Parser) decodeNull(h header) (Value, error) {
	if h.IsNull {
		return TypedNull(KindNull), nil
	}
	// Every call site that can legitimately see a NOP pad (the top level,
	// container children, struct field values) skips it before dispatching
	// here; a NOP reaching decodeValue means one turned up somewhere only
	// a value belongs, e.g. wrapped by an annotation.
	return Value{}, &InvalidHeaderTypeError{Offset: h.Offset}
}

func (p *Parser) decodeBool(h header) (Value, error) {
	if h.IsNull {
		return TypedNull(KindBool), nil
	}
	return BoolValue(h.LenCode == 1), nil
}

func (p *Parser) decodeInt(h header, negative bool) (Value, error) {
	if h.IsNull {
		return TypedNull(KindInt), nil
	}
	n, err := ReadUInt(p.c, h.Length)
	if err != nil {
		return Value{}, err
	}
	if negative {
		if n.Sign() == 0 {
			return Value{}, &InvalidNegativeIntError{Offset: h.Offset}
		}
		n = new(big.Int).Neg(n)
	}
	return BigIntValue(n), nil
}

func (p *Parser) decodeFloat(h header) (Value, error) {
	if h.IsNull {
		return TypedNull(KindFloat), nil
	}
	if h.Length == 0 {
		return Float64Value(0), nil
	}
	bs, err := p.c.readN(h.Length)
	if err != nil {
		return Value{}, err
	}
	if h.Length == 4 {
		bits := uint32(bs[0])<<24 | uint32(bs[1])<<16 | uint32(bs[2])<<8 | uint32(bs[3])
		return Float32Value(math.Float32frombits(bits)), nil
	}
	var bits uint64
	for _, b := range bs {
		bits = bits<<8 | uint64(b)
	}
	return Float64Value(math.Float64frombits(bits)), nil
}

func (p *Parser) decodeDecimal(h header) (Value, error) {
	if h.IsNull {
		return TypedNull(KindDecimal), nil
	}
	if h.Length == 0 {
		return DecimalValue(ZeroDecimal(0)), nil
	}
	start := p.c.pos
	end := start + h.Length

	exp, _, err := ReadVarInt(p.c)
	if err != nil {
		return Value{}, err
	}
	if !exp.IsInt64() {
		return Value{}, &DecimalExponentTooBigError{Exponent: 0}
	}
	exponent := int32(exp.Int64())

	remaining := end - p.c.pos
	if remaining == 0 {
		return DecimalValue(ZeroDecimal(exponent)), nil
	}

	bs, err := p.c.readN(remaining)
	if err != nil {
		return Value{}, err
	}
	coeff, negZero := decodeSignMagnitude(bs)
	if negZero {
		return DecimalValue(NewNegativeZeroDecimal(exponent)), nil
	}
	return DecimalValue(NewDecimal(coeff, exponent)), nil
}

func (p *Parser) decodeTimestamp(h header) (Value, error) {
	if h.IsNull {
		return TypedNull(KindTimestamp), nil
	}
	start := p.c.pos
	end := start + h.Length

	offsetMag, offsetNeg, _, err := ReadVarIntRaw(p.c)
	if err != nil {
		return Value{}, err
	}
	offsetKnown := !(offsetNeg && offsetMag.Sign() == 0)
	offsetMinutes := 0
	if offsetKnown {
		v := new(big.Int).Set(offsetMag)
		if offsetNeg {
			v.Neg(v)
		}
		offsetMinutes = int(v.Int64())
	}

	year, _, err := varUintSmall(p.c)
	if err != nil {
		return Value{}, err
	}
	t := Timestamp{Precision: PrecisionYear, Year: int(year), Month: 1, Day: 1}
	t.OffsetKnown, t.OffsetMinutes = offsetKnown, offsetMinutes

	if p.c.pos >= end {
		return TimestampValue(t), nil
	}
	month, _, err := varUintSmall(p.c)
	if err != nil {
		return Value{}, err
	}
	t.Month, t.Precision = int(month), PrecisionMonth

	if p.c.pos >= end {
		return TimestampValue(t), nil
	}
	day, _, err := varUintSmall(p.c)
	if err != nil {
		return Value{}, err
	}
	t.Day, t.Precision = int(day), PrecisionDay

	if p.c.pos >= end {
		return TimestampValue(t), nil
	}
	hour, _, err := varUintSmall(p.c)
	if err != nil {
		return Value{}, err
	}
	minute, _, err := varUintSmall(p.c)
	if err != nil {
		return Value{}, err
	}
	t.Hour, t.Minute, t.Precision = int(hour), int(minute), PrecisionMinute

	if p.c.pos >= end {
		return TimestampValue(t), nil
	}
	second, _, err := varUintSmall(p.c)
	if err != nil {
		return Value{}, err
	}
	t.Second, t.Precision = int(second), PrecisionSecond

	if p.c.pos >= end {
		return TimestampValue(t), nil
	}

	fracExp, _, err := ReadVarInt(p.c)
	if err != nil {
		return Value{}, err
	}
	remaining := end - p.c.pos
	var coeff *big.Int
	if remaining == 0 {
		coeff = new(big.Int)
	} else {
		bs, err := p.c.readN(remaining)
		if err != nil {
			return Value{}, err
		}
		coeff, _ = decodeSignMagnitude(bs)
	}
	t.Precision = PrecisionNanosecond
	t.FractionCoefficient = coeff
	if !fracExp.IsInt64() {
		return Value{}, &NumericTransformationError{Detail: "timestamp fraction exponent out of range"}
	}
	t.FractionExponent = int32(fracExp.Int64())

	return TimestampValue(t), nil
}

func (p *Parser) decodeSymbol(h header) (Value, error) {
	if h.IsNull {
		return TypedNull(KindSymbol), nil
	}
	id, err := ReadUInt(p.c, h.Length)
	if err != nil {
		return Value{}, err
	}
	text, err := p.resolveSymbolID(int(id.Int64()))
	if err != nil {
		return Value{}, err
	}
	return SymbolValue(text), nil
}

func (p *Parser) resolveSymbolID(id int) (string, error) {
	text, ok := p.table.Text(id)
	if !ok {
		return "", &SymbolNotFoundInTableError{ID: uint64(id)}
	}
	return text, nil
}

func (p *Parser) decodeString(h header) (Value, error) {
	if h.IsNull {
		return TypedNull(KindString), nil
	}
	bs, err := p.c.readN(h.Length)
	if err != nil {
		return Value{}, err
	}
	if !utf8.Valid(bs) {
		return Value{}, &NonUtf8StringError{Offset: h.Offset}
	}
	return StringValue(string(bs)), nil
}

func (p *Parser) decodeBytes(h header, kind Kind) (Value, error) {
	if h.IsNull {
		return TypedNull(kind), nil
	}
	bs, err := p.c.readN(h.Length)
	if err != nil {
		return Value{}, err
	}
	if kind == KindClob {
		return ClobValue(bs), nil
	}
	return BlobValue(bs), nil
}

func (p *Parser) decodeList(h header, kind Kind) (Value, error) {
	if h.IsNull {
		return TypedNull(kind), nil
	}
	start := p.c.pos
	end := start + h.Length

	var children []Value
	for p.c.pos < end {
		ch, err := p.readChildValue()
		if err != nil {
			return Value{}, err
		}
		if ch != nil {
			children = append(children, *ch)
		}
	}
	if p.c.pos != end {
		return Value{}, &ListLengthWasTooShortError{}
	}
	if kind == KindList {
		return ListValue(children), nil
	}
	return SExprValue(children), nil
}

func (p *Parser) decodeStruct(h header) (Value, error) {
	if h.IsNull {
		return TypedNull(KindStruct), nil
	}
	start := p.c.pos
	end := start + h.Length

	fields := make(map[string]Value)
	for p.c.pos < end {
		fieldID, _, err := varUintSmall(p.c)
		if err != nil {
			return Value{}, err
		}
		name, ok := p.table.Text(int(fieldID))
		if !ok {
			return Value{}, &SymbolIdNotDefinedError{ID: fieldID}
		}
		fh, err := readHeader(p.c)
		if err != nil {
			return Value{}, err
		}
		if fh.IsNop {
			if err := p.c.skip(fh.Length); err != nil {
				return Value{}, err
			}
			continue
		}
		v, err := p.decodeValue(fh)
		if err != nil {
			return Value{}, err
		}
		fields[name] = v // duplicate field names: last write wins
	}
	if p.c.pos != end {
		return Value{}, &ListLengthWasTooShortError{}
	}
	return StructValue(fields), nil
}

// decodeDirectiveStruct decodes a local symbol-table directive's struct body
// the same way decodeStruct does, except a repeated "imports" or "symbols"
// field is a decode error instead of being silently collapsed to the last
// occurrence.
func (p *Parser) decodeDirectiveStruct(h header) (Value, error) {
	if h.IsNull {
		return TypedNull(KindStruct), nil
	}
	start := p.c.pos
	end := start + h.Length

	fields := make(map[string]Value)
	seen := make(map[string]bool, 2)
	for p.c.pos < end {
		fieldID, _, err := varUintSmall(p.c)
		if err != nil {
			return Value{}, err
		}
		name, ok := p.table.Text(int(fieldID))
		if !ok {
			return Value{}, &SymbolIdNotDefinedError{ID: fieldID}
		}
		fh, err := readHeader(p.c)
		if err != nil {
			return Value{}, err
		}
		if fh.IsNop {
			if err := p.c.skip(fh.Length); err != nil {
				return Value{}, err
			}
			continue
		}
		v, err := p.decodeValue(fh)
		if err != nil {
			return Value{}, err
		}
		if name == "imports" || name == "symbols" {
			if seen[name] {
				return Value{}, &DuplicateDirectiveFieldError{Field: name}
			}
			seen[name] = true
		}
		fields[name] = v
	}
	if p.c.pos != end {
		return Value{}, &ListLengthWasTooShortError{}
	}
	return StructValue(fields), nil
}

// readChildValue reads one value inside a list/sexp, transparently
// skipping NOP pads (which contribute no child) the same way the top
// level does.
func (p *Parser) readChildValue() (*Value, error) {
	h, err := readHeader(p.c)
	if err != nil {
		return nil, err
	}
	if h.IsNop {
		if err := p.c.skip(h.Length); err != nil {
			return nil, err
		}
		return nil, nil
	}
	v, err := p.decodeValue(h)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// decodeAnnotationWrapper reads an annotation wrapper's symbol-id list and
// its wrapped value, validating the declared length against what was
// actually consumed. When topLevel is true, a lone "$ion_symbol_table"
// annotation over a struct is recognized as a local-table directive and its
// content is decoded via decodeDirectiveStruct (which enforces the
// no-duplicate-imports/symbols-field rule) instead of the ordinary
// decodeStruct; nested occurrences of the same annotation are never
// directives, matching the "top-level only" lifecycle rule.
func (p *Parser) decodeAnnotationWrapper(h header, topLevel bool) (texts []string, wrapped Value, isDirective bool, err error) {
	start := p.c.pos
	end := start + h.Length

	annotLen, _, err := varUintSmall(p.c)
	if err != nil {
		return nil, Value{}, false, err
	}

	annotEnd := p.c.pos + annotLen
	var ids []int
	for p.c.pos < annotEnd {
		id, _, err := varUintSmall(p.c)
		if err != nil {
			return nil, Value{}, false, err
		}
		if id == 0 {
			return nil, Value{}, false, &NullSymbolFoundError{}
		}
		ids = append(ids, int(id))
	}
	if len(ids) == 0 {
		return nil, Value{}, false, &NullAnnotationFoundError{}
	}

	texts = make([]string, len(ids))
	for i, id := range ids {
		text, ok := p.table.Text(id)
		if !ok {
			return nil, Value{}, false, &SymbolIdNotDefinedError{ID: uint64(id)}
		}
		texts[i] = text
	}

	wh, err := readHeader(p.c)
	if err != nil {
		return nil, Value{}, false, err
	}
	if wh.Type == tcAnnotation {
		return nil, Value{}, false, &NestedAnnotationsError{}
	}

	isDirective = topLevel && len(texts) == 1 && texts[0] == "$ion_symbol_table" && wh.Type == tcStruct
	if isDirective {
		wrapped, err = p.decodeDirectiveStruct(wh)
	} else {
		wrapped, err = p.decodeValue(wh)
	}
	if err != nil {
		return nil, Value{}, false, err
	}

	if p.c.pos != end {
		return nil, Value{}, false, &BadAnnotationLengthError{Declared: h.Length, Actual: p.c.pos - start}
	}

	return texts, wrapped, isDirective, nil
}

// installDirective rebuilds the parser's local symbol table from a decoded
// ion_symbol_table directive struct.
func (p *Parser) installDirective(directive Value) error {
	b := NewSymbolTableBuilder(p.catalog)

	if imports, ok := directive.Struct["imports"]; ok {
		switch {
		case imports.Kind == KindSymbol && imports.String == "$ion_symbol_table":
			for _, imp := range p.table.Imports() {
				b.Import(imp.Name, imp.Version, imp.MaxID)
			}
			for _, s := range p.table.LocalSymbols() {
				b.Symbol(s)
			}
		case imports.Kind == KindList:
			for _, entry := range imports.List {
				if entry.Kind != KindStruct {
					continue
				}
				name, _ := stringField(entry, "name")
				version := 1
				if vv, ok := entry.Struct["version"]; ok {
					if n, exact := vv.IsExactInt64(); exact {
						version = int(n)
					}
				}
				maxID := -1
				if mv, ok := entry.Struct["max_id"]; ok {
					if n, exact := mv.IsExactInt64(); exact {
						maxID = int(n)
					}
				}
				if name == "" {
					continue
				}
				b.Import(name, version, maxID)
			}
		}
	}

	if symbols, ok := directive.Struct["symbols"]; ok && symbols.Kind == KindList {
		for _, entry := range symbols.List {
			if entry.Kind == KindString {
				b.Symbol(entry.String)
			} else {
				b.Symbol("")
			}
		}
	}

	lst, err := b.Build()
	if err != nil {
		return err
	}
	p.table = lst
	return nil
}

func stringField(v Value, name string) (string, bool) {
	f, ok := v.Struct[name]
	if !ok || f.Kind != KindString {
		return "", false
	}
	return f.String, true
}

// readHeaderFromFirstByte parses a header whose first byte has already
// been consumed from c (used at the top level, where ConsumeValue must
// read one byte before it can tell whether it's looking at a BVM).
func readHeaderFromFirstByte(c *cursor, b byte) (header, error) {
	offset := c.pos - 1
	t := typeCode(b >> 4)
	l := b & 0x0F

	if t == tcReserved {
		return header{}, &InvalidReservedTypeDescriptorError{Offset: offset}
	}
	return readHeaderBody(c, offset, t, l)
}

// readHeaderBody continues parsing a header given its already-read type
// and length nibbles, mirroring readHeader's validation rules exactly.
func readHeaderBody(c *cursor, offset uint64, t typeCode, l byte) (header, error) {
	h := header{Type: t, LenCode: l, Offset: offset}

	if t == tcNullOrNop {
		if l == 15 {
			h.IsNull = true
			return h, nil
		}
		h.IsNop = true
		h.Length = uint64(l)
		if l == 14 {
			length, _, err := varUintSmall(c)
			if err != nil {
				return header{}, err
			}
			h.Length = length
		}
		return h, nil
	}

	if t == tcBool {
		switch l {
		case 0, 1:
			return h, nil
		case 15:
			h.IsNull = true
			return h, nil
		default:
			return header{}, &InvalidBoolLengthError{Length: uint64(l)}
		}
	}

	if t == tcFloat {
		switch l {
		case 0, 4, 8:
			h.Length = uint64(l)
			return h, nil
		case 15:
			h.IsNull = true
			return h, nil
		default:
			return header{}, &NotValidLengthFloatError{Length: uint64(l)}
		}
	}

	if t == tcAnnotation && l == 15 {
		return header{}, &NullAnnotationFoundError{}
	}

	if t == tcStruct && l == 1 {
		length, _, err := varUintSmall(c)
		if err != nil {
			return header{}, err
		}
		if length == 0 {
			return header{}, &EmptyOrderedStructError{}
		}
		h.Ordered = true
		h.Length = length
		return h, nil
	}

	if l == 15 {
		h.IsNull = true
		return h, nil
	}

	if l == 14 {
		length, _, err := varUintSmall(c)
		if err != nil {
			return header{}, err
		}
		h.Length = length
	} else {
		h.Length = uint64(l)
	}

	if t == tcNegativeInt && h.Length == 0 {
		return header{}, &InvalidNegativeIntError{Offset: offset}
	}

	if t == tcAnnotation && h.Length < 3 {
		return header{}, &InvalidAnnotationLengthError{Length: h.Length}
	}

	return h, nil
}
