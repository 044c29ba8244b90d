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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserSimpleStruct(t *testing.T) {
	in := []byte{
		0xE0, 0x01, 0x00, 0xEA,
		0xEE, 0xA6, 0x81, 0x83, 0xDE, 0xA2, 0x87, 0xBE, 0x9F, 0x83,
		0x56, 0x49, 0x4E, 0x84, 0x54, 0x79, 0x70, 0x65, 0x84, 0x59, 0x65, 0x61, 0x72,
		0x84, 0x4D, 0x61, 0x6B, 0x65, 0x85, 0x4D, 0x6F, 0x64, 0x65, 0x6C, 0x85, 0x43, 0x6F, 0x6C, 0x6F, 0x72,
		0xDE, 0xB9, 0x8A, 0x8E, 0x91,
		0x31, 0x43, 0x34, 0x52, 0x4A, 0x46, 0x41, 0x47, 0x30, 0x46, 0x43, 0x36, 0x32, 0x35, 0x37, 0x39, 0x37,
		0x8B, 0x85, 0x53, 0x65, 0x64, 0x61, 0x6E,
		0x8C, 0x22, 0x07, 0xE3,
		0x8D, 0x88, 0x4D, 0x65, 0x72, 0x63, 0x65, 0x64, 0x65, 0x73,
		0x8E, 0x87, 0x43, 0x4C, 0x4B, 0x20, 0x33, 0x35, 0x30,
		0x8F, 0x85, 0x57, 0x68, 0x69, 0x74, 0x65,
	}

	p := NewParserBytes(in)
	v, err := p.ConsumeValue()
	require.NoError(t, err)
	require.Equal(t, KindStruct, v.Kind)

	want := map[string]string{
		"VIN":   "1C4RJFAG0FC625797",
		"Type":  "Sedan",
		"Make":  "Mercedes",
		"Model": "CLK 350",
		"Color": "White",
	}
	for field, text := range want {
		fv, ok := v.Struct[field]
		require.True(t, ok, "missing field %q", field)
		assert.Equal(t, text, fv.String)
	}

	year, ok := v.Struct["Year"]
	require.True(t, ok)
	n, exact := year.IsExactInt64()
	require.True(t, exact)
	assert.Equal(t, int64(2019), n)
}

func TestParserIntegerRoundTrip(t *testing.T) {
	values := []*big.Int{
		big.NewInt(-9271905709435714),
		big.NewInt(0),
		new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 63), big.NewInt(1)), // 2^63-1
	}
	for _, n := range values {
		v := BigIntValue(n)
		enc := NewEncoder().Add(v)
		bs, err := enc.Encode()
		require.NoError(t, err)

		p := NewParserBytes(bs)
		got, err := p.ConsumeValue()
		require.NoError(t, err)
		assert.True(t, v.Equal(got))
	}
}

func TestParserNOPPadInvariance(t *testing.T) {
	in := []byte{0xE0, 0x01, 0x00, 0xEA, 0x00, 0x10, 0x00, 0x00, 0x11}
	p := NewParserBytes(in)
	values, err := p.ConsumeAll()
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.True(t, BoolValue(false).Equal(values[0]))
	assert.True(t, BoolValue(true).Equal(values[1]))
}

func TestParserNegativeZeroIntegerRejected(t *testing.T) {
	in := []byte{0xE0, 0x01, 0x00, 0xEA, 0x30}
	p := NewParserBytes(in)
	_, err := p.ConsumeValue()
	var target *InvalidNegativeIntError
	assert.ErrorAs(t, err, &target)
}

func TestParserBoolShortLengthError(t *testing.T) {
	in := []byte{0xE0, 0x01, 0x00, 0xEA, 0x13}
	p := NewParserBytes(in)
	_, err := p.ConsumeValue()
	var target *InvalidBoolLengthError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, uint64(3), target.Length)
}

func TestParserBVMResetsLocalTable(t *testing.T) {
	enc := NewEncoder().Add(SymbolValue("widget"))
	bs, err := enc.Encode()
	require.NoError(t, err)

	// Append a second BVM; any symbol id above the system range must be
	// undefined again until a fresh directive defines it.
	bs = append(bs, byteVersionMarker[:]...)
	bs = append(bs, appendTag(nil, tcSymbol, 1)...)
	bs = append(bs, byte(len(systemSymbols)+1))

	p := NewParserBytes(bs)
	_, err = p.ConsumeValue()
	require.NoError(t, err)

	_, err = p.ConsumeValue()
	var target *SymbolNotFoundInTableError
	assert.ErrorAs(t, err, &target)
}

func TestParserDuplicateDirectiveFieldRejected(t *testing.T) {
	// A local symbol-table directive (annotation id 3, "$ion_symbol_table")
	// wrapping a struct with two "symbols" (id 7) fields, each an empty list.
	in := []byte{
		0xE0, 0x01, 0x00, 0xEA,
		0xE7, 0x81, 0x83, 0xD4, 0x87, 0xB0, 0x87, 0xB0,
	}
	p := NewParserBytes(in)
	_, err := p.ConsumeValue()
	var target *DuplicateDirectiveFieldError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "symbols", target.Field)
}

func TestParserRoundTripsFloatAndDecimal(t *testing.T) {
	values := []Value{
		Float64Value(3.14159),
		Float64Value(math.Inf(1)),
		DecimalValue(NewDecimal(big.NewInt(12345), -2)),
		DecimalValue(NewNegativeZeroDecimal(3)),
	}
	for _, v := range values {
		bs, err := NewEncoder().Add(v).Encode()
		require.NoError(t, err)
		got, err := NewParserBytes(bs).ConsumeValue()
		require.NoError(t, err)
		assert.True(t, v.Equal(got))
	}
}
