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

func TestVarUIntRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 0x7F, 0x80, 0x3FFF, 0x4000, math.MaxUint32, math.MaxUint64}
	for _, v := range values {
		b := appendVarUIntU64(nil, v)
		c := newCursorBytes(b)
		got, n, err := ReadVarUInt(c)
		require.NoError(t, err)
		assert.True(t, got.IsUint64())
		assert.Equal(t, v, got.Uint64())
		assert.Equal(t, uint64(len(b)), n)
		assert.Equal(t, varUIntLen(v), uint64(len(b)))
	}
}

func TestVarIntRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 0x3F, -0x3F, 0x40, -0x40, math.MaxInt32, math.MinInt32}
	for _, v := range values {
		b := appendVarInt(nil, big.NewInt(v))
		c := newCursorBytes(b)
		got, n, err := ReadVarInt(c)
		require.NoError(t, err)
		assert.Equal(t, v, got.Int64())
		assert.Equal(t, uint64(len(b)), n)
	}
}

func TestVarIntNegativeZero(t *testing.T) {
	// 0xC0: sign bit + end bit, zero magnitude -- the timestamp "unknown
	// offset" encoding, distinguishable only via ReadVarIntRaw.
	c := newCursorBytes([]byte{0xC0})
	mag, neg, n, err := ReadVarIntRaw(c)
	require.NoError(t, err)
	assert.Equal(t, 0, mag.Sign())
	assert.True(t, neg)
	assert.Equal(t, uint64(1), n)
}

func TestUIntRoundTrip(t *testing.T) {
	values := []*big.Int{big.NewInt(0), big.NewInt(1), big.NewInt(0xFF), new(big.Int).Lsh(big.NewInt(1), 100)}
	for _, v := range values {
		var b []byte
		b = appendUInt(b, v)
		c := newCursorBytes(b)
		got, err := ReadUInt(c, uint64(len(b)))
		require.NoError(t, err)
		assert.Equal(t, 0, v.Cmp(got))
	}
}

func TestReadIntRejectsNegativeZero(t *testing.T) {
	// sign bit set, zero magnitude: the reserved illegal negative-zero Int.
	c := newCursorBytes([]byte{0x80})
	_, err := ReadInt(c, 1)
	require.Error(t, err)
	var target *InvalidNegativeIntError
	assert.ErrorAs(t, err, &target)
}

func TestReadBVM(t *testing.T) {
	c := newCursorBytes([]byte{0x01, 0x00, 0xEA})
	assert.NoError(t, ReadBVM(c))

	c = newCursorBytes([]byte{0x01, 0x00, 0xEB})
	var target *BadFormedVersionHeaderError
	assert.ErrorAs(t, ReadBVM(c), &target)
}

func TestMustReadByteReportsNotEnoughData(t *testing.T) {
	c := newCursorBytes(nil)
	_, err := c.mustReadByte()
	var target *NotEnoughDataError
	assert.ErrorAs(t, err, &target)
}
