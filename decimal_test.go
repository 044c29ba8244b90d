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
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecimalEqualIgnoresTrailingZeroPrecision(t *testing.T) {
	// 1.0 and 1.00 carry the same mathematical value at different scales.
	a := NewDecimal(big.NewInt(10), -1)
	b := NewDecimal(big.NewInt(100), -2)
	assert.True(t, a.Equal(b))
}

func TestDecimalEqualIgnoresSignOfZero(t *testing.T) {
	pos := ZeroDecimal(0)
	neg := NewNegativeZeroDecimal(0)
	assert.True(t, pos.Equal(neg))
	assert.True(t, pos.Equal(ZeroDecimal(5))) // zero at any exponent is still zero
}

func TestDecimalCoEx(t *testing.T) {
	d := NewDecimal(big.NewInt(-123), -2)
	coeff, exp := d.CoEx()
	assert.Equal(t, int64(-123), coeff.Int64())
	assert.Equal(t, int32(-2), exp)
}

func TestDecimalIsZero(t *testing.T) {
	assert.True(t, ZeroDecimal(3).IsZero())
	assert.True(t, NewNegativeZeroDecimal(3).IsZero())
	assert.False(t, NewDecimal(big.NewInt(1), 0).IsZero())
}

func TestDecimalCloneIsIndependent(t *testing.T) {
	d := NewDecimal(big.NewInt(42), 0)
	clone := d.Clone()
	clone.Coefficient.SetInt64(7)
	assert.Equal(t, int64(42), d.Coefficient.Int64())
}
