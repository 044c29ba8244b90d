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

func TestValueFromJSONExactIntegerVsFloat(t *testing.T) {
	v, err := ValueFromJSON(float64(42))
	require.NoError(t, err)
	assert.Equal(t, KindInt, v.Kind)
	assert.Equal(t, int64(42), v.Int.Int64())

	v, err = ValueFromJSON(3.5)
	require.NoError(t, err)
	assert.Equal(t, KindFloat, v.Kind)
	assert.Equal(t, 3.5, v.Float)
}

func TestValueFromJSONArrayAndObject(t *testing.T) {
	v, err := ValueFromJSON([]any{float64(1), "two", nil})
	require.NoError(t, err)
	require.Equal(t, KindList, v.Kind)
	require.Len(t, v.List, 3)
	assert.Equal(t, KindNull, v.List[2].Kind)

	v, err = ValueFromJSON(map[string]any{"a": float64(1)})
	require.NoError(t, err)
	require.Equal(t, KindStruct, v.Kind)
	assert.Equal(t, int64(1), v.Struct["a"].Int.Int64())
}

func TestToJSONBasicKinds(t *testing.T) {
	j, err := IntValue(7).ToJSON()
	require.NoError(t, err)
	assert.Equal(t, int64(7), j)

	j, err = StringValue("hi").ToJSON()
	require.NoError(t, err)
	assert.Equal(t, "hi", j)

	j, err = Null().ToJSON()
	require.NoError(t, err)
	assert.Nil(t, j)

	j, err = ListValue([]Value{IntValue(1), BoolValue(true)}).ToJSON()
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), true}, j)
}

func TestToJSONFailsOnUnsupportedKinds(t *testing.T) {
	unsupported := []Value{
		SymbolValue("x"),
		ClobValue([]byte("x")),
		BlobValue([]byte("x")),
		TimestampValue(YearTimestamp(2020)),
		AnnotationValue([]string{"a"}, IntValue(1)),
		SExprValue([]Value{IntValue(1)}),
	}
	for _, v := range unsupported {
		_, err := v.ToJSON()
		var target *TypeNotSupportedError
		assert.ErrorAs(t, err, &target, "kind %v should fail", v.Kind)
	}
}

func TestToJSONFailsOnNonFiniteFloat(t *testing.T) {
	_, err := Float64Value(math.NaN()).ToJSON()
	var target *DecimalNotANumericValueError
	assert.ErrorAs(t, err, &target)

	_, err = Float64Value(math.Inf(1)).ToJSON()
	assert.ErrorAs(t, err, &target)
}

func TestToJSONDecimalConvertsToFloat(t *testing.T) {
	j, err := DecimalValue(NewDecimal(big.NewInt(125), -2)).ToJSON()
	require.NoError(t, err)
	assert.InDelta(t, 1.25, j, 1e-9)
}
