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
	"encoding/json"
	"math/big"
)

// ValueFromJSON converts a generic JSON value (as produced by
// encoding/json's unmarshal into any: nil, bool, float64, or json.Number
// with UseNumber, string, []any, map[string]any) into a Value. Numbers that
// are exact integers become Int; everything else becomes Float64.
func ValueFromJSON(j any) (Value, error) {
	switch x := j.(type) {
	case nil:
		return Null(), nil
	case bool:
		return BoolValue(x), nil
	case float64:
		return numberFromJSON(x), nil
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return IntValue(n), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, &NumericTransformationError{Detail: err.Error()}
		}
		return numberFromJSON(f), nil
	case int:
		return IntValue(int64(x)), nil
	case int64:
		return IntValue(x), nil
	case string:
		return StringValue(x), nil
	case []any:
		children := make([]Value, len(x))
		for i, e := range x {
			c, err := ValueFromJSON(e)
			if err != nil {
				return Value{}, err
			}
			children[i] = c
		}
		return ListValue(children), nil
	case map[string]any:
		fields := make(map[string]Value, len(x))
		for k, e := range x {
			c, err := ValueFromJSON(e)
			if err != nil {
				return Value{}, err
			}
			fields[k] = c
		}
		return StructValue(fields), nil
	default:
		return Value{}, &NumericTransformationError{Detail: "unrecognized JSON value type"}
	}
}

// numberFromJSON classifies a decoded JSON number as an exact integer or a
// float, matching how the JSON boundary distinguishes Int from Float64.
func numberFromJSON(f float64) Value {
	if f == float64(int64(f)) {
		return IntValue(int64(f))
	}
	return Float64Value(f)
}

// ToJSON converts v into the generic JSON value shape (nil, bool, int64,
// float64, string, []any, map[string]any). Symbol, Clob, Blob, Timestamp,
// Annotation, and SExpr have no JSON representation and fail with
// TypeNotSupportedError; non-finite floats and decimals fail with
// DecimalNotANumericValueError.
func (v Value) ToJSON() (any, error) {
	switch v.Kind {
	case KindNull:
		return nil, nil
	case KindBool:
		return v.Bool, nil
	case KindInt:
		n := intOrNil(v.Int)
		if n.IsInt64() {
			return n.Int64(), nil
		}
		f := new(big.Float).SetInt(n)
		out, _ := f.Float64()
		return out, nil
	case KindFloat:
		if !isFinite(v.Float) {
			return nil, &DecimalNotANumericValueError{Value: v.Float}
		}
		return v.Float, nil
	case KindDecimal:
		coeff, exp := v.Decimal.CoEx()
		f := new(big.Float).SetInt(coeff)
		scale := new(big.Float).SetInt(pow10(exp))
		if exp < 0 {
			f.Quo(f, scale)
		} else if exp > 0 {
			f.Mul(f, scale)
		}
		out, _ := f.Float64()
		if !isFinite(out) {
			return nil, &DecimalNotANumericValueError{Value: out}
		}
		return out, nil
	case KindString:
		return v.String, nil
	case KindList, KindSExpr:
		if v.Kind == KindSExpr {
			return nil, &TypeNotSupportedError{Kind: v.Kind}
		}
		out := make([]any, len(v.List))
		for i, c := range v.List {
			cj, err := c.ToJSON()
			if err != nil {
				return nil, err
			}
			out[i] = cj
		}
		return out, nil
	case KindStruct:
		out := make(map[string]any, len(v.Struct))
		for k, c := range v.Struct {
			cj, err := c.ToJSON()
			if err != nil {
				return nil, err
			}
			out[k] = cj
		}
		return out, nil
	default:
		return nil, &TypeNotSupportedError{Kind: v.Kind}
	}
}

// pow10 returns 10^|exp| as a *big.Int; exp's sign only determines whether
// the caller multiplies or divides by the result.
func pow10(exp int32) *big.Int {
	n := exp
	if n < 0 {
		n = -n
	}
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
