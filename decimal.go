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

import "math/big"

// Decimal is an arbitrary-precision decimal: a non-negative magnitude
// Coefficient, a separate Negative sign (so the wire format can carry -0
// distinctly from 0 at a given Exponent, unlike Int), and a base-10
// Exponent. The value is (-1)^Negative * Coefficient * 10^Exponent. Equal
// treats -0 and 0 as the same mathematical value.
type Decimal struct {
	Coefficient *big.Int
	Negative    bool
	Exponent    int32
}

// NewDecimal builds a Decimal from a signed coefficient and exponent.
func NewDecimal(coefficient *big.Int, exponent int32) Decimal {
	return Decimal{
		Coefficient: new(big.Int).Abs(coefficient),
		Negative:    coefficient.Sign() < 0,
		Exponent:    exponent,
	}
}

// NewNegativeZeroDecimal returns the decimal -0 at the given exponent, a
// value distinct from ordinary zero that the wire format can represent but
// a signed big.Int coefficient alone cannot.
func NewNegativeZeroDecimal(exponent int32) Decimal {
	return Decimal{Coefficient: new(big.Int), Negative: true, Exponent: exponent}
}

// ZeroDecimal returns ordinary (positive) zero at the given exponent.
func ZeroDecimal(exponent int32) Decimal {
	return Decimal{Coefficient: new(big.Int), Exponent: exponent}
}

// CoEx returns the decimal's coefficient with its sign folded back in,
// and its exponent.
func (d Decimal) CoEx() (*big.Int, int32) {
	c := new(big.Int).Set(decimalMagnitude(d))
	if d.Negative {
		c.Neg(c)
	}
	return c, d.Exponent
}

// IsZero reports whether d's magnitude is zero, regardless of sign.
func (d Decimal) IsZero() bool { return decimalMagnitude(d).Sign() == 0 }

// Clone returns a deep copy of d.
func (d Decimal) Clone() Decimal {
	out := d
	if d.Coefficient != nil {
		out.Coefficient = new(big.Int).Set(d.Coefficient)
	}
	return out
}

// Equal reports whether d and other denote the same mathematical value.
// Trailing-zero differences in the coefficient/exponent pair (e.g. 1.0
// versus 1.00) do not affect equality, and neither does the sign of zero:
// -0 and 0 at any exponent compare equal, since both denote the number 0.
func (d Decimal) Equal(other Decimal) bool {
	dMag := decimalMagnitude(d)
	oMag := decimalMagnitude(other)

	minExp := d.Exponent
	if other.Exponent < minExp {
		minExp = other.Exponent
	}

	scaledD := scaleUpBy10(dMag, uint(d.Exponent-minExp))
	scaledO := scaleUpBy10(oMag, uint(other.Exponent-minExp))

	if d.Negative {
		scaledD.Neg(scaledD)
	}
	if other.Negative {
		scaledO.Neg(scaledO)
	}

	return scaledD.Cmp(scaledO) == 0
}

func decimalMagnitude(d Decimal) *big.Int {
	if d.Coefficient == nil {
		return new(big.Int)
	}
	return d.Coefficient
}

func scaleUpBy10(v *big.Int, n uint) *big.Int {
	if n == 0 {
		return new(big.Int).Set(v)
	}
	factor := new(big.Int).Exp(big.NewInt(10), new(big.Int).SetUint64(uint64(n)), nil)
	return new(big.Int).Mul(v, factor)
}
