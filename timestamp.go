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
	"time"
)

// TimestampPrecision records which fields of a Timestamp were actually
// present on the wire; fields below the recorded precision take their
// Ion-defined defaults (month/day 1, hour/minute/second 0) when the
// timestamp is normalized to an instant.
type TimestampPrecision uint8

const (
	PrecisionYear TimestampPrecision = iota
	PrecisionMonth
	PrecisionDay
	PrecisionMinute
	PrecisionSecond
	PrecisionNanosecond
)

// Timestamp is an Ion timestamp: a civil date-time with minute-granularity
// UTC offset (or no offset at all, the wire format's "unknown local
// offset"), plus an arbitrary-precision fractional-second coefficient when
// Precision is PrecisionNanosecond despite the name, preserving whatever
// the original encoder wrote rather than rounding to a fixed denominator.
type Timestamp struct {
	Precision TimestampPrecision

	Year   int
	Month  int // 1-12
	Day    int // 1-31
	Hour   int
	Minute int
	Second int

	// FractionCoefficient/FractionExponent together encode the fractional
	// second as Coefficient * 10^Exponent (Exponent is normally negative).
	// Both are meaningful only at PrecisionNanosecond.
	FractionCoefficient *big.Int
	FractionExponent    int32

	// OffsetKnown is false for the wire format's "unknown local offset"
	// (encoded as a VarInt negative zero, the one place the format allows
	// that encoding). OffsetMinutes is meaningful only when OffsetKnown.
	OffsetKnown   bool
	OffsetMinutes int
}

// YearTimestamp returns a year-precision timestamp.
func YearTimestamp(year int) Timestamp {
	return Timestamp{Precision: PrecisionYear, Year: year}
}

// DayTimestamp returns a day-precision timestamp.
func DayTimestamp(year, month, day int) Timestamp {
	return Timestamp{Precision: PrecisionDay, Year: year, Month: month, Day: day}
}

// MinuteTimestamp returns a minute-precision timestamp with a known offset.
func MinuteTimestamp(year, month, day, hour, minute int, offsetMinutes int) Timestamp {
	return Timestamp{
		Precision: PrecisionMinute, Year: year, Month: month, Day: day,
		Hour: hour, Minute: minute, OffsetKnown: true, OffsetMinutes: offsetMinutes,
	}
}

// SecondTimestamp returns a second-precision timestamp with a known offset.
func SecondTimestamp(year, month, day, hour, minute, second int, offsetMinutes int) Timestamp {
	return Timestamp{
		Precision: PrecisionSecond, Year: year, Month: month, Day: day,
		Hour: hour, Minute: minute, Second: second,
		OffsetKnown: true, OffsetMinutes: offsetMinutes,
	}
}

// NanosecondTimestamp returns a fractional-second-precision timestamp with
// a known offset and a fraction expressed as coefficient * 10^exponent.
func NanosecondTimestamp(year, month, day, hour, minute, second int, fractionCoefficient *big.Int, fractionExponent int32, offsetMinutes int) Timestamp {
	return Timestamp{
		Precision: PrecisionNanosecond, Year: year, Month: month, Day: day,
		Hour: hour, Minute: minute, Second: second,
		FractionCoefficient: new(big.Int).Set(fractionCoefficient),
		FractionExponent:    fractionExponent,
		OffsetKnown:         true, OffsetMinutes: offsetMinutes,
	}
}

// Clone returns a deep copy of t.
func (t Timestamp) Clone() Timestamp {
	out := t
	if t.FractionCoefficient != nil {
		out.FractionCoefficient = new(big.Int).Set(t.FractionCoefficient)
	}
	return out
}

// normalized fills in the Ion-defined defaults for any field below t's
// recorded precision, so the civil date-time is always complete enough to
// build a time.Time from.
func (t Timestamp) normalized() (year, month, day, hour, minute, second int) {
	year = t.Year
	month, day = 1, 1
	if t.Precision >= PrecisionMonth {
		month = t.Month
	}
	if t.Precision >= PrecisionDay {
		day = t.Day
	}
	if t.Precision >= PrecisionMinute {
		hour, minute = t.Hour, t.Minute
	}
	if t.Precision >= PrecisionSecond {
		second = t.Second
	}
	return
}

// fractionRat returns the fractional second as an exact rational number,
// zero when t carries no fraction.
func (t Timestamp) fractionRat() *big.Rat {
	if t.Precision != PrecisionNanosecond || t.FractionCoefficient == nil {
		return new(big.Rat)
	}
	r := new(big.Rat).SetInt(t.FractionCoefficient)
	exp := t.FractionExponent
	if exp < 0 {
		denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(-exp)), nil)
		r.Quo(r, new(big.Rat).SetInt(denom))
	} else if exp > 0 {
		mult := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)
		r.Mul(r, new(big.Rat).SetInt(mult))
	}
	return r
}

// instant returns the absolute instant t denotes, as Unix seconds (under
// the offset, known or treated as UTC if unknown) plus the exact
// fractional second.
func (t Timestamp) instant() (int64, *big.Rat) {
	year, month, day, hour, minute, second := t.normalized()
	tm := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	if t.OffsetKnown {
		tm = tm.Add(-time.Duration(t.OffsetMinutes) * time.Minute)
	}
	return tm.Unix(), t.fractionRat()
}

// Equal reports whether t and other denote the same absolute instant with
// the same recorded offset. Two timestamps at the same instant but a
// different (or differently-known) offset are NOT equal, matching the
// wire format's offset-sensitive equality.
func (t Timestamp) Equal(other Timestamp) bool {
	if t.OffsetKnown != other.OffsetKnown {
		return false
	}
	if t.OffsetKnown && t.OffsetMinutes != other.OffsetMinutes {
		return false
	}
	s1, f1 := t.instant()
	s2, f2 := other.instant()
	return s1 == s2 && f1.Cmp(f2) == 0
}
