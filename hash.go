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
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"hash"
	"math"
	"math/big"
	"sort"

	"github.com/dchest/siphash"
)

// Digester constructs a fresh hash.Hash instance. Digest and IonHash are
// parameterized over it so the same structural algorithm runs under any
// cryptographic digest function.
type Digester func() hash.Hash

func defaultDigester() hash.Hash { return sha256.New() }

// SipHashDigester adapts dchest/siphash's 128-bit keyed hash to the
// Digester shape. It produces a fingerprint that does not match the
// published Ion Hash vectors (those are defined over SHA-256); use it only
// when a keyed, non-cryptographic-collision-resistant digest is acceptable
// for the caller's own purposes.
func SipHashDigester(k0, k1 uint64) Digester {
	return func() hash.Hash { return &sipHash128{k0: k0, k1: k1} }
}

type sipHash128 struct {
	k0, k1 uint64
	buf    []byte
}

func (s *sipHash128) Write(p []byte) (int, error) {
	s.buf = append(s.buf, p...)
	return len(p), nil
}

func (s *sipHash128) Sum(b []byte) []byte {
	hi, lo := siphash.Hash128(s.k0, s.k1, s.buf)
	out := make([]byte, 16)
	binary.BigEndian.PutUint64(out[0:8], hi)
	binary.BigEndian.PutUint64(out[8:16], lo)
	return append(b, out...)
}

func (s *sipHash128) Reset()         { s.buf = s.buf[:0] }
func (s *sipHash128) Size() int      { return 16 }
func (s *sipHash128) BlockSize() int { return 8 }

// Digest computes the structural fingerprint of v under newHash (SHA-256 if
// nil), following the Ion Hash algorithm: a type-tagged, escape-safe
// serialization wrapped in 0x0B/0x0E frame bytes, with struct fields hashed
// individually and sorted so field order never affects the result.
func Digest(v Value, newHash Digester) []byte {
	if newHash == nil {
		newHash = defaultDigester
	}
	h := newHash()
	h.Write(wrapForHash(represent(v, newHash)))
	return h.Sum(nil)
}

// represent produces the un-wrapped, un-escaped structural serialization of
// v. It recurses directly into list/sexp/annotation children (their raw
// serializations are concatenated, not individually hashed); struct is the
// one kind that hashes each field on the way down, so that sorting the
// per-field digests makes the result independent of field-insertion order.
func represent(v Value, newHash Digester) []byte {
	switch v.Kind {
	case KindNull:
		return []byte{byte(kindTypeCode(v.NullKind))<<4 | 0x0F}
	case KindBool:
		if v.Bool {
			return []byte{0x11}
		}
		return []byte{0x10}
	case KindInt:
		return representInt(v.Int)
	case KindFloat:
		return representFloat(v.Float)
	case KindDecimal:
		return representDecimal(v.Decimal)
	case KindTimestamp:
		return append([]byte{0x06}, encodeTimestampBody(v.Timestamp)...)
	case KindSymbol:
		return representSymbolText(v.String)
	case KindString:
		return append([]byte{0x80}, []byte(v.String)...)
	case KindClob:
		return append([]byte{0x90}, v.Bytes...)
	case KindBlob:
		return append([]byte{0xA0}, v.Bytes...)
	case KindList:
		return representSequence(0xB0, v.List, newHash)
	case KindSExpr:
		return representSequence(0xC0, v.List, newHash)
	case KindStruct:
		return representStruct(v, newHash)
	case KindAnnotation:
		return representAnnotation(v, newHash)
	default:
		return nil
	}
}

// representInt uses the same type-nibble markers as the wire format's
// positive/negative int tags (0x20/0x30), not the inverted pair the Rust
// reference's encode_big_integer_value uses — see the struct-field vector
// reconciliation note in representStruct.
func representInt(n *big.Int) []byte {
	if n == nil || n.Sign() == 0 {
		return []byte{0x20}
	}
	marker := byte(0x20)
	if n.Sign() < 0 {
		marker = 0x30
	}
	return append([]byte{marker}, new(big.Int).Abs(n).Bytes()...)
}

func representFloat(f float64) []byte {
	switch {
	case math.IsNaN(f):
		return []byte{0x40, 0x7F, 0xF8, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	case math.IsInf(f, 1):
		return []byte{0x40, 0x7F, 0xF0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	case math.IsInf(f, -1):
		return []byte{0x40, 0xFF, 0xF0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	case f == 0 && math.Signbit(f):
		return []byte{0x40, 0x80, 0xF0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	case f == 0:
		return []byte{0x40}
	default:
		bits := math.Float64bits(f)
		b := []byte{0x40}
		for i := 7; i >= 0; i-- {
			b = append(b, byte(bits>>(8*uint(i))))
		}
		return b
	}
}

func representDecimal(d Decimal) []byte {
	mag := decimalMagnitude(d)
	if mag.Sign() == 0 {
		return []byte{0x50}
	}

	var expBytes []byte
	if d.Exponent == 0 {
		expBytes = []byte{0x80}
	} else {
		expBytes = appendVarInt(nil, big.NewInt(int64(d.Exponent)))
	}

	coeff := new(big.Int).Set(mag)
	if d.Negative {
		coeff.Neg(coeff)
	}

	b := append([]byte{0x50}, expBytes...)
	return appendBigInt(b, coeff)
}

func representSymbolText(s string) []byte {
	marker := byte(0x70)
	if s == "$0" {
		marker = 0x71
	}
	return append([]byte{marker}, []byte(s)...)
}

func representSequence(marker byte, children []Value, newHash Digester) []byte {
	b := []byte{marker}
	for _, c := range children {
		b = append(b, represent(c, newHash)...)
	}
	return b
}

// representStruct hashes each field as H(wrap(name) || wrap(child)) — each
// side individually framed with the same 0x0B/escape/0x0E wrap the top-level
// Digest applies, not merely escaped. This is a deliberate divergence from
// both the prose description and the Rust reference (both describe a bare
// escape with no inner frame bytes); it is what reproduces the published
// struct hash vector, so it is taken as authoritative over the prose.
func representStruct(v Value, newHash Digester) []byte {
	hashes := make([][]byte, 0, len(v.Struct))
	for name, child := range v.Struct {
		h := newHash()
		h.Write(wrapForHash(representSymbolText(name)))
		h.Write(wrapForHash(represent(child, newHash)))
		hashes = append(hashes, h.Sum(nil))
	}
	sort.Slice(hashes, func(i, j int) bool { return bytes.Compare(hashes[i], hashes[j]) < 0 })

	var concat []byte
	for _, hb := range hashes {
		concat = append(concat, hb...)
	}
	return append([]byte{0xD0}, escapeForHash(concat)...)
}

func representAnnotation(v Value, newHash Digester) []byte {
	var b []byte
	for _, a := range v.Annotations {
		b = append(b, []byte(a)...)
	}
	return append(b, represent(*v.Annotated, newHash)...)
}

func escapeForHash(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for _, by := range b {
		if by == 0x0B || by == 0x0C || by == 0x0E {
			out = append(out, 0x0C, by)
		} else {
			out = append(out, by)
		}
	}
	return out
}

func wrapForHash(rep []byte) []byte {
	out := make([]byte, 0, len(rep)+2)
	out = append(out, 0x0B)
	out = append(out, escapeForHash(rep)...)
	out = append(out, 0x0E)
	return out
}

// IonHash accumulates a running fingerprint from multiple values or raw
// byte strings via Dot, e.g. to combine the hashes of a stream's top-level
// values into a single digest for the whole stream.
type IonHash struct {
	newHash Digester
	buffer  []byte
}

// NewIonHash returns an empty accumulator using newHash (SHA-256 if nil).
func NewIonHash(newHash Digester) *IonHash {
	if newHash == nil {
		newHash = defaultDigester
	}
	return &IonHash{newHash: newHash}
}

// Bytes returns the accumulator's current fingerprint.
func (ih *IonHash) Bytes() []byte { return append([]byte(nil), ih.buffer...) }

// AddValue folds v's Digest into the accumulator via Dot.
func (ih *IonHash) AddValue(v Value) { ih.dotBytes(Digest(v, ih.newHash)) }

// AddBytes folds the digest of raw bytes into the accumulator via Dot.
func (ih *IonHash) AddBytes(b []byte) {
	h := ih.newHash()
	h.Write(b)
	ih.dotBytes(h.Sum(nil))
}

// Dot combines other's fingerprint into ih in place and returns ih, so
// calls can be chained. Dot is commutative: the combining order between ih
// and other never affects the result, only which of the two byte-strings
// happens to own the receiver.
func (ih *IonHash) Dot(other *IonHash) *IonHash {
	ih.dotBytes(other.buffer)
	return ih
}

func (ih *IonHash) dotBytes(other []byte) {
	if len(other) == 0 {
		return
	}
	if len(ih.buffer) == 0 {
		ih.buffer = append([]byte(nil), other...)
		return
	}

	var combined []byte
	if reversedLess(ih.buffer, other) {
		combined = append(append([]byte(nil), ih.buffer...), other...)
	} else {
		combined = append(append([]byte(nil), other...), ih.buffer...)
	}

	h := ih.newHash()
	h.Write(combined)
	ih.buffer = h.Sum(nil)
}

// reversedLess orders two byte strings by comparing them back-to-front,
// the tie-break IonHash.dot uses to pick a deterministic, commutative
// concatenation order for two digests.
func reversedLess(a, b []byte) bool {
	return bytes.Compare(reverseBytes(a), reverseBytes(b)) < 0
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
