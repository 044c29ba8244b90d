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
	"bufio"
	"bytes"
	"io"
	"math/big"
)

// byteVersionMarker is the 4-byte Ion 1.0 binary version marker.
var byteVersionMarker = [4]byte{0xE0, 0x01, 0x00, 0xEA}

// cursor is a low-level byte-stream reader with position tracking, shared
// by the primitive codec and the value decoder. It has no notion of Ion
// containers; Parser layers that on top.
type cursor struct {
	in  *bufio.Reader
	pos uint64
}

func newCursor(r io.Reader) *cursor {
	return &cursor{in: bufio.NewReader(r)}
}

func newCursorBytes(b []byte) *cursor {
	return &cursor{in: bufio.NewReader(bytes.NewReader(b))}
}

// readByte reads one byte, returning (-1, nil) at a clean EOF and an error
// for anything else.
func (c *cursor) readByte() (int, error) {
	b, err := c.in.ReadByte()
	if err == io.EOF {
		return -1, nil
	}
	if err != nil {
		return 0, err
	}
	c.pos++
	return int(b), nil
}

// mustReadByte reads one byte, turning a clean EOF into CannotReadZeroBytes-
// style NotEnoughDataError since the caller expected more input.
func (c *cursor) mustReadByte() (byte, error) {
	b, err := c.readByte()
	if err != nil {
		return 0, err
	}
	if b == -1 {
		return 0, &NotEnoughDataError{Expected: 1}
	}
	return byte(b), nil
}

// readN reads exactly n bytes, or NotEnoughDataError if the stream runs dry.
func (c *cursor) readN(n uint64) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	bs := make([]byte, n)
	actual, err := io.ReadFull(c.in, bs)
	c.pos += uint64(actual)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return nil, &NotEnoughDataError{Expected: n}
	}
	if err != nil {
		return nil, err
	}
	return bs, nil
}

// skip discards n bytes of input.
func (c *cursor) skip(n uint64) error {
	for n > 0 {
		chunk := n
		if chunk > 4096 {
			chunk = 4096
		}
		actual, err := c.in.Discard(int(chunk))
		c.pos += uint64(actual)
		n -= uint64(actual)
		if err != nil {
			if err == io.EOF {
				return &NotEnoughDataError{Expected: n}
			}
			return err
		}
	}
	return nil
}

// peekByte returns the byte at the given forward offset without consuming
// input.
func (c *cursor) peekByte(offset int) (byte, error) {
	bs, err := c.in.Peek(offset + 1)
	if err != nil {
		return 0, err
	}
	return bs[offset], nil
}

// ReadUInt reads a fixed-length big-endian unsigned magnitude of n bytes.
func ReadUInt(c *cursor, n uint64) (*big.Int, error) {
	if n == 0 {
		return new(big.Int), nil
	}
	bs, err := c.readN(n)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(bs), nil
}

// appendUInt appends the big-endian encoding of a UInt magnitude with no
// leading zero bytes; zero appends nothing. Callers that need a specific
// fixed width re-pad the result themselves.
func appendUInt(b []byte, v *big.Int) []byte {
	if v.Sign() == 0 {
		return b
	}
	return append(b, v.Bytes()...)
}

// uintLen returns the number of bytes appendUInt would emit for v.
func uintLen(v *big.Int) uint64 {
	if v.Sign() == 0 {
		return 0
	}
	return uint64(len(v.Bytes()))
}

// ReadInt reads a fixed-length big-endian sign-magnitude integer of n
// bytes. It rejects the reserved negative-zero encoding (sign bit set,
// zero magnitude) with InvalidNegativeIntError.
func ReadInt(c *cursor, n uint64) (*big.Int, error) {
	if n == 0 {
		return new(big.Int), nil
	}
	bs, err := c.readN(n)
	if err != nil {
		return nil, err
	}
	v, negZero := decodeSignMagnitude(bs)
	if negZero {
		return nil, &InvalidNegativeIntError{Offset: c.pos - n}
	}
	return v, nil
}

// ReadVarUInt reads a self-delimiting 7-bit-group unsigned integer,
// returning its value, the number of bytes consumed, and any error. Values
// wider than a native uint64 are preserved exactly in the returned big.Int.
func ReadVarUInt(c *cursor) (*big.Int, uint64, error) {
	val := new(big.Int)
	var length uint64
	for {
		b, err := c.mustReadByte()
		if err != nil {
			return nil, 0, err
		}
		length++
		val.Lsh(val, 7)
		val.Or(val, big.NewInt(int64(b&0x7F)))
		if b&0x80 != 0 {
			return val, length, nil
		}
	}
}

// varUintSmall reads a VarUInt and narrows it to a uint64, which every
// practical length/ID/offset field fits into.
func varUintSmall(c *cursor) (uint64, uint64, error) {
	v, n, err := ReadVarUInt(c)
	if err != nil {
		return 0, 0, err
	}
	if !v.IsUint64() {
		return 0, 0, &NumericTransformationError{Detail: "VarUInt exceeds uint64 range"}
	}
	return v.Uint64(), n, nil
}

// appendVarUInt appends the self-delimiting 7-bit-group encoding of v.
func appendVarUInt(b []byte, v *big.Int) []byte {
	if v.Sign() == 0 {
		return append(b, 0x80)
	}
	// Collect 7-bit groups, least-significant first.
	var groups []byte
	n := new(big.Int).Set(v)
	mask := big.NewInt(0x7F)
	tmp := new(big.Int)
	for n.Sign() != 0 {
		tmp.And(n, mask)
		groups = append(groups, byte(tmp.Uint64()))
		n.Rsh(n, 7)
	}
	for i := len(groups) - 1; i >= 0; i-- {
		g := groups[i]
		if i == 0 {
			g |= 0x80
		}
		b = append(b, g)
	}
	return b
}

func appendVarUIntU64(b []byte, v uint64) []byte {
	return appendVarUInt(b, new(big.Int).SetUint64(v))
}

// varUIntLen returns the number of bytes appendVarUIntU64 would emit for v.
func varUIntLen(v uint64) uint64 {
	length := uint64(1)
	v >>= 7
	for v > 0 {
		length++
		v >>= 7
	}
	return length
}

// ReadVarIntRaw reads a self-delimiting signed integer, returning its
// magnitude and sign bit separately (unlike ReadVarInt, this distinguishes
// -0 from +0, the encoding the wire format reserves for a timestamp's
// unknown local offset).
func ReadVarIntRaw(c *cursor) (magnitude *big.Int, negative bool, length uint64, err error) {
	first, err := c.mustReadByte()
	if err != nil {
		return nil, false, 0, err
	}

	negative = first&0x40 != 0
	magnitude = big.NewInt(int64(first & 0x3F))
	length = 1

	if first&0x80 != 0 {
		return magnitude, negative, length, nil
	}

	for {
		b, err := c.mustReadByte()
		if err != nil {
			return nil, false, 0, err
		}
		length++
		magnitude.Lsh(magnitude, 7)
		magnitude.Or(magnitude, big.NewInt(int64(b&0x7F)))
		if b&0x80 != 0 {
			return magnitude, negative, length, nil
		}
	}
}

// ReadVarInt reads a self-delimiting signed integer: the first byte's bit 6
// is the sign, bits 0-5 its top magnitude bits; subsequent bytes follow
// VarUInt. Returns the value, the number of bytes consumed, and any error.
func ReadVarInt(c *cursor) (*big.Int, uint64, error) {
	mag, neg, length, err := ReadVarIntRaw(c)
	if err != nil {
		return nil, 0, err
	}
	val := new(big.Int).Set(mag)
	if neg {
		val.Neg(val)
	}
	return val, length, nil
}

// appendVarInt appends the self-delimiting signed encoding of v.
func appendVarInt(b []byte, v *big.Int) []byte {
	neg := v.Sign() < 0
	mag := new(big.Int).Abs(v)

	signBit := byte(0)
	if neg {
		signBit = 0x40
	}

	// The first (most significant) byte holds the sign and the top 6 bits
	// of the magnitude; every subsequent byte holds 7 more bits.
	// Collect the low 7-bit groups, least-significant first, until what is
	// left fits in the first byte's 6 magnitude bits.
	rest := new(big.Int).Set(mag)
	var groups []byte
	mask7 := big.NewInt(0x7F)
	max6 := big.NewInt(0x3F)
	tmp := new(big.Int)
	for rest.Cmp(max6) > 0 {
		tmp.And(rest, mask7)
		groups = append(groups, byte(tmp.Uint64()))
		rest.Rsh(rest, 7)
	}
	firstSix := byte(rest.Uint64())

	if len(groups) == 0 {
		return append(b, 0x80|signBit|firstSix)
	}

	b = append(b, signBit|firstSix)
	for i := len(groups) - 1; i >= 0; i-- {
		g := groups[i]
		if i == 0 {
			g |= 0x80
		}
		b = append(b, g)
	}
	return b
}

// ReadBVM consumes the 3 bytes following the already-consumed 0xE0 lead
// byte and validates them against the Ion 1.0 marker.
func ReadBVM(c *cursor) error {
	var rest [3]byte
	for i := range rest {
		b, err := c.mustReadByte()
		if err != nil {
			return err
		}
		rest[i] = b
	}
	if rest[0] != byteVersionMarker[1] || rest[1] != byteVersionMarker[2] || rest[2] != byteVersionMarker[3] {
		return &BadFormedVersionHeaderError{Bytes: [4]byte{byteVersionMarker[0], rest[0], rest[1], rest[2]}}
	}
	return nil
}
