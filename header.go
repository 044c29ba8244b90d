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

// typeCode identifies the T nibble of a value's tag byte.
type typeCode uint8

const (
	tcNullOrNop   typeCode = 0
	tcBool        typeCode = 1
	tcPositiveInt typeCode = 2
	tcNegativeInt typeCode = 3
	tcFloat       typeCode = 4
	tcDecimal     typeCode = 5
	tcTimestamp   typeCode = 6
	tcSymbol      typeCode = 7
	tcString      typeCode = 8
	tcClob        typeCode = 9
	tcBlob        typeCode = 10
	tcList        typeCode = 11
	tcSExpr       typeCode = 12
	tcStruct      typeCode = 13
	tcAnnotation  typeCode = 14
	tcReserved    typeCode = 15
)

// header is a value's decomposed, validated, length-resolved tag byte.
type header struct {
	Type    typeCode
	LenCode uint8 // the raw L nibble, 0-15
	Length  uint64
	IsNull  bool
	IsNop   bool // T=0, L<15
	Ordered bool // T=13, L=1: ordered struct, length always explicit VarUInt
	Offset  uint64
}

// readHeader reads and validates one tag byte (plus its long-length VarUInt,
// if any). It does not know about containers or remaining bytes in an
// enclosing container; callers that need to bounds-check Length against
// what's left do so themselves.
// readHeader is used everywhere below the top level (container children,
// struct field values, annotation-wrapped values), where a version marker
// byte can never legitimately appear.
func readHeader(c *cursor) (header, error) {
	offset := c.pos
	b, err := c.mustReadByte()
	if err != nil {
		return header{}, err
	}
	if b == byteVersionMarker[0] {
		return header{}, &NestedVersionMarkerError{Offset: offset}
	}

	t := typeCode(b >> 4)
	l := b & 0x0F

	if t == tcReserved {
		return header{}, &InvalidReservedTypeDescriptorError{Offset: offset}
	}

	return readHeaderBody(c, offset, t, l)
}
