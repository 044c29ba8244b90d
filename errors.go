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

import "fmt"

// Stream exhaustion.

// NoDataToReadError is returned when a Parser is asked to consume a value
// but the stream has been fully drained.
type NoDataToReadError struct{}

func (e *NoDataToReadError) Error() string { return "ion: no data to read" }

// NotEnoughDataError is returned when a declared length claims more bytes
// than the stream actually has remaining.
type NotEnoughDataError struct {
	Expected uint64
}

func (e *NotEnoughDataError) Error() string {
	return fmt.Sprintf("ion: not enough data to read: expected %d bytes", e.Expected)
}

// Header malformation.

// InvalidHeaderTypeError is returned when a header's type cannot stand where
// it was found, such as a NOP pad wrapped by an annotation. The reserved
// type nibble T=15 is reported as InvalidReservedTypeDescriptorError.
type InvalidHeaderTypeError struct {
	Offset uint64
}

func (e *InvalidHeaderTypeError) Error() string {
	return fmt.Sprintf("ion: invalid header type (offset %d)", e.Offset)
}

// InvalidReservedTypeDescriptorError is returned for the reserved type
// nibble T=15.
type InvalidReservedTypeDescriptorError struct {
	Offset uint64
}

func (e *InvalidReservedTypeDescriptorError) Error() string {
	return fmt.Sprintf("ion: reserved type descriptor (offset %d)", e.Offset)
}

// BadFormedVersionHeaderError is returned when a 4-byte sequence starting
// with 0xE0 does not end in 0xEA.
type BadFormedVersionHeaderError struct {
	Bytes [4]byte
}

func (e *BadFormedVersionHeaderError) Error() string {
	return fmt.Sprintf("ion: malformed version marker % X", e.Bytes)
}

// NestedVersionMarkerError is returned when a BVM is found inside a
// container, annotation wrapper, or import slot.
type NestedVersionMarkerError struct {
	Offset uint64
}

func (e *NestedVersionMarkerError) Error() string {
	return fmt.Sprintf("ion: version marker nested inside a value (offset %d)", e.Offset)
}

// Variant-specific length.

// InvalidBoolLengthError is returned when a bool's length code is not in
// {0, 1, 15}.
type InvalidBoolLengthError struct {
	Length uint64
}

func (e *InvalidBoolLengthError) Error() string {
	return fmt.Sprintf("ion: invalid bool length %d", e.Length)
}

// NotValidLengthFloatError is returned when a float's length code is not in
// {0, 4, 8, 15}.
type NotValidLengthFloatError struct {
	Length uint64
}

func (e *NotValidLengthFloatError) Error() string {
	return fmt.Sprintf("ion: invalid float length %d", e.Length)
}

// InvalidAnnotationLengthError is returned when an annotation wrapper's
// content is shorter than the minimum 3 bytes.
type InvalidAnnotationLengthError struct {
	Length uint64
}

func (e *InvalidAnnotationLengthError) Error() string {
	return fmt.Sprintf("ion: invalid annotation length %d", e.Length)
}

// Value constraint.

// InvalidNegativeIntError is returned when a negative int's magnitude
// encodes to zero (negative zero).
type InvalidNegativeIntError struct {
	Offset uint64
}

func (e *InvalidNegativeIntError) Error() string {
	return fmt.Sprintf("ion: integer zero cannot be negative (offset %d)", e.Offset)
}

// EmptyOrderedStructError is returned for an ordered-struct form (T=13,L=1)
// with zero length.
type EmptyOrderedStructError struct{}

func (e *EmptyOrderedStructError) Error() string { return "ion: ordered struct cannot be empty" }

// ListLengthWasTooShortError is returned when a list/sexp's declared length
// is exhausted mid-value.
type ListLengthWasTooShortError struct{}

func (e *ListLengthWasTooShortError) Error() string {
	return "ion: list or sexp length was too short for its contents"
}

// NonUtf8StringError is returned when a string value's bytes are not valid
// UTF-8.
type NonUtf8StringError struct {
	Offset uint64
}

func (e *NonUtf8StringError) Error() string {
	return fmt.Sprintf("ion: string value is not valid UTF-8 (offset %d)", e.Offset)
}

// DecimalExponentTooBigError is returned when a decimal's exponent exceeds
// the representable range.
type DecimalExponentTooBigError struct {
	Exponent int64
}

func (e *DecimalExponentTooBigError) Error() string {
	return fmt.Sprintf("ion: decimal exponent too big: %d", e.Exponent)
}

// Annotation.

// NestedAnnotationsError is returned when an annotation wrapper directly
// wraps another annotation wrapper.
type NestedAnnotationsError struct{}

func (e *NestedAnnotationsError) Error() string { return "ion: annotation wrapper cannot wrap another annotation wrapper" }

// NullAnnotationFoundError is returned for an annotation wrapper whose
// length code is the null marker.
type NullAnnotationFoundError struct{}

func (e *NullAnnotationFoundError) Error() string { return "ion: an annotation wrapper cannot be null" }

// NullSymbolFoundError is returned when an annotation symbol ID is 0.
type NullSymbolFoundError struct{}

func (e *NullSymbolFoundError) Error() string { return "ion: annotation symbol id cannot be $0" }

// BadAnnotationLengthError is returned when an annotation wrapper's declared
// length does not match the sum of its parts.
type BadAnnotationLengthError struct {
	Declared, Actual uint64
}

func (e *BadAnnotationLengthError) Error() string {
	return fmt.Sprintf("ion: annotation wrapper length mismatch: declared %d, actual %d", e.Declared, e.Actual)
}

// Symbol table.

// SymbolNotFoundInTableError is returned when a symbol ID has no entry in
// the current symbol table.
type SymbolNotFoundInTableError struct {
	ID uint64
}

func (e *SymbolNotFoundInTableError) Error() string {
	return fmt.Sprintf("ion: symbol id %d not found in table", e.ID)
}

// SymbolIdNotDefinedError is returned when an annotation or field-name
// symbol ID resolves to nothing.
type SymbolIdNotDefinedError struct {
	ID uint64
}

func (e *SymbolIdNotDefinedError) Error() string {
	return fmt.Sprintf("ion: symbol id %d is not defined", e.ID)
}

// MaxIdNeededWhenImportingANotFoundSharedTableError is returned when an
// import names a shared table that isn't registered and omits max_id.
type MaxIdNeededWhenImportingANotFoundSharedTableError struct {
	Name    string
	Version int
}

func (e *MaxIdNeededWhenImportingANotFoundSharedTableError) Error() string {
	return fmt.Sprintf("ion: shared table %q version %d not found and max_id was not given", e.Name, e.Version)
}

// TableVersionAlreadyThereError is returned when registering a
// (name, version) pair that's already registered.
type TableVersionAlreadyThereError struct {
	Name    string
	Version int
}

func (e *TableVersionAlreadyThereError) Error() string {
	return fmt.Sprintf("ion: shared table %q version %d already registered", e.Name, e.Version)
}

// DuplicateDirectiveFieldError is returned when a local symbol-table
// directive struct repeats its "imports" or "symbols" field.
type DuplicateDirectiveFieldError struct {
	Field string
}

func (e *DuplicateDirectiveFieldError) Error() string {
	return fmt.Sprintf("ion: local symbol table directive repeats field %q", e.Field)
}

// Conversion (JSON boundary).

// TypeNotSupportedError is returned converting a Value to the generic JSON
// model when its Kind has no JSON representation.
type TypeNotSupportedError struct {
	Kind Kind
}

func (e *TypeNotSupportedError) Error() string {
	return fmt.Sprintf("ion: %v has no JSON representation", e.Kind)
}

// DecimalNotANumericValueError is returned converting a non-finite float to
// JSON (NaN, +Inf, -Inf have no JSON numeric representation).
type DecimalNotANumericValueError struct {
	Value float64
}

func (e *DecimalNotANumericValueError) Error() string {
	return fmt.Sprintf("ion: %v is not a representable JSON number", e.Value)
}

// NumericTransformationError is returned when a numeric conversion fails for
// a reason not covered by a more specific error.
type NumericTransformationError struct {
	Detail string
}

func (e *NumericTransformationError) Error() string {
	return fmt.Sprintf("ion: numeric transformation error: %s", e.Detail)
}
