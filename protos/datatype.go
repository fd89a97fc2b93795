// Copyright 2024-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package protos

import "fmt"

// DataType enumerates the element types of the runtime's tensors, with the
// same numeric values as tensorflow/core/framework/types.proto, so values
// decoded from the wire can be used directly.
//
// Values at or above 100 are the "reference" variants of the type 100 below
// them, used for mutable state arguments.
type DataType int32

const (
	InvalidDataType DataType = 0

	Float      DataType = 1
	Double     DataType = 2
	Int32      DataType = 3
	UInt8      DataType = 4
	Int16      DataType = 5
	Int8       DataType = 6
	String     DataType = 7
	Complex64  DataType = 8
	Int64      DataType = 9
	Bool       DataType = 10
	QInt8      DataType = 11
	QUInt8     DataType = 12
	QInt32     DataType = 13
	BFloat16   DataType = 14
	QInt16     DataType = 15
	QUInt16    DataType = 16
	UInt16     DataType = 17
	Complex128 DataType = 18
	Half       DataType = 19
	Resource   DataType = 20
	Variant    DataType = 21
	UInt32     DataType = 22
	UInt64     DataType = 23
)

// refOffset separates a reference type from its base type in types.proto.
const refOffset DataType = 100

var dataTypeNames = map[DataType]string{
	InvalidDataType: "InvalidDataType",
	Float:           "Float",
	Double:          "Double",
	Int32:           "Int32",
	UInt8:           "UInt8",
	Int16:           "Int16",
	Int8:            "Int8",
	String:          "String",
	Complex64:       "Complex64",
	Int64:           "Int64",
	Bool:            "Bool",
	QInt8:           "QInt8",
	QUInt8:          "QUInt8",
	QInt32:          "QInt32",
	BFloat16:        "BFloat16",
	QInt16:          "QInt16",
	QUInt16:         "QUInt16",
	UInt16:          "UInt16",
	Complex128:      "Complex128",
	Half:            "Half",
	Resource:        "Resource",
	Variant:         "Variant",
	UInt32:          "UInt32",
	UInt64:          "UInt64",
}

// IsRef reports whether dt is a reference variant.
func (dt DataType) IsRef() bool {
	return dt >= refOffset
}

// Base strips the reference marker, returning the underlying element type.
func (dt DataType) Base() DataType {
	if dt.IsRef() {
		return dt - refOffset
	}
	return dt
}

// String implements fmt.Stringer. Reference variants print with a "Ref"
// suffix; values this package doesn't know print numerically, they are
// still valid wire values.
func (dt DataType) String() string {
	suffix := ""
	base := dt
	if dt.IsRef() {
		suffix = "Ref"
		base = dt.Base()
	}
	if name, found := dataTypeNames[base]; found {
		return name + suffix
	}
	return fmt.Sprintf("DataType(%d)", int32(dt))
}
