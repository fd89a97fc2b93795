// Copyright 2024-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package protos models the protocol-buffer messages exchanged with the
// TensorFlow C runtime -- for now the OpList/OpDef family defined in
// tensorflow/core/framework/op_def.proto.
//
// The types here are a deliberate subset of the runtime's schema: they carry
// the fields a binding layer cares about (names, input/output/attribute
// schemas, deprecation) and skip the deep tensor/shape/function sub-messages.
// Encoding and decoding are written directly over
// google.golang.org/protobuf/encoding/protowire, so no generated code (and no
// transitive closure of the runtime's .proto files) is needed. Per protobuf
// compatibility rules, unknown fields -- including everything newer runtimes
// may add -- are skipped, never an error.
package protos

// OpList is an ordered collection of operation definitions, as reported by
// the runtime's registry or contributed by a loaded plugin library.
type OpList struct {
	Ops []*OpDef
}

// Len returns the number of operations in the list.
func (l *OpList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Ops)
}

// Names returns the operation names in their original registry order.
func (l *OpList) Names() []string {
	if l == nil {
		return nil
	}
	names := make([]string, 0, len(l.Ops))
	for _, op := range l.Ops {
		names = append(names, op.Name)
	}
	return names
}

// Find returns the operation definition with the given name, or nil if the
// list doesn't include it.
func (l *OpList) Find(name string) *OpDef {
	if l == nil {
		return nil
	}
	for _, op := range l.Ops {
		if op.Name == name {
			return op
		}
	}
	return nil
}

// OpDef describes one operation: its name and the schema of its inputs,
// outputs and attributes.
type OpDef struct {
	Name string

	InputArgs  []*ArgDef
	OutputArgs []*ArgDef

	// ControlOutputs are the names of control outputs for function-backed
	// operations. Usually empty for primitive ops.
	ControlOutputs []string

	Attrs []*AttrDef

	Summary     string
	Description string

	IsCommutative            bool
	IsAggregate              bool
	IsStateful               bool
	AllowsUninitializedInput bool

	// Deprecation is set when the op is scheduled for removal.
	Deprecation *OpDeprecation
}

// ArgDef describes one input or output argument of an operation.
//
// Exactly one of Type, TypeAttr or TypeListAttr describes the argument's
// data type; NumberAttr optionally names the attribute holding the sequence
// length for repeated arguments.
type ArgDef struct {
	Name        string
	Description string

	Type         DataType
	TypeAttr     string
	NumberAttr   string
	TypeListAttr string

	// IsRef marks reference-typed arguments (mutable state).
	IsRef bool
}

// AttrDef describes one attribute of an operation: a name, a type expression
// (e.g. "int", "type", "list(shape)") and optional constraints.
type AttrDef struct {
	Name        string
	Type        string
	Description string

	// DefaultValue, when set, makes the attribute optional.
	DefaultValue *AttrValue

	// HasMinimum/Minimum constrain "int" attributes, or the minimum list
	// length for "list(...)" attributes.
	HasMinimum bool
	Minimum    int64

	// AllowedValues, when set, restricts the attribute to the given set
	// (carried in AllowedValues.List).
	AllowedValues *AttrValue
}

// AttrValue is the value of an attribute: one of the scalar fields or List
// is set. Tensor-, shape- and function-valued attributes are not modeled and
// decode as unset.
type AttrValue struct {
	S    []byte
	I    int64
	F    float32
	B    bool
	Type DataType

	List *AttrListValue

	// Placeholder is used inside function definitions for values filled in
	// at instantiation time.
	Placeholder string
}

// AttrListValue holds the "list(...)" cases of an AttrValue.
type AttrListValue struct {
	S    [][]byte
	I    []int64
	F    []float32
	B    []bool
	Type []DataType
}

// OpDeprecation marks an op scheduled for removal at a given graph version.
type OpDeprecation struct {
	Version     int32
	Explanation string
}
