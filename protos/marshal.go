// Copyright 2024-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package protos

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Marshal serializes the list back to the wire format, in ascending field
// order with proto3 zero-value elision. A decode/encode round trip through
// this package drops only the sub-messages it doesn't model.
func (l *OpList) Marshal() []byte {
	if l == nil {
		return nil
	}
	var b []byte
	for _, op := range l.Ops {
		b = appendMessage(b, 1, op.marshal())
	}
	return b
}

func (op *OpDef) marshal() []byte {
	var b []byte
	b = appendString(b, 1, op.Name)
	for _, arg := range op.InputArgs {
		b = appendMessage(b, 2, arg.marshal())
	}
	for _, arg := range op.OutputArgs {
		b = appendMessage(b, 3, arg.marshal())
	}
	for _, attr := range op.Attrs {
		b = appendMessage(b, 4, attr.marshal())
	}
	b = appendString(b, 5, op.Summary)
	b = appendString(b, 6, op.Description)
	if op.Deprecation != nil {
		b = appendMessage(b, 8, op.Deprecation.marshal())
	}
	b = appendBool(b, 16, op.IsAggregate)
	b = appendBool(b, 17, op.IsStateful)
	b = appendBool(b, 18, op.IsCommutative)
	b = appendBool(b, 19, op.AllowsUninitializedInput)
	for _, name := range op.ControlOutputs {
		b = protowire.AppendTag(b, 20, protowire.BytesType)
		b = protowire.AppendString(b, name)
	}
	return b
}

func (arg *ArgDef) marshal() []byte {
	var b []byte
	b = appendString(b, 1, arg.Name)
	b = appendString(b, 2, arg.Description)
	if arg.Type != InvalidDataType {
		b = protowire.AppendTag(b, 3, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(arg.Type))
	}
	b = appendString(b, 4, arg.TypeAttr)
	b = appendString(b, 5, arg.NumberAttr)
	b = appendString(b, 6, arg.TypeListAttr)
	b = appendBool(b, 16, arg.IsRef)
	return b
}

func (attr *AttrDef) marshal() []byte {
	var b []byte
	b = appendString(b, 1, attr.Name)
	b = appendString(b, 2, attr.Type)
	if attr.DefaultValue != nil {
		b = appendMessage(b, 3, attr.DefaultValue.marshal())
	}
	b = appendString(b, 4, attr.Description)
	b = appendBool(b, 5, attr.HasMinimum)
	if attr.Minimum != 0 {
		b = protowire.AppendTag(b, 6, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(attr.Minimum))
	}
	if attr.AllowedValues != nil {
		b = appendMessage(b, 7, attr.AllowedValues.marshal())
	}
	return b
}

func (value *AttrValue) marshal() []byte {
	var b []byte
	if value.List != nil {
		b = appendMessage(b, 1, value.List.marshal())
	}
	if len(value.S) > 0 {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, value.S)
	}
	if value.I != 0 {
		b = protowire.AppendTag(b, 3, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(value.I))
	}
	if value.F != 0 {
		b = protowire.AppendTag(b, 4, protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, math.Float32bits(value.F))
	}
	b = appendBool(b, 5, value.B)
	if value.Type != InvalidDataType {
		b = protowire.AppendTag(b, 6, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(value.Type))
	}
	b = appendString(b, 9, value.Placeholder)
	return b
}

func (list *AttrListValue) marshal() []byte {
	var b []byte
	for _, s := range list.S {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, s)
	}
	if len(list.I) > 0 {
		var packed []byte
		for _, v := range list.I {
			packed = protowire.AppendVarint(packed, uint64(v))
		}
		b = appendMessage(b, 3, packed)
	}
	if len(list.F) > 0 {
		var packed []byte
		for _, v := range list.F {
			packed = protowire.AppendFixed32(packed, math.Float32bits(v))
		}
		b = appendMessage(b, 4, packed)
	}
	if len(list.B) > 0 {
		var packed []byte
		for _, v := range list.B {
			packed = protowire.AppendVarint(packed, protowire.EncodeBool(v))
		}
		b = appendMessage(b, 5, packed)
	}
	if len(list.Type) > 0 {
		var packed []byte
		for _, v := range list.Type {
			packed = protowire.AppendVarint(packed, uint64(v))
		}
		b = appendMessage(b, 6, packed)
	}
	return b
}

func (dep *OpDeprecation) marshal() []byte {
	var b []byte
	if dep.Version != 0 {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(dep.Version))
	}
	b = appendString(b, 2, dep.Explanation)
	return b
}

// appendMessage appends a length-delimited field holding an encoded
// sub-message or packed payload.
func appendMessage(b []byte, num protowire.Number, payload []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, payload)
}

// appendString appends a string field, eliding the proto3 zero value.
func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

// appendBool appends a bool field, eliding the proto3 zero value.
func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(v))
}
