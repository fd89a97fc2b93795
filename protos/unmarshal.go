// Copyright 2024-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package protos

import (
	"bytes"
	"fmt"
	"math"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// UnmarshalOpList decodes a serialized OpList message, the format returned by
// the runtime's op registry queries. Unknown fields, and known fields with an
// unexpected wire type, are skipped per protobuf compatibility rules; an
// error means data is not a valid protobuf encoding at all.
func UnmarshalOpList(data []byte) (*OpList, error) {
	list := &OpList{}
	d := newDecoder(data, "OpList")
	for {
		num, typ, ok := d.next()
		if !ok {
			break
		}
		switch {
		case num == 1 && typ == protowire.BytesType:
			op, err := unmarshalOpDef(d.bytes("op"))
			if err != nil {
				d.err = err
				break
			}
			list.Ops = append(list.Ops, op)
		default:
			d.skip(num, typ)
		}
	}
	if d.err != nil {
		return nil, d.err
	}
	return list, nil
}

func unmarshalOpDef(data []byte) (*OpDef, error) {
	op := &OpDef{}
	d := newDecoder(data, "OpDef")
	for {
		num, typ, ok := d.next()
		if !ok {
			break
		}
		switch {
		case num == 1 && typ == protowire.BytesType:
			op.Name = d.str("name")
		case num == 2 && typ == protowire.BytesType:
			arg, err := unmarshalArgDef(d.bytes("input_arg"))
			if err != nil {
				d.err = err
				break
			}
			op.InputArgs = append(op.InputArgs, arg)
		case num == 3 && typ == protowire.BytesType:
			arg, err := unmarshalArgDef(d.bytes("output_arg"))
			if err != nil {
				d.err = err
				break
			}
			op.OutputArgs = append(op.OutputArgs, arg)
		case num == 4 && typ == protowire.BytesType:
			attr, err := unmarshalAttrDef(d.bytes("attr"))
			if err != nil {
				d.err = err
				break
			}
			op.Attrs = append(op.Attrs, attr)
		case num == 5 && typ == protowire.BytesType:
			op.Summary = d.str("summary")
		case num == 6 && typ == protowire.BytesType:
			op.Description = d.str("description")
		case num == 8 && typ == protowire.BytesType:
			dep, err := unmarshalOpDeprecation(d.bytes("deprecation"))
			if err != nil {
				d.err = err
				break
			}
			op.Deprecation = dep
		case num == 16 && typ == protowire.VarintType:
			op.IsAggregate = protowire.DecodeBool(d.varint("is_aggregate"))
		case num == 17 && typ == protowire.VarintType:
			op.IsStateful = protowire.DecodeBool(d.varint("is_stateful"))
		case num == 18 && typ == protowire.VarintType:
			op.IsCommutative = protowire.DecodeBool(d.varint("is_commutative"))
		case num == 19 && typ == protowire.VarintType:
			op.AllowsUninitializedInput = protowire.DecodeBool(d.varint("allows_uninitialized_input"))
		case num == 20 && typ == protowire.BytesType:
			op.ControlOutputs = append(op.ControlOutputs, d.str("control_output"))
		default:
			d.skip(num, typ)
		}
	}
	if d.err != nil {
		return nil, d.err
	}
	return op, nil
}

func unmarshalArgDef(data []byte) (*ArgDef, error) {
	arg := &ArgDef{}
	d := newDecoder(data, "OpDef.ArgDef")
	for {
		num, typ, ok := d.next()
		if !ok {
			break
		}
		switch {
		case num == 1 && typ == protowire.BytesType:
			arg.Name = d.str("name")
		case num == 2 && typ == protowire.BytesType:
			arg.Description = d.str("description")
		case num == 3 && typ == protowire.VarintType:
			arg.Type = DataType(d.varint("type"))
		case num == 4 && typ == protowire.BytesType:
			arg.TypeAttr = d.str("type_attr")
		case num == 5 && typ == protowire.BytesType:
			arg.NumberAttr = d.str("number_attr")
		case num == 6 && typ == protowire.BytesType:
			arg.TypeListAttr = d.str("type_list_attr")
		case num == 16 && typ == protowire.VarintType:
			arg.IsRef = protowire.DecodeBool(d.varint("is_ref"))
		default:
			d.skip(num, typ)
		}
	}
	if d.err != nil {
		return nil, d.err
	}
	return arg, nil
}

func unmarshalAttrDef(data []byte) (*AttrDef, error) {
	attr := &AttrDef{}
	d := newDecoder(data, "OpDef.AttrDef")
	for {
		num, typ, ok := d.next()
		if !ok {
			break
		}
		switch {
		case num == 1 && typ == protowire.BytesType:
			attr.Name = d.str("name")
		case num == 2 && typ == protowire.BytesType:
			attr.Type = d.str("type")
		case num == 3 && typ == protowire.BytesType:
			value, err := unmarshalAttrValue(d.bytes("default_value"))
			if err != nil {
				d.err = err
				break
			}
			attr.DefaultValue = value
		case num == 4 && typ == protowire.BytesType:
			attr.Description = d.str("description")
		case num == 5 && typ == protowire.VarintType:
			attr.HasMinimum = protowire.DecodeBool(d.varint("has_minimum"))
		case num == 6 && typ == protowire.VarintType:
			attr.Minimum = int64(d.varint("minimum"))
		case num == 7 && typ == protowire.BytesType:
			value, err := unmarshalAttrValue(d.bytes("allowed_values"))
			if err != nil {
				d.err = err
				break
			}
			attr.AllowedValues = value
		default:
			d.skip(num, typ)
		}
	}
	if d.err != nil {
		return nil, d.err
	}
	return attr, nil
}

func unmarshalAttrValue(data []byte) (*AttrValue, error) {
	value := &AttrValue{}
	d := newDecoder(data, "AttrValue")
	for {
		num, typ, ok := d.next()
		if !ok {
			break
		}
		switch {
		case num == 1 && typ == protowire.BytesType:
			list, err := unmarshalAttrListValue(d.bytes("list"))
			if err != nil {
				d.err = err
				break
			}
			value.List = list
		case num == 2 && typ == protowire.BytesType:
			value.S = bytes.Clone(d.bytes("s"))
		case num == 3 && typ == protowire.VarintType:
			value.I = int64(d.varint("i"))
		case num == 4 && typ == protowire.Fixed32Type:
			value.F = math.Float32frombits(d.fixed32("f"))
		case num == 5 && typ == protowire.VarintType:
			value.B = protowire.DecodeBool(d.varint("b"))
		case num == 6 && typ == protowire.VarintType:
			value.Type = DataType(d.varint("type"))
		case num == 9 && typ == protowire.BytesType:
			value.Placeholder = d.str("placeholder")
		default:
			// Tensor-, shape- and function-valued attributes land here.
			d.skip(num, typ)
		}
	}
	if d.err != nil {
		return nil, d.err
	}
	return value, nil
}

func unmarshalAttrListValue(data []byte) (*AttrListValue, error) {
	list := &AttrListValue{}
	d := newDecoder(data, "AttrValue.ListValue")
	for {
		num, typ, ok := d.next()
		if !ok {
			break
		}
		switch {
		case num == 2 && typ == protowire.BytesType:
			list.S = append(list.S, bytes.Clone(d.bytes("s")))
		case num == 3 && packable(typ, protowire.VarintType):
			d.varints("i", typ, func(v uint64) {
				list.I = append(list.I, int64(v))
			})
		case num == 4 && packable(typ, protowire.Fixed32Type):
			d.fixed32s("f", typ, func(v uint32) {
				list.F = append(list.F, math.Float32frombits(v))
			})
		case num == 5 && packable(typ, protowire.VarintType):
			d.varints("b", typ, func(v uint64) {
				list.B = append(list.B, protowire.DecodeBool(v))
			})
		case num == 6 && packable(typ, protowire.VarintType):
			d.varints("type", typ, func(v uint64) {
				list.Type = append(list.Type, DataType(v))
			})
		default:
			d.skip(num, typ)
		}
	}
	if d.err != nil {
		return nil, d.err
	}
	return list, nil
}

func unmarshalOpDeprecation(data []byte) (*OpDeprecation, error) {
	dep := &OpDeprecation{}
	d := newDecoder(data, "OpDeprecation")
	for {
		num, typ, ok := d.next()
		if !ok {
			break
		}
		switch {
		case num == 1 && typ == protowire.VarintType:
			dep.Version = int32(d.varint("version"))
		case num == 2 && typ == protowire.BytesType:
			dep.Explanation = d.str("explanation")
		default:
			d.skip(num, typ)
		}
	}
	if d.err != nil {
		return nil, d.err
	}
	return dep, nil
}

// decoder walks the fields of one encoded message, keeping the first error
// it hits so the per-message loops above stay linear.
type decoder struct {
	data []byte
	msg  string
	err  error
}

func newDecoder(data []byte, msg string) *decoder {
	return &decoder{data: data, msg: msg}
}

// next advances to the next field tag, returning ok=false at the end of the
// message or after an error.
func (d *decoder) next() (protowire.Number, protowire.Type, bool) {
	if d.err != nil || len(d.data) == 0 {
		return 0, 0, false
	}
	num, typ, n := protowire.ConsumeTag(d.data)
	if n < 0 {
		d.fail("field tag", n)
		return 0, 0, false
	}
	d.data = d.data[n:]
	return num, typ, true
}

func (d *decoder) fail(what string, n int) {
	d.err = errors.Wrapf(protowire.ParseError(n), "decoding %s: %s", d.msg, what)
}

// bytes consumes a length-delimited payload. The returned slice aliases the
// input, callers that retain it must copy.
func (d *decoder) bytes(field string) []byte {
	if d.err != nil {
		return nil
	}
	v, n := protowire.ConsumeBytes(d.data)
	if n < 0 {
		d.fail(field, n)
		return nil
	}
	d.data = d.data[n:]
	return v
}

func (d *decoder) str(field string) string {
	return string(d.bytes(field))
}

func (d *decoder) varint(field string) uint64 {
	if d.err != nil {
		return 0
	}
	v, n := protowire.ConsumeVarint(d.data)
	if n < 0 {
		d.fail(field, n)
		return 0
	}
	d.data = d.data[n:]
	return v
}

func (d *decoder) fixed32(field string) uint32 {
	if d.err != nil {
		return 0
	}
	v, n := protowire.ConsumeFixed32(d.data)
	if n < 0 {
		d.fail(field, n)
		return 0
	}
	d.data = d.data[n:]
	return v
}

// varints decodes a repeated varint-typed field, accepting both the packed
// and the unpacked encoding.
func (d *decoder) varints(field string, typ protowire.Type, emit func(uint64)) {
	if typ != protowire.BytesType {
		emit(d.varint(field))
		return
	}
	payload := d.bytes(field)
	for d.err == nil && len(payload) > 0 {
		v, n := protowire.ConsumeVarint(payload)
		if n < 0 {
			d.fail(field, n)
			return
		}
		payload = payload[n:]
		emit(v)
	}
}

// fixed32s is varints for fixed32-typed fields.
func (d *decoder) fixed32s(field string, typ protowire.Type, emit func(uint32)) {
	if typ != protowire.BytesType {
		emit(d.fixed32(field))
		return
	}
	payload := d.bytes(field)
	for d.err == nil && len(payload) > 0 {
		v, n := protowire.ConsumeFixed32(payload)
		if n < 0 {
			d.fail(field, n)
			return
		}
		payload = payload[n:]
		emit(v)
	}
}

// packable reports whether typ is a valid encoding of a repeated scalar
// field: either the scalar's own wire type (unpacked) or a length-delimited
// packed run.
func packable(typ, scalar protowire.Type) bool {
	return typ == scalar || typ == protowire.BytesType
}

// skip discards a field this package doesn't model, or a known field carrying
// an unexpected wire type, which protobuf treats the same way.
func (d *decoder) skip(num protowire.Number, typ protowire.Type) {
	if d.err != nil {
		return
	}
	n := protowire.ConsumeFieldValue(num, typ, d.data)
	if n < 0 {
		d.fail(fmt.Sprintf("field #%d", num), n)
		return
	}
	d.data = d.data[n:]
}
