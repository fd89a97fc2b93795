// Copyright 2024-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tf

// Code is the status code the TensorFlow runtime reports in TF_Status
// objects, e.g. on a failed plugin load (see LoadError).
type Code int32

//go:generate stringer -type=Code code.go

// Values copied from tensorflow/core/protobuf/error_codes.proto.
const (
	OK                  Code = 0
	CANCELLED           Code = 1
	UNKNOWN             Code = 2
	INVALID_ARGUMENT    Code = 3
	DEADLINE_EXCEEDED   Code = 4
	NOT_FOUND           Code = 5
	ALREADY_EXISTS      Code = 6
	PERMISSION_DENIED   Code = 7
	RESOURCE_EXHAUSTED  Code = 8
	FAILED_PRECONDITION Code = 9
	ABORTED             Code = 10
	OUT_OF_RANGE        Code = 11
	UNIMPLEMENTED       Code = 12
	INTERNAL            Code = 13
	UNAVAILABLE         Code = 14
	DATA_LOSS           Code = 15
	UNAUTHENTICATED     Code = 16
)
