// Copyright 2024-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tf

import "unsafe"

// bytes copies the buffer payload into Go-owned memory. Callers must do this
// before releasing whatever owns the payload (the buffer itself for
// TF_GetAllOpList, the library handle for TF_GetOpList).
func (b *cBuffer) bytes() []byte {
	if b == nil || b.Data == nil || b.Length == 0 {
		return nil
	}
	payload := unsafe.Slice((*byte)(b.Data), int(b.Length))
	return append([]byte(nil), payload...)
}
