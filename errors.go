// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nbuf

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates a nonblocking transfer cannot proceed.
//
// Returned by the io.Reader / io.Writer adapters on [SPSCRing] when no
// bytes (or, for Write, not all bytes) can be moved right now. It is a
// control flow signal, not a failure; retry later, typically behind an
// iox.Backoff.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrInvalidAddress indicates an address that collides with the
// reserved TaggedPtr tag bits: either its upper bits exceed the
// configured virtual-address width (see vaBits) or its lower bits
// violate the pointee's natural alignment. This is a configuration or
// platform mismatch, detected at construction and never silently
// masked.
var ErrInvalidAddress = errors.New("nbuf: address holds tag bits")

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
