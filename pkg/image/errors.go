/*
   d64ctl - Commodore 1541 disk image toolkit

   This file is part of d64ctl.

   d64ctl is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   d64ctl is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with d64ctl. If not, see <http://www.gnu.org/licenses/>.
*/

package image

import (
	"errors"
	"fmt"
)

// ErrKind enumerates the failure modes an Operations call can return.
// Errors are enumerated rather than stringly-typed so callers (CLI,
// daemon HTTP handlers) can switch on Kind instead of matching text.
type ErrKind int

const (
	ErrInvalidImageSize ErrKind = iota
	ErrInvalidTrackSector
	ErrDiskFull
	ErrDirectoryFull
	ErrNotFound
	ErrDuplicate
	ErrInvalidRecordSize
	ErrUseAddRel
	ErrCorruptChain
	ErrIoError
)

//
func (k ErrKind) String() string {
	switch k {
	case ErrInvalidImageSize:
		return "InvalidImageSize"
	case ErrInvalidTrackSector:
		return "InvalidTrackSector"
	case ErrDiskFull:
		return "DiskFull"
	case ErrDirectoryFull:
		return "DirectoryFull"
	case ErrNotFound:
		return "NotFound"
	case ErrDuplicate:
		return "Duplicate"
	case ErrInvalidRecordSize:
		return "InvalidRecordSize"
	case ErrUseAddRel:
		return "UseAddRel"
	case ErrCorruptChain:
		return "CorruptChain"
	case ErrIoError:
		return "IoError"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by every Operations call
// that fails. Kind is stable and safe to switch on; Msg carries the
// human-readable detail.
type Error struct {
	Kind ErrKind
	Msg  string
}

//
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// newErr builds an *Error with a formatted message.
func newErr(kind ErrKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind ErrKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
