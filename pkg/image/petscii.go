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
	"path/filepath"
	"strings"
)

// NameLen is the fixed width, in bytes, of a disk or file name field.
const NameLen = 16

// PadByte is the 0xA0 shifted-space byte used to right-pad names.
const PadByte = 0xA0

// PadName right-pads name with PadByte to NameLen bytes, truncating if
// it is already longer. Input is expected to already be uppercase
// ASCII; PadName does not case-fold.
func PadName(name string) [NameLen]byte {
	var out [NameLen]byte
	for i := range out {
		out[i] = PadByte
	}
	b := []byte(name)
	if len(b) > NameLen {
		b = b[:NameLen]
	}
	copy(out[:], b)
	return out
}

// TrimName strips trailing PadByte bytes from a fixed-width name
// field, returning it as a string.
func TrimName(field []byte) string {
	end := len(field)
	for end > 0 && field[end-1] == PadByte {
		end--
	}
	return string(field[:end])
}

// NamesEqual compares two name fields byte-exact on their padded
// form.
func NamesEqual(a, b [NameLen]byte) bool {
	return a == b
}

// HostNameToDiskName derives an on-disk name from a host-supplied
// path: take the basename, uppercase it, split on the last '.', keep
// the left half, then pad to NameLen bytes.
func HostNameToDiskName(path string) [NameLen]byte {
	base := filepath.Base(path)
	base = strings.ToUpper(base)
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[:i]
	}
	return PadName(base)
}

// HostExtension returns the uppercased extension (without the dot) of
// a host-supplied path, used both to infer an entry's type from a
// source file (".REL", ".SEQ", ...) and to validate a disk image
// argument's extension.
func HostExtension(path string) string {
	ext := filepath.Ext(path)
	return strings.ToUpper(strings.TrimPrefix(ext, "."))
}
