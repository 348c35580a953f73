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

package format

import (
	"bytes"
	"testing"

	"github.com/xelalexv/d64ctl/pkg/image"
)

func TestNewFormatD64(t *testing.T) {
	fm, err := NewFormat("d64")
	if err != nil {
		t.Fatalf("NewFormat: %v", err)
	}
	if fm == nil {
		t.Fatal("NewFormat returned nil codec")
	}
}

func TestNewFormatUnknown(t *testing.T) {
	if _, err := NewFormat("g64"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestD64RoundTrip(t *testing.T) {
	im := image.Format(35, "ROUNDTRIP")
	if _, err := im.AddFile("HELLO", image.TypePRG, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("AddFile: %v", err)
	}

	fm, err := NewFormat("d64")
	if err != nil {
		t.Fatalf("NewFormat: %v", err)
	}

	var buf bytes.Buffer
	if err := fm.Write(im, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	loaded, err := fm.Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if loaded.DiskName() != "ROUNDTRIP" {
		t.Errorf("DiskName() = %q, want ROUNDTRIP", loaded.DiskName())
	}

	entries, err := loaded.ListDirectory()
	if err != nil {
		t.Fatalf("ListDirectory: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
}
