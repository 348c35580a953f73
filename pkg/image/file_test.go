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
	"bytes"
	"fmt"
	"testing"
)

func TestAddExtractRoundTrip(t *testing.T) {
	im := Format(35, "TEST")
	payload := append([]byte{0x01, 0x08}, bytes.Repeat([]byte("A"), 100)...)

	name := HostNameToDiskName("HELLO.PRG")
	e, err := im.AddFile(TrimName(name[:]), TypePRG, payload)
	if err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if e.SizeSectors != 1 {
		t.Errorf("size = %d sectors, want 1", e.SizeSectors)
	}

	entries, err := im.ListDirectory()
	if err != nil {
		t.Fatalf("ListDirectory: %v", err)
	}
	if len(entries) != 1 || entries[0].Type != TypePRG {
		t.Fatalf("unexpected directory listing: %+v", entries)
	}

	got, err := im.ExtractFile("HELLO")
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("extracted payload mismatch: got %d bytes, want %d", len(got), len(payload))
	}
}

func TestBoundaryExact254Bytes(t *testing.T) {
	im := Format(35, "TEST")
	payload := bytes.Repeat([]byte{0x42}, 254)
	e, err := im.AddFile("X", TypeSEQ, payload)
	if err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if e.SizeSectors != 1 {
		t.Errorf("size = %d sectors, want 1", e.SizeSectors)
	}
	buf, err := im.ReadSector(e.FirstTrack, e.FirstSector)
	if err != nil {
		t.Fatalf("ReadSector: %v", err)
	}
	if buf[0] != 0 || buf[1] != 255 {
		t.Errorf("terminal header = (%d,%d), want (0,255)", buf[0], buf[1])
	}
}

func TestBoundary255BytesSpansTwoSectors(t *testing.T) {
	im := Format(35, "TEST")
	payload := bytes.Repeat([]byte{0x42}, 255)
	e, err := im.AddFile("X", TypeSEQ, payload)
	if err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if e.SizeSectors != 2 {
		t.Errorf("size = %d sectors, want 2", e.SizeSectors)
	}
	got, err := im.ExtractFile("X")
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("round-trip mismatch")
	}
}

func TestEmptyPayloadSucceeds(t *testing.T) {
	im := Format(35, "TEST")
	e, err := im.AddFile("EMPTY", TypeSEQ, nil)
	if err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if e.SizeSectors != 1 {
		t.Errorf("size = %d sectors, want 1", e.SizeSectors)
	}
	buf, err := im.ReadSector(e.FirstTrack, e.FirstSector)
	if err != nil {
		t.Fatalf("ReadSector: %v", err)
	}
	if buf[0] != 0 || buf[1] != 1 {
		t.Errorf("terminal header = (%d,%d), want (0,1)", buf[0], buf[1])
	}
}

func TestAddFileRejectsREL(t *testing.T) {
	im := Format(35, "TEST")
	if _, err := im.AddFile("X", TypeREL, []byte("x")); !Is(err, ErrUseAddRel) {
		t.Fatalf("expected UseAddRel, got %v", err)
	}
}

func TestAddRelFileRoundTrip(t *testing.T) {
	im := Format(35, "TEST")
	payload := bytes.Repeat([]byte("record--"), 50)
	e, err := im.AddRelFile("DATA", 8, payload)
	if err != nil {
		t.Fatalf("AddRelFile: %v", err)
	}
	if e.RecordLen != 8 {
		t.Errorf("record len = %d, want 8", e.RecordLen)
	}
	got, err := im.ExtractFile("DATA")
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("REL round-trip mismatch")
	}
}

func TestAddRelFileInvalidRecordSize(t *testing.T) {
	im := Format(35, "TEST")
	if _, err := im.AddRelFile("X", 1, []byte("x")); !Is(err, ErrInvalidRecordSize) {
		t.Fatalf("expected InvalidRecordSize, got %v", err)
	}
	if _, err := im.AddRelFile("X", 255, []byte("x")); !Is(err, ErrInvalidRecordSize) {
		t.Fatalf("expected InvalidRecordSize, got %v", err)
	}
}

func TestDiskFullRemoveReAddThenVerify(t *testing.T) {
	im := Format(35, "TEST")
	payload := bytes.Repeat([]byte{0x00}, 254)

	n := 0
	for {
		n++
		if _, err := im.AddFile(fmt.Sprintf("F%04d", n), TypeSEQ, payload); err != nil {
			if !Is(err, ErrDiskFull) && !Is(err, ErrDirectoryFull) {
				t.Fatalf("unexpected error while filling disk: %v", err)
			}
			break
		}
		if n > 700 {
			t.Fatal("disk never reported full")
		}
	}

	if err := im.RemoveFile("F0001"); err != nil {
		t.Fatalf("RemoveFile: %v", err)
	}
	if _, err := im.AddFile("REFILL", TypeSEQ, payload); err != nil {
		t.Fatalf("AddFile after remove: %v", err)
	}

	report, err := im.Verify(false)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !report.OK {
		t.Errorf("expected no discrepancies, got %+v", report.Discrepancies)
	}
}

func TestExtractNotFound(t *testing.T) {
	im := Format(35, "TEST")
	if _, err := im.ExtractFile("NOPE"); !Is(err, ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
