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
	"testing"
)

func TestVerifyCleanDiskIsOK(t *testing.T) {
	im := Format(35, "TEST")
	if _, err := im.AddFile("A", TypePRG, []byte("hello")); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	report, err := im.Verify(false)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !report.OK {
		t.Fatalf("expected clean disk to verify OK, got %+v", report.Discrepancies)
	}
}

func TestVerifyDetectsAndRepairsCorruptedBit(t *testing.T) {
	im := Format(35, "TEST")
	e, err := im.AddFile("A", TypePRG, []byte("hello"))
	if err != nil {
		t.Fatalf("AddFile: %v", err)
	}

	// corrupt the BAM: mark the file's own data sector as free even
	// though the directory chain still points to it.
	if err := im.bam.Release(e.FirstTrack, e.FirstSector); err != nil {
		t.Fatalf("Release: %v", err)
	}

	report, err := im.Verify(false)
	if err != nil {
		t.Fatalf("Verify(false): %v", err)
	}
	if report.OK {
		t.Fatal("expected corrupted BAM to fail verify(false)")
	}

	report, err = im.Verify(true)
	if err != nil {
		t.Fatalf("Verify(true): %v", err)
	}
	if !report.OK {
		t.Fatalf("expected verify(true) to repair and report OK, got %+v", report.Discrepancies)
	}
	if im.bam.IsFree(e.FirstTrack, e.FirstSector) {
		t.Error("expected data sector re-allocated after repair")
	}

	report, err = im.Verify(false)
	if err != nil {
		t.Fatalf("Verify(false) after repair: %v", err)
	}
	if !report.OK {
		t.Fatalf("expected second verify(false) clean, got %+v", report.Discrepancies)
	}
}

func TestVerifyIdempotent(t *testing.T) {
	im := Format(35, "TEST")
	for i := 0; i < 5; i++ {
		if _, err := im.AddFile(string(rune('A'+i)), TypeSEQ, []byte{byte(i)}); err != nil {
			t.Fatalf("AddFile: %v", err)
		}
	}
	_ = im.bam.Allocate(30, 0) // introduce a leak with no owning chain

	if _, err := im.Verify(true); err != nil {
		t.Fatalf("first Verify(true): %v", err)
	}
	report, err := im.Verify(true)
	if err != nil {
		t.Fatalf("second Verify(true): %v", err)
	}
	if !report.OK || len(report.Discrepancies) != 0 {
		t.Fatalf("expected idempotent repair, got %+v", report.Discrepancies)
	}
}

func TestVerifyRepairsChainCycle(t *testing.T) {
	im := Format(35, "TEST")
	e, err := im.AddFile("A", TypePRG, []byte("hello"))
	if err != nil {
		t.Fatalf("AddFile: %v", err)
	}

	// corrupt the file's data chain into a self-referencing cycle: the
	// sector's own link header now points back at itself.
	buf, err := im.store.ReadSector(e.FirstTrack, e.FirstSector)
	if err != nil {
		t.Fatalf("ReadSector: %v", err)
	}
	buf[0] = byte(e.FirstTrack)
	buf[1] = byte(e.FirstSector)
	if err := im.store.WriteSector(e.FirstTrack, e.FirstSector, buf); err != nil {
		t.Fatalf("WriteSector: %v", err)
	}

	report, err := im.Verify(false)
	if err != nil {
		t.Fatalf("Verify(false): %v", err)
	}
	if report.OK {
		t.Fatal("expected cyclic chain to fail verify(false)")
	}
	var found bool
	for _, d := range report.Discrepancies {
		if d.Kind == DiscChainOverrun {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a chain-overrun discrepancy, got %+v", report.Discrepancies)
	}

	report, err = im.Verify(true)
	if err != nil {
		t.Fatalf("Verify(true): %v", err)
	}
	if !report.OK {
		t.Fatalf("expected verify(true) to repair the cycle, got %+v", report.Discrepancies)
	}

	data, err := im.ExtractFile("A")
	if err != nil {
		t.Fatalf("ExtractFile after repair: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("hello")) {
		t.Errorf("extracted data = %q, want prefix %q", data, "hello")
	}
}

func TestVerifyRepairsDirectoryChainOverrun(t *testing.T) {
	im := Format(35, "TEST")
	if _, err := im.AddFile("A", TypePRG, []byte("hello")); err != nil {
		t.Fatalf("AddFile: %v", err)
	}

	// corrupt the sole directory sector into a self-referencing cycle.
	buf, err := im.store.ReadSector(DirTrack, DirFirstSector)
	if err != nil {
		t.Fatalf("ReadSector: %v", err)
	}
	buf[0] = byte(DirTrack)
	buf[1] = byte(DirFirstSector)
	if err := im.store.WriteSector(DirTrack, DirFirstSector, buf); err != nil {
		t.Fatalf("WriteSector: %v", err)
	}

	report, err := im.Verify(false)
	if err != nil {
		t.Fatalf("Verify(false): %v", err)
	}
	if report.OK {
		t.Fatal("expected cyclic directory chain to fail verify(false)")
	}

	report, err = im.Verify(true)
	if err != nil {
		t.Fatalf("Verify(true): %v", err)
	}
	if !report.OK {
		t.Fatalf("expected verify(true) to repair the directory chain, got %+v", report.Discrepancies)
	}

	entries, err := im.ListDirectory()
	if err != nil {
		t.Fatalf("ListDirectory after repair: %v", err)
	}
	if len(entries) != 1 || entries[0].NameString() != "A" {
		t.Errorf("entries after repair = %+v, want a single entry named A", entries)
	}
}

func TestFreshFormatRoundTripsThroughEmptyDirectory(t *testing.T) {
	im := Format(35, "TEST")
	for i := 0; i < 3; i++ {
		if _, err := im.AddFile(string(rune('A'+i)), TypeSEQ, []byte{1, 2, 3}); err != nil {
			t.Fatalf("AddFile: %v", err)
		}
	}
	for i := 0; i < 3; i++ {
		if err := im.RemoveFile(string(rune('A' + i))); err != nil {
			t.Fatalf("RemoveFile: %v", err)
		}
	}
	if got := im.FreeSectorCount(); got != 664 {
		t.Errorf("FreeSectorCount() after empty round trip = %d, want 664", got)
	}
	report, err := im.Verify(false)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !report.OK {
		t.Fatalf("expected clean state after emptying directory, got %+v", report.Discrepancies)
	}
}
