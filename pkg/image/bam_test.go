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

import "testing"

func TestFreshFormat35TrackFreeCount(t *testing.T) {
	im := Format(35, "TEST")
	if got := im.FreeSectorCount(); got != 664 {
		t.Errorf("FreeSectorCount() = %d, want 664", got)
	}
}

func TestFormatBAMSectorFields(t *testing.T) {
	im := Format(35, "TEST")
	buf, err := im.ReadSector(BAMTrack, BAMSector)
	if err != nil {
		t.Fatalf("ReadSector: %v", err)
	}
	if buf[bamVersionOff] != 0x41 {
		t.Errorf("version byte = 0x%02x, want 0x41", buf[bamVersionOff])
	}
	want := "TEST"
	for i := 0; i < len(want); i++ {
		if buf[bamDiskNameOff+i] != want[i] {
			t.Fatalf("disk name byte %d = %q, want %q", i, buf[bamDiskNameOff+i], want[i])
		}
	}
	for i := len(want); i < NameLen; i++ {
		if buf[bamDiskNameOff+i] != PadByte {
			t.Errorf("disk name pad byte %d = 0x%02x, want 0xA0", i, buf[bamDiskNameOff+i])
		}
	}
}

func TestBAMAllocateReleaseRoundTrip(t *testing.T) {
	im := Format(35, "TEST")
	before := im.FreeSectorCount()

	if !im.bam.IsFree(1, 0) {
		t.Fatal("expected (1,0) free on fresh disk")
	}
	if err := im.bam.Allocate(1, 0); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if im.bam.IsFree(1, 0) {
		t.Fatal("expected (1,0) allocated")
	}
	if got := im.FreeSectorCount(); got != before-1 {
		t.Errorf("FreeSectorCount() = %d, want %d", got, before-1)
	}

	if err := im.bam.Release(1, 0); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if got := im.FreeSectorCount(); got != before {
		t.Errorf("FreeSectorCount() after release = %d, want %d", got, before)
	}
}

func TestBAMTrack18CountAlwaysZero(t *testing.T) {
	im := Format(35, "TEST")
	if got := im.bam.FreeCountRaw(DirTrack); got != 0 {
		t.Errorf("track 18 stored free count = %d, want 0", got)
	}
	// releasing more of track 18's sectors must not change the pinned count
	_ = im.bam.Release(DirTrack, 5)
	if got := im.bam.FreeCountRaw(DirTrack); got != 0 {
		t.Errorf("track 18 stored free count after release = %d, want 0", got)
	}
}

func TestBAMBitmapView(t *testing.T) {
	im := Format(35, "TEST")
	view, err := im.BAMTrackView(1)
	if err != nil {
		t.Fatalf("BAMTrackView: %v", err)
	}
	if len(view) != 21 {
		t.Fatalf("len(view) = %d, want 21", len(view))
	}
	for i, free := range view {
		if !free {
			t.Errorf("sector %d of track 1 expected free on fresh disk", i)
		}
	}
}
