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

func TestAllocatorSpiralOrder(t *testing.T) {
	im := Format(35, "TEST")
	order := im.alloc.trackOrder()

	want := []int{17, 19, 16, 20, 15, 21, 14, 22, 13, 23, 12, 24,
		11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1,
		25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35}

	if len(order) != len(want) {
		t.Fatalf("len(order) = %d, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order[%d] = %d, want %d (full: %v)", i, order[i], want[i], order)
		}
	}
}

func TestAllocatorFirstDataSectorStartsOnTrack17(t *testing.T) {
	im := Format(35, "TEST")
	tr, sec, err := im.alloc.AllocateNextData(0, 0)
	if err != nil {
		t.Fatalf("AllocateNextData: %v", err)
	}
	if tr != 17 {
		t.Errorf("first data track = %d, want 17", tr)
	}
	if sec != 0 {
		t.Errorf("first data sector = %d, want 0", sec)
	}
}

func TestAllocatorInterleaveWithinTrack(t *testing.T) {
	im := Format(35, "TEST")
	t1, s1, err := im.alloc.AllocateNextData(0, 0)
	if err != nil {
		t.Fatalf("AllocateNextData: %v", err)
	}
	t2, s2, err := im.alloc.AllocateNextData(t1, s1)
	if err != nil {
		t.Fatalf("AllocateNextData: %v", err)
	}
	if t2 != t1 {
		t.Fatalf("expected second sector to stay on track %d, got %d", t1, t2)
	}
	if s2 != (s1+dataInterleave)%21 {
		t.Errorf("second sector = %d, want %d", s2, (s1+dataInterleave)%21)
	}
}

func TestAllocatorDeterministic(t *testing.T) {
	imA := Format(35, "TEST")
	imB := Format(35, "TEST")

	for i := 0; i < 30; i++ {
		ta, sa, errA := imA.alloc.AllocateNextData(0, 0)
		tb, sb, errB := imB.alloc.AllocateNextData(0, 0)
		if errA != nil || errB != nil {
			t.Fatalf("allocation failed: %v / %v", errA, errB)
		}
		if ta != tb || sa != sb {
			t.Fatalf("iteration %d diverged: (%d,%d) vs (%d,%d)", i, ta, sa, tb, sb)
		}
	}
}

func TestAllocatorDiskFull(t *testing.T) {
	im := Format(35, "TEST")
	total := im.FreeSectorCount()

	count := 0
	t1, s1 := 0, 0
	for {
		var err error
		t1, s1, err = im.alloc.AllocateNextData(t1, s1)
		if err != nil {
			if !Is(err, ErrDiskFull) {
				t.Fatalf("expected DiskFull, got %v", err)
			}
			break
		}
		count++
		if count > total+10 {
			t.Fatal("allocator never reported DiskFull")
		}
	}
}

func TestAllocatorDirectoryInterleave(t *testing.T) {
	im := Format(35, "TEST")
	s, err := im.alloc.AllocateNextDirectory(1)
	if err != nil {
		t.Fatalf("AllocateNextDirectory: %v", err)
	}
	if s != (1+dirInterleave)%19 {
		t.Errorf("directory sector = %d, want %d", s, (1+dirInterleave)%19)
	}
}
