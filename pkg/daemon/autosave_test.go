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

package daemon

import (
	"testing"

	"github.com/xelalexv/d64ctl/pkg/image"
)

func TestAutoSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	im := image.Format(35, "AUTOSAVE")
	im.SetModified(true)

	if err := AutoSave(1, im); err != nil {
		t.Fatalf("AutoSave: %v", err)
	}

	loaded, err := AutoLoad(1)
	if err != nil {
		t.Fatalf("AutoLoad: %v", err)
	}
	if loaded == nil {
		t.Fatal("AutoLoad returned nil after AutoSave")
	}
	if loaded.DiskName() != "AUTOSAVE" {
		t.Errorf("DiskName() = %q, want AUTOSAVE", loaded.DiskName())
	}
	if !loaded.IsModified() {
		t.Error("auto-loaded image should be marked modified")
	}
}

func TestAutoSaveSkipsUnmodified(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	im := image.Format(35, "CLEAN")
	im.SetModified(false)

	if err := AutoSave(2, im); err != nil {
		t.Fatalf("AutoSave: %v", err)
	}

	loaded, err := AutoLoad(2)
	if err != nil {
		t.Fatalf("AutoLoad: %v", err)
	}
	if loaded != nil {
		t.Fatal("expected no auto-save file for an unmodified image")
	}
}

func TestAutoLoadMissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	loaded, err := AutoLoad(3)
	if err != nil {
		t.Fatalf("AutoLoad: %v", err)
	}
	if loaded != nil {
		t.Fatal("expected nil image for a slot never saved")
	}
}

func TestAutoRemove(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	im := image.Format(35, "REMOVEME")
	im.SetModified(true)
	if err := AutoSave(4, im); err != nil {
		t.Fatalf("AutoSave: %v", err)
	}

	if err := AutoRemove(4); err != nil {
		t.Fatalf("AutoRemove: %v", err)
	}

	loaded, err := AutoLoad(4)
	if err != nil {
		t.Fatalf("AutoLoad: %v", err)
	}
	if loaded != nil {
		t.Fatal("expected no auto-save file after AutoRemove")
	}
}
