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

func TestDaemonSetAndGetImage(t *testing.T) {
	d := NewDaemon()
	im := image.Format(35, "SLOT1")

	if err := d.SetImage(1, "slot1.d64", im, false); err != nil {
		t.Fatalf("SetImage: %v", err)
	}

	got, ok := d.GetImage(1)
	if !ok {
		t.Fatal("GetImage reported busy")
	}
	if got != im {
		t.Fatal("GetImage did not return the stored image")
	}
	got.Unlock()

	if name := d.NameOf(1); name != "slot1.d64" {
		t.Errorf("NameOf(1) = %q, want slot1.d64", name)
	}
}

func TestDaemonGetImageEmptySlot(t *testing.T) {
	d := NewDaemon()
	img, ok := d.GetImage(2)
	if !ok {
		t.Fatal("GetImage reported busy on empty slot")
	}
	if img != nil {
		t.Fatal("expected nil image for empty slot")
	}
}

func TestDaemonSetImageRefusesOverwriteOfModified(t *testing.T) {
	d := NewDaemon()
	im := image.Format(35, "SLOT3")
	im.SetModified(true)

	if err := d.SetImage(3, "a.d64", im, false); err != nil {
		t.Fatalf("SetImage: %v", err)
	}

	other := image.Format(35, "SLOT3B")
	if err := d.SetImage(3, "b.d64", other, false); err == nil {
		t.Fatal("expected error overwriting a modified image without force")
	}
	if err := d.SetImage(3, "b.d64", other, true); err != nil {
		t.Fatalf("SetImage with force: %v", err)
	}
}

func TestDaemonUnload(t *testing.T) {
	d := NewDaemon()
	im := image.Format(35, "SLOT4")
	if err := d.SetImage(4, "x.d64", im, false); err != nil {
		t.Fatalf("SetImage: %v", err)
	}

	unloaded, ok := d.Unload(4)
	if !ok {
		t.Fatal("Unload reported busy")
	}
	if unloaded != im {
		t.Fatal("Unload did not return the stored image")
	}
	if name := d.NameOf(4); name != "" {
		t.Errorf("NameOf(4) after unload = %q, want empty", name)
	}
}

func TestDaemonOccupied(t *testing.T) {
	d := NewDaemon()
	d.SetImage(5, "occupied.d64", image.Format(35, "T"), false)

	occ := d.Occupied()
	if len(occ) != DriveCount {
		t.Fatalf("len(Occupied()) = %d, want %d", len(occ), DriveCount)
	}
	if occ[4] != "occupied.d64" {
		t.Errorf("Occupied()[4] = %q, want occupied.d64", occ[4])
	}
	if occ[0] != "" {
		t.Errorf("Occupied()[0] = %q, want empty", occ[0])
	}
}
