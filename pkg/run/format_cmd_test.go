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

package run

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xelalexv/d64ctl/pkg/session"
)

func TestFormatCommandCreatesImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "new.d64")

	f := NewFormat()
	if err := f.Execute([]string{"-o", path, "-t", "35", "-n", "TESTDISK"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	s := session.New()
	if err := s.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	im, err := s.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if im.DiskName() != "TESTDISK" {
		t.Errorf("DiskName() = %q, want TESTDISK", im.DiskName())
	}
}

func TestFormatCommandRefusesOverwriteWithoutForce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "existing.d64")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f := NewFormat()
	if err := f.Execute([]string{"-o", path}); err == nil {
		t.Fatal("expected error overwriting existing file without --force")
	}
}
