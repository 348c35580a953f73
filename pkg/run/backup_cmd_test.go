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

func TestBackupCommandOverwriteAll(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.d64")
	hostFile := filepath.Join(dir, "a.prg")
	target := filepath.Join(dir, "out.d64")

	if err := os.WriteFile(hostFile, []byte("PAYLOAD"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := NewFormat().Execute([]string{"-o", src, "-n", "SOURCE"}); err != nil {
		t.Fatalf("format: %v", err)
	}
	if err := NewAdd().Execute(
		[]string{"-i", src, "-n", "A", "-f", hostFile}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := NewBackup().Execute(
		[]string{"-s", src, "-o", target, "--overwrite"}); err != nil {
		t.Fatalf("backup: %v", err)
	}

	s := session.New()
	if err := s.Open(target); err != nil {
		t.Fatalf("Open backup target: %v", err)
	}
	im, err := s.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	entries, err := im.ListDirectory()
	if err != nil {
		t.Fatalf("ListDirectory: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
}

func TestBackupCommandRejectsConflictingFlags(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.d64")
	if err := NewFormat().Execute([]string{"-o", src}); err != nil {
		t.Fatalf("format: %v", err)
	}
	if err := NewBackup().Execute(
		[]string{"-s", src, "-o", filepath.Join(dir, "out.d64"), "--overwrite", "--skip"}); err == nil {
		t.Fatal("expected error with both --overwrite and --skip")
	}
}
