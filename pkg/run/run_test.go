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

// TestCLIRoundTrip drives the file-based commands end to end the way a
// batch script would, against one disk image.
func TestCLIRoundTrip(t *testing.T) {

	dir := t.TempDir()
	image := filepath.Join(dir, "round.d64")
	hostFile := filepath.Join(dir, "hello.prg")
	extractedFile := filepath.Join(dir, "hello.out")

	if err := os.WriteFile(hostFile, []byte("HELLO WORLD"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := NewFormat().Execute(
		[]string{"-o", image, "-t", "35", "-n", "ROUNDTRIP"}); err != nil {
		t.Fatalf("format: %v", err)
	}

	if err := NewAdd().Execute(
		[]string{"-i", image, "-n", "HELLO", "-f", hostFile}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := NewList().Execute([]string{"-i", image}); err != nil {
		t.Fatalf("ls: %v", err)
	}

	if err := NewExtract().Execute(
		[]string{"-i", image, "-n", "HELLO", "-o", extractedFile}); err != nil {
		t.Fatalf("extract: %v", err)
	}
	data, err := os.ReadFile(extractedFile)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "HELLO WORLD" {
		t.Errorf("extracted data = %q, want HELLO WORLD", data)
	}

	if err := NewLock().Execute([]string{"-i", image, "-n", "HELLO"}); err != nil {
		t.Fatalf("lock: %v", err)
	}

	if err := NewVerify().Execute([]string{"-i", image}); err != nil {
		t.Fatalf("verify: %v", err)
	}

	if err := NewRename().Execute(
		[]string{"-i", image, "--old", "HELLO", "-n", "GREETING"}); err != nil {
		t.Fatalf("rename: %v", err)
	}

	if err := NewRenameDisk().Execute(
		[]string{"-i", image, "-n", "RENAMED"}); err != nil {
		t.Fatalf("rename-disk: %v", err)
	}

	s := session.New()
	if err := s.Open(image); err != nil {
		t.Fatalf("Open: %v", err)
	}
	im, err := s.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if im.DiskName() != "RENAMED" {
		t.Errorf("DiskName() = %q, want RENAMED", im.DiskName())
	}

	if err := NewCompact().Execute([]string{"-i", image}); err != nil {
		t.Fatalf("compact: %v", err)
	}

	if err := NewDump().Execute(
		[]string{"-i", image, "--track", "18", "--sector", "0"}); err != nil {
		t.Fatalf("dump: %v", err)
	}
}

func TestCLILockThenUnlockThenRemove(t *testing.T) {
	dir := t.TempDir()
	image := filepath.Join(dir, "lock.d64")
	hostFile := filepath.Join(dir, "a.prg")

	if err := os.WriteFile(hostFile, []byte("DATA"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := NewFormat().Execute([]string{"-o", image}); err != nil {
		t.Fatalf("format: %v", err)
	}
	if err := NewAdd().Execute(
		[]string{"-i", image, "-n", "A", "-f", hostFile}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := NewLock().Execute([]string{"-i", image, "-n", "A"}); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if err := NewLock().Execute([]string{"-i", image, "-n", "A", "--unlock"}); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if err := NewRemove().Execute([]string{"-i", image, "-n", "A"}); err != nil {
		t.Fatalf("remove: %v", err)
	}
}
