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

	"github.com/xelalexv/d64ctl/pkg/image"
	"github.com/xelalexv/d64ctl/pkg/session"
)

func TestAddCommandInfersTypeFromExtension(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "infer.d64")
	hostFile := filepath.Join(dir, "notes.seq")

	if err := os.WriteFile(hostFile, []byte("a note"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := NewFormat().Execute([]string{"-o", img}); err != nil {
		t.Fatalf("format: %v", err)
	}
	if err := NewAdd().Execute(
		[]string{"-i", img, "-n", "NOTES", "-f", hostFile}); err != nil {
		t.Fatalf("add: %v", err)
	}

	s := session.New()
	if err := s.Open(img); err != nil {
		t.Fatalf("Open: %v", err)
	}
	im, err := s.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	entries, err := im.ListDirectory()
	if err != nil {
		t.Fatalf("ListDirectory: %v", err)
	}
	if len(entries) != 1 || entries[0].Type != image.TypeSEQ {
		t.Fatalf("entries = %+v, want a single SEQ entry", entries)
	}
}

func TestAddCommandRejectsRelWithoutRecordLen(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "rel.d64")
	hostFile := filepath.Join(dir, "game.rel")

	if err := os.WriteFile(hostFile, []byte("record data"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := NewFormat().Execute([]string{"-o", img}); err != nil {
		t.Fatalf("format: %v", err)
	}

	err := NewAdd().Execute([]string{"-i", img, "-n", "GAME", "-f", hostFile})
	if err == nil {
		t.Fatal("expected error adding a .rel file without --recordlen")
	}
	if !image.Is(err, image.ErrUseAddRel) {
		t.Fatalf("expected UseAddRel, got %v", err)
	}
}

func TestAddCommandAddsRelFileWithRecordLen(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "rel2.d64")
	hostFile := filepath.Join(dir, "game.rel")

	if err := os.WriteFile(hostFile, []byte("record data"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := NewFormat().Execute([]string{"-o", img}); err != nil {
		t.Fatalf("format: %v", err)
	}
	if err := NewAdd().Execute(
		[]string{"-i", img, "-n", "GAME", "-f", hostFile, "-r", "20"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	s := session.New()
	if err := s.Open(img); err != nil {
		t.Fatalf("Open: %v", err)
	}
	im, err := s.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	entries, err := im.ListDirectory()
	if err != nil {
		t.Fatalf("ListDirectory: %v", err)
	}
	if len(entries) != 1 || entries[0].Type != image.TypeREL {
		t.Fatalf("entries = %+v, want a single REL entry", entries)
	}
}
