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
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/xelalexv/d64ctl/pkg/image"
	"github.com/xelalexv/d64ctl/pkg/session"
)

// NewAdd builds the add command: load, add a file, save. With
// --daemon set, the file is instead PUT into a running daemon's drive
// slot over its control API.
func NewAdd() *Add {

	a := &Add{}
	a.Runner = *NewRunner(
		`add -i|--image {file} -n|--name {entry name} -f|--file {host file}
     [-t|--type {seq|prg|usr|rel}] [-r|--recordlen {n}] [--daemon] [-d|--drive {drive}]`,
		"add a file into a disk image",
		"\nUse the add command to write a host file into a disk image as a new entry.",
		"", runnerHelpEpilogue, a.Run)

	a.AddBaseSettings()
	a.AddImageSetting(&a.Image)
	a.AddSetting(&a.Name, "name", "n", "", "", "entry name on disk (derived from --file when omitted)", false)
	a.AddSetting(&a.File, "file", "f", "", nil, "host file to add", true)
	a.AddSetting(&a.Type, "type", "t", "", "", "entry type: seq, prg, usr or rel (defaults from the host file's extension)", false)
	a.AddSetting(&a.RecordLen, "recordlen", "r", "", 0, "record length for rel files", false)
	a.AddSetting(&a.Daemon, "daemon", "", "", false, "add via a running daemon instead of a local file", false)
	a.AddSetting(&a.Drive, "drive", "d", "", 1, "drive number (1-8), with --daemon", false)

	return a
}

// Add is the "add" CLI command.
type Add struct {
	Runner
	Image     string
	Name      string
	File      string
	Type      string
	RecordLen int
	Daemon    bool
	Drive     int
}

func fileTypeFromFlag(s string) (image.FileType, error) {
	switch s {
	case "seq":
		return image.TypeSEQ, nil
	case "prg", "":
		return image.TypePRG, nil
	case "usr":
		return image.TypeUSR, nil
	case "rel":
		return image.TypeREL, nil
	default:
		return 0, fmt.Errorf("unknown entry type: %s", s)
	}
}

// typeFromExtension guesses an entry type from a host file's
// extension, falling back to prg for anything it doesn't recognize.
func typeFromExtension(file string) string {
	switch ext := strings.ToLower(image.HostExtension(file)); ext {
	case "seq", "usr", "rel":
		return ext
	default:
		return "prg"
	}
}

// Run executes the add command.
func (a *Add) Run() error {

	a.ParseSettings()

	typeFlag := a.Type
	if typeFlag == "" {
		typeFlag = typeFromExtension(a.File)
	}
	typ, err := fileTypeFromFlag(typeFlag)
	if err != nil {
		return err
	}

	name := a.Name
	if name == "" {
		nb := image.HostNameToDiskName(a.File)
		name = image.TrimName(nb[:])
	}

	data, err := ioutil.ReadFile(a.File)
	if err != nil {
		return err
	}

	if a.Daemon {
		if err := validateDrive(a.Drive); err != nil {
			return err
		}
		path := fmt.Sprintf("/drive/%d/file?name=%s&type=%s",
			a.Drive, name, strings.ToUpper(typeFlag))
		if typ == image.TypeREL && a.RecordLen > 0 {
			path += fmt.Sprintf("&recordLen=%d", a.RecordLen)
		}
		resp, err := a.apiCall("PUT", path, false, bytes.NewReader(data))
		if err != nil {
			return err
		}
		defer resp.Close()
		msg, err := ioutil.ReadAll(resp)
		if err != nil {
			return err
		}
		fmt.Printf("%s\n", msg)
		return nil
	}

	s := session.New()
	if err := s.Open(a.Image); err != nil {
		return err
	}
	im, err := s.Current()
	if err != nil {
		return err
	}

	// AddRelFile is only used when the caller explicitly supplies a
	// record length; otherwise a .rel file falls through to AddFile,
	// which rejects REL entries and tells the caller what's missing.
	if typ == image.TypeREL && a.RecordLen > 0 {
		if _, err := im.AddRelFile(name, a.RecordLen, data); err != nil {
			return err
		}
	} else {
		if _, err := im.AddFile(name, typ, data); err != nil {
			return err
		}
	}

	if err := s.Save(""); err != nil {
		return err
	}
	fmt.Printf("added %q (%d bytes) to %s\n", name, len(data), a.Image)
	return nil
}

// NewExtract builds the extract command.
func NewExtract() *Extract {

	e := &Extract{}
	e.Command = *NewCommand(
		"extract -i|--image {file} -n|--name {entry name} -o|--output {host file}",
		"extract a file from a disk image",
		"\nUse the extract command to write a disk image entry out to a host file.",
		"", runnerHelpEpilogue, e.Run)

	e.AddImageSetting(&e.Image)
	e.AddSetting(&e.Name, "name", "n", "", nil, "entry name on disk", true)
	e.AddSetting(&e.File, "output", "o", "", nil, "host output file", true)

	return e
}

// Extract is the "extract" CLI command.
type Extract struct {
	Command
	Image string
	Name  string
	File  string
}

// Run executes the extract command.
func (e *Extract) Run() error {

	e.ParseSettings()

	s := session.New()
	if err := s.Open(e.Image); err != nil {
		return err
	}
	im, err := s.Current()
	if err != nil {
		return err
	}

	data, err := im.ExtractFile(e.Name)
	if err != nil {
		return err
	}

	if err := os.WriteFile(e.File, data, 0644); err != nil {
		return err
	}
	fmt.Printf("extracted %q (%d bytes) -> %s\n", e.Name, len(data), e.File)
	return nil
}

// NewRemove builds the remove command.
func NewRemove() *Remove {

	r := &Remove{}
	r.Command = *NewCommand(
		"remove -i|--image {file} -n|--name {entry name}",
		"remove a file from a disk image",
		"\nUse the remove command to delete an entry from a disk image.",
		"", runnerHelpEpilogue, r.Run)

	r.AddImageSetting(&r.Image)
	r.AddSetting(&r.Name, "name", "n", "", nil, "entry name on disk", true)

	return r
}

// Remove is the "remove" CLI command.
type Remove struct {
	Command
	Image string
	Name  string
}

// Run executes the remove command.
func (r *Remove) Run() error {

	r.ParseSettings()

	s := session.New()
	if err := s.Open(r.Image); err != nil {
		return err
	}
	im, err := s.Current()
	if err != nil {
		return err
	}

	if err := im.RemoveFile(r.Name); err != nil {
		return err
	}

	if err := s.Save(""); err != nil {
		return err
	}
	fmt.Printf("removed %q\n", r.Name)
	return nil
}

// NewRename builds the rename command, which renames either a
// directory entry (default) or, with --disk, the disk name itself.
func NewRename() *Rename {

	r := &Rename{}
	r.Command = *NewCommand(
		"rename -i|--image {file} [--disk -n|--new {name}] [--old {name} --new {name}]",
		"rename a file or the disk itself",
		"\nUse the rename command to rename a disk entry, or with --disk, the disk name.",
		"", runnerHelpEpilogue, r.Run)

	r.AddImageSetting(&r.Image)
	r.AddSetting(&r.Old, "old", "", "", "", "existing entry name", false)
	r.AddSetting(&r.New, "new", "n", "", nil, "new name", true)
	r.AddSetting(&r.Disk, "disk", "", "", false, "rename the disk itself", false)

	return r
}

// Rename is the "rename" CLI command.
type Rename struct {
	Command
	Image string
	Old   string
	New   string
	Disk  bool
}

// Run executes the rename command.
func (r *Rename) Run() error {

	r.ParseSettings()

	s := session.New()
	if err := s.Open(r.Image); err != nil {
		return err
	}
	im, err := s.Current()
	if err != nil {
		return err
	}

	if r.Disk {
		if err := im.RenameDisk(r.New); err != nil {
			return err
		}
	} else {
		if r.Old == "" {
			return fmt.Errorf("--old is required unless --disk is set")
		}
		if err := im.RenameFile(r.Old, r.New); err != nil {
			return err
		}
	}

	if err := s.Save(""); err != nil {
		return err
	}
	fmt.Printf("renamed to %q\n", r.New)
	return nil
}

// NewLock builds the lock command, which sets or clears an entry's
// write-protect flag.
func NewLock() *Lock {

	l := &Lock{}
	l.Command = *NewCommand(
		"lock -i|--image {file} -n|--name {entry name} [--unlock]",
		"lock or unlock a file",
		"\nUse the lock command to set or clear a disk entry's write-protect flag.",
		"", runnerHelpEpilogue, l.Run)

	l.AddImageSetting(&l.Image)
	l.AddSetting(&l.Name, "name", "n", "", nil, "entry name on disk", true)
	l.AddSetting(&l.Unlock, "unlock", "", "", false, "clear the write-protect flag instead of setting it", false)

	return l
}

// Lock is the "lock" CLI command.
type Lock struct {
	Command
	Image  string
	Name   string
	Unlock bool
}

// Run executes the lock command.
func (l *Lock) Run() error {

	l.ParseSettings()

	s := session.New()
	if err := s.Open(l.Image); err != nil {
		return err
	}
	im, err := s.Current()
	if err != nil {
		return err
	}

	locked := !l.Unlock
	if err := im.SetLocked(l.Name, locked); err != nil {
		return err
	}

	if err := s.Save(""); err != nil {
		return err
	}
	fmt.Printf("set locked=%v on %q\n", locked, l.Name)
	return nil
}
