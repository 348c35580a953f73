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
	"fmt"
	"os"

	"github.com/xelalexv/d64ctl/pkg/session"
)

// NewFormat builds the format command, which writes a freshly
// initialized disk image to an output file.
func NewFormat() *Format {

	f := &Format{}
	f.Command = *NewCommand(
		"format -o|--output {file} [-t|--tracks {35|40}] [-n|--name {disk name}] [--force]",
		"create a new disk image",
		"\nUse the format command to write a freshly initialized disk image.",
		"", runnerHelpEpilogue, f.Run)

	f.AddSetting(&f.File, "output", "o", "", nil, "image output file", true)
	f.AddSetting(&f.Tracks, "tracks", "t", "", 35, "track count, 35 or 40", false)
	f.AddSetting(&f.DiskName, "name", "n", "", "", "disk name", false)
	f.AddSetting(&f.Force, "force", "", "", false, "overwrite an existing file", false)

	return f
}

// Format is the "format" CLI command.
type Format struct {
	Command
	File     string
	Tracks   int
	DiskName string
	Force    bool
}

// Run executes the format command.
func (f *Format) Run() error {

	f.ParseSettings()

	if !f.Force {
		if _, err := os.Stat(f.File); err == nil {
			return fmt.Errorf("%s already exists; use --force to overwrite", f.File)
		}
	}

	s := session.New()
	s.Format(f.File, f.Tracks, f.DiskName)

	if err := s.Save(""); err != nil {
		return err
	}
	fmt.Printf("formatted %d-track disk %q -> %s\n", f.Tracks, f.DiskName, f.File)
	return nil
}
