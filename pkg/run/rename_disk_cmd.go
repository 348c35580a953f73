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

	"github.com/xelalexv/d64ctl/pkg/session"
)

// NewRenameDisk builds the rename-disk command.
func NewRenameDisk() *RenameDisk {

	r := &RenameDisk{}
	r.Command = *NewCommand(
		"rename-disk -i|--image {file} -n|--name {disk name}",
		"rename the disk itself",
		"\nUse the rename-disk command to overwrite the disk name stored in the BAM header.",
		"", runnerHelpEpilogue, r.Run)

	r.AddImageSetting(&r.Image)
	r.AddSetting(&r.Name, "name", "n", "", nil, "new disk name", true)

	return r
}

// RenameDisk is the "rename-disk" CLI command.
type RenameDisk struct {
	Command
	Image string
	Name  string
}

// Run executes the rename-disk command.
func (r *RenameDisk) Run() error {

	r.ParseSettings()

	s := session.New()
	if err := s.Open(r.Image); err != nil {
		return err
	}
	im, err := s.Current()
	if err != nil {
		return err
	}

	if err := im.RenameDisk(r.Name); err != nil {
		return err
	}

	if err := s.Save(""); err != nil {
		return err
	}
	fmt.Printf("renamed disk to %q\n", r.Name)
	return nil
}
