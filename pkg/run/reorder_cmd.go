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

// NewReorder builds the reorder command.
func NewReorder() *Reorder {

	r := &Reorder{}
	r.Command = *NewCommand(
		"reorder -i|--image {file} -n|--names {name1,name2,...}",
		"rewrite directory entry order",
		"\nUse the reorder command to place the given names first in the "+
			"directory, in the given order, with all other entries following "+
			"in their original relative order.",
		"", runnerHelpEpilogue, r.Run)

	r.AddImageSetting(&r.Image)
	r.AddSetting(&r.Names, "names", "n", "", nil, "comma-separated entry names, in desired order", true)

	return r
}

// Reorder is the "reorder" CLI command.
type Reorder struct {
	Command
	Image string
	Names []string
}

// Run executes the reorder command.
func (r *Reorder) Run() error {

	r.ParseSettings()

	s := session.New()
	if err := s.Open(r.Image); err != nil {
		return err
	}
	im, err := s.Current()
	if err != nil {
		return err
	}

	if err := im.Reorder(r.Names); err != nil {
		return err
	}

	if err := s.Save(""); err != nil {
		return err
	}
	fmt.Println("reordered")
	return nil
}
