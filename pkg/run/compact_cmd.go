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

// NewCompact builds the compact command.
func NewCompact() *Compact {

	c := &Compact{}
	c.Command = *NewCommand(
		"compact -i|--image {file}",
		"pack live directory entries contiguously",
		"\nUse the compact command to reclaim directory sectors left "+
			"behind by deleted entries.",
		"", runnerHelpEpilogue, c.Run)

	c.AddImageSetting(&c.Image)

	return c
}

// Compact is the "compact" CLI command.
type Compact struct {
	Command
	Image string
}

// Run executes the compact command.
func (c *Compact) Run() error {

	c.ParseSettings()

	s := session.New()
	if err := s.Open(c.Image); err != nil {
		return err
	}
	im, err := s.Current()
	if err != nil {
		return err
	}

	if err := im.Compact(); err != nil {
		return err
	}

	if err := s.Save(""); err != nil {
		return err
	}
	fmt.Println("compacted")
	return nil
}
