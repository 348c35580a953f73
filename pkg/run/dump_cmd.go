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

// NewDump builds the dump command.
func NewDump() *Dump {

	d := &Dump{}
	d.Command = *NewCommand(
		"dump -i|--image {file} --track {t} --sector {s}",
		"hex-dump a single sector",
		"\nUse the dump command to print a hex dump of one sector of a disk image.",
		"", runnerHelpEpilogue, d.Run)

	d.AddImageSetting(&d.Image)
	d.AddSetting(&d.Track, "track", "", "", 18, "track number", false)
	d.AddSetting(&d.Sector, "sector", "", "", 0, "sector number", false)

	return d
}

// Dump is the "dump" CLI command.
type Dump struct {
	Command
	Image  string
	Track  int
	Sector int
}

// Run executes the dump command.
func (d *Dump) Run() error {

	d.ParseSettings()

	s := session.New()
	if err := s.Open(d.Image); err != nil {
		return err
	}
	im, err := s.Current()
	if err != nil {
		return err
	}

	buf, err := im.DumpSector(d.Track, d.Sector)
	if err != nil {
		return err
	}

	fmt.Printf("track %d sector %d:\n", d.Track, d.Sector)
	for row := 0; row < len(buf); row += 16 {
		fmt.Printf("%02X: ", row)
		for col := 0; col < 16 && row+col < len(buf); col++ {
			fmt.Printf("%02X ", buf[row+col])
		}
		fmt.Println()
	}
	return nil
}
