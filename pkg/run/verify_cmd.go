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

// NewVerify builds the verify command.
func NewVerify() *Verify {

	v := &Verify{}
	v.Command = *NewCommand(
		"verify -i|--image {file} [--fix]",
		"check BAM/directory consistency",
		"\nUse the verify command to check a disk image for BAM/chain "+
			"discrepancies, optionally repairing them with --fix.",
		"", runnerHelpEpilogue, v.Run)

	v.AddImageSetting(&v.Image)
	v.AddSetting(&v.Fix, "fix", "", "", false, "repair discrepancies found", false)

	return v
}

// Verify is the "verify" CLI command.
type Verify struct {
	Command
	Image string
	Fix   bool
}

// Run executes the verify command.
func (v *Verify) Run() error {

	v.ParseSettings()

	s := session.New()
	if err := s.Open(v.Image); err != nil {
		return err
	}
	im, err := s.Current()
	if err != nil {
		return err
	}

	report, err := im.Verify(v.Fix)
	if err != nil {
		return err
	}

	if report.OK {
		fmt.Println("no discrepancies found")
	} else {
		for _, d := range report.Discrepancies {
			fmt.Printf("track %d sector %d: %s\n", d.Track, d.Sector, d.Message)
		}
		if !v.Fix {
			return fmt.Errorf("%d discrepancies found", len(report.Discrepancies))
		}
	}

	if v.Fix {
		if err := s.Save(""); err != nil {
			return err
		}
	}
	return nil
}
