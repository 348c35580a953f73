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

// NewList builds the ls command: a directory listing in the classic
// 1541 style ("0 "DISKNAME"", one line per entry, blocks free).
func NewList() *List {

	l := &List{}
	l.Command = *NewCommand(
		"ls -i|--image {file}",
		"list a disk image's directory",
		"\nUse the ls command to print a disk image's directory listing.",
		"", runnerHelpEpilogue, l.Run)

	l.AddImageSetting(&l.Image)

	return l
}

// List is the "ls" CLI command.
type List struct {
	Command
	Image string
}

// Run executes the ls command.
func (l *List) Run() error {

	l.ParseSettings()

	s := session.New()
	if err := s.Open(l.Image); err != nil {
		return err
	}
	im, err := s.Current()
	if err != nil {
		return err
	}

	entries, err := im.ListDirectory()
	if err != nil {
		return err
	}

	fmt.Printf("0 \"%-16s\"\n", im.DiskName())
	for _, e := range entries {
		lock := ' '
		if e.Locked {
			lock = '<'
		}
		fmt.Printf("%-4d \"%-16s\" %c\n", e.SizeSectors, e.NameString(), lock)
	}
	fmt.Printf("%d BLOCKS FREE.\n", im.FreeSectorCount())
	return nil
}
