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

package control

import (
	"fmt"

	"github.com/xelalexv/d64ctl/pkg/image"
)

// Status is the daemon-wide occupancy summary served by GET /status.
type Status struct {
	Drives []string `json:"drives"`
}

func (s *Status) Add(d string) {
	s.Drives = append(s.Drives, d)
}

func (s *Status) String() string {
	ret := "\n"
	for ix, d := range s.Drives {
		if d == "" {
			d = "<empty>"
		}
		ret = fmt.Sprintf("%s%d: %s\n", ret, ix+1, d)
	}
	return ret
}

// DriveInfo is one slot's entry in the GET /list response.
type DriveInfo struct {
	Drive    int    `json:"drive"`
	Name     string `json:"name"`
	DiskName string `json:"diskName,omitempty"`
	Modified bool   `json:"modified"`
}

func (d *DriveInfo) String() string {
	if d.Name == "" {
		return fmt.Sprintf("%d: <empty>", d.Drive)
	}
	mod := ' '
	if d.Modified {
		mod = '*'
	}
	return fmt.Sprintf("%d: %-16s %-16s%c", d.Drive, d.Name, d.DiskName, mod)
}

func driveInfoFor(drive int, name string, img *image.Image) *DriveInfo {
	di := &DriveInfo{Drive: drive, Name: name}
	if img != nil {
		di.DiskName = img.DiskName()
		di.Modified = img.IsModified()
	}
	return di
}

// FileInfo mirrors image.Entry for JSON responses, keeping the wire
// format independent of the engine's internal field names.
type FileInfo struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Sectors int    `json:"sectors"`
	Locked  bool   `json:"locked"`
}

func fileTypeName(t image.FileType) string {
	switch t {
	case image.TypeDEL:
		return "DEL"
	case image.TypeSEQ:
		return "SEQ"
	case image.TypePRG:
		return "PRG"
	case image.TypeUSR:
		return "USR"
	case image.TypeREL:
		return "REL"
	default:
		return "?"
	}
}

func parseFileType(s string) (image.FileType, error) {
	switch s {
	case "", "PRG":
		return image.TypePRG, nil
	case "SEQ":
		return image.TypeSEQ, nil
	case "USR":
		return image.TypeUSR, nil
	case "REL":
		return image.TypeREL, nil
	case "DEL":
		return image.TypeDEL, nil
	default:
		return 0, fmt.Errorf("unknown file type: %s", s)
	}
}

func fileInfoFor(e image.Entry) *FileInfo {
	return &FileInfo{
		Name:    e.NameString(),
		Type:    fileTypeName(e.Type),
		Sectors: e.SizeSectors,
		Locked:  e.Locked,
	}
}
