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

// Package session holds the interactive shell's "current disk" state,
// replacing the diskname/backup-context globals of the original CLI
// with an explicit struct threaded through the call chain.
package session

import (
	"bytes"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/d64ctl/pkg/format"
	"github.com/xelalexv/d64ctl/pkg/image"
)

// Session tracks the disk image the interactive shell is currently
// operating on, and the host path it was loaded from (for save
// without an explicit target).
type Session struct {
	Path  string
	Image *image.Image
}

// New creates an empty session with nothing loaded.
func New() *Session {
	return &Session{}
}

// Open loads path from the host filesystem into the session,
// replacing whatever was previously loaded.
func (s *Session) Open(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	fm, err := format.NewFormat("d64")
	if err != nil {
		return err
	}
	loaded, err := fm.Read(bytes.NewReader(data))
	if err != nil {
		return err
	}
	s.Path = path
	s.Image = loaded
	log.Infof("opened %s", path)
	return nil
}

// Format formats a fresh image into the session, replacing whatever was
// previously loaded. path is where a later Save with no argument
// writes to.
func (s *Session) Format(path string, tracks int, diskName string) {
	s.Path = path
	s.Image = image.Format(tracks, diskName)
	log.Infof("formatted %d-track disk %q", tracks, diskName)
}

// Save writes the session's current image back to its host path, or
// to path if given.
func (s *Session) Save(path string) error {
	if s.Image == nil {
		return fmt.Errorf("no disk loaded")
	}
	target := s.Path
	if path != "" {
		target = path
	}
	if target == "" {
		return fmt.Errorf("no target path to save to")
	}
	fm, err := format.NewFormat("d64")
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := fm.Write(s.Image, &buf); err != nil {
		return err
	}
	if err := os.WriteFile(target, buf.Bytes(), 0644); err != nil {
		return err
	}
	s.Path = target
	s.Image.SetModified(false)
	log.Infof("saved %s", target)
	return nil
}

// Current returns the currently loaded image, or an error if none is
// loaded.
func (s *Session) Current() (*image.Image, error) {
	if s.Image == nil {
		return nil, fmt.Errorf("no disk loaded")
	}
	return s.Image, nil
}
