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

// Package format provides the on-disk codec registry for image
// buffers, mirroring the client/format dispatch a teacher daemon uses
// to pick a wire codec by name.
package format

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/d64ctl/pkg/image"
)

// Reader reads a full image from r.
type Reader interface {
	Read(r io.Reader) (*image.Image, error)
}

// Writer writes im's full byte buffer to w.
type Writer interface {
	Write(im *image.Image, w io.Writer) error
}

// ReaderWriter combines Reader and Writer.
type ReaderWriter interface {
	Reader
	Writer
}

// NewFormat resolves a codec by name. "d64" is the only format
// supported today; the switch exists so a second codec (e.g. a future
// .d71 codec) has a slot to land in without touching callers.
func NewFormat(typ string) (ReaderWriter, error) {
	switch typ {
	case "d64", "":
		return &D64{}, nil
	default:
		return nil, fmt.Errorf("unknown format: %q", typ)
	}
}

// D64 is the codec for the standard 174,848/196,608-byte raw sector
// image with no header or footer.
type D64 struct{}

// Read loads the entirety of r as a raw sector image.
func (D64) Read(r io.Reader) (*image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	log.Debugf("d64: read %d bytes", len(data))
	return image.Load(data)
}

// Write serializes im's buffer to w with no header or footer.
func (D64) Write(im *image.Image, w io.Writer) error {
	data := im.Save()
	log.Debugf("d64: writing %d bytes", len(data))
	_, err := w.Write(data)
	return err
}
