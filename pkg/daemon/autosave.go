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

package daemon

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/d64ctl/pkg/format"
	"github.com/xelalexv/d64ctl/pkg/image"
)

// AutoSave writes a modified image out to its slot's auto-save file.
// There's only ever one client type, so no preamble byte is needed
// beyond the raw sector buffer itself.
func AutoSave(slot int, img *image.Image) error {

	if img == nil || !img.IsModified() {
		return nil
	}

	start := time.Now()
	log.Infof("auto-saving drive %d", slot)

	fm, err := format.NewFormat("d64")
	if err != nil {
		return err
	}

	_, file, err := autoSavePath(slot, true)
	if err != nil {
		return err
	}

	tmp := fmt.Sprintf("%s_", file)

	fd, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := fm.Write(img, &buf); err != nil {
		fd.Close()
		return err
	}
	if _, err := fd.Write(buf.Bytes()); err != nil {
		fd.Close()
		return err
	}
	if err := fd.Sync(); err != nil {
		fd.Close()
		return err
	}
	if err := fd.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp, file); err != nil {
		return err
	}

	log.Debugf("auto-save took %v", time.Since(start))
	return nil
}

// AutoLoad loads a slot's auto-save file, if one exists. A nil image
// with a nil error means there was nothing to load.
func AutoLoad(slot int) (*image.Image, error) {

	log.Infof("loading auto-save for drive %d", slot)

	_, file, err := autoSavePath(slot, false)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			log.Infof("no auto-save file for drive %d", slot)
			return nil, nil
		}
		return nil, err
	}

	fm, err := format.NewFormat("d64")
	if err != nil {
		return nil, err
	}
	img, err := fm.Read(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	img.SetModified(true)
	return img, nil
}

// AutoRemove deletes a slot's auto-save file, if any.
func AutoRemove(slot int) error {
	_, file, err := autoSavePath(slot, false)
	if err != nil {
		return err
	}
	if err := os.Remove(file); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	log.Infof("removed auto-save for drive %d", slot)
	return nil
}

func autoSavePath(slot int, create bool) (string, string, error) {

	home, err := os.UserHomeDir()
	if err != nil {
		return "", "", err
	}

	dir := filepath.Join(home, ".d64ctl", fmt.Sprintf("%d", slot))

	if create {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", "", err
		}
	}

	return dir, filepath.Join(dir, "image.d64"), nil
}
