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

// Package daemon holds the in-memory slot array behind the control
// API: each slot is a named disk image that
// concurrent callers lock against to serialize commands issued
// against it.
package daemon

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/d64ctl/pkg/image"
)

// DriveCount is the number of drive slots the daemon manages.
const DriveCount = 8

// slot is what an atomic.Value in Daemon.drives actually stores.
type slot struct {
	name string
	img  *image.Image
}

// Daemon holds the drive slot array behind the control API.
type Daemon struct {
	drives []atomic.Value
}

// NewDaemon creates an empty daemon with all slots unoccupied.
func NewDaemon() *Daemon {
	return &Daemon{drives: make([]atomic.Value, DriveCount)}
}

// SetImage sets the image at slot ix (1-based), replacing whatever was
// there. If a modified image is already present, the caller must pass
// force, or SetImage refuses the replacement, guarding against
// silently discarding unsaved work.
func (d *Daemon) SetImage(ix int, name string, img *image.Image, force bool) error {

	present, ok := d.GetImage(ix)
	if !ok {
		return fmt.Errorf("drive %d busy", ix)
	}

	if present != nil {
		if !force && present.IsModified() {
			present.Unlock()
			return fmt.Errorf("present image in drive %d is modified", ix)
		}
		present.Unlock()
	}

	d.setSlot(ix, name, img)
	return nil
}

func (d *Daemon) setSlot(ix int, name string, img *image.Image) {
	if 0 < ix && ix <= len(d.drives) {
		d.drives[ix-1].Store(&slot{name: name, img: img})
	}
}

// GetImage gets the image at slot ix (1-based), locking it against
// concurrent access. The caller must call Unlock once done. The second
// return value is false only when the slot could not be locked within
// the timeout; a nil image with true means the slot is empty.
func (d *Daemon) GetImage(ix int) (*image.Image, bool) {

	s := d.getSlot(ix)
	if s == nil || s.img == nil {
		return nil, true
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if s.img.Lock(ctx) {
		return s.img, true
	}
	log.Warnf("drive %d busy", ix)
	return nil, false
}

func (d *Daemon) getSlot(ix int) *slot {
	if 0 < ix && ix <= len(d.drives) {
		if v := d.drives[ix-1].Load(); v != nil {
			return v.(*slot)
		}
	}
	return nil
}

// NameOf returns the name under which the image at slot ix was loaded,
// or "" if the slot is empty.
func (d *Daemon) NameOf(ix int) string {
	if s := d.getSlot(ix); s != nil {
		return s.name
	}
	return ""
}

// Unload evicts slot ix, returning the image that was there, if any.
func (d *Daemon) Unload(ix int) (*image.Image, bool) {
	img, ok := d.GetImage(ix)
	if !ok {
		return nil, false
	}
	if img != nil {
		img.Unlock()
	}
	if 0 < ix && ix <= len(d.drives) {
		d.drives[ix-1].Store(&slot{})
	}
	return img, true
}

// Occupied reports every slot's current occupant name, "" for empty
// slots, in slot order 1..DriveCount.
func (d *Daemon) Occupied() []string {
	out := make([]string, DriveCount)
	for i := 1; i <= DriveCount; i++ {
		out[i-1] = d.NameOf(i)
	}
	return out
}
