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

package image

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Image is the top-level engine value: a disk image's geometry,
// sector store, BAM, directory and file engine, combined behind the
// Operations surface of spec §6. It also carries the modification/
// lock bookkeeping a long-lived daemon slot needs.
type Image struct {
	store *Store
	bam   *BAM
	alloc *Allocator
	dir   *Directory
	files *FileEngine
	ver   *Verifier

	modified bool
	lock     chan bool
}

func newImage(store *Store) *Image {
	bam := NewBAM(store)
	alloc := NewAllocator(bam, store.Geometry())
	dir := NewDirectory(store, bam, alloc)
	files := NewFileEngine(store, bam, alloc, dir)
	return &Image{
		store: store,
		bam:   bam,
		alloc: alloc,
		dir:   dir,
		files: files,
		ver:   NewVerifier(store, bam, dir, files),
		lock:  make(chan bool, 1),
	}
}

// Format creates a freshly initialized image with the given track
// count (35 or 40) and disk name. All sectors are free except the BAM
// sector and the first directory sector.
func Format(tracks int, diskName string) *Image {
	geo, err := NewGeometry(tracks)
	if err != nil {
		geo, _ = NewGeometry(35)
	}
	store := NewStore(geo)
	im := newImage(store)
	im.bam = formatBAM(store, diskName, "  ")
	im.alloc = NewAllocator(im.bam, geo)
	im.dir = NewDirectory(store, im.bam, im.alloc)
	im.files = NewFileEngine(store, im.bam, im.alloc, im.dir)
	im.ver = NewVerifier(store, im.bam, im.dir, im.files)

	var dirSector [SectorSize]byte
	dirSector[0] = 0
	dirSector[1] = 0xFF
	_ = store.WriteSector(DirTrack, DirFirstSector, dirSector)

	im.modified = true
	return im
}

// Load builds an Image from a raw byte buffer, choosing 35- or
// 40-track geometry from its length.
func Load(data []byte) (*Image, error) {
	store, err := LoadStore(data)
	if err != nil {
		return nil, err
	}
	return newImage(store), nil
}

// Save returns the flat byte buffer for persistence by the caller.
func (im *Image) Save() []byte {
	return im.store.Save()
}

// Geometry exposes the image's track/sector layout.
func (im *Image) Geometry() *Geometry {
	return im.store.Geometry()
}

// ListDirectory returns every live entry in on-disk order.
func (im *Image) ListDirectory() ([]Entry, error) {
	return im.dir.List()
}

// AddFile writes a new SEQ/PRG/USR file.
func (im *Image) AddFile(name string, typ FileType, data []byte) (Entry, error) {
	e, err := im.files.AddFile(name, typ, data)
	if err == nil {
		im.modified = true
	}
	return e, err
}

// AddRelFile writes a new fixed-record REL file.
func (im *Image) AddRelFile(name string, recordSize int, data []byte) (Entry, error) {
	e, err := im.files.AddRelFile(name, recordSize, data)
	if err == nil {
		im.modified = true
	}
	return e, err
}

// ExtractFile returns a file's full payload.
func (im *Image) ExtractFile(name string) ([]byte, error) {
	return im.files.ExtractFile(name)
}

// RemoveFile releases a file's chain(s) and clears its directory
// entry.
func (im *Image) RemoveFile(name string) error {
	err := im.files.RemoveFile(name)
	if err == nil {
		im.modified = true
	}
	return err
}

// RenameFile renames an existing entry, failing with NotFound or
// Duplicate.
func (im *Image) RenameFile(oldName, newName string) error {
	e, ok, err := im.dir.Find(oldName)
	if err != nil {
		return err
	}
	if !ok {
		return newErr(ErrNotFound, "file %q not found", oldName)
	}
	if _, exists, err := im.dir.Find(newName); err != nil {
		return err
	} else if exists {
		return newErr(ErrDuplicate, "file %q already exists", newName)
	}
	if err := im.dir.Rename(e.Ref, newName); err != nil {
		return err
	}
	im.modified = true
	return nil
}

// SetLocked flips a file's locked flag.
func (im *Image) SetLocked(name string, locked bool) error {
	e, ok, err := im.dir.Find(name)
	if err != nil {
		return err
	}
	if !ok {
		return newErr(ErrNotFound, "file %q not found", name)
	}
	if err := im.dir.SetLocked(e.Ref, locked); err != nil {
		return err
	}
	im.modified = true
	return nil
}

// RenameDisk overwrites the disk name stored in the BAM header.
func (im *Image) RenameDisk(newName string) error {
	im.bam.SetDiskName(newName)
	im.modified = true
	return nil
}

// Verify checks BAM/chain consistency, repairing discrepancies when
// fix is true.
func (im *Image) Verify(fix bool) (*Report, error) {
	r, err := im.ver.Verify(fix)
	if err == nil && fix {
		im.modified = true
	}
	return r, err
}

// Compact packs live directory entries contiguously from (18,1) slot
// 0.
func (im *Image) Compact() error {
	if err := im.dir.Compact(); err != nil {
		return err
	}
	im.modified = true
	return nil
}

// Reorder rewrites the directory entry order per the given name list.
func (im *Image) Reorder(names []string) error {
	if err := im.dir.Reorder(names); err != nil {
		return err
	}
	im.modified = true
	return nil
}

// ReadSector returns the raw 256 bytes at track/sector t/s.
func (im *Image) ReadSector(t, s int) ([SectorSize]byte, error) {
	return im.store.ReadSector(t, s)
}

// FreeSectorCount returns the disk-wide free sector total.
func (im *Image) FreeSectorCount() int {
	return im.bam.TotalFree()
}

// BAMTrackView returns the free/used bitmap for track t.
func (im *Image) BAMTrackView(t int) ([]bool, error) {
	return im.bam.BitmapView(t)
}

// DiskName returns the disk name stored in the BAM header.
func (im *Image) DiskName() string {
	return im.bam.DiskName()
}

// IsModified reports whether the image has unsaved changes.
func (im *Image) IsModified() bool {
	return im.modified
}

// SetModified overrides the modified flag, used by callers after an
// explicit Save.
func (im *Image) SetModified(m bool) {
	im.modified = m
}

// Lock acquires the image's mutual-exclusion slot, blocking until
// ctx is done. It returns false on timeout/cancellation.
func (im *Image) Lock(ctx context.Context) bool {
	select {
	case im.lock <- true:
		log.Debug("image locked")
		return true
	case <-ctx.Done():
		log.Debug("image lock timed out")
		return false
	}
}

// Unlock releases the image's mutual-exclusion slot. Unlocking an
// already-unlocked image is a no-op.
func (im *Image) Unlock() {
	select {
	case <-im.lock:
		log.Debug("image unlocked")
	default:
		log.Debug("image was already unlocked")
	}
}

// IsLocked reports whether the image is currently locked, without
// acquiring or releasing it.
func (im *Image) IsLocked() bool {
	return len(im.lock) > 0
}
