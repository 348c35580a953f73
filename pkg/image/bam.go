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

// Byte offsets within the BAM sector (18,0).
const (
	bamDirPointerOff  = 0x00
	bamVersionOff     = 0x02
	bamEntriesOff     = 0x04 // 4 bytes per track, tracks 1..35
	bamEntryStride    = 4
	bamDiskNameOff    = 0x90
	bamShiftSpaceOff  = 0xA0
	bamDiskIDOff      = 0xA2
	bamDosTypePadOff  = 0xA4
	bamDosTypeOff     = 0xA5
	bamTrailPadOff    = 0xA7
	bamExtEntriesOff  = 0xC0 // extended entries for tracks 36..40
	bamVersionMagic   = 0x41
	bamTrack18PinZero = true // free-count byte for track 18 is always 0
)

// BAM wraps the Block Availability Map sector, tracking per-track
// free bitmaps and counts on top of the raw Store bytes.
type BAM struct {
	store *Store
	geo   *Geometry
}

// NewBAM binds a BAM view to a store.
func NewBAM(store *Store) *BAM {
	return &BAM{store: store, geo: store.Geometry()}
}

// entryOffset returns the byte offset, within the BAM sector, of the
// 4-byte free-count+bitmap entry for track t. Tracks 1..35 live in
// the standard region; 36..40 live in the extended region.
func entryOffset(t int) int {
	if t <= 35 {
		return bamEntriesOff + (t-1)*bamEntryStride
	}
	return bamExtEntriesOff + (t-36)*bamEntryStride
}

func (b *BAM) readSector() [SectorSize]byte {
	buf, _ := b.store.ReadSector(BAMTrack, BAMSector)
	return buf
}

// IsFree reports whether sector s of track t is marked free in the
// bitmap. A set bit means free.
func (b *BAM) IsFree(t, s int) bool {
	if !b.geo.ValidTrackSector(t, s) {
		return false
	}
	buf := b.readSector()
	off := entryOffset(t) + 1 + s/8
	return buf[off]&(1<<uint(s%8)) != 0
}

// setFree sets or clears the bitmap bit for sector s of track t,
// without touching the free-count byte.
func (b *BAM) setFree(t, s int, free bool) {
	buf := b.readSector()
	off := entryOffset(t) + 1 + s/8
	bit := byte(1 << uint(s%8))
	if free {
		buf[off] |= bit
	} else {
		buf[off] &^= bit
	}
	_ = b.store.WriteSector(BAMTrack, BAMSector, buf)
}

// Allocate marks sector s of track t as used, decrementing the
// track's free count (except on track 18, whose stored count is
// always pinned to 0 per the classic 1541 convention).
func (b *BAM) Allocate(t, s int) error {
	if !b.geo.ValidTrackSector(t, s) {
		return newErr(ErrInvalidTrackSector, "invalid track/sector %d/%d", t, s)
	}
	if b.IsFree(t, s) {
		b.setFree(t, s, false)
		b.decrementCount(t)
	}
	return nil
}

// Release marks sector s of track t as free again.
func (b *BAM) Release(t, s int) error {
	if !b.geo.ValidTrackSector(t, s) {
		return newErr(ErrInvalidTrackSector, "invalid track/sector %d/%d", t, s)
	}
	if !b.IsFree(t, s) {
		b.setFree(t, s, true)
		b.incrementCount(t)
	}
	return nil
}

func (b *BAM) decrementCount(t int) {
	if t == DirTrack && bamTrack18PinZero {
		return
	}
	buf := b.readSector()
	off := entryOffset(t)
	if buf[off] > 0 {
		buf[off]--
	}
	_ = b.store.WriteSector(BAMTrack, BAMSector, buf)
}

func (b *BAM) incrementCount(t int) {
	if t == DirTrack && bamTrack18PinZero {
		return
	}
	buf := b.readSector()
	off := entryOffset(t)
	buf[off]++
	_ = b.store.WriteSector(BAMTrack, BAMSector, buf)
}

// FreeCountRaw returns the stored free-count byte for track t (the
// value BAM.Allocate/Release maintain incrementally), without
// recomputing it from the bitmap.
func (b *BAM) FreeCountRaw(t int) int {
	buf := b.readSector()
	return int(buf[entryOffset(t)])
}

// popcount returns the number of free (set) bits in track t's bitmap
// over its valid sector range, ignoring the stored count byte.
func (b *BAM) popcount(t int) int {
	n := 0
	for s := 0; s < b.geo.SectorsPerTrack(t); s++ {
		if b.IsFree(t, s) {
			n++
		}
	}
	return n
}

// RebuildCounts recomputes every track's stored free-count byte from
// its bitmap, applying the track-18 pinned-to-zero exception.
func (b *BAM) RebuildCounts() {
	buf := b.readSector()
	for t := 1; t <= b.geo.Tracks; t++ {
		off := entryOffset(t)
		if t == DirTrack && bamTrack18PinZero {
			buf[off] = 0
			continue
		}
		buf[off] = byte(b.popcount(t))
	}
	_ = b.store.WriteSector(BAMTrack, BAMSector, buf)
}

// TotalFree sums the stored free-count bytes over all tracks. Because
// track 18's stored count is pinned to 0, this matches the classic
// 1541 "664 blocks free" figure for a freshly formatted 35-track
// disk rather than the raw bitmap popcount.
func (b *BAM) TotalFree() int {
	total := 0
	for t := 1; t <= b.geo.Tracks; t++ {
		total += b.FreeCountRaw(t)
	}
	return total
}

// BitmapView returns, for track t, a slice of booleans indexed by
// sector number where true means free.
func (b *BAM) BitmapView(t int) ([]bool, error) {
	if t < 1 || t > b.geo.Tracks {
		return nil, newErr(ErrInvalidTrackSector, "invalid track %d", t)
	}
	out := make([]bool, b.geo.SectorsPerTrack(t))
	for s := range out {
		out[s] = b.IsFree(t, s)
	}
	return out, nil
}

// DirPointer returns the (track, sector) of the first directory
// sector as recorded in the BAM header.
func (b *BAM) DirPointer() (int, int) {
	buf := b.readSector()
	return int(buf[bamDirPointerOff]), int(buf[bamDirPointerOff+1])
}

func (b *BAM) setDirPointer(t, s int) {
	buf := b.readSector()
	buf[bamDirPointerOff] = byte(t)
	buf[bamDirPointerOff+1] = byte(s)
	_ = b.store.WriteSector(BAMTrack, BAMSector, buf)
}

// DiskName returns the trimmed disk name stored in the BAM header.
func (b *BAM) DiskName() string {
	buf := b.readSector()
	return TrimName(buf[bamDiskNameOff : bamDiskNameOff+NameLen])
}

// SetDiskName rewrites the disk name field of the BAM header.
func (b *BAM) SetDiskName(name string) {
	buf := b.readSector()
	padded := PadName(name)
	copy(buf[bamDiskNameOff:bamDiskNameOff+NameLen], padded[:])
	_ = b.store.WriteSector(BAMTrack, BAMSector, buf)
}

// formatBAM initializes a fresh BAM sector: DOS version marker, dir
// pointer to (18,1), disk name/ID/type fields, every sector on every
// track marked free, then the BAM sector itself and the first
// directory sector allocated.
func formatBAM(store *Store, diskName, diskID string) *BAM {
	geo := store.Geometry()
	var buf [SectorSize]byte

	buf[bamDirPointerOff] = DirTrack
	buf[bamDirPointerOff+1] = DirFirstSector
	buf[bamVersionOff] = bamVersionMagic

	for t := 1; t <= geo.Tracks; t++ {
		off := entryOffset(t)
		spt := geo.SectorsPerTrack(t)
		buf[off] = byte(spt)
		for s := 0; s < spt; s++ {
			buf[off+1+s/8] |= 1 << uint(s%8)
		}
	}

	name := PadName(diskName)
	copy(buf[bamDiskNameOff:bamDiskNameOff+NameLen], name[:])
	buf[bamShiftSpaceOff] = PadByte
	buf[bamShiftSpaceOff+1] = PadByte

	id := PadName(diskID)
	buf[bamDiskIDOff] = id[0]
	buf[bamDiskIDOff+1] = id[1]
	buf[bamDosTypePadOff] = PadByte
	buf[bamDosTypeOff] = '2'
	buf[bamDosTypeOff+1] = 'A'
	buf[bamTrailPadOff] = PadByte
	buf[bamTrailPadOff+1] = PadByte

	_ = store.WriteSector(BAMTrack, BAMSector, buf)

	b := &BAM{store: store, geo: geo}
	_ = b.Allocate(BAMTrack, BAMSector)
	_ = b.Allocate(DirTrack, DirFirstSector)
	b.RebuildCounts()
	return b
}
