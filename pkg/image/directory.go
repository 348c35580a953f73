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

// FileType is the low-nibble file type stored in a directory entry.
type FileType byte

const (
	TypeDEL FileType = 0
	TypeSEQ FileType = 1
	TypePRG FileType = 2
	TypeUSR FileType = 3
	TypeREL FileType = 4
)

const (
	entrySize        = 32
	entriesPerSector = SectorSize / entrySize

	entOffChain   = 0 // slot 0 only: next dir sector pointer
	entOffType    = 2
	entOffTrack   = 3
	entOffSector  = 4
	entOffName    = 5
	entOffSideTrk = 21
	entOffSideSec = 22
	entOffRecLen  = 23
	entOffSize    = 30

	typeLockedBit = 0x40
	typeClosedBit = 0x80
	typeMask      = 0x0F
)

// EntryRef locates a directory entry by the sector it lives in and
// its slot index (0..7) within that sector.
type EntryRef struct {
	Track, Sector int
	Slot          int
}

// Entry is the decoded form of a 32-byte directory record.
type Entry struct {
	Ref            EntryRef
	Type           FileType
	Locked, Closed bool
	FirstTrack     int
	FirstSector    int
	Name           [NameLen]byte
	SideTrack      int
	SideSector     int
	RecordLen      int
	SizeSectors    int
}

// NameString returns the trimmed, human-readable form of the entry's
// name field.
func (e *Entry) NameString() string {
	return TrimName(e.Name[:])
}

func decodeEntry(buf [SectorSize]byte, slot int, t, s int) Entry {
	off := slot * entrySize
	e := Entry{Ref: EntryRef{Track: t, Sector: s, Slot: slot}}
	typeByte := buf[off+entOffType]
	e.Type = FileType(typeByte & typeMask)
	e.Locked = typeByte&typeLockedBit != 0
	e.Closed = typeByte&typeClosedBit != 0
	e.FirstTrack = int(buf[off+entOffTrack])
	e.FirstSector = int(buf[off+entOffSector])
	copy(e.Name[:], buf[off+entOffName:off+entOffName+NameLen])
	e.SideTrack = int(buf[off+entOffSideTrk])
	e.SideSector = int(buf[off+entOffSideSec])
	e.RecordLen = int(buf[off+entOffRecLen])
	e.SizeSectors = int(buf[off+entOffSize]) | int(buf[off+entOffSize+1])<<8
	return e
}

// encodeEntry writes e into slot's 32 bytes. Slot 0's first two bytes
// are the sector's own chain pointer, not part of the entry, so they
// are preserved rather than zeroed.
func encodeEntry(buf *[SectorSize]byte, slot int, e Entry) {
	off := slot * entrySize

	var chainNext, chainCount byte
	if slot == 0 {
		chainNext, chainCount = buf[off], buf[off+1]
	}
	for i := 0; i < entrySize; i++ {
		buf[off+i] = 0
	}
	if slot == 0 {
		buf[off], buf[off+1] = chainNext, chainCount
	}

	typeByte := byte(e.Type) & typeMask
	if e.Locked {
		typeByte |= typeLockedBit
	}
	if e.Closed {
		typeByte |= typeClosedBit
	}
	buf[off+entOffType] = typeByte
	buf[off+entOffTrack] = byte(e.FirstTrack)
	buf[off+entOffSector] = byte(e.FirstSector)
	copy(buf[off+entOffName:off+entOffName+NameLen], e.Name[:])
	buf[off+entOffSideTrk] = byte(e.SideTrack)
	buf[off+entOffSideSec] = byte(e.SideSector)
	buf[off+entOffRecLen] = byte(e.RecordLen)
	buf[off+entOffSize] = byte(e.SizeSectors & 0xFF)
	buf[off+entOffSize+1] = byte((e.SizeSectors >> 8) & 0xFF)
}

// Directory manages the linked chain of directory sectors starting
// at (18,1).
type Directory struct {
	store *Store
	bam   *BAM
	alloc *Allocator
}

// NewDirectory binds a directory view to its supporting structures.
func NewDirectory(store *Store, bam *BAM, alloc *Allocator) *Directory {
	return &Directory{store: store, bam: bam, alloc: alloc}
}

// chainSectors walks the directory chain, returning every (track,
// sector) pair in order. It caps at the store's total sector count
// to guard against a cyclic chain.
func (d *Directory) chainSectors() ([][2]int, error) {
	limit := d.store.Geometry().TotalSectors()
	var out [][2]int
	t, s := DirTrack, DirFirstSector
	for i := 0; i < limit; i++ {
		out = append(out, [2]int{t, s})
		buf, err := d.store.ReadSector(t, s)
		if err != nil {
			return nil, err
		}
		nt, ns := int(buf[0]), int(buf[1])
		if nt == 0 {
			return out, nil
		}
		t, s = nt, ns
	}
	return nil, newErr(ErrCorruptChain, "directory chain exceeds %d sectors", limit)
}

// List returns every closed (valid) entry in the directory, in
// on-disk order.
func (d *Directory) List() ([]Entry, error) {
	sectors, err := d.chainSectors()
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, ts := range sectors {
		buf, err := d.store.ReadSector(ts[0], ts[1])
		if err != nil {
			return nil, err
		}
		for slot := 0; slot < entriesPerSector; slot++ {
			e := decodeEntry(buf, slot, ts[0], ts[1])
			if e.Closed {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

// Find looks up a live entry by name, matching byte-exact on the
// padded 16-byte form.
func (d *Directory) Find(name string) (Entry, bool, error) {
	entries, err := d.List()
	if err != nil {
		return Entry{}, false, err
	}
	want := PadName(name)
	for _, e := range entries {
		if e.Name == want {
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}

// freeSlot returns the first slot across the directory chain whose
// type byte is 0 (unused or deleted), or ok=false if none exists.
func (d *Directory) freeSlot() (EntryRef, [SectorSize]byte, bool, error) {
	sectors, err := d.chainSectors()
	if err != nil {
		return EntryRef{}, [SectorSize]byte{}, false, err
	}
	for _, ts := range sectors {
		buf, err := d.store.ReadSector(ts[0], ts[1])
		if err != nil {
			return EntryRef{}, [SectorSize]byte{}, false, err
		}
		for slot := 0; slot < entriesPerSector; slot++ {
			off := slot * entrySize
			if buf[off+entOffType] == 0 {
				return EntryRef{Track: ts[0], Sector: ts[1], Slot: slot}, buf, true, nil
			}
		}
	}
	return EntryRef{}, [SectorSize]byte{}, false, nil
}

// extend allocates a new directory sector, links it from the current
// last sector, and marks it terminal (next-track 0, byte1 0xFF).
func (d *Directory) extend() (EntryRef, [SectorSize]byte, error) {
	sectors, err := d.chainSectors()
	if err != nil {
		return EntryRef{}, [SectorSize]byte{}, err
	}
	last := sectors[len(sectors)-1]
	lastBuf, err := d.store.ReadSector(last[0], last[1])
	if err != nil {
		return EntryRef{}, [SectorSize]byte{}, err
	}

	ns, err := d.alloc.AllocateNextDirectory(last[1])
	if err != nil {
		return EntryRef{}, [SectorSize]byte{}, newErr(ErrDirectoryFull, "directory full")
	}

	lastBuf[0] = byte(DirTrack)
	lastBuf[1] = byte(ns)
	if err := d.store.WriteSector(last[0], last[1], lastBuf); err != nil {
		return EntryRef{}, [SectorSize]byte{}, err
	}

	var newBuf [SectorSize]byte
	newBuf[0] = 0
	newBuf[1] = 0xFF
	if err := d.store.WriteSector(DirTrack, ns, newBuf); err != nil {
		return EntryRef{}, [SectorSize]byte{}, err
	}

	return EntryRef{Track: DirTrack, Sector: ns, Slot: 0}, newBuf, nil
}

// ReserveSlot locates a slot for a new entry, reusing a free one
// before extending the chain, and returns its location. Callers
// should reserve a slot before allocating a file's data chain so a
// DirectoryFull failure never leaves allocated sectors unreachable
// from any chain.
func (d *Directory) ReserveSlot() (EntryRef, [SectorSize]byte, error) {
	ref, buf, ok, err := d.freeSlot()
	if err != nil {
		return EntryRef{}, [SectorSize]byte{}, err
	}
	if ok {
		return ref, buf, nil
	}
	return d.extend()
}

// CommitSlot writes a fully-populated entry into a slot previously
// obtained from ReserveSlot.
func (d *Directory) CommitSlot(ref EntryRef, buf [SectorSize]byte, name string, typ FileType,
	firstTrack, firstSector, sizeSectors, sideTrack, sideSector, recordLen int) (Entry, error) {

	e := Entry{
		Ref:         ref,
		Type:        typ,
		Closed:      true,
		FirstTrack:  firstTrack,
		FirstSector: firstSector,
		Name:        PadName(name),
		SideTrack:   sideTrack,
		SideSector:  sideSector,
		RecordLen:   recordLen,
		SizeSectors: sizeSectors,
	}
	encodeEntry(&buf, ref.Slot, e)
	if err := d.store.WriteSector(ref.Track, ref.Sector, buf); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Add reserves a slot and commits the entry in one step, for callers
// that don't need to allocate a data chain in between.
func (d *Directory) Add(name string, typ FileType, firstTrack, firstSector, sizeSectors int,
	sideTrack, sideSector, recordLen int) (Entry, error) {

	ref, buf, err := d.ReserveSlot()
	if err != nil {
		return Entry{}, err
	}
	return d.CommitSlot(ref, buf, name, typ, firstTrack, firstSector, sizeSectors,
		sideTrack, sideSector, recordLen)
}

func (d *Directory) load(ref EntryRef) (Entry, [SectorSize]byte, error) {
	buf, err := d.store.ReadSector(ref.Track, ref.Sector)
	if err != nil {
		return Entry{}, buf, err
	}
	return decodeEntry(buf, ref.Slot, ref.Track, ref.Sector), buf, nil
}

func (d *Directory) writeEntry(ref EntryRef, buf [SectorSize]byte, e Entry) error {
	encodeEntry(&buf, ref.Slot, e)
	return d.store.WriteSector(ref.Track, ref.Sector, buf)
}

// Remove clears an entry's type byte, leaving the slot free for
// reuse. It does not release the entry's data chain.
func (d *Directory) Remove(ref EntryRef) error {
	e, buf, err := d.load(ref)
	if err != nil {
		return err
	}
	e.Type = TypeDEL
	e.Closed = false
	e.Locked = false
	return d.writeEntry(ref, buf, e)
}

// Rename overwrites an entry's name field.
func (d *Directory) Rename(ref EntryRef, newName string) error {
	e, buf, err := d.load(ref)
	if err != nil {
		return err
	}
	e.Name = PadName(newName)
	return d.writeEntry(ref, buf, e)
}

// SetLocked flips an entry's locked bit.
func (d *Directory) SetLocked(ref EntryRef, locked bool) error {
	e, buf, err := d.load(ref)
	if err != nil {
		return err
	}
	e.Locked = locked
	return d.writeEntry(ref, buf, e)
}
