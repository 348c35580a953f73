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

const (
	chainPayload  = SectorSize - 2 // 254 usable bytes per non-terminal sector
	freeReserve   = 2              // sectors kept back as a safety margin
	sideSectorMax = 120            // data-sector pointers per side sector
	sideBackRefs  = 6
	sideOffNext   = 0 // next side sector (track, sector)
	sideOffIndex  = 2
	sideOffRecLen = 3
	sideOffBack   = 4  // 6 back-refs, 2 bytes each
	sideOffData   = 16 // up to 120 data-sector pointers, 2 bytes each
)

// FileEngine implements the sequential and REL chain read/write/
// delete operations layered on Directory + Allocator + BAM.
type FileEngine struct {
	store *Store
	bam   *BAM
	alloc *Allocator
	dir   *Directory
}

// NewFileEngine binds a file engine to its supporting structures.
func NewFileEngine(store *Store, bam *BAM, alloc *Allocator, dir *Directory) *FileEngine {
	return &FileEngine{store: store, bam: bam, alloc: alloc, dir: dir}
}

func sectorsNeeded(payloadLen int) int {
	if payloadLen == 0 {
		return 1
	}
	n := payloadLen / chainPayload
	if payloadLen%chainPayload != 0 {
		n++
	}
	return n
}

// writeChain allocates and writes a plain linked-sector chain holding
// payload, returning the first (track, sector) and the list of every
// sector used, in order.
func (f *FileEngine) writeChain(payload []byte) (int, int, [][2]int, error) {
	need := sectorsNeeded(len(payload))
	if f.bam.TotalFree()-freeReserve < need {
		return 0, 0, nil, newErr(ErrDiskFull, "need %d sectors, only %d free", need, f.bam.TotalFree())
	}

	t, s, err := f.alloc.AllocateNextData(0, 0)
	if err != nil {
		return 0, 0, nil, err
	}
	firstT, firstS := t, s
	sectors := [][2]int{{t, s}}

	pos := 0
	for i := 0; i < need; i++ {
		last := i == need-1
		var buf [SectorSize]byte
		var n int
		if last {
			n = len(payload) - pos
			if n < 0 {
				n = 0
			}
			buf[0] = 0
			buf[1] = byte(n + 1)
			copy(buf[2:2+n], payload[pos:pos+n])
		} else {
			nt, ns, aerr := f.alloc.AllocateNextData(t, s)
			if aerr != nil {
				return 0, 0, nil, aerr
			}
			buf[0] = byte(nt)
			buf[1] = byte(ns)
			copy(buf[2:], payload[pos:pos+chainPayload])
			sectors = append(sectors, [2]int{nt, ns})
			t, s = nt, ns
			n = chainPayload
		}
		if werr := f.store.WriteSector(sectors[i][0], sectors[i][1], buf); werr != nil {
			return 0, 0, nil, werr
		}
		pos += n
		if last {
			break
		}
	}

	return firstT, firstS, sectors, nil
}

// AddFile writes a new sequential (SEQ/PRG/USR) file. REL files must
// go through AddRelFile.
func (f *FileEngine) AddFile(name string, typ FileType, payload []byte) (Entry, error) {
	if typ == TypeREL {
		return Entry{}, newErr(ErrUseAddRel, "REL entries need a record length; use AddRelFile")
	}
	if _, ok, err := f.dir.Find(name); err != nil {
		return Entry{}, err
	} else if ok {
		return Entry{}, newErr(ErrDuplicate, "file %q already exists", name)
	}

	// Reserve the directory slot before touching the BAM: a
	// DirectoryFull failure must never leave an allocated data chain
	// unreachable from any chain.
	ref, buf, err := f.dir.ReserveSlot()
	if err != nil {
		return Entry{}, err
	}

	firstT, firstS, sectors, err := f.writeChain(payload)
	if err != nil {
		return Entry{}, err
	}

	return f.dir.CommitSlot(ref, buf, name, typ, firstT, firstS, len(sectors), 0, 0, 0)
}

// buildSideSectors allocates the side-sector index chain for a REL
// file's data chain and returns the first side sector's (track,
// sector).
func (f *FileEngine) buildSideSectors(dataSectors [][2]int, recordLen int) (int, int, error) {
	nSide := len(dataSectors) / sideSectorMax
	if len(dataSectors)%sideSectorMax != 0 {
		nSide++
	}
	if nSide == 0 {
		nSide = 1
	}

	sideRefs := make([][2]int, 0, nSide)
	t, s := 0, 0
	for i := 0; i < nSide; i++ {
		nt, ns, err := f.alloc.AllocateNextData(t, s)
		if err != nil {
			return 0, 0, err
		}
		sideRefs = append(sideRefs, [2]int{nt, ns})
		t, s = nt, ns
	}

	for i, ref := range sideRefs {
		var buf [SectorSize]byte
		if i+1 < len(sideRefs) {
			buf[sideOffNext] = byte(sideRefs[i+1][0])
			buf[sideOffNext+1] = byte(sideRefs[i+1][1])
		} else {
			buf[sideOffNext] = 0
			buf[sideOffNext+1] = 0
		}
		buf[sideOffIndex] = byte(i)
		buf[sideOffRecLen] = byte(recordLen)

		for b := 0; b < sideBackRefs && b < len(sideRefs); b++ {
			buf[sideOffBack+b*2] = byte(sideRefs[b][0])
			buf[sideOffBack+b*2+1] = byte(sideRefs[b][1])
		}

		start := i * sideSectorMax
		end := start + sideSectorMax
		if end > len(dataSectors) {
			end = len(dataSectors)
		}
		for j := start; j < end; j++ {
			off := sideOffData + (j-start)*2
			buf[off] = byte(dataSectors[j][0])
			buf[off+1] = byte(dataSectors[j][1])
		}

		if err := f.store.WriteSector(ref[0], ref[1], buf); err != nil {
			return 0, 0, err
		}
	}

	return sideRefs[0][0], sideRefs[0][1], nil
}

// AddRelFile writes a new REL file: a plain data chain plus a
// side-sector index chain recording every data sector's location for
// random-access record lookup.
func (f *FileEngine) AddRelFile(name string, recordLen int, payload []byte) (Entry, error) {
	if recordLen < 2 || recordLen > 254 {
		return Entry{}, newErr(ErrInvalidRecordSize, "record length %d out of range [2,254]", recordLen)
	}
	if _, ok, err := f.dir.Find(name); err != nil {
		return Entry{}, err
	} else if ok {
		return Entry{}, newErr(ErrDuplicate, "file %q already exists", name)
	}

	ref, buf, err := f.dir.ReserveSlot()
	if err != nil {
		return Entry{}, err
	}

	firstT, firstS, dataSectors, err := f.writeChain(payload)
	if err != nil {
		return Entry{}, err
	}

	sideT, sideS, err := f.buildSideSectors(dataSectors, recordLen)
	if err != nil {
		return Entry{}, err
	}

	return f.dir.CommitSlot(ref, buf, name, TypeREL, firstT, firstS, len(dataSectors), sideT, sideS, recordLen)
}

// walkChain follows next-pointers starting at (t,s), returning every
// sector's payload bytes concatenated, capped at the store's total
// sector count to detect cycles.
func (f *FileEngine) walkChain(t, s int) ([]byte, error) {
	limit := f.store.Geometry().TotalSectors()
	var out []byte
	visited := make(map[[2]int]bool)
	for i := 0; i < limit; i++ {
		key := [2]int{t, s}
		if visited[key] {
			return nil, newErr(ErrCorruptChain, "cycle detected at track/sector %d/%d", t, s)
		}
		visited[key] = true

		buf, err := f.store.ReadSector(t, s)
		if err != nil {
			return nil, err
		}
		nt, ns := int(buf[0]), int(buf[1])
		if nt == 0 {
			n := ns - 1
			if n < 0 {
				n = 0
			}
			out = append(out, buf[2:2+n]...)
			return out, nil
		}
		out = append(out, buf[2:]...)
		t, s = nt, ns
	}
	return nil, newErr(ErrCorruptChain, "chain exceeds %d sectors", limit)
}

func (f *FileEngine) chainSectorList(t, s int) ([][2]int, error) {
	limit := f.store.Geometry().TotalSectors()
	var out [][2]int
	for i := 0; i < limit; i++ {
		out = append(out, [2]int{t, s})
		buf, err := f.store.ReadSector(t, s)
		if err != nil {
			return nil, err
		}
		nt, ns := int(buf[0]), int(buf[1])
		if nt == 0 {
			return out, nil
		}
		t, s = nt, ns
	}
	return nil, newErr(ErrCorruptChain, "chain exceeds %d sectors", limit)
}

// ExtractFile returns the concatenated payload bytes of name's data
// chain.
func (f *FileEngine) ExtractFile(name string) ([]byte, error) {
	e, ok, err := f.dir.Find(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newErr(ErrNotFound, "file %q not found", name)
	}
	return f.walkChain(e.FirstTrack, e.FirstSector)
}

// RemoveFile releases the data chain (and, for REL files, the
// side-sector chain) and clears the directory entry.
func (f *FileEngine) RemoveFile(name string) error {
	e, ok, err := f.dir.Find(name)
	if err != nil {
		return err
	}
	if !ok {
		return newErr(ErrNotFound, "file %q not found", name)
	}

	sectors, err := f.chainSectorList(e.FirstTrack, e.FirstSector)
	if err != nil {
		return err
	}
	for _, ts := range sectors {
		_ = f.bam.Release(ts[0], ts[1])
	}

	if e.Type == TypeREL && e.SideTrack != 0 {
		sideSectors, serr := f.chainSideSectors(e.SideTrack, e.SideSector)
		if serr == nil {
			for _, ts := range sideSectors {
				_ = f.bam.Release(ts[0], ts[1])
			}
		}
	}

	return f.dir.Remove(e.Ref)
}

func (f *FileEngine) chainSideSectors(t, s int) ([][2]int, error) {
	limit := f.store.Geometry().TotalSectors()
	var out [][2]int
	for i := 0; i < limit; i++ {
		out = append(out, [2]int{t, s})
		buf, err := f.store.ReadSector(t, s)
		if err != nil {
			return nil, err
		}
		nt, ns := int(buf[sideOffNext]), int(buf[sideOffNext+1])
		if nt == 0 && ns == 0 {
			return out, nil
		}
		t, s = nt, ns
	}
	return nil, newErr(ErrCorruptChain, "side sector chain exceeds %d sectors", limit)
}
