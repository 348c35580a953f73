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

// Compact rewrites the directory chain so all live entries are packed
// contiguously starting at (18,1) slot 0, releasing any directory
// sectors left unused by the compaction.
func (d *Directory) Compact() error {
	entries, err := d.List()
	if err != nil {
		return err
	}
	return d.rewrite(entries)
}

// rewrite lays entries out contiguously starting at (18,1) slot 0,
// reusing as many of the chain's current sectors as needed and
// releasing the rest. Shared by Compact and Reorder.
func (d *Directory) rewrite(entries []Entry) error {
	oldSectors, err := d.chainSectors()
	if err != nil {
		return err
	}

	need := (len(entries) + entriesPerSector - 1) / entriesPerSector
	if need == 0 {
		need = 1
	}

	newSectors := oldSectors
	if need < len(oldSectors) {
		newSectors = oldSectors[:need]
	}
	// need should never exceed len(oldSectors): neither compaction nor
	// reordering changes the number of live entries.

	bufs := make([][SectorSize]byte, len(newSectors))

	for i, e := range entries {
		sectorIdx := i / entriesPerSector
		slot := i % entriesPerSector
		encodeEntry(&bufs[sectorIdx], slot, e)
	}

	for i, ts := range newSectors {
		if i+1 < len(newSectors) {
			bufs[i][0] = byte(newSectors[i+1][0])
			bufs[i][1] = byte(newSectors[i+1][1])
		} else {
			bufs[i][0] = 0
			bufs[i][1] = 0xFF
		}
		if err := d.store.WriteSector(ts[0], ts[1], bufs[i]); err != nil {
			return err
		}
	}

	for _, ts := range oldSectors[len(newSectors):] {
		_ = d.bam.Release(ts[0], ts[1])
	}

	return nil
}
