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

// DiscrepancyKind classifies a single verify finding.
type DiscrepancyKind int

const (
	DiscLeak DiscrepancyKind = iota
	DiscDoubleUse
	DiscCountMismatch
	DiscChainOverrun
)

//
func (k DiscrepancyKind) String() string {
	switch k {
	case DiscLeak:
		return "leak"
	case DiscDoubleUse:
		return "double-use"
	case DiscCountMismatch:
		return "count-mismatch"
	case DiscChainOverrun:
		return "chain-overrun"
	default:
		return "unknown"
	}
}

// Discrepancy is a single verify finding.
type Discrepancy struct {
	Kind    DiscrepancyKind
	Track   int
	Sector  int
	Message string
}

// Report is the structured result of a verify pass.
type Report struct {
	OK            bool
	Discrepancies []Discrepancy
}

// Verifier rebuilds the set of sectors reachable from the BAM sector,
// the directory chain, every live file's data chain, and every REL
// side-sector chain, then compares that expected map against the
// actual BAM bitmap and stored free counts.
type Verifier struct {
	store *Store
	bam   *BAM
	geo   *Geometry
	dir   *Directory
	files *FileEngine
}

// NewVerifier binds a verifier to its supporting structures.
func NewVerifier(store *Store, bam *BAM, dir *Directory, files *FileEngine) *Verifier {
	return &Verifier{store: store, bam: bam, geo: store.Geometry(), dir: dir, files: files}
}

// expectedAllocated marks every sector reachable from a known chain
// root: the BAM sector, the directory chain, every live entry's data
// chain, and every REL entry's side-sector chain. When fix is true, a
// chain that cycles or outgrows the disk's total sector count is
// truncated at its first repeated sector before being re-walked, so
// the returned map reflects the chain as repaired.
func (v *Verifier) expectedAllocated(fix bool) (map[[2]int]bool, []Discrepancy) {
	expected := map[[2]int]bool{{BAMTrack, BAMSector}: true}
	var discs []Discrepancy

	dirSectors, err := v.dir.chainSectors()
	if err != nil {
		discs = append(discs, Discrepancy{Kind: DiscChainOverrun, Track: DirTrack, Sector: DirFirstSector,
			Message: "directory chain: " + err.Error()})
		if fix && v.truncateChain(DirTrack, DirFirstSector, chainDirectory) == nil {
			dirSectors, err = v.dir.chainSectors()
		}
	}
	if err == nil {
		for _, ts := range dirSectors {
			expected[ts] = true
		}
	}

	entries, err := v.dir.List()
	if err != nil {
		return expected, discs
	}

	for _, e := range entries {
		sectors, err := v.files.chainSectorList(e.FirstTrack, e.FirstSector)
		if err != nil {
			discs = append(discs, Discrepancy{Kind: DiscChainOverrun, Track: e.FirstTrack, Sector: e.FirstSector,
				Message: "file " + e.NameString() + ": " + err.Error()})
			if fix && v.truncateChain(e.FirstTrack, e.FirstSector, chainData) == nil {
				sectors, err = v.files.chainSectorList(e.FirstTrack, e.FirstSector)
			}
			if err != nil {
				continue
			}
		}
		for _, ts := range sectors {
			expected[ts] = true
		}

		if e.Type == TypeREL && e.SideTrack != 0 {
			sideSectors, err := v.files.chainSideSectors(e.SideTrack, e.SideSector)
			if err != nil {
				discs = append(discs, Discrepancy{Kind: DiscChainOverrun, Track: e.SideTrack, Sector: e.SideSector,
					Message: "side chain for " + e.NameString() + ": " + err.Error()})
				if fix && v.truncateChain(e.SideTrack, e.SideSector, chainSide) == nil {
					sideSectors, err = v.files.chainSideSectors(e.SideTrack, e.SideSector)
				}
				if err != nil {
					continue
				}
			}
			for _, ts := range sideSectors {
				expected[ts] = true
			}
		}
	}

	return expected, discs
}

// chainKind distinguishes the three link-header conventions a chain
// walk can hit: a directory or data chain terminates on a bare
// next-track byte of 0, while a REL side-sector chain additionally
// requires the next-sector byte to be 0.
type chainKind int

const (
	chainDirectory chainKind = iota
	chainData
	chainSide
)

func (k chainKind) isTerminal(nextTrack, nextSector int) bool {
	if nextTrack != 0 {
		return false
	}
	return k != chainSide || nextSector == 0
}

// terminalSector writes the terminal marker for kind into t/s's link
// header, breaking the chain there. A data chain's second header byte
// records the sector's valid-byte count; since a truncated chain's
// true length is unknown, the sector is treated as fully used.
func (v *Verifier) terminalSector(t, s int, kind chainKind) error {
	buf, err := v.store.ReadSector(t, s)
	if err != nil {
		return err
	}
	buf[0] = 0
	if kind == chainData {
		buf[1] = byte(chainPayload + 1)
	} else {
		buf[1] = 0
	}
	return v.store.WriteSector(t, s, buf)
}

// truncateChain walks the chain rooted at t/s, tracking every sector
// visited, until it either finds a legitimate terminal sector, revisits
// a sector already seen (a cycle), follows a link to an invalid
// track/sector, or exhausts the disk's total sector count. In all but
// the first case, it rewrites the last good sector's link header as
// terminal, cutting the chain there. An invalid root sector is
// returned as an error.
func (v *Verifier) truncateChain(t, s int, kind chainKind) error {
	limit := v.geo.TotalSectors()
	visited := make(map[[2]int]bool, limit)
	prevT, prevS := -1, -1

	for i := 0; i <= limit; i++ {
		key := [2]int{t, s}
		if visited[key] {
			break
		}
		visited[key] = true

		buf, err := v.store.ReadSector(t, s)
		if err != nil {
			if prevT < 0 {
				return err
			}
			break
		}
		nt, ns := int(buf[0]), int(buf[1])
		if kind.isTerminal(nt, ns) {
			return nil
		}
		prevT, prevS = t, s
		t, s = nt, ns
	}

	if prevT < 0 {
		prevT, prevS = t, s
	}
	return v.terminalSector(prevT, prevS, kind)
}

// Verify compares the expected allocation map against the actual BAM
// bitmap. When fix is true, discrepancies are repaired in place.
func (v *Verifier) Verify(fix bool) (*Report, error) {
	expected, discs := v.expectedAllocated(fix)

	for t := 1; t <= v.geo.Tracks; t++ {
		for s := 0; s < v.geo.SectorsPerTrack(t); s++ {
			isExpected := expected[[2]int{t, s}]
			isAllocated := !v.bam.IsFree(t, s)

			switch {
			case isAllocated && !isExpected:
				discs = append(discs, Discrepancy{Kind: DiscLeak, Track: t, Sector: s,
					Message: "allocated but unreachable"})
				if fix {
					_ = v.bam.Release(t, s)
				}
			case !isAllocated && isExpected:
				discs = append(discs, Discrepancy{Kind: DiscDoubleUse, Track: t, Sector: s,
					Message: "free but reachable from a chain"})
				if fix {
					_ = v.bam.Allocate(t, s)
				}
			}
		}
	}

	for t := 1; t <= v.geo.Tracks; t++ {
		want := v.bam.popcount(t)
		if t == DirTrack && bamTrack18PinZero {
			want = 0
		}
		if v.bam.FreeCountRaw(t) != want {
			discs = append(discs, Discrepancy{Kind: DiscCountMismatch, Track: t,
				Message: "stored free count does not match bitmap"})
		}
	}
	if fix {
		v.bam.RebuildCounts()
	}

	report := &Report{Discrepancies: discs}
	if fix {
		expected2, discs2 := v.expectedAllocated(false)
		report.OK = len(discs2) == 0 && v.consistent(expected2)
	} else {
		report.OK = len(discs) == 0
	}
	return report, nil
}

func (v *Verifier) consistent(expected map[[2]int]bool) bool {
	for t := 1; t <= v.geo.Tracks; t++ {
		for s := 0; s < v.geo.SectorsPerTrack(t); s++ {
			if expected[[2]int{t, s}] == v.bam.IsFree(t, s) {
				return false
			}
		}
		want := v.bam.popcount(t)
		if t == DirTrack && bamTrack18PinZero {
			want = 0
		}
		if v.bam.FreeCountRaw(t) != want {
			return false
		}
	}
	return true
}
