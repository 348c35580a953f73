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

// dataInterleave and dirInterleave are the fixed sector strides used
// when searching for the next free sector on the current track.
const (
	dataInterleave = 10
	dirInterleave  = 3
)

// Allocator implements the 1541 spiral track order and interleaved
// in-track search used when growing a file's sector chain.
type Allocator struct {
	bam *BAM
	geo *Geometry
}

// NewAllocator binds an allocator to a BAM.
func NewAllocator(bam *BAM, geo *Geometry) *Allocator {
	return &Allocator{bam: bam, geo: geo}
}

// trackOrder builds the data-track search order: alternating outward
// from the directory track while the outward side stays within the
// disk's inner zone, then draining the remaining inward tracks, then
// the remaining outward tracks. For a 35-track disk this produces
// 17, 19, 16, 20, 15, 21, 14, 22, 13, 23, 12, 24, 11, 10, ..., 1,
// 25, 26, ..., 35.
func (a *Allocator) trackOrder() []int {
	order := make([]int, 0, a.geo.Tracks-1)
	down := DirTrack - 1
	up := DirTrack + 1

	for up <= 24 && down >= 1 {
		order = append(order, down, up)
		down--
		up++
	}
	for down >= 1 {
		order = append(order, down)
		down--
	}
	for up <= a.geo.Tracks {
		order = append(order, up)
		up++
	}
	return order
}

// searchTrack scans track t starting at (start+dataInterleave-ish)
// offset already applied by the caller, wrapping once, and returns
// the first free sector found.
func (a *Allocator) searchTrack(t, start int) (int, bool) {
	spt := a.geo.SectorsPerTrack(t)
	if spt == 0 {
		return 0, false
	}
	start = ((start % spt) + spt) % spt
	for i := 0; i < spt; i++ {
		s := (start + i) % spt
		if a.bam.IsFree(t, s) {
			return s, true
		}
	}
	return 0, false
}

// AllocateNextData finds and marks allocated the next data sector
// following (prevTrack, prevSector) in the file chain, per §4.4's
// interleave policy. prevTrack == 0 starts a fresh spiral search from
// the directory track outward.
func (a *Allocator) AllocateNextData(prevTrack, prevSector int) (int, int, error) {
	order := a.trackOrder()

	tryTrack := func(t, start int) (int, int, bool) {
		if s, ok := a.searchTrack(t, start); ok {
			return t, s, true
		}
		return 0, 0, false
	}

	if prevTrack != 0 && prevTrack != DirTrack {
		if t, s, ok := tryTrack(prevTrack, prevSector+dataInterleave); ok {
			_ = a.bam.Allocate(t, s)
			return t, s, nil
		}
	}

	// advance to the next track after prevTrack in spiral order, or
	// start the spiral fresh when there is no previous track.
	startIdx := 0
	if prevTrack != 0 {
		for i, t := range order {
			if t == prevTrack {
				startIdx = i + 1
				break
			}
		}
	}

	for i := 0; i < len(order); i++ {
		t := order[(startIdx+i)%len(order)]
		if t == DirTrack {
			continue
		}
		if tt, s, ok := tryTrack(t, 0); ok {
			_ = a.bam.Allocate(tt, s)
			return tt, s, nil
		}
	}

	return 0, 0, newErr(ErrDiskFull, "no free data sector available")
}

// AllocateNextDirectory finds and marks allocated the next directory
// sector on track 18, starting the in-track search at
// prevSector+dirInterleave (or sector 1 when prevSector is the BAM
// sector itself).
func (a *Allocator) AllocateNextDirectory(prevSector int) (int, error) {
	start := prevSector + dirInterleave
	if prevSector == BAMSector {
		start = DirFirstSector
	}
	if s, ok := a.searchTrack(DirTrack, start); ok {
		_ = a.bam.Allocate(DirTrack, s)
		return s, nil
	}
	return 0, newErr(ErrDirectoryFull, "no free directory sector on track %d", DirTrack)
}
