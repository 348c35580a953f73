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

// SectorSize is the fixed size, in bytes, of every sector in a 1541
// disk image.
const SectorSize = 256

// DirTrack and DirFirstSector give the fixed location of the start of
// the directory chain.
const (
	DirTrack       = 18
	DirFirstSector = 1
	BAMTrack       = 18
	BAMSector      = 0
)

//
func sectorsForTrack(t int) int {
	switch {
	case t >= 1 && t <= 17:
		return 21
	case t >= 18 && t <= 24:
		return 19
	case t >= 25 && t <= 30:
		return 18
	case t >= 31 && t <= 40:
		return 17
	default:
		return 0
	}
}

// Geometry describes the track/sector layout of a 35- or 40-track
// image: sectors per track and the byte offset of each track/sector
// pair, precomputed once from a prefix sum.
type Geometry struct {
	Tracks int
	spt    []int // spt[t], 1-indexed by track
	prefix []int // prefix[t] = sectors on tracks 1..t-1
}

// NewGeometry builds the geometry for a disk with the given track
// count, which must be 35 or 40.
func NewGeometry(tracks int) (*Geometry, error) {
	if tracks != 35 && tracks != 40 {
		return nil, newErr(ErrInvalidImageSize,
			"unsupported track count: %d", tracks)
	}

	g := &Geometry{
		Tracks: tracks,
		spt:    make([]int, tracks+1),
		prefix: make([]int, tracks+1),
	}

	sum := 0
	for t := 1; t <= tracks; t++ {
		g.spt[t] = sectorsForTrack(t)
		g.prefix[t] = sum
		sum += g.spt[t]
	}

	return g, nil
}

// GeometryFromSize picks 35- or 40-track geometry from an image byte
// length, failing with InvalidImageSize for any other length.
func GeometryFromSize(size int) (*Geometry, error) {
	g35, _ := NewGeometry(35)
	g40, _ := NewGeometry(40)

	switch size {
	case g35.ImageSize():
		return g35, nil
	case g40.ImageSize():
		return g40, nil
	default:
		return nil, newErr(ErrInvalidImageSize,
			"image size %d is neither 35-track (%d) nor 40-track (%d)",
			size, g35.ImageSize(), g40.ImageSize())
	}
}

//
func (g *Geometry) SectorsPerTrack(t int) int {
	if t < 1 || t > g.Tracks {
		return 0
	}
	return g.spt[t]
}

//
func (g *Geometry) ValidTrackSector(t, s int) bool {
	if t < 1 || t > g.Tracks {
		return false
	}
	return s >= 0 && s < g.spt[t]
}

// Offset returns the byte offset of track/sector t/s within the flat
// image buffer.
func (g *Geometry) Offset(t, s int) int {
	return SectorSize * (g.prefix[t] + s)
}

//
func (g *Geometry) TotalSectors() int {
	return g.prefix[g.Tracks] + g.spt[g.Tracks]
}

//
func (g *Geometry) ImageSize() int {
	return g.TotalSectors() * SectorSize
}
