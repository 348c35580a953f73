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

// Store owns the flat byte buffer backing a disk image and provides
// bounds-checked sector access.
type Store struct {
	geo  *Geometry
	data []byte
}

// NewStore allocates a zeroed buffer for the given geometry.
func NewStore(geo *Geometry) *Store {
	return &Store{geo: geo, data: make([]byte, geo.ImageSize())}
}

// LoadStore wraps an existing byte buffer, choosing 35- or 40-track
// geometry from its length.
func LoadStore(data []byte) (*Store, error) {
	geo, err := GeometryFromSize(len(data))
	if err != nil {
		return nil, err
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return &Store{geo: geo, data: buf}, nil
}

// Geometry returns the store's geometry.
func (s *Store) Geometry() *Geometry {
	return s.geo
}

// Save returns a copy of the underlying buffer.
func (s *Store) Save() []byte {
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out
}

// ReadSector returns a copy of the 256 bytes at track/sector t/s.
func (s *Store) ReadSector(t, sec int) ([SectorSize]byte, error) {
	var out [SectorSize]byte
	if !s.geo.ValidTrackSector(t, sec) {
		return out, newErr(ErrInvalidTrackSector,
			"invalid track/sector %d/%d", t, sec)
	}
	off := s.geo.Offset(t, sec)
	copy(out[:], s.data[off:off+SectorSize])
	return out, nil
}

// WriteSector overwrites the 256 bytes at track/sector t/s.
func (s *Store) WriteSector(t, sec int, buf [SectorSize]byte) error {
	if !s.geo.ValidTrackSector(t, sec) {
		return newErr(ErrInvalidTrackSector,
			"invalid track/sector %d/%d", t, sec)
	}
	off := s.geo.Offset(t, sec)
	copy(s.data[off:off+SectorSize], buf[:])
	return nil
}
