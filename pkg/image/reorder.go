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

// Reorder rewrites the directory so live entries appear in the order:
// first the names from list that exist on disk, in list order; then
// any remaining live entries in their original relative order. Names
// absent from disk are ignored. Data chains are untouched; only the
// directory entries move.
func (d *Directory) Reorder(names []string) error {
	entries, err := d.List()
	if err != nil {
		return err
	}

	byName := make(map[[NameLen]byte]Entry, len(entries))
	used := make(map[[NameLen]byte]bool, len(entries))
	for _, e := range entries {
		byName[e.Name] = e
	}

	ordered := make([]Entry, 0, len(entries))
	for _, n := range names {
		key := PadName(n)
		if e, ok := byName[key]; ok && !used[key] {
			ordered = append(ordered, e)
			used[key] = true
		}
	}
	for _, e := range entries {
		if !used[e.Name] {
			ordered = append(ordered, e)
			used[e.Name] = true
		}
	}

	return d.rewrite(ordered)
}
