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

package control

import (
	"fmt"
	"net/http"
)

// driveList lists drive's directory as JSON or a fixed-width text
// listing.
func (a *api) driveList(w http.ResponseWriter, req *http.Request) {

	drive := getDrive(w, req)
	if drive == -1 {
		return
	}

	img, ok := a.getImage(w, drive)
	if !ok {
		return
	}
	defer img.Unlock()

	entries, err := img.ListDirectory()
	if handleError(err, 0, w) {
		return
	}

	infos := make([]*FileInfo, len(entries))
	for i, e := range entries {
		infos[i] = fileInfoFor(e)
	}

	if wantsJSON(req) {
		sendJSONReply(infos, http.StatusOK, w)
		return
	}

	strList := fmt.Sprintf("\n0 \"%-16s\" DISK\n", img.DiskName())
	for _, fi := range infos {
		lock := ' '
		if fi.Locked {
			lock = '<'
		}
		strList += fmt.Sprintf("%-4d \"%-16s\" %-3s%c\n", fi.Sectors, fi.Name, fi.Type, lock)
	}
	strList += fmt.Sprintf("%d BLOCKS FREE.", img.FreeSectorCount())
	sendReply([]byte(strList), http.StatusOK, w)
}

// dump hex-dumps a single sector, chosen by the track/sector query
// parameters, from drive's image.
func (a *api) dump(w http.ResponseWriter, req *http.Request) {

	drive := getDrive(w, req)
	if drive == -1 {
		return
	}

	track, err := getIntArg(req, "track", -1)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}
	sector, err := getIntArg(req, "sector", -1)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}
	if track < 0 || sector < 0 {
		handleError(fmt.Errorf("track and sector query parameters are required"),
			http.StatusUnprocessableEntity, w)
		return
	}

	img, ok := a.getImage(w, drive)
	if !ok {
		return
	}
	defer img.Unlock()

	buf, err := img.DumpSector(track, sector)
	if handleError(err, 0, w) {
		return
	}

	out := fmt.Sprintf("track %d sector %d:\n", track, sector)
	for row := 0; row < len(buf); row += 16 {
		out += fmt.Sprintf("%02X: ", row)
		for col := 0; col < 16 && row+col < len(buf); col++ {
			out += fmt.Sprintf("%02X ", buf[row+col])
		}
		out += "\n"
	}
	sendReply([]byte(out), http.StatusOK, w)
}

// bam reports the free/used bitmap for every track in drive's image.
func (a *api) bam(w http.ResponseWriter, req *http.Request) {

	drive := getDrive(w, req)
	if drive == -1 {
		return
	}

	img, ok := a.getImage(w, drive)
	if !ok {
		return
	}
	defer img.Unlock()

	geo := img.Geometry()
	view := make(map[int][]bool, geo.Tracks)
	for t := 1; t <= geo.Tracks; t++ {
		bits, err := img.BAMTrackView(t)
		if handleError(err, 0, w) {
			return
		}
		view[t] = bits
	}

	if wantsJSON(req) {
		sendJSONReply(view, http.StatusOK, w)
		return
	}

	out := fmt.Sprintf("free: %d\n", img.FreeSectorCount())
	for t := 1; t <= geo.Tracks; t++ {
		out += fmt.Sprintf("%2d: ", t)
		for _, free := range view[t] {
			if free {
				out += "."
			} else {
				out += "*"
			}
		}
		out += "\n"
	}
	sendReply([]byte(out), http.StatusOK, w)
}
