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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// verify checks BAM/chain consistency, repairing in place when
// fix=true.
func (a *api) verify(w http.ResponseWriter, req *http.Request) {

	drive := getDrive(w, req)
	if drive == -1 {
		return
	}
	fix := isFlagSet(req, "fix")

	img, ok := a.getImage(w, drive)
	if !ok {
		return
	}
	defer img.Unlock()

	report, err := img.Verify(fix)
	if handleError(err, 0, w) {
		return
	}
	sendJSONReply(report, http.StatusOK, w)
}

// compact packs live directory entries contiguously.
func (a *api) compact(w http.ResponseWriter, req *http.Request) {

	drive := getDrive(w, req)
	if drive == -1 {
		return
	}

	img, ok := a.getImage(w, drive)
	if !ok {
		return
	}
	defer img.Unlock()

	if handleError(img.Compact(), 0, w) {
		return
	}
	sendReply([]byte("compacted"), http.StatusOK, w)
}

// reorder rewrites the directory order per a JSON array of names in
// the request body.
func (a *api) reorder(w http.ResponseWriter, req *http.Request) {

	drive := getDrive(w, req)
	if drive == -1 {
		return
	}

	body, err := io.ReadAll(io.LimitReader(req.Body, 1<<16))
	if handleError(err, http.StatusInternalServerError, w) {
		return
	}
	defer req.Body.Close()

	var names []string
	if len(body) > 0 {
		if handleError(json.Unmarshal(body, &names),
			http.StatusUnprocessableEntity, w) {
			return
		}
	}

	img, ok := a.getImage(w, drive)
	if !ok {
		return
	}
	defer img.Unlock()

	if handleError(img.Reorder(names), 0, w) {
		return
	}
	sendReply([]byte("reordered"), http.StatusOK, w)
}

// renameDisk overwrites the disk name stored in the BAM header.
func (a *api) renameDisk(w http.ResponseWriter, req *http.Request) {

	drive := getDrive(w, req)
	if drive == -1 {
		return
	}
	name, err := getArg(req, "name")
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	img, ok := a.getImage(w, drive)
	if !ok {
		return
	}
	defer img.Unlock()

	if handleError(img.RenameDisk(name), 0, w) {
		return
	}
	sendReply([]byte(fmt.Sprintf("renamed disk to %q", name)), http.StatusOK, w)
}
