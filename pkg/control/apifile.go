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
	"io"
	"net/http"

	"github.com/xelalexv/d64ctl/pkg/image"
)

// addFile writes the request body as a new file named by the "name"
// query parameter, typed by "type", with "recordLen" required for REL.
func (a *api) addFile(w http.ResponseWriter, req *http.Request) {

	drive := getDrive(w, req)
	if drive == -1 {
		return
	}

	name, err := getArg(req, "name")
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}
	if name == "" {
		handleError(fmt.Errorf("name query parameter is required"),
			http.StatusUnprocessableEntity, w)
		return
	}

	typ, err := parseFileType(req.URL.Query().Get("type"))
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	payload, err := io.ReadAll(io.LimitReader(req.Body, 1<<21))
	if handleError(err, http.StatusInternalServerError, w) {
		return
	}
	defer req.Body.Close()

	img, ok := a.getImage(w, drive)
	if !ok {
		return
	}
	defer img.Unlock()

	var e image.Entry
	if typ == image.TypeREL {
		recLen, rerr := getIntArg(req, "recordLen", -1)
		if handleError(rerr, http.StatusUnprocessableEntity, w) {
			return
		}
		if recLen > 0 {
			e, err = img.AddRelFile(name, recLen, payload)
		} else {
			// no recordLen given: fall through to AddFile, which
			// rejects REL with a message pointing at the missing
			// parameter instead of a record-length validation error.
			e, err = img.AddFile(name, typ, payload)
		}
	} else {
		e, err = img.AddFile(name, typ, payload)
	}
	if handleError(err, 0, w) {
		return
	}

	sendJSONReply(fileInfoFor(e), http.StatusOK, w)
}

// removeFile deletes the file named by the "name" query parameter.
func (a *api) removeFile(w http.ResponseWriter, req *http.Request) {

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

	if handleError(img.RemoveFile(name), 0, w) {
		return
	}
	sendReply([]byte(fmt.Sprintf("removed %q", name)), http.StatusOK, w)
}

// extractFile streams the raw payload of the file named by "name".
func (a *api) extractFile(w http.ResponseWriter, req *http.Request) {

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

	data, err := img.ExtractFile(name)
	if handleError(err, 0, w) {
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// renameFile renames "old" to "new".
func (a *api) renameFile(w http.ResponseWriter, req *http.Request) {

	drive := getDrive(w, req)
	if drive == -1 {
		return
	}
	oldName, err := getArg(req, "old")
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}
	newName, err := getArg(req, "new")
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	img, ok := a.getImage(w, drive)
	if !ok {
		return
	}
	defer img.Unlock()

	if handleError(img.RenameFile(oldName, newName), 0, w) {
		return
	}
	sendReply([]byte(fmt.Sprintf("renamed %q to %q", oldName, newName)), http.StatusOK, w)
}

// lockFile sets or clears the write-protect flag on "name".
func (a *api) lockFile(w http.ResponseWriter, req *http.Request) {

	drive := getDrive(w, req)
	if drive == -1 {
		return
	}
	name, err := getArg(req, "name")
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}
	locked := isFlagSet(req, "locked")

	img, ok := a.getImage(w, drive)
	if !ok {
		return
	}
	defer img.Unlock()

	if handleError(img.SetLocked(name, locked), 0, w) {
		return
	}
	sendReply([]byte(fmt.Sprintf("set locked=%v on %q", locked, name)), http.StatusOK, w)
}
