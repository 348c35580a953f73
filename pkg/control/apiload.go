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
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/xelalexv/d64ctl/pkg/daemon"
	"github.com/xelalexv/d64ctl/pkg/format"
)

// load reads an image body into drive, replacing whatever is there
// unless it's modified and force isn't set.
func (a *api) load(w http.ResponseWriter, req *http.Request) {

	drive := getDrive(w, req)
	if drive == -1 {
		return
	}

	arg, err := getArg(req, "name")
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	fm, err := format.NewFormat("d64")
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	img, err := fm.Read(io.LimitReader(req.Body, 1<<21))
	if err != nil {
		handleError(fmt.Errorf("image corrupted: %v", err),
			http.StatusUnprocessableEntity, w)
		return
	}
	if handleError(req.Body.Close(), http.StatusInternalServerError, w) {
		return
	}

	if err := a.daemon.SetImage(drive, arg, img, isFlagSet(req, "force")); err != nil {
		if strings.Contains(err.Error(), "busy") {
			handleError(err, http.StatusLocked, w)
		} else if strings.Contains(err.Error(), "modified") {
			handleError(err, http.StatusConflict, w)
		} else {
			handleError(err, http.StatusInternalServerError, w)
		}
		return
	}

	sendReply([]byte(fmt.Sprintf("loaded %q into drive %d", arg, drive)), http.StatusOK, w)
}

// save streams the image in drive out as a raw byte buffer.
func (a *api) save(w http.ResponseWriter, req *http.Request) {

	drive := getDrive(w, req)
	if drive == -1 {
		return
	}

	img, ok := a.getImage(w, drive)
	if !ok {
		return
	}
	defer img.Unlock()

	fm, err := format.NewFormat("d64")
	if handleError(err, http.StatusInternalServerError, w) {
		return
	}

	var out bytes.Buffer
	if handleError(fm.Write(img, &out), http.StatusInternalServerError, w) {
		return
	}

	img.SetModified(false)
	w.WriteHeader(http.StatusOK)
	w.Write(out.Bytes())
}

// unload evicts drive. A modified image is refused unless force is
// set, and with force it is first written to the slot's autosave file
// before being evicted.
func (a *api) unload(w http.ResponseWriter, req *http.Request) {

	drive := getDrive(w, req)
	if drive == -1 {
		return
	}

	img, ok := a.daemon.GetImage(drive)
	if !ok {
		handleError(fmt.Errorf("drive %d busy", drive), http.StatusLocked, w)
		return
	}
	if img != nil {
		if img.IsModified() && !isFlagSet(req, "force") {
			img.Unlock()
			handleError(fmt.Errorf("image in drive %d is modified", drive),
				http.StatusConflict, w)
			return
		}
		if err := daemon.AutoSave(drive, img); err != nil {
			img.Unlock()
			handleError(err, http.StatusInternalServerError, w)
			return
		}
		img.Unlock()
	}

	if _, ok := a.daemon.Unload(drive); !ok {
		handleError(fmt.Errorf("drive %d busy", drive), http.StatusLocked, w)
		return
	}

	sendReply([]byte(fmt.Sprintf("unloaded drive %d", drive)), http.StatusOK, w)
}
