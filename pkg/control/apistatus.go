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

	"github.com/xelalexv/d64ctl/pkg/daemon"
)

func (a *api) status(w http.ResponseWriter, req *http.Request) {

	stat := &Status{}
	for _, name := range a.daemon.Occupied() {
		stat.Add(name)
	}

	if wantsJSON(req) {
		sendJSONReply(stat, http.StatusOK, w)
	} else {
		sendReply([]byte(stat.String()), http.StatusOK, w)
	}
}

func (a *api) list(w http.ResponseWriter, req *http.Request) {

	list := make([]*DriveInfo, daemon.DriveCount)

	for drive := 1; drive <= daemon.DriveCount; drive++ {
		name := a.daemon.NameOf(drive)
		if name == "" {
			list[drive-1] = &DriveInfo{Drive: drive}
			continue
		}
		img, ok := a.daemon.GetImage(drive)
		if !ok {
			list[drive-1] = &DriveInfo{Drive: drive, Name: name}
			continue
		}
		list[drive-1] = driveInfoFor(drive, name, img)
		if img != nil {
			img.Unlock()
		}
	}

	if wantsJSON(req) {
		sendJSONReply(list, http.StatusOK, w)
	} else {
		strList := "\nDRIVE NAME             DISK NAME"
		for _, d := range list {
			strList += fmt.Sprintf("\n  %s", d.String())
		}
		sendReply([]byte(strList), http.StatusOK, w)
	}
}
