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

// Package control exposes the daemon's drive slots over HTTP, routed
// with gorilla/mux, with one handler file per operation group.
package control

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/d64ctl/pkg/daemon"
	"github.com/xelalexv/d64ctl/pkg/image"
)

// APIServer is the HTTP frontend for a daemon.
type APIServer interface {
	Serve() error
	Stop() error
}

// NewAPIServer wraps daemon d in an HTTP server listening on addr.
func NewAPIServer(addr string, d *daemon.Daemon) APIServer {
	return &api{address: addr, daemon: d}
}

type api struct {
	address string
	daemon  *daemon.Daemon
	server  *http.Server
}

// buildRouter assembles the full route table. Split out from Serve so
// tests can drive the handler chain directly through httptest without
// binding a real listener.
func (a *api) buildRouter() *mux.Router {

	router := mux.NewRouter().StrictSlash(true)

	addRoute(router, "status", "GET", "/status", a.status)
	addRoute(router, "list", "GET", "/list", a.list)
	addRoute(router, "load", "PUT", "/drive/{drive:[1-8]}", a.load)
	addRoute(router, "save", "GET", "/drive/{drive:[1-8]}", a.save)
	addRoute(router, "unload", "GET", "/drive/{drive:[1-8]}/unload", a.unload)
	addRoute(router, "drivels", "GET", "/drive/{drive:[1-8]}/list", a.driveList)
	addRoute(router, "dump", "GET", "/drive/{drive:[1-8]}/dump", a.dump)
	addRoute(router, "bam", "GET", "/drive/{drive:[1-8]}/bam", a.bam)
	addRoute(router, "addfile", "PUT", "/drive/{drive:[1-8]}/file", a.addFile)
	addRoute(router, "removefile", "DELETE", "/drive/{drive:[1-8]}/file", a.removeFile)
	addRoute(router, "extractfile", "GET", "/drive/{drive:[1-8]}/file", a.extractFile)
	addRoute(router, "renamefile", "PUT", "/drive/{drive:[1-8]}/file/rename", a.renameFile)
	addRoute(router, "lockfile", "PUT", "/drive/{drive:[1-8]}/file/lock", a.lockFile)
	addRoute(router, "verify", "PUT", "/drive/{drive:[1-8]}/verify", a.verify)
	addRoute(router, "compact", "PUT", "/drive/{drive:[1-8]}/compact", a.compact)
	addRoute(router, "reorder", "PUT", "/drive/{drive:[1-8]}/reorder", a.reorder)
	addRoute(router, "renamedisk", "PUT", "/drive/{drive:[1-8]}/disk-name", a.renameDisk)

	return router
}

func (a *api) Serve() error {

	router := a.buildRouter()

	addr := a.address
	if len(strings.Split(addr, ":")) < 2 {
		addr = fmt.Sprintf("%s:8888", a.address)
	}

	log.Infof("d64ctl API starts listening on %s", addr)
	a.server = &http.Server{Addr: addr, Handler: router}

	err := a.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *api) Stop() error {
	if a.server != nil {
		log.Info("API server stopping...")
		err := a.server.Shutdown(context.Background())
		a.server = nil
		return err
	}
	return nil
}

func addRoute(r *mux.Router, name, method, pattern string, handler http.HandlerFunc) {
	r.Methods(method).
		Path(pattern).
		Name(name).
		Handler(requestLogger(handler, name))
}

func requestLogger(inner http.Handler, name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		log.WithFields(log.Fields{
			"remote": r.RemoteAddr,
			"method": r.Method,
			"path":   r.RequestURI,
		}).Debugf("API BEGIN | %s", name)

		start := time.Now()
		inner.ServeHTTP(w, r)

		log.WithFields(log.Fields{
			"remote":   r.RemoteAddr,
			"method":   r.Method,
			"path":     r.RequestURI,
			"duration": time.Since(start),
		}).Debugf("API END   | %s", name)
	})
}

// getDrive reads and validates the {drive} path variable, sending an
// error reply and returning -1 on failure.
func getDrive(w http.ResponseWriter, req *http.Request) int {
	vars := mux.Vars(req)
	drive, err := strconv.Atoi(vars["drive"])
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return -1
	}
	return drive
}

// getImage locks and returns the image loaded into drive, sending an
// error reply and returning ok=false on busy/empty slots. The caller
// must call img.Unlock() when img is non-nil.
func (a *api) getImage(w http.ResponseWriter, drive int) (img *image.Image, ok bool) {

	img, locked := a.daemon.GetImage(drive)
	if !locked {
		handleError(fmt.Errorf("drive %d busy", drive), http.StatusLocked, w)
		return nil, false
	}
	if img == nil {
		handleError(fmt.Errorf("no disk loaded in drive %d", drive),
			http.StatusUnprocessableEntity, w)
		return nil, false
	}
	return img, true
}

func isFlagSet(req *http.Request, flag string) bool {
	arg, _ := getArg(req, flag)
	return arg == "true"
}

func getArg(req *http.Request, arg string) (string, error) {
	ret := req.URL.Query().Get(arg)
	if ret != "" {
		return url.QueryUnescape(ret)
	}
	return ret, nil
}

func getIntArg(req *http.Request, arg string, def int) (int, error) {
	val, err := getArg(req, arg)
	if err != nil {
		return -1, err
	}
	if val == "" {
		return def, nil
	}
	return strconv.Atoi(val)
}

func setHeaders(h http.Header, json bool) {
	if json {
		h.Set("Content-Type", "application/json; charset=UTF-8")
	} else {
		h.Set("Content-Type", "text/plain; charset=UTF-8")
	}
}

// errorStatus maps an image.ErrKind to the HTTP status a handleError
// caller would otherwise have to pick by hand for that error class.
func errorStatus(err error) int {
	switch {
	case image.Is(err, image.ErrNotFound):
		return http.StatusNotFound
	case image.Is(err, image.ErrDuplicate):
		return http.StatusConflict
	case image.Is(err, image.ErrDiskFull),
		image.Is(err, image.ErrDirectoryFull),
		image.Is(err, image.ErrInvalidTrackSector),
		image.Is(err, image.ErrInvalidImageSize),
		image.Is(err, image.ErrInvalidRecordSize),
		image.Is(err, image.ErrUseAddRel),
		image.Is(err, image.ErrCorruptChain):
		return http.StatusUnprocessableEntity
	case image.Is(err, image.ErrIoError):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// handleError sends an error reply with a status picked from err's
// image.ErrKind when statusCode is 0, or statusCode when given
// explicitly. It reports whether a reply was sent.
func handleError(e error, statusCode int, w http.ResponseWriter) bool {

	if e == nil {
		return false
	}

	if statusCode == 0 {
		statusCode = errorStatus(e)
	}

	log.Errorf("%v", e)

	setHeaders(w.Header(), false)
	w.WriteHeader(statusCode)
	if _, err := w.Write([]byte(fmt.Sprintf("%v\n", e))); err != nil {
		log.Errorf("problem writing error: %v", err)
	}

	return true
}

func sendReply(body []byte, statusCode int, w http.ResponseWriter) {
	setHeaders(w.Header(), false)
	w.WriteHeader(statusCode)
	if _, err := fmt.Fprintf(w, "%s\n", body); err != nil {
		log.Errorf("problem sending reply: %v", err)
	}
}

func sendJSONReply(obj interface{}, statusCode int, w http.ResponseWriter) {
	setHeaders(w.Header(), true)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(obj); err != nil {
		log.Errorf("problem writing error: %v", err)
	}
}

func wantsJSON(req *http.Request) bool {
	return req.Header.Get("Accept") == "application/json" ||
		req.Header.Get("Content-Type") == "application/json"
}
