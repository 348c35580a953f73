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

package run

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/xelalexv/d64ctl/pkg/daemon"
)

const runnerHelpPrologue = ""
const runnerHelpEpilogue = `- When a flag can be set via environment variable, the variable name is given
  in parenthesis at the end of the flag explanation. Note however that a flag,
  when specified overrides an environment variable.
`

// NewRunner creates a base runner for commands to use. The parameters
// are passed to the base command wrapped by this runner.
func NewRunner(use, short, long, helpPrologue, helpEpilogue string,
	exec func() error) *Runner {
	return &Runner{
		Command: *NewCommand(
			use, short, long, helpPrologue, helpEpilogue, exec),
	}
}

// Runner is the base for commands that reach a running daemon over
// its control API, on top of Command's flag/settings plumbing.
type Runner struct {
	Command
	Port int
}

// AddBaseSettings adds the --port setting shared by every daemon-
// facing command. This cannot be folded into NewRunner: Cobra/Viper
// only bind settings added from the concrete top-level command type.
func (r *Runner) AddBaseSettings() {
	r.AddSetting(&r.Port, "port", "p", "D64CTL_PORT", 8888,
		"port of daemon's API server", false)
}

// apiCall issues a request against a running daemon's control API and
// returns the response body on success. The control API (see
// pkg/control's handleError) replies to a failed call with a non-2xx
// status and a plain-text message body regardless of whether the
// caller asked for json; apiCall turns that into a Go error here so a
// daemon-backed command doesn't print a failure as if it had
// succeeded.
func (r *Runner) apiCall(method, path string, json bool,
	body io.Reader) (io.ReadCloser, error) {

	client := &http.Client{}
	req, err := http.NewRequest(
		method, fmt.Sprintf("http://127.0.0.1:%d%s", r.Port, path), body)
	if err != nil {
		return nil, err
	}

	if json {
		req.Header.Add("Content-Type", "application/json")
		req.Header.Add("Accept", "application/json")
	} else {
		req.Header.Add("Content-Type", "text/plain")
		req.Header.Add("Accept", "text/plain")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("daemon: %s", strings.TrimSpace(string(msg)))
	}

	return resp.Body, nil
}

// validateDrive checks d against the drive slots a daemon actually
// exposes, so a bad --drive value is rejected before a request is
// ever sent.
func validateDrive(d int) error {
	if d < 1 || d > daemon.DriveCount {
		return fmt.Errorf(
			"invalid drive number: %d; valid numbers are 1 through %d",
			d, daemon.DriveCount)
	}
	return nil
}
