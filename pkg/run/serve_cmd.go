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
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/d64ctl/pkg/control"
	"github.com/xelalexv/d64ctl/pkg/daemon"
)

// NewServe builds the serve command.
func NewServe() *Serve {

	s := &Serve{}
	s.Runner = *NewRunner(
		"serve [-a|--address {address}]",
		"run the drive daemon & control API server",
		"\nUse the serve command to run a daemon with 8 drive slots, exposing "+
			"them over its HTTP control API. Each slot autosaves its image "+
			"on unload and every drive is autoloaded from its autosave "+
			"location on startup, if present.",
		"", `- Logging can be configured with these environment variables:

  LOG_FORMAT		set to 'json' for JSON logging
  LOG_FORCE_COLORS	set to non-empty for forcing colorized log entries
  LOG_METHODS		set to non-empty for including methods in log
  LOG_LEVEL		panic, fatal, error, warn, info, debug, trace

`+runnerHelpEpilogue, s.Run)

	s.AddBaseSettings()
	s.AddSetting(&s.Address, "address", "a", "", "0.0.0.0",
		"address to listen on, with optional :port", false)

	return s
}

// Serve is the "serve" CLI command.
type Serve struct {
	Runner
	Address string
}

// Run executes the serve command.
func (s *Serve) Run() error {

	s.ParseSettings()

	d := daemon.NewDaemon()
	for ix := 1; ix <= daemon.DriveCount; ix++ {
		img, err := daemon.AutoLoad(ix)
		if err != nil {
			log.Warnf("could not autoload drive %d: %v", ix, err)
			continue
		}
		if img != nil {
			if err := d.SetImage(ix, "autosave", img, true); err != nil {
				log.Warnf("could not restore drive %d: %v", ix, err)
			} else {
				log.Infof("restored drive %d from autosave", ix)
			}
		}
	}

	wg := &sync.WaitGroup{}
	wg.Add(1)

	addr := s.Address
	if !strings.Contains(addr, ":") {
		addr = fmt.Sprintf("%s:%d", addr, s.Port)
	}
	api := control.NewAPIServer(addr, d)
	go func() {
		defer wg.Done()
		if err := api.Serve(); err != nil {
			log.Errorf("API server closed with error: %v", err)
		} else {
			log.Info("API server stopped")
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	sigCount := 0
	done := make(chan bool)

	for {
		select {

		case sig := <-sigs:
			log.WithField("signal", sig).Info("signal received")
			sigCount++

			switch sigCount {

			case 1:
				go func() {
					log.Info("shutting down, hit Ctrl-C twice to force exit...")
					api.Stop()
					wg.Wait()
					done <- true
				}()

			case 2:
				log.Warn("shutdown in progress, hit Ctrl-C again to force exit")

			default:
				log.Warn("forcing daemon to stop immediately")
				os.Exit(1)
			}

		case <-done:
			log.Info("d64ctl daemon stopped")
			return nil
		}
	}
}
