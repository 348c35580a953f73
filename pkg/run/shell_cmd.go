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
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xelalexv/d64ctl/pkg/image"
	"github.com/xelalexv/d64ctl/pkg/session"
)

// NewShell builds the shell command.
func NewShell() *Shell {

	s := &Shell{}
	s.Command = *NewCommand(
		"shell",
		"interactive command shell",
		"\nUse the shell command to work on one disk image across multiple "+
			"operations without reopening it each time.",
		"", runnerHelpEpilogue, s.Run)

	return s
}

// Shell is the "shell" CLI command: an interactive REPL over a single
// session, built around session.Session instead of a global disk
// name.
type Shell struct {
	Command
	session session.Session
}

// Run executes the shell command.
func (s *Shell) Run() error {

	fmt.Println("d64ctl interactive shell (type 'exit' to quit, 'help' for commands)")

	s.session = *session.New()
	reader := bufio.NewReader(os.Stdin)

	for {
		prompt := "no disk"
		if p := s.session.Path; p != "" {
			prompt = p
		}
		fmt.Printf("[%s] d64> ", prompt)

		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return nil
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		if cmd == "exit" || cmd == "quit" {
			return nil
		}

		if err := s.dispatch(cmd, args); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}
}

func (s *Shell) dispatch(cmd string, args []string) error {

	switch cmd {

	case "help", "--help", "--h":
		s.help()
		return nil

	case "create", "format":
		if len(args) < 2 {
			return fmt.Errorf("usage: create <file> <tracks> [disk name]")
		}
		tracks, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}
		name := ""
		if len(args) > 2 {
			name = strings.Join(args[2:], " ")
		}
		s.session.Format(args[0], tracks, name)
		return s.session.Save("")

	case "load":
		if len(args) < 1 {
			return fmt.Errorf("usage: load <file>")
		}
		return s.session.Open(args[0])

	case "list", "dir":
		im, err := s.session.Current()
		if err != nil {
			return err
		}
		entries, err := im.ListDirectory()
		if err != nil {
			return err
		}
		fmt.Printf("0 \"%-16s\"\n", im.DiskName())
		for _, e := range entries {
			lock := ' '
			if e.Locked {
				lock = '<'
			}
			fmt.Printf("%-4d \"%-16s\" %c\n", e.SizeSectors, e.NameString(), lock)
		}
		fmt.Printf("%d BLOCKS FREE.\n", im.FreeSectorCount())
		return nil

	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: add <name> <host file>")
		}
		im, err := s.session.Current()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		if _, err := im.AddFile(args[0], image.TypePRG, data); err != nil {
			return err
		}
		return s.session.Save("")

	case "extract":
		if len(args) < 2 {
			return fmt.Errorf("usage: extract <name> <host file>")
		}
		im, err := s.session.Current()
		if err != nil {
			return err
		}
		data, err := im.ExtractFile(args[0])
		if err != nil {
			return err
		}
		return os.WriteFile(args[1], data, 0644)

	case "remove", "del":
		if len(args) < 1 {
			return fmt.Errorf("usage: remove <name>")
		}
		im, err := s.session.Current()
		if err != nil {
			return err
		}
		if err := im.RemoveFile(args[0]); err != nil {
			return err
		}
		return s.session.Save("")

	case "rename":
		if len(args) < 2 {
			return fmt.Errorf("usage: rename <old> <new>")
		}
		im, err := s.session.Current()
		if err != nil {
			return err
		}
		if err := im.RenameFile(args[0], args[1]); err != nil {
			return err
		}
		return s.session.Save("")

	case "rename-disk":
		if len(args) < 1 {
			return fmt.Errorf("usage: rename-disk <new name>")
		}
		im, err := s.session.Current()
		if err != nil {
			return err
		}
		if err := im.RenameDisk(strings.Join(args, " ")); err != nil {
			return err
		}
		return s.session.Save("")

	case "bam":
		im, err := s.session.Current()
		if err != nil {
			return err
		}
		fmt.Printf("%d blocks free\n", im.FreeSectorCount())
		return nil

	case "verify":
		im, err := s.session.Current()
		if err != nil {
			return err
		}
		fix := len(args) > 0 && (args[0] == "true" || args[0] == "1" || args[0] == "fix")
		report, err := im.Verify(fix)
		if err != nil {
			return err
		}
		if report.OK {
			fmt.Println("no discrepancies found")
		} else {
			for _, d := range report.Discrepancies {
				fmt.Printf("track %d sector %d: %s\n", d.Track, d.Sector, d.Message)
			}
		}
		if fix {
			return s.session.Save("")
		}
		return nil

	case "compact":
		im, err := s.session.Current()
		if err != nil {
			return err
		}
		if err := im.Compact(); err != nil {
			return err
		}
		return s.session.Save("")

	case "reorder":
		if len(args) < 1 {
			return fmt.Errorf("usage: reorder <name1> [name2 ...]")
		}
		im, err := s.session.Current()
		if err != nil {
			return err
		}
		if err := im.Reorder(args); err != nil {
			return err
		}
		return s.session.Save("")

	case "lock":
		if len(args) < 1 {
			return fmt.Errorf("usage: lock <name>")
		}
		im, err := s.session.Current()
		if err != nil {
			return err
		}
		if err := im.SetLocked(args[0], true); err != nil {
			return err
		}
		return s.session.Save("")

	case "unlock":
		if len(args) < 1 {
			return fmt.Errorf("usage: unlock <name>")
		}
		im, err := s.session.Current()
		if err != nil {
			return err
		}
		if err := im.SetLocked(args[0], false); err != nil {
			return err
		}
		return s.session.Save("")

	case "dump":
		if len(args) < 2 {
			return fmt.Errorf("usage: dump <track> <sector>")
		}
		track, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}
		sector, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}
		im, err := s.session.Current()
		if err != nil {
			return err
		}
		buf, err := im.DumpSector(track, sector)
		if err != nil {
			return err
		}
		for row := 0; row < len(buf); row += 16 {
			fmt.Printf("%02X: ", row)
			for col := 0; col < 16 && row+col < len(buf); col++ {
				fmt.Printf("%02X ", buf[row+col])
			}
			fmt.Println()
		}
		return nil

	default:
		return fmt.Errorf("unknown command: %s (type 'help' for a list)", cmd)
	}
}

func (s *Shell) help() {
	fmt.Print(`available commands:
  create <file> <tracks> [name]   format a new disk image
  load <file>                     load a disk image
  list                            show directory
  add <name> <host file>          add a file
  extract <name> <host file>      extract a file
  remove <name>                   remove a file
  rename <old> <new>               rename a file
  rename-disk <name>              rename the disk
  lock <name> / unlock <name>     set/clear write-protect
  bam                             show free block count
  verify [fix]                    check disk consistency
  compact                         pack directory entries
  reorder <name1> [name2 ...]     reorder directory entries
  dump <track> <sector>           hex-dump a sector
  exit                            leave the shell
`)
}
