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

package main

import (
	"fmt"
	"os"

	"github.com/xelalexv/d64ctl/pkg/run"
)

var D64ctlVersion string

func synopsis() {
	fmt.Print(`
synopsis: d64ctl {format|add|extract|remove|rename|rename-disk|lock|ls|
                   verify|compact|reorder|dump|backup|serve|shell|version} ...

run 'd64ctl {action} -h|--help' to see detailed info

`)
}

func version() {
	fmt.Printf("\nd64ctl %s\n\n", D64ctlVersion)
}

func main() {

	var action string
	var args []string

	if len(os.Args) > 1 {
		action = os.Args[1]
	}

	if len(os.Args) > 2 {
		args = os.Args[2:]
	}

	switch action {

	case "format":
		run.DieOnError(run.NewFormat().Execute(args))

	case "add":
		run.DieOnError(run.NewAdd().Execute(args))

	case "extract":
		run.DieOnError(run.NewExtract().Execute(args))

	case "remove":
		run.DieOnError(run.NewRemove().Execute(args))

	case "rename":
		run.DieOnError(run.NewRename().Execute(args))

	case "rename-disk":
		run.DieOnError(run.NewRenameDisk().Execute(args))

	case "lock":
		run.DieOnError(run.NewLock().Execute(args))

	case "ls":
		run.DieOnError(run.NewList().Execute(args))

	case "verify":
		run.DieOnError(run.NewVerify().Execute(args))

	case "compact":
		run.DieOnError(run.NewCompact().Execute(args))

	case "reorder":
		run.DieOnError(run.NewReorder().Execute(args))

	case "dump":
		run.DieOnError(run.NewDump().Execute(args))

	case "backup":
		run.DieOnError(run.NewBackup().Execute(args))

	case "serve":
		version()
		run.DieOnError(run.NewServe().Execute(args))

	case "shell":
		run.DieOnError(run.NewShell().Execute(args))

	case "version":
		version()

	case "":
		fallthrough
	case "-h":
		fallthrough
	case "--help":
		synopsis()

	default:
		run.Die("unknown action: %s\n", action)
	}
}
