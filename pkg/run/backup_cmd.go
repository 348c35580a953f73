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
	"strings"

	"github.com/xelalexv/d64ctl/pkg/image"
	"github.com/xelalexv/d64ctl/pkg/session"
)

// NewBackup builds the backup command: copies live entries from one
// or more source disks onto a fresh sequence of target disks named
// baseName, baseName1, baseName2, ..., prompting interactively on
// name collisions unless --overwrite or --skip is given.
func NewBackup() *Backup {

	b := &Backup{}
	b.Command = *NewCommand(
		"backup -s|--sources {file1,file2,...} -o|--output {base name} [--overwrite|--skip]",
		"back up one or more disks onto a fresh sequence of disks",
		"\nUse the backup command to copy every live file from the given source "+
			"disks onto freshly formatted target disks, splitting across as many "+
			"targets as needed.",
		"", runnerHelpEpilogue, b.Run)

	b.AddSetting(&b.Sources, "sources", "s", "", nil, "comma-separated source disk image files", true)
	b.AddSetting(&b.Output, "output", "o", "", nil, "base name/path for target disk images", true)
	b.AddSetting(&b.Overwrite, "overwrite", "", "", false, "overwrite on every name collision without asking", false)
	b.AddSetting(&b.Skip, "skip", "", "", false, "skip on every name collision without asking", false)

	return b
}

// Backup is the "backup" CLI command.
type Backup struct {
	Command
	Sources   []string
	Output    string
	Overwrite bool
	Skip      bool
}

// Run executes the backup command.
func (b *Backup) Run() error {

	b.ParseSettings()

	if b.Overwrite && b.Skip {
		return fmt.Errorf("--overwrite and --skip are mutually exclusive")
	}

	sources := make([]*image.Image, 0, len(b.Sources))
	for _, path := range b.Sources {
		s := session.New()
		if err := s.Open(path); err != nil {
			return err
		}
		im, err := s.Current()
		if err != nil {
			return err
		}
		sources = append(sources, im)
	}

	policy := &image.BackupPolicy{Overwrite: image.SkipFile}
	if b.Overwrite {
		policy.Overwrite = image.OverwriteAll
	} else if b.Skip {
		policy.Overwrite = image.SkipAll
	}

	decide := func(name string) image.OverwritePolicy {
		if policy.Overwrite != image.SkipFile && policy.Overwrite != image.OverwriteFile {
			return policy.Overwrite
		}
		return promptOverwrite(name)
	}

	targets, err := image.RunBackup(sources, b.Output, policy, decide)
	if err != nil {
		return err
	}

	for i, tgt := range targets {
		path := b.Output
		if i > 0 {
			path = fmt.Sprintf("%s%d", b.Output, i)
		}
		if err := os.WriteFile(path, tgt.Save(), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}

// promptOverwrite asks the user how to handle a colliding name during
// an interactive backup run.
func promptOverwrite(name string) image.OverwritePolicy {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("%q already exists on target, overwrite? [y/n/a(ll)/x(no to all)] ", name)
		line, _ := reader.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y":
			return image.OverwriteFile
		case "n":
			return image.SkipFile
		case "a":
			return image.OverwriteAll
		case "x":
			return image.SkipAll
		}
	}
}
