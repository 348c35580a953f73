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

package image

import "fmt"

// OverwritePolicy controls how RunBackup handles a name collision on
// the current target image.
type OverwritePolicy int

const (
	SkipFile OverwritePolicy = iota
	OverwriteFile
	SkipAll
	OverwriteAll
)

// BackupPolicy carries the current overwrite mode across a backup
// run, replacing the source's global `conformation` variable.
type BackupPolicy struct {
	Overwrite OverwritePolicy
}

// RunBackup copies every live entry from each source image onto a
// sequence of target images named baseName, baseName+"1",
// baseName+"2", and so on, rolling over to a fresh target whenever
// the current one lacks room for the next file plus the safety
// margin. decide is consulted on a name collision only when policy is
// SkipFile or OverwriteFile, so the caller can prompt interactively
// without the engine touching stdio.
func RunBackup(sources []*Image, baseName string, policy *BackupPolicy,
	decide func(name string) OverwritePolicy) ([]*Image, error) {

	if policy == nil {
		policy = &BackupPolicy{Overwrite: SkipFile}
	}

	var targets []*Image
	targetNum := 0

	newTarget := func(geo *Geometry) *Image {
		name := baseName
		if targetNum > 0 {
			name = fmt.Sprintf("%s%d", baseName, targetNum)
		}
		targetNum++
		t := Format(geo.Tracks, name)
		targets = append(targets, t)
		return t
	}

	if len(sources) == 0 {
		return targets, nil
	}
	target := newTarget(sources[0].Geometry())

	for _, src := range sources {
		entries, err := src.ListDirectory()
		if err != nil {
			return targets, err
		}

		for _, e := range entries {
			payload, err := src.ExtractFile(e.NameString())
			if err != nil {
				return targets, err
			}

			effective := policy.Overwrite
			if _, exists, _ := target.dir.Find(e.NameString()); exists {
				switch policy.Overwrite {
				case SkipFile, OverwriteFile:
					if decide != nil {
						effective = decide(e.NameString())
					}
				case SkipAll:
					effective = SkipAll
				case OverwriteAll:
					effective = OverwriteAll
				}

				switch effective {
				case SkipFile, SkipAll:
					continue
				case OverwriteFile, OverwriteAll:
					if rerr := target.RemoveFile(e.NameString()); rerr != nil {
						return targets, rerr
					}
				}
			}

			need := sectorsNeeded(len(payload))
			if target.bam.TotalFree()-freeReserve < need {
				target = newTarget(src.Geometry())
			}

			if e.Type == TypeREL {
				if _, err := target.AddRelFile(e.NameString(), e.RecordLen, payload); err != nil {
					return targets, err
				}
			} else {
				if _, err := target.AddFile(e.NameString(), e.Type, payload); err != nil {
					return targets, err
				}
			}
		}
	}

	return targets, nil
}
