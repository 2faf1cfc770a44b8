// This file is part of GopherDS.
//
// GopherDS is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherDS is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherDS.  If not, see <https://www.gnu.org/licenses/>.

package performance

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"strings"

	"github.com/jetsetilly/gopherds/curated"
)

// ProfileError is the pattern of errors returned by RunProfiler().
const ProfileError = "performance: profile: %v"

// Profile specifies which profiles should be generated by RunProfiler().
type Profile int

// List of valid Profile flags. Flags can be combined.
const (
	ProfileCPU Profile = 1 << iota
	ProfileMem
	ProfileTrace

	ProfileNone Profile = 0
)

func (p Profile) String() string {
	if p == ProfileNone {
		return "NONE"
	}
	var s []string
	if p&ProfileCPU == ProfileCPU {
		s = append(s, "CPU")
	}
	if p&ProfileMem == ProfileMem {
		s = append(s, "MEM")
	}
	if p&ProfileTrace == ProfileTrace {
		s = append(s, "TRACE")
	}
	return strings.Join(s, ",")
}

// ParseProfile converts a comma separated list of profile names to a Profile
// value. Valid names are NONE, CPU, MEM, TRACE and ALL.
func ParseProfile(s string) (Profile, error) {
	p := ProfileNone
	for _, n := range strings.Split(s, ",") {
		switch strings.ToUpper(strings.TrimSpace(n)) {
		case "", "NONE":
		case "CPU":
			p |= ProfileCPU
		case "MEM":
			p |= ProfileMem
		case "TRACE":
			p |= ProfileTrace
		case "ALL":
			p |= ProfileCPU | ProfileMem | ProfileTrace
		default:
			return ProfileNone, curated.Errorf(ProfileError, fmt.Sprintf("unknown profile (%s)", n))
		}
	}
	return p, nil
}

// RunProfiler runs the function with the requested profiles active. Profile
// files are named with the prefix.
func RunProfiler(profile Profile, prefix string, run func() error) error {
	if profile&ProfileCPU == ProfileCPU {
		f, err := os.Create(fmt.Sprintf("%s_cpu.profile", prefix))
		if err != nil {
			return curated.Errorf(ProfileError, err)
		}
		defer f.Close()

		if err := pprof.StartCPUProfile(f); err != nil {
			return curated.Errorf(ProfileError, err)
		}
		defer pprof.StopCPUProfile()
	}

	if profile&ProfileTrace == ProfileTrace {
		f, err := os.Create(fmt.Sprintf("%s_trace.out", prefix))
		if err != nil {
			return curated.Errorf(ProfileError, err)
		}
		defer f.Close()

		if err := trace.Start(f); err != nil {
			return curated.Errorf(ProfileError, err)
		}
		defer trace.Stop()
	}

	err := run()

	if profile&ProfileMem == ProfileMem {
		f, errMem := os.Create(fmt.Sprintf("%s_mem.profile", prefix))
		if errMem != nil {
			return curated.Errorf(ProfileError, errMem)
		}
		defer f.Close()

		runtime.GC()
		if errMem := pprof.WriteHeapProfile(f); errMem != nil {
			return curated.Errorf(ProfileError, errMem)
		}
	}

	return err
}
