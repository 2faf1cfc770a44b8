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

package easyterm

import (
	"os"
	"syscall"
)

// SuspendProcess manually suspends the current process. This is useful if the
// terminal is in a mode where the suspend key does not generate a signal.
func SuspendProcess() {
	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		panic("easyterm: cannot find own process")
	}
	_ = p.Signal(syscall.SIGTSTP)
}
