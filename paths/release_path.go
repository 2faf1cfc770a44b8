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

//go:build release

package paths

import (
	"os"
	"path/filepath"
)

// release builds keep resources in the user's configuration directory, the
// location of which depends on the host OS. see os.UserConfigDir()
func basePath() (string, error) {
	cnf, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cnf, "gopherds"), nil
}
