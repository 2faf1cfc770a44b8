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

package paths

import (
	"os"
	"path/filepath"
)

// ResourcePath returns the resource string (representing the resource to be
// loaded) prepended with the base path. The subPth directory is created if
// required.
//
// An empty file returns the path to the directory.
func ResourcePath(subPth string, file string) (string, error) {
	base, err := basePath()
	if err != nil {
		return "", err
	}

	pth := filepath.Join(base, subPth)
	if err := os.MkdirAll(pth, 0700); err != nil {
		return "", err
	}

	return filepath.Join(pth, file), nil
}
