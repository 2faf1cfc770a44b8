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

package paths_test

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/jetsetilly/gopherds/paths"
	"github.com/jetsetilly/gopherds/test"
)

func TestPaths(t *testing.T) {
	wd, err := os.Getwd()
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, os.Chdir(t.TempDir()))
	defer os.Chdir(wd)

	pth, err := paths.ResourcePath("foo/bar", "baz")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, filepath.Join(".gopherds", "foo", "bar", "baz"))

	_, err = os.Stat(filepath.Join(".gopherds", "foo", "bar"))
	test.ExpectSuccess(t, err)

	pth, err = paths.ResourcePath("", "baz")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, filepath.Join(".gopherds", "baz"))

	pth, err = paths.ResourcePath("", "")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, ".gopherds")
}

func TestUniqueFilename(t *testing.T) {
	re := regexp.MustCompile(`^trace_ABCD_\d{8}_\d{6}$`)
	test.ExpectSuccess(t, re.MatchString(paths.UniqueFilename("trace", "ABCD")))

	re = regexp.MustCompile(`^state_\d{8}_\d{6}$`)
	test.ExpectSuccess(t, re.MatchString(paths.UniqueFilename("state", "  ")))
}
