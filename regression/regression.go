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

package regression

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/database"
	"github.com/jetsetilly/gopherds/debugger/terminal/colorterm/easyterm/ansi"
	"github.com/jetsetilly/gopherds/hardware"
	"github.com/jetsetilly/gopherds/paths"
)

// Failures is the error pattern returned by RegressRun() when one or more
// tests do not succeed.
const Failures = "regression: %d of %d tests did not succeed"

// the regression database and trace files are stored in this directory.
const (
	regressionPath   = "regression"
	regressionDBFile = "regressionDB"
	regressionTraces = "traces"
)

// Regressor represents the generic entry in the regression database.
type Regressor interface {
	database.Entry

	// perform the regression test for the regression type. newRegression is
	// true when the entry is being added to the database. The message is
	// written to output before the test starts.
	//
	// returns false and a description of the failure if the test fails
	regress(ctx context.Context, newRegression bool, output io.Writer, msg string) (bool, string, error)
}

// when starting a database session we need to register what entries we will
// find in the database.
func initDBSession(db *database.Session) error {
	if err := db.RegisterEntryType(frameEntryID, deserialiseFrameEntry); err != nil {
		return err
	}
	if err := db.RegisterEntryType(traceEntryID, deserialiseTraceEntry); err != nil {
		return err
	}
	return nil
}

func dbPath() (string, error) {
	return paths.ResourcePath(regressionPath, regressionDBFile)
}

// newConsole creates a console with the cartridge inserted and reset. The
// console uses the default preferences.
func newConsole(cartridge string) (*hardware.DS, error) {
	data, err := os.ReadFile(cartridge)
	if err != nil {
		return nil, err
	}

	ds, err := hardware.NewDS(nil)
	if err != nil {
		return nil, err
	}
	if err := ds.Insert(data); err != nil {
		return nil, err
	}
	if err := ds.Reset(); err != nil {
		return nil, err
	}

	return ds, nil
}

// absolute path to the cartridge file. The cartridge must exist.
func cartridgePath(cartridge string) (string, error) {
	pth, err := filepath.Abs(cartridge)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(pth); err != nil {
		return "", err
	}
	return pth, nil
}

// uniqueFilename returns the path of a new file in the traces directory
// named after the cartridge in the console.
func uniqueFilename(prepend string, ds *hardware.DS) (string, error) {
	var gameCode string
	if rom := ds.Slot.ROM(); rom != nil {
		gameCode = rom.Header.GameCodeString()
	}

	dir, err := paths.ResourcePath(filepath.Join(regressionPath, regressionTraces), "")
	if err != nil {
		return "", err
	}

	// files created within the same second would otherwise collide
	base := paths.UniqueFilename(prepend, gameCode)
	pth := filepath.Join(dir, base)
	for i := 1; ; i++ {
		if _, err := os.Stat(pth); err != nil {
			if os.IsNotExist(err) {
				return pth, nil
			}
			return "", err
		}
		pth = filepath.Join(dir, fmt.Sprintf("%s_%d", base, i))
	}
}

// RegressList displays all entries in the database.
func RegressList(output io.Writer) error {
	pth, err := dbPath()
	if err != nil {
		return err
	}

	db, err := database.StartSession(pth, database.ActivityCreating, initDBSession)
	if err != nil {
		return err
	}
	defer db.EndSession(false)

	return db.List(output)
}

// RegressDelete removes an entry from the database after confirmation.
func RegressDelete(output io.Writer, confirmation io.Reader, key string) error {
	v, err := strconv.Atoi(key)
	if err != nil {
		return database.Errorf("invalid key (%s)", key)
	}

	pth, err := dbPath()
	if err != nil {
		return err
	}

	db, err := database.StartSession(pth, database.ActivityModifying, initDBSession)
	if err != nil {
		return err
	}

	ent, err := db.Get(v)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "%s\ndelete? (y/n): ", ent)

	confirm := make([]byte, 32)
	n, err := confirmation.Read(confirm)
	if err != nil && err != io.EOF {
		return err
	}

	if n == 0 || (confirm[0] != 'y' && confirm[0] != 'Y') {
		return nil
	}

	if err := db.Delete(v); err != nil {
		return err
	}
	if err := db.EndSession(true); err != nil {
		return err
	}

	fmt.Fprintf(output, "deleted test #%s from regression database\n", key)

	return nil
}

// RegressAdd runs the regression test and adds it to the database.
func RegressAdd(ctx context.Context, output io.Writer, reg Regressor) error {
	pth, err := dbPath()
	if err != nil {
		return err
	}

	db, err := database.StartSession(pth, database.ActivityCreating, initDBSession)
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("adding: %s", reg)
	ok, _, err := reg.regress(ctx, true, output, msg)
	if err != nil {
		return err
	}
	if !ok {
		return curated.Errorf("regression: cannot add %s", reg)
	}

	if _, err := db.Add(reg); err != nil {
		return err
	}
	if err := db.EndSession(true); err != nil {
		// the trace file of the entry is not wanted if the entry can't be
		// saved
		_ = reg.CleanUp()
		return err
	}

	io.WriteString(output, "\r"+ansi.ClearLine)
	fmt.Fprintf(output, "added: %s\n", reg)

	return nil
}

// RegressRun runs all the tests in the regression database. The filterKeys
// list specifies which entries to test. An empty list means that every entry
// is tested.
func RegressRun(ctx context.Context, output io.Writer, verbose bool, filterKeys []string) error {
	pth, err := dbPath()
	if err != nil {
		return err
	}

	// a missing database is created but never written
	db, err := database.StartSession(pth, database.ActivityCreating, initDBSession)
	if err != nil {
		return err
	}
	defer db.EndSession(false)

	keys := make([]int, 0, len(filterKeys))
	for _, k := range filterKeys {
		v, err := strconv.Atoi(k)
		if err != nil {
			return database.Errorf("invalid key (%s)", k)
		}
		keys = append(keys, v)
	}
	sort.Ints(keys)

	if db.NumEntries() == 0 {
		io.WriteString(output, "database is empty\n")
		return nil
	}

	var numSucceed, numFail, numError int

	_, err = db.SelectKeys(func(_ int, ent database.Entry) error {
		reg, ok := ent.(Regressor)
		if !ok {
			panic(fmt.Sprintf("regression: database entry does not satisfy Regressor interface (%T)", ent))
		}

		msg := fmt.Sprintf("running: %s", reg)
		ok, detail, err := reg.regress(ctx, false, output, msg)

		// clear the line ready for the completion message
		io.WriteString(output, "\r"+ansi.ClearLine)

		switch {
		case err != nil:
			numError++
			fmt.Fprintf(output, " ERROR: %s\n", reg)
			if verbose {
				fmt.Fprintf(output, "%v\n", err)
			}

			// an interrupt stops the remaining tests
			if ctx.Err() != nil {
				return ctx.Err()
			}
		case !ok:
			numFail++
			fmt.Fprintf(output, "failure: %s\n", reg)
			if verbose {
				fmt.Fprintf(output, "%s\n", detail)
			}
		default:
			numSucceed++
			fmt.Fprintf(output, "succeed: %s\n", reg)
		}

		return nil
	}, keys...)

	var s strings.Builder
	fmt.Fprintf(&s, "regression tests: %d succeed, %d fail", numSucceed, numFail)
	if numError > 0 {
		fmt.Fprintf(&s, ", %d errors", numError)
	}
	fmt.Fprintln(output, s.String())

	if err != nil {
		return err
	}

	if numFail+numError > 0 {
		return curated.Errorf(Failures, numFail+numError, numSucceed+numFail+numError)
	}

	return nil
}
