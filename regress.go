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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jetsetilly/gopherds/modalflag"
	"github.com/jetsetilly/gopherds/regression"
)

// yesReader always answers yes to a confirmation request.
type yesReader struct{}

func (*yesReader) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	p[0] = 'y'
	return 1, nil
}

func regress(ctx context.Context, md *modalflag.Modes) error {
	md.NewMode()
	md.AddSubModes("RUN", "LIST", "DELETE", "ADD")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	switch md.Mode() {
	case "RUN":
		md.NewMode()

		verbose := md.AddBool("verbose", false, "output more detail (eg. error messages)")

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		return regression.RegressRun(ctx, md.Output, *verbose, md.RemainingArgs())

	case "LIST":
		md.NewMode()

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		if len(md.RemainingArgs()) > 0 {
			return fmt.Errorf("no additional arguments required for %s mode", md)
		}

		return regression.RegressList(md.Output)

	case "DELETE":
		md.NewMode()

		answerYes := md.AddBool("yes", false, "answer yes to confirmation")

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		switch len(md.RemainingArgs()) {
		case 0:
			return fmt.Errorf("database key required for %s mode", md)
		case 1:
		default:
			return fmt.Errorf("only one entry can be deleted at at time")
		}

		var confirmation io.Reader = os.Stdin
		if *answerYes {
			confirmation = &yesReader{}
		}

		return regression.RegressDelete(md.Output, confirmation, md.GetArg(0))

	case "ADD":
		return regressAdd(ctx, md)
	}

	return nil
}

func regressAdd(ctx context.Context, md *modalflag.Modes) error {
	md.NewMode()

	mode := md.AddString("mode", "VIDEO", "type of regression entry")
	notes := md.AddString("notes", "", "additional annotation for the database")
	frames := md.AddInt("frames", 10, "number of frames to run [VIDEO and STATE]")
	instructions := md.AddInt("instructions", 100000, "number of instructions to trace [TRACE]")
	log := md.AddBool("log", false, "echo debugging log to stdout")

	md.AdditionalHelp(
		`Available modes are VIDEO, STATE and TRACE.

VIDEO compares a digest of the display hardware after the number of frames. STATE
compares a digest of the entire console state. TRACE records the execution of both
cores and compares every instruction.

Note that asking for log output will suppress regression progress meters.`)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	setLogEcho(*log)
	if *log {
		md.Output = io.Discard
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("cartridge required for %s mode", md)
	case 1:
	default:
		return fmt.Errorf("regression tests can only be added one at a time")
	}

	var reg regression.Regressor

	switch strings.ToUpper(*mode) {
	case "TRACE":
		trc, err := regression.NewTraceRegression(md.GetArg(0), *instructions)
		if err != nil {
			return err
		}
		trc.Notes = *notes
		reg = trc
	default:
		digest, err := regression.ParseDigestMode(*mode)
		if err != nil {
			return err
		}
		frm, err := regression.NewFrameRegression(md.GetArg(0), digest, *frames)
		if err != nil {
			return err
		}
		frm.Notes = *notes
		reg = frm
	}

	if err := regression.RegressAdd(ctx, md.Output, reg); err != nil {
		// the carriage return overwrites the last output from RegressAdd()
		return fmt.Errorf("\rerror adding regression test: %v", err)
	}

	return nil
}
