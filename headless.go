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
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/hardware/dsslot"
	"github.com/jetsetilly/gopherds/hardware/memory"
	"github.com/jetsetilly/gopherds/hardware/scheduler"
	"github.com/jetsetilly/gopherds/modalflag"
	"github.com/jetsetilly/gopherds/performance"
	"github.com/jetsetilly/gopherds/trace"
	"golang.org/x/image/draw"
)

func traceMode(ctx context.Context, md *modalflag.Modes) error {
	md.NewMode()

	cf := addConsoleFlags(md)
	record := md.AddString("record", "", "record execution trace to file")
	compare := md.AddString("compare", "", "compare execution against trace file")
	instructions := md.AddInt("instructions", 100000, "number of instructions to trace")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if (*record == "") == (*compare == "") {
		return fmt.Errorf("one of -record or -compare must be specified")
	}
	if *instructions <= 0 {
		return fmt.Errorf("number of instructions must be positive")
	}

	ds, err := cf.create(md)
	if err != nil {
		return err
	}

	var count int
	cont := func(a scheduler.Actor) bool {
		if a != scheduler.ActorEvent {
			count++
		}
		return count < *instructions
	}

	if *record != "" {
		f, err := os.Create(*record)
		if err != nil {
			return err
		}
		defer f.Close()

		rec, err := trace.NewRecorder(ds, f)
		if err != nil {
			return err
		}

		runErr := ds.Run(ctx, cont)
		if err := rec.End(); err != nil {
			return err
		}
		if runErr != nil && !errors.Is(runErr, context.Canceled) {
			return runErr
		}

		fmt.Printf("recorded %d instructions (ARM9 %d cycles, ARM7 %d cycles)\n",
			rec.Count(), rec.Cycles(memory.ARM9), rec.Cycles(memory.ARM7))
		return nil
	}

	f, err := os.Open(*compare)
	if err != nil {
		return err
	}
	defer f.Close()

	cmp := trace.NewComparer(ds, f)

	// stop as soon as the comparison fails
	runErr := ds.Run(ctx, func(a scheduler.Actor) bool {
		return cmp.Err() == nil && cont(a)
	})

	err = cmp.End()
	if err != nil && !curated.Is(err, trace.Ended) {
		return err
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	fmt.Printf("matched %d instructions (ARM9 %d cycles, ARM7 %d cycles)\n",
		cmp.Matched(), cmp.Cycles(memory.ARM9), cmp.Cycles(memory.ARM7))
	return nil
}

func icon(md *modalflag.Modes) error {
	md.NewMode()

	scale := md.AddInt("scale", 4, "scale factor of the output image")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 2 {
		return fmt.Errorf("cartridge and output file required for %s mode", md)
	}
	if *scale < 1 {
		return fmt.Errorf("scale must be at least one")
	}

	data, err := os.ReadFile(md.GetArg(0))
	if err != nil {
		return err
	}

	f, err := os.Create(md.GetArg(1))
	if err != nil {
		return err
	}
	defer f.Close()

	return writeIcon(f, data, *scale)
}

// writeIcon decodes the icon in the cartridge data and writes it to w as a
// PNG, scaled by the scale factor.
func writeIcon(w io.Writer, data []byte, scale int) error {
	img, err := dsslot.Icon(data)
	if err != nil {
		return err
	}

	sz := dsslot.IconSize * scale
	scaled := image.NewRGBA(image.Rect(0, 0, sz, sz))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)

	return png.Encode(w, scaled)
}

func perform(ctx context.Context, md *modalflag.Modes) error {
	md.NewMode()

	cf := addConsoleFlags(md)
	duration := md.AddString("duration", "5s", "run duration (note: there is a 2s overhead)")
	profile := md.AddString("profile", "NONE", "run performance check with profiling: CPU, MEM, TRACE or ALL")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	d, err := time.ParseDuration(*duration)
	if err != nil {
		return err
	}

	prf, err := performance.ParseProfile(*profile)
	if err != nil {
		return err
	}

	ds, err := cf.create(md)
	if err != nil {
		return err
	}

	return performance.Check(ctx, os.Stdout, ds, prf, d)
}
