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
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/jetsetilly/gopherds/debugger"
	"github.com/jetsetilly/gopherds/debugger/terminal"
	"github.com/jetsetilly/gopherds/debugger/terminal/colorterm"
	"github.com/jetsetilly/gopherds/debugger/terminal/plainterm"
	"github.com/jetsetilly/gopherds/hardware"
	"github.com/jetsetilly/gopherds/hardware/clocks"
	"github.com/jetsetilly/gopherds/hardware/preferences"
	"github.com/jetsetilly/gopherds/hardware/scheduler"
	"github.com/jetsetilly/gopherds/logger"
	"github.com/jetsetilly/gopherds/modalflag"
	"github.com/jetsetilly/gopherds/paths"
	"github.com/jetsetilly/gopherds/performance"
	"github.com/jetsetilly/gopherds/performance/limiter"
	"github.com/jetsetilly/gopherds/present"
	"github.com/jetsetilly/gopherds/savestate"
	"github.com/jetsetilly/gopherds/statsview"
	"github.com/jetsetilly/gopherds/version"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

const defaultInitScript = "debuggerInit"

func main() {
	os.Exit(launch(os.Args[1:]))
}

// launch parses the command line and runs the selected mode. Returns the
// value to be used with os.Exit().
func launch(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("RUN", "DEBUG", "TRACE", "ICON", "REGRESS", "PERFORMANCE", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return 0

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		return 10
	}

	switch md.Mode() {
	case "RUN":
		err = run(ctx, md)

	case "DEBUG":
		// the debugger handles interrupt signals itself
		stop()
		err = debug(md)

	case "TRACE":
		err = traceMode(ctx, md)

	case "ICON":
		err = icon(md)

	case "REGRESS":
		err = regress(ctx, md)

	case "PERFORMANCE":
		err = perform(ctx, md)

	case "VERSION":
		fmt.Println(version.String())
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md, err)
		return 20
	}

	return 0
}

// flags common to the modes that create a console.
type consoleFlags struct {
	bios9 *string
	bios7 *string
	log   *bool
}

func addConsoleFlags(md *modalflag.Modes) consoleFlags {
	return consoleFlags{
		bios9: md.AddString("bios9", "", "ARM9 BIOS image. a minimal BIOS is used if not specified"),
		bios7: md.AddString("bios7", "", "ARM7 BIOS image. a minimal BIOS is used if not specified"),
		log:   md.AddBool("log", false, "echo debugging log to stdout"),
	}
}

// setLogEcho sets the logger echo to stdout. The output is colorised if
// stdout is a terminal.
func setLogEcho(echo bool) {
	if !echo {
		logger.SetEcho(nil)
		return
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		logger.SetEcho(logger.NewColorizer(os.Stdout))
	} else {
		logger.SetEcho(os.Stdout)
	}
}

// create a new console with the cartridge inserted. The console is reset
// and ready to run.
func (cf consoleFlags) create(md *modalflag.Modes) (*hardware.DS, error) {
	setLogEcho(*cf.log)

	switch len(md.RemainingArgs()) {
	case 0:
		return nil, fmt.Errorf("cartridge required for %s mode", md)
	case 1:
	default:
		return nil, fmt.Errorf("too many arguments for %s mode", md)
	}

	pth, err := paths.ResourcePath("", "preferences")
	if err != nil {
		return nil, err
	}
	prefs, err := preferences.NewPreferences(pth)
	if err != nil {
		return nil, err
	}

	ds, err := hardware.NewDS(prefs)
	if err != nil {
		return nil, err
	}

	var bios9, bios7 []byte
	if *cf.bios9 != "" {
		if bios9, err = os.ReadFile(*cf.bios9); err != nil {
			return nil, err
		}
	}
	if *cf.bios7 != "" {
		if bios7, err = os.ReadFile(*cf.bios7); err != nil {
			return nil, err
		}
	}
	if err := ds.LoadBIOS(bios9, bios7); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(md.GetArg(0))
	if err != nil {
		return nil, err
	}
	if err := ds.Insert(data); err != nil {
		return nil, err
	}
	if err := ds.Reset(); err != nil {
		return nil, err
	}

	logger.Logf(logger.Allow, "gopherds", "%s", ds.Slot.ROM().Header)

	return ds, nil
}

func run(ctx context.Context, md *modalflag.Modes) error {
	md.NewMode()

	cf := addConsoleFlags(md)
	frames := md.AddInt("frames", 0, "number of frames to run for. zero means run until interrupted")
	fpsCap := md.AddBool("fpscap", true, "cap frame rate to the refresh rate of the console")
	state := md.AddString("state", "", "savestate to load before running")
	save := md.AddString("save", "", "save state to file on exit")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))
	profile := md.AddString("profile", "NONE", "run emulation through the profiler: CPU, MEM, TRACE or ALL")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
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

	if *state != "" {
		if err := savestate.Load(*state, ds); err != nil {
			return err
		}
	}

	if *stats {
		if statsview.Available() {
			statsview.Launch(os.Stdout)
		} else {
			fmt.Println("! stats server not available in this build")
		}
	}

	pres := present.NewPresenter(ds)

	g, gctx := errgroup.WithContext(ctx)

	// closed when the emulation goroutine ends
	emulationDone := make(chan struct{})

	g.Go(func() error {
		defer close(emulationDone)

		var lim *limiter.FpsLimiter
		if *fpsCap {
			lim = limiter.NewFPSLimiter(clocks.FramesPerSecond)
			defer lim.Stop()
		}

		frame := ds.LCD.Frame()
		target := frame + *frames

		err := ds.Run(gctx, func(scheduler.Actor) bool {
			if f := ds.LCD.Frame(); f != frame {
				frame = f
				if lim != nil {
					lim.Wait()
				}
				if *frames > 0 && frame >= target {
					return false
				}
			}
			return true
		})

		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	var presented int
	g.Go(func() error {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		var number int
		for {
			select {
			case <-pres.Updated():
				pres.Borrow(func(f *present.Frame) {
					number = f.Number
					presented++
				})
			case <-ticker.C:
				logger.Logf(logger.Allow, "run", "frame %d (%d presented, %d dropped)", number, presented, pres.Dropped())
			case <-emulationDone:
				return nil
			}
		}
	})

	if err := performance.RunProfiler(prf, "run", g.Wait); err != nil {
		return err
	}

	if *save != "" {
		if err := savestate.Save(*save, ds); err != nil {
			return err
		}
	}

	fmt.Printf("%d frames (%d presented, %d dropped)\n", ds.LCD.Frame(), presented, pres.Dropped())

	return nil
}

func debug(md *modalflag.Modes) error {
	md.NewMode()

	defInitScript, err := paths.ResourcePath("", defaultInitScript)
	if err != nil {
		return err
	}
	if _, err := os.Stat(defInitScript); err != nil {
		defInitScript = ""
	}

	defTerm := "PLAIN"
	if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
		defTerm = "COLOR"
	}

	cf := addConsoleFlags(md)
	termType := md.AddString("term", defTerm, "terminal type to use in debug mode: COLOR, PLAIN")
	initScript := md.AddString("initscript", defInitScript, "script to run on debugger start")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	ds, err := cf.create(md)
	if err != nil {
		return err
	}

	var trm terminal.Terminal
	switch strings.ToUpper(*termType) {
	default:
		fmt.Printf("! unknown terminal type (%s) defaulting to plain\n", *termType)
		fallthrough
	case "PLAIN":
		trm = plainterm.NewPlainTerminal(nil, nil)
	case "COLOR":
		trm = &colorterm.ColorTerminal{}
	}

	dbg, err := debugger.NewDebugger(ds, trm)
	if err != nil {
		return err
	}

	if err := dbg.Start(*initScript); err != nil {
		return err
	}

	return ds.Prefs.Save()
}
