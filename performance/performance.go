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
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/hardware"
)

// the period before measurement begins, allowing the frame rate to settle.
const leadTime = 2 * time.Second

// Check the performance of the emulator. The console should have a cartridge
// inserted and be reset.
//
// Emulation will run for the specified duration and will create a cpu, memory
// profile, a trace (or a combination of those) as defined by the Profile
// argument.
func Check(ctx context.Context, output io.Writer, ds *hardware.DS, profile Profile, duration time.Duration) error {
	var startFrame int
	var measured time.Duration

	run := func(d time.Duration) error {
		c, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		err := ds.Run(c, nil)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	}

	runner := func() error {
		if err := run(leadTime); err != nil {
			return err
		}

		startFrame = ds.LCD.Frame()
		start := time.Now()
		err := run(duration)
		measured = time.Since(start)
		return err
	}

	if err := RunProfiler(profile, "performance", runner); err != nil {
		return curated.Errorf("performance: %v", err)
	}

	numFrames := ds.LCD.Frame() - startFrame
	fps, accuracy := CalcFPS(numFrames, measured.Seconds())
	fmt.Fprintf(output, "%.2f fps (%d frames in %.2f seconds) %.1f%%\n", fps, numFrames, measured.Seconds(), accuracy)

	return nil
}
