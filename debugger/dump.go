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

package debugger

import (
	"os"

	"github.com/bradleyjkemp/memviz"
	"github.com/jetsetilly/gopherds/curated"
	"github.com/jetsetilly/gopherds/hardware/cpu/arm"
	"github.com/jetsetilly/gopherds/hardware/dma"
	"github.com/jetsetilly/gopherds/hardware/irq"
	"github.com/jetsetilly/gopherds/hardware/memory"
	"github.com/jetsetilly/gopherds/hardware/timers"
)

// coreDump is the part of a core's state that is written by DUMP. The memory
// of the core is not included.
type coreDump struct {
	Core   memory.Core
	CPU    arm.State
	IRQ    irq.State
	Timers timers.State
	DMA    dma.State
}

// dump writes a graphviz dot file of the state of the focused core.
func (dbg *Debugger) dump(filename string) error {
	s := dbg.ds.Snapshot()

	p := s.ARM9
	if dbg.focus == memory.ARM7 {
		p = s.ARM7
	}

	d := &coreDump{
		Core:   dbg.focus,
		CPU:    p.CPU,
		IRQ:    p.IRQ,
		Timers: p.Timers,
		DMA:    p.DMA,
	}

	f, err := os.Create(filename)
	if err != nil {
		return curated.Errorf("debugger: %s: %v", cmdDump, err)
	}
	defer f.Close()

	memviz.Map(f, d)

	return nil
}
