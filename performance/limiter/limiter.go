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

// Package limiter provides a rough and ready way of limiting events to a fixed
// rate.
//
// A new FpsLimiter can be created with:
//
//	fps := limiter.NewFPSLimiter(59.8)
//	defer fps.Stop()
//
// Operations can then be stalled with the Wait() function. For example:
//
//	for {
//		fps.Wait()
//		renderImage()
//	}
package limiter

import (
	"time"
)

// FpsLimiter will trigger every frame at the requested rate.
type FpsLimiter struct {
	tick  chan bool
	limit chan time.Duration
	stop  chan bool
}

func secondsPerFrame(framesPerSecond float64) time.Duration {
	return time.Duration(float64(time.Second) / framesPerSecond)
}

// NewFPSLimiter is the preferred method of initialisation for FpsLimiter
// type. The Stop() function should be called when the limiter is no longer
// required.
func NewFPSLimiter(framesPerSecond float64) *FpsLimiter {
	lim := &FpsLimiter{
		tick:  make(chan bool),
		limit: make(chan time.Duration),
		stop:  make(chan bool),
	}

	go func() {
		spf := secondsPerFrame(framesPerSecond)

		// the sleep period is adjusted every frame to compensate for
		// oversleeping
		adjusted := spf
		t := time.Now()

		for {
			select {
			case lim.tick <- true:
			case spf = <-lim.limit:
				adjusted = spf
				continue
			case <-lim.stop:
				return
			}

			time.Sleep(adjusted)
			nt := time.Now()
			adjusted -= nt.Sub(t) - spf
			if adjusted < 0 {
				adjusted = 0
			}
			t = nt
		}
	}()

	return lim
}

// SetLimit changes the limit at which the FpsLimiter waits.
func (lim *FpsLimiter) SetLimit(framesPerSecond float64) {
	lim.limit <- secondsPerFrame(framesPerSecond)
}

// Wait will block until trigger.
func (lim *FpsLimiter) Wait() {
	<-lim.tick
}

// HasWaited will return true if time has already elapsed and false if it is
// still yet to happen.
func (lim *FpsLimiter) HasWaited() bool {
	select {
	case <-lim.tick:
		return true
	default:
		return false
	}
}

// Stop the limiter. Wait() must not be called after Stop().
func (lim *FpsLimiter) Stop() {
	close(lim.stop)
}
