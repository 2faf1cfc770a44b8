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

package limiter_test

import (
	"testing"
	"time"

	"github.com/jetsetilly/gopherds/performance/limiter"
	"github.com/jetsetilly/gopherds/test"
)

func TestLimiter(t *testing.T) {
	lim := limiter.NewFPSLimiter(100)
	defer lim.Stop()

	// first tick is available immediately
	lim.Wait()

	start := time.Now()
	for i := 0; i < 10; i++ {
		lim.Wait()
	}
	elapsed := time.Since(start)

	// ten frames at 100fps is 100ms. the upper bound is generous because of
	// scheduling on busy machines
	test.ExpectSuccess(t, elapsed >= 80*time.Millisecond)
	test.ExpectSuccess(t, elapsed < time.Second)

	lim.SetLimit(1)
	lim.Wait()
	test.ExpectFailure(t, lim.HasWaited())
}
