/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package transfer

import (
	"sync"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// NewProgressBarListener returns a Listener that renders one mpb progress
// bar per distinct (Operation, Target) pair observed, advancing it from the
// Status events' byte counters. Intended as the default CLI-facing
// listener; bars are left in place once their owning transfer reaches a
// terminal state so a batch's final render still shows every file.
func NewProgressBarListener(p *mpb.Progress) Listener {
	var (
		mu   sync.Mutex
		bars = map[string]*mpb.Bar{}
	)

	return func(s Status) {
		if s.Target == "" {
			return
		}

		mu.Lock()
		defer mu.Unlock()

		bar, ok := bars[s.Target]
		if !ok {
			total := s.BytesTotal
			if total <= 0 {
				total = 1
			}
			bar = p.AddBar(total,
				mpb.PrependDecorators(decor.Name(s.Target)),
				mpb.AppendDecorators(decor.CountersKiloByte("% .2f / % .2f")),
			)
			bars[s.Target] = bar
		}

		switch s.State {
		case StateOverallCompletion, StateSuccess, StateFailure, StateCancelled:
			bar.SetCurrent(s.BytesTotal)
		default:
			bar.SetCurrent(s.BytesSoFar)
		}
	}
}
