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

// Package transfer implements C7: the put/get/replicate/copy/move
// orchestrator, its recursion and error/cancellation policy, and the
// progress-reporting control block.
package transfer

// Operation names one of the five top-level transfer kinds.
type Operation int

const (
	OpPut Operation = iota
	OpGet
	OpReplicate
	OpCopy
	OpMove
)

func (o Operation) String() string {
	switch o {
	case OpPut:
		return "PUT"
	case OpGet:
		return "GET"
	case OpReplicate:
		return "REPLICATE"
	case OpCopy:
		return "COPY"
	case OpMove:
		return "MOVE"
	}
	return "UNKNOWN"
}

// State is a Status event's lifecycle stage.
type State int

const (
	StateOverallInitiation State = iota
	StateInProgress
	StateOverallCompletion
	StateFailure
	StateSuccess
	StateRestarting
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateOverallInitiation:
		return "OVERALL_INITIATION"
	case StateInProgress:
		return "IN_PROGRESS"
	case StateOverallCompletion:
		return "OVERALL_COMPLETION"
	case StateFailure:
		return "FAILURE"
	case StateSuccess:
		return "SUCCESS"
	case StateRestarting:
		return "RESTARTING"
	case StateCancelled:
		return "CANCELLED"
	}
	return "UNKNOWN"
}

// Status is one progress snapshot published to a Listener.
type Status struct {
	Operation      Operation
	Source         string
	Target         string
	TargetResource string

	BytesSoFar  int64
	BytesTotal  int64
	FilesSoFar  int64
	FilesTotal  int64

	State State

	ServerHost string
	ServerZone string

	Err error
}

// Listener receives Status events. Implementations must be safe for
// concurrent invocation: the parallel phase (C8) fires progress from
// multiple worker goroutines, and the orchestrator never serializes
// calls on the caller's behalf (doing so would defeat the point of the
// parallel phase).
type Listener func(Status)
