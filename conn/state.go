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

package conn

// State is a Handle's position in the connection lifecycle.
type State int

const (
	StateNew State = iota
	StateNegotiating
	StateAuthenticating
	StateReady
	StateInUse
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "New"
	case StateNegotiating:
		return "Negotiating"
	case StateAuthenticating:
		return "Authenticating"
	case StateReady:
		return "Ready"
	case StateInUse:
		return "InUse"
	case StateClosing:
		return "Closing"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// validNext is the state machine's adjacency list, spec.md §4.2:
// New -> Negotiating -> Authenticating -> Ready <-> InUse -> Closing -> Closed.
var validNext = map[State]map[State]bool{
	StateNew:             {StateNegotiating: true, StateClosing: true},
	StateNegotiating:     {StateAuthenticating: true, StateClosing: true},
	StateAuthenticating:  {StateReady: true, StateClosing: true},
	StateReady:           {StateInUse: true, StateClosing: true},
	StateInUse:           {StateReady: true, StateClosing: true},
	StateClosing:         {StateClosed: true},
	StateClosed:          {},
}

// canTransition reports whether the from->to edge exists in the state
// machine; Closed is always reachable from any state that can reach
// Closing first, so illegal jumps (e.g. New straight to Ready) are
// rejected rather than silently allowed.
func canTransition(from, to State) bool {
	return validNext[from][to]
}
