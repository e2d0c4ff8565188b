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

// Package parallel implements C8: the N-way concurrent data-stream engine
// a transfer is handed off to once the server returns a parallel port
// list, plus the OprComplete handshake that releases it.
package parallel

import errors "github.com/nabbar/irodsgo/errors"

const (
	ErrDial errors.CodeError = iota + errors.MinPkgIrodsParallel
	ErrFrame
	ErrWorker
	ErrOprComplete
	ErrNoEndpoints
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrDial)
	errors.RegisterIdFctMessage(ErrDial, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case ErrDial:
		return "failed to dial a parallel transfer endpoint"
	case ErrFrame:
		return "malformed parallel transfer frame"
	case ErrWorker:
		return "one or more parallel transfer workers failed"
	case ErrOprComplete:
		return "failed to send OprComplete after parallel transfer"
	case ErrNoEndpoints:
		return "server returned no parallel transfer endpoints"
	}

	return ""
}
