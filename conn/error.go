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

import errors "github.com/nabbar/irodsgo/errors"

const (
	ErrNetworkTimeout errors.CodeError = iota + errors.MinPkgIrodsConn
	ErrProtocol
	ErrInvalidState
	ErrClosed
	ErrNetworkFailure
	ErrNotFound
	ErrAlreadyExists
	ErrPermissionDenied
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrNetworkTimeout)
	errors.RegisterIdFctMessage(ErrNetworkTimeout, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case ErrNetworkTimeout:
		return "network deadline exceeded"
	case ErrProtocol:
		return "unexpected response from server"
	case ErrInvalidState:
		return "operation not valid in the handle's current state"
	case ErrClosed:
		return "handle is closed"
	case ErrNetworkFailure:
		return "network connection failed"
	case ErrNotFound:
		return "server reports path does not exist"
	case ErrAlreadyExists:
		return "server reports path already exists"
	case ErrPermissionDenied:
		return "server denied access to path"
	}

	return ""
}
