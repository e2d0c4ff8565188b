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

// Package auth implements the capability negotiation matrix and the
// pluggable authentication schemes dispatched by account.AuthScheme.
package auth

import errors "github.com/nabbar/irodsgo/errors"

// Policy is a client or server SSL negotiation stance.
type Policy int

const (
	Require Policy = iota
	DontCare
	Refuse
)

// Negotiate implements the client/server SSL negotiation matrix exactly:
//
//	            REQUIRE   DONT_CARE   REFUSE
//	REQUIRE     SSL       SSL         fail
//	DONT_CARE   SSL       no SSL      no SSL
//	REFUSE      fail      no SSL      no SSL
func Negotiate(client, server Policy) (useSSL bool, err errors.Error) {
	switch client {
	case Require:
		if server == Refuse {
			return false, ErrNegotiation.Error(nil)
		}
		return true, nil
	case DontCare:
		return server == Require, nil
	case Refuse:
		if server == Require {
			return false, ErrNegotiation.Error(nil)
		}
		return false, nil
	default:
		return false, ErrNegotiation.Error(nil)
	}
}
