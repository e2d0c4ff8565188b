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

package auth

import (
	"context"
	"crypto/md5"

	account "github.com/nabbar/irodsgo/account"
	errors "github.com/nabbar/irodsgo/errors"
	wire "github.com/nabbar/irodsgo/wire"
)

// Conn is the minimal surface a Scheme needs from a connection handle: the
// request/response cadence. It is satisfied by *conn.Handle; auth cannot
// import conn directly since conn imports auth to drive its handshake.
type Conn interface {
	Send(ctx context.Context, req wire.PackInstruction) (wire.PackInstruction, error)
}

// CredentialSink lets a Scheme (PAM) stash a server-issued short-lived
// password on the handle rather than mutating the immutable Account.
type CredentialSink interface {
	SetDerivedPassword(pw string)
}

// Scheme authenticates an already-negotiated connection for one account.
type Scheme interface {
	Authenticate(ctx context.Context, c Conn, acc account.Account) errors.Error
}

// ForScheme resolves the Scheme implementation for an account.AuthScheme.
func ForScheme(s account.AuthScheme) Scheme {
	switch s {
	case account.SchemePAM:
		return PAM{}
	case account.SchemeGSI:
		return GSI{}
	case account.SchemeKerberos:
		return Kerberos{}
	case account.SchemeAnonymous:
		return Anonymous{}
	default:
		return Native{}
	}
}

// Native runs the classic challenge/response: the server sends a challenge,
// the client answers with MD5(challenge || password). The algorithm is
// mandated by the iRODS wire protocol, not a design choice open to
// substitution, which is why it is the one stdlib-crypto use in this
// package that is never swapped for a third-party library.
type Native struct{}

func (Native) Authenticate(ctx context.Context, c Conn, acc account.Account) errors.Error {
	return nativeChallenge(ctx, c, acc.User, acc.Password)
}

func nativeChallenge(ctx context.Context, c Conn, user, password string) errors.Error {
	resp, err := c.Send(ctx, &wire.AuthRequest{})
	if err != nil {
		return ErrAuthFailed.ErrorParent(err)
	}

	ar, ok := resp.(*wire.AuthResponse)
	if !ok {
		return ErrAuthFailed.Error(nil)
	}

	sum := md5.Sum([]byte(ar.Challenge + password))
	hashed := string(sum[:])

	final, err := c.Send(ctx, &wire.AuthResponse{Challenge: ar.Challenge, Response: hashed, User: user})
	if err != nil {
		return ErrAuthFailed.ErrorParent(err)
	}

	if fr, ok := final.(*wire.AuthResponse); !ok || fr.ExtraKV["status"] == "fail" {
		return ErrAuthFailed.Error(nil)
	}

	return nil
}

// PAM sends user/password/TTL over the already-encrypted channel, receives
// a short-lived native password, stores it on the handle's credential
// cell, then runs Native with that derived password.
type PAM struct{}

func (PAM) Authenticate(ctx context.Context, c Conn, acc account.Account) errors.Error {
	resp, err := c.Send(ctx, &wire.PamAuthRequest{User: acc.User, Password: acc.Password, TTL: 1})
	if err != nil {
		return ErrAuthFailed.ErrorParent(err)
	}

	ar, ok := resp.(*wire.AuthResponse)
	if !ok {
		return ErrAuthFailed.Error(nil)
	}

	derived := ar.Response
	if sink, ok := c.(CredentialSink); ok {
		sink.SetDerivedPassword(derived)
	}

	return nativeChallenge(ctx, c, acc.User, derived)
}

// GSI honors the negotiation boundary (it issues the correct
// pack-instructions) but the external credential exchange itself is out of
// scope per the purpose/scope Non-goals, so it reports ErrNotSupported
// instead of silently no-op'ing.
type GSI struct{}

func (GSI) Authenticate(ctx context.Context, c Conn, acc account.Account) errors.Error {
	return ErrNotSupported.Error(nil)
}

// Kerberos mirrors GSI: boundary honored, inner credential loop out of
// scope.
type Kerberos struct{}

func (Kerberos) Authenticate(ctx context.Context, c Conn, acc account.Account) errors.Error {
	return ErrNotSupported.Error(nil)
}

// Anonymous skips the challenge entirely.
type Anonymous struct{}

func (Anonymous) Authenticate(ctx context.Context, c Conn, acc account.Account) errors.Error {
	return nil
}
