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

// Package security implements C5: the TLS upgrade of the control channel,
// PBKDF2 session-key derivation, and the AES-CBC framed cipher applied to
// parallel data streams.
package security

import (
	"crypto/tls"

	libtls "github.com/nabbar/irodsgo/certificates"
	errors "github.com/nabbar/irodsgo/errors"
)

// NewTLSConfig builds the tls.Config used to upgrade the control socket
// once negotiation selects SSL. cfg is the client-dial subset of
// certificates.Config (root CAs, client certs, min/max protocol version,
// cipher list); mutual-auth *server*-side fields (ClientCA, AuthClient) are
// simply left at their zero value — this is always the dialing side of the
// connection. A nil cfg falls back to certificates.Default.
func NewTLSConfig(cfg *libtls.Config, serverName string) (*tls.Config, errors.Error) {
	if cfg == nil {
		cfg = &libtls.Config{InheritDefault: true}
	}

	if err := cfg.Validate(); err != nil {
		return nil, ErrTLSConfig.ErrorParent(err)
	}

	return cfg.New().TlsConfig(serverName), nil
}
