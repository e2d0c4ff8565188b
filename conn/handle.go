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

// Package conn drives a single iRODS control connection through its full
// lifecycle: dial, SSL negotiation, authentication, and the request/response
// and bulk-stream cadence used once the handle is Ready.
package conn

import (
	"bufio"
	"context"
	"crypto/tls"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	libuid "github.com/google/uuid"

	account "github.com/nabbar/irodsgo/account"
	auth "github.com/nabbar/irodsgo/auth"
	errors "github.com/nabbar/irodsgo/errors"
	security "github.com/nabbar/irodsgo/security"
	wire "github.com/nabbar/irodsgo/wire"
)

// Handle owns one TCP (or TLS-upgraded) control connection to an iRODS
// server: its buffered I/O, negotiated security.Session, and the state
// machine guarding which operations are legal at any given moment.
type Handle struct {
	mu  sync.Mutex
	id  string
	cfg *account.PipelineConfig
	acc account.Account

	conn    net.Conn
	r       *bufio.Reader
	w       *bufio.Writer
	state   State
	session *security.Session

	derivedPW string
}

// Connect dials host:port, runs SSL negotiation (C3), upgrades the socket
// when selected, derives the session key material, and authenticates using
// the scheme named on acc. The returned Handle is Ready.
func Connect(ctx context.Context, acc account.Account, cfg *account.PipelineConfig) (*Handle, error) {
	if cfg == nil {
		cfg = account.Default()
	}
	if err := acc.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var d net.Dialer
	raw, err := d.DialContext(ctx, "tcp", net.JoinHostPort(acc.Host, strconv.Itoa(acc.Port)))
	if err != nil {
		return nil, ErrNetworkTimeout.ErrorParent(err)
	}

	h := &Handle{
		id:    libuid.New().String(),
		cfg:   cfg,
		acc:   acc,
		conn:  raw,
		r:     bufio.NewReaderSize(raw, cfg.InternalInputStreamBufferSize),
		w:     bufio.NewWriterSize(raw, cfg.InternalOutputStreamBufferSize),
		state: StateNew,
	}

	h.state = StateNegotiating
	if err := h.negotiate(ctx); err != nil {
		_ = raw.Close()
		return nil, err
	}

	h.state = StateAuthenticating
	scheme := auth.ForScheme(acc.Scheme)
	if err := scheme.Authenticate(ctx, h, acc); err != nil {
		_ = h.conn.Close()
		h.state = StateClosed
		return nil, err
	}

	h.state = StateReady
	return h, nil
}

// Dial adapts Connect to the account.Dialer signature, ready to pass to
// account.NewRegistry: conn cannot be imported by account (account is
// imported by conn), so Registry is wired to this function value instead.
func Dial(ctx context.Context, acc account.Account, cfg *account.PipelineConfig) (account.Handle, error) {
	h, err := Connect(ctx, acc, cfg)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// negotiate runs the C3 SSL matrix, upgrades the socket when useSSL wins,
// and derives the session key material via security.Negotiate.
func (h *Handle) negotiate(ctx context.Context) errors.Error {
	clientPolicy := parsePolicy(h.cfg.SSLPolicy)

	startup := &wire.StartupPack{
		Zone: h.acc.Zone, User: h.acc.User, ProxyUser: h.acc.ProxyUser, ProxyZone: h.acc.ProxyZone,
		ExtraKV: map[string]string{"sslPolicy": string(h.cfg.SSLPolicy)},
	}

	resp, err := h.sendLocked(ctx, startup)
	if err != nil {
		return ErrProtocol.ErrorParent(err)
	}

	sp, ok := resp.(*wire.StartupPack)
	if !ok {
		return ErrProtocol.Error(nil)
	}

	serverPolicy := parsePolicy(sp.ExtraKV["sslPolicy"])
	useSSL, nerr := auth.Negotiate(clientPolicy, serverPolicy)
	if nerr != nil {
		return ErrProtocol.ErrorParent(nerr)
	}

	if useSSL {
		if _, err := h.sendLocked(ctx, &wire.SslStart{}); err != nil {
			return ErrProtocol.ErrorParent(err)
		}

		tlsCfg, terr := security.NewTLSConfig(nil, h.acc.Host)
		if terr != nil {
			return ErrProtocol.ErrorParent(terr)
		}

		tlsConn := tls.Client(h.conn, tlsCfg)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			return ErrProtocol.ErrorParent(err)
		}

		h.conn = tlsConn
		h.r = bufio.NewReaderSize(tlsConn, h.cfg.InternalInputStreamBufferSize)
		h.w = bufio.NewWriterSize(tlsConn, h.cfg.InternalOutputStreamBufferSize)
	}

	session, serr := security.Negotiate(useSSL, []byte(h.acc.Password), h.cfg.EncryptionAlgorithm, h.cfg.KeySize, h.cfg.SaltSize, h.cfg.HashRounds)
	if serr != nil {
		return ErrProtocol.ErrorParent(serr)
	}
	h.session = session

	return nil
}

func parsePolicy(s string) auth.Policy {
	switch s {
	case "REQUIRE":
		return auth.Require
	case "REFUSE":
		return auth.Refuse
	default:
		return auth.DontCare
	}
}

// Send issues one pack-instruction and waits for its matching response,
// serialized by Handle's mutex: only one request may be in flight at a
// time, per spec.md's strict-serialization-within-one-handle rule.
func (h *Handle) Send(ctx context.Context, req wire.PackInstruction) (wire.PackInstruction, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != StateReady && h.state != StateNegotiating && h.state != StateAuthenticating {
		return nil, ErrInvalidState.Error(nil)
	}

	wasReady := h.state == StateReady
	if wasReady {
		h.state = StateInUse
	}
	defer func() {
		if wasReady && h.state == StateInUse {
			h.state = StateReady
		}
	}()

	return h.sendLocked(ctx, req)
}

// sendLocked performs the actual write/read cycle; callers must already
// hold h.mu.
func (h *Handle) sendLocked(ctx context.Context, req wire.PackInstruction) (wire.PackInstruction, errors.Error) {
	if err := h.applyDeadline(ctx); err != nil {
		return nil, err
	}

	body, eerr := req.Encode()
	if eerr != nil {
		return nil, eerr
	}

	hdr := wire.NewHeader(req.Name(), uint32(len(body)), 0, 0, 0)
	if err := wire.WriteHeader(h.w, hdr); err != nil {
		return nil, h.classify(err)
	}
	if _, e := h.w.Write(body); e != nil {
		return nil, h.classify(ErrProtocol.ErrorParent(e))
	}
	if e := h.w.Flush(); e != nil {
		return nil, h.classify(ErrProtocol.ErrorParent(e))
	}

	respHdr, err := wire.ReadHeader(h.r)
	if err != nil {
		return nil, h.classify(err)
	}

	respBody := make([]byte, respHdr.MsgLen)
	if _, e := io.ReadFull(h.r, respBody); e != nil {
		return nil, h.classify(ErrProtocol.ErrorParent(e))
	}

	if respHdr.ErrorLen > 0 {
		errBlob := make([]byte, respHdr.ErrorLen)
		_, _ = io.ReadFull(h.r, errBlob)
		return nil, classifyStatus(respHdr.IntInfo, fmt.Errorf("server error: %s", string(errBlob)))
	}

	if respHdr.BsLen > 0 {
		bsBlob := make([]byte, respHdr.BsLen)
		if _, e := io.ReadFull(h.r, bsBlob); e != nil {
			return nil, h.classify(ErrProtocol.ErrorParent(e))
		}
	}

	// A negative IntInfo is the server's status code for the request,
	// independent of whether an error blob was also sent (per spec.md
	// §4.2/§7: non-zero server status is always a typed error, never
	// silently treated as success).
	if respHdr.IntInfo < 0 {
		return nil, classifyStatus(respHdr.IntInfo, nil)
	}

	resp, lerr := wire.Lookup(respHdr.Type, req.Version())
	if lerr != nil {
		return nil, lerr
	}
	if derr := resp.Decode(respBody); derr != nil {
		return nil, derr
	}

	return resp, nil
}

// StreamSend copies exactly n bytes from r onto the control connection,
// used for the single-buffer (non-parallel) bulk-blob path of a put.
func (h *Handle) StreamSend(ctx context.Context, r io.Reader, n int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.applyDeadline(ctx); err != nil {
		return err
	}
	if _, e := io.CopyN(h.w, r, n); e != nil {
		return h.classify(ErrProtocol.ErrorParent(e))
	}
	if e := h.w.Flush(); e != nil {
		return h.classify(ErrProtocol.ErrorParent(e))
	}
	return nil
}

// StreamRecv copies exactly n bytes from the control connection into w,
// the single-buffer counterpart of a get.
func (h *Handle) StreamRecv(ctx context.Context, w io.Writer, n int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.applyDeadline(ctx); err != nil {
		return err
	}
	if _, e := io.CopyN(w, h.r, n); e != nil {
		return h.classify(ErrProtocol.ErrorParent(e))
	}
	return nil
}

// Disconnect closes the underlying socket. Idempotent: a second call on an
// already-Closed handle is a no-op.
func (h *Handle) Disconnect(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == StateClosed {
		return nil
	}

	h.state = StateClosing
	err := h.conn.Close()
	h.state = StateClosed

	if err != nil {
		return ErrClosed.ErrorParent(err)
	}
	return nil
}

// SetDerivedPassword implements auth.CredentialSink: PAM stashes the
// server-issued short-lived native password here instead of mutating the
// immutable account.Account.
func (h *Handle) SetDerivedPassword(pw string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.derivedPW = pw
}

// State reports the handle's current lifecycle position.
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Identity returns the connected user and server endpoint, for URI
// rendering by consumers such as fs.Entity.
func (h *Handle) Identity() (user string, host string, port int) {
	return h.acc.User, h.acc.Host, h.acc.Port
}

// ID is the correlation id attached to this handle's log lines.
func (h *Handle) ID() string {
	return h.id
}

// Session exposes the negotiated security session so package parallel can
// derive matching AES-CBC ciphers for the data sockets it opens.
func (h *Handle) Session() *security.Session {
	return h.session
}

func (h *Handle) applyDeadline(ctx context.Context) errors.Error {
	deadline := time.Now().Add(time.Duration(h.cfg.SocketTimeout))
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := h.conn.SetDeadline(deadline); err != nil {
		return ErrNetworkTimeout.ErrorParent(err)
	}
	return nil
}

// classify promotes a timed-out or otherwise broken socket error to its
// typed class and forces the handle closed, per spec.md §4.2's
// deadline-exceeded / connection-lost rules.
func (h *Handle) classify(err errors.Error) errors.Error {
	if err == nil {
		return nil
	}

	var ne net.Error
	for _, p := range err.GetParent(true) {
		if stderrors.As(p, &ne) {
			h.state = StateClosing
			_ = h.conn.Close()
			h.state = StateClosed

			if ne.Timeout() {
				return ErrNetworkTimeout.ErrorParent(err)
			}
			return ErrNetworkFailure.ErrorParent(err)
		}
	}

	return err
}

// classifyStatus maps a negative iRODS server status (Header.IntInfo) to
// the connection-level error taxonomy. The exact boundaries below are
// grounded on spec.md's explicit -809000 "AlreadyExists and family"
// citation; codes outside the named families fall back to ErrProtocol,
// still a typed error rather than silent success.
func classifyStatus(status int32, parent error) errors.Error {
	if parent == nil {
		parent = fmt.Errorf("server status %d", status)
	}

	switch {
	case status <= -809000 && status > -810000:
		return ErrAlreadyExists.ErrorParent(parent)
	case status <= -808000 && status > -809000:
		return ErrNotFound.ErrorParent(parent)
	case status <= -818000 && status > -819000:
		return ErrPermissionDenied.ErrorParent(parent)
	default:
		return ErrProtocol.ErrorParent(parent)
	}
}
