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

package account

import (
	"context"
	"sync"
	"time"

	libcch "github.com/nabbar/irodsgo/cache"
	errors "github.com/nabbar/irodsgo/errors"
)

// Handle is the minimal surface Registry needs from a connection handle.
// It is satisfied by *conn.Handle; Registry is decoupled from the conn
// package (which itself depends on account) to avoid an import cycle,
// the same dependency-injection shape ftpclient.Config uses for its
// context provider.
type Handle interface {
	Disconnect(ctx context.Context) error
}

// Dialer opens a new connection handle for an account, the seam Registry
// calls into instead of importing package conn directly.
type Dialer func(ctx context.Context, acc Account, cfg *PipelineConfig) (Handle, error)

// Lease is the explicit ownership token a caller holds between Acquire and
// Release. Go has no stable OS-thread identity to key a registry on (the
// source's "attach handle to calling thread" idiom), so Lease models that
// same exclusive-ownership contract as a value the caller passes back.
type Lease struct {
	key Key
}

// Registry is the process-wide mapping from account identity to live
// connection handles, handing out one handle per (account, lease) pair and
// never sharing one, mirroring spec's "full parallelism across handles,
// strict serialization within one handle" concurrency model.
type Registry struct {
	mu      sync.Mutex
	dial    Dialer
	cfg     *PipelineConfig
	handles map[Key]map[*Lease]Handle
	cache   libcch.Cache[Key, AuthScheme]
	closed  bool
}

// NewRegistry builds a Registry that dials new handles through dial and
// applies cfg (account.Default() if nil) to each of them.
func NewRegistry(dial Dialer, cfg *PipelineConfig) *Registry {
	if cfg == nil {
		cfg = Default()
	}

	return &Registry{
		dial:    dial,
		cfg:     cfg,
		handles: make(map[Key]map[*Lease]Handle),
		cache:   libcch.New[Key, AuthScheme](context.Background(), 30*time.Minute),
	}
}

// Acquire dials (or, when a matching lease already exists, panics rather
// than silently reusing — see note below) a new handle for acc and returns
// it together with the Lease the caller must pass to Release.
func (r *Registry) Acquire(ctx context.Context, acc Account) (Handle, *Lease, errors.Error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, nil, ErrorRegistryClosed.Error(nil)
	}
	r.mu.Unlock()

	h, err := r.dial(ctx, acc, r.cfg)
	if err != nil {
		return nil, nil, ErrorValidatorError.Error(err)
	}

	l := &Lease{key: acc.Key()}

	r.mu.Lock()
	if r.handles[l.key] == nil {
		r.handles[l.key] = make(map[*Lease]Handle)
	}
	r.handles[l.key][l] = h
	r.mu.Unlock()

	if scheme, _, ok := r.cache.Load(l.key); ok {
		_ = scheme // negotiated scheme cached from a prior acquisition; informational only
	}
	r.cache.Store(l.key, acc.Scheme)

	return h, l, nil
}

// Release disconnects and forgets the handle bound to l. It is a no-op if
// l is unknown (already released), matching conn.Handle.Disconnect's own
// idempotence.
func (r *Registry) Release(ctx context.Context, l *Lease) errors.Error {
	r.mu.Lock()
	byLease, ok := r.handles[l.key]
	if !ok {
		r.mu.Unlock()
		return nil
	}
	h, ok := byLease[l]
	delete(byLease, l)
	if len(byLease) == 0 {
		delete(r.handles, l.key)
	}
	r.mu.Unlock()

	if !ok {
		return nil
	}

	if err := h.Disconnect(ctx); err != nil {
		return ErrorUnknownHandle.ErrorParent(err)
	}
	return nil
}

// Shutdown closes every live handle, the registry teardown path.
func (r *Registry) Shutdown(ctx context.Context) errors.Error {
	r.mu.Lock()
	r.closed = true
	all := r.handles
	r.handles = make(map[Key]map[*Lease]Handle)
	r.mu.Unlock()

	e := ErrorRegistryClosed.Error(nil)
	for _, byLease := range all {
		for _, h := range byLease {
			if err := h.Disconnect(ctx); err != nil {
				e.Add(err)
			}
		}
	}

	if !e.HasParent() {
		return nil
	}
	return e
}
