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

package parallel

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"sync"

	multierror "github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	errors "github.com/nabbar/irodsgo/errors"
	security "github.com/nabbar/irodsgo/security"
	wire "github.com/nabbar/irodsgo/wire"
)

// Conn is the minimal surface Engine needs from the primary control
// connection: just enough to send the closing OprComplete handshake.
// Engine does not import conn, the same local-interface seam fs and
// transfer use to avoid a dependency on the connection package.
type Conn interface {
	Send(ctx context.Context, req wire.PackInstruction) (wire.PackInstruction, error)
}

// ProgressSink is the minimal surface Engine needs from a transfer's
// control block: a cancellation check and a byte counter. Defined here
// (not imported from package transfer) so parallel has no dependency on
// transfer, even though transfer depends on parallel — breaking what
// would otherwise be an import cycle, mirroring account.Handle/
// account.Dialer's relationship with conn.Handle.
type ProgressSink interface {
	Cancelled() bool
	AddBytes(int64)
	Cancel()
}

// localFile is the random-access surface Engine needs from the local
// side of a transfer; satisfied by *os.File.
type localFile interface {
	io.ReaderAt
	io.WriterAt
}

// Engine runs the N-way concurrent data-stream phase of a transfer
// (spec.md §4.7). BufferBoundary caps how often ProgressSink.AddBytes is
// allowed to trigger a listener-visible event upstream; Engine itself
// just reports every chunk it moves, matching PipelineConfig's
// InternalCacheBufferSize by construction of the chunk size workers use.
type Engine struct {
	ChunkSize int64
}

// NewEngine builds an Engine that reads/writes chunkSize bytes per frame
// (normally PipelineConfig.InternalCacheBufferSize).
func NewEngine(chunkSize int64) *Engine {
	if chunkSize <= 0 {
		chunkSize = 4 * 1024 * 1024
	}
	return &Engine{ChunkSize: chunkSize}
}

func (e *Engine) spans(n int, length int64) []struct{ offset, length int64 } {
	spans := make([]struct{ offset, length int64 }, n)
	base := length / int64(n)
	var off int64
	for i := 0; i < n; i++ {
		spans[i].offset = off
		if i == n-1 {
			spans[i].length = length - off
		} else {
			spans[i].length = base
		}
		off += spans[i].length
	}
	return spans
}

func (e *Engine) threadCount(endpoints []string, want int) int {
	n := len(endpoints)
	if want > 0 && want < n {
		n = want
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Put sends local[0:length] to the server across endpoints, partitioning
// the file into one contiguous span per worker.
func (e *Engine) Put(ctx context.Context, conn Conn, cookie string, endpoints []string, key []byte, local localFile, length int64, threadCount int, cb ProgressSink) error {
	if len(endpoints) == 0 {
		return ErrNoEndpoints.Error(nil)
	}

	n := e.threadCount(endpoints, threadCount)
	spans := e.spans(n, length)

	if err := e.runWorkers(ctx, endpoints, n, cb, func(ctx context.Context, conn net.Conn, i int) error {
		return e.putWorker(ctx, conn, cookie, key, local, spans[i].offset, spans[i].length, cb)
	}); err != nil {
		return err
	}

	return e.finish(ctx, conn)
}

// Get receives the server's data object into local, writing each worker's
// span at its declared offset.
func (e *Engine) Get(ctx context.Context, conn Conn, cookie string, endpoints []string, key []byte, local localFile, length int64, threadCount int, cb ProgressSink) error {
	if len(endpoints) == 0 {
		return ErrNoEndpoints.Error(nil)
	}

	n := e.threadCount(endpoints, threadCount)

	if err := e.runWorkers(ctx, endpoints, n, cb, func(ctx context.Context, conn net.Conn, i int) error {
		return e.getWorker(ctx, conn, cookie, key, local, cb)
	}); err != nil {
		return err
	}

	return e.finish(ctx, conn)
}

func (e *Engine) runWorkers(ctx context.Context, endpoints []string, n int, cb ProgressSink, work func(ctx context.Context, conn net.Conn, i int) error) error {
	grp, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(n))

	var (
		mu  sync.Mutex
		agg *multierror.Error
	)

	for i := 0; i < n; i++ {
		i := i
		if err := sem.Acquire(gctx, 1); err != nil {
			return ErrWorker.ErrorParent(err)
		}

		grp.Go(func() error {
			defer sem.Release(1)

			if cb.Cancelled() {
				return nil
			}

			sock, derr := net.Dial("tcp", endpoints[i])
			if derr != nil {
				mu.Lock()
				agg = multierror.Append(agg, derr)
				mu.Unlock()
				// A peer dial failure leaves the transfer unrecoverable
				// (spec.md §4.7): signal the other workers to stop at
				// their next frame boundary instead of running to
				// completion against a doomed transfer.
				cb.Cancel()
				return ErrDial.ErrorParent(derr)
			}
			defer sock.Close()

			if werr := work(gctx, sock, i); werr != nil {
				mu.Lock()
				agg = multierror.Append(agg, werr)
				mu.Unlock()
				cb.Cancel()
				return werr
			}
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return ErrWorker.ErrorParent(agg)
	}
	return nil
}

func (e *Engine) putWorker(ctx context.Context, sock net.Conn, cookie string, key []byte, local localFile, offset, length int64, cb ProgressSink) error {
	if err := e.negotiateCookie(sock, cookie); err != nil {
		return err
	}

	_, w, cerr := wrapCipher(sock, key)
	if cerr != nil {
		return cerr
	}

	sr := io.NewSectionReader(local, offset, length)
	buf := make([]byte, e.ChunkSize)

	for remaining := length; remaining > 0; {
		if cb.Cancelled() {
			return nil
		}

		toRead := e.ChunkSize
		if remaining < toRead {
			toRead = remaining
		}

		nRead, rerr := io.ReadFull(sr, buf[:toRead])
		if rerr != nil && rerr != io.ErrUnexpectedEOF {
			return ErrFrame.ErrorParent(rerr)
		}

		if werr := writeFrame(w, flagData, offset, buf[:nRead]); werr != nil {
			return werr
		}

		cb.AddBytes(int64(nRead))
		offset += int64(nRead)
		remaining -= int64(nRead)
	}

	return writeFrame(w, flagDone, offset, nil)
}

func (e *Engine) getWorker(ctx context.Context, sock net.Conn, cookie string, key []byte, local localFile, cb ProgressSink) error {
	if err := e.negotiateCookie(sock, cookie); err != nil {
		return err
	}

	r, _, cerr := wrapCipher(sock, key)
	if cerr != nil {
		return cerr
	}

	for {
		if cb.Cancelled() {
			return nil
		}

		flag, offset, payload, err := readFrame(r)
		if err != nil {
			return err
		}
		if flag == flagDone {
			return nil
		}

		if _, werr := local.WriteAt(payload, offset); werr != nil {
			return ErrFrame.ErrorParent(werr)
		}
		cb.AddBytes(int64(len(payload)))
	}
}

// negotiateCookie sends the per-socket handshake (cookie string,
// length-prefixed) that lets the server associate this auxiliary socket
// with the parallel operation it already agreed to with the control
// connection.
func (e *Engine) negotiateCookie(sock net.Conn, cookie string) errors.Error {
	b := []byte(cookie)
	hdr := make([]byte, 4)
	binary.BigEndian.PutUint32(hdr, uint32(len(b)))
	if _, err := sock.Write(hdr); err != nil {
		return ErrDial.ErrorParent(err)
	}
	if _, err := sock.Write(b); err != nil {
		return ErrDial.ErrorParent(err)
	}
	return nil
}

func (e *Engine) finish(ctx context.Context, conn Conn) error {
	_, err := conn.Send(ctx, &wire.OprComplete{Status: 0})
	if err != nil {
		return ErrOprComplete.ErrorParent(err)
	}
	return nil
}

// wrapCipher wraps a raw socket reader/writer pair with the session's
// AES-CBC framing when key is non-nil (spec.md §4.4/§4.7: "each socket
// may be wrapped by the AES layer").
func wrapCipher(sock net.Conn, key []byte) (io.Reader, io.Writer, errors.Error) {
	if key == nil {
		return sock, sock, nil
	}

	r, err := security.NewCBCReader(sock, key)
	if err != nil {
		return nil, nil, err
	}
	w, err := security.NewCBCWriter(sock, key)
	if err != nil {
		return nil, nil, err
	}
	return r, w, nil
}
