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

package transfer

import (
	"context"
	"io"
	"os"
	"path/filepath"

	account "github.com/nabbar/irodsgo/account"
	libconn "github.com/nabbar/irodsgo/conn"
	errors "github.com/nabbar/irodsgo/errors"
	libfs "github.com/nabbar/irodsgo/fs"
	libpar "github.com/nabbar/irodsgo/parallel"
	wire "github.com/nabbar/irodsgo/wire"
)

// Conn is the minimal surface the orchestrator needs from a connection
// handle; satisfied by *conn.Handle. Reused as libfs.Conn so *conn.Handle
// only needs to implement one shape.
type Conn = libfs.Conn

// SessionKey is implemented by *security.Session; the orchestrator doesn't
// import security directly, keeping this package's cipher awareness to
// "does the connection have a key or not".
type SessionKey interface {
	Key() []byte
}

// Reconnect replaces an Orchestrator's connection after a transient
// network/timeout failure, per spec.md §4.6's recoverable-error policy.
// Orchestrator does not dial; callers that want the single-retry behavior
// supply this hook (typically wrapping conn.Dial against the same
// account.Account/PipelineConfig the original handle was opened with).
type Reconnect func(ctx context.Context) (Conn, error)

// Orchestrator runs C7's five public operations over one connection.
type Orchestrator struct {
	conn      Conn
	cfg       *account.PipelineConfig
	session   SessionKey
	engine    *libpar.Engine
	reconnect Reconnect
}

// NewOrchestrator builds an Orchestrator bound to conn; cfg supplies the
// single-buffer threshold, parallel thread count, and chunk size defaults;
// session (optional) is consulted for the AES key wrapping parallel
// sockets (spec.md §4.4/§4.7).
func NewOrchestrator(conn Conn, cfg *account.PipelineConfig, session SessionKey) *Orchestrator {
	chunk := 0
	if cfg != nil {
		chunk = cfg.InternalCacheBufferSize
	}
	return &Orchestrator{
		conn:    conn,
		cfg:     cfg,
		session: session,
		engine:  libpar.NewEngine(int64(chunk)),
	}
}

func (o *Orchestrator) entity(p libfs.Path) *libfs.Entity {
	return libfs.NewEntity(o.conn, p, nil)
}

// SetReconnect installs the hook Orchestrator calls once to re-establish
// its connection after a transient network/timeout failure.
func (o *Orchestrator) SetReconnect(r Reconnect) {
	o.reconnect = r
}

// isTransient reports whether err belongs to the recoverable classes
// spec.md §4.6 names for retry: transient network failure or timeout.
func isTransient(err errors.Error) bool {
	if err == nil {
		return false
	}
	return errors.Has(err, libconn.ErrNetworkTimeout) || errors.Has(err, libconn.ErrNetworkFailure)
}

// withRetry runs fn once, and if it fails with a recoverable error and a
// Reconnect hook is installed, reconnects and retries fn exactly once
// more (spec.md §4.6: "retry once after reconnect").
func (o *Orchestrator) withRetry(ctx context.Context, fn func() errors.Error) errors.Error {
	err := fn()
	if err == nil || o.reconnect == nil || !isTransient(err) {
		return err
	}

	nc, rerr := o.reconnect(ctx)
	if rerr != nil {
		return err
	}
	o.conn = nc

	return fn()
}

func (o *Orchestrator) threshold() int64 {
	if o.cfg != nil && o.cfg.SingleBufferThreshold > 0 {
		return o.cfg.SingleBufferThreshold
	}
	return 32 * 1024 * 1024
}

func (o *Orchestrator) sessionKey() []byte {
	if o.session == nil {
		return nil
	}
	return o.session.Key()
}

func (o *Orchestrator) control(cb *ControlBlock) *ControlBlock {
	if cb != nil {
		return cb
	}
	return NewControlBlock(nil, o.cfg)
}

func emit(l Listener, s Status) {
	if l != nil {
		l(s)
	}
}

// Put transfers local (a path on the host filesystem) to remote, recursing
// when local is a directory, per spec.md §4.6's recursion policy.
func (o *Orchestrator) Put(ctx context.Context, local string, remote libfs.Path, l Listener, cb *ControlBlock) errors.Error {
	cb = o.control(cb)

	fi, serr := os.Stat(local)
	if serr != nil {
		return ErrLocalIO.ErrorParent(serr)
	}

	if !fi.IsDir() {
		dst := o.normalizePutTarget(ctx, remote, filepath.Base(local))
		cb.SetTotals(1, fi.Size())
		emit(l, Status{Operation: OpPut, Source: local, Target: dst.String(), FilesTotal: 1, BytesTotal: fi.Size(), State: StateOverallInitiation})

		if err := o.putSingle(ctx, local, fi.Size(), dst, l, cb, true); err != nil {
			emit(l, Status{Operation: OpPut, State: StateFailure, Err: err})
			return err
		}
		emit(l, Status{Operation: OpPut, Source: local, Target: dst.String(), State: StateOverallCompletion})
		return nil
	}

	files, total, werr := walkLocalTree(local)
	if werr != nil {
		return ErrLocalIO.ErrorParent(werr)
	}
	cb.SetTotals(int64(len(files)), total)
	emit(l, Status{Operation: OpPut, Source: local, Target: remote.String(), FilesTotal: int64(len(files)), BytesTotal: total, State: StateOverallInitiation})

	targetRoot := remote.Join(filepath.Base(filepath.Clean(local)))
	if err := o.entity(targetRoot).Mkdir(ctx, true); err != nil {
		emit(l, Status{Operation: OpPut, State: StateFailure, Err: err})
		return err
	}

	for _, f := range files {
		if cb.Cancelled() {
			emit(l, Status{Operation: OpPut, State: StateCancelled})
			return ErrCancelled.Error(nil)
		}

		rel, _ := filepath.Rel(local, f.path)
		dst := targetRoot.Join(filepath.ToSlash(rel))

		if !dst.Parent().Equal(targetRoot) {
			if err := o.entity(dst.Parent()).Mkdir(ctx, true); err != nil {
				cb.FileFailed()
				emit(l, Status{Operation: OpPut, Source: f.path, Target: dst.String(), State: StateFailure, Err: err})
				if cb.Options.ErrorPolicy == FailFast {
					return err
				}
				continue
			}
		}

		if err := o.putSingle(ctx, f.path, f.size, dst, l, cb, false); err != nil {
			cb.FileFailed()
			emit(l, Status{Operation: OpPut, Source: f.path, Target: dst.String(), State: StateFailure, Err: err})
			if cb.Options.ErrorPolicy == FailFast {
				return err
			}
			continue
		}
		cb.FileDone()
	}

	emit(l, Status{Operation: OpPut, Source: local, Target: remote.String(), State: StateOverallCompletion})
	return nil
}

// normalizePutTarget implements the "put file -> existing directory"
// tie-break: when target already names a directory, the source leaf is
// appended.
func (o *Orchestrator) normalizePutTarget(ctx context.Context, target libfs.Path, leaf string) libfs.Path {
	if isDir, _ := o.entity(target).IsDir(ctx); isDir {
		return target.Join(leaf)
	}
	return target
}

func (o *Orchestrator) putSingle(ctx context.Context, localPath string, size int64, remote libfs.Path, l Listener, cb *ControlBlock, standalone bool) errors.Error {
	if cb.Cancelled() {
		return ErrCancelled.Error(nil)
	}

	e := o.entity(remote)

	err := o.withRetry(ctx, func() errors.Error {
		return o.putSingleAttempt(ctx, localPath, size, e, cb)
	})
	if err != nil {
		return err
	}

	if standalone {
		emit(l, Status{Operation: OpPut, Source: localPath, Target: remote.String(), BytesSoFar: size, BytesTotal: size, FilesSoFar: 1, FilesTotal: 1, State: StateSuccess})
	} else {
		emit(l, Status{Operation: OpPut, Source: localPath, Target: remote.String(), BytesSoFar: size, State: StateSuccess})
	}
	return nil
}

// putSingleAttempt runs one end-to-end pass of a single-file put; it is
// the unit withRetry repeats after a reconnect.
func (o *Orchestrator) putSingleAttempt(ctx context.Context, localPath string, size int64, e *libfs.Entity, cb *ControlBlock) errors.Error {
	f, oerr := os.Open(localPath)
	if oerr != nil {
		return ErrLocalIO.ErrorParent(oerr)
	}
	defer f.Close()

	if size <= o.threshold() {
		if err := e.Open(ctx, libfs.OpenCreate); err != nil {
			return err
		}
		defer e.Close(ctx)

		buf := make([]byte, size)
		if _, err := io.ReadFull(f, buf); err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return ErrLocalIO.ErrorParent(err)
		}
		if _, err := e.Write(ctx, buf); err != nil {
			return err
		}
		cb.AddBytes(size)
		return nil
	}

	return o.parallelPut(ctx, e, f, size, cb)
}

func (o *Orchestrator) parallelPut(ctx context.Context, e *libfs.Entity, local *os.File, size int64, cb *ControlBlock) errors.Error {
	if err := e.Open(ctx, libfs.OpenCreate); err != nil {
		return err
	}
	defer e.Close(ctx)

	resp, perr := o.conn.Send(ctx, &wire.OpenDataObj{Path: e.Path().String(), ParallelHint: true})
	if perr != nil {
		return ErrTransport.ErrorParent(perr)
	}
	portal, ok := resp.(*wire.PortalOprOut)
	if !ok {
		return ErrTransport.Error(nil)
	}

	threads := threadWant(cb.Options.ParallelThreadCount, portal.NumThread)
	if gerr := o.engine.Put(ctx, o.conn, portal.Cookie, portal.Endpoints, o.sessionKey(), local, size, threads, cb); gerr != nil {
		return ErrTransport.ErrorParent(gerr)
	}
	return nil
}

// Get transfers remote to local, recursing when remote is a collection.
func (o *Orchestrator) Get(ctx context.Context, remote libfs.Path, local string, l Listener, cb *ControlBlock) errors.Error {
	cb = o.control(cb)
	e := o.entity(remote)

	isDir, serr := e.IsDir(ctx)
	if serr != nil {
		return serr
	}

	if !isDir {
		length, lerr := e.Length(ctx)
		if lerr != nil {
			return lerr
		}
		dst := local
		if fi, err := os.Stat(local); err == nil && fi.IsDir() {
			dst = filepath.Join(local, remote.Leaf())
		}
		cb.SetTotals(1, length)
		emit(l, Status{Operation: OpGet, Source: remote.String(), Target: dst, FilesTotal: 1, BytesTotal: length, State: StateOverallInitiation})

		if err := o.getSingle(ctx, e, length, dst, l, cb); err != nil {
			emit(l, Status{Operation: OpGet, State: StateFailure, Err: err})
			return err
		}
		emit(l, Status{Operation: OpGet, Source: remote.String(), Target: dst, State: StateOverallCompletion})
		return nil
	}

	return o.getRecursive(ctx, e, filepath.Join(local, remote.Leaf()), l, cb)
}

func (o *Orchestrator) getRecursive(ctx context.Context, e *libfs.Entity, localRoot string, l Listener, cb *ControlBlock) errors.Error {
	if cb.Cancelled() {
		emit(l, Status{Operation: OpGet, State: StateCancelled})
		return ErrCancelled.Error(nil)
	}

	if err := os.MkdirAll(localRoot, 0o755); err != nil {
		return ErrLocalIO.ErrorParent(err)
	}

	children, err := e.ListChildren(ctx)
	if err != nil {
		return err
	}

	for _, c := range children {
		if cb.Cancelled() {
			emit(l, Status{Operation: OpGet, State: StateCancelled})
			return ErrCancelled.Error(nil)
		}

		isDir, derr := c.IsDir(ctx)
		if derr != nil {
			cb.FileFailed()
			if cb.Options.ErrorPolicy == FailFast {
				return derr
			}
			continue
		}

		dst := filepath.Join(localRoot, c.Path().Leaf())
		if isDir {
			if err := o.getRecursive(ctx, c, dst, l, cb); err != nil && cb.Options.ErrorPolicy == FailFast {
				return err
			}
			continue
		}

		length, lerr := c.Length(ctx)
		if lerr != nil {
			cb.FileFailed()
			if cb.Options.ErrorPolicy == FailFast {
				return lerr
			}
			continue
		}

		if err := o.getSingle(ctx, c, length, dst, l, cb); err != nil {
			cb.FileFailed()
			emit(l, Status{Operation: OpGet, Source: c.Path().String(), Target: dst, State: StateFailure, Err: err})
			if cb.Options.ErrorPolicy == FailFast {
				return err
			}
			continue
		}
		cb.FileDone()
	}
	return nil
}

func (o *Orchestrator) getSingle(ctx context.Context, e *libfs.Entity, length int64, dst string, l Listener, cb *ControlBlock) errors.Error {
	if cb.Cancelled() {
		return ErrCancelled.Error(nil)
	}

	if err := o.withRetry(ctx, func() errors.Error {
		return o.getSingleAttempt(ctx, e, length, dst, cb)
	}); err != nil {
		return err
	}

	emit(l, Status{Operation: OpGet, Target: dst, BytesSoFar: length, State: StateSuccess})
	return nil
}

// getSingleAttempt runs one end-to-end pass of a single-file get; it is
// the unit withRetry repeats after a reconnect.
func (o *Orchestrator) getSingleAttempt(ctx context.Context, e *libfs.Entity, length int64, dst string, cb *ControlBlock) errors.Error {
	f, cerr := os.Create(dst)
	if cerr != nil {
		return ErrLocalIO.ErrorParent(cerr)
	}
	defer f.Close()

	if err := e.Open(ctx, 0); err != nil {
		return err
	}
	defer e.Close(ctx)

	if length <= o.threshold() {
		buf := make([]byte, length)
		n, err := e.Read(ctx, buf)
		if err != nil {
			return err
		}
		if _, werr := f.Write(buf[:n]); werr != nil {
			return ErrLocalIO.ErrorParent(werr)
		}
		cb.AddBytes(int64(n))
		return nil
	}

	resp, perr := o.conn.Send(ctx, &wire.OpenDataObj{Path: e.Path().String(), ParallelHint: true})
	if perr != nil {
		return ErrTransport.ErrorParent(perr)
	}
	portal, ok := resp.(*wire.PortalOprOut)
	if !ok {
		return ErrTransport.Error(nil)
	}
	threads := threadWant(cb.Options.ParallelThreadCount, portal.NumThread)
	if gerr := o.engine.Get(ctx, o.conn, portal.Cookie, portal.Endpoints, o.sessionKey(), f, length, threads, cb); gerr != nil {
		return ErrTransport.ErrorParent(gerr)
	}
	return nil
}

// Replicate creates a new replica of remote on resource.
func (o *Orchestrator) Replicate(ctx context.Context, remote libfs.Path, resource string, l Listener, cb *ControlBlock) errors.Error {
	cb = o.control(cb)

	err := o.withRetry(ctx, func() errors.Error {
		_, serr := o.conn.Send(ctx, &wire.DataObjRepl{Path: remote.String(), Resource: resource})
		if serr != nil {
			return ErrTransport.ErrorParent(serr)
		}
		return nil
	})
	if err != nil {
		emit(l, Status{Operation: OpReplicate, Source: remote.String(), TargetResource: resource, State: StateFailure, Err: err})
		return err
	}
	emit(l, Status{Operation: OpReplicate, Source: remote.String(), TargetResource: resource, State: StateOverallCompletion})
	return nil
}

// Copy duplicates srcRemote to dstRemote on resource, honoring the
// copy-to-own-parent tie-break.
func (o *Orchestrator) Copy(ctx context.Context, srcRemote libfs.Path, resource string, dstRemote libfs.Path, force bool, l Listener, cb *ControlBlock) errors.Error {
	cb = o.control(cb)

	if srcRemote.Parent().Equal(dstRemote) || srcRemote.Equal(dstRemote) {
		return ErrDuplicateData.Error(nil)
	}

	dst := o.normalizePutTarget(ctx, dstRemote, srcRemote.Leaf())
	if !force {
		if exists, _ := o.entity(dst).Exists(ctx); exists {
			return ErrAlreadyExists.Error(nil)
		}
	}

	err := o.withRetry(ctx, func() errors.Error {
		_, serr := o.conn.Send(ctx, &wire.DataObjCopy{SrcPath: srcRemote.String(), DstPath: dst.String(), Resource: resource, KeepOld: !force})
		if serr != nil {
			return ErrTransport.ErrorParent(serr)
		}
		return nil
	})
	if err != nil {
		emit(l, Status{Operation: OpCopy, Source: srcRemote.String(), Target: dst.String(), State: StateFailure, Err: err})
		return err
	}
	emit(l, Status{Operation: OpCopy, Source: srcRemote.String(), Target: dst.String(), State: StateOverallCompletion})
	return nil
}

// Move renames src to dst, honoring the move-to-own-parent and
// move-to-identical-target tie-breaks.
func (o *Orchestrator) Move(ctx context.Context, src libfs.Path, dst libfs.Path) errors.Error {
	if src.Equal(dst) {
		return nil
	}
	if src.Parent().Equal(dst) {
		return ErrDuplicateData.Error(nil)
	}
	return o.entity(src).Rename(ctx, dst)
}

type localFileInfo struct {
	path string
	size int64
}

func walkLocalTree(root string) ([]localFileInfo, int64, error) {
	var (
		files []localFileInfo
		total int64
	)

	err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		files = append(files, localFileInfo{path: p, size: info.Size()})
		total += info.Size()
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return files, total, nil
}

// threadWant picks the caller's requested parallel thread count, falling
// back to the server's own suggestion when unset.
func threadWant(configured, serverSuggested int) int {
	if configured > 0 {
		return configured
	}
	return serverSuggested
}
