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

package fs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	libcch "github.com/nabbar/irodsgo/cache"
	errors "github.com/nabbar/irodsgo/errors"
	wire "github.com/nabbar/irodsgo/wire"
)

// Kind is an Entity's filesystem type, as last observed by the stat cache.
type Kind int

const (
	KindUnknown Kind = iota
	KindFile
	KindCollection
)

// Conn is the minimal surface Entity needs from a connection handle. It is
// satisfied by *conn.Handle; fs does not import conn to keep the
// dependency direction the same as account/auth (conn is the one package
// allowed to know about everything above it).
type Conn interface {
	Send(ctx context.Context, req wire.PackInstruction) (wire.PackInstruction, error)
	StreamSend(ctx context.Context, r io.Reader, n int64) error
	StreamRecv(ctx context.Context, w io.Writer, n int64) error

	// Identity returns the connected user and server endpoint, used only
	// to render an Entity's irods:// URI (spec.md §6).
	Identity() (user string, host string, port int)
}

type stat struct {
	kind   Kind
	length int64
}

// Entity is one file or collection addressed by a canonical Path over a
// live connection. Statelessly constructed; Open/Close track the POSIX-
// style read/write session on top of it.
type Entity struct {
	mu    sync.Mutex
	conn  Conn
	path  Path
	cache libcch.Cache[string, stat]

	resource   string
	isOpen     bool
	offset     int64
	descriptor int
}

// NewEntity builds an Entity for path over conn, sharing cache (callers
// typically share one cache per Registry lease so siblings populated by a
// list_children call hit cache on first stat).
func NewEntity(conn Conn, path Path, cache libcch.Cache[string, stat]) *Entity {
	if cache == nil {
		cache = libcch.New[string, stat](context.Background(), 30*time.Second)
	}
	return &Entity{conn: conn, path: path, cache: cache}
}

// Path returns the entity's canonical path.
func (e *Entity) Path() Path {
	return e.path
}

// URI renders the entity's canonical irods://user@host:port/absolute/path
// form (spec.md §6 / SPEC_FULL.md §C6).
func (e *Entity) URI() string {
	user, host, port := e.conn.Identity()
	return fmt.Sprintf("irods://%s@%s:%d%s", user, host, port, e.path.String())
}

// Reset invalidates the cached stat entry, forcing the next query to round
// trip to the server.
func (e *Entity) Reset() {
	e.cache.Delete(e.path.String())
}

func (e *Entity) stat(ctx context.Context) (stat, errors.Error) {
	if s, _, ok := e.cache.Load(e.path.String()); ok {
		return s, nil
	}

	resp, err := e.conn.Send(ctx, &wire.StatObj{Path: e.path.String()})
	if err != nil {
		return stat{}, ErrUnexpected.ErrorParent(err)
	}

	so, ok := resp.(*wire.StatObj)
	if !ok {
		return stat{}, ErrUnexpected.Error(nil)
	}
	if !so.Exists {
		return stat{}, ErrNotFound.Error(nil)
	}

	s := stat{length: so.Length}
	if so.IsDir {
		s.kind = KindCollection
	} else {
		s.kind = KindFile
	}

	e.cache.Store(e.path.String(), s)
	return s, nil
}

// Exists reports whether the entity is present.
func (e *Entity) Exists(ctx context.Context) (bool, errors.Error) {
	_, err := e.stat(ctx)
	return err == nil, nil
}

// IsFile reports whether the entity exists and is a data object.
func (e *Entity) IsFile(ctx context.Context) (bool, errors.Error) {
	s, err := e.stat(ctx)
	if err != nil {
		return false, nil
	}
	return s.kind == KindFile, nil
}

// IsDir reports whether the entity exists and is a collection.
func (e *Entity) IsDir(ctx context.Context) (bool, errors.Error) {
	s, err := e.stat(ctx)
	if err != nil {
		return false, nil
	}
	return s.kind == KindCollection, nil
}

// Length returns the cached or freshly-queried byte length of a data object.
func (e *Entity) Length(ctx context.Context) (int64, errors.Error) {
	s, err := e.stat(ctx)
	if err != nil {
		return 0, err
	}
	return s.length, nil
}

// ListChildren lists the immediate children of a collection entity.
func (e *Entity) ListChildren(ctx context.Context) ([]*Entity, errors.Error) {
	resp, err := e.conn.Send(ctx, &wire.ListColl{Path: e.path.String()})
	if err != nil {
		return nil, ErrUnexpected.ErrorParent(err)
	}

	lc, ok := resp.(*wire.ListColl)
	if !ok {
		return nil, ErrUnexpected.Error(nil)
	}

	out := make([]*Entity, 0, len(lc.Children))
	for _, child := range lc.Children {
		out = append(out, NewEntity(e.conn, e.path.Join(child), e.cache))
	}
	return out, nil
}

// Mkdir creates the collection; when parents is true intermediate
// collections are created as needed.
func (e *Entity) Mkdir(ctx context.Context, parents bool) errors.Error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, err := e.conn.Send(ctx, &wire.CollCreate{Path: e.path.String(), Recursive: parents})
	if err != nil {
		return ErrUnexpected.ErrorParent(err)
	}
	e.Reset()
	return nil
}

// Delete removes the entity; force bypasses any server-side trash can.
func (e *Entity) Delete(ctx context.Context, force bool) errors.Error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, serr := e.stat(ctx)
	if serr != nil {
		return serr
	}

	var err error
	if s.kind == KindCollection {
		_, err = e.conn.Send(ctx, &wire.RmColl{Path: e.path.String(), Recursive: true, Force: force})
	} else {
		_, err = e.conn.Send(ctx, &wire.UnlinkObj{Path: e.path.String(), Force: force})
	}
	if err != nil {
		return ErrUnexpected.ErrorParent(err)
	}
	e.Reset()
	return nil
}

// Rename moves this entity to target, both logically and as the entity's
// own path going forward.
func (e *Entity) Rename(ctx context.Context, target Path) errors.Error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.path.Equal(target) {
		return nil
	}

	_, err := e.conn.Send(ctx, &wire.RenameObj{Path: e.path.String(), Target: target.String()})
	if err != nil {
		return ErrUnexpected.ErrorParent(err)
	}

	e.Reset()
	e.path = target
	return nil
}

// PhysicalMove changes the physical resource backing this data object.
func (e *Entity) PhysicalMove(ctx context.Context, resource string) errors.Error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, err := e.conn.Send(ctx, &wire.PhyMove{Path: e.path.String(), Resource: resource})
	if err != nil {
		return ErrUnexpected.ErrorParent(err)
	}
	e.resource = resource
	e.Reset()
	return nil
}

// GetResource returns the last resource name set via SetResource or
// PhysicalMove (empty until one of those calls).
func (e *Entity) GetResource() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resource
}

// SetResource records the resource name OpenDataObj/CreateDataObj should
// target on the next Open.
func (e *Entity) SetResource(resource string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resource = resource
}

// Open opens the data object for reading/writing per flags (os.O_* style);
// create semantics follow os.O_CREATE.
func (e *Entity) Open(ctx context.Context, flags int) errors.Error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.isOpen {
		return nil
	}

	var (
		resp wire.PackInstruction
		err  error
	)
	if flags&OpenCreate != 0 {
		resp, err = e.conn.Send(ctx, &wire.CreateDataObj{Path: e.path.String(), Resource: e.resource})
	} else {
		resp, err = e.conn.Send(ctx, &wire.OpenDataObj{Path: e.path.String(), Flags: flags, Resource: e.resource})
	}
	if err != nil {
		return ErrUnexpected.ErrorParent(err)
	}

	switch r := resp.(type) {
	case *wire.CreateDataObj:
		e.descriptor = r.Descriptor
	case *wire.OpenDataObj:
		e.descriptor = r.Descriptor
	}

	e.isOpen = true
	e.offset = 0
	e.Reset()
	return nil
}

// Close ends the open session on this entity.
func (e *Entity) Close(ctx context.Context) errors.Error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isOpen {
		return nil
	}

	_, err := e.conn.Send(ctx, &wire.CloseDataObj{Descriptor: e.descriptor})
	e.isOpen = false
	e.descriptor = 0
	if err != nil {
		return ErrUnexpected.ErrorParent(err)
	}
	return nil
}

// Seek repositions the in-band read/write cursor.
func (e *Entity) Seek(off int64) errors.Error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isOpen {
		return ErrNotOpen.Error(nil)
	}
	e.offset = off
	return nil
}

// Read reads up to len(p) bytes at the current cursor.
func (e *Entity) Read(ctx context.Context, p []byte) (int, errors.Error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isOpen {
		return 0, ErrNotOpen.Error(nil)
	}

	resp, err := e.conn.Send(ctx, &wire.DataObjRead{Descriptor: e.descriptor, Len: int64(len(p))})
	if err != nil {
		return 0, ErrUnexpected.ErrorParent(err)
	}

	dr, ok := resp.(*wire.DataObjRead)
	if !ok {
		return 0, ErrUnexpected.Error(nil)
	}

	buf := &bytes.Buffer{}
	if dr.Len > 0 {
		if serr := e.conn.StreamRecv(ctx, buf, dr.Len); serr != nil {
			return 0, ErrUnexpected.ErrorParent(serr)
		}
	}

	n := copy(p, buf.Bytes())
	e.offset += int64(n)
	return n, nil
}

// Write writes p at the current cursor.
func (e *Entity) Write(ctx context.Context, p []byte) (int, errors.Error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isOpen {
		return 0, ErrNotOpen.Error(nil)
	}

	if _, err := e.conn.Send(ctx, &wire.DataObjWrite{Descriptor: e.descriptor, Len: int64(len(p))}); err != nil {
		return 0, ErrUnexpected.ErrorParent(err)
	}

	if err := e.conn.StreamSend(ctx, bytes.NewReader(p), int64(len(p))); err != nil {
		return 0, ErrUnexpected.ErrorParent(err)
	}

	e.offset += int64(len(p))
	e.Reset()
	return len(p), nil
}

// OpenCreate mirrors os.O_CREATE for Open's flags parameter without
// depending on the os package's platform-specific bit layout.
const OpenCreate = 1 << 30

// SetExecutable is a POSIX-filesystem permission bit iRODS' data-object
// model has no equivalent of (spec.md §4.5 / SPEC_FULL.md §C6).
func (e *Entity) SetExecutable(bool) errors.Error {
	return ErrNotSupported.Error(nil)
}

// SetReadable is a POSIX-filesystem permission bit iRODS' data-object
// model has no equivalent of.
func (e *Entity) SetReadable(bool) errors.Error {
	return ErrNotSupported.Error(nil)
}

// SetWritable is a POSIX-filesystem permission bit iRODS' data-object
// model has no equivalent of.
func (e *Entity) SetWritable(bool) errors.Error {
	return ErrNotSupported.Error(nil)
}

// SetLastModified has no wire-level operation in this client's pack
// instruction set.
func (e *Entity) SetLastModified(time.Time) errors.Error {
	return ErrNotSupported.Error(nil)
}

// DeleteOnExit has no server-side or local-process counterpart for a
// remote data-grid entity.
func (e *Entity) DeleteOnExit() errors.Error {
	return ErrNotSupported.Error(nil)
}

// GetFreeSpace has no per-entity resource-capacity query in this
// client's pack instruction set.
func (e *Entity) GetFreeSpace() (int64, errors.Error) {
	return 0, ErrNotSupported.Error(nil)
}

// GetTotalSpace has no per-entity resource-capacity query in this
// client's pack instruction set.
func (e *Entity) GetTotalSpace() (int64, errors.Error) {
	return 0, ErrNotSupported.Error(nil)
}

// GetUsableSpace has no per-entity resource-capacity query in this
// client's pack instruction set.
func (e *Entity) GetUsableSpace() (int64, errors.Error) {
	return 0, ErrNotSupported.Error(nil)
}
