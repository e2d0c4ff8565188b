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

package wire

import (
	"fmt"
	"sync"

	errors "github.com/nabbar/irodsgo/errors"
)

// PackInstruction is a named, versioned protocol message. Every concrete
// instruction (StartupPack, AuthRequest, DataObjRead, ...) implements it.
type PackInstruction interface {
	Name() string
	Version() int
	Encode() ([]byte, errors.Error)
	Decode([]byte) errors.Error
}

// schemaKey identifies a registered pack-instruction schema.
func schemaKey(name string, version int) string {
	return fmt.Sprintf("%s:%d", name, version)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]func() PackInstruction{}
)

// RegisterSchema associates a (name, version) pair with a constructor for a
// zero-value instruction of that schema, so Lookup can build an empty
// instance ready to receive Decode.
func RegisterSchema(name string, version int, ctor func() PackInstruction) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[schemaKey(name, version)] = ctor
}

// Lookup returns a freshly constructed, empty instruction for the given
// schema, or ErrUnknownPackInstruction if nothing registered it.
func Lookup(name string, version int) (PackInstruction, errors.Error) {
	registryMu.RLock()
	ctor, ok := registry[schemaKey(name, version)]
	registryMu.RUnlock()

	if !ok {
		return nil, ErrUnknownPackInstruction.Error()
	}
	return ctor(), nil
}

func init() {
	RegisterSchema("StartupPack", 1, func() PackInstruction { return &StartupPack{} })
	RegisterSchema("AuthRequest", 1, func() PackInstruction { return &AuthRequest{} })
	RegisterSchema("AuthResponse", 1, func() PackInstruction { return &AuthResponse{} })
	RegisterSchema("PamAuthRequest", 1, func() PackInstruction { return &PamAuthRequest{} })
	RegisterSchema("SslStart", 1, func() PackInstruction { return &SslStart{} })
	RegisterSchema("SslEnd", 1, func() PackInstruction { return &SslEnd{} })
	RegisterSchema("OpenDataObj", 1, func() PackInstruction { return &OpenDataObj{} })
	RegisterSchema("CreateDataObj", 1, func() PackInstruction { return &CreateDataObj{} })
	RegisterSchema("CloseDataObj", 1, func() PackInstruction { return &CloseDataObj{} })
	RegisterSchema("DataObjRead", 1, func() PackInstruction { return &DataObjRead{} })
	RegisterSchema("DataObjWrite", 1, func() PackInstruction { return &DataObjWrite{} })
	RegisterSchema("DataObjCopy", 1, func() PackInstruction { return &DataObjCopy{} })
	RegisterSchema("DataObjPut", 1, func() PackInstruction { return &DataObjPut{} })
	RegisterSchema("DataObjGet", 1, func() PackInstruction { return &DataObjGet{} })
	RegisterSchema("DataObjRepl", 1, func() PackInstruction { return &DataObjRepl{} })
	RegisterSchema("CollCreate", 1, func() PackInstruction { return &CollCreate{} })
	RegisterSchema("RmColl", 1, func() PackInstruction { return &RmColl{} })
	RegisterSchema("StatObj", 1, func() PackInstruction { return &StatObj{} })
	RegisterSchema("ListColl", 1, func() PackInstruction { return &ListColl{} })
	RegisterSchema("RenameObj", 1, func() PackInstruction { return &RenameObj{} })
	RegisterSchema("PhyMove", 1, func() PackInstruction { return &PhyMove{} })
	RegisterSchema("UnlinkObj", 1, func() PackInstruction { return &UnlinkObj{} })
	RegisterSchema("OprComplete", 1, func() PackInstruction { return &OprComplete{} })
	RegisterSchema("PortalOprOut", 1, func() PackInstruction { return &PortalOprOut{} })
	RegisterSchema("EndTransaction", 1, func() PackInstruction { return &EndTransaction{} })
}
