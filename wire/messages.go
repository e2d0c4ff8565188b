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
	"strconv"

	errors "github.com/nabbar/irodsgo/errors"
)

// StartupPack is the first message sent on a new connection: client zone,
// user, proxy identity, and the negotiated option string.
type StartupPack struct {
	Zone         string
	User         string
	ProxyUser    string
	ProxyZone    string
	Option       string
	ClientVersion string
	ExtraKV      map[string]string
}

func (m *StartupPack) Name() string  { return "StartupPack" }
func (m *StartupPack) Version() int  { return 1 }
func (m *StartupPack) Encode() ([]byte, errors.Error) {
	pairs := []kv{
		{"zone", m.Zone}, {"user", m.User}, {"proxyUser", m.ProxyUser},
		{"proxyZone", m.ProxyZone}, {"option", m.Option}, {"clientVersion", m.ClientVersion},
	}
	return encodeKV(append(pairs, condInputKV(m.ExtraKV)...)), nil
}
func (m *StartupPack) Decode(b []byte) errors.Error {
	pairs, e := decodeKV(b)
	if e != nil {
		return e
	}
	f, extra := splitPairs(pairs)
	m.Zone, m.User, m.ProxyUser, m.ProxyZone = f["zone"], f["user"], f["proxyUser"], f["proxyZone"]
	m.Option, m.ClientVersion = f["option"], f["clientVersion"]
	m.ExtraKV = extra
	return nil
}

// AuthRequest asks the server for a native challenge.
type AuthRequest struct {
	ExtraKV map[string]string
}

func (m *AuthRequest) Name() string { return "AuthRequest" }
func (m *AuthRequest) Version() int { return 1 }
func (m *AuthRequest) Encode() ([]byte, errors.Error) {
	return encodeKV(condInputKV(m.ExtraKV)), nil
}
func (m *AuthRequest) Decode(b []byte) errors.Error {
	pairs, e := decodeKV(b)
	if e != nil {
		return e
	}
	_, extra := splitPairs(pairs)
	m.ExtraKV = extra
	return nil
}

// AuthResponse carries the challenge (server->client) or the hashed
// response (client->server), plus the user name the response is for.
type AuthResponse struct {
	Challenge string
	Response  string
	User      string
	ExtraKV   map[string]string
}

func (m *AuthResponse) Name() string { return "AuthResponse" }
func (m *AuthResponse) Version() int { return 1 }
func (m *AuthResponse) Encode() ([]byte, errors.Error) {
	pairs := []kv{{"challenge", m.Challenge}, {"response", m.Response}, {"user", m.User}}
	return encodeKV(append(pairs, condInputKV(m.ExtraKV)...)), nil
}
func (m *AuthResponse) Decode(b []byte) errors.Error {
	pairs, e := decodeKV(b)
	if e != nil {
		return e
	}
	f, extra := splitPairs(pairs)
	m.Challenge, m.Response, m.User = f["challenge"], f["response"], f["user"]
	m.ExtraKV = extra
	return nil
}

// PamAuthRequest is sent over the already-encrypted channel: user,
// password, and the requested TTL in hours for the derived native password.
type PamAuthRequest struct {
	User     string
	Password string
	TTL      int
	ExtraKV  map[string]string
}

func (m *PamAuthRequest) Name() string { return "PamAuthRequest" }
func (m *PamAuthRequest) Version() int { return 1 }
func (m *PamAuthRequest) Encode() ([]byte, errors.Error) {
	pairs := []kv{{"user", m.User}, {"password", m.Password}, {"ttl", strconv.Itoa(m.TTL)}}
	return encodeKV(append(pairs, condInputKV(m.ExtraKV)...)), nil
}
func (m *PamAuthRequest) Decode(b []byte) errors.Error {
	pairs, e := decodeKV(b)
	if e != nil {
		return e
	}
	f, extra := splitPairs(pairs)
	m.User, m.Password = f["user"], f["password"]
	if f["ttl"] != "" {
		i, err := strconv.Atoi(f["ttl"])
		if err != nil {
			return ErrWireFormat.ErrorParent(err)
		}
		m.TTL = i
	}
	m.ExtraKV = extra
	return nil
}

// SslStart requests the TLS upgrade be applied to the control channel.
type SslStart struct {
	ExtraKV map[string]string
}

func (m *SslStart) Name() string { return "SslStart" }
func (m *SslStart) Version() int { return 1 }
func (m *SslStart) Encode() ([]byte, errors.Error) {
	return encodeKV(condInputKV(m.ExtraKV)), nil
}
func (m *SslStart) Decode(b []byte) errors.Error {
	pairs, e := decodeKV(b)
	if e != nil {
		return e
	}
	_, extra := splitPairs(pairs)
	m.ExtraKV = extra
	return nil
}

// SslEnd requests the control channel drop back to plaintext.
type SslEnd struct {
	ExtraKV map[string]string
}

func (m *SslEnd) Name() string { return "SslEnd" }
func (m *SslEnd) Version() int { return 1 }
func (m *SslEnd) Encode() ([]byte, errors.Error) {
	return encodeKV(condInputKV(m.ExtraKV)), nil
}
func (m *SslEnd) Decode(b []byte) errors.Error {
	pairs, e := decodeKV(b)
	if e != nil {
		return e
	}
	_, extra := splitPairs(pairs)
	m.ExtraKV = extra
	return nil
}

// OpenDataObj opens an existing data object; Flags carries the POSIX-style
// open mode, ParallelHint signals the caller intends a multi-stream transfer.
type OpenDataObj struct {
	Path         string
	Flags        int
	Resource     string
	ParallelHint bool
	Descriptor   int
	ExtraKV      map[string]string
}

func (m *OpenDataObj) Name() string { return "OpenDataObj" }
func (m *OpenDataObj) Version() int { return 1 }
func (m *OpenDataObj) Encode() ([]byte, errors.Error) {
	pairs := []kv{
		{"path", m.Path}, {"flags", strconv.Itoa(m.Flags)}, {"resource", m.Resource},
		{"parallelHint", strconv.FormatBool(m.ParallelHint)}, {"descriptor", strconv.Itoa(m.Descriptor)},
	}
	return encodeKV(append(pairs, condInputKV(m.ExtraKV)...)), nil
}
func (m *OpenDataObj) Decode(b []byte) errors.Error {
	pairs, e := decodeKV(b)
	if e != nil {
		return e
	}
	f, extra := splitPairs(pairs)
	m.Path, m.Resource = f["path"], f["resource"]
	if f["flags"] != "" {
		i, err := strconv.Atoi(f["flags"])
		if err != nil {
			return ErrWireFormat.ErrorParent(err)
		}
		m.Flags = i
	}
	if f["descriptor"] != "" {
		i, err := strconv.Atoi(f["descriptor"])
		if err != nil {
			return ErrWireFormat.ErrorParent(err)
		}
		m.Descriptor = i
	}
	m.ParallelHint = f["parallelHint"] == "true"
	m.ExtraKV = extra
	return nil
}

// CreateDataObj creates a new data object at Path on Resource.
type CreateDataObj struct {
	Path       string
	Resource   string
	Mode       int
	DataSize   int64
	ForceFlag  bool
	Descriptor int
	ExtraKV    map[string]string
}

func (m *CreateDataObj) Name() string { return "CreateDataObj" }
func (m *CreateDataObj) Version() int { return 1 }
func (m *CreateDataObj) Encode() ([]byte, errors.Error) {
	pairs := []kv{
		{"path", m.Path}, {"resource", m.Resource}, {"mode", strconv.Itoa(m.Mode)},
		{"dataSize", strconv.FormatInt(m.DataSize, 10)}, {"forceFlag", strconv.FormatBool(m.ForceFlag)},
		{"descriptor", strconv.Itoa(m.Descriptor)},
	}
	return encodeKV(append(pairs, condInputKV(m.ExtraKV)...)), nil
}
func (m *CreateDataObj) Decode(b []byte) errors.Error {
	pairs, e := decodeKV(b)
	if e != nil {
		return e
	}
	f, extra := splitPairs(pairs)
	m.Path, m.Resource = f["path"], f["resource"]
	if f["mode"] != "" {
		i, err := strconv.Atoi(f["mode"])
		if err != nil {
			return ErrWireFormat.ErrorParent(err)
		}
		m.Mode = i
	}
	if f["descriptor"] != "" {
		i, err := strconv.Atoi(f["descriptor"])
		if err != nil {
			return ErrWireFormat.ErrorParent(err)
		}
		m.Descriptor = i
	}
	if f["dataSize"] != "" {
		i, err := strconv.ParseInt(f["dataSize"], 10, 64)
		if err != nil {
			return ErrWireFormat.ErrorParent(err)
		}
		m.DataSize = i
	}
	m.ForceFlag = f["forceFlag"] == "true"
	m.ExtraKV = extra
	return nil
}

// CloseDataObj closes a server-side open data object by descriptor.
type CloseDataObj struct {
	Descriptor int
	ExtraKV    map[string]string
}

func (m *CloseDataObj) Name() string { return "CloseDataObj" }
func (m *CloseDataObj) Version() int { return 1 }
func (m *CloseDataObj) Encode() ([]byte, errors.Error) {
	pairs := []kv{{"descriptor", strconv.Itoa(m.Descriptor)}}
	return encodeKV(append(pairs, condInputKV(m.ExtraKV)...)), nil
}
func (m *CloseDataObj) Decode(b []byte) errors.Error {
	pairs, e := decodeKV(b)
	if e != nil {
		return e
	}
	f, extra := splitPairs(pairs)
	if f["descriptor"] != "" {
		i, err := strconv.Atoi(f["descriptor"])
		if err != nil {
			return ErrWireFormat.ErrorParent(err)
		}
		m.Descriptor = i
	}
	m.ExtraKV = extra
	return nil
}

// DataObjRead requests Len bytes be read from the open descriptor into the
// response's binary blob.
type DataObjRead struct {
	Descriptor int
	Len        int64
	ExtraKV    map[string]string
}

func (m *DataObjRead) Name() string { return "DataObjRead" }
func (m *DataObjRead) Version() int { return 1 }
func (m *DataObjRead) Encode() ([]byte, errors.Error) {
	pairs := []kv{{"descriptor", strconv.Itoa(m.Descriptor)}, {"len", strconv.FormatInt(m.Len, 10)}}
	return encodeKV(append(pairs, condInputKV(m.ExtraKV)...)), nil
}
func (m *DataObjRead) Decode(b []byte) errors.Error {
	pairs, e := decodeKV(b)
	if e != nil {
		return e
	}
	f, extra := splitPairs(pairs)
	if f["descriptor"] != "" {
		i, err := strconv.Atoi(f["descriptor"])
		if err != nil {
			return ErrWireFormat.ErrorParent(err)
		}
		m.Descriptor = i
	}
	if f["len"] != "" {
		i, err := strconv.ParseInt(f["len"], 10, 64)
		if err != nil {
			return ErrWireFormat.ErrorParent(err)
		}
		m.Len = i
	}
	m.ExtraKV = extra
	return nil
}

// DataObjWrite declares Len bytes of binary blob are about to follow for
// the open descriptor.
type DataObjWrite struct {
	Descriptor int
	Len        int64
	ExtraKV    map[string]string
}

func (m *DataObjWrite) Name() string { return "DataObjWrite" }
func (m *DataObjWrite) Version() int { return 1 }
func (m *DataObjWrite) Encode() ([]byte, errors.Error) {
	pairs := []kv{{"descriptor", strconv.Itoa(m.Descriptor)}, {"len", strconv.FormatInt(m.Len, 10)}}
	return encodeKV(append(pairs, condInputKV(m.ExtraKV)...)), nil
}
func (m *DataObjWrite) Decode(b []byte) errors.Error {
	pairs, e := decodeKV(b)
	if e != nil {
		return e
	}
	f, extra := splitPairs(pairs)
	if f["descriptor"] != "" {
		i, err := strconv.Atoi(f["descriptor"])
		if err != nil {
			return ErrWireFormat.ErrorParent(err)
		}
		m.Descriptor = i
	}
	if f["len"] != "" {
		i, err := strconv.ParseInt(f["len"], 10, 64)
		if err != nil {
			return ErrWireFormat.ErrorParent(err)
		}
		m.Len = i
	}
	m.ExtraKV = extra
	return nil
}

// DataObjCopy renames or moves a data object; KeepOld distinguishes copy
// (true: source retained) from move (false: source removed).
type DataObjCopy struct {
	SrcPath  string
	DstPath  string
	Resource string
	KeepOld  bool
	ExtraKV  map[string]string
}

func (m *DataObjCopy) Name() string { return "DataObjCopy" }
func (m *DataObjCopy) Version() int { return 1 }
func (m *DataObjCopy) Encode() ([]byte, errors.Error) {
	pairs := []kv{
		{"srcPath", m.SrcPath}, {"dstPath", m.DstPath}, {"resource", m.Resource},
		{"keepOld", strconv.FormatBool(m.KeepOld)},
	}
	return encodeKV(append(pairs, condInputKV(m.ExtraKV)...)), nil
}
func (m *DataObjCopy) Decode(b []byte) errors.Error {
	pairs, e := decodeKV(b)
	if e != nil {
		return e
	}
	f, extra := splitPairs(pairs)
	m.SrcPath, m.DstPath, m.Resource = f["srcPath"], f["dstPath"], f["resource"]
	m.KeepOld = f["keepOld"] == "true"
	m.ExtraKV = extra
	return nil
}

// DataObjPut is the single-buffer put request: Path/Resource/DataSize plus
// the ForceFlag tie-break and the in-band bulk blob carried alongside it.
type DataObjPut struct {
	Path      string
	Resource  string
	DataSize  int64
	ForceFlag bool
	ExtraKV   map[string]string
}

func (m *DataObjPut) Name() string { return "DataObjPut" }
func (m *DataObjPut) Version() int { return 1 }
func (m *DataObjPut) Encode() ([]byte, errors.Error) {
	pairs := []kv{
		{"path", m.Path}, {"resource", m.Resource}, {"dataSize", strconv.FormatInt(m.DataSize, 10)},
		{"forceFlag", strconv.FormatBool(m.ForceFlag)},
	}
	return encodeKV(append(pairs, condInputKV(m.ExtraKV)...)), nil
}
func (m *DataObjPut) Decode(b []byte) errors.Error {
	pairs, e := decodeKV(b)
	if e != nil {
		return e
	}
	f, extra := splitPairs(pairs)
	m.Path, m.Resource = f["path"], f["resource"]
	if f["dataSize"] != "" {
		i, err := strconv.ParseInt(f["dataSize"], 10, 64)
		if err != nil {
			return ErrWireFormat.ErrorParent(err)
		}
		m.DataSize = i
	}
	m.ForceFlag = f["forceFlag"] == "true"
	m.ExtraKV = extra
	return nil
}

// DataObjGet is the single-buffer get request.
type DataObjGet struct {
	Path     string
	Resource string
	ExtraKV  map[string]string
}

func (m *DataObjGet) Name() string { return "DataObjGet" }
func (m *DataObjGet) Version() int { return 1 }
func (m *DataObjGet) Encode() ([]byte, errors.Error) {
	pairs := []kv{{"path", m.Path}, {"resource", m.Resource}}
	return encodeKV(append(pairs, condInputKV(m.ExtraKV)...)), nil
}
func (m *DataObjGet) Decode(b []byte) errors.Error {
	pairs, e := decodeKV(b)
	if e != nil {
		return e
	}
	f, extra := splitPairs(pairs)
	m.Path, m.Resource = f["path"], f["resource"]
	m.ExtraKV = extra
	return nil
}

// DataObjRepl requests a new replica of Path be created on Resource.
type DataObjRepl struct {
	Path     string
	Resource string
	ExtraKV  map[string]string
}

func (m *DataObjRepl) Name() string { return "DataObjRepl" }
func (m *DataObjRepl) Version() int { return 1 }
func (m *DataObjRepl) Encode() ([]byte, errors.Error) {
	pairs := []kv{{"path", m.Path}, {"resource", m.Resource}}
	return encodeKV(append(pairs, condInputKV(m.ExtraKV)...)), nil
}
func (m *DataObjRepl) Decode(b []byte) errors.Error {
	pairs, e := decodeKV(b)
	if e != nil {
		return e
	}
	f, extra := splitPairs(pairs)
	m.Path, m.Resource = f["path"], f["resource"]
	m.ExtraKV = extra
	return nil
}

// CollCreate creates a collection at Path, optionally creating intermediate
// collections when Recursive is set.
type CollCreate struct {
	Path      string
	Recursive bool
	ExtraKV   map[string]string
}

func (m *CollCreate) Name() string { return "CollCreate" }
func (m *CollCreate) Version() int { return 1 }
func (m *CollCreate) Encode() ([]byte, errors.Error) {
	pairs := []kv{{"path", m.Path}, {"recursive", strconv.FormatBool(m.Recursive)}}
	return encodeKV(append(pairs, condInputKV(m.ExtraKV)...)), nil
}
func (m *CollCreate) Decode(b []byte) errors.Error {
	pairs, e := decodeKV(b)
	if e != nil {
		return e
	}
	f, extra := splitPairs(pairs)
	m.Path = f["path"]
	m.Recursive = f["recursive"] == "true"
	m.ExtraKV = extra
	return nil
}

// RmColl removes a collection at Path, recursively when Recursive is set,
// bypassing the trash can when Force is set.
type RmColl struct {
	Path      string
	Recursive bool
	Force     bool
	ExtraKV   map[string]string
}

func (m *RmColl) Name() string { return "RmColl" }
func (m *RmColl) Version() int { return 1 }
func (m *RmColl) Encode() ([]byte, errors.Error) {
	pairs := []kv{
		{"path", m.Path}, {"recursive", strconv.FormatBool(m.Recursive)},
		{"force", strconv.FormatBool(m.Force)},
	}
	return encodeKV(append(pairs, condInputKV(m.ExtraKV)...)), nil
}
func (m *RmColl) Decode(b []byte) errors.Error {
	pairs, e := decodeKV(b)
	if e != nil {
		return e
	}
	f, extra := splitPairs(pairs)
	m.Path = f["path"]
	m.Recursive = f["recursive"] == "true"
	m.Force = f["force"] == "true"
	m.ExtraKV = extra
	return nil
}

// StatObj queries the kind (file/collection) and length of Path; a missing
// entity is reported through the response's Exists field rather than an
// error blob, so a plain stat never needs special-case error handling.
type StatObj struct {
	Path    string
	Exists  bool
	IsDir   bool
	Length  int64
	ModTime int64
	ExtraKV map[string]string
}

func (m *StatObj) Name() string { return "StatObj" }
func (m *StatObj) Version() int { return 1 }
func (m *StatObj) Encode() ([]byte, errors.Error) {
	pairs := []kv{
		{"path", m.Path}, {"exists", strconv.FormatBool(m.Exists)}, {"isDir", strconv.FormatBool(m.IsDir)},
		{"length", strconv.FormatInt(m.Length, 10)}, {"modTime", strconv.FormatInt(m.ModTime, 10)},
	}
	return encodeKV(append(pairs, condInputKV(m.ExtraKV)...)), nil
}
func (m *StatObj) Decode(b []byte) errors.Error {
	pairs, e := decodeKV(b)
	if e != nil {
		return e
	}
	f, extra := splitPairs(pairs)
	m.Path = f["path"]
	m.Exists = f["exists"] == "true"
	m.IsDir = f["isDir"] == "true"
	if f["length"] != "" {
		i, err := strconv.ParseInt(f["length"], 10, 64)
		if err != nil {
			return ErrWireFormat.ErrorParent(err)
		}
		m.Length = i
	}
	if f["modTime"] != "" {
		i, err := strconv.ParseInt(f["modTime"], 10, 64)
		if err != nil {
			return ErrWireFormat.ErrorParent(err)
		}
		m.ModTime = i
	}
	m.ExtraKV = extra
	return nil
}

// ListColl lists the immediate children of a collection.
type ListColl struct {
	Path     string
	Children []string
	ExtraKV  map[string]string
}

func (m *ListColl) Name() string { return "ListColl" }
func (m *ListColl) Version() int { return 1 }
func (m *ListColl) Encode() ([]byte, errors.Error) {
	pairs := []kv{{"path", m.Path}, {"count", strconv.Itoa(len(m.Children))}}
	for i, c := range m.Children {
		pairs = append(pairs, kv{"child." + strconv.Itoa(i), c})
	}
	return encodeKV(append(pairs, condInputKV(m.ExtraKV)...)), nil
}
func (m *ListColl) Decode(b []byte) errors.Error {
	pairs, e := decodeKV(b)
	if e != nil {
		return e
	}
	f, extra := splitPairs(pairs)
	m.Path = f["path"]
	count := 0
	if f["count"] != "" {
		i, err := strconv.Atoi(f["count"])
		if err != nil {
			return ErrWireFormat.ErrorParent(err)
		}
		count = i
	}
	m.Children = make([]string, count)
	for i := 0; i < count; i++ {
		m.Children[i] = f["child."+strconv.Itoa(i)]
	}
	m.ExtraKV = extra
	return nil
}

// RenameObj renames/moves a data object or collection from Path to Target.
type RenameObj struct {
	Path    string
	Target  string
	ExtraKV map[string]string
}

func (m *RenameObj) Name() string { return "RenameObj" }
func (m *RenameObj) Version() int { return 1 }
func (m *RenameObj) Encode() ([]byte, errors.Error) {
	pairs := []kv{{"path", m.Path}, {"target", m.Target}}
	return encodeKV(append(pairs, condInputKV(m.ExtraKV)...)), nil
}
func (m *RenameObj) Decode(b []byte) errors.Error {
	pairs, e := decodeKV(b)
	if e != nil {
		return e
	}
	f, extra := splitPairs(pairs)
	m.Path, m.Target = f["path"], f["target"]
	m.ExtraKV = extra
	return nil
}

// PhyMove changes the physical resource backing a data object without
// altering its logical path.
type PhyMove struct {
	Path     string
	Resource string
	ExtraKV  map[string]string
}

func (m *PhyMove) Name() string { return "PhyMove" }
func (m *PhyMove) Version() int { return 1 }
func (m *PhyMove) Encode() ([]byte, errors.Error) {
	pairs := []kv{{"path", m.Path}, {"resource", m.Resource}}
	return encodeKV(append(pairs, condInputKV(m.ExtraKV)...)), nil
}
func (m *PhyMove) Decode(b []byte) errors.Error {
	pairs, e := decodeKV(b)
	if e != nil {
		return e
	}
	f, extra := splitPairs(pairs)
	m.Path, m.Resource = f["path"], f["resource"]
	m.ExtraKV = extra
	return nil
}

// UnlinkObj removes a single data object at Path, bypassing the trash can
// when Force is set.
type UnlinkObj struct {
	Path    string
	Force   bool
	ExtraKV map[string]string
}

func (m *UnlinkObj) Name() string { return "UnlinkObj" }
func (m *UnlinkObj) Version() int { return 1 }
func (m *UnlinkObj) Encode() ([]byte, errors.Error) {
	pairs := []kv{{"path", m.Path}, {"force", strconv.FormatBool(m.Force)}}
	return encodeKV(append(pairs, condInputKV(m.ExtraKV)...)), nil
}
func (m *UnlinkObj) Decode(b []byte) errors.Error {
	pairs, e := decodeKV(b)
	if e != nil {
		return e
	}
	f, extra := splitPairs(pairs)
	m.Path = f["path"]
	m.Force = f["force"] == "true"
	m.ExtraKV = extra
	return nil
}

// OprComplete is the handshake that releases the server-side operation
// after a parallel data phase finishes; Status is 0 on success.
type OprComplete struct {
	Status  int
	ExtraKV map[string]string
}

func (m *OprComplete) Name() string { return "OprComplete" }
func (m *OprComplete) Version() int { return 1 }
func (m *OprComplete) Encode() ([]byte, errors.Error) {
	pairs := []kv{{"status", strconv.Itoa(m.Status)}}
	return encodeKV(append(pairs, condInputKV(m.ExtraKV)...)), nil
}
func (m *OprComplete) Decode(b []byte) errors.Error {
	pairs, e := decodeKV(b)
	if e != nil {
		return e
	}
	f, extra := splitPairs(pairs)
	if f["status"] != "" {
		i, err := strconv.Atoi(f["status"])
		if err != nil {
			return ErrWireFormat.ErrorParent(err)
		}
		m.Status = i
	}
	m.ExtraKV = extra
	return nil
}

// PortalOprOut is the server's reply handing out the parallel transfer
// cookie and endpoint list.
type PortalOprOut struct {
	Cookie    string
	NumThread int
	Endpoints []string
	ExtraKV   map[string]string
}

func (m *PortalOprOut) Name() string { return "PortalOprOut" }
func (m *PortalOprOut) Version() int { return 1 }
func (m *PortalOprOut) Encode() ([]byte, errors.Error) {
	pairs := []kv{{"cookie", m.Cookie}, {"numThread", strconv.Itoa(m.NumThread)}}
	for i, ep := range m.Endpoints {
		pairs = append(pairs, kv{"endpoint." + strconv.Itoa(i), ep})
	}
	return encodeKV(append(pairs, condInputKV(m.ExtraKV)...)), nil
}
func (m *PortalOprOut) Decode(b []byte) errors.Error {
	pairs, e := decodeKV(b)
	if e != nil {
		return e
	}
	f, extra := splitPairs(pairs)
	m.Cookie = f["cookie"]
	if f["numThread"] != "" {
		i, err := strconv.Atoi(f["numThread"])
		if err != nil {
			return ErrWireFormat.ErrorParent(err)
		}
		m.NumThread = i
	}
	m.Endpoints = make([]string, m.NumThread)
	for i := 0; i < m.NumThread; i++ {
		m.Endpoints[i] = f["endpoint."+strconv.Itoa(i)]
	}
	m.ExtraKV = extra
	return nil
}

// EndTransaction commits or rolls back the server-side transaction wrapping
// the preceding requests; Status<0 requests a rollback.
type EndTransaction struct {
	Status  int
	ExtraKV map[string]string
}

func (m *EndTransaction) Name() string { return "EndTransaction" }
func (m *EndTransaction) Version() int { return 1 }
func (m *EndTransaction) Encode() ([]byte, errors.Error) {
	pairs := []kv{{"status", strconv.Itoa(m.Status)}}
	return encodeKV(append(pairs, condInputKV(m.ExtraKV)...)), nil
}
func (m *EndTransaction) Decode(b []byte) errors.Error {
	pairs, e := decodeKV(b)
	if e != nil {
		return e
	}
	f, extra := splitPairs(pairs)
	if f["status"] != "" {
		i, err := strconv.Atoi(f["status"])
		if err != nil {
			return ErrWireFormat.ErrorParent(err)
		}
		m.Status = i
	}
	m.ExtraKV = extra
	return nil
}
