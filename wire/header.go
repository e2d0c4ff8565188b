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

// Package wire implements the iRODS framed message codec: the four-part
// request/response frame (header, structured body, error blob, binary blob)
// and the named, versioned pack-instruction schemas carried in the body.
package wire

import (
	"encoding/binary"
	"io"

	errors "github.com/nabbar/irodsgo/errors"
)

// maxFrameLen bounds a single declared length field to keep a corrupt or
// hostile header from driving an out-of-memory allocation.
const maxFrameLen = 256 << 20

// Header is the fixed-width frame preamble: a type tag followed by four
// big-endian length fields declaring the size of the parts that follow it.
type Header struct {
	Type     string
	MsgLen   uint32
	ErrorLen uint32
	BsLen    uint32
	IntInfo  int32
}

// NewHeader builds a Header describing a body/error/binary triple about to
// be written for the given pack-instruction type tag.
func NewHeader(msgType string, msgLen, errorLen, bsLen uint32, intInfo int32) Header {
	return Header{Type: msgType, MsgLen: msgLen, ErrorLen: errorLen, BsLen: bsLen, IntInfo: intInfo}
}

// WriteHeader writes the iRODS frame preamble: a big-endian uint32 giving
// the tag length, the tag bytes, then the four big-endian length fields.
func WriteHeader(w io.Writer, h Header) errors.Error {
	tag := []byte(h.Type)
	if len(tag) > maxFrameLen {
		return wireFormatError(ErrLengthOverflow, nil)
	}

	buf := make([]byte, 4+len(tag)+4+4+4+4)
	binary.BigEndian.PutUint32(buf[0:4], uint32(len(tag)))
	copy(buf[4:4+len(tag)], tag)
	o := 4 + len(tag)
	binary.BigEndian.PutUint32(buf[o:o+4], h.MsgLen)
	binary.BigEndian.PutUint32(buf[o+4:o+8], h.ErrorLen)
	binary.BigEndian.PutUint32(buf[o+8:o+12], h.BsLen)
	binary.BigEndian.PutUint32(buf[o+12:o+16], uint32(h.IntInfo))

	if _, e := w.Write(buf); e != nil {
		return wireFormatError(ErrTruncatedFrame, e)
	}
	return nil
}

// ReadHeader reads back the frame preamble written by WriteHeader.
func ReadHeader(r io.Reader) (Header, errors.Error) {
	var lenBuf [4]byte
	if _, e := io.ReadFull(r, lenBuf[:]); e != nil {
		return Header{}, wireFormatError(ErrTruncatedFrame, e)
	}

	tagLen := binary.BigEndian.Uint32(lenBuf[:])
	if tagLen > maxFrameLen {
		return Header{}, wireFormatError(ErrLengthOverflow, nil)
	}

	tag := make([]byte, tagLen)
	if _, e := io.ReadFull(r, tag); e != nil {
		return Header{}, wireFormatError(ErrTruncatedFrame, e)
	}

	var rest [16]byte
	if _, e := io.ReadFull(r, rest[:]); e != nil {
		return Header{}, wireFormatError(ErrTruncatedFrame, e)
	}

	h := Header{
		Type:     string(tag),
		MsgLen:   binary.BigEndian.Uint32(rest[0:4]),
		ErrorLen: binary.BigEndian.Uint32(rest[4:8]),
		BsLen:    binary.BigEndian.Uint32(rest[8:12]),
		IntInfo:  int32(binary.BigEndian.Uint32(rest[12:16])),
	}

	for _, l := range []uint32{h.MsgLen, h.ErrorLen, h.BsLen} {
		if l > maxFrameLen {
			return Header{}, wireFormatError(ErrLengthOverflow, nil)
		}
	}

	return h, nil
}

func wireFormatError(code errors.CodeError, parent error) errors.Error {
	if parent != nil {
		return code.ErrorParent(parent)
	}
	return code.Error()
}
