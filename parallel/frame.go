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
	"encoding/binary"
	"io"

	errors "github.com/nabbar/irodsgo/errors"
)

// frameFlag tags one [flag][offset][length][bytes] frame per spec.md §4.7.
type frameFlag uint32

const (
	flagData frameFlag = iota
	flagDone
)

// frameHeaderSize is the encoded size of flag+offset+length: 4+8+4 bytes.
const frameHeaderSize = 4 + 8 + 4

func writeFrame(w io.Writer, flag frameFlag, offset int64, payload []byte) errors.Error {
	hdr := make([]byte, frameHeaderSize)
	binary.BigEndian.PutUint32(hdr[0:4], uint32(flag))
	binary.BigEndian.PutUint64(hdr[4:12], uint64(offset))
	binary.BigEndian.PutUint32(hdr[12:16], uint32(len(payload)))

	if _, err := w.Write(hdr); err != nil {
		return ErrFrame.ErrorParent(err)
	}
	if len(payload) > 0 {
		if _, err := w.Write(payload); err != nil {
			return ErrFrame.ErrorParent(err)
		}
	}
	return nil
}

func readFrame(r io.Reader) (flag frameFlag, offset int64, payload []byte, err errors.Error) {
	hdr := make([]byte, frameHeaderSize)
	if _, e := io.ReadFull(r, hdr); e != nil {
		return 0, 0, nil, ErrFrame.ErrorParent(e)
	}

	flag = frameFlag(binary.BigEndian.Uint32(hdr[0:4]))
	offset = int64(binary.BigEndian.Uint64(hdr[4:12]))
	length := binary.BigEndian.Uint32(hdr[12:16])

	if flag == flagDone {
		return flag, offset, nil, nil
	}

	payload = make([]byte, length)
	if length > 0 {
		if _, e := io.ReadFull(r, payload); e != nil {
			return 0, 0, nil, ErrFrame.ErrorParent(e)
		}
	}
	return flag, offset, payload, nil
}
