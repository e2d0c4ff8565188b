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
	"encoding/binary"
	"sort"

	errors "github.com/nabbar/irodsgo/errors"
)

// kv is one tag/value pair of a pack-instruction body.
type kv struct {
	Key string
	Val string
}

// encodeKV serializes an ordered list of tag/value pairs as
// [keyLen][key][valLen][val] repeated, length-prefixed with the pair count.
func encodeKV(pairs []kv) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(len(pairs)))

	for _, p := range pairs {
		k := []byte(p.Key)
		v := []byte(p.Val)

		h := make([]byte, 4+len(k)+4+len(v))
		binary.BigEndian.PutUint32(h[0:4], uint32(len(k)))
		copy(h[4:4+len(k)], k)
		binary.BigEndian.PutUint32(h[4+len(k):8+len(k)], uint32(len(v)))
		copy(h[8+len(k):], v)

		buf = append(buf, h...)
	}

	return buf
}

// decodeKV is the inverse of encodeKV.
func decodeKV(b []byte) ([]kv, errors.Error) {
	if len(b) < 4 {
		return nil, ErrTruncatedFrame.Error()
	}

	count := binary.BigEndian.Uint32(b[0:4])
	b = b[4:]

	out := make([]kv, 0, count)
	for i := uint32(0); i < count; i++ {
		if len(b) < 4 {
			return nil, ErrTruncatedFrame.Error()
		}
		kl := binary.BigEndian.Uint32(b[0:4])
		b = b[4:]
		if uint32(len(b)) < kl+4 {
			return nil, ErrTruncatedFrame.Error()
		}
		key := string(b[:kl])
		b = b[kl:]

		vl := binary.BigEndian.Uint32(b[0:4])
		b = b[4:]
		if uint32(len(b)) < vl {
			return nil, ErrTruncatedFrame.Error()
		}
		val := string(b[:vl])
		b = b[vl:]

		out = append(out, kv{Key: key, Val: val})
	}

	return out, nil
}

// splitPairs partitions decoded pairs into the instruction's fixed fields
// and its condInput map, stripping the "condInput." prefix from the latter.
func splitPairs(pairs []kv) (fields map[string]string, extra map[string]string) {
	fields = make(map[string]string, len(pairs))
	for _, p := range pairs {
		if len(p.Key) > len("condInput.") && p.Key[:len("condInput.")] == "condInput." {
			if extra == nil {
				extra = make(map[string]string)
			}
			extra[p.Key[len("condInput."):]] = p.Val
			continue
		}
		fields[p.Key] = p.Val
	}
	return fields, extra
}

// condInputKV flattens a condInput map into sorted tag/value pairs prefixed
// with "condInput." so the generic kv codec can carry it alongside the
// instruction's fixed fields, and decodeCondInput reverses it.
func condInputKV(extra map[string]string) []kv {
	if len(extra) == 0 {
		return nil
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]kv, 0, len(keys))
	for _, k := range keys {
		out = append(out, kv{Key: "condInput." + k, Val: extra[k]})
	}
	return out
}
