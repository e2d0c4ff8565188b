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

package security

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"io"

	errors "github.com/nabbar/irodsgo/errors"
)

// CBCWriter wraps an io.Writer and emits each Write call as one
// [iv_len][iv][cipher_len][cipher_bytes] frame on a parallel data socket:
// a fresh IV per frame, PKCS#7 padding, AES-CBC encryption. The
// struct-holding-a-closure shape mirrors crypt/writer.go's adapter.
type CBCWriter struct {
	w   io.Writer
	blk cipher.Block
}

// NewCBCWriter builds a CBCWriter bound to the session's derived key.
func NewCBCWriter(w io.Writer, key []byte) (*CBCWriter, errors.Error) {
	blk, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrKeyDerivation.ErrorParent(err)
	}
	return &CBCWriter{w: w, blk: blk}, nil
}

func (c *CBCWriter) Write(p []byte) (int, error) {
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return 0, ErrKeyDerivation.ErrorParent(err)
	}

	padded := pkcs7Pad(p, aes.BlockSize)
	cipherText := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.blk, iv).CryptBlocks(cipherText, padded)

	frame := make([]byte, 4+len(iv)+4+len(cipherText))
	binary.BigEndian.PutUint32(frame[0:4], uint32(len(iv)))
	copy(frame[4:4+len(iv)], iv)
	binary.BigEndian.PutUint32(frame[4+len(iv):8+len(iv)], uint32(len(cipherText)))
	copy(frame[8+len(iv):], cipherText)

	if _, err := c.w.Write(frame); err != nil {
		return 0, err
	}
	return len(p), nil
}

// CBCReader is the read-side counterpart of CBCWriter. crypt/reader.go's
// receive-path decrypt was left unimplemented; this one fully decrypts.
type CBCReader struct {
	r   io.Reader
	blk cipher.Block
	buf []byte
}

// NewCBCReader builds a CBCReader bound to the session's derived key.
func NewCBCReader(r io.Reader, key []byte) (*CBCReader, errors.Error) {
	blk, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrKeyDerivation.ErrorParent(err)
	}
	return &CBCReader{r: r, blk: blk}, nil
}

func (c *CBCReader) Read(p []byte) (int, error) {
	if len(c.buf) == 0 {
		if err := c.readFrame(); err != nil {
			return 0, err
		}
	}

	n := copy(p, c.buf)
	c.buf = c.buf[n:]
	return n, nil
}

func (c *CBCReader) readFrame() error {
	var lenBuf [4]byte

	if _, err := io.ReadFull(c.r, lenBuf[:]); err != nil {
		return err
	}
	ivLen := binary.BigEndian.Uint32(lenBuf[:])
	if ivLen != aes.BlockSize {
		return ErrWireFormat.Error(nil)
	}

	iv := make([]byte, ivLen)
	if _, err := io.ReadFull(c.r, iv); err != nil {
		return err
	}

	if _, err := io.ReadFull(c.r, lenBuf[:]); err != nil {
		return err
	}
	cipherLen := binary.BigEndian.Uint32(lenBuf[:])
	if cipherLen == 0 || cipherLen%aes.BlockSize != 0 {
		return ErrWireFormat.Error(nil)
	}

	cipherText := make([]byte, cipherLen)
	if _, err := io.ReadFull(c.r, cipherText); err != nil {
		return err
	}

	plain := make([]byte, len(cipherText))
	cipher.NewCBCDecrypter(c.blk, iv).CryptBlocks(plain, cipherText)

	unpadded, e := pkcs7Unpad(plain, aes.BlockSize)
	if e != nil {
		return e
	}

	c.buf = unpadded
	return nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padding := bytes.Repeat([]byte{byte(padLen)}, padLen)
	return append(append([]byte{}, data...), padding...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, errors.Error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrWireFormat.Error(nil)
	}

	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, ErrWireFormat.Error(nil)
	}

	return data[:len(data)-padLen], nil
}
