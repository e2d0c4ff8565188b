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
	"crypto/rand"
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

// Session is the negotiated session state produced once by Negotiate and
// consumed by C4/C8: immutable for the life of the connection.
type Session struct {
	SSLRequired      bool
	SharedSecret     []byte
	CipherAlgorithm  string
	KeySize          int
	SaltSize         int
	HashRounds       int
	salt             []byte
	key              []byte
}

// Negotiate derives the session key material once negotiation has picked
// a shared secret and salt; the derived key is then immutable.
func Negotiate(sslRequired bool, sharedSecret []byte, algorithm string, keySize, saltSize, rounds int) (*Session, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, ErrKeyDerivation.ErrorParent(err)
	}

	s := &Session{
		SSLRequired:     sslRequired,
		SharedSecret:    sharedSecret,
		CipherAlgorithm: algorithm,
		KeySize:         keySize,
		SaltSize:        saltSize,
		HashRounds:      rounds,
		salt:            salt,
	}
	s.key = DeriveKey(sharedSecret, salt, rounds, keySize)
	return s, nil
}

// Key returns the PBKDF2-derived AES key for this session.
func (s *Session) Key() []byte {
	return s.key
}

// Salt returns the per-session salt used to derive Key.
func (s *Session) Salt() []byte {
	return s.salt
}

// DeriveKey implements the key-derivation step of spec §4.4: PBKDF2 over
// the negotiated shared secret, with the per-session salt, rounds, and
// output length, using SHA-256 as the underlying PRF.
func DeriveKey(sharedSecret, salt []byte, rounds, keySize int) []byte {
	return pbkdf2.Key(sharedSecret, salt, rounds, keySize, sha256.New)
}
