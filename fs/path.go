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

// Package fs implements C6: a path-centric file/collection surface over a
// connected handle, with canonicalized paths and a lazily-populated,
// explicitly invalidated stat cache.
package fs

import "strings"

// Path is an absolute iRODS path, stored as an ordered sequence of
// segments so the absolute string is always reconstructable, per
// spec.md §4.5.
type Path struct {
	segments []string
}

// NewPath canonicalizes raw against home (used only when raw is not
// already absolute): backslashes become '/', repeated separators
// collapse, '.' segments are dropped, and '..' pops the previous
// segment or is discarded outright at the root.
func NewPath(raw string, home string) Path {
	raw = strings.ReplaceAll(raw, "\\", "/")

	abs := strings.HasPrefix(raw, "/")
	if !abs {
		home = strings.ReplaceAll(home, "\\", "/")
		raw = home + "/" + raw
	}

	return Path{segments: canonicalSegments(raw)}
}

func canonicalSegments(raw string) []string {
	parts := strings.Split(raw, "/")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		switch p {
		case "", ".":
			continue
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, p)
		}
	}

	return out
}

// String reconstructs the absolute path.
func (p Path) String() string {
	if len(p.segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.segments, "/")
}

// Leaf returns the final path segment, or "" for the root.
func (p Path) Leaf() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// Parent returns the path one level up; the root's parent is itself.
func (p Path) Parent() Path {
	if len(p.segments) == 0 {
		return p
	}
	out := make([]string, len(p.segments)-1)
	copy(out, p.segments[:len(p.segments)-1])
	return Path{segments: out}
}

// Join appends a child segment (canonicalized) to p and returns the result.
func (p Path) Join(child string) Path {
	joined := canonicalSegments(strings.Join(p.segments, "/") + "/" + child)
	return Path{segments: joined}
}

// Equal reports whether p and o resolve to the same canonical path.
func (p Path) Equal(o Path) bool {
	if len(p.segments) != len(o.segments) {
		return false
	}
	for i := range p.segments {
		if p.segments[i] != o.segments[i] {
			return false
		}
	}
	return true
}
