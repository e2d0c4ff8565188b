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
	"fmt"
	"sync"
	"sync/atomic"

	libval "github.com/go-playground/validator/v10"

	account "github.com/nabbar/irodsgo/account"
	errors "github.com/nabbar/irodsgo/errors"
)

// ErrorPolicy governs what happens to the remaining files in a recursive
// transfer after one file fails.
type ErrorPolicy int

const (
	ContinueOnError ErrorPolicy = iota
	FailFast
)

// Options tunes one transfer. Validated the same way account.Account and
// account.PipelineConfig are, via go-playground/validator struct tags.
type Options struct {
	ForceOverwrite      bool        `mapstructure:"force_overwrite" json:"force_overwrite" yaml:"force_overwrite" toml:"force_overwrite"`
	ComputeChecksum     bool        `mapstructure:"compute_checksum" json:"compute_checksum" yaml:"compute_checksum" toml:"compute_checksum"`
	VerifyChecksum      bool        `mapstructure:"verify_checksum" json:"verify_checksum" yaml:"verify_checksum" toml:"verify_checksum"`
	ParallelThreadCount int         `mapstructure:"parallel_thread_count" json:"parallel_thread_count" yaml:"parallel_thread_count" toml:"parallel_thread_count" validate:"min=0,max=64"`
	AllowRedirect       bool        `mapstructure:"allow_redirect" json:"allow_redirect" yaml:"allow_redirect" toml:"allow_redirect"`
	ErrorPolicy         ErrorPolicy `mapstructure:"error_policy" json:"error_policy" yaml:"error_policy" toml:"error_policy" validate:"oneof=0 1"`
}

// Validate checks Options' struct tag constraints.
func (o *Options) Validate() errors.Error {
	e := ErrValidatorError.Error(nil)

	if err := libval.New().Struct(o); err != nil {
		if er, ok := err.(*libval.InvalidValidationError); ok {
			e.Add(er)
		}

		for _, er := range err.(libval.ValidationErrors) {
			e.Add(fmt.Errorf("transfer options field '%s' is not validated by constraint '%s'", er.Namespace(), er.ActualTag()))
		}
	}

	if !e.HasParent() {
		return nil
	}
	return e
}

// DefaultOptions derives conservative Options from a pipeline
// configuration, per spec.md §4.6 ("if no control block is supplied one
// is created with defaults derived from pipeline configuration").
func DefaultOptions(cfg *account.PipelineConfig) Options {
	threads := 4
	if cfg != nil && cfg.ParallelThreadCount > 0 {
		threads = cfg.ParallelThreadCount
	}

	return Options{
		ForceOverwrite:      false,
		ComputeChecksum:     false,
		VerifyChecksum:      false,
		ParallelThreadCount: threads,
		AllowRedirect:       true,
		ErrorPolicy:         ContinueOnError,
	}
}

// ControlBlock is the mutable shared state of one transfer: cancellation
// flag and counters are atomic so C8's worker goroutines can update them
// without a lock (spec.md §5's "Shared-resource policy"); Options is
// read-only for the life of the block so no synchronization is needed
// around it.
type ControlBlock struct {
	mu sync.Mutex

	cancelled atomic.Bool

	filesTotal      atomic.Int64
	filesDone       atomic.Int64
	bytesTotal      atomic.Int64
	bytesDone       atomic.Int64
	errCount        atomic.Int64

	Options Options
}

// NewControlBlock builds a ControlBlock with opts; when opts is nil,
// DefaultOptions(cfg) is used.
func NewControlBlock(opts *Options, cfg *account.PipelineConfig) *ControlBlock {
	o := DefaultOptions(cfg)
	if opts != nil {
		o = *opts
	}
	return &ControlBlock{Options: o}
}

// Cancel requests cooperative cancellation; observed at each file boundary
// and at each parallel-stream frame boundary (spec.md §5).
func (c *ControlBlock) Cancel() {
	c.cancelled.Store(true)
}

// Cancelled reports whether Cancel has been called.
func (c *ControlBlock) Cancelled() bool {
	return c.cancelled.Load()
}

// AddBytes atomically increments the transferred-byte counter; called from
// any worker goroutine.
func (c *ControlBlock) AddBytes(n int64) {
	c.bytesDone.Add(n)
}

// SetTotals records the pre-walk file/byte counts.
func (c *ControlBlock) SetTotals(files, bytes int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filesTotal.Store(files)
	c.bytesTotal.Store(bytes)
}

// FileDone increments the completed-file counter.
func (c *ControlBlock) FileDone() {
	c.filesDone.Add(1)
}

// FileFailed increments the error counter.
func (c *ControlBlock) FileFailed() {
	c.errCount.Add(1)
}

// Snapshot returns the current counters for building a Status event.
func (c *ControlBlock) Snapshot() (filesDone, filesTotal, bytesDone, bytesTotal, errs int64) {
	return c.filesDone.Load(), c.filesTotal.Load(), c.bytesDone.Load(), c.bytesTotal.Load(), c.errCount.Load()
}
