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

package account

import (
	"fmt"

	libval "github.com/go-playground/validator/v10"
	libdur "github.com/nabbar/irodsgo/duration"
	errors "github.com/nabbar/irodsgo/errors"
)

// PipelineConfig is the immutable tuning snapshot captured at connection
// birth: timeouts, buffer sizes, and the PBKDF2/AES parameters negotiated
// by C5. Every field here appears in the external configuration surface.
type PipelineConfig struct {
	SocketTimeout         libdur.Duration `mapstructure:"irods_socket_timeout" json:"irods_socket_timeout" yaml:"irods_socket_timeout" toml:"irods_socket_timeout"`
	ParallelSocketTimeout libdur.Duration `mapstructure:"irods_parallel_socket_timeout" json:"irods_parallel_socket_timeout" yaml:"irods_parallel_socket_timeout" toml:"irods_parallel_socket_timeout"`

	InternalInputStreamBufferSize  int `mapstructure:"internal_input_stream_buffer_size" json:"internal_input_stream_buffer_size" yaml:"internal_input_stream_buffer_size" toml:"internal_input_stream_buffer_size"`
	InternalOutputStreamBufferSize int `mapstructure:"internal_output_stream_buffer_size" json:"internal_output_stream_buffer_size" yaml:"internal_output_stream_buffer_size" toml:"internal_output_stream_buffer_size"`
	InternalCacheBufferSize        int `mapstructure:"internal_cache_buffer_size" json:"internal_cache_buffer_size" yaml:"internal_cache_buffer_size" toml:"internal_cache_buffer_size"`
	SendInputStreamBufferSize      int `mapstructure:"send_input_stream_buffer_size" json:"send_input_stream_buffer_size" yaml:"send_input_stream_buffer_size" toml:"send_input_stream_buffer_size"`
	LocalFileInputStreamBufferSize  int `mapstructure:"local_file_input_stream_buffer_size" json:"local_file_input_stream_buffer_size" yaml:"local_file_input_stream_buffer_size" toml:"local_file_input_stream_buffer_size"`
	LocalFileOutputStreamBufferSize int `mapstructure:"local_file_output_stream_buffer_size" json:"local_file_output_stream_buffer_size" yaml:"local_file_output_stream_buffer_size" toml:"local_file_output_stream_buffer_size"`
	InputToOutputCopyBufferByteSize int `mapstructure:"input_to_output_copy_buffer_byte_size" json:"input_to_output_copy_buffer_byte_size" yaml:"input_to_output_copy_buffer_byte_size" toml:"input_to_output_copy_buffer_byte_size"`

	DefaultEncoding string `mapstructure:"default_encoding" json:"default_encoding" yaml:"default_encoding" toml:"default_encoding" validate:"required"`

	// SSLPolicy is this client's stance in the C3 negotiation matrix:
	// "REQUIRE", "DONT_CARE", or "REFUSE". Kept as a plain string rather
	// than auth.Policy to avoid account importing auth (which already
	// imports account for Scheme.Authenticate); conn translates it.
	SSLPolicy string `mapstructure:"ssl_policy" json:"ssl_policy" yaml:"ssl_policy" toml:"ssl_policy" validate:"required,oneof=REQUIRE DONT_CARE REFUSE"`

	EncryptionAlgorithm string `mapstructure:"encryption_algorithm" json:"encryption_algorithm" yaml:"encryption_algorithm" toml:"encryption_algorithm" validate:"required,oneof=AES-256-CBC"`
	KeySize             int    `mapstructure:"key_size" json:"key_size" yaml:"key_size" toml:"key_size" validate:"required,min=16"`
	SaltSize            int    `mapstructure:"salt_size" json:"salt_size" yaml:"salt_size" toml:"salt_size" validate:"required,min=8"`
	HashRounds           int   `mapstructure:"hash_rounds" json:"hash_rounds" yaml:"hash_rounds" toml:"hash_rounds" validate:"required,min=1"`

	// SingleBufferThreshold is the file-length cutoff below which a
	// transfer goes through one in-band bulk blob instead of the parallel
	// engine (spec §4.6).
	SingleBufferThreshold int64 `mapstructure:"single_buffer_threshold" json:"single_buffer_threshold" yaml:"single_buffer_threshold" toml:"single_buffer_threshold" validate:"required,min=1"`

	// ParallelThreadCount is the default degree of parallelism requested
	// for a large transfer when the caller's ControlBlock leaves it at 0.
	ParallelThreadCount int `mapstructure:"parallel_thread_count" json:"parallel_thread_count" yaml:"parallel_thread_count" toml:"parallel_thread_count" validate:"required,min=1,max=64"`
}

// Default returns the conservative built-in PipelineConfig, the same way a
// bare-bones client ships sane values before any file/env overrides apply.
func Default() *PipelineConfig {
	return &PipelineConfig{
		SocketTimeout:                   libdur.Seconds(120),
		ParallelSocketTimeout:           libdur.Seconds(600),
		InternalInputStreamBufferSize:   4 * 1024 * 1024,
		InternalOutputStreamBufferSize:  4 * 1024 * 1024,
		InternalCacheBufferSize:         8 * 1024 * 1024,
		SendInputStreamBufferSize:       4 * 1024 * 1024,
		LocalFileInputStreamBufferSize:  4 * 1024 * 1024,
		LocalFileOutputStreamBufferSize: 4 * 1024 * 1024,
		InputToOutputCopyBufferByteSize: 1024 * 1024,
		DefaultEncoding:                 "utf-8",
		SSLPolicy:                       "DONT_CARE",
		EncryptionAlgorithm:             "AES-256-CBC",
		KeySize:                         32,
		SaltSize:                        8,
		HashRounds:                      16,
		SingleBufferThreshold:           32 * 1024 * 1024,
		ParallelThreadCount:             4,
	}
}

// Validate checks struct tag constraints via go-playground/validator.
func (p *PipelineConfig) Validate() errors.Error {
	e := ErrorValidatorError.Error(nil)

	if err := libval.New().Struct(p); err != nil {
		if er, ok := err.(*libval.InvalidValidationError); ok {
			e.Add(er)
		}

		for _, er := range err.(libval.ValidationErrors) {
			e.Add(fmt.Errorf("pipeline config field '%s' is not validated by constraint '%s'", er.Namespace(), er.ActualTag()))
		}
	}

	if !e.HasParent() {
		return nil
	}
	return e
}
