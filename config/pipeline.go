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

// Package config loads account.PipelineConfig from a file, with
// environment-variable overrides, the way the teacher's viper package
// drives its own component registration: SetConfigFile, AutomaticEnv,
// a registered decode hook, then Unmarshal.
package config

import (
	"strings"

	libdur "github.com/nabbar/irodsgo/duration"
	errors "github.com/nabbar/irodsgo/errors"
	account "github.com/nabbar/irodsgo/account"

	libmap "github.com/mitchellh/mapstructure"
	libvpr "github.com/spf13/viper"
)

const envPrefix = "IRODSGO"

// Default returns the built-in PipelineConfig unmodified by any file or
// environment override, identical to account.Default(). Callers that
// only need sane defaults (tests, example programs without a config
// file) can skip Load entirely.
func Default() *account.PipelineConfig {
	return account.Default()
}

// Load reads path (any format viper supports by extension: yaml, json,
// toml, ...) into a copy of the built-in defaults, applies environment
// variable overrides under the IRODSGO_ prefix (e.g.
// IRODSGO_PARALLEL_THREAD_COUNT), decodes day-notation Duration fields
// via duration.ViperDecoderHook, and validates the result.
func Load(path string) (*account.PipelineConfig, errors.Error) {
	v := libvpr.New()
	v.SetConfigFile(path)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, ErrorPipelineLoad.ErrorParent(err)
	}

	cfg := Default()

	dec, err := libmap.NewDecoder(&libmap.DecoderConfig{
		DecodeHook:       libmap.ComposeDecodeHookFunc(libdur.ViperDecoderHook()),
		WeaklyTypedInput: true,
		Result:           cfg,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, ErrorPipelineDecode.ErrorParent(err)
	}

	if err = dec.Decode(v.AllSettings()); err != nil {
		return nil, ErrorPipelineDecode.ErrorParent(err)
	}

	if e := cfg.Validate(); e != nil {
		return nil, ErrorPipelineValidate.ErrorParent(e)
	}

	return cfg, nil
}
