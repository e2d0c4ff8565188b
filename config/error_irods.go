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

package config

import errors "github.com/nabbar/irodsgo/errors"

// Error codes for the pipeline configuration loader (config.Load). Kept
// under their own MinPkgIrodsConfig range, distinct from the component
// registry's pre-existing MinPkgConfig error codes above in errors.go.
const (
	ErrorPipelineLoad errors.CodeError = iota + errors.MinPkgIrodsConfig
	ErrorPipelineDecode
	ErrorPipelineValidate
)

var isIrodsCodeError = false

func IsIrodsCodeError() bool {
	return isIrodsCodeError
}

func init() {
	isIrodsCodeError = errors.ExistInMapMessage(ErrorPipelineLoad)
	errors.RegisterIdFctMessage(ErrorPipelineLoad, getIrodsMessage)
}

func getIrodsMessage(code errors.CodeError) (message string) {
	switch code {
	case ErrorPipelineLoad:
		return "config : cannot read pipeline config file"
	case ErrorPipelineDecode:
		return "config : cannot decode pipeline config"
	case ErrorPipelineValidate:
		return "config : pipeline config failed validation"
	}

	return ""
}
