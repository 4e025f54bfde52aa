// Copyright 2021 FerretDB Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package lazyerrors wraps errors with the location of the code that produced them.
//
// It is used on propagation paths where the location is more useful than a hand-written prefix.
// Sentinel errors stay reachable with [errors.Is] and [errors.As].
package lazyerrors

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// located is an error prefixed with "file.go:line pkg.Func" of its creator.
type located struct {
	err error
	loc string
}

// Error implements error interface.
func (e *located) Error() string {
	return "[" + e.loc + "] " + e.err.Error()
}

// Unwrap returns the wrapped error.
func (e *located) Unwrap() error {
	return e.err
}

// Error wraps err with the caller location. It panics if err is nil.
func Error(err error) error {
	if err == nil {
		panic("lazyerrors.Error: err is nil")
	}

	return &located{err: err, loc: caller()}
}

// Errorf formats an error (%w is supported) and adds the caller location.
func Errorf(format string, a ...any) error {
	return &located{err: fmt.Errorf(format, a...), loc: caller()}
}

// caller returns the location of the function that called Error or Errorf.
func caller() string {
	pc, file, line, ok := runtime.Caller(2)
	if !ok {
		return "unknown"
	}

	res := filepath.Base(file) + ":" + strconv.Itoa(line)

	if fn := runtime.FuncForPC(pc); fn != nil {
		name := fn.Name()
		res += " " + name[strings.LastIndex(name, "/")+1:]
	}

	return res
}
