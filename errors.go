// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package pdfdocx

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a conversion failure.
type ErrorKind string

const (
	KindNotFound                     ErrorKind = "not_found"
	KindInvalidInput                 ErrorKind = "invalid_input"
	KindUnreadable                   ErrorKind = "unreadable"
	KindConversionFailed             ErrorKind = "conversion_failed"
	KindRasterizationUnavailable     ErrorKind = "rasterization_unavailable"
	KindRasterizationFailed          ErrorKind = "rasterization_failed"
	KindRecognitionEngineUnavailable ErrorKind = "recognition_engine_unavailable"
	KindRecognitionFailed            ErrorKind = "recognition_failed"
	KindInvalidArgument              ErrorKind = "invalid_argument"
	KindCanceled                     ErrorKind = "canceled"
	KindUnknown                      ErrorKind = "unknown"
)

// Error is the error type returned by every operation in this package.
// Message is suitable for direct display to a user.
type Error struct {
	Kind    ErrorKind
	Path    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, path string, err error, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// FailedConversionAttempt records one structural conversion attempt that failed.
type FailedConversionAttempt struct {
	Attempt string
	Err     error
}

// ConversionError is returned when every structural attempt failed. The last
// attempt is the fallback; earlier attempts are kept for diagnosis.
type ConversionError struct {
	Attempts []FailedConversionAttempt
}

func (e *ConversionError) Error() string {
	if len(e.Attempts) == 0 {
		return "conversion failed"
	}
	var b strings.Builder
	b.WriteString("conversion failed after ")
	fmt.Fprintf(&b, "%d attempt(s):", len(e.Attempts))
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, "\n  %s: %v", a.Attempt, a.Err)
	}
	return b.String()
}

func (e *ConversionError) Unwrap() error {
	if len(e.Attempts) > 0 {
		return e.Attempts[len(e.Attempts)-1].Err
	}
	return nil
}

// KindOf returns the kind of err, KindCanceled for context errors and
// KindUnknown for anything else.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var target *Error
	if errors.As(err, &target) {
		return target.Kind
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled
	}
	return KindUnknown
}

// IsDependencyUnavailable reports whether err means a system dependency
// (renderer or recognition engine) is missing. Such failures repeat for every
// file, so a batch stops on the first one.
func IsDependencyUnavailable(err error) bool {
	switch KindOf(err) {
	case KindRasterizationUnavailable, KindRecognitionEngineUnavailable:
		return true
	}
	return false
}

// IsNotFound reports whether err is a missing-input error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
