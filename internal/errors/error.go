// Package errors provides structured, actionable error messages for the
// vnative command line.
//
// Library packages return plain wrapped errors with sentinels. The CLI turns
// them into an *Error carrying a code, a category, a plain-language detail
// and, when a fixture file is involved, the file location with surrounding
// lines:
//
//	err := errors.New("V002").
//	    WithLocation("trees/form.yaml", 7, 5).
//	    WithSuggestion("Use one of: column, row, vpane, hpane, block, ...")
//
//	fmt.Fprint(os.Stderr, err.Format())
package errors

import (
	"bufio"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/vango-dev/native/pkg/native"
)

// Category represents the type of error.
type Category string

const (
	CategoryFixture Category = "fixture"
	CategoryApply   Category = "apply"
	CategoryConfig  Category = "config"
	CategoryCLI     Category = "cli"
)

// Location is a position in a fixture or config file.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

// String returns the location as file:line[:column].
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Error is a structured error with a code, location and fix suggestion.
type Error struct {
	Code       string    `json:"code,omitempty"`
	Category   Category  `json:"category"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	Location   *Location `json:"location,omitempty"`
	Context    []string  `json:"-"`
	Suggestion string    `json:"suggestion,omitempty"`

	// Wrapped is the underlying error, if any.
	Wrapped error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds a file location and the lines around it.
func (e *Error) WithLocation(file string, line, column int) *Error {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithSuggestion adds a fix suggestion.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithDetail replaces the registered explanation.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// JSON returns the error as a JSON object.
func (e *Error) JSON() string {
	out := struct {
		*Error
		Cause string `json:"cause,omitempty"`
	}{Error: e}
	if e.Wrapped != nil {
		out.Cause = e.Wrapped.Error()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Error())
	}
	return string(data)
}

// readContextLines reads size lines centred on target.
func readContextLines(filename string, target, size int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	n := 0
	start, end := target-size/2, target+size/2
	for scanner.Scan() {
		n++
		if n >= start && n <= end {
			lines = append(lines, scanner.Text())
		}
		if n > end {
			break
		}
	}
	return lines
}

// New creates an Error from a registered code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{Code: code, Message: "Unknown error"}
	}
	return &Error{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates an Error with a formatted message and no code.
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps err, picking the code from the engine's sentinels when one
// matches and falling back to code otherwise.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	switch {
	case stderrors.Is(err, native.ErrIndexNotFound):
		code = "V020"
	case stderrors.Is(err, native.ErrCountMismatch):
		code = "V021"
	case stderrors.Is(err, native.ErrBuild):
		code = "V022"
	case stderrors.Is(err, native.ErrNotMounted), stderrors.Is(err, native.ErrDetached):
		code = "V023"
	}
	return New(code).Wrap(err)
}
