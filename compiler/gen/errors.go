package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	// ErrInvalidSchema is matched by every *SchemaError.
	ErrInvalidSchema = errors.New("sprocgen: invalid schema")
	// ErrMissingConfig is matched by every *ConfigError.
	ErrMissingConfig = errors.New("sprocgen: missing configuration")
	// ErrGenerationFailed is matched by every *GenerationError.
	ErrGenerationFailed = errors.New("sprocgen: code generation failed")
)

// SchemaError reports a schema document that could not be turned into a
// table model. The generators themselves never return it: tables handed to
// them are trusted.
type SchemaError struct {
	Table   string // Table name (if known)
	Column  string // Column name (if applicable)
	Message string
	Cause   error
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("sprocgen: schema error")
	if e.Table != "" {
		b.WriteString(" on table " + e.Table)
	}
	if e.Column != "" {
		b.WriteString(" column " + e.Column)
	}
	appendDetail(&b, e.Message, e.Cause)
	return b.String()
}

func (e *SchemaError) Unwrap() error { return e.Cause }

func (e *SchemaError) Is(target error) bool { return target == ErrInvalidSchema }

// NewSchemaError returns a SchemaError for a table (and optionally one of
// its columns) of a loaded document.
func NewSchemaError(table, column, message string, cause error) *SchemaError {
	return &SchemaError{Table: table, Column: column, Message: message, Cause: cause}
}

// ConfigError reports an invalid or missing Config value. Option is the
// Config field name, e.g. "OutputMode".
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("sprocgen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("sprocgen: config error for %q: %s", e.Option, e.Message)
}

func (e *ConfigError) Is(target error) bool { return target == ErrMissingConfig }

// NewConfigError returns a ConfigError for option.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}

// GenerationError reports a failure while rendering or writing output.
// File is relative to the output directory.
type GenerationError struct {
	Phase   string // "sql", "host", "write", "manifest"
	File    string
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("sprocgen: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase " + e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: " + e.File + ")")
	}
	appendDetail(&b, e.Message, e.Cause)
	return b.String()
}

func (e *GenerationError) Unwrap() error { return e.Cause }

func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailed }

// NewGenerationError returns a GenerationError raised in phase while
// producing file.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{Phase: phase, File: file, Message: message, Cause: cause}
}

func appendDetail(b *strings.Builder, message string, cause error) {
	if message != "" {
		b.WriteString(": " + message)
	}
	if cause != nil {
		b.WriteString(": " + cause.Error())
	}
}

// IsSchemaError reports whether err wraps a *SchemaError.
func IsSchemaError(err error) bool {
	var target *SchemaError
	return errors.As(err, &target)
}

// IsConfigError reports whether err wraps a *ConfigError.
func IsConfigError(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}

// IsGenerationError reports whether err wraps a *GenerationError.
func IsGenerationError(err error) bool {
	var target *GenerationError
	return errors.As(err, &target)
}
