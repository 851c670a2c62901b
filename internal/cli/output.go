package cli

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/roach88/apiquery/internal/jsonutil"
)

// OutputFormatter writes command results as text or as a JSON envelope.
type OutputFormatter struct {
	Format    string // "text" or "json"
	Writer    io.Writer
	ErrWriter io.Writer // diagnostics; falls back to Writer
	Verbose   bool

	// Logger receives verbose messages. The zero Logger discards them.
	Logger zerolog.Logger
}

// CLIResponse is the JSON envelope of every command.
type CLIResponse struct {
	Status  string      `json:"status"` // "ok" or "error"
	Data    interface{} `json:"data,omitempty"`
	Error   *CLIError   `json:"error,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
}

// CLIError is the error part of a CLIResponse.
type CLIError struct {
	Code    string      `json:"code"` // E001, E101, ...
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Success writes data. Text mode prints it with fmt.Println, so a URL
// string comes out bare.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.json() {
		return jsonutil.Encode(f.Writer, CLIResponse{Status: "ok", Data: data})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error writes an error result. Details are printed in text mode only
// with --verbose.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.json() {
		return jsonutil.Encode(f.Writer, CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Respond writes a complete envelope as indented JSON. Commands that
// report per-item results together with an overall error use it.
func (f *OutputFormatter) Respond(resp CLIResponse) error {
	return jsonutil.EncodeIndent(f.Writer, resp, "  ")
}

// VerboseLog logs at info level when --verbose is set. The logger writes
// to stderr so stdout stays parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if f.Verbose {
		f.Logger.Info().Msgf(format, args...)
	}
}

// GetErrWriter returns ErrWriter, or Writer when none is set.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

func (f *OutputFormatter) json() bool {
	return f.Format == "json"
}
