package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/PayRam/go-dbquery/queryerr"
	"github.com/PayRam/go-dbquery/response"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The database could not be reached or refused the statement
	ExitCommandError = 2 // Invalid arguments or configuration
)

// Error codes reported in CLIError.Code.
const (
	ErrCodeGeneric        = "E001"
	ErrCodeConfig         = "E002"
	ErrCodeValidation     = "E003"
	ErrCodeConnection     = "E004"
	ErrCodeQueryExecution = "E005"
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles json, yaml and text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status" yaml:"status"`                   // "ok" or "error"
	Data   any       `json:"data,omitempty" yaml:"data,omitempty"`   // success payload
	Error  *CLIError `json:"error,omitempty" yaml:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
	Kind    string `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	switch f.Format {
	case "json":
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	case "yaml":
		return f.encodeYAML(data)
	default:
		return writeText(f.Writer, data)
	}
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, kind queryerr.Kind) error {
	cliErr := &CLIError{Code: code, Message: message, Kind: string(kind)}
	switch f.Format {
	case "json":
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "error", Error: cliErr})
	case "yaml":
		return f.encodeYAML(CLIResponse{Status: "error", Error: cliErr})
	default:
		_, err := color.New(color.FgRed).Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
		return err
	}
}

// Fail reports err and returns it wrapped with the exit code of its kind.
func (f *OutputFormatter) Fail(err error) error {
	kind := queryerr.KindOf(err)
	code, exit := ErrCodeGeneric, ExitFailure
	switch kind {
	case queryerr.Validation:
		code, exit = ErrCodeValidation, ExitCommandError
	case queryerr.Connection:
		code = ErrCodeConnection
	case queryerr.QueryExecution:
		code = ErrCodeQueryExecution
	}
	_ = f.Error(code, err.Error(), kind)
	return WrapExitError(exit, "command failed", err)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// When format is json or yaml, verbose logs go to ErrWriter to keep the
// output parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

func (f *OutputFormatter) encodeYAML(v any) error {
	enc := yaml.NewEncoder(f.Writer)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func writeText(w io.Writer, data any) error {
	bold := color.New(color.Bold)

	switch v := data.(type) {
	case []response.Row:
		if len(v) == 0 {
			_, err := fmt.Fprintln(w, "no rows")
			return err
		}
		for i, row := range v {
			if i > 0 {
				fmt.Fprintln(w)
			}
			bold.Fprintf(w, "# %d\n", i+1)
			keys := make([]string, 0, len(row))
			for k := range row {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(w, "%s: %v\n", k, textValue(row[k]))
			}
		}
	case *response.FAQStatistics:
		fmt.Fprintf(w, "total: %d\n", v.TotalCount)
		bold.Fprintln(w, "by ticket_type")
		for _, s := range v.TicketTypeStats {
			fmt.Fprintf(w, "  %-24s %d\n", textValue(s.TicketType), s.Count)
		}
		bold.Fprintln(w, "by issue_module")
		for _, s := range v.IssueModuleStats {
			fmt.Fprintf(w, "  %-24s %d\n", textValue(s.IssueModule), s.Count)
		}
	case *response.MenuStatistics:
		fmt.Fprintf(w, "total: %d\n", v.TotalCount)
		bold.Fprintln(w, "by menu_type")
		for _, s := range v.MenuTypeStats {
			fmt.Fprintf(w, "  %-24s %d\n", textValue(s.MenuType), s.Count)
		}
		bold.Fprintln(w, "by is_disable")
		for _, s := range v.StatusStats {
			fmt.Fprintf(w, "  %-24s %d\n", textValue(s.IsDisable), s.Count)
		}
	default:
		_, err := fmt.Fprintln(w, v)
		return err
	}
	return nil
}

func textValue(v any) any {
	switch x := v.(type) {
	case nil:
		return "(null)"
	case *string:
		if x == nil {
			return "(null)"
		}
		return *x
	default:
		return v
	}
}
