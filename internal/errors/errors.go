package errors

import (
	"context"
	"errors"
	"fmt"

	"modgraph/internal/config"
	"modgraph/internal/graph"
	"modgraph/internal/graphfile"
	"modgraph/internal/modules"
	"modgraph/internal/progress"
	"modgraph/internal/storage"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// NodeNotFound indicates a node named on the command line is not in the graph
	NodeNotFound ErrorCode = "NODE_NOT_FOUND"
	// InvalidGraph indicates a graph file or graph view failed validation
	InvalidGraph ErrorCode = "INVALID_GRAPH"
	// Canceled indicates a search was canceled or ran out of time
	Canceled ErrorCode = "CANCELED"
	// PathNotMapped indicates no registered root contains the path
	PathNotMapped ErrorCode = "PATH_NOT_MAPPED"
	// ModuleNotFound indicates a module id is unknown
	ModuleNotFound ErrorCode = "MODULE_NOT_FOUND"
	// SnapshotNotFound indicates a stored snapshot does not exist
	SnapshotNotFound ErrorCode = "SNAPSHOT_NOT_FOUND"
	// ConfigInvalid indicates .modgraph/config.json failed validation
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// EditFile suggests editing a file
	EditFile FixActionType = "edit-file"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	File        string        `json:"file,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
}

// Error represents a modgraph error with code, message, and suggestions
type Error struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// New creates a new Error with the default fixes for its code
func New(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	NodeNotFound: {
		{
			Type:        RunCommand,
			Command:     "modgraph scc --graph <file>",
			Safe:        true,
			Description: "List the nodes the graph actually contains",
		},
	},
	ModuleNotFound: {
		{
			Type:        RunCommand,
			Command:     "modgraph modules",
			Safe:        true,
			Description: "List detected modules and their ids",
		},
	},
	SnapshotNotFound: {
		{
			Type:        RunCommand,
			Command:     "modgraph snapshot list",
			Safe:        true,
			Description: "List stored snapshots",
		},
	},
	ConfigInvalid: {
		{
			Type:        EditFile,
			File:        ".modgraph/config.json",
			Description: "Fix the reported configuration field",
		},
	},
	Canceled: {
		{
			Type:        RunCommand,
			Command:     "modgraph kpaths --timeout <ms>",
			Safe:        true,
			Description: "Retry with a longer timeout or a smaller -k",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}

// FromError maps an error returned by the library packages onto a coded
// Error. Errors that already carry a code are returned unchanged.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	var coded *Error
	if errors.As(err, &coded) {
		return coded
	}

	var cfgErr *config.ConfigError
	switch {
	case errors.Is(err, progress.ErrProcessCanceled),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return New(Canceled, "search canceled", err)
	case errors.Is(err, graph.ErrNodeNotFound):
		return New(NodeNotFound, "node not found", err)
	case errors.Is(err, graph.ErrInconsistentEdges),
		errors.Is(err, graphfile.ErrEmptyNodeName),
		errors.Is(err, graphfile.ErrUnsupportedFormat):
		return New(InvalidGraph, "invalid graph", err)
	case errors.Is(err, modules.ErrPathNotMapped):
		return New(PathNotMapped, "path is not under any module root", err)
	case errors.Is(err, modules.ErrModuleNotFound):
		return New(ModuleNotFound, "module not found", err)
	case errors.Is(err, storage.ErrSnapshotNotFound):
		return New(SnapshotNotFound, "snapshot not found", err)
	case errors.As(err, &cfgErr):
		return New(ConfigInvalid, "invalid configuration", err)
	}
	return New(InternalError, "unexpected error", err)
}
