package engine

import (
	"fmt"
	"time"
)

// Kind distinguishes the two triggering event shapes
type Kind string

// Snapshot kinds
const (
	KindPrompt Kind = "prompt"
	KindFileOp Kind = "file-op"
)

// Operation is the file operation that produced a file-op event
type Operation string

// File operations
const (
	OpEdit  Operation = "edit"
	OpWrite Operation = "write"
	OpRead  Operation = "read"
)

// ParseOperation validates an operation string
func ParseOperation(s string) (Operation, error) {
	switch Operation(s) {
	case OpEdit, OpWrite, OpRead:
		return Operation(s), nil
	default:
		return "", &InvalidContextError{Field: "operation", Reason: fmt.Sprintf("unknown operation %q", s)}
	}
}

// InvalidContextError indicates malformed input to the context builder.
// Rejected per call; other evaluations are unaffected.
type InvalidContextError struct {
	Field  string
	Reason string
}

func (e *InvalidContextError) Error() string {
	return fmt.Sprintf("invalid context: %s: %s", e.Field, e.Reason)
}

// Snapshot is an immutable record of one triggering event. Exactly one of
// Prompt and Path is populated, matching Kind.
type Snapshot struct {
	Kind   Kind
	Prompt string
	Path   string
	Op     Operation
	At     time.Time
}

// PromptSnapshot builds a snapshot for a prompt event
func PromptSnapshot(text string) Snapshot {
	return Snapshot{
		Kind:   KindPrompt,
		Prompt: text,
		At:     time.Now(),
	}
}

// FileOpSnapshot builds a snapshot for a file-operation event
func FileOpSnapshot(path string, op Operation) (Snapshot, error) {
	if path == "" {
		return Snapshot{}, &InvalidContextError{Field: "path", Reason: "empty path"}
	}
	if _, err := ParseOperation(string(op)); err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Kind: KindFileOp,
		Path: path,
		Op:   op,
		At:   time.Now(),
	}, nil
}
