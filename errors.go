package treecodec

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error kinds.
var (
	// ErrUnknownSchema indicates no registered codec claims a binding.
	ErrUnknownSchema = errors.New("unknown schema")

	// ErrAmbiguousSchema indicates more than one codec claims the same
	// binding. This is a registry misconfiguration and is raised at
	// registration time, not per call.
	ErrAmbiguousSchema = errors.New("ambiguous schema")

	// ErrMalformedTree indicates a required key is absent or a
	// discriminator field holds an unrecognized value.
	ErrMalformedTree = errors.New("malformed tree")

	// ErrUnsupportedDimension indicates an encode was attempted under a
	// schema variant that cannot represent the model's shape.
	ErrUnsupportedDimension = errors.New("unsupported dimension")

	// ErrNotInvertible indicates the model's type declares no inverse.
	ErrNotInvertible = errors.New("not invertible")

	// ErrBindingConflict indicates a model already encoded in a session
	// was re-encoded under a different binding. A session maps each model
	// to a single shared node, so the node cannot carry two bindings.
	ErrBindingConflict = errors.New("binding conflict")
)

// SchemaError represents a dispatch or registration failure.
// It wraps a sentinel error with the binding or claim involved.
type SchemaError struct {
	Err    error  // Underlying sentinel error
	Tag    string // Schema tag or claim that triggered the error
	Detail string // Additional context (e.g. conflicting codec names)
}

func (e *SchemaError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Err.Error(), e.Tag, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Tag)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// TreeError represents a structural decode or encode failure on a tree.
type TreeError struct {
	Err    error  // Underlying sentinel error
	Codec  string // Codec handling the tree
	Key    string // Tree key involved, if any
	Detail string
}

func (e *TreeError) Error() string {
	msg := e.Err.Error()
	if e.Codec != "" {
		msg = e.Codec + ": " + msg
	}
	if e.Key != "" {
		msg = fmt.Sprintf("%s: key %q", msg, e.Key)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *TreeError) Unwrap() error {
	return e.Err
}

// newSchemaError creates a SchemaError for dispatch failures.
func newSchemaError(sentinel error, tag, detail string) error {
	return &SchemaError{Err: sentinel, Tag: tag, Detail: detail}
}

// newTreeError creates a TreeError for structural failures.
func newTreeError(sentinel error, codec, key, detail string) error {
	return &TreeError{Err: sentinel, Codec: codec, Key: key, Detail: detail}
}
