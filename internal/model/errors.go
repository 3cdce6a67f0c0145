package model

import (
	"errors"
	"fmt"
)

// Reference and geometry errors are recoverable at the single-operation level.
var (
	// ErrBlockNotFound indicates an operation refers to a block id that is not on the canvas.
	ErrBlockNotFound = errors.New("model: no block with that id")
	// ErrInvalidCut indicates the cut coordinate or point does not lie strictly inside the block.
	ErrInvalidCut = errors.New("model: cut is not strictly inside the block")
	// ErrShapeMismatch indicates a swap between blocks of different sizes.
	ErrShapeMismatch = errors.New("model: blocks have different shapes")
)

// Structural errors mean the canvas itself is broken.
var (
	// ErrMalformedCanvas indicates the blocks do not tile the canvas.
	ErrMalformedCanvas = errors.New("model: malformed canvas")
	// ErrNestedComposite indicates a composite block with composite children.
	ErrNestedComposite = errors.New("model: nested composite blocks are not supported")
)

// ErrNotSupported indicates an operation that is defined but has no mutation semantics yet.
var ErrNotSupported = errors.New("model: operation not supported")

// OpError records a failed operation and the reason it failed.
type OpError struct {
	Op  Operation
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func opError(op Operation, err error) error {
	return &OpError{Op: op, Err: err}
}
