package graph

import "errors"

var (
	// ErrUnknownNode is returned when an operation names a category that
	// is not in the graph.
	ErrUnknownNode = errors.New("unknown category node")

	// ErrEdgeNotFound is returned by RemoveEdge when the edge does not exist.
	ErrEdgeNotFound = errors.New("edge not found")

	// ErrInvalidDocument is returned by Load when the input is not a
	// persisted category graph.
	ErrInvalidDocument = errors.New("invalid category graph document")
)
