package vhosts

import (
	"errors"
	"fmt"
)

// Editor errors
var (
	ErrSectionNotFound     = errors.New("section not found")
	ErrVirtualHostExists   = errors.New("VirtualHost is already registered")
	ErrVirtualHostNotFound = errors.New("VirtualHost is not registered")
)

// SyntaxError reports a malformed line in a virtual hosts file
type SyntaxError struct {
	Line   int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d: %s", e.Line, e.Reason)
}
