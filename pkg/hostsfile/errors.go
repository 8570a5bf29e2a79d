package hostsfile

import (
	"errors"
	"fmt"
)

// Record and file errors
var (
	ErrAliasExists   = errors.New("hostname already has an alias")
	ErrAliasNotFound = errors.New("hostname doesn't have an alias")
	ErrDuplicateName = errors.New("hostname is already included in this record")
	ErrNameNotFound  = errors.New("hostname does not belong to this record")
	ErrInvalidRecord = errors.New("invalid record")
	ErrNotLoaded     = errors.New("hosts file is not loaded")
)

// IOError indicates the hosts file could not be read or written
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("cannot %s hosts file '%s': %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// AliasError reports a rejected alias operation on a File
type AliasError struct {
	Name    string
	Address string
	Err     error
}

func (e *AliasError) Error() string {
	if e.Address == "" {
		return fmt.Sprintf("alias '%s': %v", e.Name, e.Err)
	}
	return fmt.Sprintf("alias '%s' (%s): %v", e.Name, e.Address, e.Err)
}

func (e *AliasError) Unwrap() error {
	return e.Err
}

// NameError reports a rejected name operation on a single Record
type NameError struct {
	Name string
	Err  error
}

func (e *NameError) Error() string {
	return fmt.Sprintf("hostname '%s': %v", e.Name, e.Err)
}

func (e *NameError) Unwrap() error {
	return e.Err
}
