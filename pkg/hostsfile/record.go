// Package hostsfile reads, edits and writes a hosts file while keeping
// comments, blank lines and unrelated entries intact.
package hostsfile

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
)

const (
	commentChar = "#"
	lineEnding  = "\r\n"
)

// Record is one line of the hosts file: an address with its host names,
// an optional trailing comment, or nothing at all.
type Record struct {
	address    string
	names      []string
	comment    string
	hasComment bool
}

// ParseLine builds a record from a raw hosts file line. A line with fewer
// than two fields before the comment keeps only its comment.
func ParseLine(line string) *Record {
	r := &Record{}

	line = strings.TrimSpace(line)
	if line == "" {
		return r
	}

	if idx := strings.Index(line, commentChar); idx >= 0 {
		r.comment = line[idx+1:]
		r.hasComment = true
		line = line[:idx]
	}

	fields := strings.Fields(line)
	if len(fields) < 2 {
		return r
	}

	r.address = fields[0]
	r.names = fields[1:]
	return r
}

// NewRecord creates a record from explicit values. An address requires at
// least one name and names require an address. An empty comment means no
// comment.
func NewRecord(address string, names []string, comment string) (*Record, error) {
	if (address == "") != (len(names) == 0) {
		return nil, fmt.Errorf("%w: a record must have both an address and a hostname or neither of them", ErrInvalidRecord)
	}
	if address != "" {
		if err := validateField(address); err != nil {
			return nil, err
		}
	}
	if strings.ContainsAny(comment, "\r\n") {
		return nil, fmt.Errorf("%w: comment spans multiple lines", ErrInvalidRecord)
	}

	r := &Record{
		address:    address,
		comment:    comment,
		hasComment: comment != "",
	}
	for _, name := range names {
		if err := r.AddName(name); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Address returns the record's address, or "" for comment and blank lines
func (r *Record) Address() string {
	return r.address
}

// Names returns a copy of the record's host names in line order
func (r *Record) Names() []string {
	return slices.Clone(r.names)
}

// Comment returns the text after '#', without the '#'
func (r *Record) Comment() string {
	return r.comment
}

// HasComment reports whether the line carries a comment, even an empty one
func (r *Record) HasComment() bool {
	return r.hasComment
}

// IsEntry reports whether the record maps an address to at least one name
func (r *Record) IsEntry() bool {
	return r.address != "" && len(r.names) > 0
}

// HasName reports whether name belongs to this record, ignoring case
func (r *Record) HasName(name string) bool {
	return r.nameIndex(name) >= 0
}

// AddName appends a host name. Its casing is kept as given.
func (r *Record) AddName(name string) error {
	if r.address == "" {
		return &NameError{Name: name, Err: fmt.Errorf("%w: record has no address", ErrInvalidRecord)}
	}
	if err := validateField(name); err != nil {
		return &NameError{Name: name, Err: err}
	}
	if r.HasName(name) {
		return &NameError{Name: name, Err: ErrDuplicateName}
	}

	r.names = append(r.names, name)
	return nil
}

// RemoveName removes a host name. Removing the last name is allowed; the
// owning File decides what happens to the emptied record.
func (r *Record) RemoveName(name string) error {
	idx := r.nameIndex(name)
	if idx < 0 {
		return &NameError{Name: name, Err: ErrNameNotFound}
	}

	r.names = slices.Delete(r.names, idx, idx+1)
	return nil
}

// String renders the record as a CRLF terminated hosts file line
func (r *Record) String() string {
	var b strings.Builder

	if r.IsEntry() {
		b.WriteString(r.address)
		b.WriteByte('\t')
		b.WriteString(strings.Join(r.names, " "))
	}

	if r.hasComment {
		if b.Len() > 0 {
			b.WriteByte('\t')
		}
		b.WriteString(commentChar)
		b.WriteString(r.comment)
	}

	b.WriteString(lineEnding)
	return b.String()
}

func (r *Record) nameIndex(name string) int {
	return slices.IndexFunc(r.names, func(n string) bool {
		return strings.EqualFold(n, name)
	})
}

func (r *Record) clone() Record {
	c := *r
	c.names = slices.Clone(r.names)
	return c
}

// validateField rejects values that would not survive a write and re-read
func validateField(value string) error {
	if value == "" {
		return fmt.Errorf("%w: empty field", ErrInvalidRecord)
	}
	if strings.ContainsAny(value, commentChar) || strings.IndexFunc(value, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: field %q contains whitespace or '#'", ErrInvalidRecord, value)
	}
	return nil
}
