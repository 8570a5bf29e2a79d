package hostsfile

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/bilgehannal/sitehost/internal/fsutil"
)

const defaultFileMode fs.FileMode = 0644

// File is an ordered, line-for-line model of one hosts file on disk
type File struct {
	path    string
	records []*Record
	loaded  bool
}

// Load reads and parses the hosts file at path
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}

	return parse(path, data), nil
}

// Parse builds a File from r. Save writes the result to path.
func Parse(path string, r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}

	return parse(path, data), nil
}

func parse(path string, data []byte) *File {
	f := &File{
		path:   path,
		loaded: true,
	}

	for _, line := range splitLines(string(data)) {
		f.records = append(f.records, ParseLine(line))
	}

	return f
}

// splitLines accepts CRLF, LF and bare CR line endings. A trailing line
// ending does not produce an extra blank line.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.TrimSuffix(content, "\n")

	return strings.Split(content, "\n")
}

// Path returns the location the file was loaded from
func (f *File) Path() string {
	return f.path
}

// Len returns the number of lines in the file
func (f *File) Len() int {
	return len(f.records)
}

// Records returns a copy of every record in file order
func (f *File) Records() []Record {
	records := make([]Record, len(f.records))
	for i, r := range f.records {
		records[i] = r.clone()
	}
	return records
}

// Lookup returns the address a host name is aliased to
func (f *File) Lookup(name string) (string, bool) {
	if r, _ := f.recordForName(name); r != nil {
		return r.address, true
	}
	return "", false
}

// Aliases returns every name mapped to address, across all of its lines
func (f *File) Aliases(address string) []string {
	var names []string
	for _, r := range f.records {
		if r.IsEntry() && strings.EqualFold(r.address, address) {
			names = append(names, r.names...)
		}
	}
	return names
}

// AddAlias maps name to address. The name joins the first line that already
// carries address; otherwise a new line is appended to the file.
func (f *File) AddAlias(address, name string) error {
	if !f.loaded {
		return ErrNotLoaded
	}

	if owner, _ := f.recordForName(name); owner != nil {
		return &AliasError{Name: name, Address: owner.address, Err: ErrAliasExists}
	}

	r := f.recordForAddress(address)
	if r == nil {
		nr, err := NewRecord(address, []string{name}, "")
		if err != nil {
			return &AliasError{Name: name, Address: address, Err: err}
		}
		f.records = append(f.records, nr)
		return nil
	}

	if err := r.AddName(name); err != nil {
		if errors.Is(err, ErrDuplicateName) {
			err = ErrAliasExists
		}
		return &AliasError{Name: name, Address: address, Err: err}
	}

	return nil
}

// RemoveAlias removes name from the file. A line left without names is
// dropped together with its comment.
func (f *File) RemoveAlias(name string) error {
	if !f.loaded {
		return ErrNotLoaded
	}

	r, idx := f.recordForName(name)
	if r == nil {
		return &AliasError{Name: name, Err: ErrAliasNotFound}
	}

	if err := r.RemoveName(name); err != nil {
		return &AliasError{Name: name, Address: r.address, Err: ErrAliasNotFound}
	}

	if len(r.names) == 0 {
		f.records = slices.Delete(f.records, idx, idx+1)
	}

	return nil
}

// WriteTo writes every record in order
func (f *File) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, r := range f.records {
		n, err := io.WriteString(w, r.String())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Bytes returns the rendered file content
func (f *File) Bytes() []byte {
	var buf bytes.Buffer
	for _, r := range f.records {
		buf.WriteString(r.String())
	}
	return buf.Bytes()
}

// Save replaces the file on disk with the rendered records. A symlinked
// path updates the link target.
func (f *File) Save() error {
	if !f.loaded {
		return ErrNotLoaded
	}

	if err := fsutil.ReplaceFile(f.path, f.Bytes(), defaultFileMode); err != nil {
		return &IOError{Op: "write", Path: f.path, Err: err}
	}

	return nil
}

func (f *File) recordForName(name string) (*Record, int) {
	for i, r := range f.records {
		if r.HasName(name) {
			return r, i
		}
	}
	return nil, -1
}

func (f *File) recordForAddress(address string) *Record {
	for _, r := range f.records {
		if r.address != "" && strings.EqualFold(r.address, address) {
			return r
		}
	}
	return nil
}
