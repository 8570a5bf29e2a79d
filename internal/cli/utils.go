package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/bilgehannal/sitehost/internal/registrar"
	"github.com/bilgehannal/sitehost/pkg/hostsfile"
	"github.com/dustin/go-humanize"
	"github.com/rodaine/table"
)

func init() {
	table.DefaultHeaderFormatter = func(format string, vals ...interface{}) string {
		return strings.ToUpper(fmt.Sprintf(format, vals...))
	}
}

// PrintHosts prints the entries of a hosts file
func PrintHosts(w io.Writer, hosts *hostsfile.File, size int64) {
	fmt.Fprintf(w, "\n=== %s (%s, %d lines) ===\n\n", hosts.Path(), humanize.Bytes(uint64(size)), hosts.Len())

	tbl := table.New("Line", "Address", "Hostnames", "Comment").WithWriter(w)
	entries := 0
	for i, record := range hosts.Records() {
		if !record.IsEntry() {
			continue
		}
		entries++
		tbl.AddRow(i+1, record.Address(), strings.Join(record.Names(), " "), strings.TrimSpace(record.Comment()))
	}

	if entries == 0 {
		fmt.Fprintln(w, "No entries found")
		return
	}

	tbl.Print()
	fmt.Fprintln(w)
}

// PrintReport prints the per-site outcome of a run
func PrintReport(w io.Writer, report *registrar.Report) {
	if report.Empty() {
		fmt.Fprintln(w, "Nothing to do")
		return
	}

	tbl := table.New("Action", "Site", "Hosts file", "Virtual hosts file").WithWriter(w)
	for _, o := range report.Installed {
		tbl.AddRow("register", o.Domain, status(o.Hosts), status(o.Vhosts))
	}
	for _, o := range report.Removed {
		tbl.AddRow("unregister", o.Domain, status(o.Hosts), status(o.Vhosts))
	}
	tbl.Print()

	if n := report.Failures(); n > 0 {
		fmt.Fprintf(w, "\n%d site(s) were not fully processed\n", n)
	}
}

func status(err error) string {
	if err != nil {
		return err.Error()
	}
	return "done"
}

// PrintError prints an error message
func PrintError(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "✗ Error: "+format+"\n", args...)
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "✓ "+format+"\n", args...)
}
