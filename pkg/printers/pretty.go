// Package printers renders shell output: listings, history, grep hits and the
// trash.
package printers

import (
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/fsh/pkg/entry"
	"tableflip.dev/fsh/pkg/search"
	"tableflip.dev/fsh/pkg/trash"
)

type PrettyPrint struct {
	Out io.Writer
}

var (
	green  = color.New(color.FgGreen, color.Bold)
	yellow = color.New(color.FgYellow, color.Bold)
	red    = color.New(color.FgRed, color.Bold)
	dir    = color.New(color.FgBlue, color.Bold)
	faint  = color.New(color.Faint, color.Italic)
	bold   = color.New(color.Bold)
)

func (pp *PrettyPrint) w() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

// Note prints a faint informational line.
func (pp *PrettyPrint) Note(format string, args ...interface{}) {
	_, _ = fmt.Fprintln(pp.w(), faint.Sprintf(format, args...))
}

// Text prints s as is, adding a trailing newline when missing.
func (pp *PrettyPrint) Text(s string) {
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, _ = io.WriteString(pp.w(), s)
}

// FileRow is one line of a directory listing.
type FileRow struct {
	Name     string
	Mode     fs.FileMode
	Size     int64
	Modified time.Time
}

func (r FileRow) display() string {
	if r.Mode.IsDir() {
		return dir.Sprint(r.Name + "/")
	}
	return r.Name
}

// Names prints one entry name per line.
func (pp *PrettyPrint) Names(rows ...FileRow) {
	for _, r := range rows {
		_, _ = fmt.Fprintln(pp.w(), r.display())
	}
}

// LongListing prints a table of name, permissions, size and modification time.
func (pp *PrettyPrint) LongListing(rows ...FileRow) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Perms"), bold.Sprint("Size"), bold.Sprint("Modified"), bold.Sprint("Name"))
	for _, r := range rows {
		size := humanize.Bytes(uint64(r.Size))
		if r.Mode.IsDir() {
			size = "-"
		}
		tbl.AddRow(r.Mode.String(), size, r.Modified.Local().Format("2006-01-02 15:04:05"), r.display())
	}
	tbl.RightAlign(1)
	_, _ = fmt.Fprintln(pp.w(), tbl)
}

// History prints the journal, oldest first, numbered from 1.
func (pp *PrettyPrint) History(entries ...entry.Entry) {
	if len(entries) == 0 {
		pp.Note("history is empty")
		return
	}
	for i, e := range entries {
		_, _ = fmt.Fprintf(pp.w(), "%s:%s:%s\n",
			green.Sprint(strconv.Itoa(i+1)), yellow.Sprint(e.Timestamp.Short()), e.Raw)
	}
}

// Matches prints grep hits as path:line:text with the matches highlighted.
// display maps an absolute path to what the user should see.
func (pp *PrettyPrint) Matches(display func(string) string, matches ...search.Match) {
	for _, m := range matches {
		_, _ = fmt.Fprintf(pp.w(), "%s:%s:%s\n",
			green.Sprint(display(m.Path)), yellow.Sprint(strconv.Itoa(m.Line)), highlight(m))
	}
}

func highlight(m search.Match) string {
	var b strings.Builder
	last := 0
	for _, span := range m.Spans {
		b.WriteString(m.Text[last:span[0]])
		b.WriteString(red.Sprint(m.Text[span[0]:span[1]]))
		last = span[1]
	}
	b.WriteString(m.Text[last:])
	return b.String()
}

// Trash prints the trash slots with their origin and age.
func (pp *PrettyPrint) Trash(now time.Time, slots ...trash.Slot) {
	if len(slots) == 0 {
		pp.Note("trash is empty")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Slot"), bold.Sprint("Deleted"), bold.Sprint("Original"))
	for _, s := range slots {
		deleted := "unknown"
		if !s.Deleted.IsZero() {
			deleted = humanize.RelTime(s.Deleted, now, "ago", "from now")
		}
		original := s.Original
		if original == "" {
			original = faint.Sprint("unknown")
		}
		tbl.AddRow(s.Name, deleted, original)
	}
	_, _ = fmt.Fprintln(pp.w(), tbl)
}
