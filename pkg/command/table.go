package command

import "sort"

// Flag is one boolean flag a command accepts. Name is the canonical (long)
// spelling stored in Parsed.Flags; Short is an optional one-letter alias.
type Flag struct {
	Name  string
	Short string
	Usage string
}

// Spec is the flag vocabulary and positional bounds of one command.
type Spec struct {
	Name   string
	Flags  []Flag
	MinPos int
	MaxPos int
	Usage  string
}

// Table maps command names to their Spec. It is the single source of truth for
// both the parser and the validator.
type Table map[string]Spec

// Lookup returns the spec for name.
func (t Table) Lookup(name string) (Spec, bool) {
	s, ok := t[name]
	return s, ok
}

// Names returns the command names sorted alphabetically.
func (t Table) Names() []string {
	out := make([]string, 0, len(t))
	for n := range t {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

var (
	recursive  = Flag{Name: "recursive", Short: "r", Usage: "operate on directories recursively"}
	long       = Flag{Name: "long", Short: "l", Usage: "long listing"}
	ignoreCase = Flag{Name: "ignore-case", Short: "i", Usage: "match case-insensitively"}
)

// DefaultTable returns the commands fsh understands.
func DefaultTable() Table {
	specs := []Spec{
		{Name: "ls", Flags: []Flag{long}, MinPos: 0, MaxPos: 1, Usage: "ls [path] -l"},
		{Name: "cd", MinPos: 1, MaxPos: 1, Usage: "cd <path>"},
		{Name: "cat", MinPos: 1, MaxPos: 1, Usage: "cat <file>"},
		{Name: "cp", Flags: []Flag{recursive}, MinPos: 2, MaxPos: 2, Usage: "cp <source> <dest> -r"},
		{Name: "mv", Flags: []Flag{recursive}, MinPos: 2, MaxPos: 2, Usage: "mv <source> <dest> -r"},
		{Name: "rm", Flags: []Flag{recursive}, MinPos: 1, MaxPos: 1, Usage: "rm <path> -r"},
		{Name: "zip", MinPos: 2, MaxPos: 2, Usage: "zip <folder> <archive.zip>"},
		{Name: "unzip", MinPos: 1, MaxPos: 1, Usage: "unzip <archive.zip>"},
		{Name: "tar", MinPos: 2, MaxPos: 2, Usage: "tar <folder> <archive.tar>"},
		{Name: "untar", MinPos: 1, MaxPos: 1, Usage: "untar <archive.tar>"},
		{Name: "grep", Flags: []Flag{recursive, ignoreCase}, MinPos: 2, MaxPos: 2, Usage: "grep <pattern> <path> -i -r"},
		{Name: "history", MinPos: 0, MaxPos: 0, Usage: "history"},
		{Name: "undo", MinPos: 0, MaxPos: 0, Usage: "undo"},
		{Name: "trash", MinPos: 0, MaxPos: 0, Usage: "trash"},
	}
	t := make(Table, len(specs))
	for _, s := range specs {
		t[s.Name] = s
	}
	return t
}
