// Package command holds the value types shared by the parser, the operations
// and the journal: a parsed invocation, its reversal metadata and the table of
// legal commands.
package command

import (
	"sort"
	"strings"
)

// Status reports how a dispatched command ended when it did not fail.
type Status int

const (
	// Done means the side effect was applied.
	Done Status = iota
	// Declined means the user refused a confirmation; nothing changed.
	Declined
	// Interrupted means execution was cancelled by a signal. Partial effects
	// are left in place.
	Interrupted
)

func (s Status) String() string {
	switch s {
	case Done:
		return "done"
	case Declined:
		return "declined"
	case Interrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// Meta is the hand-off from an operation's Execute to its Undo. Values are
// strings so the journal round trip is lossless.
type Meta map[string]string

// Require returns the value stored under key or an error wrapping
// ErrMissingMeta.
func (m Meta) Require(key string) (string, error) {
	v, ok := m[key]
	if !ok || v == "" {
		return "", &MissingMetaError{Key: key}
	}
	return v, nil
}

// Bool reports whether key holds "true".
func (m Meta) Bool(key string) bool {
	return m[key] == "true"
}

// Clone returns a copy that shares nothing with m.
func (m Meta) Clone() Meta {
	out := make(Meta, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Parsed is one validated (or about to be validated) input line.
type Parsed struct {
	Name        string
	Flags       map[string]bool
	Positionals []string
	Raw         string
	Meta        Meta
}

// New builds a Parsed with the given flags enabled and an empty Meta.
func New(name string, flags []string, positionals ...string) *Parsed {
	p := &Parsed{
		Name:        name,
		Flags:       make(map[string]bool, len(flags)),
		Positionals: positionals,
		Meta:        Meta{},
	}
	for _, f := range flags {
		p.Flags[f] = true
	}
	p.Raw = p.render()
	return p
}

// Has reports whether any of the named flags is enabled.
func (p *Parsed) Has(names ...string) bool {
	for _, n := range names {
		if p.Flags[n] {
			return true
		}
	}
	return false
}

// FlagList returns the enabled flags sorted by name.
func (p *Parsed) FlagList() []string {
	out := make([]string, 0, len(p.Flags))
	for f, on := range p.Flags {
		if on {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

// Arg returns the positional at i, or "" when absent.
func (p *Parsed) Arg(i int) string {
	if i < 0 || i >= len(p.Positionals) {
		return ""
	}
	return p.Positionals[i]
}

func (p *Parsed) render() string {
	parts := []string{p.Name}
	for _, f := range p.FlagList() {
		parts = append(parts, "--"+f)
	}
	for _, pos := range p.Positionals {
		if pos == "" || strings.ContainsAny(pos, " \t") {
			pos = "'" + pos + "'"
		}
		parts = append(parts, pos)
	}
	return strings.Join(parts, " ")
}
