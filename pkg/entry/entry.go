// Package entry defines the journal record written for every successfully
// executed command.
package entry

import (
	"time"

	"tableflip.dev/fsh/pkg/command"
)

// Entry is the durable projection of a command.Parsed.
type Entry struct {
	ID          string       `json:"id"`
	Raw         string       `json:"raw"`
	Name        string       `json:"name"`
	Flags       []string     `json:"flags"`
	Positionals []string     `json:"positionals"`
	Cwd         string       `json:"cwd"`
	Timestamp   Timestamp    `json:"timestamp"`
	Meta        command.Meta `json:"meta"`
}

// New snapshots cmd. The returned entry shares no mutable state with cmd.
func New(id string, cmd *command.Parsed, cwd string, at time.Time) Entry {
	return Entry{
		ID:          id,
		Raw:         cmd.Raw,
		Name:        cmd.Name,
		Flags:       cmd.FlagList(),
		Positionals: append([]string{}, cmd.Positionals...),
		Cwd:         cwd,
		Timestamp:   Timestamp{Time: at},
		Meta:        cmd.Meta.Clone(),
	}
}

// Command rebuilds the invocation this entry recorded, with a private copy of
// its metadata.
func (e Entry) Command() *command.Parsed {
	p := command.New(e.Name, e.Flags, append([]string{}, e.Positionals...)...)
	p.Raw = e.Raw
	p.Meta = e.Meta.Clone()
	return p
}

func (e Entry) String() string {
	return e.Raw
}
