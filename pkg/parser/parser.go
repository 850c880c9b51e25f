// Package parser turns a line of input into a command.Parsed and checks it
// against the command table.
package parser

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"tableflip.dev/fsh/pkg/command"
)

// Parser tokenizes input lines. Flags are checked against the vocabulary
// declared in Table.
type Parser struct {
	Table command.Table
}

func New(t command.Table) *Parser {
	return &Parser{Table: t}
}

type token struct {
	text   string
	quoted bool
}

// Parse splits raw into name, flags and positionals.
func (p *Parser) Parse(raw string) (*command.Parsed, error) {
	normalized := strings.Join(strings.Fields(raw), " ")

	toks, err := split(raw)
	if err != nil {
		return nil, &command.ParsingError{Input: normalized, Reason: err.Error()}
	}
	if len(toks) == 0 {
		return nil, &command.ParsingError{Input: normalized, Reason: "empty command"}
	}

	name := toks[0].text
	spec, ok := p.Table.Lookup(name)
	if !ok {
		return nil, &command.ParsingError{
			Input:  normalized,
			Reason: fmt.Sprintf("command '%s' is not supported", name),
		}
	}

	var flagArgs, positionals []string
	endOfFlags := false
	for _, t := range toks[1:] {
		switch {
		case endOfFlags, t.quoted, !looksLikeFlag(t.text):
			positionals = append(positionals, t.text)
		case t.text == "--":
			endOfFlags = true
		default:
			flagArgs = append(flagArgs, t.text)
		}
	}

	fs := flagSet(spec)
	if err := fs.Parse(flagArgs); err != nil {
		reason := err.Error()
		if errors.Is(err, pflag.ErrHelp) {
			reason = "unknown flag: help"
		}
		return nil, &command.ParsingError{
			Input:  normalized,
			Reason: fmt.Sprintf("%s: %s", name, reason),
		}
	}
	positionals = append(positionals, fs.Args()...)

	if len(positionals) > spec.MaxPos {
		return nil, &command.ParsingError{
			Input:  normalized,
			Reason: fmt.Sprintf("%s takes at most %d positional arguments, got %d", name, spec.MaxPos, len(positionals)),
		}
	}

	cmd := &command.Parsed{
		Name:        name,
		Flags:       map[string]bool{},
		Positionals: positionals,
		Raw:         normalized,
		Meta:        command.Meta{},
	}
	fs.Visit(func(f *pflag.Flag) {
		if f.Value.String() == "true" {
			cmd.Flags[f.Name] = true
		}
	})
	return cmd, nil
}

func flagSet(spec command.Spec) *pflag.FlagSet {
	fs := pflag.NewFlagSet(spec.Name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	for _, f := range spec.Flags {
		fs.BoolP(f.Name, f.Short, false, f.Usage)
	}
	return fs
}

func looksLikeFlag(s string) bool {
	return len(s) > 1 && s[0] == '-'
}

// split breaks s on unquoted whitespace. Single quotes group text into one
// token and are stripped; there is no escaping inside them.
func split(s string) ([]token, error) {
	var (
		toks   []token
		cur    strings.Builder
		inTok  bool
		quoted bool
		inQ    bool
	)
	flush := func() {
		if inTok {
			toks = append(toks, token{text: cur.String(), quoted: quoted})
		}
		cur.Reset()
		inTok, quoted = false, false
	}
	for _, r := range s {
		switch {
		case inQ && r == '\'':
			inQ = false
		case inQ:
			cur.WriteRune(r)
		case r == '\'':
			inQ, inTok, quoted = true, true, true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			inTok = true
			cur.WriteRune(r)
		}
	}
	if inQ {
		return nil, errors.New("unterminated single quote")
	}
	flush()
	return toks, nil
}
