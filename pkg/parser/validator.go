package parser

import (
	"fmt"

	"tableflip.dev/fsh/pkg/command"
)

// Validator is the second gate after parsing: it checks the command is known
// and that the positional count is in range.
type Validator struct {
	Table command.Table
}

func NewValidator(t command.Table) *Validator {
	return &Validator{Table: t}
}

func (v *Validator) Validate(cmd *command.Parsed) error {
	spec, ok := v.Table.Lookup(cmd.Name)
	if !ok {
		return &command.ValidationError{
			Command: cmd.Name,
			Reason:  fmt.Sprintf("unknown command: %s", cmd.Name),
		}
	}
	n := len(cmd.Positionals)
	if n < spec.MinPos || n > spec.MaxPos {
		return &command.ValidationError{
			Command: cmd.Name,
			Reason: fmt.Sprintf("%s expects from %d to %d positional arguments, but %d were given",
				cmd.Name, spec.MinPos, spec.MaxPos, n),
		}
	}
	return nil
}
