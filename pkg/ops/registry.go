package ops

import (
	"context"
	"sort"

	"tableflip.dev/fsh/pkg/command"
	"tableflip.dev/fsh/pkg/session"
)

// Registry maps command names to operations.
type Registry struct {
	ops map[string]Operation
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ops: map[string]Operation{}}
}

// Register binds name to op, replacing any earlier binding.
func (r *Registry) Register(name string, op Operation) {
	r.ops[name] = op
}

// Lookup returns the operation registered for name.
func (r *Registry) Lookup(name string) (Operation, bool) {
	op, ok := r.ops[name]
	return op, ok
}

// Reversible reports whether the operation registered for name can undo itself.
func (r *Registry) Reversible(name string) bool {
	op, ok := r.ops[name]
	if !ok {
		return false
	}
	_, ok = op.(Reverser)
	return ok
}

// Names returns the registered command names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.ops))
	for n := range r.ops {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Undo reverses cmd with the operation registered under its name.
func (r *Registry) Undo(ctx context.Context, cmd *command.Parsed, s *session.Session) error {
	op, ok := r.ops[cmd.Name]
	if !ok {
		return command.Wrap(cmd.Name, command.ErrNoHandler)
	}
	rv, ok := op.(Reverser)
	if !ok {
		return &command.UnsupportedError{Command: cmd.Name}
	}
	return rv.Undo(ctx, cmd, s)
}

// Default registers every built-in operation except undo, which needs the
// registry itself and is bound by the caller.
func Default(env Env) *Registry {
	log := env.logger()
	rm := &Remove{Bin: env.Bin, Confirm: env.Confirm, Log: log.Named("rm")}

	r := NewRegistry()
	r.Register("ls", &List{Out: env.printer()})
	r.Register("cd", &Cd{})
	r.Register("cat", &Cat{Out: env.printer()})
	r.Register("cp", &Copy{Remove: rm, Log: log.Named("cp")})
	r.Register("mv", &Move{Log: log.Named("mv")})
	r.Register("rm", rm)
	r.Register("zip", &Zip{Log: log.Named("zip")})
	r.Register("unzip", &Unzip{Log: log.Named("unzip")})
	r.Register("tar", &Tar{Log: log.Named("tar")})
	r.Register("untar", &Untar{Log: log.Named("untar")})
	r.Register("grep", &Grep{Out: env.printer(), Log: log.Named("grep")})
	r.Register("history", &History{Out: env.printer()})
	r.Register("trash", &Trash{Bin: env.Bin, Out: env.printer(), Now: env.clock()})
	return r
}
