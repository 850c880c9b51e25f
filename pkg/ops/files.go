package ops

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"tableflip.dev/fsh/pkg/command"
	"tableflip.dev/fsh/pkg/fsutil"
	"tableflip.dev/fsh/pkg/session"
	"tableflip.dev/fsh/pkg/trash"
)

// requireRecursive fails when path is a non-empty directory and cmd lacks
// --recursive.
func requireRecursive(cmd *command.Parsed, verb, arg, path string) error {
	full, err := fsutil.IsNonEmptyDir(path)
	if err != nil {
		return pathError(cmd.Name, verb, arg, err)
	}
	if full && !cmd.Has(flagRecursive) {
		return command.Failf(cmd.Name, "cannot %s '%s': non-empty directory requires --recursive", verb, arg)
	}
	return nil
}

// intoDir returns the path src lands on when it is copied or moved to dst.
// An existing directory with a different name receives src inside it.
func intoDir(src, dst string) string {
	if fsutil.IsDir(dst) && filepath.Base(src) != filepath.Base(dst) {
		return filepath.Join(dst, filepath.Base(src))
	}
	return dst
}

// Copy duplicates a file or directory tree. The into-directory rule of Move
// applies.
//
// Meta: dest.
type Copy struct {
	Remove *Remove
	Log    *zap.Logger
}

func (c *Copy) Execute(ctx context.Context, cmd *command.Parsed, s *session.Session) (command.Status, error) {
	src, err := s.Resolve(cmd.Arg(0))
	if err != nil {
		return command.Done, command.Wrap(cmd.Name, err)
	}
	dst, err := s.Resolve(cmd.Arg(1))
	if err != nil {
		return command.Done, command.Wrap(cmd.Name, err)
	}
	if !fsutil.Exists(src) {
		return command.Done, command.Failf(cmd.Name, "cannot copy '%s': no such file or directory", cmd.Arg(0))
	}
	dst = intoDir(src, dst)
	if err := requireRecursive(cmd, "copy", cmd.Arg(0), src); err != nil {
		return command.Done, err
	}
	if fsutil.IsDir(src) && fsutil.Within(src, dst) {
		return command.Done, command.Failf(cmd.Name, "cannot copy '%s' into itself", cmd.Arg(0))
	}
	if fsutil.Exists(dst) {
		return command.Done, command.Failf(cmd.Name, "cannot copy to '%s': destination already exists", display(s, dst))
	}

	c.Log.Info("copying", zap.String("src", src), zap.String("dest", dst))
	if err := fsutil.Copy(ctx, src, dst); err != nil {
		return command.Done, pathError(cmd.Name, "copy", cmd.Arg(0), err)
	}
	cmd.Meta[MetaDest] = dst
	return command.Done, nil
}

// Undo deletes the copy permanently through a non-interactive rm.
func (c *Copy) Undo(ctx context.Context, cmd *command.Parsed, s *session.Session) error {
	dest, err := cmd.Meta.Require(MetaDest)
	if err != nil {
		return command.Wrap(cmd.Name, err)
	}
	rm := command.New("rm", []string{flagRecursive}, dest)
	rm.Meta[MetaNonInteractive] = "true"
	rm.Meta[MetaPermanent] = "true"
	_, err = c.Remove.Execute(ctx, rm, s)
	return err
}

// Move relocates a file or directory. When the destination is an existing
// directory with a different name, the source moves inside it.
//
// Meta: src, dest.
type Move struct {
	Log *zap.Logger
}

func (m *Move) Execute(ctx context.Context, cmd *command.Parsed, s *session.Session) (command.Status, error) {
	src, err := s.Resolve(cmd.Arg(0))
	if err != nil {
		return command.Done, command.Wrap(cmd.Name, err)
	}
	dst, err := s.Resolve(cmd.Arg(1))
	if err != nil {
		return command.Done, command.Wrap(cmd.Name, err)
	}
	if !fsutil.Exists(src) {
		return command.Done, command.Failf(cmd.Name, "cannot move '%s': no such file or directory", cmd.Arg(0))
	}
	dst = intoDir(src, dst)
	if err := requireRecursive(cmd, "move", cmd.Arg(0), src); err != nil {
		return command.Done, err
	}
	if fsutil.IsDir(src) && fsutil.Within(src, dst) {
		return command.Done, command.Failf(cmd.Name, "cannot move '%s' into itself", cmd.Arg(0))
	}
	if fsutil.Exists(dst) {
		return command.Done, command.Failf(cmd.Name, "cannot move to '%s': destination already exists", display(s, dst))
	}

	m.Log.Info("moving", zap.String("src", src), zap.String("dest", dst))
	if err := fsutil.Move(ctx, src, dst); err != nil {
		return command.Done, pathError(cmd.Name, "move", cmd.Arg(0), err)
	}
	cmd.Meta[MetaSrc] = src
	cmd.Meta[MetaDest] = dst
	return command.Done, nil
}

// Undo moves dest back to src. It refuses when src has reappeared.
func (m *Move) Undo(ctx context.Context, cmd *command.Parsed, s *session.Session) error {
	src, err := cmd.Meta.Require(MetaSrc)
	if err != nil {
		return command.Wrap(cmd.Name, err)
	}
	dest, err := cmd.Meta.Require(MetaDest)
	if err != nil {
		return command.Wrap(cmd.Name, err)
	}
	if fsutil.Exists(src) {
		return command.Failf(cmd.Name, "cannot move back to '%s': path already exists", src)
	}
	if !fsutil.Exists(dest) {
		return command.Failf(cmd.Name, "cannot move back '%s': no such file or directory", dest)
	}
	if err := os.MkdirAll(filepath.Dir(src), 0o755); err != nil {
		return command.Wrap(cmd.Name, err)
	}
	m.Log.Info("moving back", zap.String("src", dest), zap.String("dest", src))
	if err := fsutil.Move(ctx, dest, src); err != nil {
		return pathError(cmd.Name, "move back", dest, err)
	}
	return nil
}

// Remove sends a file or directory to the trash after confirmation.
//
// Meta read: non_interactive, permanent. Meta written: original_path,
// trash_id.
type Remove struct {
	Bin     *trash.Bin
	Confirm Confirmer
	Log     *zap.Logger
}

func (r *Remove) Execute(ctx context.Context, cmd *command.Parsed, s *session.Session) (command.Status, error) {
	target, err := s.Resolve(cmd.Arg(0))
	if err != nil {
		return command.Done, command.Wrap(cmd.Name, err)
	}
	if !fsutil.Exists(target) {
		return command.Done, command.Failf(cmd.Name, "cannot remove '%s': no such file or directory", cmd.Arg(0))
	}
	if err := requireRecursive(cmd, "remove", cmd.Arg(0), target); err != nil {
		return command.Done, err
	}

	if !cmd.Meta.Bool(MetaNonInteractive) {
		if r.Confirm == nil {
			return command.Done, command.Failf(cmd.Name, "cannot remove '%s': confirmation unavailable", cmd.Arg(0))
		}
		ok, err := r.Confirm.Confirm(fmt.Sprintf("remove '%s'?", cmd.Arg(0)))
		if err != nil {
			return command.Done, command.Wrap(cmd.Name, err)
		}
		if !ok {
			r.Log.Debug("removal declined", zap.String("path", target))
			return command.Declined, nil
		}
	}

	if cmd.Meta.Bool(MetaPermanent) {
		r.Log.Info("deleting", zap.String("path", target))
		if err := fsutil.Remove(target); err != nil {
			return command.Done, pathError(cmd.Name, "remove", cmd.Arg(0), err)
		}
		return command.Done, nil
	}

	if r.Bin == nil {
		return command.Done, command.Failf(cmd.Name, "cannot remove '%s': no trash configured", cmd.Arg(0))
	}
	r.Log.Info("trashing", zap.String("path", target), zap.String("trash", r.Bin.Dir()))
	slot, err := r.Bin.Put(ctx, target)
	if err != nil {
		return command.Done, pathError(cmd.Name, "remove", cmd.Arg(0), err)
	}
	cmd.Meta[MetaOriginalPath] = target
	cmd.Meta[MetaTrashID] = slot.ID
	return command.Done, nil
}

// Undo restores the trash slot to its original path.
func (r *Remove) Undo(ctx context.Context, cmd *command.Parsed, _ *session.Session) error {
	original, err := cmd.Meta.Require(MetaOriginalPath)
	if err != nil {
		return command.Wrap(cmd.Name, err)
	}
	id, err := cmd.Meta.Require(MetaTrashID)
	if err != nil {
		return command.Wrap(cmd.Name, err)
	}
	if r.Bin == nil {
		return command.Failf(cmd.Name, "cannot restore '%s': no trash configured", original)
	}
	if fsutil.Exists(original) {
		return command.Failf(cmd.Name, "cannot restore '%s': path already exists", original)
	}
	r.Log.Info("restoring", zap.String("path", original), zap.String("slot", trash.SlotName(id, original)))
	if err := r.Bin.Restore(ctx, id, original); err != nil {
		return command.Wrap(cmd.Name, err)
	}
	return nil
}
