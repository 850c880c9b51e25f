package ops

import (
	"context"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"tableflip.dev/fsh/pkg/archive"
	"tableflip.dev/fsh/pkg/command"
	"tableflip.dev/fsh/pkg/fsutil"
	"tableflip.dev/fsh/pkg/session"
)

// packArgs resolves and checks the folder and archive of zip and tar.
func packArgs(cmd *command.Parsed, s *session.Session, ext string) (string, string, error) {
	src, err := s.Resolve(cmd.Arg(0))
	if err != nil {
		return "", "", command.Wrap(cmd.Name, err)
	}
	dest, err := s.Resolve(cmd.Arg(1))
	if err != nil {
		return "", "", command.Wrap(cmd.Name, err)
	}
	if !fsutil.Exists(src) {
		return "", "", command.Failf(cmd.Name, "cannot archive '%s': no such file or directory", cmd.Arg(0))
	}
	if !fsutil.IsDir(src) {
		return "", "", command.Failf(cmd.Name, "cannot archive '%s': not a directory", cmd.Arg(0))
	}
	if !strings.HasSuffix(strings.ToLower(dest), ext) {
		return "", "", command.Failf(cmd.Name, "archive name '%s' must end in %s", cmd.Arg(1), ext)
	}
	if fsutil.Exists(dest) {
		return "", "", command.Failf(cmd.Name, "cannot create '%s': file exists", cmd.Arg(1))
	}
	return src, dest, nil
}

// unpackArg resolves and checks the archive of unzip and untar.
func unpackArg(cmd *command.Parsed, s *session.Session, ext string) (string, error) {
	src, err := s.Resolve(cmd.Arg(0))
	if err != nil {
		return "", command.Wrap(cmd.Name, err)
	}
	if !fsutil.Exists(src) || fsutil.IsDir(src) {
		return "", command.Failf(cmd.Name, "cannot open archive '%s': no such file", cmd.Arg(0))
	}
	if !strings.HasSuffix(strings.ToLower(src), ext) {
		return "", command.Failf(cmd.Name, "'%s' is not a %s archive", cmd.Arg(0), ext)
	}
	return src, nil
}

// Zip packs a folder into a deflated zip archive.
type Zip struct {
	Log *zap.Logger
}

func (z *Zip) Execute(ctx context.Context, cmd *command.Parsed, s *session.Session) (command.Status, error) {
	src, dest, err := packArgs(cmd, s, ".zip")
	if err != nil {
		return command.Done, err
	}
	z.Log.Info("archiving", zap.String("src", src), zap.String("dest", dest))
	if err := archive.Zip(ctx, src, dest); err != nil {
		return command.Done, pathError(cmd.Name, "zip", cmd.Arg(0), err)
	}
	return command.Done, nil
}

// Unzip extracts a zip archive into a folder named after it in the session
// directory.
type Unzip struct {
	Log *zap.Logger
}

func (u *Unzip) Execute(ctx context.Context, cmd *command.Parsed, s *session.Session) (command.Status, error) {
	src, err := unpackArg(cmd, s, ".zip")
	if err != nil {
		return command.Done, err
	}
	base := filepath.Base(src)
	dest := filepath.Join(s.Cwd, base[:len(base)-len(".zip")])
	u.Log.Info("extracting", zap.String("src", src), zap.String("dest", dest))
	if err := archive.Unzip(ctx, src, dest); err != nil {
		return command.Done, pathError(cmd.Name, "unzip", cmd.Arg(0), err)
	}
	return command.Done, nil
}

// Tar packs a folder into a gzip-compressed tar archive.
type Tar struct {
	Log *zap.Logger
}

func (t *Tar) Execute(ctx context.Context, cmd *command.Parsed, s *session.Session) (command.Status, error) {
	src, dest, err := packArgs(cmd, s, ".tar")
	if err != nil {
		return command.Done, err
	}
	t.Log.Info("archiving", zap.String("src", src), zap.String("dest", dest))
	if err := archive.Tar(ctx, src, dest); err != nil {
		return command.Done, pathError(cmd.Name, "tar", cmd.Arg(0), err)
	}
	return command.Done, nil
}

// Untar extracts a tar archive into the session directory.
type Untar struct {
	Log *zap.Logger
}

func (u *Untar) Execute(ctx context.Context, cmd *command.Parsed, s *session.Session) (command.Status, error) {
	src, err := unpackArg(cmd, s, ".tar")
	if err != nil {
		return command.Done, err
	}
	u.Log.Info("extracting", zap.String("src", src), zap.String("dest", s.Cwd))
	if err := archive.Untar(ctx, src, s.Cwd); err != nil {
		return command.Done, pathError(cmd.Name, "untar", cmd.Arg(0), err)
	}
	return command.Done, nil
}
