package dialect

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbkeeper/pkg/consts"
	"github.com/pseudomuto/dbkeeper/pkg/process"
)

// maxLine bounds a single dump line. Extended inserts put a whole table on one line.
const maxLine = 1 << 30

// save streams the stdout of req into out, one line at a time, keeping only the
// lines accepted by keep. A partially written out is removed when the process
// fails.
func (c *client) save(ctx context.Context, step string, req process.Request, out string, keep func(string) bool) (err error) {
	f, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, consts.ModeFile)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", out)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "failed to close %s", out)
		}
		if err != nil {
			_ = os.Remove(out)
		}
	}()

	w := bufio.NewWriter(f)
	req.OnLine = func(line string) error {
		if keep != nil && !keep(line) {
			return nil
		}

		_, werr := w.WriteString(line + "\n")
		return werr
	}

	if _, err = c.run(ctx, step, req); err != nil {
		return err
	}

	return errors.Wrapf(w.Flush(), "failed to write %s", out)
}

// rewrite replaces path with the lines produced by transform. The new content is
// written to a temporary file next to path and renamed over it, so path is
// either fully rewritten or left untouched.
func rewrite(path string, transform func(line string, w *bufio.Writer) error) (err error) {
	in, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", path)
	}
	defer func() { _ = in.Close() }()

	tmp, err := os.CreateTemp(filepath.Dir(path), consts.TempPattern)
	if err != nil {
		return errors.Wrap(err, "failed to create temporary file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	w := bufio.NewWriter(tmp)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLine)
	for scanner.Scan() {
		if err := transform(scanner.Text(), w); err != nil {
			_ = tmp.Close()
			return errors.Wrapf(err, "failed to normalize %s", path)
		}
	}

	if err := scanner.Err(); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "failed to read %s", path)
	}

	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "failed to write %s", tmp.Name())
	}

	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", tmp.Name())
	}

	if err := os.Chmod(tmp.Name(), consts.ModeFile); err != nil {
		return errors.Wrapf(err, "failed to set mode of %s", tmp.Name())
	}

	return errors.Wrapf(os.Rename(tmp.Name(), path), "failed to replace %s", path)
}

// writeTemp concatenates parts into a new temporary file and returns its path.
// The caller removes it.
func writeTemp(parts ...io.Reader) (string, error) {
	tmp, err := os.CreateTemp("", consts.TempPattern)
	if err != nil {
		return "", errors.Wrap(err, "failed to create temporary file")
	}

	w := bufio.NewWriter(tmp)
	for _, part := range parts {
		if _, err := io.Copy(w, part); err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
			return "", errors.Wrapf(err, "failed to write %s", tmp.Name())
		}
	}

	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", errors.Wrapf(err, "failed to write %s", tmp.Name())
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", errors.Wrapf(err, "failed to close %s", tmp.Name())
	}

	return tmp.Name(), nil
}
