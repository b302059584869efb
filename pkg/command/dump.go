package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbkeeper/pkg/consts"
	"github.com/pseudomuto/dbkeeper/pkg/environment"
)

// timestampLayout renders yyyyMMdd-HHmmss.
const timestampLayout = "20060102-150405"

// Dump writes a full dump of Source to <project>-<environment>-<timestamp>.sql.
type Dump struct {
	*App
	Source *environment.Environment

	// Dir is the output directory, the working directory when empty. It is
	// created when missing.
	Dir string
}

// Filename returns the name of the dump file written at the current time.
func (d *Dump) Filename() string {
	var name string
	if d.Config != nil {
		name = d.Config.Name
	}

	return fmt.Sprintf("%s-%s-%s.sql", name, d.Source.Name(), d.now().Format(timestampLayout))
}

func (d *Dump) Run(ctx context.Context) error {
	path := d.Filename()
	if d.Dir != "" {
		if err := os.MkdirAll(d.Dir, consts.ModeDir); err != nil {
			return errors.Wrapf(err, "failed to create %s", d.Dir)
		}
		path = filepath.Join(d.Dir, path)
	}

	if err := d.Dialect.DumpDatabase(ctx, d.Source, path); err != nil {
		return errors.Wrap(err, "database dump failed")
	}

	d.printf("Database dump written to %s\n", path)
	return nil
}
