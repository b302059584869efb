package command

import (
	"context"
	"log/slog"
	"sort"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbkeeper/pkg/environment"
	"gopkg.in/yaml.v3"
)

const (
	// FormatText renders the info report as a plain list
	FormatText = "text"

	// FormatYAML renders the info report as a YAML document
	FormatYAML = "yaml"
)

type (
	// Info reports the tables of an environment with their row counts.
	Info struct {
		*App
		Target *environment.Environment

		// Format is FormatText (default) or FormatYAML.
		Format string
	}

	// TableInfo is one line of the info report. Rows is nil when the count
	// failed.
	TableInfo struct {
		Name  string `yaml:"name"`
		Rows  *int   `yaml:"rows"`
		Error string `yaml:"error,omitempty"`
	}

	infoReport struct {
		Project     string      `yaml:"project,omitempty"`
		Environment string      `yaml:"environment"`
		Tables      []TableInfo `yaml:"tables"`
	}
)

// Tables lists the tables of the target sorted by name and counts their rows.
// A failed count is logged and reported in the entry instead of failing.
func (i *Info) Tables(ctx context.Context) ([]TableInfo, error) {
	names, err := i.Dialect.ListTables(ctx, i.Target)
	if err != nil {
		return nil, errors.Wrap(err, "cannot retrieve the tables")
	}

	sort.Strings(names)

	tables := make([]TableInfo, 0, len(names))
	for _, name := range names {
		entry := TableInfo{Name: name}

		n, err := i.Dialect.CountRows(ctx, i.Target, name)
		if err != nil || n < 0 {
			slog.Warn("Cannot count rows", "table", name, "err", err)
			entry.Error = "ERROR"
		} else {
			entry.Rows = &n
		}

		tables = append(tables, entry)
	}

	return tables, nil
}

// Run prints the report.
//
// Text output:
//
//	Tables:
//	- accounts: 12
//	- orders: ERROR
func (i *Info) Run(ctx context.Context) error {
	tables, err := i.Tables(ctx)
	if err != nil {
		return err
	}

	switch i.Format {
	case "", FormatText:
		if len(tables) == 0 {
			i.printf("No tables\n")
			return nil
		}

		i.printf("Tables:\n")
		for _, t := range tables {
			if t.Rows == nil {
				i.printf("- %s: %s\n", t.Name, t.Error)
				continue
			}
			i.printf("- %s: %d\n", t.Name, *t.Rows)
		}

		return nil

	case FormatYAML:
		report := infoReport{Environment: i.Target.Name(), Tables: tables}
		if i.Config != nil {
			report.Project = i.Config.Name
		}

		data, err := yaml.Marshal(report)
		if err != nil {
			return errors.Wrap(err, "failed to render the report")
		}

		i.printf("%s", data)
		return nil

	default:
		return errors.Errorf("unknown format: %s", i.Format)
	}
}
