package config

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Values is a parsed flat configuration file.
type Values map[string]string

// Parse reads key=value lines from r.
func Parse(r io.Reader) (Values, error) {
	values := make(Values)
	scanner := bufio.NewScanner(r)

	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, errors.Errorf("invalid line at #%d: %s", n, line)
		}

		values[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read configuration")
	}

	return values, nil
}

// LoadFile parses the configuration file at path.
func LoadFile(path string) (Values, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	values, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}

	return values, nil
}

// SubKeys returns the distinct first segments of all dotted keys, sorted.
// Keys without a '.' do not belong to any group and are ignored.
func (v Values) SubKeys() []string {
	seen := make(map[string]struct{})
	for key := range v {
		outer, _, ok := strings.Cut(key, ".")
		if !ok {
			continue
		}
		seen[outer] = struct{}{}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}

// Sub returns the values grouped under name with the "name." prefix removed.
func (v Values) Sub(name string) Values {
	sub := make(Values)
	for key, value := range v {
		outer, inner, ok := strings.Cut(key, ".")
		if !ok || outer != name {
			continue
		}
		sub[inner] = value
	}

	return sub
}
