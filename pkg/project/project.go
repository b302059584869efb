package project

import (
	"bytes"
	_ "embed"
	"os"
	"path/filepath"
	"sort"
	"testing/fstest"
	"text/template"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbkeeper/pkg/consts"
	"github.com/pseudomuto/dbkeeper/pkg/dialect"
)

// ErrNotFound is returned when no project file exists in a directory or any of
// its parents.
var ErrNotFound = errors.New("cannot find the project configuration")

var (
	//go:embed embed/project.db
	defaultProjectFile string

	//go:embed embed/create.sql
	defaultCreateSQL []byte

	projectTemplate = template.Must(template.New(consts.ProjectFile).Parse(defaultProjectFile))
)

type (
	// InitOptions contains options for project initialization
	InitOptions struct {
		// Name is the project name. Defaults to the name of the project directory.
		Name string

		// Dialect is the database dialect. Defaults to mysql.
		Dialect string
	}

	// Project is a directory holding a .db file and the scripts it refers to.
	Project struct {
		root   string
		config *Config
	}
)

// New creates a new Project rooted at path. The configuration is loaded by
// Initialize or Load.
//
// Example:
//
//	p := project.New("/src/shop")
//	if err := p.Initialize(project.InitOptions{Dialect: "postgres"}); err != nil {
//		log.Fatal(err)
//	}
func New(path string) *Project {
	return &Project{root: path}
}

// Find returns the path of the project file in dir or in the nearest parent
// directory holding one.
//
// Example:
//
//	// with /src/shop/.db present
//	path, err := project.Find("/src/shop/db/populate")
//	// path == "/src/shop/.db"
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve %s", dir)
	}

	for {
		path := filepath.Join(dir, consts.ProjectFile)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Wrapf(ErrNotFound, "%s", consts.ProjectFile)
		}
		dir = parent
	}
}

// Load finds the project file starting at dir and loads the project it describes.
//
// Example:
//
//	wd, _ := os.Getwd()
//	p, err := project.Load(wd)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Println(p.Config().Name)
func Load(dir string) (*Project, error) {
	path, err := Find(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		return nil, err
	}

	return &Project{root: filepath.Dir(path), config: cfg}, nil
}

// Root returns the directory holding the project file.
func (p *Project) Root() string { return p.root }

// Config returns the loaded configuration, or nil before Initialize or Load.
func (p *Project) Config() *Config { return p.config }

// PopulateDir returns the named data set directory under the populate root.
// It does not check that the directory exists.
func (p *Project) PopulateDir(name string) (string, error) {
	if p.config == nil || p.config.Populate == "" {
		return "", errors.Errorf("no %s found in the %s file", keyPopulate, consts.ProjectFile)
	}

	return filepath.Join(p.config.Populate, name), nil
}

// Initialize sets up the project directory structure and loads the configuration.
// This method is idempotent - it will only create missing files and directories,
// preserving any existing content. It creates the .db project file, an empty
// create script and the populate root with a default data set.
//
// Example:
//
//	p := project.New("/path/to/my/project")
//	if err := p.Initialize(project.InitOptions{Name: "shop", Dialect: "postgres"}); err != nil {
//		log.Fatal("Failed to initialize project:", err)
//	}
func (p *Project) Initialize(options InitOptions) error {
	// Ensure the root directory exists and is valid
	if err := p.ensureDirectory(); err != nil {
		return err
	}

	image, err := p.image(options)
	if err != nil {
		return err
	}

	// Create parents before children
	paths := make([]string, 0, len(image))
	for path := range image {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		entry := image[path]
		fullPath := filepath.Join(p.root, path)

		// Check if the entry already exists
		if _, err := os.Stat(fullPath); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return errors.Wrapf(err, "failed to stat %s", fullPath)
		}

		if entry.Mode.IsDir() {
			if err := os.MkdirAll(fullPath, consts.ModeDir); err != nil {
				return errors.Wrapf(err, "failed to create directory %s", fullPath)
			}

			continue
		}

		if err := os.WriteFile(fullPath, entry.Data, consts.ModeFile); err != nil {
			return errors.Wrapf(err, "failed to write file %s", fullPath)
		}
	}

	cfg, err := LoadConfigFile(filepath.Join(p.root, consts.ProjectFile))
	if err != nil {
		return errors.Wrapf(err, "failed to load %s", consts.ProjectFile)
	}

	p.config = cfg
	return nil
}

func (p *Project) image(options InitOptions) (fstest.MapFS, error) {
	if options.Name == "" {
		abs, err := filepath.Abs(p.root)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to resolve %s", p.root)
		}
		options.Name = filepath.Base(abs)
	}

	if options.Dialect == "" {
		options.Dialect = dialect.MySQLName
	}

	if _, err := dialect.New(options.Dialect, nil); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := projectTemplate.Execute(&buf, options); err != nil {
		return nil, errors.Wrap(err, "failed to render project file")
	}

	return fstest.MapFS{
		consts.ProjectFile:    {Data: buf.Bytes()},
		"db":                  {Mode: os.ModeDir | consts.ModeDir},
		"db/create.sql":       {Data: defaultCreateSQL},
		"db/populate":         {Mode: os.ModeDir | consts.ModeDir},
		"db/populate/default": {Mode: os.ModeDir | consts.ModeDir},
	}, nil
}

func (p *Project) ensureDirectory() error {
	dir, err := os.Stat(p.root)
	if err != nil {
		return errors.Wrapf(err, "failed to stat dir: %s", p.root)
	}

	if !dir.IsDir() {
		return errors.Errorf("%s is not a directory", p.root)
	}

	return nil
}
