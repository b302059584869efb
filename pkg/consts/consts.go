package consts

import "os"

const (
	// ModeDir is the standard file mode for creating directories
	ModeDir = os.FileMode(0o755)

	// ModeFile is the standard file mode for creating files
	ModeFile = os.FileMode(0o644)

	// ProjectFile is the marker file holding the project configuration. It is
	// looked up in the working directory and then in every parent directory.
	ProjectFile = ".db"

	// CredentialsFile is the per-user credentials file, relative to the home directory
	CredentialsFile = ".dbpass"

	// EnvironmentVar names the environment variable selecting the default environment
	EnvironmentVar = "ENVIRONMENT"

	// SkipSuffix marks seed files and tables that must not be processed
	SkipSuffix = ".skip"

	// DumpPrefix is the file name prefix of per-table dumps written by store
	DumpPrefix = "dump-"

	// TempPattern is the pattern used for every temporary SQL file
	TempPattern = "db-*.sql"
)
