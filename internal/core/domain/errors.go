package domain

import "go.trai.ch/zerr"

var (
	// ErrSourceNotFound is returned when a category's globs match no files.
	ErrSourceNotFound = zerr.New("no source files matched")

	// ErrSourceReadFailed is returned when a matched source file cannot be read.
	ErrSourceReadFailed = zerr.New("failed to read source file")

	// ErrTransformFailed is returned when an external transform rejects its input.
	ErrTransformFailed = zerr.New("transform failed")

	// ErrFatalIO is returned when the destination tree cannot be written or cleaned.
	ErrFatalIO = zerr.New("destination is not writable")

	// ErrBuildFailed is returned when a pipeline run finished with failed tasks.
	ErrBuildFailed = zerr.New("build finished with failed tasks")

	// ErrUnknownCategory is returned when a lookup names a category that is not in the table.
	ErrUnknownCategory = zerr.New("unknown asset category")

	// ErrUnknownTask is returned when a task identifier does not name an asset task.
	ErrUnknownTask = zerr.New("unknown task")

	// ErrInvalidPattern is returned when a glob pattern cannot be compiled.
	ErrInvalidPattern = zerr.New("invalid glob pattern")

	// ErrEmptyPatterns is returned when a path spec has no positive pattern.
	ErrEmptyPatterns = zerr.New("path spec has no source pattern")

	// ErrEmptyDestination is returned when a path spec has no destination directory.
	ErrEmptyDestination = zerr.New("path spec has no destination")

	// ErrDestOutsideRoot is returned when a destination is not inside the destination root.
	ErrDestOutsideRoot = zerr.New("destination is outside the destination root")

	// ErrConfigReadFailed is returned when the project file exists but cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the project file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigInvalid is returned when the project file holds an invalid value.
	ErrConfigInvalid = zerr.New("invalid configuration")

	// ErrServerStartFailed is returned when the dev server cannot bind its address.
	ErrServerStartFailed = zerr.New("failed to start dev server")

	// ErrWatcherStartFailed is returned when the file watcher cannot be armed.
	ErrWatcherStartFailed = zerr.New("failed to start file watcher")
)
