package domain

import "time"

const (
	// SourceDirName is the root of the project's asset sources.
	SourceDirName = "src"

	// DistDirName is the destination root every task writes under.
	DistDirName = "dist"

	// ConfigFileName is the name of the optional project file.
	ConfigFileName = "assetpipe.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600

	// DefaultHost is the interface the dev server binds to.
	DefaultHost = "localhost"

	// DefaultPort is the port the dev server listens on.
	DefaultPort = 3000

	// DefaultDebounce is the window used to coalesce file system events.
	DefaultDebounce = 100 * time.Millisecond

	// DefaultScriptTarget is the language level scripts are downleveled to.
	DefaultScriptTarget = "es2015"
)

// DefaultIgnoredDirs are directories, relative to the project root, the
// watcher never descends into.
func DefaultIgnoredDirs() []string {
	return []string{".git", ".jj", "node_modules", DistDirName}
}

// DefaultReloadOnly are patterns of companion server-side files whose changes
// only reload connected browsers.
func DefaultReloadOnly() []string {
	return []string{"**.php"}
}

// DefaultExternals maps import specifiers to globals provided at runtime.
func DefaultExternals() map[string]string {
	return map[string]string{"$": "jQuery"}
}
