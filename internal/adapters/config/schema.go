package config

// Projectfile represents the structure of the assetpipe.yaml project file.
// Every field is optional; zero values keep the stock layout.
type Projectfile struct {
	Dist    string             `yaml:"dist"`
	Server  ServerDTO          `yaml:"server"`
	Paths   map[string]PathDTO `yaml:"paths"`
	Styles  StylesDTO          `yaml:"styles"`
	Scripts ScriptsDTO         `yaml:"scripts"`
	Watch   WatchDTO           `yaml:"watch"`
}

// ServerDTO configures the dev server.
type ServerDTO struct {
	Host string `yaml:"host"`
	Port *int   `yaml:"port"`
}

// PathDTO overrides the sources and destination of one category.
type PathDTO struct {
	Src    []string `yaml:"src"`
	Dest   string   `yaml:"dest"`
	Claims []string `yaml:"claims"`
}

// StylesDTO configures the stylesheet compiler.
type StylesDTO struct {
	IncludePaths []string `yaml:"includePaths"`
	SassBinary   string   `yaml:"sassBinary"`
}

// ScriptsDTO configures the script bundler.
type ScriptsDTO struct {
	Entry     string            `yaml:"entry"`
	Target    string            `yaml:"target"`
	Externals map[string]string `yaml:"externals"`
}

// WatchDTO configures the dev watcher.
type WatchDTO struct {
	ReloadOnly []string `yaml:"reloadOnly"`
	Debounce   string   `yaml:"debounce"`
	Ignore     []string `yaml:"ignore"`
}
