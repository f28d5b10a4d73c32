package domain

// Mode selects between debug-friendly and optimized output.
// It is decided once per process and never changes afterwards.
type Mode uint8

const (
	// Development emits source maps and keeps output readable.
	Development Mode = iota
	// Production minifies styles, scripts and templates and compresses images.
	Production
)

// ModeFromFlag maps the --prod flag to a Mode.
func ModeFromFlag(prod bool) Mode {
	if prod {
		return Production
	}
	return Development
}

// IsProduction reports whether m is Production.
func (m Mode) IsProduction() bool {
	return m == Production
}

func (m Mode) String() string {
	if m == Production {
		return "production"
	}
	return "development"
}
