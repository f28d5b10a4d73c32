package sass

// NewWithTranspiler creates a Compiler backed by t instead of a Dart Sass process.
func NewWithTranspiler(opts Options, t Transpiler) *Compiler {
	c := New(opts, nil)
	c.start = func() (Transpiler, error) { return t, nil }
	return c
}
