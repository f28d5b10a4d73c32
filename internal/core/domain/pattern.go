package domain

import (
	"path"
	"slices"
	"strings"

	"github.com/gobwas/glob"
	"go.trai.ch/zerr"
)

// globSeparator keeps '*' inside one path segment while '**' crosses segments.
const globSeparator = '/'

const globMeta = "*?[{"

// Matcher is a compiled, ordered set of glob patterns with '!' negations.
// Paths are project-relative and slash-separated.
type Matcher struct {
	include []includeGlob
	exclude []glob.Glob
}

type includeGlob struct {
	pattern string
	base    string
	g       glob.Glob
}

// CompilePatterns compiles patterns in order. Entries starting with '!' exclude
// whatever they match from the result of every positive entry.
func CompilePatterns(patterns []string) (*Matcher, error) {
	m := &Matcher{}
	for _, raw := range patterns {
		negated := strings.HasPrefix(raw, "!")
		pattern := normalizePattern(strings.TrimPrefix(raw, "!"))
		if pattern == "" {
			continue
		}

		g, err := glob.Compile(pattern, globSeparator)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, ErrInvalidPattern.Error()), "pattern", raw)
		}

		if negated {
			m.exclude = append(m.exclude, g)
			continue
		}
		m.include = append(m.include, includeGlob{pattern: pattern, base: GlobBase(pattern), g: g})
	}

	if len(m.include) == 0 {
		return nil, zerr.With(ErrEmptyPatterns, "patterns", strings.Join(patterns, ","))
	}
	return m, nil
}

// Match reports whether rel is matched by a positive pattern and by no negation.
func (m *Matcher) Match(rel string) bool {
	_, ok := m.Base(rel)
	return ok
}

// Base returns the glob base of the first positive pattern matching rel.
// Output paths are computed relative to this base.
func (m *Matcher) Base(rel string) (string, bool) {
	rel = normalizePattern(rel)
	for _, g := range m.exclude {
		if g.Match(rel) {
			return "", false
		}
	}
	for _, inc := range m.include {
		if inc.g.Match(rel) {
			return inc.base, true
		}
	}
	return "", false
}

// Roots returns the distinct directories a walk must cover to find every match.
// Roots nested in another root are dropped.
func (m *Matcher) Roots() []string {
	roots := make([]string, 0, len(m.include))
	for _, inc := range m.include {
		roots = append(roots, inc.base)
	}
	slices.Sort(roots)
	roots = slices.Compact(roots)

	out := roots[:0]
	for _, r := range roots {
		covered := false
		for _, kept := range out {
			if kept == "." || r == kept || strings.HasPrefix(r, kept+"/") {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, r)
		}
	}
	return out
}

// GlobBase returns the leading literal directory of a pattern, the part
// before the first segment holding a glob metacharacter. For a pattern without
// metacharacters it is the pattern's directory. The project root is ".".
func GlobBase(pattern string) string {
	pattern = normalizePattern(strings.TrimPrefix(pattern, "!"))
	segments := strings.Split(pattern, "/")

	literal := 0
	for literal < len(segments) && !strings.ContainsAny(segments[literal], globMeta) {
		literal++
	}
	if literal == len(segments) {
		return path.Dir(pattern)
	}
	if literal == 0 {
		return "."
	}
	return strings.Join(segments[:literal], "/")
}

// RelativeTo returns rel with its base directory stripped.
func RelativeTo(base, rel string) string {
	if base == "." || base == "" {
		return rel
	}
	return strings.TrimPrefix(rel, base+"/")
}

func normalizePattern(p string) string {
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p
}
