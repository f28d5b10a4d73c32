package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// PathSource is the raw configuration of one category before compilation.
type PathSource struct {
	Patterns []string
	Dest     string
	// Claims are source subtrees owned by the category beyond its patterns,
	// such as stylesheet partials that are only reached through imports.
	Claims []string
}

// PathSpec is the immutable, compiled source/destination mapping of a category.
type PathSpec struct {
	category Category
	patterns []string
	dest     string
	claims   []string
	matcher  *Matcher
}

// NewPathSpec compiles a PathSpec for the given category.
func NewPathSpec(category Category, src PathSource) (PathSpec, error) {
	if strings.TrimSpace(src.Dest) == "" {
		return PathSpec{}, zerr.With(ErrEmptyDestination, "category", string(category))
	}
	m, err := CompilePatterns(src.Patterns)
	if err != nil {
		return PathSpec{}, zerr.With(err, "category", string(category))
	}
	return PathSpec{
		category: category,
		patterns: slices.Clone(src.Patterns),
		dest:     normalizePattern(src.Dest),
		claims:   slices.Clone(src.Claims),
		matcher:  m,
	}, nil
}

// Category returns the category this spec belongs to.
func (p PathSpec) Category() Category { return p.category }

// Patterns returns a copy of the ordered source patterns.
func (p PathSpec) Patterns() []string { return slices.Clone(p.patterns) }

// Dest returns the project-relative destination directory.
func (p PathSpec) Dest() string { return p.dest }

// Claims returns a copy of the claimed subtrees.
func (p PathSpec) Claims() []string { return slices.Clone(p.claims) }

// Matcher returns the compiled patterns.
func (p PathSpec) Matcher() *Matcher { return p.matcher }

// Match reports whether the project-relative path belongs to this category.
func (p PathSpec) Match(rel string) bool {
	return p.matcher != nil && p.matcher.Match(rel)
}

// exclusions returns the negations other categories must apply to stay
// disjoint from this one.
func (p PathSpec) exclusions() []string {
	out := make([]string, 0, len(p.patterns)+len(p.claims))
	for _, pattern := range append(slices.Clone(p.patterns), p.claims...) {
		if pattern == "" || strings.HasPrefix(pattern, "!") {
			continue
		}
		out = append(out, "!"+pattern)
	}
	return out
}

// PathTable maps every category to its PathSpec.
type PathTable struct {
	specs map[Category]PathSpec
}

// NewPathTable compiles a table from raw sources. All six categories must be
// present. The exclusions of CategoryOther are derived from every other
// category's patterns and claims, so a category added to the table is never
// copied twice.
func NewPathTable(sources map[Category]PathSource) (PathTable, error) {
	specs := make(map[Category]PathSpec, len(sources))
	var exclusions []string

	for _, c := range Categories() {
		if c == CategoryOther {
			continue
		}
		src, ok := sources[c]
		if !ok {
			return PathTable{}, zerr.With(ErrUnknownCategory, "missing_category", string(c))
		}
		spec, err := NewPathSpec(c, src)
		if err != nil {
			return PathTable{}, err
		}
		specs[c] = spec
		exclusions = append(exclusions, spec.exclusions()...)
	}

	other, ok := sources[CategoryOther]
	if !ok {
		return PathTable{}, zerr.With(ErrUnknownCategory, "missing_category", string(CategoryOther))
	}
	other.Patterns = append(slices.Clone(other.Patterns), exclusions...)
	spec, err := NewPathSpec(CategoryOther, other)
	if err != nil {
		return PathTable{}, err
	}
	specs[CategoryOther] = spec

	return PathTable{specs: specs}, nil
}

// DefaultPathSources returns the stock layout rooted at src/ and dist/.
func DefaultPathSources() map[Category]PathSource {
	return map[Category]PathSource{
		CategoryStyles: {
			Patterns: []string{"src/scss/main.scss", "src/scss/header.scss", "src/scss/fonts.scss"},
			Dest:     "dist/css",
			Claims:   []string{"src/scss/**"},
		},
		CategoryScripts: {
			Patterns: []string{"src/js/bundle.js"},
			Dest:     "dist/js",
			Claims:   []string{"src/js/**"},
		},
		CategoryImages: {
			Patterns: []string{"src/images/**.{jpg,jpeg,png,svg,gif,ico}"},
			Dest:     "dist/images",
			Claims:   []string{"src/images/**"},
		},
		CategoryOther: {
			Patterns: []string{"src/**"},
			Dest:     DistDirName,
		},
		CategoryLibs: {
			Patterns: []string{"node_modules/normalize.css/normalize.css"},
			Dest:     "dist/libs",
			Claims:   []string{"src/libs/**"},
		},
		CategoryTemplates: {
			Patterns: []string{"src/*.pug"},
			Dest:     DistDirName,
			Claims:   []string{"src/pug/**"},
		},
	}
}

// DefaultPathTable returns the compiled stock layout.
func DefaultPathTable() PathTable {
	t, err := NewPathTable(DefaultPathSources())
	if err != nil {
		panic("default path table: " + err.Error())
	}
	return t
}

// Lookup returns the PathSpec of a category.
func (t PathTable) Lookup(c Category) (PathSpec, error) {
	spec, ok := t.specs[c]
	if !ok {
		return PathSpec{}, zerr.With(ErrUnknownCategory, "category", string(c))
	}
	return spec, nil
}

// Categories returns the categories present in the table, in table order.
func (t PathTable) Categories() []Category {
	out := make([]Category, 0, len(t.specs))
	for _, c := range Categories() {
		if _, ok := t.specs[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Classify returns every category whose patterns match rel.
func (t PathTable) Classify(rel string) []Category {
	var out []Category
	for _, c := range t.Categories() {
		if t.specs[c].Match(rel) {
			out = append(out, c)
		}
	}
	return out
}

// Overlaps returns the paths claimed by more than one category, mapped to
// the categories that claim them. An empty result means the table partitions
// the given paths.
func (t PathTable) Overlaps(paths []string) map[string][]Category {
	out := make(map[string][]Category)
	for _, p := range paths {
		if cs := t.Classify(p); len(cs) > 1 {
			out[p] = cs
		}
	}
	return out
}
