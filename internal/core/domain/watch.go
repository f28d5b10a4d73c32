package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Reaction is what a watch binding does after its tasks complete.
type Reaction uint8

const (
	// ReactionReload makes every connected browser reload the page.
	ReactionReload Reaction = iota
	// ReactionStream pushes the written stylesheets without a page reload.
	ReactionStream
)

func (r Reaction) String() string {
	if r == ReactionStream {
		return "stream"
	}
	return "reload"
}

// WatchBinding maps a set of changed paths to the tasks to rerun.
// Tasks run strictly in order and the reaction always runs last.
type WatchBinding struct {
	Name     string
	Patterns []string
	Tasks    []TaskID
	Reaction Reaction
	matcher  *Matcher
}

// NewWatchBinding compiles a binding.
func NewWatchBinding(name string, patterns []string, tasks []TaskID, reaction Reaction) (WatchBinding, error) {
	m, err := CompilePatterns(patterns)
	if err != nil {
		return WatchBinding{}, zerr.With(err, "binding", name)
	}
	return WatchBinding{
		Name:     name,
		Patterns: slices.Clone(patterns),
		Tasks:    slices.Clone(tasks),
		Reaction: reaction,
		matcher:  m,
	}, nil
}

// Match reports whether rel triggers the binding.
func (b WatchBinding) Match(rel string) bool {
	return b.matcher != nil && b.matcher.Match(rel)
}

// DispatchTable is an ordered list of bindings. The first binding matching a
// path wins, so overlapping patterns resolve by position.
type DispatchTable []WatchBinding

// Match returns the index of the first binding matching rel.
func (t DispatchTable) Match(rel string) (int, bool) {
	for i, b := range t {
		if b.Match(rel) {
			return i, true
		}
	}
	return -1, false
}

// NewDispatchTable derives the watch bindings from a path table. The order is
// fixed: styles, scripts, templates, images, other files, then reload-only
// patterns for files served by a companion runtime.
func NewDispatchTable(paths PathTable, reloadOnly []string) (DispatchTable, error) {
	styles, err := paths.Lookup(CategoryStyles)
	if err != nil {
		return nil, err
	}
	scripts, err := paths.Lookup(CategoryScripts)
	if err != nil {
		return nil, err
	}
	templates, err := paths.Lookup(CategoryTemplates)
	if err != nil {
		return nil, err
	}
	images, err := paths.Lookup(CategoryImages)
	if err != nil {
		return nil, err
	}
	other, err := paths.Lookup(CategoryOther)
	if err != nil {
		return nil, err
	}

	specs := []struct {
		name     string
		patterns []string
		tasks    []TaskID
		reaction Reaction
	}{
		{"styles", watchPatterns(styles, ".scss", ".sass"), []TaskID{TaskStyles}, ReactionStream},
		{"scripts", watchPatterns(scripts, ".js", ".mjs"), []TaskID{TaskScripts}, ReactionReload},
		{"templates", watchPatterns(templates, ".pug"), []TaskID{TaskTemplates}, ReactionReload},
		{"images", images.Patterns(), []TaskID{TaskImages}, ReactionReload},
		{"copy", other.Patterns(), []TaskID{TaskCopy}, ReactionReload},
	}

	table := make(DispatchTable, 0, len(specs)+1)
	for _, s := range specs {
		b, err := NewWatchBinding(s.name, s.patterns, s.tasks, s.reaction)
		if err != nil {
			return nil, err
		}
		table = append(table, b)
	}

	if len(reloadOnly) > 0 {
		b, err := NewWatchBinding("reload", reloadOnly, nil, ReactionReload)
		if err != nil {
			return nil, err
		}
		table = append(table, b)
	}
	return table, nil
}

// watchPatterns widens a category's entry patterns to every file with the
// given extensions under the subtrees the category owns, so that a change to
// an imported partial reruns the task.
func watchPatterns(spec PathSpec, exts ...string) []string {
	var bases []string
	for _, p := range append(spec.Patterns(), spec.Claims()...) {
		if strings.HasPrefix(p, "!") {
			continue
		}
		bases = append(bases, GlobBase(p))
	}
	slices.Sort(bases)
	bases = slices.Compact(bases)

	out := make([]string, 0, len(bases)*len(exts))
	for _, base := range bases {
		for _, ext := range exts {
			if base == "." {
				out = append(out, "**"+ext)
				continue
			}
			out = append(out, base+"/**"+ext)
		}
	}
	return out
}
