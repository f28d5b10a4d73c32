package domain

import "go.trai.ch/zerr"

// Category is one of the fixed kinds of static resource the pipeline handles.
type Category string

const (
	// CategoryStyles holds stylesheet sources compiled to CSS.
	CategoryStyles Category = "styles"
	// CategoryScripts holds the script entry bundled to a single file.
	CategoryScripts Category = "scripts"
	// CategoryImages holds raster and vector images.
	CategoryImages Category = "images"
	// CategoryOther holds every loose file no other category claims.
	CategoryOther Category = "other"
	// CategoryLibs holds third-party files copied verbatim.
	CategoryLibs Category = "libs"
	// CategoryTemplates holds page templates rendered to HTML.
	CategoryTemplates Category = "templates"
)

// Categories returns every category in table order.
func Categories() []Category {
	return []Category{
		CategoryStyles,
		CategoryScripts,
		CategoryImages,
		CategoryOther,
		CategoryLibs,
		CategoryTemplates,
	}
}

// TaskID names an asset task. Each task processes exactly one category.
type TaskID string

const (
	// TaskStyles compiles, minifies and writes stylesheets.
	TaskStyles TaskID = "styles"
	// TaskScripts bundles the script entry.
	TaskScripts TaskID = "scripts"
	// TaskImages optimizes images.
	TaskImages TaskID = "images"
	// TaskLibs copies third-party files.
	TaskLibs TaskID = "libs"
	// TaskTemplates renders page templates.
	TaskTemplates TaskID = "templates"
	// TaskCopy copies every other file.
	TaskCopy TaskID = "copy"
)

// AssetTasks returns the six asset tasks in the order they are started.
func AssetTasks() []TaskID {
	return []TaskID{
		TaskStyles,
		TaskScripts,
		TaskImages,
		TaskLibs,
		TaskTemplates,
		TaskCopy,
	}
}

var taskCategories = map[TaskID]Category{
	TaskStyles:    CategoryStyles,
	TaskScripts:   CategoryScripts,
	TaskImages:    CategoryImages,
	TaskLibs:      CategoryLibs,
	TaskTemplates: CategoryTemplates,
	TaskCopy:      CategoryOther,
}

// CategoryOf returns the category a task processes.
func CategoryOf(id TaskID) (Category, error) {
	c, ok := taskCategories[id]
	if !ok {
		return "", zerr.With(ErrUnknownTask, "task", string(id))
	}
	return c, nil
}

func (id TaskID) String() string {
	return string(id)
}

func (c Category) String() string {
	return string(c)
}
