// Package catalog holds the icon catalog that drives the generated wiki tables
// and the Source abstraction used to obtain it.
package catalog

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Format is the image format of an icon asset.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// Entry is one icon definition. Entries are read-only once loaded.
type Entry struct {
	Icon           string     `yaml:"icon" json:"icon"`
	Extensions     []string   `yaml:"extensions,omitempty" json:"extensions,omitempty"`
	Filename       bool       `yaml:"filename,omitempty" json:"filename,omitempty"`
	FilenamesGlob  []string   `yaml:"filenamesGlob,omitempty" json:"filenamesGlob,omitempty"`
	ExtensionsGlob []string   `yaml:"extensionsGlob,omitempty" json:"extensionsGlob,omitempty"`
	Languages      []Language `yaml:"languages,omitempty" json:"languages,omitempty"`
	Format         Format     `yaml:"format" json:"format"`
	Light          bool       `yaml:"light,omitempty" json:"light,omitempty"`
	Disabled       bool       `yaml:"disabled,omitempty" json:"disabled,omitempty"`
}

// HasGlobs reports whether both glob lists are populated, which is the only
// case where their combinations are rendered.
func (e Entry) HasGlobs() bool {
	return len(e.FilenamesGlob) > 0 && len(e.ExtensionsGlob) > 0
}

// Language groups the language identifiers an icon is associated with.
type Language struct {
	IDs LanguageIDs `yaml:"ids" json:"ids"`
}

// LanguageIDs accepts either a single id or a list of ids when decoded.
type LanguageIDs []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *LanguageIDs) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var id string
		if err := node.Decode(&id); err != nil {
			return err
		}
		*l = LanguageIDs{id}
		return nil
	case yaml.SequenceNode:
		var ids []string
		if err := node.Decode(&ids); err != nil {
			return err
		}
		*l = ids
		return nil
	default:
		return fmt.Errorf("line %d: language ids must be a string or a list of strings", node.Line)
	}
}

// Defaults are the uncategorized entries rendered ahead of the supported list.
type Defaults struct {
	File            *Entry `yaml:"file,omitempty" json:"file,omitempty"`
	FileLight       *Entry `yaml:"file_light,omitempty" json:"file_light,omitempty"`
	Folder          *Entry `yaml:"folder,omitempty" json:"folder,omitempty"`
	FolderLight     *Entry `yaml:"folder_light,omitempty" json:"folder_light,omitempty"`
	RootFolder      *Entry `yaml:"root_folder,omitempty" json:"root_folder,omitempty"`
	RootFolderLight *Entry `yaml:"root_folder_light,omitempty" json:"root_folder_light,omitempty"`
}

// Collection is the catalog section for one table kind.
type Collection struct {
	Default   Defaults `yaml:"default" json:"default"`
	Supported []Entry  `yaml:"supported" json:"supported"`
}

// Catalog is the full input of a sync run.
type Catalog struct {
	Files   Collection `yaml:"files" json:"files"`
	Folders Collection `yaml:"folders" json:"folders"`
}
