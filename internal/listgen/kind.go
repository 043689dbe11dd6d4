package listgen

import (
	"fmt"
	"strings"
)

// Kind selects the table variant and therefore its column set.
type Kind string

const (
	KindFiles   Kind = "files"
	KindFolders Kind = "folders"
)

// Kinds lists every table kind in the order pages are processed.
var Kinds = []Kind{KindFiles, KindFolders}

var (
	fileColumns = []string{
		"Name",
		"Extensions / Filenames / Language IDs",
		"Preview Dark Theme",
		"Preview Light Theme",
	}
	folderColumns = []string{
		"Name",
		"Folder Name",
		"Preview Closed Dark Theme",
		"Preview Opened Dark Theme",
		"Preview Closed Light Theme",
		"Preview Opened Light Theme",
	}
)

// ParseKind converts a command name into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindFiles:
		return KindFiles, nil
	case KindFolders:
		return KindFolders, nil
	default:
		return "", fmt.Errorf("unknown list kind %q (expected files or folders)", s)
	}
}

// Columns returns a copy of the header cells for k.
func (k Kind) Columns() []string {
	if k == KindFolders {
		return append([]string(nil), folderColumns...)
	}
	return append([]string(nil), fileColumns...)
}

// ColumnCount is the number of cells every row of a k table carries.
func (k Kind) ColumnCount() int {
	if k == KindFolders {
		return len(folderColumns)
	}
	return len(fileColumns)
}

// IsFolder reports whether rows carry opened-state image columns.
func (k Kind) IsFolder() bool { return k == KindFolders }

// PageFilename is the wiki page the table of this kind is published in.
func (k Kind) PageFilename() string {
	if k == KindFolders {
		return "ListOfFolders.md"
	}
	return "ListOfFiles.md"
}

// AssetPrefix is the dark-theme asset prefix of supported entries.
func (k Kind) AssetPrefix() string {
	if k == KindFolders {
		return "folder_type_"
	}
	return "file_type_"
}

// LightAssetPrefix is the light-theme asset prefix of supported entries.
func (k Kind) LightAssetPrefix() string { return k.AssetPrefix() + "light_" }

// DefaultAssetPrefix is shared by all uncategorized entries.
const DefaultAssetPrefix = "default_"

func (k Kind) String() string { return string(k) }
