package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/wikilist/internal/foundation/errors"
)

const sampleYAML = `
files:
  default:
    file: {icon: file, format: svg}
    file_light: {icon: file, format: svg, light: true}
  supported:
    - icon: abap
      extensions: [abap]
      format: svg
    - icon: docker
      extensions: [dockerfile]
      filename: true
      filenamesGlob: [docker-compose]
      extensionsGlob: [yml, yaml]
      languages:
        - ids: dockerfile
        - ids: [dockercompose, docker-compose]
      format: svg
      light: true
folders:
  default:
    folder: {icon: folder, format: svg}
    root_folder: {icon: root_folder, format: svg}
  supported:
    - icon: android
      extensions: [android]
      format: png
`

func TestParseYAML(t *testing.T) {
	cat, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	require.NotNil(t, cat.Files.Default.File)
	require.NotNil(t, cat.Files.Default.FileLight)
	assert.True(t, cat.Files.Default.FileLight.Light)
	require.Len(t, cat.Files.Supported, 2)

	docker := cat.Files.Supported[1]
	assert.True(t, docker.Filename)
	assert.True(t, docker.HasGlobs())
	require.Len(t, docker.Languages, 2)
	assert.Equal(t, LanguageIDs{"dockerfile"}, docker.Languages[0].IDs)
	assert.Equal(t, LanguageIDs{"dockercompose", "docker-compose"}, docker.Languages[1].IDs)

	assert.Nil(t, cat.Folders.Default.FolderLight)
	require.NotNil(t, cat.Folders.Default.RootFolder)
	assert.Equal(t, FormatPNG, cat.Folders.Supported[0].Format)
}

func TestParseJSON(t *testing.T) {
	data := `{"files":{"default":{},"supported":[{"icon":"abap","extensions":["abap"],"format":"svg"}]},
"folders":{"default":{},"supported":[]}}`
	cat, err := Parse([]byte(data))
	require.NoError(t, err)
	require.Len(t, cat.Files.Supported, 1)
	assert.Equal(t, "abap", cat.Files.Supported[0].Icon)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("files:\n  supported:\n    - icon: a\n      colour: red\n"))
	require.Error(t, err)
}

func TestParseRejectsBadLanguageIDs(t *testing.T) {
	_, err := Parse([]byte("files:\n  supported:\n    - icon: a\n      languages:\n        - ids: {x: y}\n"))
	require.Error(t, err)
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse(nil)
	require.Error(t, err)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	cat, err := NewFileSource(path).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, cat.Folders.Supported, 1)
}

func TestFileSourceMissing(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.yaml")).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestFileSourceInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("files: [unterminated"), 0o600))
	_, err := NewFileSource(path).Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CategoryValidation, errors.GetCategory(err))
}

func TestStaticSource(t *testing.T) {
	_, err := StaticSource{}.Load(context.Background())
	assert.True(t, errors.IsNotFound(err))

	want := &Catalog{}
	got, err := StaticSource{Catalog: want}.Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, want, got)
}
