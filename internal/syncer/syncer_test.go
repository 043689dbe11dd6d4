package syncer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/wikilist/internal/catalog"
	"git.home.luguber.info/inful/wikilist/internal/config"
	"git.home.luguber.info/inful/wikilist/internal/foundation/errors"
	"git.home.luguber.info/inful/wikilist/internal/git"
	"git.home.luguber.info/inful/wikilist/internal/listgen"
)

// fakeRepo records calls and counts concurrent occupants of Commit.
type fakeRepo struct {
	mu        sync.Mutex
	commits   []string
	pushes    []int
	occupants int
	peak      int
	pushErr   error

	// changed answers ChangedSince per file; missing files report a change.
	changed    map[string]bool
	prechecked []string
	ensured    []string
}

func (f *fakeRepo) EnsureLocal(_ context.Context, remoteURL, localPath string, _ int) (*git.Handle, error) {
	f.mu.Lock()
	f.ensured = append(f.ensured, remoteURL)
	f.mu.Unlock()
	if err := os.MkdirAll(localPath, 0o750); err != nil {
		return nil, err
	}
	return &git.Handle{LocalPath: localPath, RemoteURL: remoteURL}, nil
}

func (f *fakeRepo) Commit(_ context.Context, h *git.Handle, filePath string, content []byte) (*git.CommitRecord, error) {
	f.mu.Lock()
	f.occupants++
	f.peak = max(f.peak, f.occupants)
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.occupants--
		f.mu.Unlock()
	}()

	category, err := git.Category(filePath)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(h.LocalPath, filePath), content, 0o600); err != nil {
		return nil, err
	}
	time.Sleep(5 * time.Millisecond)

	f.mu.Lock()
	f.commits = append(f.commits, filePath)
	f.mu.Unlock()
	return &git.CommitRecord{Hash: "deadbeef", Category: category, Message: git.CommitMessage(category), Path: filePath}, nil
}

func (f *fakeRepo) Push(_ context.Context, _ *git.Handle, _ string, commitCount int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushes = append(f.pushes, commitCount)
	if f.pushErr != nil {
		return 0, f.pushErr
	}
	return commitCount, nil
}

func (f *fakeRepo) ChangedSince(_ context.Context, _ *git.Handle, filename string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prechecked = append(f.prechecked, filename)
	changed, ok := f.changed[filename]
	return changed || !ok, nil
}

// fakeWiki serves pages from memory.
type fakeWiki map[string]string

func (w fakeWiki) Load(_ context.Context, page string) (string, error) {
	doc, ok := w[page]
	if !ok {
		return "", errors.NotFoundError("no page").Build()
	}
	return doc, nil
}

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Files: catalog.Collection{
			Default:   catalog.Defaults{File: &catalog.Entry{Icon: "file"}},
			Supported: []catalog.Entry{{Icon: "abap", Extensions: []string{"abap"}, Format: catalog.FormatSVG}},
		},
		Folders: catalog.Collection{
			Default:   catalog.Defaults{Folder: &catalog.Entry{Icon: "folder"}},
			Supported: []catalog.Entry{{Icon: "src", Extensions: []string{"src", "source"}}},
		},
	}
}

func testConfig(t *testing.T, mode config.Mode) *config.Config {
	t.Helper()
	cfg := &config.Config{Mode: mode, Token: "t", WorkDir: t.TempDir(), OutputDir: t.TempDir()}
	cfg.ApplyDefaults()
	return cfg
}

func renderText(t *testing.T, cfg *config.Config, kind listgen.Kind) string {
	t.Helper()
	_, text, err := RenderTable(testCatalog(), kind, RenderOptions(cfg, kind))
	require.NoError(t, err)
	return text
}

func TestRenderOptionsFollowConfig(t *testing.T) {
	cfg := testConfig(t, config.ModeFile)
	assert.Equal(t, listgen.Options{ImagesBaseURL: config.DefaultImagesBaseURL, Compact: true}, RenderOptions(cfg, listgen.KindFiles))

	cfg.SkipDisabled = true
	opts := RenderOptions(cfg, listgen.KindFolders)
	assert.False(t, opts.Compact)
	assert.True(t, opts.SkipDisabled)
}

const staleTable = "| Name |\n| :---: |\n| old |\n"

func page(table string) string {
	return "# List of icons\n\nIntro text.\n\n" + table + "\nFooter with [a link](Home).\n"
}

func writePage(t *testing.T, cfg *config.Config, kind listgen.Kind, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(cfg.WikiPath(), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.WikiPath(), kind.PageFilename()), []byte(content), 0o600))
}

func TestRunUnchangedPageDoesNotCommitOrPush(t *testing.T) {
	cfg := testConfig(t, config.ModeRepo)
	writePage(t, cfg, listgen.KindFiles, page(renderText(t, cfg, listgen.KindFiles)))
	repo := &fakeRepo{}

	res, err := New(cfg, repo, catalog.StaticSource{Catalog: testCatalog()}, nil).Run(context.Background(), listgen.KindFiles)
	require.NoError(t, err)
	assert.Equal(t, StateUnchanged, res.Documents[0].State)
	assert.Empty(t, repo.commits)
	assert.Empty(t, repo.pushes)
	assert.NotEmpty(t, res.RunID)
}

func TestRunChangedPageCommitsAndPushesOnce(t *testing.T) {
	cfg := testConfig(t, config.ModeRepo)
	writePage(t, cfg, listgen.KindFiles, page(staleTable))
	repo := &fakeRepo{}

	res, err := New(cfg, repo, catalog.StaticSource{Catalog: testCatalog()}, nil).Run(context.Background(), listgen.KindFiles)
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, res.Documents[0].State)
	assert.Equal(t, 0, res.Documents[0].FirstDifference, "header row differs")
	assert.Equal(t, []string{"ListOfFiles.md"}, repo.commits)
	assert.Equal(t, []int{1}, repo.pushes)
	assert.Equal(t, 1, res.Pushed)

	data, err := os.ReadFile(filepath.Join(cfg.WikiPath(), "ListOfFiles.md"))
	require.NoError(t, err)
	assert.Equal(t, page(renderText(t, cfg, listgen.KindFiles)), string(data))

	// Second run over the same catalog is idempotent.
	repo2 := &fakeRepo{}
	res, err = New(cfg, repo2, catalog.StaticSource{Catalog: testCatalog()}, nil).Run(context.Background(), listgen.KindFiles)
	require.NoError(t, err)
	assert.Equal(t, StateUnchanged, res.Documents[0].State)
	assert.Empty(t, repo2.commits)
	assert.Empty(t, repo2.pushes)
}

func TestRunBothKindsShareOnePush(t *testing.T) {
	cfg := testConfig(t, config.ModeRepo)
	writePage(t, cfg, listgen.KindFiles, page(staleTable))
	writePage(t, cfg, listgen.KindFolders, page(staleTable))
	repo := &fakeRepo{}

	res, err := New(cfg, repo, catalog.StaticSource{Catalog: testCatalog()}, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Commits)
	assert.ElementsMatch(t, []string{"ListOfFiles.md", "ListOfFolders.md"}, repo.commits)
	assert.Equal(t, []int{2}, repo.pushes)
}

func TestRunFailureDoesNotPush(t *testing.T) {
	cfg := testConfig(t, config.ModeRepo)
	writePage(t, cfg, listgen.KindFiles, page(staleTable))
	// No folders page in the working copy.
	repo := &fakeRepo{}

	res, err := New(cfg, repo, catalog.StaticSource{Catalog: testCatalog()}, nil).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Empty(t, repo.pushes)
	assert.LessOrEqual(t, res.Commits, 1, "committed pages stay committed")
}

func TestRunPushTimeoutSurfaces(t *testing.T) {
	cfg := testConfig(t, config.ModeRepo)
	writePage(t, cfg, listgen.KindFiles, page(staleTable))
	repo := &fakeRepo{pushErr: errors.TimeoutError("push exceeded deadline").Build()}

	_, err := New(cfg, repo, catalog.StaticSource{Catalog: testCatalog()}, nil).Run(context.Background(), listgen.KindFiles)
	require.Error(t, err)
	assert.True(t, errors.IsTimeout(err))
}

func TestRunAmbiguousRegionFails(t *testing.T) {
	cfg := testConfig(t, config.ModeRepo)
	writePage(t, cfg, listgen.KindFiles, page(staleTable)+"\n| other | table |\n")
	repo := &fakeRepo{}

	_, err := New(cfg, repo, catalog.StaticSource{Catalog: testCatalog()}, nil).Run(context.Background(), listgen.KindFiles)
	require.Error(t, err)
	assert.True(t, errors.IsComposition(err))
	assert.Empty(t, repo.commits)
}

func TestRunFileModeAlwaysWrites(t *testing.T) {
	cfg := testConfig(t, config.ModeFile)
	current := page(renderText(t, cfg, listgen.KindFolders))
	remote := fakeWiki{"ListOfFolders.md": current}

	res, err := New(cfg, nil, catalog.StaticSource{Catalog: testCatalog()}, remote).Run(context.Background(), listgen.KindFolders)
	require.NoError(t, err)
	doc := res.Documents[0]
	assert.Equal(t, StateWritten, doc.State)
	data, err := os.ReadFile(doc.Path)
	require.NoError(t, err)
	assert.Equal(t, current, string(data))
}

func TestRunFileModeIgnoresPrecheck(t *testing.T) {
	cfg := testConfig(t, config.ModeFile)
	cfg.Precheck.Enabled = true
	repo := &fakeRepo{changed: map[string]bool{config.DefaultPrecheckFiles: false}}
	remote := fakeWiki{"ListOfFiles.md": page(staleTable)}

	res, err := New(cfg, repo, catalog.StaticSource{Catalog: testCatalog()}, remote).Run(context.Background(), listgen.KindFiles)
	require.NoError(t, err)
	assert.Equal(t, StateWritten, res.Documents[0].State)
	assert.Empty(t, repo.prechecked)
	assert.Empty(t, repo.ensured, "file mode never touches a repository")
}

func TestRunRepoModePrecheckSkipsUntouchedKinds(t *testing.T) {
	cfg := testConfig(t, config.ModeRepo)
	cfg.Precheck.Enabled = true
	writePage(t, cfg, listgen.KindFiles, page(staleTable))
	writePage(t, cfg, listgen.KindFolders, page(staleTable))
	repo := &fakeRepo{changed: map[string]bool{
		config.DefaultPrecheckFiles:   true,
		config.DefaultPrecheckFolders: false,
	}}

	res, err := New(cfg, repo, catalog.StaticSource{Catalog: testCatalog()}, nil).Run(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"supportedExtensions.ts", "supportedFolders.ts"}, repo.prechecked)
	assert.Equal(t, StateCommitted, res.Documents[0].State)
	assert.Equal(t, StateSkipped, res.Documents[1].State)
	assert.Equal(t, []string{"ListOfFiles.md"}, repo.commits)
	assert.Equal(t, []int{1}, repo.pushes)
	assert.Contains(t, repo.ensured, cfg.RepoURL())
}

func TestRunRepoModePrecheckChangedStillDiffsContent(t *testing.T) {
	cfg := testConfig(t, config.ModeRepo)
	cfg.Precheck.Enabled = true
	writePage(t, cfg, listgen.KindFiles, page(renderText(t, cfg, listgen.KindFiles)))
	repo := &fakeRepo{changed: map[string]bool{config.DefaultPrecheckFiles: true}}

	res, err := New(cfg, repo, catalog.StaticSource{Catalog: testCatalog()}, nil).Run(context.Background(), listgen.KindFiles)
	require.NoError(t, err)
	assert.Equal(t, StateUnchanged, res.Documents[0].State)
	assert.Empty(t, repo.commits)
	assert.Empty(t, repo.pushes)
}

func TestRunMarkerBoundedRegion(t *testing.T) {
	cfg := testConfig(t, config.ModeRepo)
	doc := "| unrelated | table |\n| --- | --- |\n\n<!-- wikilist:begin -->\n<!-- wikilist:end -->\n"
	writePage(t, cfg, listgen.KindFiles, doc)
	repo := &fakeRepo{}

	_, err := New(cfg, repo, catalog.StaticSource{Catalog: testCatalog()}, nil).Run(context.Background(), listgen.KindFiles)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(cfg.WikiPath(), "ListOfFiles.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "| unrelated | table |\n| --- | --- |\n\n<!-- wikilist:begin -->\n"))
	assert.Contains(t, string(data), renderText(t, cfg, listgen.KindFiles)+"<!-- wikilist:end -->\n")
}

func TestConcurrentPagesNeverOverlapInCommit(t *testing.T) {
	cfg := testConfig(t, config.ModeRepo)
	writePage(t, cfg, listgen.KindFiles, page(staleTable))
	writePage(t, cfg, listgen.KindFolders, page(staleTable))
	repo := &lockedRepo{fakeRepo: &fakeRepo{}}

	_, err := New(cfg, repo, catalog.StaticSource{Catalog: testCatalog()}, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.peak)
}

// lockedRepo serializes Commit the way the git client does, so the occupancy
// counter observes the lock.
type lockedRepo struct {
	*fakeRepo
	lock sync.Mutex
}

func (l *lockedRepo) Commit(ctx context.Context, h *git.Handle, filePath string, content []byte) (*git.CommitRecord, error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.fakeRepo.Commit(ctx, h, filePath, content)
}
