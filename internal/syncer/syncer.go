package syncer

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/wikilist/internal/catalog"
	"git.home.luguber.info/inful/wikilist/internal/config"
	"git.home.luguber.info/inful/wikilist/internal/foundation/errors"
	"git.home.luguber.info/inful/wikilist/internal/git"
	"git.home.luguber.info/inful/wikilist/internal/listgen"
	"git.home.luguber.info/inful/wikilist/internal/logfields"
	"git.home.luguber.info/inful/wikilist/internal/metrics"
	"git.home.luguber.info/inful/wikilist/internal/region"
	"git.home.luguber.info/inful/wikilist/internal/wiki"
)

// Prechecker reports whether the HEAD commit of a working copy touched a file.
// *git.Client implements it.
type Prechecker interface {
	ChangedSince(ctx context.Context, h *git.Handle, filename string) (bool, error)
}

// Orchestrator runs sync passes. It is safe to call Run repeatedly, but not
// concurrently.
type Orchestrator struct {
	cfg      *config.Config
	repo     git.Repository
	catalog  catalog.Source
	remote   wiki.Source
	recorder metrics.Recorder
	precheck Prechecker
	newRunID func() string
}

// New creates an orchestrator. repo may be nil in file mode; remote is the
// page source used in file mode.
func New(cfg *config.Config, repo git.Repository, cat catalog.Source, remote wiki.Source) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		repo:     repo,
		catalog:  cat,
		remote:   remote,
		recorder: metrics.NoopRecorder{},
		newRunID: uuid.NewString,
	}
	if p, ok := repo.(Prechecker); ok {
		o.precheck = p
	}
	return o
}

// WithRecorder sets the metrics recorder (fluent helper).
func (o *Orchestrator) WithRecorder(r metrics.Recorder) *Orchestrator {
	if r != nil {
		o.recorder = r
	}
	return o
}

// Run synchronizes the pages of kinds. Commits made before a failure are kept;
// a failed run never pushes.
func (o *Orchestrator) Run(ctx context.Context, kinds ...listgen.Kind) (*Result, error) {
	if len(kinds) == 0 {
		kinds = listgen.Kinds
	}
	res := &Result{RunID: o.newRunID(), Documents: make([]DocumentResult, len(kinds))}
	log := slog.With(logfields.RunID(res.RunID), logfields.Mode(string(o.cfg.Mode)))
	if o.cfg.Account != config.DefaultAccount {
		log.Info("Using non-default account", logfields.Account(o.cfg.Account))
	}

	start := time.Now()
	err := o.run(ctx, log, kinds, res)
	o.recorder.ObserveRunDuration(time.Since(start))
	if err != nil {
		o.recorder.IncRunOutcome("failed")
		log.Error("Sync run failed", logfields.Error(err), logfields.Commits(res.Commits))
		return res, err
	}
	o.recorder.IncRunOutcome("success")
	log.Info("Sync run finished", logfields.Commits(res.Commits), slog.Int("pushed", res.Pushed),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return res, nil
}

func (o *Orchestrator) run(ctx context.Context, log *slog.Logger, kinds []listgen.Kind, res *Result) error {
	cat, err := o.catalog.Load(ctx)
	if err != nil {
		return err
	}

	var wikiHandle *git.Handle
	if o.cfg.Mode == config.ModeRepo {
		if o.repo == nil {
			return errors.InternalError("repo mode requires a repository client").Build()
		}
		wikiHandle, err = o.ensureLocal(ctx, "wiki", o.cfg.WikiURL(), o.cfg.WikiPath())
		if err != nil {
			return err
		}
	}

	var codeChanged map[listgen.Kind]bool
	if wikiHandle != nil {
		if codeChanged, err = o.codeChanged(ctx, log, kinds); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		d := &document{
			o:      o,
			log:    log.With(logfields.Kind(kind.String()), logfields.Document(kind.PageFilename())),
			kind:   kind,
			cat:    cat,
			handle: wikiHandle,
			result: &res.Documents[i],
		}
		if changed, ok := codeChanged[kind]; ok {
			d.codeChanged = &changed
		}
		g.Go(func() error { return d.sync(gctx) })
	}
	err = g.Wait()

	for _, d := range res.Documents {
		if d.Commit != nil {
			res.Commits++
		}
	}
	o.recorder.AddCommits(res.Commits)
	if err != nil {
		return err
	}

	if res.Commits == 0 || wikiHandle == nil {
		log.Info("Nothing to push")
		return nil
	}
	pushStart := time.Now()
	res.Pushed, err = o.repo.Push(ctx, wikiHandle, o.cfg.Branch, res.Commits)
	o.recorder.ObservePush(time.Since(pushStart), pushResult(err))
	return err
}

func (o *Orchestrator) ensureLocal(ctx context.Context, name, url, path string) (*git.Handle, error) {
	start := time.Now()
	h, err := o.repo.EnsureLocal(ctx, url, path, o.cfg.CloneDepth())
	o.recorder.ObserveCloneDuration(name, time.Since(start), err == nil)
	return h, err
}

// codeChanged runs the optional pre-check on the code repository, one
// target file per kind. It returns nil when the pre-check is disabled or
// unavailable.
func (o *Orchestrator) codeChanged(ctx context.Context, log *slog.Logger, kinds []listgen.Kind) (map[listgen.Kind]bool, error) {
	if !o.cfg.Precheck.Enabled || o.precheck == nil {
		return nil, nil
	}
	h, err := o.ensureLocal(ctx, "code", o.cfg.RepoURL(), o.cfg.CodePath())
	if err != nil {
		return nil, err
	}
	out := make(map[listgen.Kind]bool, len(kinds))
	for _, kind := range kinds {
		target := o.cfg.Precheck.Target(kind.String())
		changed, err := o.precheck.ChangedSince(ctx, h, target)
		if err != nil {
			return nil, err
		}
		log.Info("Code repository pre-check", logfields.Kind(kind.String()), logfields.Path(target), logfields.Changed(changed))
		out[kind] = changed
	}
	return out, nil
}

func pushResult(err error) metrics.PushResult {
	switch {
	case err == nil:
		return metrics.PushSuccess
	case errors.IsTimeout(err):
		return metrics.PushTimeout
	default:
		return metrics.PushFailed
	}
}

// document carries one page through the state machine.
type document struct {
	o           *Orchestrator
	log         *slog.Logger
	kind        listgen.Kind
	cat         *catalog.Catalog
	handle      *git.Handle
	codeChanged *bool
	result      *DocumentResult
}

func (d *document) sync(ctx context.Context) error {
	*d.result = DocumentResult{Kind: d.kind, Page: d.kind.PageFilename(), State: StateInit, FirstDifference: -1}
	err := d.advance(ctx)
	if err != nil {
		d.o.recorder.IncDocumentOutcome(d.kind.String(), metrics.DocumentFailed)
		d.log.Error("Page sync failed", logfields.Stage(string(d.result.State)), logfields.Error(err))
		return err
	}
	d.o.recorder.IncDocumentOutcome(d.kind.String(), d.result.State.outcome())
	d.log.Info("Page synced", logfields.Stage(string(d.result.State)))
	return nil
}

func (d *document) advance(ctx context.Context) error {
	repoMode := d.o.cfg.Mode == config.ModeRepo

	// The pre-check only runs in repo mode; an untouched code file skips the page.
	if d.codeChanged != nil && !*d.codeChanged {
		d.result.State = StateSkipped
		return nil
	}

	doc, err := d.stage("load", func() (string, error) { return d.load(ctx) })
	if err != nil {
		return err
	}
	d.result.State = StateLoaded

	opts := RenderOptions(d.o.cfg, d.kind)
	table, err := d.stage("render", func() (string, error) {
		_, text, err := RenderTable(d.cat, d.kind, opts)
		return text, err
	})
	if err != nil {
		return err
	}
	d.result.State = StateRendered

	r, err := region.Locate(doc)
	if err != nil {
		return err
	}

	if repoMode {
		cs := region.Detect(r, table)
		d.result.FirstDifference = cs.FirstDifference
		if !cs.Changed {
			d.result.State = StateUnchanged
			return nil
		}
		d.log.Info("Table changed", slog.Int("first_difference", cs.FirstDifference),
			slog.Int("old_lines", len(cs.Old)), slog.Int("new_lines", len(cs.New)))
	}

	composed, err := d.stage("compose", func() (string, error) { return region.Compose(doc, r, table) })
	if err != nil {
		return err
	}
	d.result.State = StateComposed

	if repoMode {
		return d.commit(ctx, composed)
	}
	return d.write(composed)
}

func (d *document) load(ctx context.Context) (string, error) {
	if d.handle != nil {
		return wiki.LocalSource{Dir: d.handle.LocalPath}.Load(ctx, d.result.Page)
	}
	if d.o.remote == nil {
		return "", errors.InternalError("file mode requires a page source").Build()
	}
	return d.o.remote.Load(ctx, d.result.Page)
}

func (d *document) commit(ctx context.Context, composed string) error {
	start := time.Now()
	rec, err := d.o.repo.Commit(ctx, d.handle, d.result.Page, []byte(composed))
	d.o.recorder.ObserveStageDuration("commit", time.Since(start))
	if err != nil {
		return err
	}
	if rec == nil {
		d.result.State = StateUnchanged
		return nil
	}
	d.result.Commit = rec
	d.result.State = StateCommitted
	return nil
}

func (d *document) write(composed string) error {
	if err := os.MkdirAll(d.o.cfg.OutputDir, 0o750); err != nil {
		return errors.IOError("failed to create output directory").WithCause(err).WithContext("path", d.o.cfg.OutputDir).Build()
	}
	path := filepath.Join(d.o.cfg.OutputDir, d.result.Page)
	if err := os.WriteFile(path, []byte(composed), 0o644); err != nil { //nolint:gosec // published page
		return errors.IOError("failed to write page").WithCause(err).WithContext("path", path).Build()
	}
	d.result.Path = path
	d.result.State = StateWritten
	d.log.Info("Page written", logfields.Path(path))
	return nil
}

func (d *document) stage(name string, fn func() (string, error)) (string, error) {
	start := time.Now()
	out, err := fn()
	d.o.recorder.ObserveStageDuration(name, time.Since(start))
	return out, err
}
