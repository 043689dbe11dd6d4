package git

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/wikilist/internal/foundation/errors"
	"git.home.luguber.info/inful/wikilist/internal/logfields"
)

// DefaultPushTimeout bounds a push when no timeout is configured.
const DefaultPushTimeout = 60 * time.Second

// DefaultRemoteName is the remote pushes go to.
const DefaultRemoteName = "origin"

// Repository is the capability set the synchronization logic needs from a
// version-controlled store.
type Repository interface {
	// EnsureLocal clones remoteURL into localPath when it does not exist yet,
	// otherwise opens the existing working copy and updates it from the
	// remote. depth > 0 makes the clone and fetches shallow.
	EnsureLocal(ctx context.Context, remoteURL, localPath string, depth int) (*Handle, error)
	// Commit writes content to filePath inside the working copy and commits it.
	// Empty content is a no-op returning a nil record.
	Commit(ctx context.Context, h *Handle, filePath string, content []byte) (*CommitRecord, error)
	// Push pushes branch to the remote and returns the number of commits pushed.
	Push(ctx context.Context, h *Handle, branch string, commitCount int) (int, error)
}

// Identity is the author and committer of automated commits.
type Identity struct {
	Name  string
	Email string
}

// DefaultIdentity is the bot identity used unless configured otherwise.
var DefaultIdentity = Identity{Name: "wikilist-bot", Email: "wikilist-bot@users.noreply.github.com"}

// Credentials authenticate pushes. They are never used as commit identity.
type Credentials struct {
	Username string
	Token    string
}

// Handle is an opened working copy. Handles are shared: every EnsureLocal call
// for the same path returns the same Handle and therefore the same commit lock.
type Handle struct {
	LocalPath string
	RemoteURL string

	repo  *git.Repository
	lock  *commitLock
	depth int
}

// CommitRecord describes a commit created by Commit.
type CommitRecord struct {
	Hash     string
	Category string
	Message  string
	Path     string
}

// Client implements Repository with go-git.
type Client struct {
	identity    Identity
	creds       Credentials
	pushTimeout time.Duration
	progress    io.Writer
	now         func() time.Time
	pushFn      pushFunc

	mu      sync.Mutex
	handles map[string]*Handle
}

var _ Repository = (*Client)(nil)

// NewClient creates a go-git backed repository client.
func NewClient(creds Credentials) *Client {
	return &Client{
		identity:    DefaultIdentity,
		creds:       creds,
		pushTimeout: DefaultPushTimeout,
		now:         time.Now,
		handles:     make(map[string]*Handle),
	}
}

// WithIdentity overrides the bot identity (fluent helper).
func (c *Client) WithIdentity(id Identity) *Client {
	if id.Name != "" && id.Email != "" {
		c.identity = id
	}
	return c
}

// WithPushTimeout overrides the push deadline; non-positive values keep the default.
func (c *Client) WithPushTimeout(d time.Duration) *Client {
	if d > 0 {
		c.pushTimeout = d
	}
	return c
}

// WithProgress streams clone and push progress to w.
func (c *Client) WithProgress(w io.Writer) *Client { c.progress = w; return c }

// EnsureLocal clones the working copy at localPath, or reuses it and fetches
// and fast-forwards it so every call sees the current remote state.
func (c *Client) EnsureLocal(ctx context.Context, remoteURL, localPath string, depth int) (*Handle, error) {
	absPath, err := filepath.Abs(localPath)
	if err != nil {
		return nil, errors.IOError("failed to resolve working copy path").WithCause(err).WithContext("path", localPath).Build()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if h, ok := c.handles[absPath]; ok {
		if err := c.update(ctx, h); err != nil {
			return nil, err
		}
		return h, nil
	}

	_, statErr := os.Stat(absPath)
	fresh := os.IsNotExist(statErr)
	var repo *git.Repository
	if fresh {
		repo, err = c.clone(ctx, remoteURL, absPath, depth)
	} else {
		repo, err = c.open(absPath)
	}
	if err != nil {
		return nil, err
	}

	h := &Handle{LocalPath: absPath, RemoteURL: remoteURL, repo: repo, lock: newCommitLock(), depth: depth}
	if !fresh {
		if err := c.update(ctx, h); err != nil {
			return nil, err
		}
	}
	c.handles[absPath] = h
	return h, nil
}

func (c *Client) clone(ctx context.Context, remoteURL, path string, depth int) (*git.Repository, error) {
	if err := EnsureWorkspace(filepath.Dir(path)); err != nil {
		return nil, err
	}
	slog.Info("Cloning repository", logfields.URL(remoteURL), logfields.Path(path), slog.Int("depth", depth))
	start := time.Now()

	opts := &git.CloneOptions{URL: remoteURL, Progress: c.progress}
	if depth > 0 {
		opts.Depth = depth
	}
	if auth := c.auth(remoteURL); auth != nil {
		opts.Auth = auth
	}
	repo, err := git.PlainCloneContext(ctx, path, false, opts)
	if err != nil {
		_ = os.RemoveAll(path)
		return nil, classify("clone", remoteURL, err)
	}

	if ref, herr := repo.Head(); herr == nil {
		slog.Info("Repository cloned successfully", logfields.URL(remoteURL), logfields.Commit(ref.Hash().String()), logfields.Path(path),
			logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	} else {
		slog.Info("Repository cloned successfully", logfields.URL(remoteURL), logfields.Path(path))
	}
	return repo, nil
}

func (c *Client) open(path string) (*git.Repository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, errors.RepositoryError("failed to open working copy").
			WithCause(err).
			WithContext("op", "open").
			WithContext("path", path).
			Build()
	}
	slog.Debug("Opened existing working copy", logfields.Path(path))
	return repo, nil
}
