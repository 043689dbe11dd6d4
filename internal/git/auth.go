package git

import (
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// auth returns HTTP basic auth for remoteURL, or nil when no token is
// configured or the remote is not served over HTTP(S).
func (c *Client) auth(remoteURL string) transport.AuthMethod {
	if c.creds.Token == "" {
		return nil
	}
	if !strings.HasPrefix(remoteURL, "https://") && !strings.HasPrefix(remoteURL, "http://") {
		return nil
	}
	username := c.creds.Username
	if username == "" {
		username = "token" // GitHub and GitLab accept any non-empty username with a token
	}
	return &http.BasicAuth{Username: username, Password: c.creds.Token}
}
