// Package git captures source control provenance for registry entries.
package git

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Provenance = (*Provenance)(nil)

// Provenance implements ports.Provenance by asking the git binary.
type Provenance struct {
	// Dir is the working directory git runs in. Empty means the process directory.
	Dir string
}

// NewProvenance creates a Provenance rooted at dir.
func NewProvenance(dir string) *Provenance {
	return &Provenance{Dir: dir}
}

// Capture returns the HEAD commit and the origin remote URL. A repository
// without an origin remote yields an empty Remote and no error.
func (p *Provenance) Capture(ctx context.Context) (domain.Provenance, error) {
	commit, err := p.git(ctx, "rev-parse", "HEAD")
	if err != nil {
		return domain.Provenance{}, err
	}

	remote, err := p.git(ctx, "config", "--get", "remote.origin.url")
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return domain.Provenance{}, err
		}
		remote = ""
	}

	return domain.Provenance{Commit: commit, Remote: remote}, nil
}

func (p *Provenance) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = p.Dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		wrapped := zerr.With(zerr.Wrap(err, "git "+strings.Join(args, " ")), "stderr", strings.TrimSpace(stderr.String()))
		return "", errors.Join(domain.ErrProvenanceUnavailable, wrapped)
	}
	return strings.TrimSpace(string(out)), nil
}
