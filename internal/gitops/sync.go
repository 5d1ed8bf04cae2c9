// Package gitops keeps a local checkout of the platform configuration
// repository that the GitOps engine is bootstrapped from.
package gitops

import (
	"context"
	"errors"
	"fmt"

	git "github.com/go-git/go-git/v5"

	"github.com/idp-platform/platformctl/internal/logger"
)

// State reports what Ensure did to the checkout.
type State struct {
	Path    string
	Head    string
	Cloned  bool
	Updated bool
}

// Syncer materializes and refreshes the config repo clone. Ensure is
// idempotent: clone on first run, pull on every run after.
type Syncer struct {
	log *logger.Logger
}

// NewSyncer creates a Syncer.
func NewSyncer(log *logger.Logger) *Syncer {
	return &Syncer{log: log.WithComponent("gitops")}
}

// Ensure guarantees dir holds an up-to-date clone of repoURL.
func (s *Syncer) Ensure(ctx context.Context, repoURL, dir string) (*State, error) {
	state := &State{Path: dir}

	repo, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:   repoURL,
		Depth: 1,
	})
	switch {
	case err == nil:
		state.Cloned = true
		s.log.WithFields(map[string]any{"repo": repoURL, "dir": dir}).Info("config repo cloned")
	case errors.Is(err, git.ErrRepositoryAlreadyExists):
		repo, err = s.pull(ctx, dir, state)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("clone %s: %w", repoURL, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD of %s: %w", dir, err)
	}
	state.Head = head.Hash().String()

	return state, nil
}

func (s *Syncer) pull(ctx context.Context, dir string, state *State) (*git.Repository, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, fmt.Errorf("open existing checkout %s: %w", dir, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("worktree of %s: %w", dir, err)
	}

	err = worktree.PullContext(ctx, &git.PullOptions{RemoteName: "origin"})
	switch {
	case err == nil:
		state.Updated = true
		s.log.WithFields(map[string]any{"dir": dir}).Info("config repo updated")
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		// nothing to fetch, still a success
	default:
		return nil, fmt.Errorf("pull %s: %w", dir, err)
	}

	return repo, nil
}
