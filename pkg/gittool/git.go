package gittool

import (
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
)

var ErrNotRepository = errors.New("not a git repository")

// GitClient reads the state of the repository an analysis runs in.
type GitClient interface {
	// Root returns the absolute path of the worktree.
	Root() string
	// HeadRevision returns the hash of the HEAD commit.
	HeadRevision() (string, error)
	// DiffChanges returns the files changed between the merge base of compareBranch and HEAD.
	DiffChanges(compareBranch string) ([]*Change, error)
}

// NewGitClient opens the repository containing path, searching parent directories for .git.
func NewGitClient(path string) (GitClient, error) {
	repository, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
		}
		return nil, fmt.Errorf("open repository %s: %w", path, err)
	}

	worktree, err := repository.Worktree()
	if err != nil {
		return nil, fmt.Errorf("get worktree: %w", err)
	}

	return &gitClient{
		repository:     repository,
		repositoryPath: worktree.Filesystem.Root(),
	}, nil
}

type gitClient struct {
	repository     *gogit.Repository
	repositoryPath string
}

var _ GitClient = (*gitClient)(nil)

func (g *gitClient) Root() string {
	return g.repositoryPath
}

func (g *gitClient) HeadRevision() (string, error) {
	ref, err := g.repository.Head()
	if err != nil {
		return "", fmt.Errorf("get HEAD: %w", err)
	}
	return ref.Hash().String(), nil
}
