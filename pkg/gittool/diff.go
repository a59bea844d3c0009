package gittool

import (
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

func (g *gitClient) DiffChanges(compareBranch string) ([]*Change, error) {
	head, err := g.repository.Head()
	if err != nil {
		return nil, fmt.Errorf("get HEAD: %w", err)
	}
	headCommit, err := g.repository.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("get HEAD commit: %w", err)
	}

	hash, err := g.repository.ResolveRevision(plumbing.Revision(compareBranch))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", compareBranch, err)
	}
	compareCommit, err := g.repository.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("get %s commit: %w", compareBranch, err)
	}

	// diff against the merge base, like "git diff compareBranch...HEAD"
	base := compareCommit
	if bases, err := headCommit.MergeBase(compareCommit); err == nil && len(bases) > 0 {
		base = bases[0]
	}

	return diffCommits(base, headCommit)
}

func diffCommits(from, to *object.Commit) ([]*Change, error) {
	fromTree, err := from.Tree()
	if err != nil {
		return nil, fmt.Errorf("get tree of %s: %w", from.Hash, err)
	}
	toTree, err := to.Tree()
	if err != nil {
		return nil, fmt.Errorf("get tree of %s: %w", to.Hash, err)
	}

	changes, err := object.DiffTree(fromTree, toTree)
	if err != nil {
		return nil, fmt.Errorf("diff tree: %w", err)
	}

	var result []*Change
	for _, c := range changes {
		change, err := buildChange(c)
		if err != nil {
			return nil, err
		}
		result = append(result, change)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].FileName < result[j].FileName })
	return result, nil
}

func buildChange(c *object.Change) (*Change, error) {
	action, err := c.Action()
	if err != nil {
		return nil, fmt.Errorf("change action: %w", err)
	}

	switch action {
	case merkletrie.Insert:
		return &Change{FileName: c.To.Name, Mode: NewMode}, nil
	case merkletrie.Delete:
		return &Change{FileName: c.From.Name, Mode: DeleteMode}, nil
	default:
		if c.From.Name != c.To.Name {
			return &Change{FileName: c.To.Name, Mode: RenameMode}, nil
		}
		return &Change{FileName: c.To.Name, Mode: ModifyMode}, nil
	}
}
