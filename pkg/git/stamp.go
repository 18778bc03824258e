// Package git reads the revision of the working tree a run was started from.
package git

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNotRepository is returned when the path is not inside a git repository.
var ErrNotRepository = git.ErrRepositoryNotExists

// Stamp identifies the checked out revision.
type Stamp struct {
	Branch string // short branch name, "HEAD" when detached
	Commit string // abbreviated commit hash
	Dirty  bool   // tracked files have uncommitted changes
}

// String returns "branch@commit", with a "+dirty" suffix for modified trees.
func (s Stamp) String() string {
	if s.Commit == "" {
		return s.Branch
	}
	res := s.Branch + "@" + s.Commit
	if s.Dirty {
		res += "+dirty"
	}
	return res
}

// Read returns the stamp of the repository containing path. A repository without
// commits returns its branch only.
func Read(path string) (Stamp, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Stamp{}, fmt.Errorf("open repository %s: %w", path, err)
	}

	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		ref, rerr := repo.Reference(plumbing.HEAD, false)
		if rerr != nil {
			return Stamp{}, fmt.Errorf("read HEAD: %w", rerr)
		}
		return Stamp{Branch: ref.Target().Short()}, nil
	}
	if err != nil {
		return Stamp{}, fmt.Errorf("read HEAD: %w", err)
	}

	st := Stamp{Branch: "HEAD", Commit: head.Hash().String()[:7]}
	if head.Name().IsBranch() {
		st.Branch = head.Name().Short()
	}

	wt, err := repo.Worktree()
	if errors.Is(err, git.ErrIsBareRepository) {
		return st, nil
	}
	if err != nil {
		return Stamp{}, fmt.Errorf("open worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return Stamp{}, fmt.Errorf("worktree status: %w", err)
	}
	for _, fs := range status {
		if fs.Worktree == git.Untracked && fs.Staging == git.Untracked {
			continue
		}
		if fs.Worktree != git.Unmodified || fs.Staging != git.Unmodified {
			st.Dirty = true
			break
		}
	}
	return st, nil
}
