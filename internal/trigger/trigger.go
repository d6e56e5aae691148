package trigger

import (
	git "github.com/go-git/go-git/v5"
)

const (
	// KindPush identifies a push-triggered run.
	KindPush = "push"
	// KindPullRequest identifies a pull-request-triggered run.
	KindPullRequest = "pull_request"
)

// ValidKind reports whether kind names a known trigger event.
func ValidKind(kind string) bool {
	return kind == KindPush || kind == KindPullRequest
}

// Metadata describes the repository state a run was triggered against.
// The orchestrator treats it as report context only, never as input data.
type Metadata struct {
	Branch string
	Commit string
}

// Describe reads the current branch and short commit hash from the
// repository at dir. A directory that is not a git repository, or a
// repository without commits, degrades to empty metadata.
func Describe(dir string) Metadata {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return Metadata{}
	}

	head, err := repo.Head()
	if err != nil {
		return Metadata{}
	}

	meta := Metadata{Commit: shortHash(head.Hash().String())}
	if head.Name().IsBranch() {
		meta.Branch = head.Name().Short()
	}
	return meta
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
