package lint

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"

	"github.com/sofmeright/lintrc/src/config"
	"github.com/sofmeright/lintrc/src/log"
)

// TargetBranchEnv overrides the branch --changed diffs against.
const TargetBranchEnv = "LINTRC_TARGET_BRANCH"

// ciTargetBranchVars name the merge request target branch on common CI systems.
var ciTargetBranchVars = []string{
	"CI_MERGE_REQUEST_TARGET_BRANCH_NAME",
	"GITHUB_BASE_REF",
	"BITBUCKET_PR_DESTINATION_BRANCH",
	"CHANGE_TARGET",
}

// Delta selects the files a change touches. Paths are reported relative to
// RootDir, which may be anywhere inside a git work tree. Source, when set,
// supplies the target_branch default and drops blacklisted paths.
type Delta struct {
	RootDir      string
	TargetBranch string
	Source       ConfigSource
}

// ChangedFiles returns the RootDir-relative slash paths of files that are
// modified in the work tree or differ between HEAD and the target branch.
// Deleted files and blacklisted files are left out. A nil set means no
// delta could be computed and everything should be scanned.
func (d *Delta) ChangedFiles(ctx context.Context) (map[string]bool, error) {
	logger := log.WithComponent("delta")

	repo, err := git.PlainOpenWithOptions(d.RootDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		logger.Debug().Str("dir", d.RootDir).Msg("not a git repository, scanning all files")
		return nil, nil
	}
	wt, err := repo.Worktree()
	if err != nil {
		logger.Debug().Err(err).Msg("bare repository, scanning all files")
		return nil, nil
	}
	repoRoot := wt.Filesystem.Root()

	paths, err := worktreeChanges(wt)
	if err != nil {
		logger.Debug().Err(err).Msg("worktree status failed, scanning all files")
		return nil, nil
	}

	branch, err := d.targetBranch(repo)
	if err != nil {
		return nil, err
	}
	committed, err := branchChanges(ctx, repo, branch)
	if err != nil {
		logger.Debug().Err(err).Str("branch", branch).Msg("branch diff failed, scanning all files")
		return nil, nil
	}
	paths = append(paths, committed...)

	changed := make(map[string]bool, len(paths))
	for _, p := range paths {
		abs := filepath.Join(repoRoot, filepath.FromSlash(p))
		rel, err := filepath.Rel(d.RootDir, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		blacklisted, err := d.blacklisted(abs)
		if err != nil {
			return nil, err
		}
		if !blacklisted {
			changed[filepath.ToSlash(rel)] = true
		}
	}

	logger.Debug().Str("branch", branch).Int("files", len(changed)).Msg("changed files detected")
	return changed, nil
}

func (d *Delta) blacklisted(abs string) (bool, error) {
	if d.Source == nil {
		return false, nil
	}
	cfg, err := d.Source.GetConfig(abs)
	if err != nil {
		return false, fmt.Errorf("resolving config for %s: %w", abs, err)
	}
	return IsBlacklisted(cfg, abs), nil
}

// worktreeChanges lists staged and unstaged modifications that still exist
// on disk.
func worktreeChanges(wt *git.Worktree) ([]string, error) {
	status, err := wt.Status()
	if err != nil {
		return nil, err
	}

	var paths []string
	for path, s := range status {
		if s.Worktree == git.Deleted || (s.Worktree == git.Unmodified && s.Staging == git.Unmodified) {
			continue
		}
		if s.Staging == git.Deleted && s.Worktree != git.Untracked {
			continue
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// branchChanges lists files added or modified on HEAD since branch. When HEAD
// is the branch tip the last commit is diffed against its parent instead.
// An unknown branch or a root commit yields no paths.
func branchChanges(ctx context.Context, repo *git.Repository, branch string) ([]string, error) {
	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("getting HEAD: %w", err)
	}
	headCommit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("getting HEAD commit: %w", err)
	}

	ref, err := repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		if ref, err = repo.Reference(plumbing.NewRemoteReferenceName("origin", branch), true); err != nil {
			return nil, nil
		}
	}
	base, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("getting %s commit: %w", branch, err)
	}
	if base.Hash == headCommit.Hash {
		if headCommit.NumParents() == 0 {
			return nil, nil
		}
		if base, err = headCommit.Parent(0); err != nil {
			return nil, fmt.Errorf("getting HEAD parent: %w", err)
		}
	}

	from, err := base.Tree()
	if err != nil {
		return nil, err
	}
	to, err := headCommit.Tree()
	if err != nil {
		return nil, err
	}
	changes, err := object.DiffTreeWithOptions(ctx, from, to, &object.DiffTreeOptions{})
	if err != nil {
		return nil, fmt.Errorf("diffing trees: %w", err)
	}

	var paths []string
	for _, c := range changes {
		action, err := c.Action()
		if err != nil || action == merkletrie.Delete {
			continue
		}
		paths = append(paths, c.To.Name)
	}
	return paths, nil
}

// targetBranch picks the branch to diff against: the flag, TargetBranchEnv,
// a CI merge request variable, target_branch from the configuration resolved
// for RootDir, origin/HEAD, and finally "main".
func (d *Delta) targetBranch(repo *git.Repository) (string, error) {
	if d.TargetBranch != "" {
		return d.TargetBranch, nil
	}
	for _, v := range append([]string{TargetBranchEnv}, ciTargetBranchVars...) {
		if branch := os.Getenv(v); branch != "" {
			return branch, nil
		}
	}
	if d.Source != nil {
		cfg, err := d.Source.GetConfig(filepath.Join(d.RootDir, config.LocalConfigFilename))
		if err != nil {
			return "", fmt.Errorf("resolving config for %s: %w", d.RootDir, err)
		}
		if branch := cfg.TargetBranch(); branch != "" {
			return branch, nil
		}
	}
	if repo != nil {
		// origin/HEAD is symbolic; its target names the remote default branch.
		if ref, err := repo.Reference(plumbing.NewRemoteReferenceName("origin", "HEAD"), false); err == nil {
			if branch, ok := strings.CutPrefix(ref.Target().String(), "refs/remotes/origin/"); ok {
				return branch, nil
			}
		}
	}
	return "main", nil
}

// FilterByDelta keeps the files whose path is in changedSet. A nil set keeps
// everything.
func FilterByDelta(files []FileInfo, changedSet map[string]bool) []FileInfo {
	if changedSet == nil {
		return files
	}

	filtered := make([]FileInfo, 0, len(changedSet))
	for _, f := range files {
		path := strings.TrimPrefix(filepath.ToSlash(f.Path), "./")
		if changedSet[path] {
			filtered = append(filtered, f)
		}
	}
	return filtered
}
