package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/log"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// SuiteSource locates fixture suites in a git repository. Exactly one of
// Rev, Tag or Branch selects the revision; Path is an optional
// subdirectory of the checkout.
type SuiteSource struct {
	URL    string
	Rev    string
	Tag    string
	Branch string
	Path   string
}

// Checkout is a pinned working copy in the suite cache.
type Checkout struct {
	Root    string
	Dir     string
	Commit  string
	Version string
}

// FetchSuites clones src into <cacheDir>/suites/<url>/<version> and checks
// out the requested revision. A checkout already cached for an explicit Rev
// is reused without touching the network.
func FetchSuites(ctx context.Context, cacheDir string, src SuiteSource) (*Checkout, error) {
	url := strings.TrimSpace(src.URL)
	if url == "" {
		return nil, fmt.Errorf("fetch: missing repository url")
	}
	if cacheDir == "" {
		return nil, fmt.Errorf("fetch: missing cache directory")
	}
	revision, descriptor, err := revisionFromSource(src)
	if err != nil {
		return nil, err
	}

	baseDir := filepath.Join(cacheDir, "suites", sanitizePathSegment(url))
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("fetch: create %s: %w", baseDir, err)
	}

	if rev := strings.TrimSpace(src.Rev); rev != "" {
		existing := filepath.Join(baseDir, sanitizePathSegment(rev))
		if info, err := os.Stat(existing); err == nil && info.IsDir() {
			log.LogVf("fetch: reusing %s", existing)
			return newCheckout(existing, rev, rev, src.Path)
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return nil, err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return nil, err
	}

	log.Infof("fetch: cloning %s", url)
	repo, err := git.PlainCloneContext(ctx, tmpDir, false, &git.CloneOptions{URL: url})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("git clone %s: %w", url, err)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("resolve revision %s: %w", revision, err)
	}

	version := pinnedVersion(descriptor, hash.String())
	targetDir := filepath.Join(baseDir, sanitizePathSegment(version))
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return newCheckout(targetDir, hash.String(), version, src.Path)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("git checkout %s: %w", revision, err)
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, err
	}
	return newCheckout(targetDir, hash.String(), version, src.Path)
}

func newCheckout(root, commit, version, subdir string) (*Checkout, error) {
	dir := root
	if subdir = strings.TrimSpace(subdir); subdir != "" {
		clean := filepath.Clean(subdir)
		if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return nil, fmt.Errorf("fetch: path %q escapes the checkout", subdir)
		}
		dir = filepath.Join(root, clean)
	}
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("fetch: %s not found in checkout", subdir)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("fetch: %s is not a directory", subdir)
	}
	return &Checkout{Root: root, Dir: dir, Commit: commit, Version: version}, nil
}

func pinnedVersion(descriptor, commit string) string {
	commit = strings.TrimSpace(commit)
	descriptor = strings.TrimSpace(descriptor)
	if commit == "" {
		return descriptor
	}
	if descriptor == "" || descriptor == commit {
		return commit
	}
	return fmt.Sprintf("%s@%s", descriptor, commit)
}

func revisionFromSource(src SuiteSource) (plumbing.Revision, string, error) {
	set := 0
	for _, v := range []string{src.Rev, src.Tag, src.Branch} {
		if strings.TrimSpace(v) != "" {
			set++
		}
	}
	if set > 1 {
		return "", "", fmt.Errorf("fetch: rev, tag and branch are mutually exclusive")
	}
	if rev := strings.TrimSpace(src.Rev); rev != "" {
		return plumbing.Revision(rev), rev, nil
	}
	if tag := strings.TrimSpace(src.Tag); tag != "" {
		return plumbing.Revision("refs/tags/" + tag), tag, nil
	}
	if branch := strings.TrimSpace(src.Branch); branch != "" {
		return plumbing.Revision("refs/heads/" + branch), branch, nil
	}
	return "", "", fmt.Errorf("fetch: one of rev, tag or branch is required")
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
