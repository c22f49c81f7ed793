package driver

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Resolver implements interpreter.ImportResolver for IMPORT (spec §4.4):
// it consults the manifest's dependency table first, then falls back to a
// bare relative lookup across ImportPaths. Git dependencies are fetched
// into CacheDir on first use and cached there by pinned revision.
type Resolver struct {
	Manifest *Manifest
	CacheDir string
	Log      *slog.Logger
}

// NewResolver builds a Resolver. log may be nil, in which case diagnostics
// are discarded (the core never requires logging to function).
func NewResolver(manifest *Manifest, cacheDir string, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
	}
	return &Resolver{Manifest: manifest, CacheDir: cacheDir, Log: log}
}

// Resolve fetches the source text for a named import, matching
// interpreter.ImportResolver's signature.
func (r *Resolver) Resolve(name string) (string, error) {
	if r.Manifest != nil {
		if dep, ok := r.Manifest.Dependencies[name]; ok {
			return r.resolveDependency(name, dep)
		}
	}
	return r.resolvePath(name)
}

func (r *Resolver) resolveDependency(name string, dep *DependencySpec) (string, error) {
	if dep.Path != "" {
		return readUnit(dep.Path)
	}
	dir, err := r.ensureGitCheckout(name, dep)
	if err != nil {
		return "", fmt.Errorf("importing %q: %w", name, err)
	}
	return readUnit(dir)
}

// resolvePath tries each of the manifest's ImportPaths in order, then the
// working directory, looking for "<root>/<name>.psl".
func (r *Resolver) resolvePath(name string) (string, error) {
	roots := []string{"."}
	if r.Manifest != nil {
		roots = append(r.Manifest.ImportPaths, roots...)
	}
	var lastErr error
	for _, root := range roots {
		candidate := filepath.Join(root, name+".psl")
		data, err := os.ReadFile(candidate)
		if err == nil {
			return string(data), nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("import %q: not found on any import path: %w", name, lastErr)
}

// readUnit reads dir itself when it names a file; for a directory it reads
// the first ".psl" file in name order, whatever that file is called.
func readUnit(dir string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		data, err := os.ReadFile(dir)
		return string(data), err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".psl") {
			data, err := os.ReadFile(filepath.Join(dir, e.Name()))
			return string(data), err
		}
	}
	return "", fmt.Errorf("no .psl source file found in %s", dir)
}

// ensureGitCheckout clones dep's repository into r.CacheDir at its pinned
// revision if not already cached there, grounded on the teacher's
// cmd/able/deps_fetchers.go ensureGitCheckout.
func (r *Resolver) ensureGitCheckout(name string, dep *DependencySpec) (string, error) {
	revision, descriptor, err := gitRevisionFromSpec(dep)
	if err != nil {
		return "", err
	}
	baseDir := filepath.Join(r.CacheDir, sanitizeSegment(name))
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", err
	}

	targetDir := filepath.Join(baseDir, sanitizePathSegment(descriptor))
	if _, err := os.Stat(targetDir); err == nil {
		r.Log.Debug("import dependency already cached", "name", name, "dir", targetDir)
		return targetDir, nil
	}

	r.Log.Info("fetching import dependency", "name", name, "git", dep.Git, "rev", descriptor)
	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{URL: dep.Git})
	if err != nil {
		os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git clone %s: %w", dep.Git, err)
	}
	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		os.RemoveAll(tmpDir)
		return "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		os.RemoveAll(tmpDir)
		return "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git checkout %s: %w", revision, err)
	}
	if err := os.Rename(tmpDir, targetDir); err != nil {
		os.RemoveAll(tmpDir)
		return "", err
	}
	return targetDir, nil
}

func gitRevisionFromSpec(dep *DependencySpec) (plumbing.Revision, string, error) {
	if dep.Rev != "" {
		return plumbing.Revision(dep.Rev), dep.Rev, nil
	}
	if dep.Tag != "" {
		return plumbing.Revision("refs/tags/" + dep.Tag), dep.Tag, nil
	}
	if dep.Branch != "" {
		return plumbing.Revision("refs/heads/" + dep.Branch), dep.Branch, nil
	}
	return "", "", fmt.Errorf("git dependencies require rev, tag, or branch")
}

func sanitizeSegment(seg string) string {
	seg = strings.TrimSpace(seg)
	seg = strings.ReplaceAll(seg, "-", "_")
	return seg
}

func sanitizePathSegment(seg string) string {
	seg = strings.TrimSpace(seg)
	if seg == "" {
		return "head"
	}
	return strings.ReplaceAll(seg, "/", "_")
}
