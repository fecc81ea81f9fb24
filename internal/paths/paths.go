package paths

import (
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

// CanonicalizePath converts an absolute path to a repo-relative canonical path
// - Resolves symlinks to real paths
// - Makes path relative to repo root
// - Returns repo-relative path with forward slashes
func CanonicalizePath(absolutePath string, repoRoot string) (string, error) {
	resolved, err := filepath.EvalSymlinks(absolutePath)
	if err != nil {
		// If the file doesn't exist yet, use the path as-is
		if os.IsNotExist(err) {
			resolved = absolutePath
		} else {
			return "", err
		}
	}

	repoRootResolved, err := filepath.EvalSymlinks(repoRoot)
	if err != nil {
		if os.IsNotExist(err) {
			repoRootResolved = repoRoot
		} else {
			return "", err
		}
	}

	relativePath, err := filepath.Rel(repoRootResolved, resolved)
	if err != nil {
		return "", err
	}

	return NormalizePath(relativePath), nil
}

// IsWithinRoot checks if a path is within the given root directory
func IsWithinRoot(p string, root string) bool {
	canonical, err := CanonicalizePath(p, root)
	if err != nil {
		return false
	}
	return canonical != ".." && !strings.HasPrefix(canonical, "../")
}

// NormalizePath converts backslashes to forward slashes, cleans the result
// and drops any trailing slash. The repo root itself normalizes to "".
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
	if p == "." {
		return ""
	}
	return p
}

// TrimTrailingSlash removes trailing '/' characters. "/" becomes "".
func TrimTrailingSlash(p string) string {
	return strings.TrimRight(p, "/")
}

// JoinRepoPath joins a repo root with a canonical path
func JoinRepoPath(repoRoot string, canonicalPath string) string {
	normalizedPath := strings.ReplaceAll(canonicalPath, "\\", "/")
	parts := strings.Split(normalizedPath, "/")
	return filepath.Join(append([]string{repoRoot}, parts...)...)
}

// DetectCaseSensitive reports whether the file system holding dir
// distinguishes names that differ only in case. When dir cannot be probed
// it falls back to the platform default.
func DetectCaseSensitive(dir string) bool {
	f, err := os.CreateTemp(dir, "modgraph-case-probe-")
	if err != nil {
		return platformCaseSensitive()
	}
	name := f.Name()
	_ = f.Close()
	defer func() { _ = os.Remove(name) }()

	swapped := filepath.Join(filepath.Dir(name), strings.ToUpper(filepath.Base(name)))
	if _, err := os.Stat(swapped); err == nil {
		return false
	}
	return true
}

func platformCaseSensitive() bool {
	switch runtime.GOOS {
	case "darwin", "windows", "ios":
		return false
	}
	return true
}
