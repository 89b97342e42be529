package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

var cacheRoot = "cache"

// Path returns the cache file path for a published post page.
func Path(slug string) string {
	hash := hashString(slug)
	shortHash := hash[:16]
	return filepath.Join(cacheRoot, fmt.Sprintf("%s_%s.html", slug, shortHash))
}

func hashString(s string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(s))
}

// Write stores rendered HTML for a post page.
func Write(slug, html string) error {
	if err := os.MkdirAll(cacheRoot, 0755); err != nil {
		return err
	}
	return os.WriteFile(Path(slug), []byte(html), 0644)
}

// Read returns cached HTML if present and not older than maxAge.
func Read(slug string, maxAge time.Duration) (string, bool) {
	cachePath := Path(slug)

	info, err := os.Stat(cachePath)
	if err != nil {
		return "", false
	}

	if time.Since(info.ModTime()) > maxAge {
		return "", false
	}

	content, err := os.ReadFile(cachePath)
	if err != nil {
		return "", false
	}

	return string(content), true
}

// Clear removes the cached page for a slug, including stale files left behind
// by earlier slugs with the same prefix.
func Clear(slug string) error {
	if slug == "" {
		return nil
	}

	err := os.Remove(Path(slug))
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	pattern := filepath.Join(cacheRoot, slug+"_*.html")
	matches, globErr := filepath.Glob(pattern)
	if globErr != nil {
		return nil
	}
	for _, match := range matches {
		os.Remove(match)
	}

	return nil
}

// ClearAll drops every cached page.
func ClearAll() error {
	return os.RemoveAll(cacheRoot)
}

// ClearOld removes cache files older than maxAge.
func ClearOld(maxAge time.Duration) error {
	return filepath.Walk(cacheRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}

		if info.IsDir() {
			return nil
		}

		if !strings.HasSuffix(path, ".html") {
			return nil
		}

		if time.Since(info.ModTime()) > maxAge {
			os.Remove(path)
		}

		return nil
	})
}
