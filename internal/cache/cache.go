// Package cache persists the discovered usage resource URL across restarts.
//
// Discovery is a one-time API call; its result is written as a single
// newline-terminated line to <dir>/.service_cache and treated as valid
// indefinitely. The only invalidation path is an empty cache file, which is
// deleted on read so the next startup rediscovers.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the cache file inside the data directory.
const FileName = ".service_cache"

// Load returns the cached resource URL, or the empty string when no valid
// cache exists. An empty cache file is treated as corrupt: it is deleted and
// reported as a miss so the caller rediscovers.
func Load(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	// #nosec G304 -- Path is derived from the administrator-supplied data directory
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read service cache: %w", err)
	}

	url := strings.TrimRight(string(data), "\n")
	if url == "" {
		if err := os.Remove(path); err != nil {
			return "", fmt.Errorf("failed to remove corrupt service cache: %w", err)
		}
		return "", nil
	}

	return url, nil
}

// Store writes the resource URL as the sole line of the cache file
func Store(dir, url string) error {
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(url+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write service cache: %w", err)
	}
	return nil
}
