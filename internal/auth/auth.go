package auth

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CredentialsFileName is the credentials file inside the data directory.
const CredentialsFileName = ".auth"

// Credentials holds the account username and password for HTTP Basic auth.
// Loaded once at startup and immutable afterwards.
type Credentials struct {
	Username string
	Password string
}

// Load reads credentials from <dir>/.auth. The file holds key:value lines;
// a line containing "user:" sets the username to the remainder and a line
// containing "password:" sets the password. Values are not validated: an
// absent password stays empty and requests fail at the HTTP layer instead.
func Load(dir string) (Credentials, error) {
	var creds Credentials

	path := filepath.Join(dir, CredentialsFileName)
	// #nosec G304 -- Path is derived from the administrator-supplied data directory
	f, err := os.Open(path)
	if err != nil {
		return creds, fmt.Errorf("failed to open credentials file: %w", err)
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.Index(line, "user:"); idx >= 0 {
			creds.Username = strings.TrimSpace(line[idx+len("user:"):])
		} else if idx := strings.Index(line, "password:"); idx >= 0 {
			creds.Password = strings.TrimSpace(line[idx+len("password:"):])
		}
	}
	if err := scanner.Err(); err != nil {
		_ = f.Close()
		return creds, fmt.Errorf("failed to read credentials file: %w", err)
	}

	if err := f.Close(); err != nil {
		return creds, fmt.Errorf("failed to close credentials file: %w", err)
	}

	return creds, nil
}
