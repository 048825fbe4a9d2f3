package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// CredentialsWriter appends freshly issued account credentials to a
// role-specific plaintext file. This is an intentional side channel for
// initial password distribution inherited from the original deployment;
// anything that constructs one should log a warning about it.
type CredentialsWriter struct {
	dir string
	mu  sync.Mutex
}

// NewCredentialsWriter constructs a writer rooted at dir, creating it if needed.
func NewCredentialsWriter(dir string) (*CredentialsWriter, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create credentials dir: %w", err)
	}
	return &CredentialsWriter{dir: dir}, nil
}

// Append writes one `{id} | {full_name} | {password}` line to the file for role.
func (w *CredentialsWriter) Append(role, id, fullName, password string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	path := filepath.Join(w.dir, fmt.Sprintf("%ss_credentials.txt", role))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open credentials file: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s | %s | %s\n", id, fullName, password); err != nil {
		return fmt.Errorf("append credentials: %w", err)
	}
	return nil
}
