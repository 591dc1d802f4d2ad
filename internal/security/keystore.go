// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package security

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeranaias/leavedesk-tui/internal/util"
)

// =============================================================================
// KEYSTORE INTERFACE
// =============================================================================

// KeyStore defines the interface for master key storage.
type KeyStore interface {
	// Store securely stores the encryption key.
	Store(key []byte) error
	// Retrieve retrieves the encryption key from storage.
	Retrieve() ([]byte, error)
	// Delete removes the key from storage.
	Delete() error
	// Exists checks if a key is stored.
	Exists() bool
}

// =============================================================================
// FILE-BASED KEYSTORE
// =============================================================================

// FileKeyStore stores the master key in a file with restricted permissions
// (0600, inside a 0700 directory).
type FileKeyStore struct {
	path string
}

// NewFileKeyStore creates a file-based key store at the given path.
func NewFileKeyStore(path string) *FileKeyStore {
	return &FileKeyStore{path: path}
}

// NewDefaultKeyStore creates a key store at ~/.leavedesk/master.key.
func NewDefaultKeyStore() (*FileKeyStore, error) {
	path, err := DefaultKeyPath()
	if err != nil {
		return nil, fmt.Errorf("failed to determine key path: %w", err)
	}
	return NewFileKeyStore(path), nil
}

// Path returns the key file location. Derived artifacts (the PBKDF2 salt)
// live next to it.
func (f *FileKeyStore) Path() string {
	return f.path
}

// Store saves the key with owner-only permissions.
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func (f *FileKeyStore) Store(key []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}

	if err := util.AtomicWriteFile(f.path, key, 0600); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}
	return nil
}

// Retrieve reads the key from the file.
func (f *FileKeyStore) Retrieve() ([]byte, error) {
	key, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	return key, nil
}

// Delete removes the key file.
func (f *FileKeyStore) Delete() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete key file: %w", err)
	}
	return nil
}

// Exists checks if the key file exists.
func (f *FileKeyStore) Exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}
