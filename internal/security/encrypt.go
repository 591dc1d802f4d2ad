// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package security provides encryption at rest for stored credentials.
//
// Access and refresh tokens are never written to disk in the clear. They are
// sealed with AES-256-GCM under a master key kept in a restricted file, with
// optional PBKDF2-SHA-256 derivation when a passphrase is supplied.
package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/pbkdf2"

	"github.com/jeranaias/leavedesk-tui/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// EncryptedPrefix marks a value as encrypted (format: ENC:base64(nonce|ciphertext|tag))
const EncryptedPrefix = "ENC:"

// NonceSize is the size of the nonce/IV for AES-GCM (12 bytes / 96 bits)
const NonceSize = 12

// KeySize is the size of the AES-256 key (32 bytes / 256 bits)
const KeySize = 32

// SaltSize is the size of the salt for key derivation (32 bytes)
const SaltSize = 32

// PBKDF2Iterations is the number of iterations for PBKDF2 key derivation.
// OWASP 2023 recommends 600,000+ for PBKDF2-SHA-256.
const PBKDF2Iterations = 600000

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotInitialized indicates encryption has not been initialized.
	ErrNotInitialized = errors.New("encryption not initialized")
	// ErrInvalidCiphertext indicates the ciphertext format is invalid.
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")
	// ErrDecryptionFailed indicates decryption failed (wrong key or tampered data).
	ErrDecryptionFailed = errors.New("decryption failed: authentication tag mismatch")
)

// ZeroBytes securely zeros sensitive byte slices to prevent memory disclosure.
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// =============================================================================
// ENCRYPTION MANAGER
// =============================================================================

// EncryptionManager seals and opens credential material with AES-256-GCM.
type EncryptionManager struct {
	mu           sync.RWMutex
	keyStore     KeyStore
	cipher       cipher.AEAD
	nonceCounter uint64
}

// NewEncryptionManager creates an encryption manager backed by the given key
// store. If no key exists yet one is generated and stored, so first use on a
// fresh machine needs no setup step.
func NewEncryptionManager(keyStore KeyStore) (*EncryptionManager, error) {
	em := &EncryptionManager{keyStore: keyStore}

	if keyStore.Exists() {
		if err := em.loadKey(); err != nil {
			return nil, fmt.Errorf("failed to load master key: %w", err)
		}
		return em, nil
	}

	key, err := GenerateMasterKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate master key: %w", err)
	}
	// SECURITY: Zero key material to prevent memory disclosure
	defer ZeroBytes(key)

	if err := keyStore.Store(key); err != nil {
		return nil, fmt.Errorf("failed to store master key: %w", err)
	}

	if err := em.initCipher(key); err != nil {
		_ = keyStore.Delete()
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}

	return em, nil
}

// NewEncryptionManagerWithPassword creates an encryption manager whose key is
// derived from a passphrase via PBKDF2-SHA-256. The salt lives next to the
// key store path with a .salt suffix and is created on first use.
func NewEncryptionManagerWithPassword(password, saltPath string) (*EncryptionManager, error) {
	salt, err := os.ReadFile(saltPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read salt: %w", err)
		}
		salt, err = GenerateSalt()
		if err != nil {
			return nil, err
		}
		// RELIABILITY: Atomic write with fsync prevents data loss on crash
		if err := util.AtomicWriteFileWithDir(saltPath, salt, 0600, 0700); err != nil {
			return nil, fmt.Errorf("failed to save salt: %w", err)
		}
	}

	key := DeriveKey(password, salt)
	// SECURITY: Zero key material to prevent memory disclosure
	defer ZeroBytes(key)

	em := &EncryptionManager{}
	if err := em.initCipher(key); err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}
	return em, nil
}

// DefaultKeyPath returns the default path for the master key
// (~/.leavedesk/master.key).
func DefaultKeyPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".leavedesk", "master.key"), nil
}

// =============================================================================
// KEY DERIVATION
// =============================================================================

// GenerateSalt generates a cryptographically secure random salt.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// GenerateMasterKey generates a cryptographically secure random master key.
func GenerateMasterKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("failed to generate master key: %w", err)
	}
	return key, nil
}

// DeriveKey derives an encryption key from a password and salt using
// PBKDF2-SHA-256.
func DeriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, PBKDF2Iterations, KeySize, sha256.New)
}

func (e *EncryptionManager) loadKey() error {
	key, err := e.keyStore.Retrieve()
	if err != nil {
		return err
	}
	// SECURITY: Zero key material to prevent memory disclosure
	defer ZeroBytes(key)
	return e.initCipher(key)
}

func (e *EncryptionManager) initCipher(key []byte) error {
	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("failed to create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("failed to create GCM cipher: %w", err)
	}
	e.cipher = gcm
	return nil
}

// IsInitialized returns true if the cipher is ready.
func (e *EncryptionManager) IsInitialized() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cipher != nil
}

// =============================================================================
// ENCRYPTION OPERATIONS
// =============================================================================

// generateNonce produces a unique nonce: 8 counter bytes for uniqueness plus
// 4 random bytes for unpredictability.
func (e *EncryptionManager) generateNonce() ([]byte, error) {
	nonce := make([]byte, NonceSize)

	e.nonceCounter++
	for i := 0; i < 8; i++ {
		nonce[i] = byte(e.nonceCounter >> (i * 8))
	}

	if _, err := io.ReadFull(rand.Reader, nonce[8:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return nonce, nil
}

// Encrypt encrypts plaintext using AES-256-GCM.
// Returns: nonce || ciphertext || tag
func (e *EncryptionManager) Encrypt(plaintext []byte) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cipher == nil {
		return nil, ErrNotInitialized
	}

	nonce, err := e.generateNonce()
	if err != nil {
		return nil, err
	}

	return e.cipher.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt decrypts ciphertext encrypted with AES-256-GCM.
// Input format: nonce || ciphertext || tag
func (e *EncryptionManager) Decrypt(ciphertext []byte) ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.cipher == nil {
		return nil, ErrNotInitialized
	}

	if len(ciphertext) < NonceSize {
		return nil, ErrInvalidCiphertext
	}

	nonce := ciphertext[:NonceSize]
	plaintext, err := e.cipher.Open(nil, nonce, ciphertext[NonceSize:], nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// EncryptString encrypts a string and returns base64-encoded ciphertext with
// the ENC: prefix.
func (e *EncryptionManager) EncryptString(plaintext string) (string, error) {
	ciphertext, err := e.Encrypt([]byte(plaintext))
	if err != nil {
		return "", err
	}
	return EncryptedPrefix + base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptString decrypts a base64-encoded string with the ENC: prefix.
// A value without the prefix is rejected: stored credentials are always
// written encrypted, so a bare value means the store was tampered with.
func (e *EncryptionManager) DecryptString(ciphertext string) (string, error) {
	if !strings.HasPrefix(ciphertext, EncryptedPrefix) {
		return "", ErrInvalidCiphertext
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(ciphertext, EncryptedPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: bad base64", ErrInvalidCiphertext)
	}

	plaintext, err := e.Decrypt(data)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// IsEncrypted checks if a string value carries the ENC: prefix.
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, EncryptedPrefix)
}
