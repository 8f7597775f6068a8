package session

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// ErrSlotEmpty is returned by Slot.Get when nothing is stored under the key.
var ErrSlotEmpty = errors.New("slot empty")

// Slot is a small durable key-value store for secrets.
type Slot interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// MemorySlot keeps values in memory only.
type MemorySlot struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: make(map[string][]byte)}
}

func (m *MemorySlot) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrSlotEmpty
	}
	return append([]byte(nil), v...), nil
}

func (m *MemorySlot) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemorySlot) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Sealed file layout: magic | salt | nonce | ciphertext.
var sealedMagic = []byte("SFS1")

const (
	saltSize    = 16
	keySize     = chacha20poly1305.KeySize
	sealedExt   = ".sealed"
	secretFile  = ".secret"
	argonTime   = 1
	argonMemory = 19 * 1024
	argonLanes  = 1
)

// FileSlot stores each key as one file in dir, sealed with XChaCha20-Poly1305
// under a key derived from secret with Argon2id.
type FileSlot struct {
	fs     afero.Fs
	dir    string
	secret []byte
}

func NewFileSlot(fs afero.Fs, dir string, secret []byte) (*FileSlot, error) {
	if len(secret) == 0 {
		return nil, errors.New("session: empty slot secret")
	}
	if err := fs.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("session: create state dir: %w", err)
	}
	return &FileSlot{fs: fs, dir: dir, secret: append([]byte(nil), secret...)}, nil
}

func (f *FileSlot) path(key string) string {
	return filepath.Join(f.dir, key+sealedExt)
}

func (f *FileSlot) Get(_ context.Context, key string) ([]byte, error) {
	raw, err := afero.ReadFile(f.fs, f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrSlotEmpty
		}
		return nil, fmt.Errorf("session: read %s: %w", key, err)
	}
	return f.open(key, raw)
}

func (f *FileSlot) Set(_ context.Context, key string, value []byte) error {
	sealed, err := f.seal(key, value)
	if err != nil {
		return err
	}
	// write-then-rename so a crash never leaves a torn file
	tmp := f.path(key) + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, sealed, 0o600); err != nil {
		return fmt.Errorf("session: write %s: %w", key, err)
	}
	if err := f.fs.Rename(tmp, f.path(key)); err != nil {
		_ = f.fs.Remove(tmp)
		return fmt.Errorf("session: replace %s: %w", key, err)
	}
	return nil
}

func (f *FileSlot) Delete(_ context.Context, key string) error {
	err := f.fs.Remove(f.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: delete %s: %w", key, err)
	}
	return nil
}

func (f *FileSlot) deriveKey(salt []byte) []byte {
	return argon2.IDKey(f.secret, salt, argonTime, argonMemory, argonLanes, keySize)
}

func (f *FileSlot) seal(key string, plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("session: salt: %w", err)
	}
	aead, err := chacha20poly1305.NewX(f.deriveKey(salt))
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("session: nonce: %w", err)
	}

	out := make([]byte, 0, len(sealedMagic)+saltSize+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, sealedMagic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	// the key name is bound as additional data
	return aead.Seal(out, nonce, plaintext, []byte(key)), nil
}

func (f *FileSlot) open(key string, sealed []byte) ([]byte, error) {
	header := len(sealedMagic) + saltSize + chacha20poly1305.NonceSizeX
	if len(sealed) < header || string(sealed[:len(sealedMagic)]) != string(sealedMagic) {
		return nil, fmt.Errorf("session: %s: not a sealed slot file", key)
	}
	salt := sealed[len(sealedMagic) : len(sealedMagic)+saltSize]
	nonce := sealed[len(sealedMagic)+saltSize : header]

	aead, err := chacha20poly1305.NewX(f.deriveKey(salt))
	if err != nil {
		return nil, err
	}
	plain, err := aead.Open(nil, nonce, sealed[header:], []byte(key))
	if err != nil {
		return nil, fmt.Errorf("session: %s: open sealed value: %w", key, err)
	}
	return plain, nil
}

// LoadOrCreateSecret returns the random secret kept in dir, creating it on
// first use. It is used when no secret is configured.
func LoadOrCreateSecret(fs afero.Fs, dir string) ([]byte, error) {
	if err := fs.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("session: create state dir: %w", err)
	}
	p := filepath.Join(dir, secretFile)

	secret, err := afero.ReadFile(fs, p)
	if err == nil && len(secret) == keySize {
		return secret, nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("session: read secret: %w", err)
	}

	secret = make([]byte, keySize)
	if _, err := io.ReadFull(rand.Reader, secret); err != nil {
		return nil, fmt.Errorf("session: generate secret: %w", err)
	}
	if err := afero.WriteFile(fs, p, secret, 0o600); err != nil {
		return nil, fmt.Errorf("session: write secret: %w", err)
	}
	return secret, nil
}
