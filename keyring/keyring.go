// Package keyring stores the sudo password and other secrets. It uses the
// system keyring when one is available and falls back to an AES-GCM
// encrypted file whose key is derived from machine-specific data.
package keyring

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zalando/go-keyring"
	"golang.org/x/crypto/scrypt"

	"github.com/markotdel/adguardvpn-gui/common"
)

// serviceName identifies this application in the system keyring.
const serviceName = "adguardvpn-gui"

// kdfSalt namespaces the derived file key. The key material itself comes
// from /etc/machine-id, the hostname and the uid, so the fallback file only
// decrypts on the machine and account that wrote it.
const kdfSalt = "adguardvpn-gui-credentials-v1"

// Store is a CredentialStore backed by the system keyring with an
// encrypted-file fallback.
type Store struct {
	mu       sync.RWMutex
	useLocal bool
	filePath string
	key      []byte
	cache    map[string]string
}

// New probes the system keyring and returns a store backed by it, or by
// the encrypted fallback file when no keyring service answers.
func New() (*Store, error) {
	s := &Store{}

	probe := serviceName + "-probe"
	if err := keyring.Set(serviceName, probe, "probe"); err == nil {
		keyring.Delete(serviceName, probe)
		return s, nil
	}

	if err := s.initLocal(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewFileStore returns a store bound to an explicit file and key,
// bypassing the system keyring. Used by tests.
func NewFileStore(path string, key []byte) (*Store, error) {
	if len(key) != 32 {
		return nil, errors.New("keyring: file key must be 32 bytes")
	}
	s := &Store{useLocal: true, filePath: path, key: key, cache: make(map[string]string)}
	s.loadFile()
	return s, nil
}

func (s *Store) initLocal() error {
	dir, err := common.GetConfigDir()
	if err != nil {
		return common.WrapError(common.ErrCredentialStorage, err.Error())
	}
	s.filePath = filepath.Join(dir, common.CredentialsFileName)

	key, err := deriveKey()
	if err != nil {
		return common.WrapError(common.ErrCredentialStorage, err.Error())
	}
	s.key = key
	s.useLocal = true
	s.cache = make(map[string]string)
	s.loadFile()
	return nil
}

// deriveKey builds the fallback file key from machine-specific data.
func deriveKey() ([]byte, error) {
	hostname, _ := os.Hostname()
	material := fmt.Sprintf("%s|%s|%d", machineID(), hostname, os.Getuid())
	return scrypt.Key([]byte(material), []byte(kdfSalt), 1<<15, 8, 1, 32)
}

func machineID() string {
	for _, path := range []string{"/etc/machine-id", "/var/lib/dbus/machine-id"} {
		if data, err := os.ReadFile(path); err == nil {
			if id := strings.TrimSpace(string(data)); id != "" {
				return id
			}
		}
	}
	return "unknown-machine"
}

// Store saves a secret under key.
func (s *Store) Store(key, secret string) error {
	if key == "" {
		return common.WrapError(common.ErrCredentialStorage, "empty key")
	}

	if !s.useLocal {
		if err := keyring.Set(serviceName, key, secret); err == nil {
			return nil
		}
		// Keyring went away after the probe. Switch to the file.
		if err := s.initLocal(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.cache[key] = secret
	s.mu.Unlock()
	return s.saveFile()
}

// Get retrieves a secret by key. A missing entry returns
// common.ErrCredentialsNotFound.
func (s *Store) Get(key string) (string, error) {
	if key == "" {
		return "", common.WrapError(common.ErrCredentialStorage, "empty key")
	}

	if !s.useLocal {
		secret, err := keyring.Get(serviceName, key)
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return "", common.ErrCredentialsNotFound
			}
			return "", common.WrapError(common.ErrCredentialStorage, err.Error())
		}
		return secret, nil
	}

	s.mu.RLock()
	secret, ok := s.cache[key]
	s.mu.RUnlock()
	if !ok {
		return "", common.ErrCredentialsNotFound
	}
	return secret, nil
}

// Delete removes a secret. Deleting a missing entry is not an error.
func (s *Store) Delete(key string) error {
	if key == "" {
		return common.WrapError(common.ErrCredentialStorage, "empty key")
	}

	if !s.useLocal {
		if err := keyring.Delete(serviceName, key); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return common.WrapError(common.ErrCredentialStorage, err.Error())
		}
		return nil
	}

	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()
	return s.saveFile()
}

// Exists reports whether a secret is stored under key.
func (s *Store) Exists(key string) bool {
	_, err := s.Get(key)
	return err == nil
}

func (s *Store) loadFile() {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return
	}
	plain, err := decrypt(s.key, data)
	if err != nil {
		// Wrong machine or corrupted file. Start over.
		return
	}
	s.mu.Lock()
	json.Unmarshal(plain, &s.cache)
	s.mu.Unlock()
}

func (s *Store) saveFile() error {
	s.mu.RLock()
	plain, err := json.Marshal(s.cache)
	s.mu.RUnlock()
	if err != nil {
		return common.WrapError(common.ErrCredentialStorage, err.Error())
	}

	sealed, err := encrypt(s.key, plain)
	if err != nil {
		return common.WrapError(common.ErrCredentialStorage, err.Error())
	}

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0700); err != nil {
		return common.WrapError(common.ErrCredentialStorage, err.Error())
	}
	if err := os.WriteFile(s.filePath, sealed, 0600); err != nil {
		return common.WrapError(common.ErrCredentialStorage, err.Error())
	}
	return nil
}

func encrypt(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	sealed := gcm.Seal(nonce, nonce, plaintext, nil)
	return []byte(base64.StdEncoding.EncodeToString(sealed)), nil
}

func decrypt(key, data []byte) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(raw) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, sealed := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	return gcm.Open(nil, nonce, sealed, nil)
}
