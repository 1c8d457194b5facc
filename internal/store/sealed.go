package store

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const sealedPrefix = "sealed:v1:"

// ErrUnseal is returned when a sealed value cannot be opened.
var ErrUnseal = errors.New("unable to unseal value")

// SealedMedium encrypts values written with Options.Secure before handing
// them to the wrapped medium. Values written without Secure pass through.
type SealedMedium struct {
	Medium
	key [32]byte
}

// NewSealedMedium wraps inner, deriving the sealing key from secret.
func NewSealedMedium(inner Medium, secret string) (*SealedMedium, error) {
	if secret == "" {
		return nil, errors.New("sealed medium: secret is required")
	}
	s := &SealedMedium{Medium: inner}
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("famroot-client store"))
	if _, err := io.ReadFull(kdf, s.key[:]); err != nil {
		return nil, fmt.Errorf("sealed medium: derive key: %w", err)
	}
	return s, nil
}

// Set implements Medium.
func (s *SealedMedium) Set(name, value string, opts Options) error {
	if opts.Secure {
		sealed, err := s.seal(value)
		if err != nil {
			return err
		}
		value = sealed
	}
	return s.Medium.Set(name, value, opts)
}

// Get implements Medium.
func (s *SealedMedium) Get(name string) (string, bool, error) {
	value, ok, err := s.Medium.Get(name)
	if err != nil || !ok {
		return value, ok, err
	}
	if !strings.HasPrefix(value, sealedPrefix) {
		return value, true, nil
	}
	opened, err := s.open(value)
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", name, err)
	}
	return opened, true, nil
}

// All implements Medium. Values that fail to unseal are omitted.
func (s *SealedMedium) All() (map[string]string, error) {
	all, err := s.Medium.All()
	if err != nil {
		return nil, err
	}
	for name, value := range all {
		if !strings.HasPrefix(value, sealedPrefix) {
			continue
		}
		opened, err := s.open(value)
		if err != nil {
			delete(all, name)
			continue
		}
		all[name] = opened
	}
	return all, nil
}

func (s *SealedMedium) seal(value string) (string, error) {
	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("sealed medium: nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(value), &nonce, &s.key)
	return sealedPrefix + base64.RawURLEncoding.EncodeToString(box), nil
}

func (s *SealedMedium) open(value string) (string, error) {
	box, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(value, sealedPrefix))
	if err != nil || len(box) < 24 {
		return "", ErrUnseal
	}
	var nonce [24]byte
	copy(nonce[:], box[:24])
	opened, ok := secretbox.Open(nil, box[24:], &nonce, &s.key)
	if !ok {
		return "", ErrUnseal
	}
	return string(opened), nil
}
