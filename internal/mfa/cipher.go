package mfa

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Cipher encrypts TOTP secrets at rest with AES-256-GCM. The AES key is
// derived from the environment master key with PBKDF2 using a fresh random
// salt per value — a fixed salt would let one derived key open every stored
// secret. Output layout: base64(salt | nonce | ciphertext).
type Cipher struct {
	masterKey []byte
}

const (
	cipherSaltLen   = 16
	cipherKDFRounds = 10000
	cipherKeyLen    = 32
)

var ErrSegredoCorrompido = errors.New("mfa: segredo armazenado corrompido")

// NewCipher builds a Cipher from the environment master key.
// An empty key is a fatal configuration error surfaced at startup.
func NewCipher(masterKey string) (*Cipher, error) {
	if masterKey == "" {
		return nil, errors.New("mfa: MFA_ENCRYPTION_KEY não configurada")
	}
	return &Cipher{masterKey: []byte(masterKey)}, nil
}

// Encrypt seals a plaintext secret for storage.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	salt := make([]byte, cipherSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("mfa: gerar salt: %w", err)
	}

	gcm, err := c.aead(salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("mfa: gerar nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	out := make([]byte, 0, len(salt)+len(nonce)+len(sealed))
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, sealed...)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt opens a value produced by Encrypt. A value that cannot be decoded
// or authenticated yields ErrSegredoCorrompido — a configuration fault, kept
// distinct from "wrong code" so callers can fail loudly instead of rejecting.
func (c *Cipher) Decrypt(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrSegredoCorrompido
	}
	if len(raw) < cipherSaltLen {
		return "", ErrSegredoCorrompido
	}
	salt := raw[:cipherSaltLen]

	gcm, err := c.aead(salt)
	if err != nil {
		return "", err
	}
	if len(raw) < cipherSaltLen+gcm.NonceSize() {
		return "", ErrSegredoCorrompido
	}
	nonce := raw[cipherSaltLen : cipherSaltLen+gcm.NonceSize()]
	sealed := raw[cipherSaltLen+gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrSegredoCorrompido
	}
	return string(plaintext), nil
}

func (c *Cipher) aead(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(c.masterKey, salt, cipherKDFRounds, cipherKeyLen, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
