package mfa

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// QuantidadeBackupCodes é o número de códigos de recuperação emitidos por conta.
const QuantidadeBackupCodes = 8

const backupBcryptCost = 12

var codigoBackupRe = regexp.MustCompile(`^[A-F0-9]{4}-[A-F0-9]{4}$`)

// EhCodigoBackup reports whether the submitted string is shaped like a
// recovery code (XXXX-YYYY, uppercase hex).
func EhCodigoBackup(codigo string) bool {
	return codigoBackupRe.MatchString(strings.ToUpper(codigo))
}

// GerarBackupCodes returns n fresh single-use recovery codes in plain text.
// Codes are handed to the user exactly once; only their hashes are persisted.
func GerarBackupCodes(n int) ([]string, error) {
	codigos := make([]string, 0, n)
	for i := 0; i < n; i++ {
		raw := make([]byte, 4)
		if _, err := rand.Read(raw); err != nil {
			return nil, fmt.Errorf("mfa: gerar backup code: %w", err)
		}
		h := strings.ToUpper(hex.EncodeToString(raw))
		codigos = append(codigos, h[:4]+"-"+h[4:])
	}
	return codigos, nil
}

// HashBackupCode hashes a recovery code for storage.
func HashBackupCode(codigo string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(strings.ToUpper(codigo)), backupBcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerificarBackupCode scans the stored hashes for one matching the submitted
// code. bcrypt comparison is constant-time per hash. Returns the index of the
// matched hash, or -1. The caller is responsible for marking the matched hash
// consumed so the code cannot be reused.
func VerificarBackupCode(codigo string, hashes []string) int {
	normalizado := []byte(strings.ToUpper(codigo))
	for i, h := range hashes {
		if bcrypt.CompareHashAndPassword([]byte(h), normalizado) == nil {
			return i
		}
	}
	return -1
}
