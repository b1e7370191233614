// Package mfa implements the second-factor primitives: TOTP generation and
// verification, single-use backup codes, and at-rest encryption of secrets.
// The package is a leaf — it knows nothing about users or persistence.
package mfa

import (
	"regexp"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

var codigoTOTPRe = regexp.MustCompile(`^\d{6}$`)

// validateOpts: 30s step, 6 digits, SHA1 (the authenticator-app default),
// Skew 1 — accepts the previous and next step to tolerate clock drift.
var validateOpts = totp.ValidateOpts{
	Period:    30,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// EhCodigoTOTP reports whether the submitted string is shaped like a TOTP code.
func EhCodigoTOTP(codigo string) bool {
	return codigoTOTPRe.MatchString(codigo)
}

// VerificarCodigo validates a 6-digit TOTP code against a base32 secret.
// Malformed input returns false — never an error — so callers can surface a
// uniform "invalid code" rejection.
func VerificarCodigo(segredo, codigo string) bool {
	return VerificarCodigoEm(segredo, codigo, time.Now())
}

// VerificarCodigoEm is VerificarCodigo against an explicit clock, for tests.
func VerificarCodigoEm(segredo, codigo string, quando time.Time) bool {
	if !EhCodigoTOTP(codigo) {
		return false
	}
	ok, err := totp.ValidateCustom(codigo, segredo, quando.UTC(), validateOpts)
	if err != nil {
		return false
	}
	return ok
}

// GerarCodigoEm produces the valid code for a secret at a given instant.
// Used by the enrollment confirmation flow tests and the seed tooling.
func GerarCodigoEm(segredo string, quando time.Time) (string, error) {
	return totp.GenerateCodeCustom(segredo, quando.UTC(), validateOpts)
}

// Inscricao holds the output of a fresh enrollment.
type Inscricao struct {
	Segredo            string
	URLProvisionamento string
}

// GerarInscricao creates a fresh random secret (160-bit entropy) and the
// otpauth:// provisioning URI an authenticator app can scan.
func GerarInscricao(emissor, contaEmail string) (*Inscricao, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      emissor,
		AccountName: contaEmail,
		SecretSize:  20,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, err
	}
	return &Inscricao{Segredo: key.Secret(), URLProvisionamento: key.URL()}, nil
}
