package auth

import (
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// Reset codes are 5 decimal digits over a 15-minute time step. A code is a
// pure function of (secret, time bucket); nothing is stored when one is
// issued, and verification recomputes the expected code instead of looking
// anything up.
const (
	codeDigits = 5
	codePeriod = 900 // seconds
)

// CodeProvider issues and verifies time-based one-time codes derived from a
// base32-encoded shared secret. Codes self-expire when their time window
// passes; there is no explicit expiry timestamp anywhere.
type CodeProvider struct {
	secret string
	now    func() time.Time
}

// NewCodeProvider creates a CodeProvider for the given base32 secret.
func NewCodeProvider(secret string) *CodeProvider {
	return &CodeProvider{secret: secret, now: time.Now}
}

// Issue generates the code for the current time window.
func (p *CodeProvider) Issue() (string, error) {
	code, err := totp.GenerateCodeCustom(p.secret, p.now(), p.opts())
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return code, nil
}

// Verify reports whether the code is valid for the current time window or
// an adjacent one within the library's default skew. An elapsed or wrong
// code is a normal false result, not an error.
func (p *CodeProvider) Verify(code string) bool {
	ok, err := totp.ValidateCustom(code, p.secret, p.now(), p.opts())
	return err == nil && ok
}

func (p *CodeProvider) opts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    codePeriod,
		Skew:      1,
		Digits:    otp.Digits(codeDigits),
		Algorithm: otp.AlgorithmSHA1,
	}
}
