package domain

import (
	"encoding/hex"

	"go.trai.ch/zerr"
)

// FingerprintLen is the length of a hex encoded fingerprint (SHA-1, 160 bits).
const FingerprintLen = 40

// Fingerprint is the hex encoded digest of an object's tracked fields.
type Fingerprint string

// ParseFingerprint validates s as a lowercase hex digest of FingerprintLen characters.
func ParseFingerprint(s string) (Fingerprint, error) {
	if len(s) != FingerprintLen || !isLowerHex(s) {
		return "", zerr.With(zerr.Wrap(ErrInvalidFingerprint, "parse fingerprint"), "value", s)
	}
	return Fingerprint(s), nil
}

// String returns the hex representation.
func (f Fingerprint) String() string {
	return string(f)
}

// Short returns the first eight characters, for log lines.
func (f Fingerprint) Short() string {
	if len(f) <= 8 {
		return string(f)
	}
	return string(f[:8])
}

// FingerprintFromDigest encodes a raw digest.
func FingerprintFromDigest(sum []byte) Fingerprint {
	return Fingerprint(hex.EncodeToString(sum))
}

func isLowerHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
