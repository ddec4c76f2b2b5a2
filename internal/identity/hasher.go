package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	dErrors "verifyhr/pkg/domain-errors"
)

// MinBirthYear is the oldest accepted date of birth year. The upper bound is
// always the current year.
const MinBirthYear = 1900

// Attributes are the personal fields a fingerprint is derived from. They are
// transient: nothing in this package retains or logs them.
type Attributes struct {
	FullName       string
	DateOfBirth    time.Time
	DocumentNumber string
}

// Fingerprint is a deterministic, non-reversible identity hash (the "VID"):
// the lowercase hex encoding of a SHA-256 digest.
type Fingerprint string

// Bytes returns the raw 32-byte digest, suitable for embedding as an anchor
// commitment.
func (f Fingerprint) Bytes() ([]byte, error) {
	b, err := hex.DecodeString(string(f))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "fingerprint is not valid hex")
	}
	if len(b) != sha256.Size {
		return nil, dErrors.New(dErrors.CodeValidation, "fingerprint is not a 256-bit digest")
	}
	return b, nil
}

// DeriveFingerprint normalizes the attributes and hashes them into a VID.
// Normalization: trim whitespace, lower-case the name, upper-case the document
// number, join with "|", hash the UTF-8 bytes with SHA-256.
//
// Pure and deterministic: the same normalized attributes always produce the
// same fingerprint, so an identity can be re-confirmed without ever being
// stored.
func DeriveFingerprint(attrs Attributes) (Fingerprint, error) {
	name := strings.ToLower(strings.TrimSpace(attrs.FullName))
	doc := strings.ToUpper(strings.TrimSpace(attrs.DocumentNumber))

	if name == "" {
		return "", dErrors.New(dErrors.CodeValidation, "full name is required")
	}
	if doc == "" {
		return "", dErrors.New(dErrors.CodeValidation, "document number is required")
	}
	if attrs.DateOfBirth.IsZero() {
		return "", dErrors.New(dErrors.CodeValidation, "date of birth is required")
	}
	year := attrs.DateOfBirth.Year()
	if year < MinBirthYear || year > time.Now().Year() {
		return "", dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("date of birth year must be between %d and %d", MinBirthYear, time.Now().Year()))
	}

	dob := attrs.DateOfBirth.Format("2006-01-02")
	input := name + "|" + dob + "|" + doc
	digest := sha256.Sum256([]byte(input))

	return Fingerprint(hex.EncodeToString(digest[:])), nil
}
