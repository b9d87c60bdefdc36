package domain

import (
	"github.com/allisson/vult/internal/errors"
)

// PIN policy. Any printable ASCII character is allowed, so a passphrase is a
// valid PIN.
const (
	MinPINLength = 6
	MaxPINLength = 64
)

// ValidatePIN checks the PIN against the policy: length within bounds and
// printable ASCII only.
func ValidatePIN(pin string) error {
	if len(pin) < MinPINLength {
		return errors.Wrapf(ErrPinTooShort, "minimum length is %d", MinPINLength)
	}
	if len(pin) > MaxPINLength {
		return errors.Wrapf(ErrPinTooLong, "maximum length is %d", MaxPINLength)
	}
	for _, c := range []byte(pin) {
		if c < 0x20 || c > 0x7e {
			return errors.Wrap(ErrInvalidPinCharacter, "only printable ASCII characters are allowed")
		}
	}
	return nil
}
