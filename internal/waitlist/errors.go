package waitlist

import "errors"

// Error is a domain error whose message is safe to show to the person signing up.
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

func newError(msg string) *Error { return &Error{msg: msg} }

var (
	ErrMissingFields       = newError("Name, email, and phone are required")
	ErrInvalidEmail        = newError("Invalid email format")
	ErrInvalidPhone        = newError("Invalid phone number format")
	ErrEmailRegistered     = newError("Email already registered")
	ErrPhoneRegistered     = newError("Phone number already registered")
	ErrInvalidReferralCode = newError("Invalid referral code")
	ErrReferralFields      = newError("Referral code and email are required")
)

// ErrNotFound is returned by repositories when no customer matches.
var ErrNotFound = errors.New("customer not found")

// IsUserError reports whether err is a domain error meant for the caller.
func IsUserError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// UserMessage returns the caller-facing message of a domain error.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.msg
	}
	return ""
}
