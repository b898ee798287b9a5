package waitlist

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/DoyleJ11/waitlist/pkg/types"
)

var emailRegex = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)
var phoneRegex = regexp.MustCompile(`^\d{10}$`)

func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// NormalizeSignup trims every field, folds to NFC and lowercases the email so
// uniqueness checks see one spelling per address.
func NormalizeSignup(req types.SignupRequest) types.SignupRequest {
	return types.SignupRequest{
		Name:         normalize(req.Name),
		Email:        strings.ToLower(normalize(req.Email)),
		Phone:        normalize(req.Phone),
		ReferralCode: normalize(req.ReferralCode),
	}
}

func ValidateSignup(req types.SignupRequest) error {
	if req.Name == "" || req.Email == "" || req.Phone == "" {
		return ErrMissingFields
	}
	if err := ValidateEmail(req.Email); err != nil {
		return err
	}
	if !phoneRegex.MatchString(req.Phone) {
		return ErrInvalidPhone
	}
	return nil
}

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}
