package waitlist

import (
	"crypto/rand"
	"math/big"
)

const (
	referralCharset = "abcdefghijklmnopqrstuvwxyz0123456789"
	referralLength  = 9
	couponCharset   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	couponLength    = 10
)

func randomCode(charset string, length int) (string, error) {
	code := make([]byte, length)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

// Swapped in tests that need deterministic codes.
var newReferralCode = func() (string, error) {
	return randomCode(referralCharset, referralLength)
}

var newCouponCode = func() (string, error) {
	return randomCode(couponCharset, couponLength)
}
