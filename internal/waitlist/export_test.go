package waitlist

// SetCodeGenerators swaps the code generators for the duration of a test.
func SetCodeGenerators(referral, coupon func() (string, error)) (restore func()) {
	prevReferral, prevCoupon := newReferralCode, newCouponCode
	if referral != nil {
		newReferralCode = referral
	}
	if coupon != nil {
		newCouponCode = coupon
	}
	return func() {
		newReferralCode, newCouponCode = prevReferral, prevCoupon
	}
}
