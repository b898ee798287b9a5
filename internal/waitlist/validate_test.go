package waitlist

import (
	"testing"

	"github.com/DoyleJ11/waitlist/pkg/types"
)

func TestNormalizeSignup(t *testing.T) {
	got := NormalizeSignup(types.SignupRequest{
		Name:         "  José ",
		Email:        " Jose@Example.COM ",
		Phone:        " 5551234567\n",
		ReferralCode: "\tabc ",
	})

	want := types.SignupRequest{Name: "José", Email: "jose@example.com", Phone: "5551234567", ReferralCode: "abc"}
	if got != want {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestValidateEmail(t *testing.T) {
	cases := []struct {
		email string
		ok    bool
	}{
		{"a@b.co", true},
		{"first.last-1@sub.example.org", true},
		{"no-at.example.com", false},
		{"a@b", false},
		{"a b@c.io", false},
	}

	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			err := ValidateEmail(tc.email)
			if tc.ok && err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if !tc.ok && err != ErrInvalidEmail {
				t.Fatalf("want ErrInvalidEmail, got %v", err)
			}
		})
	}
}
