// Package page holds the two flows of the waitlist page: submitting the signup
// form and rendering the ranking table. Flows never touch the DOM directly; they
// write through the views passed to their constructors.
package page

import (
	"context"

	"github.com/DoyleJ11/waitlist/pkg/types"
)

// Element IDs the page markup must expose.
const (
	IDSignupForm    = "signup-form"
	IDName          = "name"
	IDEmail         = "email"
	IDPhone         = "phone"
	IDReferralCode  = "referralCode"
	IDResult        = "result"
	IDSignupResult  = "signup-result"
	IDPosition      = "position"
	IDReferralEcho  = "referral-code"
	IDRankTableBody = "rank-table-body"
)

// RankColumns is the number of columns in the ranking table.
const RankColumns = 5

// API is the subset of the HTTP client the flows use.
type API interface {
	Signup(ctx context.Context, req types.SignupRequest) (types.SignupResponse, error)
	Rankings(ctx context.Context) ([]types.RankingEntry, error)
}

type SignupView interface {
	// Value returns the current raw value of the input with the given ID.
	Value(id string) string
	SetResultHTML(html string)
	ShowSignupResult()
	SetPosition(text string)
	SetReferralCode(text string)
}

type RankingView interface {
	ClearRows()
	AppendRow(cells []string)
	// SetNotice replaces every row with a single row spanning all columns.
	SetNotice(text string, isError bool)
}
