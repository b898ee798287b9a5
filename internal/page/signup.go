package page

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/DoyleJ11/waitlist/pkg/types"
)

const (
	MsgRequiredFields = "Error: All fields except referral code are required."
	MsgSignupFailed   = "Error: Unable to complete signup. Please try again."
)

type Outcome string

const (
	OutcomeInvalid  Outcome = "invalid"  // rejected locally, nothing sent
	OutcomeRejected Outcome = "rejected" // server answered with an error
	OutcomeFailed   Outcome = "failed"   // transport or decode failure
	OutcomeJoined   Outcome = "joined"
)

type SignupSubmitter struct {
	api  API
	view SignupView
	log  *zap.Logger
}

func NewSignupSubmitter(api API, view SignupView, log *zap.Logger) *SignupSubmitter {
	if log == nil {
		log = zap.NewNop()
	}
	return &SignupSubmitter{api: api, view: view, log: log}
}

// Submit runs one pass of the signup flow. Calls are independent of each other;
// when several overlap, whichever resolves last owns the view.
func (s *SignupSubmitter) Submit(ctx context.Context) Outcome {
	req := types.SignupRequest{
		Name:         strings.TrimSpace(s.view.Value(IDName)),
		Email:        strings.TrimSpace(s.view.Value(IDEmail)),
		Phone:        strings.TrimSpace(s.view.Value(IDPhone)),
		ReferralCode: strings.TrimSpace(s.view.Value(IDReferralCode)),
	}

	if req.Name == "" || req.Email == "" || req.Phone == "" {
		s.view.SetResultHTML(MsgRequiredFields)
		return OutcomeInvalid
	}

	resp, err := s.api.Signup(ctx, req)
	if err != nil {
		s.log.Warn("signup request failed", zap.Error(err))
		s.view.SetResultHTML(MsgSignupFailed)
		return OutcomeFailed
	}

	if resp.Error != "" {
		s.view.SetResultHTML("Error: " + html.EscapeString(resp.Error))
		return OutcomeRejected
	}

	s.view.SetResultHTML(fmt.Sprintf("Your position in the waitlist: %d<br>Your referral code: %s",
		resp.Position, html.EscapeString(resp.ReferralCode)))
	s.view.ShowSignupResult()
	s.view.SetPosition(strconv.Itoa(resp.Position))
	s.view.SetReferralCode(resp.ReferralCode)
	return OutcomeJoined
}
