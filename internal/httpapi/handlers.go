package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/DoyleJ11/waitlist/internal/metrics"
	"github.com/DoyleJ11/waitlist/internal/waitlist"
	"github.com/DoyleJ11/waitlist/internal/web"
	"github.com/DoyleJ11/waitlist/pkg/types"
)

// Waitlist is what the handlers need from waitlist.Service.
type Waitlist interface {
	Signup(ctx context.Context, req types.SignupRequest) (waitlist.Signup, error)
	Referral(ctx context.Context, req types.ReferralRequest) (int, error)
	Rankings(ctx context.Context) ([]types.RankingEntry, error)
	Top(ctx context.Context) ([]types.TopEntry, error)
}

func Signup(svc Waitlist, m *metrics.Metrics, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			m.Signups.WithLabelValues("bad_request").Inc()
			respondBadRequest(w, "Invalid request body")
			return
		}

		res, err := svc.Signup(r.Context(), req)
		if err != nil {
			if waitlist.IsUserError(err) {
				m.Signups.WithLabelValues("rejected").Inc()
				respondBadRequest(w, waitlist.UserMessage(err))
				return
			}
			m.Signups.WithLabelValues("error").Inc()
			log.Error("signup failed", zap.Error(err))
			respondInternalError(w)
			return
		}

		m.Signups.WithLabelValues("joined").Inc()
		respondOK(w, types.SignupResponse{
			Message:      "Signup successful",
			Position:     res.Position,
			ReferralCode: res.ReferralCode,
		})
	}
}

func Referral(svc Waitlist, m *metrics.Metrics, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ReferralRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			m.Referrals.WithLabelValues("bad_request").Inc()
			respondBadRequest(w, "Invalid request body")
			return
		}

		pos, err := svc.Referral(r.Context(), req)
		if err != nil {
			if waitlist.IsUserError(err) {
				m.Referrals.WithLabelValues("rejected").Inc()
				respondBadRequest(w, waitlist.UserMessage(err))
				return
			}
			m.Referrals.WithLabelValues("error").Inc()
			log.Error("referral failed", zap.Error(err))
			respondInternalError(w)
			return
		}

		m.Referrals.WithLabelValues("accepted").Inc()
		respondOK(w, types.ReferralResponse{ReferrerPosition: pos})
	}
}

func RankData(svc Waitlist, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rankings, err := svc.Rankings(r.Context())
		if err != nil {
			log.Error("load rankings", zap.Error(err))
			respondInternalError(w)
			return
		}
		if rankings == nil {
			rankings = []types.RankingEntry{} // encode as [] not null
		}
		respondOK(w, rankings)
	}
}

func Top10(svc Waitlist, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		top, err := svc.Top(r.Context())
		if err != nil {
			log.Error("load top referrers", zap.Error(err))
			respondInternalError(w)
			return
		}
		if top == nil {
			top = []types.TopEntry{}
		}
		respondOK(w, top)
	}
}

func Page(pages *web.Pages, name string, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := pages.Render(w, name); err != nil {
			log.Error("render page", zap.String("page", name), zap.Error(err))
			http.Error(w, "failed to render page", http.StatusInternalServerError)
		}
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
