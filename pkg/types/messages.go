package types

// Client -> Server
// POST /signup:
//   name, email, phone: string (required)
//   referralCode: string (may be empty)
//
// POST /referral:
//   referralCode: string
//   email: string

// Server -> Client
// POST /signup:
//   { error } | { message, position, referralCode }
//
// GET /rank-data:
//   [{ position, name, email, referral_code, referred_persons? }]
//
// GET /top10:
//   [{ name, email, referrals }]
//
// GET /ws (one text frame per snapshot):
//   { type: "RankingSnapshot" | "Error", version, rankings?, error? }

type SignupRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	ReferralCode string `json:"referralCode"`
}

type SignupResponse struct {
	Error        string `json:"error,omitempty"`
	Message      string `json:"message,omitempty"`
	Position     int    `json:"position,omitempty"`
	ReferralCode string `json:"referralCode,omitempty"`
}

type RankingEntry struct {
	Position        int    `json:"position"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	ReferralCode    string `json:"referral_code"`
	ReferredPersons *int   `json:"referred_persons,omitempty"` // older rows may omit it
}

// Referred returns the referred-persons count, 0 when absent.
func (e RankingEntry) Referred() int {
	if e.ReferredPersons == nil {
		return 0
	}
	return *e.ReferredPersons
}

type TopEntry struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Referrals int    `json:"referrals"`
}

type ReferralRequest struct {
	ReferralCode string `json:"referralCode"`
	Email        string `json:"email"`
}

type ReferralResponse struct {
	Error            string `json:"error,omitempty"`
	ReferrerPosition int    `json:"referrerPosition,omitempty"`
}

type FeedMessageType string

const (
	FeedRankingSnapshot FeedMessageType = "RankingSnapshot"
	FeedError           FeedMessageType = "Error"
)

type FeedMessage struct {
	Type     FeedMessageType `json:"type"`
	Version  int             `json:"version,omitempty"`
	Rankings []RankingEntry  `json:"rankings,omitempty"`
	Error    string          `json:"error,omitempty"`
}
