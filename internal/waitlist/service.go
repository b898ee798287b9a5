package waitlist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/DoyleJ11/waitlist/pkg/types"
)

const (
	DefaultTopLimit        = 10
	DefaultCouponThreshold = 99
	maxCodeAttempts        = 5
)

var errCodeExhausted = errors.New("could not generate a unique referral code")

type Repository interface {
	// Tx runs fn against a repository bound to a single transaction.
	Tx(ctx context.Context, fn func(r Repository) error) error
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	FindByPhone(ctx context.Context, phone string) (*Customer, error)
	FindByReferralCode(ctx context.Context, code string) (*Customer, error)
	ReferralCodeExists(ctx context.Context, code string) (bool, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, c *Customer) error
	CreditReferrer(ctx context.Context, id uint) error
	SetPosition(ctx context.Context, id uint, position int) error
	ListByPosition(ctx context.Context) ([]Customer, error)
	TopByReferrals(ctx context.Context, limit int) ([]Customer, error)
}

// Notifier receives the full ranking after every change.
type Notifier interface {
	Notify(ctx context.Context, rankings []types.RankingEntry)
}

type Mailer interface {
	SendCoupon(ctx context.Context, to, coupon string) error
}

type Signup struct {
	Position     int
	ReferralCode string
}

type Service struct {
	repo            Repository
	notifier        Notifier
	mailer          Mailer
	log             *zap.Logger
	topLimit        int
	couponThreshold int
}

type Option func(*Service)

func WithNotifier(n Notifier) Option { return func(s *Service) { s.notifier = n } }
func WithMailer(m Mailer) Option { return func(s *Service) { s.mailer = m } }
func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.log = l } }
func WithTopLimit(n int) Option { return func(s *Service) { s.topLimit = n } }
func WithCouponThreshold(n int) Option { return func(s *Service) { s.couponThreshold = n } }

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:            repo,
		log:             zap.NewNop(),
		topLimit:        DefaultTopLimit,
		couponThreshold: DefaultCouponThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup validates the request, credits the referrer if a code was given and
// appends the new customer at the end of the list.
func (s *Service) Signup(ctx context.Context, req types.SignupRequest) (Signup, error) {
	req = NormalizeSignup(req)
	if err := ValidateSignup(req); err != nil {
		return Signup{}, err
	}

	var out Signup
	err := s.repo.Tx(ctx, func(r Repository) error {
		if _, err := r.FindByEmail(ctx, req.Email); err == nil {
			return ErrEmailRegistered
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		if _, err := r.FindByPhone(ctx, req.Phone); err == nil {
			return ErrPhoneRegistered
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		if req.ReferralCode != "" {
			referrer, err := r.FindByReferralCode(ctx, req.ReferralCode)
			if errors.Is(err, ErrNotFound) {
				return ErrInvalidReferralCode
			}
			if err != nil {
				return err
			}
			if err := r.CreditReferrer(ctx, referrer.ID); err != nil {
				return err
			}
		}

		count, err := r.Count(ctx)
		if err != nil {
			return err
		}

		code, err := uniqueReferralCode(ctx, r)
		if err != nil {
			return err
		}

		phone := req.Phone
		c := &Customer{
			Name:         req.Name,
			Email:        req.Email,
			Phone:        &phone,
			ReferralCode: code,
			Position:     int(count) + 1, // positions start at 1
		}
		if err := r.Create(ctx, c); err != nil {
			return err
		}

		out = Signup{Position: c.Position, ReferralCode: c.ReferralCode}
		return nil
	})
	if err != nil {
		return Signup{}, fmt.Errorf("signup: %w", err)
	}

	s.log.Info("customer joined waitlist",
		zap.Int("position", out.Position),
		zap.Bool("referred", req.ReferralCode != ""))
	s.publish(ctx)
	return out, nil
}

// Referral moves the referrer one place up and enrolls email right behind them.
// It returns the referrer's new position.
func (s *Service) Referral(ctx context.Context, req types.ReferralRequest) (int, error) {
	code := normalize(req.ReferralCode)
	email := strings.ToLower(normalize(req.Email))
	if code == "" || email == "" {
		return 0, ErrReferralFields
	}
	if err := ValidateEmail(email); err != nil {
		return 0, err
	}

	var newPosition int
	err := s.repo.Tx(ctx, func(r Repository) error {
		referrer, err := r.FindByReferralCode(ctx, code)
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidReferralCode
		}
		if err != nil {
			return err
		}

		if _, err := r.FindByEmail(ctx, email); err == nil {
			return ErrEmailRegistered
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		newPosition = max(referrer.Position-1, 1)
		if err := r.SetPosition(ctx, referrer.ID, newPosition); err != nil {
			return err
		}

		newCode, err := uniqueReferralCode(ctx, r)
		if err != nil {
			return err
		}
		return r.Create(ctx, &Customer{
			Email:        email,
			ReferralCode: newCode,
			Position:     newPosition + 1,
		})
	})
	if err != nil {
		return 0, fmt.Errorf("referral: %w", err)
	}

	if newPosition < s.couponThreshold {
		s.sendCoupon(ctx, email)
	}
	s.publish(ctx)
	return newPosition, nil
}

func (s *Service) Rankings(ctx context.Context) ([]types.RankingEntry, error) {
	customers, err := s.repo.ListByPosition(ctx)
	if err != nil {
		return nil, fmt.Errorf("rankings: %w", err)
	}
	out := make([]types.RankingEntry, 0, len(customers))
	for _, c := range customers {
		out = append(out, c.RankingEntry())
	}
	return out, nil
}

func (s *Service) Top(ctx context.Context) ([]types.TopEntry, error) {
	customers, err := s.repo.TopByReferrals(ctx, s.topLimit)
	if err != nil {
		return nil, fmt.Errorf("top referrers: %w", err)
	}
	out := make([]types.TopEntry, 0, len(customers))
	for _, c := range customers {
		out = append(out, c.TopEntry())
	}
	return out, nil
}

// Mail failures are logged and never fail the referral.
func (s *Service) sendCoupon(ctx context.Context, email string) {
	if s.mailer == nil {
		return
	}
	coupon, err := newCouponCode()
	if err != nil {
		s.log.Error("generate coupon", zap.Error(err))
		return
	}
	if err := s.mailer.SendCoupon(ctx, email, coupon); err != nil {
		s.log.Warn("failed to send coupon email", zap.String("email", email), zap.Error(err))
		return
	}
	s.log.Info("coupon email sent", zap.String("email", email))
}

func (s *Service) publish(ctx context.Context) {
	if s.notifier == nil {
		return
	}
	rankings, err := s.Rankings(ctx)
	if err != nil {
		s.log.Warn("skip ranking broadcast", zap.Error(err))
		return
	}
	s.notifier.Notify(ctx, rankings)
}

func uniqueReferralCode(ctx context.Context, r Repository) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := newReferralCode()
		if err != nil {
			return "", err
		}
		taken, err := r.ReferralCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", errCodeExhausted
}
