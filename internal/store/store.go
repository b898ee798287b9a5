package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DoyleJ11/waitlist/internal/waitlist"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var ErrUnknownDriver = errors.New("unknown database driver")

// writeLockKey names the postgres advisory lock held by every write
// transaction, so position = count + 1 is never computed twice.
const writeLockKey int64 = 0x7761_6974 // "wait"

// Open connects to the database and migrates the customers table.
func Open(driver, dsn string, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		// sqlite allows a single writer
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&waitlist.Customer{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if log != nil {
		log.Info("database ready", zap.String("driver", driver))
	}
	return db, nil
}

// Repo implements waitlist.Repository on gorm.
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Tx(ctx context.Context, fn func(waitlist.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if stmt := writeLockStatement(tx.Dialector.Name()); stmt != "" {
			if err := tx.Exec(stmt, writeLockKey).Error; err != nil {
				return fmt.Errorf("acquire write lock: %w", err)
			}
		}
		return fn(&Repo{db: tx})
	})
}

// writeLockStatement returns the statement that serializes write transactions
// for the dialect. sqlite needs none: Open caps it at one connection.
func writeLockStatement(dialect string) string {
	if dialect == DriverPostgres {
		return "SELECT pg_advisory_xact_lock(?)"
	}
	return ""
}

func (r *Repo) findBy(ctx context.Context, column, value string) (*waitlist.Customer, error) {
	var c waitlist.Customer
	err := r.db.WithContext(ctx).Where(column+" = ?", value).Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, waitlist.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find customer by %s: %w", column, err)
	}
	return &c, nil
}

func (r *Repo) FindByEmail(ctx context.Context, email string) (*waitlist.Customer, error) {
	return r.findBy(ctx, "email", email)
}

func (r *Repo) FindByPhone(ctx context.Context, phone string) (*waitlist.Customer, error) {
	return r.findBy(ctx, "phone", phone)
}

func (r *Repo) FindByReferralCode(ctx context.Context, code string) (*waitlist.Customer, error) {
	return r.findBy(ctx, "referral_code", code)
}

func (r *Repo) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&waitlist.Customer{}).Where("referral_code = ?", code).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check referral code: %w", err)
	}
	return n > 0, nil
}

func (r *Repo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&waitlist.Customer{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}

func (r *Repo) Create(ctx context.Context, c *waitlist.Customer) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

func (r *Repo) CreditReferrer(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Model(&waitlist.Customer{}).Where("id = ?", id).Updates(map[string]any{
		"referrals":        gorm.Expr("referrals + ?", 1),
		"referred_persons": gorm.Expr("referred_persons + ?", 1),
	}).Error
	if err != nil {
		return fmt.Errorf("credit referrer: %w", err)
	}
	return nil
}

func (r *Repo) SetPosition(ctx context.Context, id uint, position int) error {
	err := r.db.WithContext(ctx).Model(&waitlist.Customer{}).Where("id = ?", id).Update("position", position).Error
	if err != nil {
		return fmt.Errorf("set position: %w", err)
	}
	return nil
}

func (r *Repo) ListByPosition(ctx context.Context) ([]waitlist.Customer, error) {
	var out []waitlist.Customer
	if err := r.db.WithContext(ctx).Order("position ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return out, nil
}

func (r *Repo) TopByReferrals(ctx context.Context, limit int) ([]waitlist.Customer, error) {
	var out []waitlist.Customer
	err := r.db.WithContext(ctx).Order("referrals DESC").Order("id ASC").Limit(limit).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("top referrers: %w", err)
	}
	return out, nil
}
