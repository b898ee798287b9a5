package waitlist

import (
	"time"

	"github.com/DoyleJ11/waitlist/pkg/types"
)

type Customer struct {
	ID              uint    `gorm:"primaryKey"`
	Name            string  `gorm:"not null"`
	Email           string  `gorm:"uniqueIndex;not null"`
	Phone           *string `gorm:"uniqueIndex"` // referral-created rows have none
	ReferralCode    string  `gorm:"uniqueIndex;not null"`
	Referrals       int     `gorm:"not null;default:0"`
	ReferredPersons int     `gorm:"not null;default:0"`
	Position        int     `gorm:"not null;index"`
	CreatedAt       time.Time
}

func (Customer) TableName() string { return "customers" }

func (c Customer) RankingEntry() types.RankingEntry {
	referred := c.ReferredPersons
	return types.RankingEntry{
		Position:        c.Position,
		Name:            c.Name,
		Email:           c.Email,
		ReferralCode:    c.ReferralCode,
		ReferredPersons: &referred,
	}
}

func (c Customer) TopEntry() types.TopEntry {
	return types.TopEntry{Name: c.Name, Email: c.Email, Referrals: c.Referrals}
}
