package customer

import (
	"fmt"
	"time"

	"credit-engine/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

const (
	DefaultMinAge = 18
	DefaultMaxAge = 65
)

// CreditTier grants CreditLine to every accepted age up to and including MaxAge.
type CreditTier struct {
	MaxAge     int
	CreditLine decimal.Decimal
}

type CreditTierPolicy struct {
	minAge int
	maxAge int
	tiers  []CreditTier
}

// NewCreditTierPolicy validates that tiers are ascending, cover minAge..maxAge
// without gaps and end exactly at maxAge.
func NewCreditTierPolicy(minAge, maxAge int, tiers []CreditTier) (CreditTierPolicy, error) {
	if minAge < 0 || maxAge < minAge {
		return CreditTierPolicy{}, fmt.Errorf("%w: invalid age bounds %d-%d", apperrors.ErrInvalidArgument, minAge, maxAge)
	}
	if len(tiers) == 0 {
		return CreditTierPolicy{}, fmt.Errorf("%w: at least one credit tier is required", apperrors.ErrInvalidArgument)
	}

	lower := minAge
	for i, tier := range tiers {
		if tier.MaxAge < lower {
			return CreditTierPolicy{}, fmt.Errorf("%w: tier %d upper bound %d overlaps previous tier", apperrors.ErrInvalidArgument, i, tier.MaxAge)
		}
		if tier.CreditLine.IsNegative() {
			return CreditTierPolicy{}, fmt.Errorf("%w: tier %d has negative credit line", apperrors.ErrInvalidArgument, i)
		}
		lower = tier.MaxAge + 1
	}
	if last := tiers[len(tiers)-1].MaxAge; last != maxAge {
		return CreditTierPolicy{}, fmt.Errorf("%w: last tier ends at %d, expected %d", apperrors.ErrInvalidArgument, last, maxAge)
	}

	cp := make([]CreditTier, len(tiers))
	copy(cp, tiers)
	return CreditTierPolicy{minAge: minAge, maxAge: maxAge, tiers: cp}, nil
}

func DefaultCreditTierPolicy() CreditTierPolicy {
	p, err := NewCreditTierPolicy(DefaultMinAge, DefaultMaxAge, []CreditTier{
		{MaxAge: 25, CreditLine: decimal.NewFromInt(3000)},
		{MaxAge: 30, CreditLine: decimal.NewFromInt(5000)},
		{MaxAge: 65, CreditLine: decimal.NewFromInt(8000)},
	})
	if err != nil {
		panic(err)
	}
	return p
}

func (p CreditTierPolicy) MinAge() int { return p.minAge }

func (p CreditTierPolicy) MaxAge() int { return p.maxAge }

func (p CreditTierPolicy) AssignCreditLine(age int) (decimal.Decimal, error) {
	if age < p.minAge || age > p.maxAge {
		return decimal.Zero, apperrors.InvalidAge(age, p.minAge, p.maxAge)
	}
	for _, tier := range p.tiers {
		if age <= tier.MaxAge {
			return tier.CreditLine, nil
		}
	}
	return decimal.Zero, apperrors.InvalidAge(age, p.minAge, p.maxAge)
}

// AgeAt returns completed calendar years between birth and now.
func AgeAt(birth, now time.Time) int {
	by, bm, bd := birth.Date()
	ny, nm, nd := now.Date()

	age := ny - by
	if nm < bm || (nm == bm && nd < bd) {
		age--
	}
	return age
}
