package loan

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

const (
	SchemeOne = "SCHEME_1"
	SchemeTwo = "SCHEME_2"
)

// InterestScheme applies Rate to customers whose first name starts with one of Initials.
// A scheme with empty Initials only makes sense as the fallback.
type InterestScheme struct {
	Name     string
	Initials string
	Rate     decimal.Decimal
}

type InterestSchemePolicy struct {
	schemes  []InterestScheme
	fallback InterestScheme
}

func NewInterestSchemePolicy(schemes []InterestScheme, fallback InterestScheme) (InterestSchemePolicy, error) {
	if fallback.Name == "" {
		return InterestSchemePolicy{}, fmt.Errorf("%w: fallback interest scheme needs a name", apperrors.ErrInvalidArgument)
	}
	if fallback.Rate.IsNegative() {
		return InterestSchemePolicy{}, fmt.Errorf("%w: fallback interest rate cannot be negative", apperrors.ErrInvalidArgument)
	}

	normalized := make([]InterestScheme, 0, len(schemes))
	for _, s := range schemes {
		if s.Name == "" {
			return InterestSchemePolicy{}, fmt.Errorf("%w: interest scheme needs a name", apperrors.ErrInvalidArgument)
		}
		if s.Initials == "" {
			return InterestSchemePolicy{}, fmt.Errorf("%w: interest scheme %s has no initials", apperrors.ErrInvalidArgument, s.Name)
		}
		if s.Rate.IsNegative() {
			return InterestSchemePolicy{}, fmt.Errorf("%w: interest scheme %s has a negative rate", apperrors.ErrInvalidArgument, s.Name)
		}
		s.Initials = asciiUpper(s.Initials)
		normalized = append(normalized, s)
	}

	return InterestSchemePolicy{schemes: normalized, fallback: fallback}, nil
}

func DefaultInterestSchemePolicy() InterestSchemePolicy {
	p, err := NewInterestSchemePolicy(
		[]InterestScheme{{Name: SchemeOne, Initials: "CLH", Rate: decimal.RequireFromString("0.13")}},
		InterestScheme{Name: SchemeTwo, Rate: decimal.RequireFromString("0.16")},
	)
	if err != nil {
		panic(err)
	}
	return p
}

// SelectScheme picks the first scheme whose initials contain the ASCII-folded
// first character of the customer's first name, or the fallback.
func (p InterestSchemePolicy) SelectScheme(cust *customer.Customer) (InterestScheme, error) {
	if cust == nil || cust.FirstName == "" {
		return InterestScheme{}, apperrors.InvalidCustomerData("firstName", "first name is required to select an interest scheme")
	}

	first, _ := utf8.DecodeRuneInString(cust.FirstName)
	if first >= 'a' && first <= 'z' {
		first -= 'a' - 'A'
	}

	for _, s := range p.schemes {
		if strings.ContainsRune(s.Initials, first) {
			return s, nil
		}
	}
	return p.fallback, nil
}

func (p InterestSchemePolicy) SelectRate(cust *customer.Customer) (decimal.Decimal, error) {
	s, err := p.SelectScheme(cust)
	if err != nil {
		return decimal.Zero, err
	}
	return s.Rate, nil
}

func asciiUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}
