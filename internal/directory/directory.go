// AngelaMos | 2026
// directory.go

package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/stillmind/internal/core"
)

// Kind identifies which account store a resolved account came from.
type Kind string

const (
	KindAdmin   Kind = "admin"
	KindUser    Kind = "user"
	KindCompany Kind = "company"
)

// Account is the store-independent view of any account holding
// credentials. Exactly one store owns a given email address.
type Account struct {
	Kind          Kind
	ID            string
	Email         string
	PhoneNumber   string
	PasswordHash  string
	Role          string
	EmailVerified bool
	IsBlocked     bool
	IsActive      bool
	CompanyName   string
}

// Store is implemented by each account repository that participates in
// the shared email namespace.
type Store interface {
	Kind() Kind
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByPhone(ctx context.Context, phone string) (*Account, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// Directory resolves identifiers across every account store. Stores are
// probed in a fixed order (admin, then user, then company) so that a
// lookup is deterministic even if an email ever leaks into two stores.
type Directory struct {
	stores []Store
}

func New(stores ...Store) *Directory {
	ordered := make([]Store, 0, len(stores))
	for _, kind := range []Kind{KindAdmin, KindUser, KindCompany} {
		for _, s := range stores {
			if s.Kind() == kind {
				ordered = append(ordered, s)
			}
		}
	}
	return &Directory{stores: ordered}
}

// FindByEmail returns the first account matching email in probe order,
// or core.ErrNotFound when no store owns it.
func (d *Directory) FindByEmail(
	ctx context.Context,
	email string,
) (*Account, error) {
	email = NormalizeEmail(email)

	for _, store := range d.stores {
		account, err := store.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("probe %s store: %w", store.Kind(), err)
		}
		return account, nil
	}

	return nil, core.ErrNotFound
}

// FindByPhone behaves like FindByEmail for phone numbers.
func (d *Directory) FindByPhone(
	ctx context.Context,
	phone string,
) (*Account, error) {
	for _, store := range d.stores {
		account, err := store.FindByPhone(ctx, phone)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("probe %s store: %w", store.Kind(), err)
		}
		return account, nil
	}

	return nil, core.ErrNotFound
}

// FindByIdentifier dispatches on the identifier's shape: an all-digit
// value (optionally with a leading +) is treated as a phone number,
// anything else as an email address.
func (d *Directory) FindByIdentifier(
	ctx context.Context,
	identifier string,
	countryCode string,
) (*Account, error) {
	identifier = strings.TrimSpace(identifier)

	if IsPhoneNumber(identifier) {
		return d.FindByPhone(ctx, CanonicalPhone(identifier, countryCode))
	}

	return d.FindByEmail(ctx, identifier)
}

// EmailTaken reports whether any store already owns email. Signup flows
// use this to keep the namespace disjoint across stores.
func (d *Directory) EmailTaken(ctx context.Context, email string) (bool, error) {
	_, err := d.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// UpdatePassword routes a credential change back to the store that owns
// the account.
func (d *Directory) UpdatePassword(
	ctx context.Context,
	account *Account,
	passwordHash string,
) error {
	for _, store := range d.stores {
		if store.Kind() == account.Kind {
			return store.UpdatePassword(ctx, account.ID, passwordHash)
		}
	}
	return fmt.Errorf("no store for kind %q: %w", account.Kind, core.ErrNotFound)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsPhoneNumber reports whether identifier looks like a phone number
// rather than an email: digits only, with an optional leading +.
func IsPhoneNumber(identifier string) bool {
	s := strings.TrimPrefix(identifier, "+")
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CanonicalPhone prefixes bare national numbers with the configured
// country code. Numbers already carrying + pass through unchanged.
func CanonicalPhone(phone, countryCode string) string {
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	return countryCode + phone
}
