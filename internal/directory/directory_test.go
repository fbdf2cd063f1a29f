// AngelaMos | 2026
// directory_test.go

package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/stillmind/internal/core"
)

type fakeStore struct {
	kind      Kind
	byEmail   map[string]*Account
	byPhone   map[string]*Account
	passwords map[string]string
}

func newFakeStore(kind Kind, accounts ...*Account) *fakeStore {
	s := &fakeStore{
		kind:      kind,
		byEmail:   make(map[string]*Account),
		byPhone:   make(map[string]*Account),
		passwords: make(map[string]string),
	}
	for _, a := range accounts {
		a.Kind = kind
		s.byEmail[a.Email] = a
		if a.PhoneNumber != "" {
			s.byPhone[a.PhoneNumber] = a
		}
	}
	return s
}

func (s *fakeStore) Kind() Kind { return s.kind }

func (s *fakeStore) FindByEmail(_ context.Context, email string) (*Account, error) {
	if a, ok := s.byEmail[email]; ok {
		return a, nil
	}
	return nil, core.ErrNotFound
}

func (s *fakeStore) FindByPhone(_ context.Context, phone string) (*Account, error) {
	if a, ok := s.byPhone[phone]; ok {
		return a, nil
	}
	return nil, core.ErrNotFound
}

func (s *fakeStore) UpdatePassword(_ context.Context, id, hash string) error {
	s.passwords[id] = hash
	return nil
}

func TestFindByEmailProbeOrder(t *testing.T) {
	// The same email planted in all three stores must resolve to the
	// admin store regardless of the order stores were registered.
	admin := newFakeStore(KindAdmin, &Account{ID: "a1", Email: "shared@example.com"})
	user := newFakeStore(KindUser, &Account{ID: "u1", Email: "shared@example.com"})
	company := newFakeStore(KindCompany, &Account{ID: "c1", Email: "shared@example.com"})

	d := New(company, user, admin)

	account, err := d.FindByEmail(context.Background(), "shared@example.com")
	require.NoError(t, err)
	assert.Equal(t, KindAdmin, account.Kind)
	assert.Equal(t, "a1", account.ID)
}

func TestFindByEmailFallsThroughStores(t *testing.T) {
	admin := newFakeStore(KindAdmin)
	user := newFakeStore(KindUser)
	company := newFakeStore(KindCompany, &Account{ID: "c1", Email: "tenant@example.com"})

	d := New(admin, user, company)

	account, err := d.FindByEmail(context.Background(), "tenant@example.com")
	require.NoError(t, err)
	assert.Equal(t, KindCompany, account.Kind)
}

func TestFindByEmailNormalizes(t *testing.T) {
	user := newFakeStore(KindUser, &Account{ID: "u1", Email: "user@example.com"})

	d := New(user)

	account, err := d.FindByEmail(context.Background(), "  User@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "u1", account.ID)
}

func TestFindByEmailNotFound(t *testing.T) {
	d := New(newFakeStore(KindAdmin), newFakeStore(KindUser), newFakeStore(KindCompany))

	_, err := d.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestFindByIdentifierDispatch(t *testing.T) {
	user := newFakeStore(KindUser,
		&Account{ID: "u1", Email: "user@example.com", PhoneNumber: "+4512345678"},
	)
	d := New(user)

	t.Run("email", func(t *testing.T) {
		account, err := d.FindByIdentifier(context.Background(), "user@example.com", "+45")
		require.NoError(t, err)
		assert.Equal(t, "u1", account.ID)
	})

	t.Run("bare national number", func(t *testing.T) {
		account, err := d.FindByIdentifier(context.Background(), "12345678", "+45")
		require.NoError(t, err)
		assert.Equal(t, "u1", account.ID)
	})

	t.Run("full number", func(t *testing.T) {
		account, err := d.FindByIdentifier(context.Background(), "+4512345678", "+45")
		require.NoError(t, err)
		assert.Equal(t, "u1", account.ID)
	})
}

func TestEmailTaken(t *testing.T) {
	user := newFakeStore(KindUser, &Account{ID: "u1", Email: "taken@example.com"})
	d := New(user)

	taken, err := d.EmailTaken(context.Background(), "taken@example.com")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = d.EmailTaken(context.Background(), "free@example.com")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestUpdatePasswordRoutesToOwningStore(t *testing.T) {
	admin := newFakeStore(KindAdmin)
	user := newFakeStore(KindUser, &Account{ID: "u1", Email: "user@example.com"})
	d := New(admin, user)

	account, err := d.FindByEmail(context.Background(), "user@example.com")
	require.NoError(t, err)

	require.NoError(t, d.UpdatePassword(context.Background(), account, "newhash"))
	assert.Equal(t, "newhash", user.passwords["u1"])
	assert.Empty(t, admin.passwords)
}

func TestIsPhoneNumber(t *testing.T) {
	assert.True(t, IsPhoneNumber("12345678"))
	assert.True(t, IsPhoneNumber("+4512345678"))
	assert.False(t, IsPhoneNumber("user@example.com"))
	assert.False(t, IsPhoneNumber("+"))
	assert.False(t, IsPhoneNumber(""))
	assert.False(t, IsPhoneNumber("1234x678"))
}
