package user

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "lucerna/internal/domain/user/valueobjects"
	"lucerna/internal/shared/authorization"
)

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Verify(password, hash string) error {
	if "hashed:"+password != hash {
		return fmt.Errorf("password mismatch")
	}
	return nil
}

func mustEmail(t *testing.T, s string) vo.Email {
	t.Helper()
	email, err := vo.NewEmail(s)
	require.NoError(t, err)
	return email
}

func TestNewLocalUser(t *testing.T) {
	name := "Alice"
	u, err := NewLocalUser(mustEmail(t, "alice@example.com"), &name)
	require.NoError(t, err)

	assert.False(t, u.IsEmailVerified())
	assert.Equal(t, authorization.RoleUser, u.Role())
	assert.False(t, u.HasLocalLogin())

	require.NoError(t, u.SetPassword("password123", fakeHasher{}))
	assert.True(t, u.HasLocalLogin())
	assert.NoError(t, u.VerifyPassword("password123", fakeHasher{}))
	assert.Error(t, u.VerifyPassword("other", fakeHasher{}))
}

func TestNewOAuthUserIsVerifiedWithoutPassword(t *testing.T) {
	u, err := NewOAuthUser(mustEmail(t, "bob@example.com"), nil)
	require.NoError(t, err)

	assert.True(t, u.IsEmailVerified())
	assert.False(t, u.HasLocalLogin())
	assert.Error(t, u.VerifyPassword("anything", fakeHasher{}))
}

func TestSetIDOnlyOnce(t *testing.T) {
	u, err := NewOAuthUser(mustEmail(t, "bob@example.com"), nil)
	require.NoError(t, err)

	require.NoError(t, u.SetID(5))
	assert.Error(t, u.SetID(6))
	assert.Equal(t, uint(5), u.ID())
}

func TestUpdateEmailResetsVerification(t *testing.T) {
	u, err := NewOAuthUser(mustEmail(t, "bob@example.com"), nil)
	require.NoError(t, err)
	require.True(t, u.IsEmailVerified())

	// Same address is a no-op.
	require.NoError(t, u.UpdateEmail(mustEmail(t, "bob@example.com")))
	assert.True(t, u.IsEmailVerified())

	require.NoError(t, u.UpdateEmail(mustEmail(t, "new@example.com")))
	assert.False(t, u.IsEmailVerified())
	assert.Equal(t, "new@example.com", u.Email().String())
}

func TestLoginMethodsTotal(t *testing.T) {
	assert.Equal(t, int64(3), LoginMethods{HasLocal: true, LinkCount: 2}.Total())
	assert.Equal(t, int64(2), LoginMethods{HasLocal: false, LinkCount: 2}.Total())
	assert.Equal(t, int64(1), LoginMethods{HasLocal: true, LinkCount: 0}.Total())
	assert.Equal(t, int64(0), LoginMethods{HasLocal: false, LinkCount: 0}.Total())
}

func TestParseProviderType(t *testing.T) {
	for _, p := range AllProviderTypes {
		parsed, err := ParseProviderType(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}

	_, err := ParseProviderType("myspace")
	assert.Error(t, err)
}

func TestNewAuthorisationValidation(t *testing.T) {
	_, err := NewAuthorisation(0, ProviderGoogle, "ext-1")
	assert.Error(t, err)

	_, err = NewAuthorisation(1, ProviderType("myspace"), "ext-1")
	assert.Error(t, err)

	_, err = NewAuthorisation(1, ProviderGoogle, "")
	assert.Error(t, err)

	link, err := NewAuthorisation(1, ProviderGoogle, "ext-1")
	require.NoError(t, err)
	assert.Equal(t, uint(1), link.UserID)
}
