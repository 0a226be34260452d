package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"lucerna/internal/domain/user"
	vo "lucerna/internal/domain/user/valueobjects"
	"lucerna/internal/infrastructure/persistence/models"
	"lucerna/internal/shared/db"
	"lucerna/internal/shared/errors"
	"lucerna/internal/shared/logger"
)

type testHasher struct{}

func (testHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (testHasher) Verify(password, hash string) error   { return nil }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, gormDB.AutoMigrate(&models.UserModel{}, &models.AuthorisationModel{}))
	return gormDB
}

func newRepos(t *testing.T) (user.Repository, user.AuthorisationRepository, *gorm.DB) {
	t.Helper()
	gormDB := newTestDB(t)
	log := logger.NewLogger()
	return NewUserRepository(gormDB, log), NewAuthorisationRepository(gormDB, log), gormDB
}

func newLocalUser(t *testing.T, emailAddr string) *user.User {
	t.Helper()
	emailVO, err := vo.NewEmail(emailAddr)
	require.NoError(t, err)
	u, err := user.NewLocalUser(emailVO, nil)
	require.NoError(t, err)
	require.NoError(t, u.SetPassword("password123", testHasher{}))
	return u
}

func newSocialUser(t *testing.T, emailAddr string) *user.User {
	t.Helper()
	emailVO, err := vo.NewEmail(emailAddr)
	require.NoError(t, err)
	u, err := user.NewOAuthUser(emailVO, nil)
	require.NoError(t, err)
	return u
}

func TestUserRepositoryCreateAndGet(t *testing.T) {
	users, _, _ := newRepos(t)
	ctx := context.Background()

	created := newLocalUser(t, "alice@example.com")
	require.NoError(t, users.Create(ctx, created))
	assert.NotZero(t, created.ID())

	byID, err := users.GetByID(ctx, created.ID())
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "alice@example.com", byID.Email().String())
	assert.True(t, byID.HasLocalLogin())

	byEmail, err := users.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, created.ID(), byEmail.ID())

	missing, err := users.GetByEmail(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	users, _, _ := newRepos(t)
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, newLocalUser(t, "alice@example.com")))

	err := users.Create(ctx, newLocalUser(t, "alice@example.com"))
	require.Error(t, err)
	assert.True(t, errors.IsDuplicateError(err))
}

func TestUserRepositoryUpdate(t *testing.T) {
	users, _, _ := newRepos(t)
	ctx := context.Background()

	created := newLocalUser(t, "alice@example.com")
	require.NoError(t, users.Create(ctx, created))

	created.MarkEmailVerified()
	name := "Alice"
	created.UpdateName(&name)
	require.NoError(t, users.Update(ctx, created))

	reloaded, err := users.GetByID(ctx, created.ID())
	require.NoError(t, err)
	assert.True(t, reloaded.IsEmailVerified())
	require.NotNil(t, reloaded.Name())
	assert.Equal(t, "Alice", *reloaded.Name())
}

func TestUserRepositoryUpdateUnchangedValues(t *testing.T) {
	users, _, _ := newRepos(t)
	ctx := context.Background()

	created := newLocalUser(t, "alice@example.com")
	require.NoError(t, users.Create(ctx, created))

	// An update writing identical values matches the row without changing
	// it; that must not be mistaken for a missing user.
	require.NoError(t, users.Update(ctx, created))
	require.NoError(t, users.Update(ctx, created))
}

func TestUserRepositoryUpdateMissingUser(t *testing.T) {
	users, _, _ := newRepos(t)
	ctx := context.Background()

	emailVO, err := vo.NewEmail("ghost@example.com")
	require.NoError(t, err)
	ghost, err := user.Reconstruct(999, emailVO, nil, nil, false, "user")
	require.NoError(t, err)

	err = users.Update(ctx, ghost)
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestUserRepositoryDelete(t *testing.T) {
	users, _, _ := newRepos(t)
	ctx := context.Background()

	created := newLocalUser(t, "alice@example.com")
	require.NoError(t, users.Create(ctx, created))
	require.NoError(t, users.Delete(ctx, created.ID()))

	gone, err := users.GetByID(ctx, created.ID())
	require.NoError(t, err)
	assert.Nil(t, gone)

	err = users.Delete(ctx, created.ID())
	assert.True(t, errors.IsNotFoundError(err))
}

func TestUserRepositoryList(t *testing.T) {
	users, _, _ := newRepos(t)
	ctx := context.Background()

	for _, email := range []string{"c@example.com", "a@example.com", "b@example.com"} {
		require.NoError(t, users.Create(ctx, newLocalUser(t, email)))
	}

	page, total, err := users.List(ctx, user.ListFilter{
		OrderBy:  "email",
		Order:    "asc",
		Page:     1,
		PageSize: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 2)
	assert.Equal(t, "a@example.com", page[0].Email().String())
	assert.Equal(t, "b@example.com", page[1].Email().String())

	filtered, total, err := users.List(ctx, user.ListFilter{
		Email:    "b@example.com",
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, filtered, 1)

	// A hostile orderBy value falls back to the default ordering.
	_, _, err = users.List(ctx, user.ListFilter{
		OrderBy:  "email; DROP TABLE user",
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
}

func TestAuthorisationRepositoryLinkLifecycle(t *testing.T) {
	users, links, _ := newRepos(t)
	ctx := context.Background()

	owner := newSocialUser(t, "alice@example.com")
	require.NoError(t, users.Create(ctx, owner))

	link, err := user.NewAuthorisation(owner.ID(), user.ProviderGoogle, "ext-1")
	require.NoError(t, err)
	require.NoError(t, links.Create(ctx, link))

	found, err := links.GetByProviderIdentity(ctx, user.ProviderGoogle, "ext-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, owner.ID(), found.UserID)

	listed, err := links.ListByUserID(ctx, owner.ID())
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	resolved, err := users.GetByProviderIdentity(ctx, user.ProviderGoogle, "ext-1")
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, owner.ID(), resolved.ID())

	rows, err := links.DeleteByUserAndProvider(ctx, owner.ID(), user.ProviderGoogle)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = links.DeleteByUserAndProvider(ctx, owner.ID(), user.ProviderGoogle)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

func TestAuthorisationRepositoryIdentityUniqueness(t *testing.T) {
	users, links, _ := newRepos(t)
	ctx := context.Background()

	first := newSocialUser(t, "alice@example.com")
	second := newSocialUser(t, "bob@example.com")
	require.NoError(t, users.Create(ctx, first))
	require.NoError(t, users.Create(ctx, second))

	link, err := user.NewAuthorisation(first.ID(), user.ProviderGitHub, "ext-1")
	require.NoError(t, err)
	require.NoError(t, links.Create(ctx, link))

	// The same provider identity cannot be linked to a second user.
	stolen, err := user.NewAuthorisation(second.ID(), user.ProviderGitHub, "ext-1")
	require.NoError(t, err)
	err = links.Create(ctx, stolen)
	require.Error(t, err)
	assert.True(t, errors.IsDuplicateError(err))
}

func TestCountLoginMethods(t *testing.T) {
	users, links, _ := newRepos(t)
	ctx := context.Background()

	withPassword := newLocalUser(t, "alice@example.com")
	require.NoError(t, users.Create(ctx, withPassword))
	for provider, id := range map[user.ProviderType]string{
		user.ProviderGoogle: "ext-1",
		user.ProviderGitHub: "ext-2",
	} {
		link, err := user.NewAuthorisation(withPassword.ID(), provider, id)
		require.NoError(t, err)
		require.NoError(t, links.Create(ctx, link))
	}

	methods, err := links.CountLoginMethods(ctx, withPassword.ID())
	require.NoError(t, err)
	require.NotNil(t, methods)
	assert.True(t, methods.HasLocal)
	assert.Equal(t, int64(2), methods.LinkCount)
	assert.Equal(t, int64(3), methods.Total())

	socialOnly := newSocialUser(t, "bob@example.com")
	require.NoError(t, users.Create(ctx, socialOnly))
	link, err := user.NewAuthorisation(socialOnly.ID(), user.ProviderSpotify, "ext-9")
	require.NoError(t, err)
	require.NoError(t, links.Create(ctx, link))

	methods, err = links.CountLoginMethods(ctx, socialOnly.ID())
	require.NoError(t, err)
	require.NotNil(t, methods)
	assert.False(t, methods.HasLocal)
	assert.Equal(t, int64(1), methods.Total())

	missing, err := links.CountLoginMethods(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCountLoginMethodsInsideUnlinkTransaction(t *testing.T) {
	users, links, gormDB := newRepos(t)
	ctx := context.Background()
	tm := db.NewTransactionManager(gormDB)

	owner := newSocialUser(t, "alice@example.com")
	require.NoError(t, users.Create(ctx, owner))
	for provider, id := range map[user.ProviderType]string{
		user.ProviderGoogle:   "ext-1",
		user.ProviderFacebook: "ext-2",
	} {
		link, err := user.NewAuthorisation(owner.ID(), provider, id)
		require.NoError(t, err)
		require.NoError(t, links.Create(ctx, link))
	}

	// The count locks the user row and runs in the same transaction as the
	// delete, so a recount observes the delete before commit.
	err := tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		before, err := links.CountLoginMethods(txCtx, owner.ID())
		require.NoError(t, err)
		require.NotNil(t, before)
		require.Equal(t, int64(2), before.Total())

		rows, err := links.DeleteByUserAndProvider(txCtx, owner.ID(), user.ProviderGoogle)
		require.NoError(t, err)
		require.Equal(t, int64(1), rows)

		after, err := links.CountLoginMethods(txCtx, owner.ID())
		require.NoError(t, err)
		require.NotNil(t, after)
		require.Equal(t, int64(1), after.Total())
		return nil
	})
	require.NoError(t, err)
}

func TestTransactionRollbackSpansRepositories(t *testing.T) {
	users, links, gormDB := newRepos(t)
	ctx := context.Background()
	tm := db.NewTransactionManager(gormDB)

	err := tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		created := newSocialUser(t, "alice@example.com")
		if err := users.Create(txCtx, created); err != nil {
			return err
		}
		link, err := user.NewAuthorisation(created.ID(), user.ProviderGoogle, "ext-1")
		if err != nil {
			return err
		}
		if err := links.Create(txCtx, link); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	orphan, err := users.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Nil(t, orphan)

	ghost, err := links.GetByProviderIdentity(ctx, user.ProviderGoogle, "ext-1")
	require.NoError(t, err)
	assert.Nil(t, ghost)
}
