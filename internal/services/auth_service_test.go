package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ozgurcank/auth-backend/internal/password"
	"github.com/ozgurcank/auth-backend/internal/repository"
	"github.com/ozgurcank/auth-backend/internal/services"
	"github.com/ozgurcank/auth-backend/internal/testutil"
	"github.com/ozgurcank/auth-backend/internal/token"
	"github.com/ozgurcank/auth-backend/internal/validation"
)

type fixture struct {
	users   *testutil.FakeUserRepo
	refresh *testutil.FakeRefreshTokenRepo
	tokens  *token.Service
	svc     *services.AuthService
}

func newFixture() *fixture {
	hasher := password.NewHasher(bcrypt.MinCost)
	tokens := token.NewService("test-secret", 15*time.Minute)
	users := testutil.NewFakeUserRepo(hasher)
	refresh := testutil.NewFakeRefreshTokenRepo()
	return &fixture{
		users:   users,
		refresh: refresh,
		tokens:  tokens,
		svc:     services.NewAuthService(users, refresh, hasher, tokens, time.Hour),
	}
}

func registerInput() services.RegisterInput {
	return services.RegisterInput{
		Username:        "alice",
		Email:           "alice@x.com",
		Password:        "Password1!",
		ConfirmPassword: "Password1!",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*services.RegisterInput)
		setup   func(*fixture)
		wantErr error
	}{
		{
			name: "success",
		},
		{
			name:    "missing username",
			mutate:  func(in *services.RegisterInput) { in.Username = "" },
			wantErr: services.ErrMissingFields,
		},
		{
			name:    "whitespace-only username",
			mutate:  func(in *services.RegisterInput) { in.Username = "   " },
			wantErr: services.ErrMissingFields,
		},
		{
			name:    "missing confirm password",
			mutate:  func(in *services.RegisterInput) { in.ConfirmPassword = "" },
			wantErr: services.ErrMissingFields,
		},
		{
			name:    "password mismatch",
			mutate:  func(in *services.RegisterInput) { in.ConfirmPassword = "Different1!" },
			wantErr: services.ErrPasswordMismatch,
		},
		{
			name: "weak password",
			mutate: func(in *services.RegisterInput) {
				in.Password = "weak"
				in.ConfirmPassword = "weak"
			},
			wantErr: validation.ErrWeakPassword,
		},
		{
			name:    "invalid email",
			mutate:  func(in *services.RegisterInput) { in.Email = "not-an-email" },
			wantErr: validation.ErrInvalidEmail,
		},
		{
			name: "duplicate email with different username",
			setup: func(f *fixture) {
				_, err := f.svc.Register(ctx, services.RegisterInput{
					Username: "someone", Email: "alice@x.com",
					Password: "Password1!", ConfirmPassword: "Password1!",
				})
				require.NoError(t, err)
			},
			wantErr: repository.ErrDuplicateEmail,
		},
		{
			name: "duplicate username",
			setup: func(f *fixture) {
				_, err := f.svc.Register(ctx, services.RegisterInput{
					Username: "alice", Email: "other@x.com",
					Password: "Password1!", ConfirmPassword: "Password1!",
				})
				require.NoError(t, err)
			},
			wantErr: repository.ErrDuplicateUsername,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.setup != nil {
				tt.setup(f)
			}

			input := registerInput()
			if tt.mutate != nil {
				tt.mutate(&input)
			}

			result, err := f.svc.Register(ctx, input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "alice", result.User.Username)
			assert.Equal(t, "alice@x.com", result.User.Email)
			assert.Empty(t, result.User.PasswordHash)
			assert.NotEmpty(t, result.AccessToken)
			assert.NotEmpty(t, result.RefreshToken)

			subject, err := f.tokens.Verify(result.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, result.User.ID.String(), subject)
		})
	}
}

func TestRegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.Register(ctx, registerInput())
	require.NoError(t, err)

	result, err := f.svc.Login(ctx, services.LoginInput{Email: "alice@x.com", Password: "Password1!"})
	require.NoError(t, err)
	assert.Equal(t, "alice", result.User.Username)
	assert.NotNil(t, result.User.LastLoginAt)
	assert.Empty(t, result.User.PasswordHash)
}

func TestConcurrentRegistrationSameEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, username := range []string{"alice", "alicia"} {
		wg.Add(1)
		go func(i int, username string) {
			defer wg.Done()
			_, errs[i] = f.svc.Register(ctx, services.RegisterInput{
				Username:        username,
				Email:           "alice@x.com",
				Password:        "Password1!",
				ConfirmPassword: "Password1!",
			})
		}(i, username)
	}
	wg.Wait()

	// Exactly one wins; the loser gets the duplicate-email error.
	if errs[0] == nil {
		assert.ErrorIs(t, errs[1], repository.ErrDuplicateEmail)
	} else {
		assert.NoError(t, errs[1])
		assert.ErrorIs(t, errs[0], repository.ErrDuplicateEmail)
	}
}

func TestLoginCollapsesFailureModes(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.Register(ctx, registerInput())
	require.NoError(t, err)

	_, errWrongPassword := f.svc.Login(ctx, services.LoginInput{Email: "alice@x.com", Password: "Wrong1!pw"})
	_, errUnknownEmail := f.svc.Login(ctx, services.LoginInput{Email: "nobody@x.com", Password: "Password1!"})

	assert.ErrorIs(t, errWrongPassword, services.ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknownEmail, services.ErrInvalidCredentials)
	// Identical error value, so no caller can tell the cases apart.
	assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
}

func TestLoginMissingFields(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Login(context.Background(), services.LoginInput{Email: "alice@x.com"})
	assert.ErrorIs(t, err, services.ErrMissingFields)

	_, err = f.svc.Login(context.Background(), services.LoginInput{Password: "Password1!"})
	assert.ErrorIs(t, err, services.ErrMissingFields)
}

func TestRefreshRotates(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	first, err := f.svc.Register(ctx, registerInput())
	require.NoError(t, err)

	second, err := f.svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, first.User.ID, second.User.ID)

	// The spent token cannot be replayed.
	_, err = f.svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, services.ErrInvalidRefreshToken)
}

func TestRefreshReuseRevokesAllSessions(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	first, err := f.svc.Register(ctx, registerInput())
	require.NoError(t, err)

	second, err := f.svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, 1, f.refresh.ActiveCount(first.User.ID))

	// Presenting the rotated-out token again looks like theft: the live
	// session goes down with it.
	_, err = f.svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, services.ErrInvalidRefreshToken)
	assert.Equal(t, 0, f.refresh.ActiveCount(first.User.ID))

	_, err = f.svc.Refresh(ctx, second.RefreshToken)
	assert.ErrorIs(t, err, services.ErrInvalidRefreshToken)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Refresh(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, services.ErrInvalidRefreshToken)

	_, err = f.svc.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, services.ErrInvalidRefreshToken)
}

func TestRefreshRejectsDeletedUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	result, err := f.svc.Register(ctx, registerInput())
	require.NoError(t, err)

	f.users.Delete(result.User.ID)

	_, err = f.svc.Refresh(ctx, result.RefreshToken)
	assert.ErrorIs(t, err, services.ErrInvalidRefreshToken)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	result, err := f.svc.Register(ctx, registerInput())
	require.NoError(t, err)
	require.Equal(t, 1, f.refresh.ActiveCount(result.User.ID))

	require.NoError(t, f.svc.Logout(ctx, result.RefreshToken))
	assert.Equal(t, 0, f.refresh.ActiveCount(result.User.ID))

	// Idempotent: repeating and unknown tokens are fine.
	assert.NoError(t, f.svc.Logout(ctx, result.RefreshToken))
	assert.NoError(t, f.svc.Logout(ctx, "unknown"))
	assert.NoError(t, f.svc.Logout(ctx, ""))
}
