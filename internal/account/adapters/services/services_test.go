package services_test

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"accountkeeper/internal/account/adapters/services"
	domainservices "accountkeeper/internal/account/domain/services"
	ports "accountkeeper/internal/account/ports/services"
)

const (
	msgNoErrorValidPassword        = "should not return error for valid password"
	msgHashNotEmpty                = "hash should not be empty"
	msgHashVerifiable              = "created hash should be verifiable"
	msgErrorInvalidPassword        = "error should be err invalid password"
	msgDifferentHashesSamePassword = "hashes of same password should differ due to salt"
)

func TestBcryptHash(t *testing.T) {
	service := services.NewBcrypt(bcrypt.MinCost)
	ctx := context.Background()

	t.Run("valid password", func(t *testing.T) {
		hash, err := service.Hash(ctx, "validPassword123")

		require.NoError(t, err, msgNoErrorValidPassword)
		assert.NotEmpty(t, hash, msgHashNotEmpty)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("validPassword123")), msgHashVerifiable)
	})

	t.Run("empty password", func(t *testing.T) {
		hash, err := service.Hash(ctx, "")

		require.Error(t, err)
		assert.ErrorIs(t, err, domainservices.ErrInvalidPassword, msgErrorInvalidPassword)
		assert.Empty(t, hash)
	})

	t.Run("password above bcrypt limit", func(t *testing.T) {
		hash, err := service.Hash(ctx, strings.Repeat("a1", 40))

		require.Error(t, err)
		assert.ErrorIs(t, err, domainservices.ErrInvalidPassword, msgErrorInvalidPassword)
		assert.Empty(t, hash)
	})

	t.Run("salted hashes differ", func(t *testing.T) {
		first, err := service.Hash(ctx, "samePassword1")
		require.NoError(t, err)
		second, err := service.Hash(ctx, "samePassword1")
		require.NoError(t, err)

		assert.NotEqual(t, first, second, msgDifferentHashesSamePassword)
	})
}

func TestBcryptVerify(t *testing.T) {
	service := services.NewBcrypt(bcrypt.MinCost)
	ctx := context.Background()

	hash, err := service.Hash(ctx, "correctHorse42")
	require.NoError(t, err)

	tests := []struct {
		name      string
		password  string
		hash      string
		wantValid bool
		wantErr   error
		anyErr    bool
	}{
		{name: "matching password", password: "correctHorse42", hash: hash, wantValid: true},
		{name: "wrong password", password: "wrongHorse42", hash: hash},
		{name: "empty password", password: "", hash: hash, wantErr: domainservices.ErrInvalidPassword},
		{name: "empty hash", password: "correctHorse42", hash: "", wantErr: domainservices.ErrInvalidPassword},
		{name: "malformed hash", password: "correctHorse42", hash: "not-a-bcrypt-hash", anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, err := service.Verify(ctx, tt.password, tt.hash)

			switch {
			case tt.wantErr != nil:
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				require.Error(t, err)
			default:
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantValid, valid)
		})
	}
}

func TestNewBcryptCost(t *testing.T) {
	tests := []struct {
		name     string
		cost     int
		expected int
	}{
		{name: "valid cost", cost: 12, expected: 12},
		{name: "below minimum", cost: 1, expected: bcrypt.DefaultCost},
		{name: "above maximum", cost: 100, expected: bcrypt.DefaultCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, ok := services.NewBcrypt(tt.cost).(*services.ServiceBcrypt)
			require.True(t, ok)
			assert.Equal(t, tt.expected, service.Cost())
		})
	}
}

func TestRandomGenerator(t *testing.T) {
	ctx := context.Background()
	letter := regexp.MustCompile(`[a-zA-Z]`)
	digit := regexp.MustCompile(`\d`)

	t.Run("default length when too short", func(t *testing.T) {
		password, err := services.NewRandomGenerator(3).Generate(ctx)

		require.NoError(t, err)
		assert.Len(t, password, services.DefaultGeneratedLength)
	})

	t.Run("length capped at maximum", func(t *testing.T) {
		password, err := services.NewRandomGenerator(500).Generate(ctx)

		require.NoError(t, err)
		assert.Len(t, password, domainservices.MaxPasswordLength)
	})

	t.Run("every password contains a letter and a digit", func(t *testing.T) {
		generator := services.NewRandomGenerator(domainservices.MinPasswordLength)
		for i := 0; i < 200; i++ {
			password, err := generator.Generate(ctx)
			require.NoError(t, err)
			assert.Regexp(t, letter, password)
			assert.Regexp(t, digit, password)
		}
	})

	t.Run("digits and symbols are mixed in without ambiguous characters", func(t *testing.T) {
		generator := services.NewRandomGenerator(16)
		for i := 0; i < 50; i++ {
			password, err := generator.Generate(ctx)
			require.NoError(t, err)
			assert.Len(t, digit.FindAllString(password, -1), 4)
			assert.Regexp(t, `[!@#$%^&*\-_=+?]`, password)
			assert.NotRegexp(t, `[0O1lI]`, password)
		}
	})

	t.Run("passwords are printable and unique", func(t *testing.T) {
		generator := services.NewRandomGenerator(16)
		seen := make(map[string]struct{})
		for i := 0; i < 100; i++ {
			password, err := generator.Generate(ctx)
			require.NoError(t, err)
			for _, r := range password {
				assert.True(t, r > 32 && r < 127, "character %q is not printable ASCII", r)
			}
			_, dup := seen[password]
			assert.False(t, dup)
			seen[password] = struct{}{}
		}
	})
}

func TestServiceFactory(t *testing.T) {
	factory := services.NewServiceFactory(bcrypt.MinCost, 20)

	require.NotNil(t, factory)
	assert.Implements(t, (*ports.PasswordService)(nil), factory.PasswordService())
	assert.Implements(t, (*ports.PasswordGenerator)(nil), factory.PasswordGenerator())
	assert.Same(t, factory.PasswordService(), factory.PasswordService())

	password, err := factory.PasswordGenerator().Generate(context.Background())
	require.NoError(t, err)
	assert.Len(t, password, 20)
}
