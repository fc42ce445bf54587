package security_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/PatrickVM/in-house-open-sub001/internal/security"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := security.NewTokenManager(testSecret)

	token, err := tm.GenerateAccessToken(42, "member@example.org")
	assert.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, int32(42), claims.UserID)
	assert.Equal(t, "member@example.org", claims.Email)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	token, err := security.NewTokenManager(testSecret).GenerateAccessToken(1, "a@b.c")
	assert.NoError(t, err)

	_, err = security.NewTokenManager("another-secret-another-secret-xx").ValidateToken(token)
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}

func TestTokenManager_Garbage(t *testing.T) {
	_, err := security.NewTokenManager(testSecret).ValidateToken("not-a-token")
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}

func TestOperationalTokenVerifier(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("cron-secret"), bcrypt.MinCost)
	assert.NoError(t, err)

	v := security.NewOperationalTokenVerifier(string(hash))
	assert.NoError(t, v.Verify("cron-secret"))
	assert.ErrorIs(t, v.Verify("wrong"), security.ErrBadOperationalToken)
	assert.ErrorIs(t, v.Verify(""), security.ErrBadOperationalToken)
}

func TestOperationalTokenVerifier_Unconfigured(t *testing.T) {
	v := security.NewOperationalTokenVerifier("")
	assert.ErrorIs(t, v.Verify("anything"), security.ErrBadOperationalToken)
}
