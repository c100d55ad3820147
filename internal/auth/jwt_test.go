package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/erazemk/shramba/internal/model"
)

var alice = model.Identity{UserID: 1, Name: "Alice", Email: "alice@example.com", Role: model.RoleAdmin}

func TestGenerateAndValidateToken(t *testing.T) {
	secret := "test-secret-key"

	token, err := GenerateToken(secret, alice)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	id := claims.Identity()
	if id.UserID != 1 || id.Name != "Alice" || id.Email != "alice@example.com" || id.Role != model.RoleAdmin {
		t.Errorf("unexpected identity %+v", id)
	}
	if claims.Subject != "alice@example.com" {
		t.Errorf("expected subject to be the email, got %q", claims.Subject)
	}
	if claims.ID == "" {
		t.Error("expected a JTI")
	}
}

func TestTokensHaveUniqueJTI(t *testing.T) {
	a, _ := GenerateToken("s", alice)
	b, _ := GenerateToken("s", alice)
	ca, _ := ValidateToken("s", a)
	cb, _ := ValidateToken("s", b)
	if ca.ID == cb.ID {
		t.Error("expected distinct JTIs")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _ := GenerateToken("secret1", alice)

	if _, err := ValidateToken("secret2", token); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestValidateTokenInvalid(t *testing.T) {
	if _, err := ValidateToken("secret", "not-a-token"); err == nil {
		t.Error("expected error for invalid token")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	claims := Claims{
		Name: "Alice",
		Role: model.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s"))

	if _, err := ValidateToken("s", token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestValidateTokenWithoutExpiry(t *testing.T) {
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Name: "Alice"}).SignedString([]byte("s"))

	if _, err := ValidateToken("s", token); err == nil {
		t.Error("expected error for token without expiry")
	}
}

func TestTokenExpiry(t *testing.T) {
	token, _ := GenerateToken("test", alice)
	claims, _ := ValidateToken("test", token)

	diff := time.Now().Add(TokenExpiry).Sub(claims.ExpiresAt.Time)
	if diff < -5*time.Second || diff > 5*time.Second {
		t.Errorf("token expiry too far from expected: diff=%v", diff)
	}
}
