package auth

import (
	"testing"
	"time"
)

const (
	testSecret   = "test-secret-key-for-jwt-signing"
	testIssuer   = "service-request-manager"
	testAudience = "service-request-clients"
)

func newTestManager(ttl time.Duration) *TokenManager {
	return NewTokenManager(testSecret, testIssuer, testAudience, ttl)
}

func TestIssueAndValidate(t *testing.T) {
	tm := newTestManager(30 * time.Minute)

	token, expiresAt, err := tm.Issue("testuser")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty token")
	}

	claims, err := tm.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if claims.Subject != "testuser" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "testuser")
	}
	if claims.ID == "" {
		t.Error("jti (ID) should not be empty")
	}
	if claims.Issuer != testIssuer {
		t.Errorf("Issuer = %q, want %q", claims.Issuer, testIssuer)
	}

	// Expiry is exactly issuance time plus the TTL.
	got := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if got != 30*time.Minute {
		t.Errorf("expiry - issuance = %v, want %v", got, 30*time.Minute)
	}
	if !claims.ExpiresAt.Time.Equal(expiresAt.Truncate(time.Second)) {
		t.Errorf("ExpiresAt claim = %v, want %v", claims.ExpiresAt.Time, expiresAt.Truncate(time.Second))
	}
}

func TestIssue_UniqueTokenIDs(t *testing.T) {
	tm := newTestManager(30 * time.Minute)

	first, _, err := tm.Issue("testuser")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	second, _, err := tm.Issue("testuser")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	firstClaims, err := tm.Validate(first)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	secondClaims, err := tm.Validate(second)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if firstClaims.ID == secondClaims.ID {
		t.Error("two issued tokens should carry distinct jti values")
	}
}

func TestValidate_WrongKey(t *testing.T) {
	tm := newTestManager(30 * time.Minute)
	other := NewTokenManager("a-different-secret", testIssuer, testAudience, 30*time.Minute)

	token, _, err := other.Issue("testuser")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := tm.Validate(token); err == nil {
		t.Error("Validate() should reject a token signed with a different key")
	}
}

func TestValidate_WrongIssuerOrAudience(t *testing.T) {
	tm := newTestManager(30 * time.Minute)

	tests := []struct {
		name  string
		other *TokenManager
	}{
		{"wrong issuer", NewTokenManager(testSecret, "someone-else", testAudience, 30*time.Minute)},
		{"wrong audience", NewTokenManager(testSecret, testIssuer, "other-clients", 30*time.Minute)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, _, err := tt.other.Issue("testuser")
			if err != nil {
				t.Fatalf("Issue() error = %v", err)
			}
			if _, err := tm.Validate(token); err == nil {
				t.Error("Validate() should reject the token")
			}
		})
	}
}

func TestValidate_Expired(t *testing.T) {
	expired := newTestManager(-time.Minute)

	token, _, err := expired.Issue("testuser")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tm := newTestManager(30 * time.Minute)
	if _, err := tm.Validate(token); err == nil {
		t.Error("Validate() should reject an expired token regardless of claim content")
	}
}

func TestValidate_Garbage(t *testing.T) {
	tm := newTestManager(30 * time.Minute)
	if _, err := tm.Validate("not-a-jwt"); err == nil {
		t.Error("Validate() should reject malformed input")
	}
}
