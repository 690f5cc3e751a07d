package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := "test-secret"
	claims := Claims{UserID: "u1", RoleID: "r1", RoleName: RoleHR}

	token, err := GenerateToken(secret, claims, time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	parsed, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if parsed.UserID != "u1" || parsed.RoleName != RoleHR {
		t.Fatalf("unexpected claims: %+v", parsed)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret-a", Claims{UserID: "u1"}, time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := ParseToken("secret-b", token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "u1"}, -time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := ParseToken("secret", token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Password123!")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := CheckPassword(hash, "Password123!"); err != nil {
		t.Fatalf("check password: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestEveryRolePermissionIsInCatalog(t *testing.T) {
	known := map[string]bool{}
	for _, perm := range DefaultPermissions {
		known[perm] = true
	}
	for role, perms := range RolePermissions {
		for _, perm := range perms {
			if !known[perm] {
				t.Fatalf("role %s grants unknown permission %s", role, perm)
			}
		}
	}
}
