package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"finanzo/internal/core"
)

func TestPasswordHashing(t *testing.T) {
	svc := NewService("test-secret-at-least-16b", time.Hour)

	hash, err := svc.HashPassword("s3nh4forte")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := svc.CheckPassword(hash, "s3nh4forte"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := svc.CheckPassword(hash, "wrong"); !errors.Is(err, core.ErrNotAuthenticated) {
		t.Errorf("wrong password: got %v, want ErrNotAuthenticated", err)
	}

	if _, err := svc.HashPassword("short"); err == nil {
		t.Error("short password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewService("test-secret-at-least-16b", time.Hour)

	token, err := svc.IssueToken("user-1", "a@b.com")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	userID, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("user id = %s, want user-1", userID)
	}
}

func TestParseTokenFailures(t *testing.T) {
	svc := NewService("test-secret-at-least-16b", time.Hour)
	other := NewService("another-secret-16-bytes", time.Hour)

	goodToken, _ := other.IssueToken("user-1", "a@b.com")
	expiredSvc := NewService("test-secret-at-least-16b", -time.Hour)
	expiredToken, _ := expiredSvc.IssueToken("user-1", "a@b.com")

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"empty", ""},
		{"wrong key", goodToken},
		{"expired", expiredToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ParseToken(tt.token); !errors.Is(err, core.ErrNotAuthenticated) {
				t.Errorf("got %v, want ErrNotAuthenticated", err)
			}
		})
	}
}

func TestFromBearerHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"missing prefix", "abc.def.ghi", "", true},
		{"empty", "", "", true},
		{"prefix only", "Bearer ", "", true},
		{"lowercase prefix", "bearer abc", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromBearerHeader(tt.header)
			if tt.wantErr {
				if !errors.Is(err, core.ErrNotAuthenticated) {
					t.Errorf("got %v, want ErrNotAuthenticated", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("token = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserIDContext(t *testing.T) {
	ctx := WithUserID(context.Background(), "user-9")
	id, err := UserID(ctx)
	if err != nil || id != "user-9" {
		t.Errorf("UserID = %q, %v", id, err)
	}

	if _, err := UserID(context.Background()); !errors.Is(err, core.ErrNotAuthenticated) {
		t.Errorf("bare context: got %v, want ErrNotAuthenticated", err)
	}
}
