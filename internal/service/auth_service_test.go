package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"quizmaster/internal/auth"
	"quizmaster/internal/dto"
	"quizmaster/internal/model"
	"quizmaster/internal/repository"
)

func newAuthService(t *testing.T, db *gorm.DB, ttl time.Duration) AuthService {
	t.Helper()
	return NewAuthService(repository.NewUserRepository(db), repository.NewSessionRepository(db), ttl)
}

func registerReq(username string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Name:          "Test User",
		Username:      username,
		Password:      "s3cret-pw",
		DOB:           "2004-05-01",
		Qualification: "high school",
		Role:          "student",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db, 2*time.Hour)

	user, err := svc.Register(registerReq("alice"))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Username != "alice" || user.Role != "student" {
		t.Errorf("unexpected registration response: %+v", user)
	}

	// Stored credential must be hashed, never the raw password.
	var stored model.User
	if err := db.Where("username = ?", "alice").First(&stored).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if stored.PasswordHash == "s3cret-pw" {
		t.Error("password stored in plaintext")
	}

	token, resp, err := svc.Login(dto.LoginRequest{Username: "alice", Password: "s3cret-pw", Role: "student"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Error("empty session token")
	}
	if resp.RedirectTo != "/userdash/alice" {
		t.Errorf("unexpected redirect %q", resp.RedirectTo)
	}

	identity, err := svc.Resolve(token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if identity == nil {
		t.Fatal("session token did not resolve")
	}
	if identity.UserID != stored.ID || identity.Role != auth.RoleStudent {
		t.Errorf("unexpected identity: %+v", identity)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db, 2*time.Hour)

	if _, err := svc.Register(registerReq("bob")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(registerReq("bob")); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db, 2*time.Hour)

	if _, err := svc.Register(registerReq("carol")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	cases := []struct {
		name string
		req  dto.LoginRequest
	}{
		{"wrong password", dto.LoginRequest{Username: "carol", Password: "nope", Role: "student"}},
		{"wrong role", dto.LoginRequest{Username: "carol", Password: "s3cret-pw", Role: "admin"}},
		{"unknown user", dto.LoginRequest{Username: "ghost", Password: "s3cret-pw", Role: "student"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := svc.Login(tc.req); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestLoginAdminRedirect(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db, 2*time.Hour)

	req := registerReq("root")
	req.Role = "admin"
	if _, err := svc.Register(req); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, resp, err := svc.Login(dto.LoginRequest{Username: "root", Password: "s3cret-pw", Role: "admin"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.RedirectTo != "/admin/root" {
		t.Errorf("unexpected redirect %q", resp.RedirectTo)
	}
}

func TestLegacyPlaintextLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db, 2*time.Hour)

	// Rows imported from the old system carry the raw password.
	legacy := model.User{
		Name:          "Legacy",
		Username:      "legacy",
		PasswordHash:  "oldpassword",
		DOB:           time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Qualification: "none",
		Role:          auth.RoleStudent,
	}
	if err := db.Create(&legacy).Error; err != nil {
		t.Fatalf("seed legacy user: %v", err)
	}

	if _, _, err := svc.Login(dto.LoginRequest{Username: "legacy", Password: "oldpassword", Role: "student"}); err != nil {
		t.Fatalf("legacy login: %v", err)
	}

	// First successful login upgrades the stored credential.
	var upgraded model.User
	if err := db.First(&upgraded, legacy.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if !strings.HasPrefix(upgraded.PasswordHash, "pbkdf2:") {
		t.Errorf("legacy password not rehashed: %q", upgraded.PasswordHash)
	}

	// And the rehashed credential still verifies.
	if _, _, err := svc.Login(dto.LoginRequest{Username: "legacy", Password: "oldpassword", Role: "student"}); err != nil {
		t.Errorf("login after rehash: %v", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db, -time.Minute) // sessions are born expired

	if _, err := svc.Register(registerReq("dave")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, _, err := svc.Login(dto.LoginRequest{Username: "dave", Password: "s3cret-pw", Role: "student"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	identity, err := svc.Resolve(token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if identity != nil {
		t.Error("expired session resolved to an identity")
	}

	// Expired sessions are deleted on read.
	var count int64
	if err := db.Model(&model.Session{}).Where("token = ?", token).Count(&count).Error; err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	if count != 0 {
		t.Error("expired session row not deleted")
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db, 2*time.Hour)

	if _, err := svc.Register(registerReq("erin")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, _, err := svc.Login(dto.LoginRequest{Username: "erin", Password: "s3cret-pw", Role: "student"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.Logout(token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	identity, err := svc.Resolve(token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if identity != nil {
		t.Error("session survived logout")
	}
}

func TestResolveEmptyToken(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db, 2*time.Hour)

	identity, err := svc.Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if identity != nil {
		t.Error("empty token resolved to an identity")
	}
}
