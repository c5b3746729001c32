package services

import (
	"context"
	"testing"
	"time"

	"iptvsite/internal/apperr"
	"iptvsite/internal/utils"
)

const week = 7 * 24 * time.Hour

func newAuthFixture(t *testing.T) (*AuthService, *mockAdminRepo, *clock) {
	t.Helper()
	repo := newMockAdminRepo()
	hash, err := utils.HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo.add("admin@site.com", hash)

	clk := newClock()
	svc := NewAuthService(repo, "test-secret", week)
	svc.now = clk.Now
	return svc, repo, clk
}

func TestLoginIssuesSevenDaySession(t *testing.T) {
	svc, _, clk := newAuthFixture(t)
	ctx := context.Background()

	sess, err := svc.Login(ctx, "  Admin@Site.com ", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Admin.Email != "admin@site.com" || sess.Admin.ID != 1 {
		t.Fatalf("unexpected admin: %+v", sess.Admin)
	}
	if !sess.ExpiresAt.Equal(clk.Now().Add(week)) {
		t.Fatalf("expires at %v, want %v", sess.ExpiresAt, clk.Now().Add(week))
	}

	clk.Advance(week - time.Second)
	if _, ok := svc.CheckSession(ctx, sess.Token); !ok {
		t.Fatal("session rejected before expiry")
	}
	clk.Advance(2 * time.Second)
	if _, ok := svc.CheckSession(ctx, sess.Token); ok {
		t.Fatal("session accepted after expiry")
	}
}

func TestLoginFailureDoesNotRevealAccount(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, unknownErr := svc.Login(ctx, "nobody@site.com", "secret123")
	_, wrongErr := svc.Login(ctx, "admin@site.com", "wrong-password")
	if unknownErr == nil || wrongErr == nil {
		t.Fatal("expected both logins to fail")
	}
	if apperr.KindOf(unknownErr) != apperr.KindAuth || apperr.KindOf(wrongErr) != apperr.KindAuth {
		t.Fatalf("kinds: %v / %v", apperr.KindOf(unknownErr), apperr.KindOf(wrongErr))
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("messages differ: %q vs %q", unknownErr, wrongErr)
	}
}

func TestLoginRequiresBothFields(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	_, err := svc.Login(context.Background(), "", "x")
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestCheckSessionRejectsBadTokens(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, ok := svc.CheckSession(ctx, tok); ok {
			t.Fatalf("token %q accepted", tok)
		}
	}

	forged, _ := utils.GenerateToken("other-secret", 1, "admin@site.com", 1, svc.now(), week)
	if _, ok := svc.CheckSession(ctx, forged); ok {
		t.Fatal("token signed with another secret accepted")
	}
}

func TestChangePasswordValidatesBeforeWriting(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)
	ctx := context.Background()

	cases := []struct {
		name                  string
		current, next, repeat string
		kind                  apperr.Kind
	}{
		{"missing field", "", "newpass123", "newpass123", apperr.KindValidation},
		{"too short", "secret123", "short", "short", apperr.KindValidation},
		{"mismatch", "secret123", "newpass123", "newpass124", apperr.KindValidation},
		{"wrong current", "nope-nope", "newpass123", "newpass123", apperr.KindAuth},
	}
	for _, tc := range cases {
		err := svc.ChangePassword(ctx, 1, tc.current, tc.next, tc.repeat)
		if apperr.KindOf(err) != tc.kind {
			t.Fatalf("%s: got %v", tc.name, err)
		}
	}
	if repo.passwordUpdates != 0 {
		t.Fatalf("password written %d times on invalid input", repo.passwordUpdates)
	}
}

func TestChangePasswordEndsOldSessions(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	old, err := svc.Login(ctx, "admin@site.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.ChangePassword(ctx, 1, "secret123", "newpass123", "newpass123"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if _, ok := svc.CheckSession(ctx, old.Token); ok {
		t.Fatal("session from before the change still valid")
	}

	fresh, err := svc.Reissue(ctx, 1)
	if err != nil {
		t.Fatalf("reissue: %v", err)
	}
	if _, ok := svc.CheckSession(ctx, fresh.Token); !ok {
		t.Fatal("reissued session rejected")
	}
	if _, err := svc.Login(ctx, "admin@site.com", "newpass123"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestUpdateLoginEmail(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)
	ctx := context.Background()
	repo.add("other@site.com", repo.admins[1].PasswordHash)

	if _, err := svc.UpdateLoginEmail(ctx, 1, "other@site.com", "secret123"); apperr.Message(err, "") != "Email already in use" {
		t.Fatalf("duplicate email: %v", err)
	}
	if _, err := svc.UpdateLoginEmail(ctx, 1, "not-an-email", "secret123"); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("bad format: %v", err)
	}

	got, err := svc.UpdateLoginEmail(ctx, 1, " New@Site.com", "secret123")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got != "new@site.com" || repo.admins[1].Email != "new@site.com" {
		t.Fatalf("email not stored normalized: %q / %q", got, repo.admins[1].Email)
	}
}

func TestUpdatePersonalEmailSetAndClear(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)
	ctx := context.Background()

	v, err := svc.UpdatePersonalEmail(ctx, 1, "me@home.net")
	if err != nil || v == nil || *v != "me@home.net" {
		t.Fatalf("set: %v %v", v, err)
	}
	if repo.admins[1].RecoveryAddress() != "me@home.net" {
		t.Fatalf("recovery address = %q", repo.admins[1].RecoveryAddress())
	}

	v, err = svc.UpdatePersonalEmail(ctx, 1, "")
	if err != nil || v != nil {
		t.Fatalf("clear: %v %v", v, err)
	}
	if repo.admins[1].RecoveryAddress() != "admin@site.com" {
		t.Fatalf("recovery address after clear = %q", repo.admins[1].RecoveryAddress())
	}
}

func TestCreateAdminRejectsDuplicate(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	_, err := svc.CreateAdmin(context.Background(), "admin@site.com", "whatever123")
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("want validation error, got %v", err)
	}
}
