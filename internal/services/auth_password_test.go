package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"iptvsite/internal/apperr"
	"iptvsite/internal/utils"
)

type passwordFixture struct {
	svc    *PasswordService
	admins *mockAdminRepo
	resets *mockResetRepo
	mail   *mockMailer
	clock  *clock
}

func newPasswordFixture(t *testing.T, allowDefault bool) *passwordFixture {
	t.Helper()
	admins := newMockAdminRepo()
	hash, err := utils.HashPassword("oldpass123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	admins.add("admin@site.com", hash)

	clk := newClock()
	resets := &mockResetRepo{admins: admins, now: clk.Now}
	mail := &mockMailer{}
	svc := NewPasswordService(admins, resets, mail, PasswordServiceConfig{
		FrontendURL:          "https://iptv.example",
		OTPTTL:               10 * time.Minute,
		TokenTTL:             time.Hour,
		DefaultAdminEmail:    "admin@site.com",
		DefaultAdminPassword: "admin123",
		AllowDefaultReset:    allowDefault,
	})
	svc.now = clk.Now
	return &passwordFixture{svc: svc, admins: admins, resets: resets, mail: mail, clock: clk}
}

func fixedCodes(codes ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		c := codes[i%len(codes)]
		i++
		return c, nil
	}
}

func TestGenerateOTPIsSixDigitsInRange(t *testing.T) {
	for i := 0; i < 2000; i++ {
		code, err := GenerateOTP()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q is not 6 digits", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil || n < 100000 || n > 999999 {
			t.Fatalf("code %q out of range", code)
		}
	}
}

func TestGenerateResetTokenIsUnique(t *testing.T) {
	a, _ := GenerateResetToken()
	b, _ := GenerateResetToken()
	if len(a) != 64 || a == b {
		t.Fatalf("tokens %q %q", a, b)
	}
}

func TestRequestOTPUnknownEmailLooksLikeSuccess(t *testing.T) {
	f := newPasswordFixture(t, false)
	if err := f.svc.RequestOTP(context.Background(), "ghost@site.com"); err != nil {
		t.Fatalf("unknown email: %v", err)
	}
	if len(f.mail.sent) != 0 || len(f.resets.rows) != 0 {
		t.Fatal("unknown email produced mail or a reset row")
	}
}

func TestOTPResetScenario(t *testing.T) {
	f := newPasswordFixture(t, false)
	f.svc.newOTP = fixedCodes("482913")
	ctx := context.Background()

	if err := f.svc.RequestOTP(ctx, "Admin@Site.com"); err != nil {
		t.Fatalf("request: %v", err)
	}
	if len(f.mail.sent) != 1 {
		t.Fatalf("sent %d mails", len(f.mail.sent))
	}
	m := f.mail.sent[0]
	if m.To != "admin@site.com" || m.Subject != "Password Reset Code" || !strings.Contains(m.Body, "482913") {
		t.Fatalf("unexpected mail: %+v", m)
	}

	err := f.svc.RedeemOTP(ctx, "admin@site.com", "000000", "brandnew123")
	if apperr.Message(err, "") != "Invalid or expired OTP code" {
		t.Fatalf("wrong code: %v", err)
	}

	if err := f.svc.RedeemOTP(ctx, "admin@site.com", "482913", "brandnew123"); err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if !utils.CheckPassword(f.admins.admins[1].PasswordHash, "brandnew123") {
		t.Fatal("password not updated")
	}

	err = f.svc.RedeemOTP(ctx, "admin@site.com", "482913", "another123")
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("second redemption: %v", err)
	}
}

func TestOTPGoesToPersonalEmail(t *testing.T) {
	f := newPasswordFixture(t, false)
	personal := "owner@home.net"
	f.admins.admins[1].PersonalEmail = &personal

	if err := f.svc.RequestOTP(context.Background(), "admin@site.com"); err != nil {
		t.Fatalf("request: %v", err)
	}
	if f.mail.sent[0].To != personal {
		t.Fatalf("mail sent to %q", f.mail.sent[0].To)
	}
}

func TestNewOTPReplacesPrevious(t *testing.T) {
	f := newPasswordFixture(t, false)
	f.svc.newOTP = fixedCodes("111111", "222222")
	ctx := context.Background()

	_ = f.svc.RequestOTP(ctx, "admin@site.com")
	_ = f.svc.RequestOTP(ctx, "admin@site.com")

	if err := f.svc.RedeemOTP(ctx, "admin@site.com", "111111", "brandnew123"); err == nil {
		t.Fatal("superseded code accepted")
	}
	if err := f.svc.RedeemOTP(ctx, "admin@site.com", "222222", "brandnew123"); err != nil {
		t.Fatalf("latest code: %v", err)
	}
}

func TestOTPExpiresAfterTenMinutes(t *testing.T) {
	f := newPasswordFixture(t, false)
	f.svc.newOTP = fixedCodes("654321")
	ctx := context.Background()

	_ = f.svc.RequestOTP(ctx, "admin@site.com")
	f.clock.Advance(10*time.Minute + time.Second)

	if err := f.svc.RedeemOTP(ctx, "admin@site.com", "654321", "brandnew123"); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expired code: %v", err)
	}
	if f.admins.passwordUpdates != 0 {
		t.Fatal("expired code changed the password")
	}
}

func TestRedeemOTPValidatesPasswordFirst(t *testing.T) {
	f := newPasswordFixture(t, false)
	f.svc.newOTP = fixedCodes("654321")
	ctx := context.Background()
	_ = f.svc.RequestOTP(ctx, "admin@site.com")

	if err := f.svc.RedeemOTP(ctx, "admin@site.com", "654321", "short"); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("short password: %v", err)
	}
	// code is still live
	if err := f.svc.RedeemOTP(ctx, "admin@site.com", "654321", "longenough1"); err != nil {
		t.Fatalf("redeem after rejected attempt: %v", err)
	}
}

func TestRequestOTPMailFailure(t *testing.T) {
	f := newPasswordFixture(t, false)
	f.mail.err = errors.New("dial tcp: refused")

	err := f.svc.RequestOTP(context.Background(), "admin@site.com")
	if apperr.KindOf(err) != apperr.KindServer {
		t.Fatalf("want server error, got %v", err)
	}
}

func TestTokenResetScenario(t *testing.T) {
	f := newPasswordFixture(t, false)
	f.svc.newToken = fixedCodes("deadbeef")
	ctx := context.Background()

	isDefault, err := f.svc.RequestTokenReset(ctx, "admin@site.com")
	if err != nil || isDefault {
		t.Fatalf("request: %v default=%v", err, isDefault)
	}
	if !strings.Contains(f.mail.sent[0].Body, "https://iptv.example/admin/reset-password?token=deadbeef") {
		t.Fatalf("reset link missing from mail:\n%s", f.mail.sent[0].Body)
	}

	email, err := f.svc.VerifyResetToken(ctx, "deadbeef")
	if err != nil || email != "admin@site.com" {
		t.Fatalf("verify: %q %v", email, err)
	}

	if err := f.svc.ResetWithToken(ctx, "deadbeef", "linkpass123"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := f.svc.VerifyResetToken(ctx, "deadbeef"); err == nil {
		t.Fatal("used token still verifies")
	}
	if err := f.svc.ResetWithToken(ctx, "deadbeef", "again12345"); err == nil {
		t.Fatal("used token redeemed twice")
	}
}

func TestTokenExpiresAfterAnHour(t *testing.T) {
	f := newPasswordFixture(t, false)
	f.svc.newToken = fixedCodes("cafe")
	ctx := context.Background()

	_, _ = f.svc.RequestTokenReset(ctx, "admin@site.com")
	f.clock.Advance(time.Hour + time.Second)
	if _, err := f.svc.VerifyResetToken(ctx, "cafe"); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expired token: %v", err)
	}
}

func TestDefaultResetOnlyWhenEnabled(t *testing.T) {
	ctx := context.Background()

	off := newPasswordFixture(t, false)
	isDefault, err := off.svc.RequestTokenReset(ctx, "admin@site.com")
	if err != nil || isDefault {
		t.Fatalf("disabled: default=%v err=%v", isDefault, err)
	}
	if utils.CheckPassword(off.admins.admins[1].PasswordHash, "admin123") {
		t.Fatal("default password applied while disabled")
	}

	on := newPasswordFixture(t, true)
	isDefault, err = on.svc.RequestTokenReset(ctx, "admin@site.com")
	if err != nil || !isDefault {
		t.Fatalf("enabled: default=%v err=%v", isDefault, err)
	}
	if !utils.CheckPassword(on.admins.admins[1].PasswordHash, "admin123") {
		t.Fatal("default password not applied")
	}
	if len(on.mail.sent) != 0 {
		t.Fatal("default reset should not send mail")
	}

	moved := newPasswordFixture(t, true)
	if err := moved.admins.UpdateEmail(ctx, 1, "owner@site.com"); err != nil {
		t.Fatal(err)
	}
	isDefault, err = moved.svc.RequestTokenReset(ctx, "admin@site.com")
	if err != nil || isDefault {
		t.Fatalf("default email no longer in use: default=%v err=%v", isDefault, err)
	}
	if utils.CheckPassword(moved.admins.admins[1].PasswordHash, "admin123") || len(moved.mail.sent) != 0 {
		t.Fatal("unknown default email must look like any unknown email")
	}
}

func TestVerifyResetTokenReportsCurrentEmail(t *testing.T) {
	ctx := context.Background()
	f := newPasswordFixture(t, false)
	f.svc.newToken = fixedCodes("feedface")

	if _, err := f.svc.RequestTokenReset(ctx, "admin@site.com"); err != nil {
		t.Fatal(err)
	}
	if err := f.admins.UpdateEmail(ctx, 1, "owner@site.com"); err != nil {
		t.Fatal(err)
	}
	email, err := f.svc.VerifyResetToken(ctx, "feedface")
	if err != nil || email != "owner@site.com" {
		t.Fatalf("verify: %q %v", email, err)
	}
}

func TestResetToDefaultCredentialsOnlyForDefaultEmail(t *testing.T) {
	f := newPasswordFixture(t, true)
	err := f.svc.ResetToDefaultCredentials(context.Background(), "someone@site.com")
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("want validation error, got %v", err)
	}
}
