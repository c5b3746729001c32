package helpers

import (
	"fmt"
	"html"
)

func BuildSimpleHTML(title, body string) string {
	return fmt.Sprintf(`
<html>
  <body style="font-family:Arial,sans-serif; background:#f9f9f9;">
    <table width="100%%" cellpadding="0" cellspacing="0" bgcolor="#f9f9f9">
      <tr>
        <td align="center" style="padding:32px 0;">
          <table width="500" bgcolor="#fff" cellpadding="24" cellspacing="0" style="border-radius:8px; box-shadow:0 1px 6px #eee;">
            <tr>
              <td>
                <h2 style="color:#e50914; margin-top:0;">%s</h2>
                <div style="font-size:16px; color:#222;">%s</div>
                <hr style="margin:32px 0 16px 0; border:0; border-top:1px solid #eee;">
                <div style="font-size:12px; color:#999;">This is an automated message. Please do not reply.</div>
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>
`, html.EscapeString(title), body)
}

// BuildOTPHTML renders the one-time code email.
func BuildOTPHTML(code string, validMinutes int) string {
	body := fmt.Sprintf(`
<p>You requested to reset the admin password.</p>
<p>Your verification code is:</p>
<p style="font-size:32px; font-weight:bold; letter-spacing:8px; color:#111;">%s</p>
<p style="font-size:14px; color:#666;">This code expires in %d minutes.</p>
<p style="font-size:14px; color:#666;">If you did not request a password reset, ignore this email.</p>`,
		html.EscapeString(code), validMinutes)
	return BuildSimpleHTML("Password Reset Code", body)
}

// BuildPasswordResetHTML renders the link-based recovery email.
func BuildPasswordResetHTML(resetLink string, validMinutes int) string {
	link := html.EscapeString(resetLink)
	body := fmt.Sprintf(`
<p>You requested to reset the admin password.</p>
<p>Click the button below to choose a new password:</p>
<p>
  <a href="%s" style="display:inline-block;padding:12px 24px;background:#e50914;color:#fff;text-decoration:none;border-radius:5px;font-weight:bold;">
    Reset Password
  </a>
</p>
<p style="font-size:13px; color:#666;">Or paste this link into your browser: %s</p>
<p style="font-size:14px; color:#666;">The link is valid for %d minutes.</p>
<p style="font-size:14px; color:#666;">If you did not request a password reset, ignore this email.</p>`,
		link, link, validMinutes)
	return BuildSimpleHTML("Password Recovery", body)
}
