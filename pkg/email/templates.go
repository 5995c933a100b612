package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"time"

	"github.com/akinalp/eihracat/pkg/i18n"
)

var layout = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1.0"></head>
<body style="margin:0;padding:0;background-color:#f1f5f9;font-family:Arial,Helvetica,sans-serif;">
  <table width="100%" cellpadding="0" cellspacing="0" style="padding:32px 0;">
    <tr><td align="center">
      <table width="520" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;padding:32px;">
        <tr><td>
          <p style="color:#0f766e;font-size:14px;font-weight:700;margin:0 0 8px 0;">{{.Brand}}</p>
          <h2 style="color:#0f172a;font-size:20px;margin:0 0 20px 0;">{{.Heading}}</h2>
          {{range .Paragraphs}}<p style="color:#334155;font-size:15px;line-height:1.6;margin:0 0 16px 0;white-space:pre-line;">{{.}}</p>
          {{end}}{{if .ButtonURL}}<p style="margin:24px 0;"><a href="{{.ButtonURL}}" style="background-color:#0f766e;color:#ffffff;text-decoration:none;padding:12px 28px;border-radius:6px;font-weight:600;">{{.ButtonText}}</a></p>
          <p style="color:#64748b;font-size:12px;word-break:break-all;margin:0 0 16px 0;">{{.ButtonURL}}</p>
          {{end}}{{range .Footnotes}}<p style="color:#64748b;font-size:13px;line-height:1.6;margin:0 0 8px 0;">{{.}}</p>
          {{end}}
        </td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`))

type page struct {
	Brand      string
	Heading    string
	Paragraphs []string
	ButtonURL  string
	ButtonText string
	Footnotes  []string
}

func render(p page) string {
	var buf bytes.Buffer
	if err := layout.Execute(&buf, p); err != nil {
		// Şablon sabit ve alanlar string; buraya düşmemeli.
		return fmt.Sprintf("<p>%s</p>", template.HTMLEscapeString(p.Heading))
	}
	return buf.String()
}

// PasswordReset, sıfırlama bağlantısı içeren e-posta.
// Token bağlantıda düz metin bulunur; DB'de sadece SHA-256 hash'i saklanır.
func (c *Composer) PasswordReset(lang, to, token string, ttl time.Duration) Message {
	link := c.appURL + "/reset-password?token=" + url.QueryEscape(token)
	minutes := strconv.Itoa(int(ttl.Minutes()))

	return Message{
		To:      to,
		Subject: c.catalog.T(lang, "email.reset.subject"),
		HTML: render(page{
			Brand:      c.catalog.T(lang, brandKey),
			Heading:    c.catalog.T(lang, "email.reset.heading"),
			Paragraphs: []string{c.catalog.T(lang, "email.reset.body")},
			ButtonURL:  link,
			ButtonText: c.catalog.T(lang, "email.reset.button"),
			Footnotes:  []string{c.catalog.TParams(lang, "email.reset.expiry", map[string]string{"minutes": minutes})},
		}),
	}
}

// Welcome, kayıt veya admin tarafından oluşturulan hesap için hoş geldin e-postası.
// setPasswordToken doluysa buton giriş sayfası yerine şifre belirleme bağlantısına gider.
func (c *Composer) Welcome(lang, to, name, setPasswordToken string) Message {
	button := c.appURL + "/login"
	if setPasswordToken != "" {
		button = c.appURL + "/reset-password?token=" + url.QueryEscape(setPasswordToken)
	}

	return Message{
		To:      to,
		Subject: c.catalog.T(lang, "email.welcome.subject"),
		HTML: render(page{
			Brand:      c.catalog.T(lang, brandKey),
			Heading:    c.catalog.TParams(lang, "email.welcome.heading", map[string]string{"name": name}),
			Paragraphs: []string{c.catalog.T(lang, "email.welcome.body")},
			ButtonURL:  button,
			ButtonText: c.catalog.T(lang, "email.welcome.button"),
		}),
	}
}

// ContactNotification, admin gelen kutusuna her zaman varsayılan dilde gider.
func (c *Composer) ContactNotification(to string, n ContactNotice) Message {
	lang := i18n.DefaultLanguage
	details := fmt.Sprintf("%s <%s>", n.Name, n.Email)
	if n.Company != "" {
		details += "\n" + n.Company
	}
	if n.Phone != "" {
		details += "\n" + n.Phone
	}

	paragraphs := []string{details}
	if n.Subject != "" {
		paragraphs = append(paragraphs, n.Subject)
	}
	paragraphs = append(paragraphs, n.Message)

	return Message{
		To:      to,
		Subject: c.catalog.TParams(lang, "email.contact.subject", map[string]string{"name": n.Name}),
		HTML: render(page{
			Brand:      c.catalog.T(lang, brandKey),
			Heading:    c.catalog.T(lang, "email.contact.heading"),
			Paragraphs: paragraphs,
		}),
	}
}

// AppointmentUpdate, randevu talebinin yeni durumunu talep sahibine bildirir.
func (c *Composer) AppointmentUpdate(lang, to string, n AppointmentNotice) Message {
	status := c.catalog.T(lang, "email.status."+n.Status)

	var paragraphs []string
	if n.ScheduledAt != nil {
		date := n.ScheduledAt.In(istanbul).Format("02.01.2006 15:04")
		paragraphs = append(paragraphs, c.catalog.TParams(lang, "email.appointment.scheduled", map[string]string{"date": date}))
	}
	if n.Note != "" {
		paragraphs = append(paragraphs, c.catalog.TParams(lang, "email.appointment.note", map[string]string{"note": n.Note}))
	}

	return Message{
		To:      to,
		Subject: c.catalog.TParams(lang, "email.appointment.subject", map[string]string{"subject": n.Subject}),
		HTML: render(page{
			Brand:      c.catalog.T(lang, brandKey),
			Heading:    c.catalog.TParams(lang, "email.appointment.heading", map[string]string{"status": status}),
			Paragraphs: paragraphs,
			ButtonURL:  c.appURL + "/appointments",
			ButtonText: c.catalog.T(lang, brandKey),
		}),
	}
}

// istanbul, randevu saatlerinin gösterildiği saat dilimi.
// tzdata yoksa sabit +03:00 kullanılır.
var istanbul = func() *time.Location {
	if loc, err := time.LoadLocation("Europe/Istanbul"); err == nil {
		return loc
	}
	return time.FixedZone("TRT", 3*60*60)
}()
