// Package email, platformdan giden e-postaları (şifre sıfırlama, hoş geldin,
// iletişim formu bildirimi, randevu güncellemesi) üretir ve gönderir.
//
// Servisler Sender interface'ine bağımlıdır. RESEND_API_KEY tanımlıysa Resend
// implementasyonu, değilse sadece log'a yazan implementasyon kullanılır.
package email

import (
	"context"
	"fmt"
	"time"

	"github.com/resend/resend-go/v3"
	"go.uber.org/zap"

	"github.com/akinalp/eihracat/pkg/i18n"
)

// ContactNotice, admin gelen kutusuna iletilen iletişim formu mesajı.
type ContactNotice struct {
	Name    string
	Email   string
	Company string
	Phone   string
	Subject string
	Message string
}

// AppointmentNotice, talep sahibine gönderilen randevu durum bilgisi.
type AppointmentNotice struct {
	Subject     string
	Status      string
	ScheduledAt *time.Time
	Note        string
}

// Sender, servislerin kullandığı e-posta gönderim interface'i.
type Sender interface {
	SendPasswordReset(ctx context.Context, lang, to, token string, ttl time.Duration) error
	SendWelcome(ctx context.Context, lang, to, name, setPasswordToken string) error
	SendContactNotification(ctx context.Context, to string, notice ContactNotice) error
	SendAppointmentUpdate(ctx context.Context, lang, to string, notice AppointmentNotice) error
}

// Message, gönderime hazır e-posta.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// transport, hazır mesajı iletir. Resend ve log implementasyonları bunu karşılar.
type transport interface {
	deliver(ctx context.Context, msg Message) error
}

// mailer, içerik üretimini (composer) taşıma katmanından ayırır.
type mailer struct {
	composer *Composer
	t        transport
}

// NewResendSender, Resend API üzerinden gönderen Sender döner.
func NewResendSender(apiKey, from string, composer *Composer) Sender {
	return &mailer{
		composer: composer,
		t:        &resendTransport{client: resend.NewClient(apiKey), from: from},
	}
}

// NewLogSender, e-postaları göndermeyip log'a yazan Sender döner.
// Geliştirme ortamında ve API key tanımlı değilken kullanılır.
func NewLogSender(log *zap.Logger, composer *Composer) Sender {
	return &mailer{composer: composer, t: &logTransport{log: log}}
}

func (m *mailer) SendPasswordReset(ctx context.Context, lang, to, token string, ttl time.Duration) error {
	return m.t.deliver(ctx, m.composer.PasswordReset(lang, to, token, ttl))
}

func (m *mailer) SendWelcome(ctx context.Context, lang, to, name, setPasswordToken string) error {
	return m.t.deliver(ctx, m.composer.Welcome(lang, to, name, setPasswordToken))
}

func (m *mailer) SendContactNotification(ctx context.Context, to string, notice ContactNotice) error {
	if to == "" {
		return nil
	}
	return m.t.deliver(ctx, m.composer.ContactNotification(to, notice))
}

func (m *mailer) SendAppointmentUpdate(ctx context.Context, lang, to string, notice AppointmentNotice) error {
	return m.t.deliver(ctx, m.composer.AppointmentUpdate(lang, to, notice))
}

type resendTransport struct {
	client *resend.Client
	from   string
}

func (r *resendTransport) deliver(ctx context.Context, msg Message) error {
	_, err := r.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    r.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("failed to send email %q: %w", msg.Subject, err)
	}
	return nil
}

type logTransport struct {
	log *zap.Logger
}

func (l *logTransport) deliver(_ context.Context, msg Message) error {
	l.log.Info("email not sent (no provider configured)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}

// brandKey, şablonlarda kullanılan marka adı anahtarı.
const brandKey = "email.brand"

// Composer, çeviri kataloğu ve uygulama URL'i ile e-posta içeriklerini üretir.
type Composer struct {
	catalog *i18n.Catalog
	appURL  string
}

// NewComposer, Composer oluşturur. appURL sonundaki "/" olmadan verilmelidir.
func NewComposer(catalog *i18n.Catalog, appURL string) *Composer {
	return &Composer{catalog: catalog, appURL: appURL}
}
