package notifier

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"os"
	"strings"
	"time"
)

const defaultSMTPAddr = "smtp.gmail.com:587"

// Mailer sends the caregiver alert mail over SMTP with STARTTLS. Every
// network step runs under one bounded deadline; a slow mail server must
// surface as a notifier failure, never hang the invocation.
type Mailer struct {
	Addr     string
	Sender   string
	Password string
	Receiver string
	Timeout  time.Duration
	Logger   *slog.Logger
}

func NewMailer(logger *slog.Logger) (*Mailer, error) {
	sender := os.Getenv("EMAIL_SENDER")
	password := os.Getenv("EMAIL_PASSWORD")
	receiver := os.Getenv("EMAIL_RECEIVER")
	if sender == "" || password == "" || receiver == "" {
		return nil, fmt.Errorf("EMAIL_SENDER, EMAIL_PASSWORD and EMAIL_RECEIVER must be set")
	}

	addr := os.Getenv("SMTP_ADDR")
	if addr == "" {
		addr = defaultSMTPAddr
	}

	return &Mailer{
		Addr:     addr,
		Sender:   sender,
		Password: password,
		Receiver: receiver,
		Timeout:  10 * time.Second,
		Logger:   logger,
	}, nil
}

// Send delivers one alert mail carrying the sensor snapshot.
func (m *Mailer) Send(ctx context.Context, subject, reason string, snapshot map[string]interface{}) error {
	host, _, err := net.SplitHostPort(m.Addr)
	if err != nil {
		return fmt.Errorf("invalid SMTP_ADDR %q: %w", m.Addr, err)
	}

	dialer := net.Dialer{Timeout: m.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", m.Addr)
	if err != nil {
		return fmt.Errorf("smtp dial failed: %w", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(m.Timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return fmt.Errorf("smtp deadline: %w", err)
	}

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return fmt.Errorf("smtp handshake failed: %w", err)
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return fmt.Errorf("smtp starttls failed: %w", err)
	}
	if err := client.Auth(smtp.PlainAuth("", m.Sender, m.Password, host)); err != nil {
		return fmt.Errorf("smtp auth failed: %w", err)
	}
	if err := client.Mail(m.Sender); err != nil {
		return fmt.Errorf("smtp mail from failed: %w", err)
	}
	if err := client.Rcpt(m.Receiver); err != nil {
		return fmt.Errorf("smtp rcpt failed: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data failed: %w", err)
	}
	if _, err := writer.Write([]byte(m.message(subject, reason, snapshot))); err != nil {
		return fmt.Errorf("smtp body write failed: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("smtp body close failed: %w", err)
	}

	if err := client.Quit(); err != nil {
		m.Logger.Warn("SMTP quit failed after delivery", "error", err)
	}

	m.Logger.Info("Alert email sent", "receiver", m.Receiver, "subject", subject)
	return nil
}

func (m *Mailer) message(subject, reason string, snapshot map[string]interface{}) string {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", m.Sender)
	fmt.Fprintf(&b, "To: %s\r\n", m.Receiver)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")

	b.WriteString("<html>\n<body>\n")
	b.WriteString("<h2>건강 이상 감지 알림</h2>\n")
	fmt.Fprintf(&b, "<p><strong>발생 시간:</strong> %v</p>\n", snapshotValue(snapshot, "timestamp", "알 수 없음"))
	fmt.Fprintf(&b, "<p><strong>이상 징후:</strong> %s</p>\n", reason)
	b.WriteString("<hr>\n<h3>센서 데이터</h3>\n<ul>\n")
	fmt.Fprintf(&b, "<li>온도: %v°C</li>\n", snapshotValue(snapshot, "temperature", "N/A"))
	fmt.Fprintf(&b, "<li>습도: %v%%</li>\n", snapshotValue(snapshot, "humidity", "N/A"))
	fmt.Fprintf(&b, "<li>가스 상태: %v</li>\n", snapshotValue(snapshot, "gas_detected", "N/A"))
	b.WriteString("</ul>\n</body>\n</html>\n")

	return b.String()
}

func snapshotValue(snapshot map[string]interface{}, key, fallback string) interface{} {
	if snapshot == nil {
		return fallback
	}
	if v, ok := snapshot[key]; ok && v != nil {
		return v
	}
	return fallback
}
