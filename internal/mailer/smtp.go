package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/samber/oops"
	"github.com/sbilibin2017/lms-accounts/internal/logger"
	"github.com/sbilibin2017/lms-accounts/internal/models"
)

// SMTPMailer delivers email through an SMTP relay. STARTTLS and AUTH PLAIN
// are used when the server advertises them.
type SMTPMailer struct {
	host     string
	addr     string
	username string
	password string
	timeout  time.Duration
	now      func() time.Time
}

func NewSMTPMailer(host string, port int, username, password string, timeout time.Duration) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		username: username,
		password: password,
		timeout:  timeout,
		now:      time.Now,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, email models.Email) error {
	if len(email.To) == 0 {
		return errors.New("email has no recipients")
	}

	errb := oops.In("mailer").Code("SMTP_SEND_FAILED").With("addr", m.addr)

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", m.addr)
	if err != nil {
		return errb.Wrap(err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return errb.Wrap(err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return errb.Wrap(err)
		}
	}
	if m.username != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(smtp.PlainAuth("", m.username, m.password, m.host)); err != nil {
				return errb.Wrap(err)
			}
		}
	}

	if err := c.Mail(email.From); err != nil {
		return errb.Wrap(err)
	}
	for _, rcpt := range email.To {
		if err := c.Rcpt(rcpt); err != nil {
			return errb.With("rcpt", rcpt).Wrap(err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return errb.Wrap(err)
	}
	if _, err := w.Write(m.buildMessage(email)); err != nil {
		return errb.Wrap(err)
	}
	if err := w.Close(); err != nil {
		return errb.Wrap(err)
	}

	logger.Log.Infow("email sent", "to", email.To, "subject", email.Subject, "transport", "smtp")
	return c.Quit()
}

func (m *SMTPMailer) Close() error { return nil }

func (m *SMTPMailer) buildMessage(email models.Email) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", email.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(email.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", email.Subject)
	fmt.Fprintf(&b, "Date: %s\r\n", m.now().UTC().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(email.Body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}
