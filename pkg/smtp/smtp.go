package smtp

import (
	"ScheduleSync/internal/entity"
	"context"
	"fmt"
	smtpPkg "net/smtp"
	"strings"
	"time"
)

// INotifier mails the address named by a send_notification rule when a booking is created.
type INotifier interface {
	SendBookingNotification(ctx context.Context, to string, booking entity.Booking) error
}

type Config struct {
	Host     string
	Port     string
	Mail     string
	Password string
}

type sendFunc func(addr string, a smtpPkg.Auth, from string, to []string, msg []byte) error

type smtp struct {
	addr string
	auth smtpPkg.Auth
	mail string
	send sendFunc
}

// New returns nil when no sender address is configured.
func New(cfg Config) INotifier {
	if cfg.Mail == "" {
		return nil
	}
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == "" {
		cfg.Port = "587"
	}

	return &smtp{
		addr: cfg.Host + ":" + cfg.Port,
		auth: smtpPkg.PlainAuth("", cfg.Mail, cfg.Password, cfg.Host),
		mail: cfg.Mail,
		send: smtpPkg.SendMail,
	}
}

func (s *smtp) SendBookingNotification(ctx context.Context, to string, booking entity.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	to = strings.TrimSpace(to)
	if to == "" || strings.ContainsAny(to, "\r\n") {
		return fmt.Errorf("invalid notification recipient %q", to)
	}

	if err := s.send(s.addr, s.auth, s.mail, []string{to}, bookingMessage(s.mail, to, booking)); err != nil {
		return fmt.Errorf("send booking notification: %w", err)
	}
	return nil
}

func bookingMessage(from, to string, booking entity.Booking) []byte {
	subject := strings.NewReplacer("\r", " ", "\n", " ").Replace(booking.Title)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: New booking: %s\r\n", subject)
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	fmt.Fprintf(&b, "%s was booked with %s <%s>.\r\n", booking.Title, booking.AttendeeName, booking.AttendeeEmail)
	fmt.Fprintf(&b, "When: %s - %s\r\n", booking.StartTime.UTC().Format(time.RFC1123), booking.EndTime.UTC().Format("15:04 MST"))
	fmt.Fprintf(&b, "Status: %s\r\n", booking.Status)
	if booking.Location != "" {
		fmt.Fprintf(&b, "Location: %s\r\n", booking.Location)
	}
	if booking.Notes != "" {
		fmt.Fprintf(&b, "\r\n%s\r\n", booking.Notes)
	}
	return []byte(b.String())
}
