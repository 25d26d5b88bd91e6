// Package notifier доставляет новые пароли владельцам учетных записей по электронной почте.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"net/textproto"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"accountkeeper/internal/account/domain/entities"
	"accountkeeper/pkg/logger"
)

// Значения по умолчанию.
const (
	DefaultSubject   = "Your new password"
	DefaultRetryBase = 200 * time.Millisecond
)

// ErrNoRecipient возвращается, если у учетной записи нет адреса электронной почты.
var ErrNoRecipient = errors.New("account has no email address")

const (
	msgSending        = "sending new password"
	msgSent           = "new password sent"
	msgAttemptError   = "delivery attempt failed"
	msgPermanentError = "delivery rejected permanently, not retrying"
	msgNoRecipient    = "new password cannot be delivered: account has no email address"

	errCtxDelivering = "error delivering new password"
	errCtxMessage    = "error building password message"
	errCtxClient     = "error creating SMTP client"
)

// Sender отправляет подготовленные письма. Реализуется *mail.Client.
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Config содержит настройки SMTP.
type Config struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	Subject    string
	MaxRetries uint64
	RetryBase  time.Duration
}

// SMTPNotifier отправляет новый пароль письмом, повторяя временные сбои с экспоненциальной задержкой.
type SMTPNotifier struct {
	cfg    Config
	sender Sender
}

// Option настраивает SMTPNotifier.
type Option func(*SMTPNotifier)

// WithSender подменяет транспорт отправки.
func WithSender(sender Sender) Option {
	return func(n *SMTPNotifier) {
		n.sender = sender
	}
}

// NewSMTPNotifier создает notifier с заданной конфигурацией.
// Без WithSender письма уходят через go-mail клиент с оппортунистическим STARTTLS.
func NewSMTPNotifier(cfg Config, opts ...Option) (*SMTPNotifier, error) {
	if cfg.Subject == "" {
		cfg.Subject = DefaultSubject
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = DefaultRetryBase
	}

	n := &SMTPNotifier{cfg: cfg}
	for _, opt := range opts {
		opt(n)
	}
	if n.sender != nil {
		return n, nil
	}

	clientOpts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		clientOpts = append(clientOpts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxClient, err)
	}
	n.sender = client
	return n, nil
}

// SendNewPassword отправляет открытый пароль на адрес учетной записи.
// Пароль попадает только в тело письма и не журналируется.
func (n *SMTPNotifier) SendNewPassword(ctx context.Context, plaintext string, account *entities.Account) error {
	log := logger.Log(ctx).With(zap.String("notifier", "smtp"), zap.String("accountID", account.ID))

	if !account.HasEmail() {
		log.Warn(ctx, msgNoRecipient)
		return ErrNoRecipient
	}

	log.Debug(ctx, msgSending)

	msg, err := n.buildMessage(account, plaintext)
	if err != nil {
		return err
	}

	backoff := retry.WithMaxRetries(n.cfg.MaxRetries, retry.NewExponential(n.cfg.RetryBase))
	attempt := 0
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		sendErr := n.sender.DialAndSendWithContext(ctx, msg)
		if sendErr == nil {
			return nil
		}
		if !isTemporary(sendErr) {
			log.Warn(ctx, msgPermanentError, zap.Int("attempt", attempt), zap.Error(sendErr))
			return sendErr
		}
		log.Warn(ctx, msgAttemptError, zap.Int("attempt", attempt), zap.Error(sendErr))
		return retry.RetryableError(sendErr)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxDelivering, err)
	}

	log.Info(ctx, msgSent, zap.Int("attempts", attempt), zap.String("messageID", msg.GetMessageID()))
	return nil
}

func (n *SMTPNotifier) buildMessage(account *entities.Account, plaintext string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(n.cfg.From); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxMessage, err)
	}
	if err := msg.To(account.Email); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxMessage, err)
	}
	msg.Subject(n.cfg.Subject)
	msg.SetDate()
	msg.SetMessageID()
	msg.SetBodyString(mail.TypeTextPlain, "Hello, "+account.Name+".\r\n\r\n"+
		"Your password has been reset. Your new password is:\r\n\r\n"+
		plaintext+"\r\n\r\n"+
		"Please change it after signing in.\r\n")
	return msg, nil
}

// isTemporary сообщает, имеет ли смысл повторять отправку.
// Ответы 5xx и постоянные ошибки доставки не повторяются, сетевые сбои и 4xx повторяются.
func isTemporary(err error) bool {
	var sendErr *mail.SendError
	if errors.As(err, &sendErr) {
		return sendErr.IsTemp()
	}
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		return protoErr.Code < 500
	}
	return true
}
