package email

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"net/mail"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"noshowblocklist/internal/domain"
)

// SESConfig holds configuration for AWS SES.
type SESConfig struct {
	Region             string
	AccessKeyID        string
	SecretAccessKey    string
	InsecureSkipVerify bool
}

// GmailConfig holds the service-account key used to send as FromAddress
// through domain-wide delegation.
type GmailConfig struct {
	CredentialsJSON []byte
}

// MailerConfig holds configuration for creating a mailer.
type MailerConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	SES         SESConfig
	Gmail       GmailConfig
}

// NewMailer creates a mailer from config. Provider "ses" uses AWS SES, "gmail"
// uses the Gmail API; "noop" or unknown uses a no-op mailer.
func NewMailer(ctx context.Context, config MailerConfig, logger *slog.Logger) (domain.Mailer, error) {
	switch config.Provider {
	case "ses":
		sesConfig := config.SES
		if sesConfig.InsecureSkipVerify {
			logger.Warn("TLS certificate verification is disabled for SES. Use only in development.")
		}
		httpClient := &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: sesConfig.InsecureSkipVerify,
					MinVersion:         tls.VersionTLS12,
				},
			},
		}
		awsCfg := aws.Config{
			Region: sesConfig.Region,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(
					sesConfig.AccessKeyID,
					sesConfig.SecretAccessKey,
					"",
				),
			),
			HTTPClient: httpClient,
		}
		return &sesMailer{
			client:      ses.NewFromConfig(awsCfg),
			fromAddress: config.FromAddress,
			fromName:    config.FromName,
			logger:      logger,
		}, nil
	case "gmail":
		jwtCfg, err := google.JWTConfigFromJSON(config.Gmail.CredentialsJSON, gmail.GmailSendScope)
		if err != nil {
			return nil, fmt.Errorf("failed to parse gmail credentials: %w", err)
		}
		jwtCfg.Subject = config.FromAddress
		svc, err := gmail.NewService(ctx, option.WithTokenSource(jwtCfg.TokenSource(ctx)))
		if err != nil {
			return nil, fmt.Errorf("failed to create gmail service: %w", err)
		}
		return &gmailMailer{
			svc:         svc,
			fromAddress: config.FromAddress,
			fromName:    config.FromName,
			logger:      logger,
		}, nil
	case "noop", "":
		return &noopMailer{logger: logger}, nil
	default:
		logger.Warn("unknown email provider, using noop", "provider", config.Provider)
		return &noopMailer{logger: logger}, nil
	}
}

func sender(address, name string) string {
	if name == "" {
		return address
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", name), address)
}

type sesMailer struct {
	client      *ses.Client
	fromAddress string
	fromName    string
	logger      *slog.Logger
}

func (s *sesMailer) Send(ctx context.Context, to, subject, html, text string) error {
	if err := checkRecipient(to); err != nil {
		return err
	}
	input := &ses.SendEmailInput{
		Source: aws.String(sender(s.fromAddress, s.fromName)),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{},
		},
	}
	if html != "" {
		input.Message.Body.Html = &types.Content{
			Data:    aws.String(html),
			Charset: aws.String("UTF-8"),
		}
	}
	if text != "" {
		input.Message.Body.Text = &types.Content{
			Data:    aws.String(text),
			Charset: aws.String("UTF-8"),
		}
	}
	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}
	s.logger.InfoContext(ctx, "email sent via SES", "message_id", aws.ToString(result.MessageId))
	return nil
}

type gmailMailer struct {
	svc         *gmail.Service
	fromAddress string
	fromName    string
	logger      *slog.Logger
}

func (g *gmailMailer) Send(ctx context.Context, to, subject, html, text string) error {
	raw, err := buildMessage(sender(g.fromAddress, g.fromName), to, subject, html, text)
	if err != nil {
		return err
	}
	msg, err := g.svc.Users.Messages.Send("me", &gmail.Message{
		Raw: base64.RawURLEncoding.EncodeToString([]byte(raw)),
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to send email via gmail: %w", err)
	}
	g.logger.InfoContext(ctx, "email sent via gmail", "message_id", msg.Id)
	return nil
}

// checkRecipient rejects order emails that are not a single bare address.
// Line breaks would let an address add headers to the message.
func checkRecipient(to string) error {
	if strings.ContainsAny(to, "\r\n") {
		return fmt.Errorf("%w: recipient contains a line break", domain.ErrInvalidInput)
	}
	addr, err := mail.ParseAddress(to)
	if err != nil || addr.Address != to {
		return fmt.Errorf("%w: recipient %q is not a plain address", domain.ErrInvalidInput, to)
	}
	return nil
}

// buildMessage renders an RFC 5322 message. HTML wins over text when both are set.
func buildMessage(from, to, subject, html, text string) (string, error) {
	if err := checkRecipient(to); err != nil {
		return "", err
	}
	contentType, body := "text/plain; charset=utf-8", text
	if html != "" {
		contentType, body = "text/html; charset=utf-8", html
	}
	headers := []string{
		"From: " + from,
		"To: " + to,
		"Subject: " + mime.QEncoding.Encode("utf-8", subject),
		"MIME-Version: 1.0",
		"Content-Type: " + contentType,
	}
	return strings.Join(headers, "\r\n") + "\r\n\r\n" + body, nil
}

type noopMailer struct {
	logger *slog.Logger
}

func (n *noopMailer) Send(ctx context.Context, to, subject, html, text string) error {
	if err := checkRecipient(to); err != nil {
		return err
	}
	n.logger.InfoContext(ctx, "email would be sent (noop)", "to", to, "subject", subject)
	return nil
}
