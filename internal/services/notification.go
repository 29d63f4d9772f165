package services

import (
	"context"
	"fmt"
	"log/slog"

	"noshowblocklist/internal/domain"
)

type notificationService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewNotificationService returns a NotificationService that uses the given Mailer and template renderer.
func NewNotificationService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.NotificationService {
	return &notificationService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendDenialNotice tells an attendee that their order was denied, using the "denial_notice" template.
func (s *notificationService) SendDenialNotice(ctx context.Context, data *domain.DenialNoticeEmailData) error {
	if data == nil {
		return fmt.Errorf("denial notice data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("denial_notice", data)
	if err != nil {
		return fmt.Errorf("failed to render denial_notice template: %w", err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send denial notice: %w", err)
	}
	s.logger.InfoContext(ctx, "denial notice sent", "email", data.Email, "order", data.OrderCode)
	return nil
}
