package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noshowblocklist/internal/domain"
)

type fakeMailer struct {
	to, subject, html, text string
	err                     error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, html, text string) error {
	m.to, m.subject, m.html, m.text = to, subject, html, text
	return m.err
}

type fakeRenderer struct {
	name string
	err  error
}

func (r *fakeRenderer) Render(name string, _ any) (string, string, string, error) {
	r.name = name
	if r.err != nil {
		return "", "", "", r.err
	}
	return "Your order was not approved", "<p>html</p>", "text", nil
}

func TestNotificationService_SendDenialNotice(t *testing.T) {
	mailer := &fakeMailer{}
	renderer := &fakeRenderer{}
	svc := NewNotificationService(mailer, renderer, testLogger())

	err := svc.SendDenialNotice(context.Background(), &domain.DenialNoticeEmailData{Email: "a@x.com", OrderCode: "A"})
	require.NoError(t, err)
	assert.Equal(t, "denial_notice", renderer.name)
	assert.Equal(t, "a@x.com", mailer.to)
	assert.Equal(t, "Your order was not approved", mailer.subject)
}

func TestNotificationService_Errors(t *testing.T) {
	svc := NewNotificationService(&fakeMailer{}, &fakeRenderer{}, testLogger())
	require.Error(t, svc.SendDenialNotice(context.Background(), nil))

	svc = NewNotificationService(&fakeMailer{}, &fakeRenderer{err: errors.New("missing")}, testLogger())
	require.Error(t, svc.SendDenialNotice(context.Background(), &domain.DenialNoticeEmailData{Email: "a@x.com"}))

	svc = NewNotificationService(&fakeMailer{err: errors.New("smtp")}, &fakeRenderer{}, testLogger())
	require.Error(t, svc.SendDenialNotice(context.Background(), &domain.DenialNoticeEmailData{Email: "a@x.com"}))
}
