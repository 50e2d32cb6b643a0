package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"text/template"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/kopdigital/koperasi-backend/internal/metrics"
	"github.com/kopdigital/koperasi-backend/internal/models"
	"github.com/kopdigital/koperasi-backend/internal/repositories"
	"github.com/kopdigital/koperasi-backend/internal/utils"
	"github.com/kopdigital/koperasi-backend/pkg/errutil"
	"github.com/kopdigital/koperasi-backend/pkg/whatsapp"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var messageTemplates = map[models.NotificationType]string{
	models.NotificationWelcome:         "Halo {{.name}}, selamat bergabung! Pendaftaran keanggotaan koperasi Anda sedang kami proses.",
	models.NotificationMemberApproved:  "Halo {{.name}}, keanggotaan koperasi Anda telah aktif dengan nomor anggota {{.member_number}}.",
	models.NotificationPickupScheduled: "Halo {{.name}}, permintaan penjemputan sampah Anda untuk tanggal {{.date}} pukul {{.time}} berstatus {{.status}}.",
	models.NotificationPickupCompleted: "Halo {{.name}}, penjemputan sampah Anda telah selesai. Total berat {{.weight}} kg, poin diperoleh {{.points}}.",
	models.NotificationPointsEarned:    "Halo {{.name}}, Anda mendapatkan {{.points}} poin dari setoran {{.weight}} kg sampah {{.waste_type}}.",
	models.NotificationPaymentSuccess:  "Halo {{.name}}, pembayaran sebesar Rp{{.amount}} telah kami terima. Terima kasih.",
	models.NotificationPaymentReminder: "Halo {{.name}}, tagihan sebesar Rp{{.amount}} akan jatuh tempo pada {{.due_date}}.",
	models.NotificationAnnouncement:    "{{.message}}",
}

// NotificationOptions tunes delivery retries.
type NotificationOptions struct {
	MaxAttempts int
	RetryDelay  time.Duration
	// DispatchTimeout bounds one background Notify call, retries included.
	DispatchTimeout time.Duration
}

var _ NotificationService = (*NotificationServiceImpl)(nil)

// NotificationServiceImpl renders templates and delivers them over WhatsApp
type NotificationServiceImpl struct {
	gateway   whatsapp.Gateway
	repo      repositories.NotificationRepository
	templates map[models.NotificationType]*template.Template
	opts      NotificationOptions
	inflight  sync.WaitGroup
}

// NewNotificationService creates a new NotificationServiceImpl
func NewNotificationService(gateway whatsapp.Gateway, repo repositories.NotificationRepository, opts NotificationOptions) *NotificationServiceImpl {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.DispatchTimeout <= 0 {
		opts.DispatchTimeout = 30 * time.Second
	}

	templates := make(map[models.NotificationType]*template.Template, len(messageTemplates))
	for t, text := range messageTemplates {
		templates[t] = template.Must(template.New(string(t)).Option("missingkey=error").Parse(text))
	}

	return &NotificationServiceImpl{
		gateway:   gateway,
		repo:      repo,
		templates: templates,
		opts:      opts,
	}
}

// Send renders and delivers one message, retrying transient failures. Every
// outcome is written to the notification log.
func (s *NotificationServiceImpl) Send(ctx context.Context, req *models.SendNotificationRequest) (*models.Notification, error) {
	if !req.Type.Valid() {
		return nil, errutil.ValidationFailed("invalid notification type", nil, errutil.WithDetails(errutil.Detail{
			Field:   "type",
			Message: "must be one of welcome, member_approved, pickup_scheduled, pickup_completed, points_earned, payment_success, payment_reminder, announcement",
		}))
	}

	phone, err := utils.NormalizePhone(req.Recipient)
	if err != nil {
		return nil, errutil.ValidationFailed("invalid recipient", err, errutil.WithDetails(errutil.Detail{
			Field:   "recipient",
			Message: "must be an Indonesian mobile number",
		}))
	}

	var memberID *primitive.ObjectID
	if req.MemberID != "" {
		id, err := primitive.ObjectIDFromHex(req.MemberID)
		if err != nil {
			return nil, errutil.ValidationFailed("invalid memberId", err)
		}
		memberID = &id
	}

	content, err := s.render(req.Type, req.Data)
	if err != nil {
		return nil, errutil.ValidationFailed("missing template data", err)
	}

	notification := &models.Notification{
		MemberID:  memberID,
		Recipient: phone,
		Type:      req.Type,
		Content:   content,
		Gateway:   s.gateway.Name(),
	}

	messageID, attempts, sendErr := s.deliver(ctx, phone, content)
	notification.Attempts = attempts
	if sendErr != nil {
		notification.Status = models.NotificationStatusFailed
		notification.Error = sendErr.Error()
	} else {
		sentAt := time.Now()
		notification.Status = models.NotificationStatusSent
		notification.MessageID = messageID
		notification.SentAt = &sentAt
	}
	metrics.RecordNotification(string(req.Type), notification.Status)

	if err := s.repo.Create(context.WithoutCancel(ctx), notification); err != nil {
		zap.L().Error("failed to store notification log",
			zap.String("type", string(req.Type)),
			zap.String("status", notification.Status),
			zap.Error(err),
		)
	}

	if sendErr != nil {
		zap.L().Warn("whatsapp delivery failed",
			zap.String("type", string(req.Type)),
			zap.Int("attempts", attempts),
			zap.Error(sendErr),
		)
		return notification, errutil.Internal("failed to send WhatsApp message", sendErr)
	}
	return notification, nil
}

// Notify sends a templated message to the member in the background. The
// member's name is added to data.
func (s *NotificationServiceImpl) Notify(member *models.Member, notificationType models.NotificationType, data map[string]interface{}) {
	if member == nil || member.Phone == "" {
		return
	}

	payload := make(map[string]interface{}, len(data)+1)
	for k, v := range data {
		payload[k] = v
	}
	payload["name"] = member.FullName

	req := &models.SendNotificationRequest{
		Recipient: member.Phone,
		Type:      notificationType,
		Data:      payload,
	}
	if !member.ID.IsZero() {
		req.MemberID = member.ID.Hex()
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				zap.L().Error("notification dispatch panicked", zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), s.opts.DispatchTimeout)
		defer cancel()

		if _, err := s.Send(ctx, req); err != nil {
			zap.L().Warn("notification dispatch failed",
				zap.String("member_id", req.MemberID),
				zap.String("type", string(notificationType)),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until background dispatches finish or ctx is done.
func (s *NotificationServiceImpl) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ListNotifications returns one page of messages sent to the member
func (s *NotificationServiceImpl) ListNotifications(ctx context.Context, member *models.Member, page, limit int) ([]*models.Notification, *models.Pagination, error) {
	page, limit = models.NormalizePage(page, limit)
	notifications, total, err := s.repo.FindByMemberID(ctx, member.ID, page, limit)
	if err != nil {
		return nil, nil, errutil.Internal("failed to list notifications", err)
	}
	return notifications, models.NewPagination(page, limit, total), nil
}

func (s *NotificationServiceImpl) render(notificationType models.NotificationType, data map[string]interface{}) (string, error) {
	tmpl, ok := s.templates[notificationType]
	if !ok {
		return "", fmt.Errorf("no template for %s", notificationType)
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// deliver sends through the gateway with a fixed delay between attempts.
// Client errors from the provider are not retried.
func (s *NotificationServiceImpl) deliver(ctx context.Context, phone, content string) (string, int, error) {
	var (
		messageID string
		attempts  int
	)

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(s.opts.RetryDelay), uint64(s.opts.MaxAttempts-1)),
		ctx,
	)

	err := backoff.Retry(func() error {
		attempts++
		id, err := s.gateway.SendMessage(ctx, phone, content)
		if err != nil {
			var statusErr *whatsapp.StatusError
			if errors.As(err, &statusErr) && !statusErr.Temporary() {
				return backoff.Permanent(err)
			}
			if errors.Is(err, whatsapp.ErrRejected) {
				return backoff.Permanent(err)
			}
			return err
		}
		messageID = id
		return nil
	}, policy)

	return messageID, attempts, err
}
