package notification

import (
	"context"

	"github.com/marketplace/backend/internal/domain/marketplace"
	"go.uber.org/zap"
)

// LogNotifier writes notifications to the application log. It is the
// fallback delivery channel when Redis is not configured and is always
// safe to use in tests and single-instance deployments.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the notification at info level
func (n *LogNotifier) Notify(_ context.Context, notification marketplace.Notification) error {
	n.logger.Info("automation notification",
		zap.String("seller_id", notification.SellerID.String()),
		zap.String("entity_type", notification.EntityType),
		zap.String("entity_id", notification.EntityID.String()),
		zap.String("subject", notification.Subject),
		zap.String("body", notification.Body))
	return nil
}

var _ marketplace.Notifier = (*LogNotifier)(nil)
