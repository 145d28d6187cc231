package writerepo

import (
	"context"
	"time"

	"storefront/internal/infra"
	"storefront/internal/usecase/shared"

	"github.com/google/uuid"
)

const createJobSQL = `
	INSERT INTO notification_jobs (id, kind, topic, payload, run_at, status)
	VALUES ($1, $2, $3, $4, $5, 'pending')`

var _ shared.NotificationRepository = (*NotificationRepository)(nil)

// NotificationRepository enqueues side-effect jobs in the same transaction as
// the state change that triggers them.
type NotificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	if _, err := r.db.Exec(ctx, createJobSQL, uuid.New(), kind, topic, payload, runAt); err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}
	return nil
}
