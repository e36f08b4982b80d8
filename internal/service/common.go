package service

import (
	"strings"
	"time"

	"storefront-service/internal/events"
	"storefront-service/internal/models"
	"storefront-service/internal/store"
)

// Clock supplies the current time. schedule.Scheduler satisfies it.
type Clock interface {
	Now() time.Time
}

// ProductLookup resolves catalog products by id. catalog.Service satisfies it.
type ProductLookup interface {
	Get(id string) (models.Product, bool)
}

// NewStorageFailureReporter turns failed background writes into STORAGE_WRITE_FAILED events
func NewStorageFailureReporter(pub events.Publisher, clock Clock) store.FailureFunc {
	return func(op string, err error) {
		pub.Publish(&models.StorageWriteFailedEvent{
			BaseEvent: events.NewBase(models.EventTypeStorageWriteFailed, clock.Now()),
			Operation: op,
			Message:   err.Error(),
		})
	}
}

func normalizeUser(userID string) string {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return models.GuestUserID
	}
	return userID
}
