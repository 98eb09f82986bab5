package service

import (
	"github.com/perplexuser/chatroom/internal/domain"
)

type SyncService interface {
	Fetch(watermark domain.MsgId, limit int) ([]domain.Message, error)
}

type SyncStorage interface {
	MessagesAfter(watermark domain.MsgId, limit int) ([]domain.Message, error)
	LatestMessages(limit int) ([]domain.Message, error)
}

// Sync serves incremental history reads. A client with a watermark gets
// everything strictly after it; a client without one gets the most recent
// bounded window, both in ascending id order.
type Sync struct {
	storage      SyncStorage
	defaultLimit int
	maxLimit     int
}

func NewSync(storage SyncStorage, defaultLimit, maxLimit int) SyncService {
	return &Sync{storage, defaultLimit, maxLimit}
}

func (s *Sync) Fetch(watermark domain.MsgId, limit int) ([]domain.Message, error) {
	// Out-of-range limits fall back to the default rather than erroring.
	if limit < 1 || limit > s.maxLimit {
		limit = s.defaultLimit
	}

	if watermark <= 0 {
		return s.storage.LatestMessages(limit)
	}
	return s.storage.MessagesAfter(watermark, limit)
}
