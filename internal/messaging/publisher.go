package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/mosaic-market/metadata-sync/internal/adapter"
	"github.com/mosaic-market/metadata-sync/internal/domain"
	"github.com/mosaic-market/metadata-sync/internal/logger"
)

// DefaultSubjectPrefix is the JetStream subject prefix for synchronization
// events when none is configured. The event kind is appended, e.g.
// SYNC_EVENTS.token_minted.
const DefaultSubjectPrefix = "SYNC_EVENTS"

// Publisher broadcasts synchronization events after pointer table changes.
// Publishing is best-effort from the synchronizer's perspective: a failed
// publish never fails the operation that caused it.
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishSyncEvent publishes an event on the subject of its kind
	PublishSyncEvent(ctx context.Context, event *domain.SyncEvent) error

	// Close drains the underlying connection
	Close()
}

// JetStreamPublisher implements Publisher on a NATS JetStream connection
type JetStreamPublisher struct {
	conn          adapter.NatsConn
	js            adapter.JetStream
	subjectPrefix string
}

// NewJetStreamPublisher connects to NATS and returns a publisher. An empty
// subject prefix falls back to DefaultSubjectPrefix.
func NewJetStreamPublisher(natsJetStream adapter.NatsJetStream, url, subjectPrefix string, options ...nats.Option) (*JetStreamPublisher, error) {
	if subjectPrefix == "" {
		subjectPrefix = DefaultSubjectPrefix
	}

	conn, js, err := natsJetStream.Connect(url, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info("connected to NATS",
		zap.String("url", conn.ConnectedUrl()),
		zap.String("subjectPrefix", subjectPrefix))

	return &JetStreamPublisher{conn: conn, js: js, subjectPrefix: subjectPrefix}, nil
}

// PublishSyncEvent publishes an event on the subject of its kind
func (p *JetStreamPublisher) PublishSyncEvent(ctx context.Context, event *domain.SyncEvent) error {
	if !event.Valid() {
		return domain.NewValidationError("event", "missing kind or pointer key")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := fmt.Sprintf("%s.%s", p.subjectPrefix, event.Kind)
	if _, err := p.js.Publish(ctx, subject, payload); err != nil {
		return fmt.Errorf("failed to publish on %s: %w", subject, err)
	}

	logger.DebugCtx(ctx, "sync event published",
		zap.String("subject", subject),
		zap.String("pointerKey", event.PointerKey))

	return nil
}

// Close drains the underlying connection
func (p *JetStreamPublisher) Close() {
	p.conn.Close()
}
