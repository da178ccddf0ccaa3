package messaging_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaic-market/metadata-sync/internal/adapter"
	"github.com/mosaic-market/metadata-sync/internal/domain"
	"github.com/mosaic-market/metadata-sync/internal/logger"
	"github.com/mosaic-market/metadata-sync/internal/messaging"
	"github.com/mosaic-market/metadata-sync/internal/mocks"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

func newTestPublisher(t *testing.T, ctrl *gomock.Controller, subjectPrefix string) (*messaging.JetStreamPublisher, *mocks.MockNatsConn, *mocks.MockJetStream) {
	t.Helper()

	mockConn := mocks.NewMockNatsConn(ctrl)
	mockJS := mocks.NewMockJetStream(ctrl)
	mockNats := mocks.NewMockNatsJetStream(ctrl)

	mockNats.EXPECT().Connect("nats://localhost:4222").
		Return(adapter.NatsConn(mockConn), adapter.JetStream(mockJS), nil)
	mockConn.EXPECT().ConnectedUrl().Return("nats://localhost:4222")

	p, err := messaging.NewJetStreamPublisher(mockNats, "nats://localhost:4222", subjectPrefix)
	require.NoError(t, err)

	return p, mockConn, mockJS
}

func TestPublishSyncEvent(t *testing.T) {
	event := &domain.SyncEvent{
		Kind:       domain.SyncEventTokenMinted,
		Chain:      domain.ChainEthereumSepolia,
		PointerKey: "nft_metadata_0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512_5",
		ContentRef: "ipfs://QmTok",
		TxHash:     "0xmint",
		Timestamp:  time.UnixMilli(1756700000000).UTC(),
	}

	t.Run("publishes on the default subject of the event kind", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		p, _, mockJS := newTestPublisher(t, ctrl, "")

		mockJS.EXPECT().Publish(gomock.Any(), "SYNC_EVENTS.token_minted", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, data []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
				var published domain.SyncEvent
				require.NoError(t, json.Unmarshal(data, &published))
				assert.Equal(t, *event, published)
				return &jetstream.PubAck{Stream: "SYNC_EVENTS", Sequence: 1}, nil
			})

		assert.NoError(t, p.PublishSyncEvent(context.Background(), event))
	})

	t.Run("publishes on the configured subject prefix", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		p, _, mockJS := newTestPublisher(t, ctrl, "MARKET_SYNC")

		mockJS.EXPECT().Publish(gomock.Any(), "MARKET_SYNC.token_minted", gomock.Any()).
			Return(&jetstream.PubAck{Stream: "MARKET_SYNC", Sequence: 1}, nil)

		assert.NoError(t, p.PublishSyncEvent(context.Background(), event))
	})

	t.Run("rejects an event without a kind", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		p, _, _ := newTestPublisher(t, ctrl, "")

		err := p.PublishSyncEvent(context.Background(), &domain.SyncEvent{PointerKey: "some_key"})

		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("surfaces publish failures", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		p, _, mockJS := newTestPublisher(t, ctrl, "")

		mockJS.EXPECT().Publish(gomock.Any(), "SYNC_EVENTS.token_minted", gomock.Any()).
			Return(nil, errors.New("no responders"))

		err := p.PublishSyncEvent(context.Background(), event)
		assert.ErrorContains(t, err, "SYNC_EVENTS.token_minted")
	})
}

func TestClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p, mockConn, _ := newTestPublisher(t, ctrl, "")

	mockConn.EXPECT().Close()
	p.Close()
}

func TestNewJetStreamPublisher_ConnectFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockNats := mocks.NewMockNatsJetStream(ctrl)
	mockNats.EXPECT().Connect("nats://localhost:4222").
		Return(nil, nil, errors.New("connection refused"))

	_, err := messaging.NewJetStreamPublisher(mockNats, "nats://localhost:4222", "")
	assert.ErrorContains(t, err, "failed to connect to NATS")
}
