package sync_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaic-market/metadata-sync/internal/domain"
	"github.com/mosaic-market/metadata-sync/internal/metadata"
	"github.com/mosaic-market/metadata-sync/internal/store/schema"
	syncer "github.com/mosaic-market/metadata-sync/internal/sync"
)

func currentTokenDoc() metadata.NFTDocument {
	return metadata.NFTDocument{
		Name:                "Cool Cat #3",
		ContractAddress:     testCollection,
		TokenID:             "3",
		OwnerWallet:         testCreator,
		CurrentListingPrice: "2.5",
		Transactions: []metadata.Transaction{
			{Type: metadata.TransactionMinted, To: testCreator, Timestamp: 1, TxHash: "0xmint"},
		},
	}
}

// expectCurrentDocument arranges the pointer and cache reads that updateToken
// performs to load the token's current document
func expectCurrentDocument(t *testing.T, m *syncMocks, key string, doc metadata.NFTDocument) {
	t.Helper()

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	m.pointers.EXPECT().GetPointer(gomock.Any(), key).
		Return(&schema.PointerRecord{Key: key, ContentRef: "ipfs://QmV1", Chain: string(testChain)}, nil)
	m.cache.EXPECT().CachedDocument(gomock.Any(), "ipfs://QmV1").Return(raw, nil)
}

func TestListToken(t *testing.T) {
	ctx := context.Background()
	token := domain.NewTokenID(domain.CollectionID(testCollection), "3")
	now := time.UnixMilli(1756700000000)

	t.Run("repoints to a new document version with a listed event", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		s, m := newTestSynchronizer(ctrl)
		expectCurrentDocument(t, m, token.PointerKey(), currentTokenDoc())

		m.content.EXPECT().UploadJSON(ctx, "token.json", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, doc interface{}) (string, error) {
				updated := doc.(*metadata.NFTDocument)
				assert.Equal(t, "3.0", updated.CurrentListingPrice)

				last := updated.Transactions[len(updated.Transactions)-1]
				assert.Equal(t, metadata.TransactionListed, last.Type)
				assert.Equal(t, testCreator, last.From)
				assert.Equal(t, "3.0", last.Price)
				assert.Equal(t, now.UnixMilli(), last.Timestamp)
				return "ipfs://QmV2", nil
			})
		// Off-chain updates carry no transaction hash
		m.pointers.EXPECT().SetPointer(ctx, token.PointerKey(), "ipfs://QmV2", "", testChain).Return(nil)
		m.cache.EXPECT().CacheDocument(ctx, "ipfs://QmV2", gomock.Any(), gomock.Any()).Return(nil)
		m.publisher.EXPECT().PublishSyncEvent(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, event *domain.SyncEvent) error {
				assert.Equal(t, domain.SyncEventPointerUpdated, event.Kind)
				assert.Equal(t, "ipfs://QmV2", event.ContentRef)
				assert.Empty(t, event.TxHash)
				return nil
			})

		result, err := s.ListToken(ctx, token, "3.0")
		require.NoError(t, err)
		assert.Equal(t, token, result.Token)
		assert.Equal(t, "ipfs://QmV2", result.ContentRef)
	})

	t.Run("rejects an empty price", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		s, _ := newTestSynchronizer(ctrl)

		_, err := s.ListToken(ctx, token, "")

		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("upload failure repoints nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		s, m := newTestSynchronizer(ctrl)
		expectCurrentDocument(t, m, token.PointerKey(), currentTokenDoc())

		m.content.EXPECT().UploadJSON(ctx, "token.json", gomock.Any()).
			Return("", &domain.StoreUnavailableError{Err: errors.New("node down")})

		_, err := s.ListToken(ctx, token, "3.0")

		var opErr *syncer.OperationError
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, syncer.StageUploadDocument, opErr.Stage)
	})
}

func TestListToken_ConcurrentLastWriteWins(t *testing.T) {
	ctx := context.Background()
	token := domain.NewTokenID(domain.CollectionID(testCollection), "3")

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, m := newTestSynchronizer(ctrl)

	raw, err := json.Marshal(currentTokenDoc())
	require.NoError(t, err)

	// Both updates start from the same document version
	m.pointers.EXPECT().GetPointer(gomock.Any(), token.PointerKey()).
		Return(&schema.PointerRecord{Key: token.PointerKey(), ContentRef: "ipfs://QmV1", Chain: string(testChain)}, nil).
		Times(2)
	m.cache.EXPECT().CachedDocument(gomock.Any(), "ipfs://QmV1").Return(raw, nil).Times(2)

	firstUploading := make(chan struct{})
	secondRecorded := make(chan struct{})

	// The first update stalls in the content store until the second one has
	// repointed, so the two complete in reverse start order
	m.content.EXPECT().UploadJSON(gomock.Any(), "token.json", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, doc interface{}) (string, error) {
			updated := doc.(*metadata.NFTDocument)
			if updated.CurrentListingPrice == "1.0" {
				close(firstUploading)
				<-secondRecorded
				return "ipfs://QmFirst", nil
			}
			return "ipfs://QmSecond", nil
		}).Times(2)

	var mu sync.Mutex
	var recorded []string
	m.pointers.EXPECT().SetPointer(gomock.Any(), token.PointerKey(), gomock.Any(), "", testChain).
		DoAndReturn(func(_ context.Context, _ string, contentRef string, _ string, _ domain.Chain) error {
			mu.Lock()
			recorded = append(recorded, contentRef)
			mu.Unlock()
			if contentRef == "ipfs://QmSecond" {
				close(secondRecorded)
			}
			return nil
		}).Times(2)
	m.cache.EXPECT().CacheDocument(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	m.publisher.EXPECT().PublishSyncEvent(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	errs := make(chan error, 2)
	go func() {
		_, err := s.ListToken(ctx, token, "1.0")
		errs <- err
	}()
	<-firstUploading
	go func() {
		_, err := s.ListToken(ctx, token, "2.0")
		errs <- err
	}()

	require.NoError(t, <-errs)
	require.NoError(t, <-errs)

	// Last write wins: the pointer holds the later-completing version even
	// though that update started first
	require.Equal(t, []string{"ipfs://QmSecond", "ipfs://QmFirst"}, recorded)
}

func TestDelistToken(t *testing.T) {
	ctx := context.Background()
	token := domain.NewTokenID(domain.CollectionID(testCollection), "3")

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, m := newTestSynchronizer(ctrl)
	expectCurrentDocument(t, m, token.PointerKey(), currentTokenDoc())

	m.content.EXPECT().UploadJSON(ctx, "token.json", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, doc interface{}) (string, error) {
			updated := doc.(*metadata.NFTDocument)
			assert.Empty(t, updated.CurrentListingPrice)
			// The cleared listing price becomes the previous price
			assert.Equal(t, "2.5", updated.PreviousPrice)

			last := updated.Transactions[len(updated.Transactions)-1]
			assert.Equal(t, metadata.TransactionDelisted, last.Type)
			return "ipfs://QmV2", nil
		})
	m.pointers.EXPECT().SetPointer(ctx, token.PointerKey(), "ipfs://QmV2", "", testChain).Return(nil)
	m.cache.EXPECT().CacheDocument(ctx, "ipfs://QmV2", gomock.Any(), gomock.Any()).Return(nil)
	m.publisher.EXPECT().PublishSyncEvent(ctx, gomock.Any()).Return(nil)

	_, err := s.DelistToken(ctx, token)
	require.NoError(t, err)
}

func TestAddOffer(t *testing.T) {
	ctx := context.Background()
	token := domain.NewTokenID(domain.CollectionID(testCollection), "3")
	now := time.UnixMilli(1756700000000)

	t.Run("appends a standing offer", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		s, m := newTestSynchronizer(ctrl)
		expectCurrentDocument(t, m, token.PointerKey(), currentTokenDoc())

		m.content.EXPECT().UploadJSON(ctx, "token.json", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, doc interface{}) (string, error) {
				updated := doc.(*metadata.NFTDocument)
				require.Len(t, updated.Offers, 1)
				assert.Equal(t, metadata.Offer{
					OfferAddress: testCreator,
					Price:        "2.0",
					Timestamp:    now.UnixMilli(),
				}, updated.Offers[0])
				return "ipfs://QmV2", nil
			})
		m.pointers.EXPECT().SetPointer(ctx, token.PointerKey(), "ipfs://QmV2", "", testChain).Return(nil)
		m.cache.EXPECT().CacheDocument(ctx, "ipfs://QmV2", gomock.Any(), gomock.Any()).Return(nil)
		m.publisher.EXPECT().PublishSyncEvent(ctx, gomock.Any()).Return(nil)

		_, err := s.AddOffer(ctx, token, testCreator, "2.0")
		require.NoError(t, err)
	})

	t.Run("rejects a malformed offer address", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		s, _ := newTestSynchronizer(ctrl)

		_, err := s.AddOffer(ctx, token, "nope", "2.0")

		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})
}

func TestTransferOwner(t *testing.T) {
	ctx := context.Background()
	token := domain.NewTokenID(domain.CollectionID(testCollection), "3")
	newOwner := "0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0"

	t.Run("with a price records a sale", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		s, m := newTestSynchronizer(ctrl)
		expectCurrentDocument(t, m, token.PointerKey(), currentTokenDoc())

		m.content.EXPECT().UploadJSON(ctx, "token.json", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, doc interface{}) (string, error) {
				updated := doc.(*metadata.NFTDocument)
				assert.Equal(t, newOwner, updated.OwnerWallet)
				assert.Empty(t, updated.CurrentListingPrice)
				assert.Empty(t, updated.Offers)

				last := updated.Transactions[len(updated.Transactions)-1]
				assert.Equal(t, metadata.TransactionSold, last.Type)
				assert.Equal(t, testCreator, last.From)
				assert.Equal(t, newOwner, last.To)
				assert.Equal(t, "0xsale", last.TxHash)
				return "ipfs://QmV2", nil
			})
		m.pointers.EXPECT().SetPointer(ctx, token.PointerKey(), "ipfs://QmV2", "", testChain).Return(nil)
		m.cache.EXPECT().CacheDocument(ctx, "ipfs://QmV2", gomock.Any(), gomock.Any()).Return(nil)
		m.publisher.EXPECT().PublishSyncEvent(ctx, gomock.Any()).Return(nil)

		_, err := s.TransferOwner(ctx, token, newOwner, "2.5", "0xsale")
		require.NoError(t, err)
	})

	t.Run("without a price records a plain transfer", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		s, m := newTestSynchronizer(ctrl)
		expectCurrentDocument(t, m, token.PointerKey(), currentTokenDoc())

		m.content.EXPECT().UploadJSON(ctx, "token.json", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, doc interface{}) (string, error) {
				updated := doc.(*metadata.NFTDocument)
				last := updated.Transactions[len(updated.Transactions)-1]
				assert.Equal(t, metadata.TransactionTransfer, last.Type)
				assert.Empty(t, last.Price)
				return "ipfs://QmV2", nil
			})
		m.pointers.EXPECT().SetPointer(ctx, token.PointerKey(), "ipfs://QmV2", "", testChain).Return(nil)
		m.cache.EXPECT().CacheDocument(ctx, "ipfs://QmV2", gomock.Any(), gomock.Any()).Return(nil)
		m.publisher.EXPECT().PublishSyncEvent(ctx, gomock.Any()).Return(nil)

		_, err := s.TransferOwner(ctx, token, newOwner, "", "0xtransfer")
		require.NoError(t, err)
	})

	t.Run("rejects a transfer to the zero address", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		s, _ := newTestSynchronizer(ctrl)

		_, err := s.TransferOwner(ctx, token, domain.ETHEREUM_ZERO_ADDRESS, "", "0xtransfer")

		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.ErrorContains(t, err, "invalid newOwner")
	})
}
