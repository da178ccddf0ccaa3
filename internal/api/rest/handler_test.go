package rest_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaic-market/metadata-sync/internal/api/middleware"
	"github.com/mosaic-market/metadata-sync/internal/api/rest"
	"github.com/mosaic-market/metadata-sync/internal/domain"
	"github.com/mosaic-market/metadata-sync/internal/logger"
	"github.com/mosaic-market/metadata-sync/internal/metadata"
	"github.com/mosaic-market/metadata-sync/internal/mocks"
	"github.com/mosaic-market/metadata-sync/internal/store/schema"
	syncer "github.com/mosaic-market/metadata-sync/internal/sync"
)

const (
	testCollection = "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"
	testSigner     = "0xf39Fd6e5aAad88F6F4ce6aB8827279cffFb92266"
	testAPIKey     = "test-api-key"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

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

type apiMocks struct {
	gateway   *mocks.MockGateway
	content   *mocks.MockContentClient
	pointers  *mocks.MockPointerStore
	cache     *mocks.MockDocumentCache
	publisher *mocks.MockPublisher
}

func newTestRouter(ctrl *gomock.Controller) (*gin.Engine, *apiMocks) {
	m := &apiMocks{
		gateway:   mocks.NewMockGateway(ctrl),
		content:   mocks.NewMockContentClient(ctrl),
		pointers:  mocks.NewMockPointerStore(ctrl),
		cache:     mocks.NewMockDocumentCache(ctrl),
		publisher: mocks.NewMockPublisher(ctrl),
	}

	mockClock := mocks.NewMockClock(ctrl)
	mockClock.EXPECT().Now().Return(time.UnixMilli(1756700000000)).AnyTimes()

	s := syncer.NewSynchronizer(
		metadata.NewCodec(mockClock),
		m.content,
		m.gateway,
		m.pointers,
		m.cache,
		m.publisher,
		mockClock,
		domain.ChainEthereumSepolia,
	)

	router := gin.New()
	rest.SetupRoutes(router, rest.NewHandler(s, 4), middleware.AuthConfig{APIKeys: []string{testAPIKey}})

	return router, m
}

// errorBody mirrors the wire shape of error responses
type errorBody struct {
	Error struct {
		Code      string   `json:"code"`
		Message   string   `json:"message"`
		Details   string   `json:"details"`
		Stage     string   `json:"stage"`
		AssetRefs []string `json:"asset_refs"`
	} `json:"error"`
}

func doRequest(router *gin.Engine, method, path string, body interface{}, authenticated bool) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		req.Header.Set("Authorization", "apikey "+testAPIKey)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()

	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, _ := newTestRouter(ctrl)

	w := doRequest(router, http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestGetCollectionEndpoint(t *testing.T) {
	collection := domain.CollectionID(testCollection)
	pointerKey := collection.PointerKey()

	t.Run("returns the collection document", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		router, m := newTestRouter(ctrl)

		doc := metadata.CollectionDocument{Name: "Cool Cats", Symbol: "COOL", ContractAddress: testCollection}
		raw, err := json.Marshal(doc)
		require.NoError(t, err)

		m.pointers.EXPECT().GetPointer(gomock.Any(), pointerKey).
			Return(&schema.PointerRecord{Key: pointerKey, ContentRef: "ipfs://QmCol"}, nil)
		m.cache.EXPECT().CachedDocument(gomock.Any(), "ipfs://QmCol").Return(raw, nil)

		w := doRequest(router, http.MethodGet, "/api/v1/collections/"+testCollection, nil, false)
		assert.Equal(t, http.StatusOK, w.Code)

		var got metadata.CollectionDocument
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, doc, got)
	})

	t.Run("malformed address", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		router, _ := newTestRouter(ctrl)

		w := doRequest(router, http.MethodGet, "/api/v1/collections/not-an-address", nil, false)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "bad_request", decodeError(t, w).Error.Code)
	})

	t.Run("unknown collection", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		router, m := newTestRouter(ctrl)

		m.pointers.EXPECT().GetPointer(gomock.Any(), pointerKey).Return(nil, domain.ErrPointerNotFound)

		w := doRequest(router, http.MethodGet, "/api/v1/collections/"+testCollection, nil, false)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not_found", decodeError(t, w).Error.Code)
	})

	t.Run("collection with failed metadata upload", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		router, m := newTestRouter(ctrl)

		m.pointers.EXPECT().GetPointer(gomock.Any(), pointerKey).
			Return(&schema.PointerRecord{Key: pointerKey, ContentRef: domain.SENTINEL_UPLOAD_FAILED}, nil)

		w := doRequest(router, http.MethodGet, "/api/v1/collections/"+testCollection, nil, false)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "no_metadata", decodeError(t, w).Error.Code)
	})
}

func TestCreateCollectionEndpoint(t *testing.T) {
	body := map[string]interface{}{
		"name":   "Cool Cats",
		"symbol": "COOL",
	}

	t.Run("requires authentication", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		router, _ := newTestRouter(ctrl)

		w := doRequest(router, http.MethodPost, "/api/v1/collections", body, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects a body without a symbol", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		router, _ := newTestRouter(ctrl)

		w := doRequest(router, http.MethodPost, "/api/v1/collections", map[string]interface{}{"name": "Cool Cats"}, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "validation_failed", decodeError(t, w).Error.Code)
	})

	t.Run("chain failure maps to bad gateway", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		router, m := newTestRouter(ctrl)

		// No creator wallet in the request, so the signer is the creator
		m.gateway.EXPECT().SignerAddress().Return(testSigner)
		m.gateway.EXPECT().CollectionsByCreator(gomock.Any(), testSigner).Return(nil, nil)
		m.gateway.EXPECT().SubmitCreateCollection(gomock.Any(), "Cool Cats", "COOL").
			Return("", &domain.SubmissionError{Err: errors.New("nonce too low")})

		w := doRequest(router, http.MethodPost, "/api/v1/collections", body, true)
		assert.Equal(t, http.StatusBadGateway, w.Code)

		got := decodeError(t, w)
		assert.Equal(t, "chain_error", got.Error.Code)
		assert.Equal(t, "submit", got.Error.Stage)
	})
}

func TestListTokenEndpoint_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, m := newTestRouter(ctrl)

	token := domain.NewTokenID(domain.CollectionID(testCollection), "3")
	doc := metadata.NFTDocument{
		Name:            "Cool Cat #3",
		ContractAddress: testCollection,
		TokenID:         "3",
		OwnerWallet:     testCollection,
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	m.pointers.EXPECT().GetPointer(gomock.Any(), token.PointerKey()).
		Return(&schema.PointerRecord{Key: token.PointerKey(), ContentRef: "ipfs://QmV1"}, nil)
	m.cache.EXPECT().CachedDocument(gomock.Any(), "ipfs://QmV1").Return(raw, nil)
	m.content.EXPECT().UploadJSON(gomock.Any(), "token.json", gomock.Any()).
		Return("", &domain.StoreUnavailableError{Err: errors.New("node down")})

	path := "/api/v1/collections/" + testCollection + "/tokens/3/listing"
	w := doRequest(router, http.MethodPost, path, map[string]string{"price": "3.0"}, true)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	got := decodeError(t, w)
	assert.Equal(t, "store_unavailable", got.Error.Code)
	assert.Equal(t, "upload-document", got.Error.Stage)
}

func TestBurnTokenEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, m := newTestRouter(ctrl)

	token := domain.NewTokenID(domain.CollectionID(testCollection), "3")

	m.gateway.EXPECT().SubmitBurn(gomock.Any(), token.Collection, "3").Return("0xburn", nil)
	m.gateway.EXPECT().AwaitConfirmation(gomock.Any(), "0xburn").Return(nil, nil)
	m.pointers.EXPECT().DeletePointer(gomock.Any(), token.PointerKey()).Return(nil)
	m.publisher.EXPECT().PublishSyncEvent(gomock.Any(), gomock.Any()).Return(nil)

	path := "/api/v1/collections/" + testCollection + "/tokens/3"
	w := doRequest(router, http.MethodDelete, path, nil, true)
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "0xburn", body["tx_hash"])
	assert.Equal(t, "3", body["token_number"])
}
