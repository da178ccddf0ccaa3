package contentstore_test

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaic-market/metadata-sync/internal/adapter"
	"github.com/mosaic-market/metadata-sync/internal/contentstore"
	"github.com/mosaic-market/metadata-sync/internal/domain"
	"github.com/mosaic-market/metadata-sync/internal/logger"
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

func TestIPFSClient_Upload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTP := mocks.NewMockHTTPClient(ctrl)
	client := contentstore.NewIPFSClient("http://localhost:5001", "https://ipfs.io", mockHTTP, adapter.NewJSON())

	t.Run("returns the content reference from the add response", func(t *testing.T) {
		mockHTTP.EXPECT().
			Post(gomock.Any(), "http://localhost:5001/api/v0/add", gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, contentType string, body io.Reader) ([]byte, error) {
				assert.True(t, strings.HasPrefix(contentType, "multipart/form-data"))

				raw, err := io.ReadAll(body)
				require.NoError(t, err)
				assert.Contains(t, string(raw), `filename="cat.png"`)

				return []byte(`{"Name":"cat.png","Hash":"QmCatHash","Size":"4"}`), nil
			})

		ref, err := client.Upload(context.Background(), "cat.png", []byte{0x89, 0x50, 0x4e, 0x47})
		require.NoError(t, err)
		assert.Equal(t, "ipfs://QmCatHash", ref)
	})

	t.Run("wraps transport failures as store unavailable", func(t *testing.T) {
		mockHTTP.EXPECT().
			Post(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("connection refused"))

		_, err := client.Upload(context.Background(), "cat.png", []byte("data"))
		require.Error(t, err)

		var storeErr *domain.StoreUnavailableError
		assert.ErrorAs(t, err, &storeErr)
	})

	t.Run("rejects an add response without a hash", func(t *testing.T) {
		mockHTTP.EXPECT().
			Post(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]byte(`{}`), nil)

		_, err := client.Upload(context.Background(), "cat.png", []byte("data"))

		var storeErr *domain.StoreUnavailableError
		assert.ErrorAs(t, err, &storeErr)
	})
}

func TestIPFSClient_UploadJSON(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTP := mocks.NewMockHTTPClient(ctrl)
	client := contentstore.NewIPFSClient("http://localhost:5001", "https://ipfs.io", mockHTTP, adapter.NewJSON())

	mockHTTP.EXPECT().
		Post(gomock.Any(), "http://localhost:5001/api/v0/add", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ string, body io.Reader) ([]byte, error) {
			raw, err := io.ReadAll(body)
			require.NoError(t, err)
			assert.Contains(t, string(raw), `{"name":"doc"}`)

			return []byte(`{"Name":"doc.json","Hash":"QmDocHash","Size":"15"}`), nil
		})

	ref, err := client.UploadJSON(context.Background(), "doc.json", map[string]string{"name": "doc"})
	require.NoError(t, err)
	assert.Equal(t, "ipfs://QmDocHash", ref)
}

func TestIPFSClient_FetchJSON(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTP := mocks.NewMockHTTPClient(ctrl)
	client := contentstore.NewIPFSClient("http://localhost:5001", "https://ipfs.io", mockHTTP, adapter.NewJSON())

	t.Run("resolves the reference against the gateway", func(t *testing.T) {
		mockHTTP.EXPECT().
			Get(gomock.Any(), "https://ipfs.io/ipfs/QmDocHash", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, result interface{}) error {
				*(result.(*map[string]string)) = map[string]string{"name": "doc"}
				return nil
			})

		var out map[string]string
		require.NoError(t, client.FetchJSON(context.Background(), "ipfs://QmDocHash", &out))
		assert.Equal(t, "doc", out["name"])
	})

	t.Run("rejects an empty reference", func(t *testing.T) {
		var out map[string]string
		err := client.FetchJSON(context.Background(), "", &out)

		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("wraps fetch failures as store unavailable", func(t *testing.T) {
		mockHTTP.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("gateway timeout"))

		var out map[string]string
		err := client.FetchJSON(context.Background(), "QmDocHash", &out)

		var storeErr *domain.StoreUnavailableError
		assert.ErrorAs(t, err, &storeErr)
	})
}
