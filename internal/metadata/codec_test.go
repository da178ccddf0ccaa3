package metadata_test

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaic-market/metadata-sync/internal/domain"
	"github.com/mosaic-market/metadata-sync/internal/logger"
	"github.com/mosaic-market/metadata-sync/internal/metadata"
	"github.com/mosaic-market/metadata-sync/internal/mocks"
)

const (
	testContract = "0x1CBd3b2770909D4e10f157cABC84C7264073C9Ec"
	testWallet   = "0x8ba1f109551bD432803012645Ac136ddd64DBA72"
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

func TestCodec_ComposeCollectionDocument(t *testing.T) {
	tests := []struct {
		name        string
		input       metadata.CollectionInput
		expected    *metadata.CollectionDocument
		expectedErr string
	}{
		{
			name: "valid input",
			input: metadata.CollectionInput{
				Name:            "Cool Cats",
				Symbol:          "COOL",
				Description:     "A collection of cool cats",
				ProfileImageRef: "ipfs://QmProfile",
				BannerImageRef:  "ipfs://QmBanner",
				Tags:            []string{"Art", "art"},
				ContractAddress: testContract,
				CreatorWallet:   testWallet,
			},
			expected: &metadata.CollectionDocument{
				Name:            "Cool Cats",
				Symbol:          "COOL",
				Description:     "A collection of cool cats",
				ProfileImage:    "ipfs://QmProfile",
				BannerImage:     "ipfs://QmBanner",
				Tags:            []string{"art"},
				ContractAddress: testContract,
				CreatorWallet:   testWallet,
			},
		},
		{
			name: "empty name",
			input: metadata.CollectionInput{
				Name:            "  ",
				Symbol:          "COOL",
				ContractAddress: testContract,
			},
			expectedErr: "invalid name",
		},
		{
			name: "empty symbol",
			input: metadata.CollectionInput{
				Name:            "Cool Cats",
				ContractAddress: testContract,
			},
			expectedErr: "invalid symbol",
		},
		{
			name: "malformed contract address",
			input: metadata.CollectionInput{
				Name:            "Cool Cats",
				Symbol:          "COOL",
				ContractAddress: "not-an-address",
			},
			expectedErr: "invalid contractAddress",
		},
		{
			name: "malformed creator wallet",
			input: metadata.CollectionInput{
				Name:            "Cool Cats",
				Symbol:          "COOL",
				ContractAddress: testContract,
				CreatorWallet:   "0x123",
			},
			expectedErr: "invalid creatorWallet",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			codec := metadata.NewCodec(mocks.NewMockClock(ctrl))

			doc, err := codec.ComposeCollectionDocument(tt.input)
			if tt.expectedErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr)

				var validationErr *domain.ValidationError
				assert.ErrorAs(t, err, &validationErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, doc)
		})
	}
}

func TestCodec_ComposeNFTDocument(t *testing.T) {
	now := time.UnixMilli(1756700000000)

	t.Run("synthesizes minted event when no history is given", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockClock := mocks.NewMockClock(ctrl)
		mockClock.EXPECT().Now().Return(now)

		codec := metadata.NewCodec(mockClock)
		doc, err := codec.ComposeNFTDocument(metadata.NFTInput{
			Name:            "Cool Cat #1",
			ImageRef:        "ipfs://QmImage",
			ContractAddress: testContract,
			TokenID:         "1",
			OwnerWallet:     testWallet,
		})

		require.NoError(t, err)
		require.Len(t, doc.Transactions, 1)
		assert.Equal(t, metadata.TransactionMinted, doc.Transactions[0].Type)
		assert.Equal(t, testWallet, doc.Transactions[0].To)
		assert.Equal(t, now.UnixMilli(), doc.Transactions[0].Timestamp)
		// The hash is unknown until the mint confirms
		assert.Empty(t, doc.Transactions[0].TxHash)
	})

	t.Run("keeps the supplied history", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		history := []metadata.Transaction{
			{Type: metadata.TransactionMinted, To: testWallet, Timestamp: 1, TxHash: "0xabc"},
			{Type: metadata.TransactionListed, From: testWallet, Price: "1.5", Timestamp: 2, TxHash: ""},
		}

		codec := metadata.NewCodec(mocks.NewMockClock(ctrl))
		doc, err := codec.ComposeNFTDocument(metadata.NFTInput{
			Name:            "Cool Cat #1",
			ContractAddress: testContract,
			TokenID:         "1",
			OwnerWallet:     testWallet,
			Transactions:    history,
		})

		require.NoError(t, err)
		assert.Equal(t, history, doc.Transactions)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		codec := metadata.NewCodec(mocks.NewMockClock(ctrl))

		_, err := codec.ComposeNFTDocument(metadata.NFTInput{
			ContractAddress: "nope",
			TokenID:         "1",
			OwnerWallet:     testWallet,
		})
		assert.ErrorContains(t, err, "invalid contractAddress")

		_, err = codec.ComposeNFTDocument(metadata.NFTInput{
			ContractAddress: testContract,
			TokenID:         "one",
			OwnerWallet:     testWallet,
		})
		assert.ErrorContains(t, err, "invalid tokenId")
	})
}

func TestCodec_RoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClock := mocks.NewMockClock(ctrl)
	mockClock.EXPECT().Now().Return(time.UnixMilli(1756700000000))

	codec := metadata.NewCodec(mockClock)
	doc, err := codec.ComposeNFTDocument(metadata.NFTInput{
		Name:            "Cool Cat #1",
		Description:     "The first cool cat",
		ImageRef:        "ipfs://QmImage",
		ContractAddress: testContract,
		TokenID:         "1",
		OwnerWallet:     testWallet,
		Attributes: []metadata.Attribute{
			{TraitType: "fur", Value: "blue"},
			{TraitType: "fur", Value: "blue"}, // duplicates are allowed
			{TraitType: "eyes", Value: "laser", Rarity: "legendary"},
		},
	})
	require.NoError(t, err)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var decoded metadata.NFTDocument
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, *doc, decoded)

	// Field names on the wire follow the marketplace document format
	assert.Contains(t, string(raw), `"trait_type":"fur"`)
	assert.Contains(t, string(raw), `"tokenId":"1"`)
	assert.Contains(t, string(raw), `"ownerWallet"`)
	assert.Contains(t, string(raw), `"txHash"`)
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name     string
		tags     []string
		expected []string
	}{
		{
			name:     "lowercases and dedupes preserving first-seen order",
			tags:     []string{"Art", "art", "PFP"},
			expected: []string{"art", "pfp"},
		},
		{
			name:     "drops empty and whitespace tags",
			tags:     []string{" ", "", "gen-art"},
			expected: []string{"gen-art"},
		},
		{
			name:     "empty input",
			tags:     nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := metadata.NormalizeTags(tt.tags)
			assert.Equal(t, tt.expected, got)

			// Normalization is idempotent
			assert.Equal(t, got, metadata.NormalizeTags(got))
		})
	}
}

func TestCanonicalHash(t *testing.T) {
	doc := metadata.NFTDocument{
		Name:            "Cool Cat #1",
		ContractAddress: testContract,
		TokenID:         "1",
		OwnerWallet:     testWallet,
		Transactions:    []metadata.Transaction{{Type: metadata.TransactionMinted, Timestamp: 1}},
	}

	h1, err := doc.CanonicalHash()
	require.NoError(t, err)

	same := doc
	h2, err := same.CanonicalHash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	changed := doc
	changed.OwnerWallet = testContract
	h3, err := changed.CanonicalHash()
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}
