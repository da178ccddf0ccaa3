package metadata_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaic-market/metadata-sync/internal/metadata"
)

func baseDocument() metadata.NFTDocument {
	return metadata.NFTDocument{
		Name:                "Cool Cat #1",
		ContractAddress:     testContract,
		TokenID:             "1",
		OwnerWallet:         testWallet,
		CurrentListingPrice: "2.5",
		Offers: []metadata.Offer{
			{OfferAddress: testContract, Price: "2.0", Timestamp: 10},
		},
		Transactions: []metadata.Transaction{
			{Type: metadata.TransactionMinted, To: testWallet, Timestamp: 1, TxHash: "0xmint"},
			{Type: metadata.TransactionListed, From: testWallet, Price: "2.5", Timestamp: 5},
		},
	}
}

func TestWithTransfer(t *testing.T) {
	original := baseDocument()
	event := metadata.Transaction{
		Type:      metadata.TransactionSold,
		From:      testWallet,
		To:        testContract,
		Price:     "2.5",
		Timestamp: 20,
		TxHash:    "0xsale",
	}

	updated := metadata.WithTransfer(original, testContract, event)

	// Exactly one event appended, prior history untouched
	require.Len(t, updated.Transactions, len(original.Transactions)+1)
	assert.Equal(t, original.Transactions, updated.Transactions[:len(original.Transactions)])
	assert.Equal(t, event, updated.Transactions[len(updated.Transactions)-1])

	// Ownership replaced, listing and offers cleared
	assert.Equal(t, testContract, updated.OwnerWallet)
	assert.Empty(t, updated.CurrentListingPrice)
	assert.Equal(t, "2.5", updated.PreviousPrice)
	assert.Empty(t, updated.Offers)

	// The input document is never mutated
	assert.Equal(t, baseDocument(), original)
}

func TestWithOffer(t *testing.T) {
	original := baseDocument()
	offer := metadata.Offer{OfferAddress: testWallet, Price: "2.2", Timestamp: 15}

	updated := metadata.WithOffer(original, offer)

	require.Len(t, updated.Offers, len(original.Offers)+1)
	assert.Equal(t, offer, updated.Offers[len(updated.Offers)-1])
	assert.Equal(t, original.Transactions, updated.Transactions)
	assert.Equal(t, baseDocument(), original)
}

func TestWithListing(t *testing.T) {
	t.Run("relist with event", func(t *testing.T) {
		original := baseDocument()
		event := metadata.Transaction{Type: metadata.TransactionListed, From: testWallet, Price: "3.0", Timestamp: 30}

		updated := metadata.WithListing(original, "3.0", original.CurrentListingPrice, &event)

		assert.Equal(t, "3.0", updated.CurrentListingPrice)
		assert.Equal(t, "2.5", updated.PreviousPrice)
		require.Len(t, updated.Transactions, len(original.Transactions)+1)
		assert.Equal(t, event, updated.Transactions[len(updated.Transactions)-1])
		assert.Equal(t, baseDocument(), original)
	})

	t.Run("delist without event keeps history", func(t *testing.T) {
		original := baseDocument()

		updated := metadata.WithListing(original, "", original.CurrentListingPrice, nil)

		assert.Empty(t, updated.CurrentListingPrice)
		assert.Equal(t, "2.5", updated.PreviousPrice)
		assert.Equal(t, original.Transactions, updated.Transactions)
	})
}
