package domain

const (
	// Gateway constants
	DEFAULT_IPFS_GATEWAY = "https://ipfs.io"

	// Blockchain constants
	ETHEREUM_ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"

	// Pointer table key prefixes
	COLLECTION_POINTER_PREFIX = "collection_metadata_"
	TOKEN_POINTER_PREFIX      = "nft_metadata_"

	// SENTINEL_UPLOAD_FAILED marks an entity that exists on-chain but whose
	// metadata document upload failed. The pointer entry records the entity
	// so it is not lost, while signalling that no document is available.
	SENTINEL_UPLOAD_FAILED = "metadata_upload_failed"
)
