package contentstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"

	"github.com/gabriel-vasile/mimetype"

	"github.com/mosaic-market/metadata-sync/internal/adapter"
	"github.com/mosaic-market/metadata-sync/internal/domain"
)

// Client defines the content-addressed store operations used by the
// synchronizer. Upload failures surface as StoreUnavailableError; the client
// does not re-attempt a failed upload, so a successfully stored asset keeps
// its reference even when a later upload in the same operation fails.
//
//go:generate mockgen -source=client.go -destination=../mocks/contentstore.go -package=mocks -mock_names=Client=MockContentClient
type Client interface {
	// Upload stores raw bytes and returns an immutable content reference
	Upload(ctx context.Context, filename string, data []byte) (string, error)

	// UploadJSON marshals the document and stores it as a JSON file
	UploadJSON(ctx context.Context, name string, doc interface{}) (string, error)

	// FetchJSON retrieves the content behind a reference and unmarshals it
	FetchJSON(ctx context.Context, ref string, result interface{}) error
}

// addResponse is the response of the IPFS add endpoint
type addResponse struct {
	Name string `json:"Name"`
	Hash string `json:"Hash"`
	Size string `json:"Size"`
}

// IPFSClient implements Client against the IPFS HTTP API
type IPFSClient struct {
	apiURL     string
	gatewayURL string
	httpClient adapter.HTTPClient
	json       adapter.JSON
}

// NewIPFSClient creates a content store client backed by an IPFS node API and
// a public gateway for reads
func NewIPFSClient(apiURL, gatewayURL string, httpClient adapter.HTTPClient, jsonAdapter adapter.JSON) *IPFSClient {
	return &IPFSClient{
		apiURL:     apiURL,
		gatewayURL: gatewayURL,
		httpClient: httpClient,
		json:       jsonAdapter,
	}
}

// Upload stores raw bytes on the IPFS node and returns an ipfs:// reference.
// The content type is detected from the data for the multipart part header.
func (c *IPFSClient) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	contentType := mimetype.Detect(data).String()
	return c.add(ctx, filename, contentType, data)
}

// UploadJSON marshals the document and stores it as a JSON file
func (c *IPFSClient) UploadJSON(ctx context.Context, name string, doc interface{}) (string, error) {
	data, err := c.json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}

	return c.add(ctx, name, "application/json", data)
}

// FetchJSON resolves the reference against the configured gateway, retrieves
// the content, and unmarshals it into result
func (c *IPFSClient) FetchJSON(ctx context.Context, ref string, result interface{}) error {
	url := Resolve(ref, c.gatewayURL)
	if url == "" {
		return domain.NewValidationError("ref", "must not be empty")
	}

	if err := c.httpClient.Get(ctx, url, result); err != nil {
		return &domain.StoreUnavailableError{Err: err}
	}

	return nil
}

// add posts a single file to the IPFS add endpoint and returns its reference
func (c *IPFSClient) add(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("failed to create multipart section: %w", err)
	}

	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write multipart body: %w", err)
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	respBody, err := c.httpClient.Post(ctx, c.apiURL+"/api/v0/add", writer.FormDataContentType(), &body)
	if err != nil {
		return "", &domain.StoreUnavailableError{Err: err}
	}

	var resp addResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", &domain.StoreUnavailableError{Err: fmt.Errorf("failed to decode add response: %w", err)}
	}

	if resp.Hash == "" {
		return "", &domain.StoreUnavailableError{Err: fmt.Errorf("add response carries no content hash")}
	}

	return "ipfs://" + resp.Hash, nil
}
