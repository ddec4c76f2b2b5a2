package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ipfs/go-cid"

	"verifyhr/pkg/platform/sentinel"
)

// HTTPClient talks to a Pinata-style pinning service for publishing and a
// public gateway for fetches. The pinning service must store payload bytes
// verbatim; the returned CID is validated before use.
type HTTPClient struct {
	h        *http.Client
	endpoint string
	token    string
	gateway  string
}

// HTTPClientArgs configures the pinning transport.
type HTTPClientArgs struct {
	Endpoint string // pin endpoint, e.g. https://api.pinata.cloud/pinning/pinJSONToIPFS
	Token    string // bearer token
	Gateway  string // fetch gateway base, e.g. https://ipfs.io/ipfs
}

// NewHTTPClient builds the transport. Returns nil when no token is
// configured so the publisher degrades to inline locators.
func NewHTTPClient(args HTTPClientArgs) *HTTPClient {
	if args.Token == "" {
		return nil
	}
	if args.Endpoint == "" {
		args.Endpoint = "https://api.pinata.cloud/pinning/pinJSONToIPFS"
	}
	if args.Gateway == "" {
		args.Gateway = "https://ipfs.io/ipfs"
	}
	return &HTTPClient{
		h:        &http.Client{Timeout: 30 * time.Second},
		endpoint: args.Endpoint,
		token:    args.Token,
		gateway:  args.Gateway,
	}
}

type pinRequest struct {
	PinataOptions struct {
		CidVersion int `json:"cidVersion"`
	} `json:"pinataOptions"`
	PinataMetadata struct {
		Name string `json:"name"`
	} `json:"pinataMetadata"`
	PinataContent json.RawMessage `json:"pinataContent"`
}

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
	CID      string `json:"cid"`
}

func (c *HTTPClient) PublishJSON(ctx context.Context, payload []byte, name string) (string, error) {
	var pr pinRequest
	pr.PinataOptions.CidVersion = 1
	pr.PinataMetadata.Name = name
	pr.PinataContent = payload

	body, err := json.Marshal(pr)
	if err != nil {
		return "", fmt.Errorf("encode pin request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.h.Do(req)
	if err != nil {
		return "", fmt.Errorf("pin request: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("pin request returned status %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}

	var out pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode pin response: %w", err)
	}

	contentID := out.IpfsHash
	if contentID == "" {
		contentID = out.CID
	}
	if _, err := cid.Decode(contentID); err != nil {
		return "", fmt.Errorf("pin service returned invalid cid %q: %w", contentID, err)
	}

	return contentID, nil
}

func (c *HTTPClient) Fetch(ctx context.Context, contentID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.gateway+"/"+contentID, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.h.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway fetch: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("content %s: %w", contentID, sentinel.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("gateway returned status %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}

	return io.ReadAll(resp.Body)
}
