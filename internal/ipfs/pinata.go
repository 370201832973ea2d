package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/Yolazega/web3-music-platform-new-sub000/internal/config"
	"github.com/Yolazega/web3-music-platform-new-sub000/pkg/logger"
)

// Pinner uploads media to content-addressed storage and resolves CIDs to
// public gateway URLs.
type Pinner interface {
	Pin(ctx context.Context, name string, r io.Reader) (cid string, err error)
	GatewayURL(cid string) string
}

// PinataClient pins files through the Pinata HTTP API.
type PinataClient struct {
	endpoint    string
	jwt         string
	gatewayBase string
	http        *http.Client
}

func NewPinataClient(cfg config.IPFSConfig) *PinataClient {
	return &PinataClient{
		endpoint:    cfg.PinataEndpoint,
		jwt:         cfg.PinataJWT,
		gatewayBase: strings.TrimRight(cfg.GatewayBaseURL, "/"),
		http:        &http.Client{Timeout: 120 * time.Second},
	}
}

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

func (c *PinataClient) Pin(ctx context.Context, name string, r io.Reader) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("failed to build pin request: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("failed to read file for pinning: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize pin request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.jwt)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("pinning request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("pinning service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var result pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode pinning response: %w", err)
	}
	if result.IpfsHash == "" {
		return "", fmt.Errorf("pinning service returned no CID")
	}

	logger.Debug("Pinned file ", name, " as ", result.IpfsHash)
	return result.IpfsHash, nil
}

func (c *PinataClient) GatewayURL(cid string) string {
	return c.gatewayBase + "/" + cid
}
