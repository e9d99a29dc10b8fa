// Package bgremove is a client for a PhotoRoom-style background removal API.
package bgremove

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/erazemk/garderoba/internal/imaging"
)

// DefaultEndpoint is the PhotoRoom segmentation endpoint.
const DefaultEndpoint = "https://sdk.photoroom.com/v1/segment"

// MaxResponseBytes caps how much of a response body is read.
const MaxResponseBytes = 32 << 20

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("background removal is disabled")

// APIError is a non-200 response from the service. Message is the response body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

// Client sends photos to the background removal endpoint.
type Client struct {
	endpoint    string
	apiKey      string
	http        *http.Client
	maxResponse int64
}

// New creates a client. An empty endpoint selects DefaultEndpoint; an empty
// apiKey yields a client whose calls fail with ErrDisabled.
func New(endpoint, apiKey string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint:    endpoint,
		apiKey:      apiKey,
		http:        &http.Client{Timeout: timeout},
		maxResponse: MaxResponseBytes,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// RemoveBackground returns the photo with a transparent background as PNG.
// On any failure it returns the original bytes, unchanged, together with
// the error, so callers can always continue with some image.
func (c *Client) RemoveBackground(ctx context.Context, img []byte) ([]byte, error) {
	out, err := c.segment(ctx, img)
	if err != nil {
		return img, err
	}
	return out, nil
}

func (c *Client) segment(ctx context.Context, img []byte) ([]byte, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}

	body, contentType, err := encodeForm(img)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	data, err := readLimited(resp.Body, c.maxResponse)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("decoding response image: %w", err)
	}
	return data, nil
}

// encodeForm builds the multipart body: image_file, format=png and
// bg_color=transparent.
func encodeForm(img []byte) (io.Reader, string, error) {
	mime := imaging.DetectMIME(img)
	if mime == "" {
		return nil, "", imaging.ErrUnsupportedFormat
	}
	filename := "image.jpg"
	if mime == "image/png" {
		filename = "image.png"
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image_file"; filename=%q`, filename))
	h.Set("Content-Type", mime)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(img); err != nil {
		return nil, "", err
	}

	fields := []struct{ name, value string }{
		{"format", "png"},
		{"bg_color", "transparent"},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// readLimited reads r, failing once more than limit bytes arrive.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("response larger than %d bytes", limit)
	}
	return data, nil
}
