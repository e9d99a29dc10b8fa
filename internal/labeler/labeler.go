// Package labeler describes clothing photos using a Google Vision-style
// label detection API.
package labeler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/erazemk/garderoba/internal/model"
)

// DefaultEndpoint is the Vision API annotate endpoint.
const DefaultEndpoint = "https://vision.googleapis.com/v1/images:annotate"

const (
	// MaxResults is how many labels are requested per image.
	MaxResults = 5
	// DescriptionLabels is how many labels make up a description.
	DescriptionLabels = 3
)

// MaxResponseBytes caps how much of a response body is read.
const MaxResponseBytes = 32 << 20

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("label detection is disabled")

// Label is one detected label.
type Label struct {
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

type annotateRequest struct {
	Requests []imageRequest `json:"requests"`
}

type imageRequest struct {
	Image    imageContent `json:"image"`
	Features []feature    `json:"features"`
}

type imageContent struct {
	Content string `json:"content"`
}

type feature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults"`
}

type annotateResponse struct {
	Responses []struct {
		LabelAnnotations []Label   `json:"labelAnnotations"`
		Error            *apiError `json:"error"`
	} `json:"responses"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Client calls the label detection endpoint.
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

// Labels returns up to MaxResults labels for the image, as ranked by the service.
func (c *Client) Labels(ctx context.Context, img []byte) ([]Label, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	if len(img) == 0 {
		return nil, errors.New("empty image")
	}

	payload, err := json.Marshal(annotateRequest{
		Requests: []imageRequest{{
			Image:    imageContent{Content: base64.StdEncoding.EncodeToString(img)},
			Features: []feature{{Type: "LABEL_DETECTION", MaxResults: MaxResults}},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint: %w", err)
	}
	q := u.Query()
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// The URL carries the key; keep it out of logged errors.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := readLimited(resp.Body, c.maxResponse)
	if err != nil {
		return nil, err
	}

	var parsed annotateResponse
	decodeErr := json.Unmarshal(body, &parsed)

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		if decodeErr == nil && parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return nil, fmt.Errorf("label detection failed: status %d: %s", resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decoding response: %w", decodeErr)
	}

	if len(parsed.Responses) == 0 {
		return nil, nil
	}
	first := parsed.Responses[0]
	if first.Error != nil {
		return nil, fmt.Errorf("label detection failed: %s", first.Error.Message)
	}
	return first.LabelAnnotations, nil
}

// Describe returns a short description of the image built from its top labels.
func (c *Client) Describe(ctx context.Context, img []byte) (string, error) {
	labels, err := c.Labels(ctx, img)
	if err != nil {
		return "", err
	}
	return Summarize(labels), nil
}

// Summarize joins the first DescriptionLabels label descriptions with ", ".
// With no labels it returns model.DefaultDescription.
func Summarize(labels []Label) string {
	if len(labels) == 0 {
		return model.DefaultDescription
	}

	n := min(len(labels), DescriptionLabels)
	parts := make([]string, 0, n)
	for _, l := range labels[:n] {
		parts = append(parts, l.Description)
	}
	return strings.Join(parts, ", ")
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
