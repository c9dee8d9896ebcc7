package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrNotConfigured = errors.New("translation api key is not configured")
	ErrInvalidAPIKey = errors.New("translation api key is invalid or has insufficient permissions")
	ErrQuotaExceeded = errors.New("translation api quota exceeded")
)

// maxChunkSize is the per-request text limit of the Translate v2 API.
const maxChunkSize = 5000

// Client calls the Google Translate v2 REST endpoint. Long texts are split
// at paragraph boundaries and translated chunk by chunk, sequentially; a
// failed chunk fails the whole translation.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		apiKey:     apiKey,
		baseURL:    baseURL,
	}
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	Key    string `json:"key"`
}

type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

// TranslateToMarathi translates English text to Marathi.
func (c *Client) TranslateToMarathi(ctx context.Context, text string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	chunks := SplitIntoChunks(text, maxChunkSize)
	translated := make([]string, 0, len(chunks))

	for _, chunk := range chunks {
		out, err := c.translateChunk(ctx, chunk)

		if err != nil {
			return "", err
		}

		translated = append(translated, out)
	}

	return strings.Join(translated, "\n\n"), nil
}

func (c *Client) translateChunk(ctx context.Context, chunk string) (string, error) {
	body, err := json.Marshal(translateRequest{
		Q:      chunk,
		Source: "en",
		Target: "mr",
		Format: "text",
		Key:    c.apiKey,
	})

	if err != nil {
		return "", err
	}

	url := c.baseURL + "/language/translate/v2"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))

	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)

	if err != nil {
		return "", fmt.Errorf("translate request failed: %w", err)
	}

	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to parsing
	case http.StatusForbidden:
		return "", ErrInvalidAPIKey
	case http.StatusTooManyRequests:
		return "", ErrQuotaExceeded
	default:
		return "", fmt.Errorf("translate returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)

	if err != nil {
		return "", err
	}

	var parsed translateResponse

	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("translate returned invalid JSON: %w", err)
	}

	if len(parsed.Data.Translations) == 0 {
		return "", errors.New("invalid translation response format")
	}

	return parsed.Data.Translations[0].TranslatedText, nil
}
