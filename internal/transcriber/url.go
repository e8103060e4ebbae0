package transcriber

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const defaultEndpoint = "wss://api.deepgram.com/v1/listen"

// buildURL derives the websocket connection target from the session config.
// Pure and deterministic: the same config always yields the same URL.
func buildURL(endpoint string, cfg Config) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("transcriber: invalid endpoint %q: %w", endpoint, err)
	}

	q := url.Values{}
	q.Set("encoding", cfg.Encoding.String())
	q.Set("sample_rate", strconv.Itoa(cfg.SampleRate))
	q.Set("channels", "1")
	q.Set("interim_results", "true")
	if cfg.Language != "" {
		q.Set("language", cfg.Language)
	}
	if cfg.Model != "" {
		q.Set("model", cfg.Model)
	}
	if cfg.Tier != "" {
		q.Set("tier", cfg.Tier)
	}
	if cfg.Version != "" {
		q.Set("version", cfg.Version)
	}
	if len(cfg.Keywords) > 0 {
		q.Set("keywords", strings.Join(cfg.Keywords, ","))
	}
	if cfg.Endpointing != nil && cfg.Endpointing.Type == EndpointingPunctuationBased {
		q.Set("punctuate", "true")
	}

	u.RawQuery = q.Encode()
	return u.String(), nil
}

// authHeader builds the authorization header carrying the API key.
func authHeader(apiKey string) http.Header {
	return http.Header{"Authorization": {"Token " + apiKey}}
}
