// Package tts generates pronunciation audio for vocabulary words through
// the Google text-to-speech REST endpoint, keyed by API key. Generated
// clips are written to the audio directory and served as static files.
package tts

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/mirzamitdinovs/vocab-master/internal/logger"
)

const synthesizeURL = "https://texttospeech.googleapis.com/v1/text:synthesize"

type Client struct {
	apiKey     string
	language   string
	dir        string
	httpClient *http.Client
}

// NewClient creates a TTS client writing clips into dir. An empty apiKey
// yields a disabled client; Enabled reports it.
func NewClient(apiKey, language, dir string) *Client {
	return &Client{
		apiKey:     apiKey,
		language:   language,
		dir:        dir,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// SynthesizeToFile generates audio for text and stores it under the audio
// directory, returning the file name. Repeated calls for the same text reuse
// the existing file.
func (c *Client) SynthesizeToFile(ctx context.Context, text string) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("tts is not configured")
	}

	name := fileName(c.language, text)
	path := filepath.Join(c.dir, name)
	if _, err := os.Stat(path); err == nil {
		return name, nil
	}

	data, err := c.synthesize(ctx, text)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	logger.FromContext(ctx).Debug("audio written: %s (%d bytes)", name, len(data))
	return name, nil
}

func (c *Client) synthesize(ctx context.Context, text string) ([]byte, error) {
	reqBody, err := json.Marshal(map[string]any{
		"input": map[string]string{"text": text},
		"voice": map[string]any{
			"languageCode": c.language,
			"ssmlGender":   "FEMALE",
		},
		"audioConfig": map[string]string{"audioEncoding": "MP3"},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		synthesizeURL+"?key="+c.apiKey, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts api error %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		AudioContent string `json:"audioContent"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse tts response: %w", err)
	}
	return base64.StdEncoding.DecodeString(result.AudioContent)
}

func fileName(language, text string) string {
	h := sha256.Sum256([]byte(language + ":" + text))
	return hex.EncodeToString(h[:16]) + ".mp3"
}
