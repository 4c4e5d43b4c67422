// Package transcribe is the speech-to-text collaborator: a client for a
// Whisper-compatible transcription server plus rendering of transcript files.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	mferrors "github.com/otherjamesbrown/meetflow/pkg/errors"
	"github.com/otherjamesbrown/meetflow/pkg/logging"
)

// Segment is a timed portion of transcribed audio.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript is the result of a transcription call.
type Transcript struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

// Options tune a single transcription request. Zero values are omitted from
// the request so the server's defaults apply.
type Options struct {
	Language    string
	Task        string
	Temperature float64
}

// Config holds client settings.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client talks to a Whisper-compatible transcription endpoint.
type Client struct {
	config     Config
	httpClient *http.Client
	log        logging.Logger
}

// NewClient builds a Client for the given server.
func NewClient(config Config, log logging.Logger) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("transcription server url: %w", mferrors.ErrConfiguration)
	}
	if config.Model == "" {
		config.Model = "medium"
	}
	if config.Timeout <= 0 {
		// Transcription of long recordings is slow.
		config.Timeout = 30 * time.Minute
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		log:        log,
	}, nil
}

// Model returns the configured model name, used in transcript headers.
func (c *Client) Model() string {
	return c.config.Model
}

// Transcribe uploads the audio file and returns its transcript.
func (c *Client) Transcribe(ctx context.Context, audioPath string, opts Options) (Transcript, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return Transcript{}, mferrors.NewPipelineError(mferrors.ErrProcessingError, mferrors.StageTranscription,
			fmt.Sprintf("open audio: %v", err), err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fields := map[string]string{
		"model":           c.config.Model,
		"response_format": "verbose_json",
	}
	if opts.Language != "" {
		fields["language"] = opts.Language
	}
	if opts.Task != "" {
		fields["task"] = opts.Task
	}
	if opts.Temperature > 0 {
		fields["temperature"] = strconv.FormatFloat(opts.Temperature, 'f', -1, 64)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return Transcript{}, mferrors.NewPipelineError(mferrors.ErrProcessingError, mferrors.StageTranscription,
				fmt.Sprintf("write field %s: %v", k, err), err)
		}
	}

	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return Transcript{}, mferrors.NewPipelineError(mferrors.ErrProcessingError, mferrors.StageTranscription,
			fmt.Sprintf("create form file: %v", err), err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return Transcript{}, mferrors.NewPipelineError(mferrors.ErrProcessingError, mferrors.StageTranscription,
			fmt.Sprintf("copy audio: %v", err), err)
	}
	if err := mw.Close(); err != nil {
		return Transcript{}, mferrors.NewPipelineError(mferrors.ErrProcessingError, mferrors.StageTranscription,
			fmt.Sprintf("close multipart: %v", err), err)
	}

	url := c.config.BaseURL + "/v1/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return Transcript{}, mferrors.NewPipelineError(mferrors.ErrAPIError, mferrors.StageTranscription,
			fmt.Sprintf("create request: %v", err), err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return Transcript{}, mferrors.NewPipelineError(mferrors.ErrTimeout, mferrors.StageTranscription,
				"request timeout", err)
		}
		return Transcript{}, mferrors.NewPipelineError(mferrors.ErrAPIError, mferrors.StageTranscription,
			fmt.Sprintf("request failed: %v", err), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Transcript{}, mferrors.NewPipelineError(mferrors.ErrParseError, mferrors.StageTranscription,
			fmt.Sprintf("read response: %v", err), err)
	}
	if resp.StatusCode != http.StatusOK {
		return Transcript{}, mferrors.NewPipelineError(mferrors.ErrAPIError, mferrors.StageTranscription,
			fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(respBody)), nil)
	}

	var t Transcript
	if err := json.Unmarshal(respBody, &t); err != nil {
		return Transcript{}, mferrors.NewPipelineError(mferrors.ErrParseError, mferrors.StageTranscription,
			fmt.Sprintf("parse response: %v", err), err)
	}
	if t.Text == "" {
		return Transcript{}, mferrors.NewPipelineError(mferrors.ErrEmptyContent, mferrors.StageTranscription,
			"empty transcript in response", nil)
	}

	c.log.Info("transcription completed",
		logging.F("audio", filepath.Base(audioPath)),
		logging.F("language", t.Language),
		logging.F("segments", len(t.Segments)),
		logging.F("elapsed", time.Since(start).Round(time.Second).String()))

	return t, nil
}
