package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	mferrors "github.com/otherjamesbrown/meetflow/pkg/errors"
	"github.com/otherjamesbrown/meetflow/pkg/logging"
)

const (
	defaultBaseURL = "https://api.notion.com"
	notionVersion  = "2022-06-28"

	// Notion caps multi_select payloads; keep participant lists short.
	maxParticipants = 10
)

// Config holds client settings. DatabaseID is required for page creation;
// TasksDatabaseID only for task creation.
type Config struct {
	Token           string
	BaseURL         string
	DatabaseID      string
	TasksDatabaseID string
	Timeout         time.Duration
}

// Client talks to the Notion API.
type Client struct {
	config     Config
	httpClient *http.Client
	log        logging.Logger
	now        func() time.Time
}

// NewClient builds a Client. The token must be non-empty.
func NewClient(config Config, log logging.Logger) (*Client, error) {
	if config.Token == "" {
		return nil, fmt.Errorf("notion token: %w", mferrors.ErrConfiguration)
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		log:        log,
		now:        time.Now,
	}, nil
}

// PageRequest carries everything needed to publish one meeting page.
type PageRequest struct {
	Title        string
	Transcript   string
	Summary      string
	AudioFile    string
	Participants []string
}

// Task is one extracted action item destined for the tasks database.
type Task struct {
	Task     string
	Owner    string
	DueDate  string
	Priority string
}

type pageCreateRequest struct {
	Parent     map[string]string          `json:"parent"`
	Properties map[string]json.RawMessage `json:"properties"`
	Children   []Block                    `json:"children,omitempty"`
}

type pageCreateResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateMeetingPage publishes the summary as a page in the configured
// database and returns the page URL. The transcript is not embedded in the
// page body; it lives on disk and the page links the audio file instead.
func (c *Client) CreateMeetingPage(ctx context.Context, req PageRequest) (string, error) {
	if c.config.DatabaseID == "" {
		return "", fmt.Errorf("notion database id: %w", mferrors.ErrConfiguration)
	}

	properties := map[string]json.RawMessage{
		"Name": mustJSON(map[string]any{
			"title": []map[string]any{{"text": map[string]string{"content": req.Title}}},
		}),
		"Date": mustJSON(map[string]any{
			"date": map[string]string{"start": c.now().Format(time.RFC3339)},
		}),
		"Type":   mustJSON(map[string]any{"select": map[string]string{"name": "Meeting"}}),
		"Status": mustJSON(map[string]any{"select": map[string]string{"name": "Processed"}}),
	}
	if req.AudioFile != "" {
		properties["Audio File"] = mustJSON(map[string]any{"url": "file://" + req.AudioFile})
	}
	if len(req.Participants) > 0 {
		names := req.Participants
		if len(names) > maxParticipants {
			names = names[:maxParticipants]
		}
		opts := make([]map[string]string, 0, len(names))
		for _, n := range names {
			opts = append(opts, map[string]string{"name": n})
		}
		properties["Participants"] = mustJSON(map[string]any{"multi_select": opts})
	}

	children := MarkdownToBlocks(req.Summary)

	divider := newBlock("divider")
	divider.Divider = &struct{}{}
	footer := newBlock("paragraph")
	footer.Paragraph = &BlockText{RichText: []RichText{
		plainText(fmt.Sprintf("Generated: %s | meetflow pipeline", c.now().Format("2006-01-02 15:04:05"))),
	}}
	children = append(children, divider, footer)

	resp, err := c.createPage(ctx, pageCreateRequest{
		Parent:     map[string]string{"database_id": c.config.DatabaseID},
		Properties: properties,
		Children:   children,
	})
	if err != nil {
		return "", err
	}

	c.log.Info("created meeting page",
		logging.F("title", req.Title),
		logging.F("url", resp.URL))
	return resp.URL, nil
}

// CreateTask creates one action-item page in the tasks database.
func (c *Client) CreateTask(ctx context.Context, task Task) (string, error) {
	if c.config.TasksDatabaseID == "" {
		return "", fmt.Errorf("notion tasks database id: %w", mferrors.ErrConfiguration)
	}

	properties := map[string]json.RawMessage{
		"Name": mustJSON(map[string]any{
			"title": []map[string]any{{"text": map[string]string{"content": task.Task}}},
		}),
		"Status": mustJSON(map[string]any{"select": map[string]string{"name": "Not started"}}),
	}
	if task.Owner != "" {
		properties["Owner"] = mustJSON(map[string]any{
			"rich_text": []map[string]any{{"text": map[string]string{"content": task.Owner}}},
		})
	}
	if task.DueDate != "" {
		properties["Due"] = mustJSON(map[string]any{
			"rich_text": []map[string]any{{"text": map[string]string{"content": task.DueDate}}},
		})
	}
	if task.Priority != "" {
		properties["Priority"] = mustJSON(map[string]any{"select": map[string]string{"name": task.Priority}})
	}

	resp, err := c.createPage(ctx, pageCreateRequest{
		Parent:     map[string]string{"database_id": c.config.TasksDatabaseID},
		Properties: properties,
	})
	if err != nil {
		return "", err
	}

	c.log.Info("created task", logging.F("task", task.Task), logging.F("url", resp.URL))
	return resp.URL, nil
}

// TestConnection verifies the token by fetching the bot user.
func (c *Client) TestConnection(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/v1/users/me", nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return mferrors.NewPipelineError(mferrors.ErrAPIError, mferrors.StagePublishing,
			fmt.Sprintf("request failed: %v", err), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return mferrors.NewPipelineError(mferrors.ErrAPIError, mferrors.StagePublishing,
			fmt.Sprintf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}
	return nil
}

func (c *Client) createPage(ctx context.Context, page pageCreateRequest) (*pageCreateResponse, error) {
	body, err := json.Marshal(page)
	if err != nil {
		return nil, mferrors.NewPipelineError(mferrors.ErrParseError, mferrors.StagePublishing,
			fmt.Sprintf("marshal page: %v", err), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/v1/pages", bytes.NewReader(body))
	if err != nil {
		return nil, mferrors.NewPipelineError(mferrors.ErrAPIError, mferrors.StagePublishing,
			fmt.Sprintf("create request: %v", err), err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, mferrors.NewPipelineError(mferrors.ErrTimeout, mferrors.StagePublishing,
				"request timeout", err)
		}
		return nil, mferrors.NewPipelineError(mferrors.ErrAPIError, mferrors.StagePublishing,
			fmt.Sprintf("request failed: %v", err), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, mferrors.NewPipelineError(mferrors.ErrParseError, mferrors.StagePublishing,
			fmt.Sprintf("read response: %v", err), err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, mferrors.NewPipelineError(mferrors.ErrRateLimit, mferrors.StagePublishing,
			fmt.Sprintf("HTTP 429: %s", string(respBody)), nil)
	case resp.StatusCode != http.StatusOK:
		return nil, mferrors.NewPipelineError(mferrors.ErrAPIError, mferrors.StagePublishing,
			fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(respBody)), nil)
	}

	var created pageCreateResponse
	if err := json.Unmarshal(respBody, &created); err != nil {
		return nil, mferrors.NewPipelineError(mferrors.ErrParseError, mferrors.StagePublishing,
			fmt.Sprintf("parse response: %v", err), err)
	}
	return &created, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("Notion-Version", notionVersion)
	req.Header.Set("Content-Type", "application/json")
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
