// Package content fetches puzzle data over plain HTTP GET as JSON documents
// at conventional paths.
package content

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"github.com/myrjola/dailysleuth/internal/errors"
	"github.com/myrjola/dailysleuth/internal/models"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// maxDocumentBytes caps how much of a content document we are willing to
// read. Puzzle documents are a few kilobytes.
const maxDocumentBytes = 1 << 20

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a content client for the given base URL. A nil
// httpClient falls back to http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger.With("source", "content.Client"),
	}
}

// Manifest fetches the content index listing the daily pool and packs.
func (c *Client) Manifest(ctx context.Context) (*models.Manifest, error) {
	body, err := c.get(ctx, "/api/index.json")
	if err != nil {
		return nil, err
	}
	var manifest models.Manifest
	if err = json.Unmarshal(body, &manifest); err != nil {
		return nil, errors.Wrap(err, "unmarshal manifest")
	}
	return &manifest, nil
}

// DailyPuzzle fetches a puzzle from the daily pool by id.
func (c *Client) DailyPuzzle(ctx context.Context, puzzleID string) (*models.Puzzle, error) {
	return c.puzzle(ctx, fmt.Sprintf("/api/daily/%s.json", puzzleID))
}

// PackPuzzle fetches a practice-pack puzzle by id.
func (c *Client) PackPuzzle(ctx context.Context, puzzleID string) (*models.Puzzle, error) {
	return c.puzzle(ctx, fmt.Sprintf("/api/packs/%s.json", puzzleID))
}

func (c *Client) puzzle(ctx context.Context, path string) (*models.Puzzle, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	var puzzle models.Puzzle
	if err = json.Unmarshal(body, &puzzle); err != nil {
		return nil, errors.Wrap(err, "unmarshal puzzle", slog.String("path", path))
	}
	if err = puzzle.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate puzzle", slog.String("path", path))
	}
	return &puzzle, nil
}

// Solution fetches the solution document for a puzzle. Solutions are served
// either as a raw JSON object or as a base64-encoded JSON string; both are
// decoded transparently.
//
// This must only be called after the player has confirmed an accusation.
func (c *Client) Solution(ctx context.Context, puzzleID string) (*models.Solution, error) {
	body, err := c.get(ctx, fmt.Sprintf("/api/solutions/%s.json", puzzleID))
	if err != nil {
		return nil, err
	}

	// A base64 transport wraps the object in a JSON string.
	var encoded string
	if json.Unmarshal(body, &encoded) == nil {
		if body, err = base64.StdEncoding.DecodeString(encoded); err != nil {
			return nil, errors.Wrap(err, "decode base64 solution", slog.String("puzzleID", puzzleID))
		}
	}

	var solution models.Solution
	if err = json.Unmarshal(body, &solution); err != nil {
		return nil, errors.Wrap(err, "unmarshal solution", slog.String("puzzleID", puzzleID))
	}
	if solution.Culprit == "" {
		return nil, errors.New("solution has no culprit", slog.String("puzzleID", puzzleID))
	}
	return &solution, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request", slog.String("url", url))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch document", slog.String("url", url))
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("could not close response body", errors.SlogError(closeErr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("unexpected status",
			slog.String("url", url),
			slog.Int("status", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, errors.Wrap(err, "read document", slog.String("url", url))
	}
	return body, nil
}
