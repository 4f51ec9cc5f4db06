package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mxxx222/TennisBot-sub003/internal/pkg/config"
	"github.com/mxxx222/TennisBot-sub003/internal/pkg/models"
)

// Ensure HTTPStore implements RecordStore
var _ RecordStore = (*HTTPStore)(nil)

// HTTPStore talks to the external record API. The API enforces a hard
// throughput ceiling; pacing is the pipeline's job, this client only carries
// the per-call timeout and auth.
type HTTPStore struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

func NewHTTPStore(cfg config.HTTPStoreConfig) (*HTTPStore, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("store base_url is required")
	}

	return &HTTPStore{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiToken: cfg.APIToken,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

type createResponse struct {
	ID string `json:"id"`
}

// Create POSTs one record and returns the external ID assigned by the store.
// A 409 from the store maps to ErrDuplicateRecord.
func (s *HTTPStore) Create(ctx context.Context, record *models.MatchRecord) (string, error) {
	body, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/records", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	s.setHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("create record: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusConflict:
		return "", fmt.Errorf("record %s: %w", record.ID, ErrDuplicateRecord)
	default:
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("store returned status %d: %s", resp.StatusCode, string(payload))
	}

	var created createResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("decode create response: %w", err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("store returned empty external id for record %s", record.ID)
	}

	return created.ID, nil
}

// Query fetches existing records, either by explicit IDs or the most recent
// ones up to filter.Limit.
func (s *HTTPStore) Query(ctx context.Context, filter QueryFilter) ([]StoredRecord, error) {
	u, err := url.Parse(s.baseURL + "/records")
	if err != nil {
		return nil, fmt.Errorf("parse store url: %w", err)
	}

	q := u.Query()
	if len(filter.RecordIDs) > 0 {
		q.Set("record_ids", strings.Join(filter.RecordIDs, ","))
	}
	if filter.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", filter.Limit))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	s.setHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("store query returned status %d", resp.StatusCode)
	}

	var records []StoredRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode query response: %w", err)
	}

	return records, nil
}

func (s *HTTPStore) Close() error {
	s.httpClient.CloseIdleConnections()
	return nil
}

func (s *HTTPStore) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiToken)
	}
}
