package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/dmitrymomot/orggate/pkg/audit"
)

// AuditStore indexes audit events, one document per event.
type AuditStore struct {
	client *opensearch.Client
	index  string
}

func NewAuditStore(client *opensearch.Client, cfg Config) *AuditStore {
	return &AuditStore{client: client, index: cfg.AuditIndex}
}

func (s *AuditStore) StoreBatch(ctx context.Context, events []audit.Event) error {
	if len(events) == 0 {
		return nil
	}

	body, err := bulkBody(s.index, events)
	if err != nil {
		return err
	}

	res, err := opensearchapi.BulkRequest{Body: bytes.NewReader(body)}.Do(ctx, s.client)
	if err != nil {
		return errors.Join(ErrBulkFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.Join(ErrBulkFailed, fmt.Errorf("status %d", res.StatusCode))
	}

	var out bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return errors.Join(ErrBulkFailed, err)
	}
	return out.err()
}

type auditDocument struct {
	Action     string         `json:"action"`
	Result     string         `json:"result"`
	AccountID  string         `json:"account_id,omitempty"`
	Provider   string         `json:"provider,omitempty"`
	ExternalID string         `json:"external_id,omitempty"`
	Reason     string         `json:"reason,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	IP         string         `json:"ip,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"@timestamp"`
}

func newAuditDocument(e audit.Event) auditDocument {
	return auditDocument{
		Action:     e.Action,
		Result:     string(e.Result),
		AccountID:  e.AccountID,
		Provider:   e.Provider,
		ExternalID: e.ExternalID,
		Reason:     e.Reason,
		RequestID:  e.RequestID,
		IP:         e.IP,
		UserAgent:  e.UserAgent,
		Metadata:   e.Metadata,
		CreatedAt:  e.CreatedAt.UTC(),
	}
}

// bulkBody renders the NDJSON payload: an index action line followed by the
// document, for every event.
func bulkBody(index string, events []audit.Event) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, e := range events {
		action := map[string]map[string]string{
			"index": {"_index": index, "_id": e.ID.String()},
		}
		if err := enc.Encode(action); err != nil {
			return nil, err
		}
		if err := enc.Encode(newAuditDocument(e)); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error,omitempty"`
	} `json:"items"`
}

func (r bulkResponse) err() error {
	if !r.Errors {
		return nil
	}
	var errs []error
	for _, item := range r.Items {
		for _, op := range item {
			if op.Error != nil {
				errs = append(errs, fmt.Errorf("document %s: %s: %s", op.ID, op.Error.Type, op.Error.Reason))
			}
		}
	}
	return errors.Join(ErrBulkFailed, errors.Join(errs...))
}
