package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

// DefaultMaxBulkPayload is the size after which a bulk request is closed and
// a new one started
const DefaultMaxBulkPayload = 1000000

// BulkResult summarizes one _bulk call
type BulkResult struct {
	Items  int
	Failed int
}

type bulkResponse struct {
	Errors bool                                `json:"errors"`
	Items  []map[string]map[string]interface{} `json:"items"`
}

// Bulk sends NDJSON operations to an index. Failed items are logged and
// counted, they do not fail the call.
func (c *Client) Bulk(ctx context.Context, index string, operations []byte) (*BulkResult, error) {
	data, err := c.do(ctx, http.MethodPost, "/"+index+"/_bulk", "application/x-ndjson", operations)
	if err != nil {
		return nil, fmt.Errorf("bulk update of %s failed: %w", index, err)
	}
	var resp bulkResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode bulk response: %w", err)
	}
	result := &BulkResult{Items: len(resp.Items)}
	if !resp.Errors {
		return result, nil
	}
	for _, item := range resp.Items {
		for op, details := range item {
			status, _ := details["status"].(float64)
			if status >= 400 {
				result.Failed++
				c.logger.WithFields(map[string]interface{}{
					"index":     index,
					"operation": op,
					"id":        details["_id"],
					"status":    int(status),
				}).Errorf("Bulk operation failed: %v", details["error"])
			}
		}
	}
	return result, nil
}

// BulkAll sends several chunks of operations
func (c *Client) BulkAll(ctx context.Context, index string, chunks [][]byte) (*BulkResult, error) {
	c.logger.WithField("index", index).Infof("Updating index %s with %d bulk operations", index, len(chunks))
	total := &BulkResult{}
	for _, chunk := range chunks {
		r, err := c.Bulk(ctx, index, chunk)
		if err != nil {
			return total, err
		}
		total.Items += r.Items
		total.Failed += r.Failed
	}
	c.logger.WithField("index", index).Infof("Done updating index %s", index)
	return total, nil
}

// InsertOperations renders index operations for the documents. A chunk is
// closed once it grows beyond maxChars.
func InsertOperations(docs []model.TargetInstance, maxChars int) ([][]byte, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	chunks := [][]byte{nil}
	for _, d := range docs {
		current := chunks[len(chunks)-1]
		if len(current) > maxChars {
			current = nil
			chunks = append(chunks, current)
		}
		body, err := json.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("failed to encode document %s: %w", d.DocumentID(), err)
		}
		var buf bytes.Buffer
		buf.Write(current)
		fmt.Fprintf(&buf, "{ \"index\" : { \"_id\" : %q } }\n", d.DocumentID())
		buf.Write(body)
		buf.WriteByte('\n')
		chunks[len(chunks)-1] = buf.Bytes()
	}
	return chunks, nil
}

// DeleteOperations renders delete operations for every id not in keep
func DeleteOperations(ids []string, keep map[string]struct{}, maxChars int) [][]byte {
	var chunks [][]byte
	var current []byte
	for _, id := range ids {
		if _, ok := keep[id]; ok {
			continue
		}
		if len(current) > maxChars {
			chunks = append(chunks, current)
			current = nil
		}
		current = append(current, fmt.Sprintf("{ \"delete\" : { \"_id\" : %q } }\n", id)...)
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}

// IndexDocuments writes the documents into an index
func (c *Client) IndexDocuments(ctx context.Context, index string, docs []model.TargetInstance) (*BulkResult, error) {
	chunks, err := InsertOperations(docs, c.maxBulkChars)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return &BulkResult{}, nil
	}
	return c.BulkAll(ctx, index, chunks)
}

// RemoveDeprecated deletes the documents of one type whose id is not in keep
func (c *Client) RemoveDeprecated(ctx context.Context, index, docType string, keep map[string]struct{}) (*BulkResult, error) {
	ids, err := c.DocumentIDs(ctx, index, docType)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &BulkResult{}, nil
		}
		return nil, err
	}
	chunks := DeleteOperations(ids, keep, c.maxBulkChars)
	if len(chunks) == 0 {
		return &BulkResult{}, nil
	}
	return c.BulkAll(ctx, index, chunks)
}

// DeleteIndex removes an index, ErrNotFound when it does not exist
func (c *Client) DeleteIndex(ctx context.Context, index string) error {
	_, err := c.do(ctx, http.MethodDelete, "/"+index, "", nil)
	return err
}

// CreateIndex creates an index with the given settings and mappings
func (c *Client) CreateIndex(ctx context.Context, index string, mapping map[string]interface{}) error {
	if mapping == nil {
		mapping = map[string]interface{}{}
	}
	_, err := c.do(ctx, http.MethodPut, "/"+index, "application/json", mapping)
	return err
}

// RecreateIndex drops an index when it exists and creates it again
func (c *Client) RecreateIndex(ctx context.Context, index string, mapping map[string]interface{}) error {
	c.logger.WithField("index", index).Infof("Creating index %s", index)
	if err := c.DeleteIndex(ctx, index); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to delete index %s: %w", index, err)
	}
	if err := c.CreateIndex(ctx, index, mapping); err != nil {
		return fmt.Errorf("failed to create index %s: %w", index, err)
	}
	c.logger.WithField("index", index).Infof("Successfully created index %s", index)
	return nil
}

// IndexExists reports whether an index exists
func (c *Client) IndexExists(ctx context.Context, index string) (bool, error) {
	_, err := c.do(ctx, http.MethodHead, "/"+index, "", nil)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Reindex copies every document of source into target
func (c *Client) Reindex(ctx context.Context, source, target string) error {
	payload := map[string]interface{}{
		"source": map[string]string{"index": source},
		"dest":   map[string]string{"index": target},
	}
	_, err := c.do(ctx, http.MethodPost, "/_reindex", "application/json", payload)
	return err
}

// PromoteTemporary copies a temporary index into its final index and drops it
func (c *Client) PromoteTemporary(ctx context.Context, temporary, target string) error {
	if err := c.Reindex(ctx, temporary, target); err != nil {
		return fmt.Errorf("failed to reindex %s into %s: %w", temporary, target, err)
	}
	if err := c.DeleteIndex(ctx, temporary); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to delete %s: %w", temporary, err)
	}
	return nil
}
