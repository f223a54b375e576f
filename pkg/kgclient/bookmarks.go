package kgclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

const (
	BookmarkType       = "https://core.kg.ebrains.eu/vocab/type/Bookmark"
	BookmarkOfProperty = "https://core.kg.ebrains.eu/vocab/bookmarkOf"

	instanceIRIPrefix = "https://kg.ebrains.eu/api/instances/"
	bookmarkSpace     = "myspace"
)

// AddBookmark creates a bookmark of the instance in the private space of
// the calling user and releases it
func (c *Client) AddBookmark(ctx context.Context, instanceID string) error {
	payload, err := json.Marshal(map[string]interface{}{
		"@type":            BookmarkType,
		BookmarkOfProperty: map[string]string{"@id": instanceIRIPrefix + instanceID},
	})
	if err != nil {
		return err
	}
	body, err := c.do(ctx, c.user, http.MethodPost, fmt.Sprintf("%s/instances?space=%s", c.endpoint, bookmarkSpace), payload)
	if err != nil {
		return fmt.Errorf("failed to create bookmark: %w", err)
	}
	var result struct {
		Data struct {
			ID string `json:"@id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to decode bookmark: %w", err)
	}
	bookmarkID, ok := lastSegmentUUID(result.Data.ID)
	if !ok {
		return nil
	}
	if _, err := c.do(ctx, c.user, http.MethodPut, fmt.Sprintf("%s/instances/%s/release", c.endpoint, bookmarkID), nil); err != nil {
		return fmt.Errorf("failed to release bookmark %s: %w", bookmarkID, err)
	}
	return nil
}

// DeleteBookmark unreleases and removes one bookmark instance
func (c *Client) DeleteBookmark(ctx context.Context, bookmarkID string) error {
	if _, err := c.do(ctx, c.user, http.MethodDelete, fmt.Sprintf("%s/instances/%s/release", c.endpoint, bookmarkID), nil); err != nil {
		return fmt.Errorf("failed to unrelease bookmark %s: %w", bookmarkID, err)
	}
	if _, err := c.do(ctx, c.user, http.MethodDelete, fmt.Sprintf("%s/instances/%s", c.endpoint, bookmarkID), nil); err != nil {
		return fmt.Errorf("failed to delete bookmark %s: %w", bookmarkID, err)
	}
	return nil
}

// BookmarkIDsOf lists the bookmarks the calling user holds on one instance
func (c *Client) BookmarkIDsOf(ctx context.Context, instanceID string) ([]string, error) {
	u := fmt.Sprintf("%s/instances?stage=%s&type=%s&space=%s&from=0&size=1000",
		c.endpoint, model.StageReleased, url.QueryEscape(BookmarkType), bookmarkSpace)
	body, err := c.do(ctx, c.user, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	var result struct {
		Data []map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode bookmarks: %w", err)
	}

	target := instanceIRIPrefix + instanceID
	var ids []string
	for _, b := range result.Data {
		var of struct {
			ID string `json:"@id"`
		}
		if err := json.Unmarshal(b[BookmarkOfProperty], &of); err != nil || of.ID != target {
			continue
		}
		var self string
		if err := json.Unmarshal(b["@id"], &self); err != nil {
			continue
		}
		if id, ok := lastSegmentUUID(self); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// IsBookmarked reports whether the calling user bookmarked the instance
func (c *Client) IsBookmarked(ctx context.Context, instanceID string) (bool, error) {
	ids, err := c.BookmarkIDsOf(ctx, instanceID)
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

func lastSegmentUUID(iri string) (string, bool) {
	if i := strings.LastIndex(iri, "/"); i >= 0 {
		iri = iri[i+1:]
	}
	id, err := uuid.Parse(iri)
	if err != nil {
		return "", false
	}
	return id.String(), true
}
