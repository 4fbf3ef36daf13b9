// Package search keeps the meilisearch dataset index in sync with the
// relational store. Indexing is best-effort: a failed index write is logged
// by the caller and never fails the originating request.
package search

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"

	"github.com/atjgmj/data-intelligence-platform/internal/entity"
)

const indexUID = "datasets"

type DatasetIndex struct {
	client *meilisearch.Client
}

// NewDatasetIndex creates the datasets index if missing and configures its
// attributes.
func NewDatasetIndex(host, apiKey string) (*DatasetIndex, error) {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	_, err := client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        indexUID,
		PrimaryKey: "id",
	})
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	task, err := client.Index(indexUID).UpdateFilterableAttributes(&[]string{"user_id", "file_type", "status"})
	if err != nil {
		return nil, fmt.Errorf("failed to update filterable attributes: %w", err)
	}
	if _, err := client.WaitForTask(task.TaskUID); err != nil {
		return nil, fmt.Errorf("failed to wait for filterable attributes update: %w", err)
	}

	task, err = client.Index(indexUID).UpdateSearchableAttributes(&[]string{"name", "description", "file_type"})
	if err != nil {
		return nil, fmt.Errorf("failed to update searchable attributes: %w", err)
	}
	if _, err := client.WaitForTask(task.TaskUID); err != nil {
		return nil, fmt.Errorf("failed to wait for searchable attributes update: %w", err)
	}

	return &DatasetIndex{client: client}, nil
}

// Index upserts the dataset's searchable document.
func (i *DatasetIndex) Index(ds *entity.Dataset) error {
	doc := map[string]interface{}{
		"id":          ds.ID.String(),
		"user_id":     ds.UserID.String(),
		"name":        ds.Name,
		"description": ds.Description,
		"file_type":   ds.FileType,
		"status":      string(ds.Status),
	}
	if _, err := i.client.Index(indexUID).AddDocuments([]map[string]interface{}{doc}); err != nil {
		return fmt.Errorf("failed to index dataset: %w", err)
	}
	return nil
}

// Remove drops the dataset's document from the index.
func (i *DatasetIndex) Remove(id uuid.UUID) error {
	if _, err := i.client.Index(indexUID).DeleteDocument(id.String()); err != nil {
		return fmt.Errorf("failed to remove dataset from index: %w", err)
	}
	return nil
}

// Search returns matching dataset documents for one owner only.
func (i *DatasetIndex) Search(ownerID uuid.UUID, query string) ([]interface{}, error) {
	result, err := i.client.Index(indexUID).Search(query, &meilisearch.SearchRequest{
		Filter: fmt.Sprintf("user_id = %s", ownerID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to perform search: %w", err)
	}
	return result.Hits, nil
}
