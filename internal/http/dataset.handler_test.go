package http

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atjgmj/data-intelligence-platform/internal/entity"
)

func TestUploadDatasetEndToEnd(t *testing.T) {
	ctx, store := newTestContext(t)
	engine := NewHTTPService(ctx).Engine()
	user, token := createTestUser(t, ctx, "owner@example.com", entity.SkillLevelBeginner)
	_, otherToken := createTestUser(t, ctx, "other@example.com", entity.SkillLevelBeginner)

	content := []byte("a,b\n1,2\n3,4\n")
	body, contentType := uploadRequest(t, "my dataset", "a.csv", "text/csv", content)
	w := doRequest(engine, http.MethodPost, "/datasets/upload", token, body, contentType)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	ds := decodeBody(t, w)
	assert.Equal(t, "csv", ds["file_type"])
	assert.Equal(t, float64(len(content)), ds["file_size"])
	assert.Equal(t, "uploaded", ds["status"])
	assert.True(t, strings.HasPrefix(ds["file_path"].(string), user.ID.String()+"/"))
	assert.Equal(t, 1, store.Len())

	// The owner's listing has exactly this dataset, newest first.
	w = doRequest(engine, http.MethodGet, "/datasets/", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeList(t, w)
	require.Len(t, list, 1)
	assert.Equal(t, ds["id"], list[0]["id"])

	// Another user's token reads the same id as not found.
	w = doRequest(engine, http.MethodGet, "/datasets/"+ds["id"].(string), otherToken, nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(engine, http.MethodGet, "/datasets/", otherToken, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeList(t, w))
}

func TestUploadRejectsOversizedFileBeforeStorage(t *testing.T) {
	ctx, store := newTestContext(t)
	engine := NewHTTPService(ctx).Engine()
	_, token := createTestUser(t, ctx, "owner@example.com", entity.SkillLevelBeginner)

	oversized := bytes.Repeat([]byte("x"), int(ctx.Config.MaxFileSizeBytes())+1)
	body, contentType := uploadRequest(t, "too big", "big.csv", "text/csv", oversized)
	w := doRequest(engine, http.MethodPost, "/datasets/upload", token, body, contentType)

	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, 0, store.Len(), "no object may be written for a rejected upload")
}

func TestUploadRequiresName(t *testing.T) {
	ctx, store := newTestContext(t)
	engine := NewHTTPService(ctx).Engine()
	_, token := createTestUser(t, ctx, "owner@example.com", entity.SkillLevelBeginner)

	body, contentType := uploadRequest(t, "", "a.csv", "text/csv", []byte("a,b\n1,2\n"))
	w := doRequest(engine, http.MethodPost, "/datasets/upload", token, body, contentType)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, store.Len())
}

func TestUploadStorageFailure(t *testing.T) {
	ctx, store := newTestContext(t)
	engine := NewHTTPService(ctx).Engine()
	_, token := createTestUser(t, ctx, "owner@example.com", entity.SkillLevelBeginner)
	store.FailPuts = true

	body, contentType := uploadRequest(t, "doomed", "a.csv", "text/csv", []byte("a,b\n1,2\n"))
	w := doRequest(engine, http.MethodPost, "/datasets/upload", token, body, contentType)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	// The ingestion failure must not leave a dataset row behind.
	var count int64
	require.NoError(t, ctx.DB.Model(&entity.Dataset{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateDatasetPartial(t *testing.T) {
	ctx, _ := newTestContext(t)
	engine := NewHTTPService(ctx).Engine()
	_, token := createTestUser(t, ctx, "owner@example.com", entity.SkillLevelBeginner)

	body, contentType := uploadRequest(t, "original", "a.csv", "text/csv", []byte("a,b\n1,2\n"))
	w := doRequest(engine, http.MethodPost, "/datasets/upload", token, body, contentType)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody(t, w)["id"].(string)

	w = doJSON(engine, http.MethodPut, "/datasets/"+id, token, map[string]interface{}{"name": "renamed"})
	require.Equal(t, http.StatusOK, w.Code)
	ds := decodeBody(t, w)
	assert.Equal(t, "renamed", ds["name"])
	assert.Equal(t, "test upload", ds["description"])
	assert.Equal(t, "uploaded", ds["status"])

	// Unknown status values are rejected before touching the row.
	w = doJSON(engine, http.MethodPut, "/datasets/"+id, token, map[string]interface{}{"status": "exploded"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(engine, http.MethodPut, "/datasets/"+id, token, map[string]interface{}{"status": "ready"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ready", decodeBody(t, w)["status"])
}

func TestDeleteDataset(t *testing.T) {
	ctx, store := newTestContext(t)
	engine := NewHTTPService(ctx).Engine()
	_, token := createTestUser(t, ctx, "owner@example.com", entity.SkillLevelBeginner)

	body, contentType := uploadRequest(t, "doomed", "a.csv", "text/csv", []byte("a,b\n1,2\n"))
	w := doRequest(engine, http.MethodPost, "/datasets/upload", token, body, contentType)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody(t, w)["id"].(string)

	w = doRequest(engine, http.MethodDelete, "/datasets/"+id, token, nil, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(engine, http.MethodGet, "/datasets/", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeList(t, w))

	// Deleting the row does not delete the stored object.
	assert.Equal(t, 1, store.Len())

	w = doRequest(engine, http.MethodDelete, "/datasets/"+id, token, nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadDataset(t *testing.T) {
	ctx, _ := newTestContext(t)
	engine := NewHTTPService(ctx).Engine()
	_, token := createTestUser(t, ctx, "owner@example.com", entity.SkillLevelBeginner)
	_, otherToken := createTestUser(t, ctx, "other@example.com", entity.SkillLevelBeginner)

	content := []byte("a,b\n1,2\n")
	body, contentType := uploadRequest(t, "dl", "a.csv", "text/csv", content)
	w := doRequest(engine, http.MethodPost, "/datasets/upload", token, body, contentType)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody(t, w)["id"].(string)

	w = doRequest(engine, http.MethodGet, "/datasets/"+id+"/download", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, content, w.Body.Bytes())
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))

	w = doRequest(engine, http.MethodGet, "/datasets/"+id+"/download", otherToken, nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchDatasetsUnconfigured(t *testing.T) {
	ctx, _ := newTestContext(t)
	engine := NewHTTPService(ctx).Engine()
	_, token := createTestUser(t, ctx, "owner@example.com", entity.SkillLevelBeginner)

	w := doRequest(engine, http.MethodGet, "/datasets/search?q=sales", token, nil, "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doRequest(engine, http.MethodGet, "/datasets/search", token, nil, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}
