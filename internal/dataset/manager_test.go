package dataset

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/atjgmj/data-intelligence-platform/internal/entity"
	"github.com/atjgmj/data-intelligence-platform/internal/ingest"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Dataset{},
		&entity.AnalysisHistory{},
		&entity.TransformationPipeline{},
		&entity.Dashboard{},
	))
	return db
}

func newTestUser(t *testing.T, db *gorm.DB) *entity.User {
	t.Helper()
	user := entity.User{
		Email:        fmt.Sprintf("%s@example.com", uuid.New()),
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func testResult(key string) *ingest.Result {
	return &ingest.Result{
		StorageKey: key,
		ByteCount:  14,
		Category:   "csv",
		Metadata: map[string]interface{}{
			"original_filename": "a.csv",
			"content_type":      "text/csv",
			"detected_type":     "text/csv",
		},
	}
}

func TestCreateForcesUploadedStatus(t *testing.T) {
	db := newTestDB(t)
	m := NewManager(db)
	owner := newTestUser(t, db)

	ds, err := m.Create(context.Background(), owner.ID, "sales", "q3 numbers", testResult(owner.ID.String()+"/k1.csv"))
	require.NoError(t, err)

	assert.Equal(t, entity.DatasetStatusUploaded, ds.Status)
	assert.Equal(t, int64(14), ds.FileSize)
	assert.Equal(t, "csv", ds.FileType)
	assert.NotEqual(t, uuid.Nil, ds.ID)
	assert.Equal(t, "text/csv", ds.Metadata["detected_type"])
	assert.NotNil(t, ds.SchemaInfo)
	assert.Empty(t, ds.SchemaInfo)
}

func TestListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	m := NewManager(db)
	owner := newTestUser(t, db)

	for i := 0; i < 3; i++ {
		ds := entity.Dataset{
			UserID:    owner.ID,
			Name:      fmt.Sprintf("ds-%d", i),
			CreatedAt: time.Now().Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&ds).Error)
	}

	list, err := m.List(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "ds-2", list[0].Name)
	assert.Equal(t, "ds-0", list[2].Name)
}

func TestGetIsScopedByOwner(t *testing.T) {
	db := newTestDB(t)
	m := NewManager(db)
	owner := newTestUser(t, db)
	other := newTestUser(t, db)

	ds, err := m.Create(context.Background(), owner.ID, "mine", "", testResult(owner.ID.String()+"/k2.csv"))
	require.NoError(t, err)

	got, err := m.Get(context.Background(), owner.ID, ds.ID)
	require.NoError(t, err)
	assert.Equal(t, ds.ID, got.ID)

	// Another user's lookup reads as not found, never forbidden.
	_, err = m.Get(context.Background(), other.ID, ds.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.Get(context.Background(), owner.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateAppliesOnlyPresentFields(t *testing.T) {
	db := newTestDB(t)
	m := NewManager(db)
	owner := newTestUser(t, db)

	ds, err := m.Create(context.Background(), owner.ID, "old name", "old description", testResult(owner.ID.String()+"/k3.csv"))
	require.NoError(t, err)

	newName := "new name"
	updated, err := m.Update(context.Background(), owner.ID, ds.ID, Patch{Name: &newName})
	require.NoError(t, err)

	assert.Equal(t, "new name", updated.Name)
	assert.Equal(t, "old description", updated.Description)
	assert.Equal(t, entity.DatasetStatusUploaded, updated.Status)

	status := entity.DatasetStatusReady
	updated, err = m.Update(context.Background(), owner.ID, ds.ID, Patch{
		Status:     &status,
		SchemaInfo: map[string]interface{}{"columns": []interface{}{"a", "b"}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DatasetStatusReady, updated.Status)
	assert.Equal(t, "new name", updated.Name)
	assert.Contains(t, updated.SchemaInfo, "columns")
}

func TestUpdateScopedByOwner(t *testing.T) {
	db := newTestDB(t)
	m := NewManager(db)
	owner := newTestUser(t, db)
	other := newTestUser(t, db)

	ds, err := m.Create(context.Background(), owner.ID, "mine", "", testResult(owner.ID.String()+"/k4.csv"))
	require.NoError(t, err)

	name := "hijacked"
	_, err = m.Update(context.Background(), other.ID, ds.ID, Patch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCascadesAnalyses(t *testing.T) {
	db := newTestDB(t)
	m := NewManager(db)
	owner := newTestUser(t, db)

	ds, err := m.Create(context.Background(), owner.ID, "doomed", "", testResult(owner.ID.String()+"/k5.csv"))
	require.NoError(t, err)

	analysis := entity.AnalysisHistory{
		UserID:    owner.ID,
		DatasetID: ds.ID,
		QueryText: "select 1",
	}
	require.NoError(t, db.Create(&analysis).Error)

	require.NoError(t, m.Delete(context.Background(), owner.ID, ds.ID))

	list, err := m.List(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	var analysisCount int64
	require.NoError(t, db.Model(&entity.AnalysisHistory{}).Where("dataset_id = ?", ds.ID).Count(&analysisCount).Error)
	assert.Zero(t, analysisCount)
}

func TestDeleteScopedByOwner(t *testing.T) {
	db := newTestDB(t)
	m := NewManager(db)
	owner := newTestUser(t, db)
	other := newTestUser(t, db)

	ds, err := m.Create(context.Background(), owner.ID, "mine", "", testResult(owner.ID.String()+"/k6.csv"))
	require.NoError(t, err)

	assert.ErrorIs(t, m.Delete(context.Background(), other.ID, ds.ID), ErrNotFound)

	// Still there for the real owner.
	_, err = m.Get(context.Background(), owner.ID, ds.ID)
	assert.NoError(t, err)
}
