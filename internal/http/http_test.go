package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/atjgmj/data-intelligence-platform/internal/appcontext"
	"github.com/atjgmj/data-intelligence-platform/internal/config"
	"github.com/atjgmj/data-intelligence-platform/internal/entity"
	"github.com/atjgmj/data-intelligence-platform/internal/storage"
	"github.com/atjgmj/data-intelligence-platform/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(t *testing.T) (*appcontext.Context, *storage.MemoryStore) {
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

	store := storage.NewMemoryStore()
	cfg := &config.Config{
		JWTSecret:         "test-secret",
		JWTAlgorithm:      "HS256",
		JWTExpireMinutes:  30,
		Environment:       "test",
		MaxFileSizeMB:     1,
		MaxFilesPerUpload: 10,
		AllowedHosts:      []string{"*"},
		DatasetsBucket:    "datasets",
		ModelsBucket:      "models",
		CacheBucket:       "cache",
	}

	return &appcontext.Context{
		DB:     db,
		Logger: zap.NewNop(),
		Config: cfg,
		Store:  store,
		// No server behind this address; admin status reports the queue
		// as unreachable, which is all the tests need.
		Redis: redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}),
	}, store
}

func createTestUser(t *testing.T, ctx *appcontext.Context, email string, skill entity.SkillLevel) (*entity.User, string) {
	t.Helper()

	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)
	user := entity.User{
		Email:        email,
		PasswordHash: hash,
		SkillLevel:   skill,
	}
	require.NoError(t, ctx.DB.Create(&user).Error)

	token, err := utils.GenerateJWT([]byte(ctx.Config.JWTSecret), user.ID.String(), time.Hour)
	require.NoError(t, err)
	return &user, token
}

func doRequest(engine *gin.Engine, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func doJSON(engine *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	}
	return doRequest(engine, method, path, token, body, "application/json")
}

// uploadRequest builds a multipart upload with an explicit declared content
// type on the file part.
func uploadRequest(t *testing.T, name, filename, declaredType string, content []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", declaredType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)

	require.NoError(t, w.WriteField("name", name))
	require.NoError(t, w.WriteField("description", "test upload"))
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthEndpoint(t *testing.T) {
	ctx, _ := newTestContext(t)
	engine := NewHTTPService(ctx).Engine()

	w := doRequest(engine, http.MethodGet, "/health", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestTrustedHostFiltering(t *testing.T) {
	ctx, _ := newTestContext(t)
	ctx.Config.AllowedHosts = []string{"api.example.com"}
	engine := NewHTTPService(ctx).Engine()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Host = "evil.example.com"
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Host = "api.example.com:8000"
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestMissingTokenRejected(t *testing.T) {
	ctx, _ := newTestContext(t)
	engine := NewHTTPService(ctx).Engine()

	w := doRequest(engine, http.MethodGet, "/datasets/", "", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(engine, http.MethodGet, "/datasets/", "not-a-token", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
