package http

import (
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kerem-kaynak/tunes/internal/appcontext"
	"github.com/kerem-kaynak/tunes/internal/http/middleware"
	"github.com/kerem-kaynak/tunes/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestService(t *testing.T, configure func(*appcontext.Context)) (*APIService, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	ctx := &appcontext.Context{
		DB:             db,
		Logger:         zap.NewNop(),
		Music:          services.NewMusicService(db, zap.NewNop()),
		Environment:    "development",
		RequestTimeout: 5 * time.Second,
		ExposeErrors:   true,
	}
	if configure != nil {
		configure(ctx)
	}

	return NewHTTPService(ctx), sqlDB, mock
}

func expectSchema(mock sqlmock.Sqlmock, table string, flags ...string) {
	mock.ExpectQuery(`information_schema\.tables`).
		WithArgs(table).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	columns := sqlmock.NewRows([]string{"column_name", "data_type"}).
		AddRow("id", "integer").
		AddRow("file_name", "text").
		AddRow("file_location", "text").
		AddRow("file_id", "text")
	for _, flag := range flags {
		columns.AddRow(flag, "boolean")
	}
	mock.ExpectQuery(`information_schema\.columns`).
		WithArgs(table).
		WillReturnRows(columns)
}

func serve(service *APIService, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	service.Engine().ServeHTTP(w, req)
	return w
}

func TestGetUserMusicOK(t *testing.T) {
	service, sqlDB, mock := newTestService(t, nil)
	expectSchema(mock, "_100", "rock", "jazz")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id", "file_name", "file_location", "file_id", "rock", "jazz" FROM "_100"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "file_name", "file_location", "file_id", "rock", "jazz"}).
			AddRow(int64(1), "a.mp3", "/music/a.mp3", "AgAD1", true, false).
			AddRow(int64(2), "b.mp3", "/music/b.mp3", "AgAD2", false, true))

	w := serve(service, http.MethodGet, "/api/music/100")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `[
		{"id":1,"file_name":"a.mp3","file_location":"/music/a.mp3","file_id":"AgAD1","rock":true,"jazz":false},
		{"id":2,"file_name":"b.mp3","file_location":"/music/b.mp3","file_id":"AgAD2","rock":false,"jazz":true}
	]`, w.Body.String())
	assert.Regexp(t, `^\[\{"id":1,"file_name":"a\.mp3","file_location":"/music/a\.mp3","file_id":"AgAD1","rock":true,"jazz":false\}`, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, 0, sqlDB.Stats().InUse)
}

func TestGetUserMusicNotFound(t *testing.T) {
	tests := []struct {
		name     string
		expect   func(mock sqlmock.Sqlmock)
		expected string
	}{
		{
			name: "table absent",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`information_schema\.tables`).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
			},
			expected: "Table _42 does not exist.",
		},
		{
			name: "no columns",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`information_schema\.tables`).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
				mock.ExpectQuery(`information_schema\.columns`).
					WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type"}))
			},
			expected: "No columns found in table _42.",
		},
		{
			name: "no playlist columns",
			expect: func(mock sqlmock.Sqlmock) {
				expectSchema(mock, "_42")
			},
			expected: "No playlist columns found.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, sqlDB, mock := newTestService(t, nil)
			tt.expect(mock)

			w := serve(service, http.MethodGet, "/api/music/42")

			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
			assert.Equal(t, tt.expected, w.Body.String())
			assert.NoError(t, mock.ExpectationsWereMet())
			assert.Equal(t, 0, sqlDB.Stats().InUse)
		})
	}
}

func TestGetUserMusicInvalidUserID(t *testing.T) {
	service, _, mock := newTestService(t, nil)

	w := serve(service, http.MethodGet, "/api/music/bad.id")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid user id.", w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserMusicInternalError(t *testing.T) {
	service, sqlDB, mock := newTestService(t, nil)
	mock.ExpectQuery(`information_schema\.tables`).WillReturnError(errors.New("connection refused"))

	w := serve(service, http.MethodGet, "/api/music/42")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error: failed to check whether table _42 exists: connection refused", w.Body.String())
	assert.Equal(t, 0, sqlDB.Stats().InUse)
}

func TestGetUserMusicInternalErrorHidden(t *testing.T) {
	service, _, mock := newTestService(t, func(ctx *appcontext.Context) {
		ctx.ExposeErrors = false
	})
	mock.ExpectQuery(`information_schema\.tables`).WillReturnError(errors.New("password authentication failed"))

	w := serve(service, http.MethodGet, "/api/music/42")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error: internal server error", w.Body.String())
}

func TestHealth(t *testing.T) {
	service, _, _ := newTestService(t, nil)

	w := serve(service, http.MethodGet, "/healthz")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRequestIDHeader(t *testing.T) {
	service, _, _ := newTestService(t, nil)

	w := serve(service, http.MethodGet, "/healthz")
	_, err := uuid.Parse(w.Header().Get(middleware.RequestIDHeader))
	assert.NoError(t, err)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	id := uuid.NewString()
	req.Header.Set(middleware.RequestIDHeader, id)
	service.Engine().ServeHTTP(w, req)
	assert.Equal(t, id, w.Header().Get(middleware.RequestIDHeader))
}

func TestCORS(t *testing.T) {
	t.Run("development allows any origin", func(t *testing.T) {
		service, _, _ := newTestService(t, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/api/music/42", nil)
		req.Header.Set("Origin", "http://example.com")
		service.Engine().ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("production allows listed origins only", func(t *testing.T) {
		service, _, _ := newTestService(t, func(ctx *appcontext.Context) {
			ctx.Environment = "production"
			ctx.AllowedOrigins = []string{"http://localhost:4200"}
		})

		for origin, expected := range map[string]string{
			"http://localhost:4200": "http://localhost:4200",
			"http://evil.example":   "",
		} {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodOptions, "/api/music/42", nil)
			req.Header.Set("Origin", origin)
			service.Engine().ServeHTTP(w, req)

			assert.Equal(t, http.StatusNoContent, w.Code)
			assert.Equal(t, expected, w.Header().Get("Access-Control-Allow-Origin"), origin)
		}
	})
}
