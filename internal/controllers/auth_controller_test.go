package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/avickk/internship_backend_v1/internal/database"
	"github.com/avickk/internship_backend_v1/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterConflictOnlyForDuplicateEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	ctrl := &AuthController{DB: db, JWTSecret: "secret", ExpiresIn: time.Hour}
	r := gin.New()
	r.POST("/register", ctrl.Register)

	body := `{"full_name":"Jo Doe","email":"jo@example.com","password":"secret1"}`
	w := postJSON(t, r, "/register", body)
	require.Equal(t, http.StatusCreated, w.Code)

	// Same email again is a conflict.
	w = postJSON(t, r, "/register", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email already registered")

	// Any other store failure must not masquerade as a conflict.
	require.NoError(t, db.Migrator().DropTable(&models.User{}))
	w = postJSON(t, r, "/register", `{"full_name":"New User","email":"new@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
