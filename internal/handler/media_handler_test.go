package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-site-api/internal/service"
	"github.com/noah-isme/school-site-api/pkg/config"
	"github.com/noah-isme/school-site-api/pkg/storage"
)

func TestMediaHandlerServesImagesOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	files, err := storage.NewLocalStorage(t.TempDir(), "/media")
	require.NoError(t, err)
	_, err = files.Save("news/banner.txt", []byte("banner bytes"))
	require.NoError(t, err)
	_, err = files.Save("admissions/birth-certificate.pdf", []byte("%PDF-1.4 private"))
	require.NoError(t, err)

	media := service.NewMediaService(files, config.MediaConfig{}, config.UploadConfig{}, nil)
	router := gin.New()
	router.GET("/media/*filepath", NewMediaHandler(media).Serve)

	cases := []struct {
		path   string
		status int
	}{
		{"/media/news/banner.txt", http.StatusOK},
		{"/media/admissions/birth-certificate.pdf", http.StatusNotFound},
		{"/media/news/missing.webp", http.StatusNotFound},
		{"/media/../admissions/birth-certificate.pdf", http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
		assert.Equal(t, tc.status, rec.Code, tc.path)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/media/news/banner.txt", nil))
	assert.Equal(t, "banner bytes", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}
