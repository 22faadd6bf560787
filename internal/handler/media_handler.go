package handler

import (
	"net/http"
	"os"
	"path"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-site-api/pkg/response"
)

type publicFiles interface {
	OpenPublic(name string) (*os.File, string, error)
}

// MediaHandler serves uploaded images.
type MediaHandler struct {
	files publicFiles
}

// NewMediaHandler constructs a MediaHandler.
func NewMediaHandler(files publicFiles) *MediaHandler {
	return &MediaHandler{files: files}
}

// Serve streams one stored image. Stored names are random so responses are cacheable.
func (h *MediaHandler) Serve(c *gin.Context) {
	name := c.Param("filepath")
	file, contentType, err := h.files.OpenPublic(name)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeContent(c.Writer, c.Request, path.Base(name), info.ModTime(), file)
}
