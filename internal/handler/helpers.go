package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-site-api/internal/middleware"
	"github.com/noah-isme/school-site-api/internal/service"
	appErrors "github.com/noah-isme/school-site-api/pkg/errors"
	"github.com/noah-isme/school-site-api/pkg/response"
)

// bindPayload decodes JSON, urlencoded or multipart bodies into dest.
func bindPayload(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBind(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}

// formUpload reads an optional multipart file. A missing field yields nil.
func formUpload(c *gin.Context, field string) (*service.Upload, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, nil
	}
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, fmt.Sprintf("invalid %s upload", field))
	}
	file, err := header.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, appErrors.Clone(appErrors.ErrPayloadTooLarge, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload")
	}
	return &service.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// listResponse writes a collection read with cache metadata.
func listResponse(c *gin.Context, start time.Time, data interface{}, cacheHit bool) {
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, data, meta)
}

func pathID(c *gin.Context) string {
	return strings.TrimSpace(c.Param("id"))
}
