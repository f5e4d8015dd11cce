package handlers

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-graphql-blog/internal/application"
	"github.com/oksasatya/go-graphql-blog/internal/infrastructure/storage"
	"github.com/oksasatya/go-graphql-blog/pkg/helpers"
	"github.com/oksasatya/go-graphql-blog/pkg/response"
)

// MaxImageBytes caps the size of one upload.
const MaxImageBytes = 8 << 20

var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpg":  ".jpg",
	"image/jpeg": ".jpeg",
}

var allowedImageExts = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// ImageReleaser drops an image that a post no longer references.
type ImageReleaser interface {
	ReleaseImage(ctx context.Context, filePath string)
}

// PublicURLer resolves a stored image path to a public URL.
type PublicURLer interface {
	PublicURL(filePath string) (string, error)
}

type ImageHandler struct {
	Images   storage.ImageStore
	Releaser ImageReleaser
	Logger   logrus.FieldLogger
}

func NewImageHandler(images storage.ImageStore, releaser ImageReleaser, logger logrus.FieldLogger) *ImageHandler {
	return &ImageHandler{Images: images, Releaser: releaser, Logger: logger}
}

// contentTypeOf accepts png and jpeg uploads by declared type, then by extension.
func contentTypeOf(filename, declared string) (string, bool) {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if _, ok := allowedImageTypes[declared]; ok {
		return declared, true
	}
	if declared != "" && declared != "application/octet-stream" {
		return "", false
	}
	ct, ok := allowedImageExts[strings.ToLower(filepath.Ext(filename))]
	return ct, ok
}

// Upload stores the multipart "image" file and releases "oldPath" when given.
func (h *ImageHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxImageBytes)

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			response.Abort(c, http.StatusRequestEntityTooLarge, "File too large.", nil)
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			c.JSON(http.StatusOK, gin.H{"message": "No file provided."})
		default:
			response.Abort(c, http.StatusBadRequest, "Invalid upload.", nil)
		}
		return
	}
	defer file.Close()

	contentType, ok := contentTypeOf(header.Filename, header.Header.Get("Content-Type"))
	if !ok {
		response.Abort(c, http.StatusUnprocessableEntity, "Only png, jpg and jpeg images are allowed.", nil)
		return
	}

	ctx := c.Request.Context()
	filePath, err := h.Images.Save(ctx, header.Filename, contentType, file)
	if err != nil {
		helpers.LogError(h.Logger, "store image failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"filename":   header.Filename,
		})
		response.Abort(c, http.StatusInternalServerError, "An error occurred!", nil)
		return
	}

	if old := c.PostForm("oldPath"); old != "" && h.Releaser != nil {
		h.Releaser.ReleaseImage(ctx, old)
	}

	c.JSON(http.StatusCreated, gin.H{"message": "File Stored.", "filePath": filePath})
}

// Redirect sends GET /images/<name> to the public object URL.
func Redirect(urls PublicURLer) gin.HandlerFunc {
	return func(c *gin.Context) {
		target, err := urls.PublicURL(storage.PathPrefix + c.Param("filepath"))
		if err != nil {
			response.Abort(c, http.StatusNotFound, "Image not found.", nil)
			return
		}
		c.Redirect(http.StatusFound, target)
	}
}

// NotAuthenticated answers plain HTTP requests the auth gate did not authenticate.
func NotAuthenticated(c *gin.Context) {
	response.Abort(c, http.StatusUnauthorized, application.MsgNotAuthenticated, nil)
}
