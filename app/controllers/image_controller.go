package controllers

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/hostelmania/server/app/models"
	"github.com/hostelmania/server/config"
	"github.com/hostelmania/server/pkg/ctx"
	"github.com/hostelmania/server/pkg/storage"
)

// imageTypes maps the accepted sniffed content types to file extensions.
var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageController stores meal photos on the configured disk.
type ImageController struct {
	disk storage.Disk
}

func NewImageController(disk storage.Disk) *ImageController {
	return &ImageController{disk: disk}
}

// Upload reads the multipart field "image" and answers with its public URL.
func (ic *ImageController) Upload(c *ctx.Context) {
	limit := config.MaxBodyBytes()
	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, limit)
	if err := c.R.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.BadRequest("image too large")
			return
		}
		c.BadRequest("expected a multipart form with an image field")
		return
	}

	file, _, err := c.R.FormFile("image")
	if err != nil {
		c.BadRequest("image is required")
		return
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		c.BadRequest("image is empty")
		return
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	ext, ok := imageTypes[contentType]
	if !ok {
		c.BadRequest("unsupported image type " + contentType)
		return
	}

	path := "images/" + models.NewID().String() + ext
	body := io.MultiReader(bytes.NewReader(head), file)
	if err := ic.disk.Put(c.Context(), path, body, contentType); err != nil {
		c.Fail(err)
		return
	}
	c.OK(map[string]string{"url": ic.disk.URL(path), "path": path})
}
