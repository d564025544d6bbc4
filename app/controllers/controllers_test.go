package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelmania/server/pkg/ctx"
	"github.com/hostelmania/server/pkg/storage"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth_Degraded(t *testing.T) {
	h := NewHealthController(
		pingFunc(func(context.Context) error { return nil }),
		pingFunc(func(context.Context) error { return errors.New("redis: connection refused") }),
	)

	rec := httptest.NewRecorder()
	ctx.Wrap(h.Show)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"degraded","store":"ok","queue":"down"}`, rec.Body.String())
}

func TestHealth_NoQueue(t *testing.T) {
	h := NewHealthController(pingFunc(func(context.Context) error { return nil }), nil)

	rec := httptest.NewRecorder()
	ctx.Wrap(h.Show)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func multipartImage(t *testing.T, field string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, "meal.bin")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/images", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImageUpload(t *testing.T) {
	disk, err := storage.NewLocalDisk(t.TempDir(), "http://localhost:5000/storage")
	require.NoError(t, err)
	h := ctx.Wrap(NewImageController(disk).Upload)

	data := pngBytes(t)
	rec := httptest.NewRecorder()
	h(rec, multipartImage(t, "image", data))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Regexp(t, `^images/[0-9a-f]{24}\.png$`, body["path"])
	assert.Equal(t, "http://localhost:5000/storage/"+body["path"], body["url"])

	stored, err := disk.Get(context.Background(), body["path"])
	require.NoError(t, err)
	assert.Equal(t, data, stored)
}

func TestImageUpload_Rejects(t *testing.T) {
	disk, err := storage.NewLocalDisk(t.TempDir(), "")
	require.NoError(t, err)
	h := ctx.Wrap(NewImageController(disk).Upload)

	rec := httptest.NewRecorder()
	h(rec, multipartImage(t, "image", []byte("just some text, not a picture")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported image type")

	rec = httptest.NewRecorder()
	h(rec, multipartImage(t, "photo", pngBytes(t)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/images", bytes.NewBufferString("{}")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
