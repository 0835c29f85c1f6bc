package handlers

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rolo-dev/rolo/internal/apperr"
	"github.com/rolo-dev/rolo/internal/storage"
)

const maxExtraImages = 10

// ImageStore persists uploaded images. *storage.Uploads implements it.
type ImageStore interface {
	SaveImage(field string, fh *multipart.FileHeader) (string, error)
	SaveImages(field string, fhs []*multipart.FileHeader) ([]string, error)
	Remove(paths ...string) error
}

// discardImages removes files stored for a request that then failed.
func discardImages(store ImageStore, paths ...string) {
	if err := store.Remove(paths...); err != nil {
		log.Printf("Failed to remove unused uploads: %v", err)
	}
}

// saveImage stores the optional single file in field. It returns "" when
// the request has no such file.
func saveImage(ctx *gin.Context, store ImageStore, field string) (string, error) {
	fh, err := ctx.FormFile(field)

	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", apperr.Validation("Invalid upload")
	}

	p, err := store.SaveImage(field, fh)

	return p, uploadErr(err)
}

func saveImages(ctx *gin.Context, store ImageStore, field string) ([]string, error) {
	form, err := ctx.MultipartForm()

	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apperr.Validation("Invalid upload")
	}

	files := form.File[field]

	if len(files) == 0 {
		return nil, nil
	}

	if len(files) > maxExtraImages {
		return nil, apperr.Validation("Too many extra images")
	}

	paths, err := store.SaveImages(field, files)

	return paths, uploadErr(err)
}

func uploadErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotImage), errors.Is(err, storage.ErrTooLarge):
		return apperr.Validation(err.Error())
	default:
		return apperr.Internal("store upload", err)
	}
}
