package controllers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/aircon-store/storefront/app/services"
	"github.com/aircon-store/storefront/pkg/ctx"
	"github.com/aircon-store/storefront/pkg/logger"
)

// uploadSlack covers the multipart framing around the file part.
const uploadSlack = 64 << 10

// UploadController accepts admin image uploads and manages stored media.
type UploadController struct {
	uploads *services.UploadService
}

func NewUploadController(uploads *services.UploadService) *UploadController {
	return &UploadController{uploads: uploads}
}

// Store handles POST /api/admin/upload (multipart, field "file"). The part
// is streamed, so an oversized disallowed file is still reported as a type
// error.
func (uc *UploadController) Store(c *ctx.Context) {
	// Hard cap well above the limit; the service reports the precise error.
	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, 2*uc.uploads.MaxBytes()+uploadSlack)

	part, err := filePart(c.R)
	if err != nil {
		c.Error(http.StatusBadRequest, services.ReasonNoFile)
		return
	}
	defer part.Close()

	stored, err := uc.uploads.Store(c.Context(), part.FileName(), part, -1)
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		err = uc.uploads.TooLarge()
	}
	if err != nil {
		fail(c, err)
		return
	}
	logger.WithCtx(c.Context()).Info("file uploaded", "name", stored.Name, "size", stored.Size)
	c.Created(stored)
}

// filePart returns the first part named "file".
func filePart(r *http.Request) (*multipart.Part, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, err
	}
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			return nil, http.ErrMissingFile
		}
		if err != nil {
			return nil, err
		}
		if p.FormName() == "file" && p.FileName() != "" {
			return p, nil
		}
		p.Close()
	}
}

// Media handles GET /api/admin/media.
func (uc *UploadController) Media(c *ctx.Context) {
	list, err := uc.uploads.Media(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(list)
}

// DestroyMedia handles DELETE /api/admin/media/{name}.
func (uc *UploadController) DestroyMedia(c *ctx.Context) {
	if err := uc.uploads.DeleteMedia(c.Context(), c.Param("name")); err != nil {
		fail(c, err)
		return
	}
	c.Message("File deleted")
}
