package controllers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazar/app/models"
	"github.com/shashiranjanraj/bazar/app/repositories"
	"github.com/shashiranjanraj/bazar/app/resources"
	"github.com/shashiranjanraj/bazar/app/services"
	"github.com/shashiranjanraj/bazar/config"
	"github.com/shashiranjanraj/bazar/pkg/ctx"
	"github.com/shashiranjanraj/bazar/pkg/resource"
	"github.com/shashiranjanraj/bazar/pkg/storage"
)

// multipartOverhead is allowed on top of the file for boundaries and fields.
const multipartOverhead = 1 << 20

type MediaController struct {
	media     *repositories.Repository[models.Medium]
	service   *services.MediaService
	maxBytes  int64
	transform resource.Transformer[models.Medium]
}

func NewMediaController(db *gorm.DB, s config.Settings, service *services.MediaService) *MediaController {
	return &MediaController{
		media:     repositories.Media(db, s),
		service:   service,
		maxBytes:  s.MediaMaxBytes,
		transform: resources.Medium(mediumURL),
	}
}

func mediumURL(m models.Medium) string {
	disk, err := storage.Use(m.Disk)
	if err != nil {
		return ""
	}
	return disk.URL(m.Key())
}

func (mc *MediaController) Index(c *ctx.Context) { index(c, mc.media, mc.transform) }
func (mc *MediaController) Show(c *ctx.Context)  { show(c, mc.media, mc.transform) }

// Store accepts a multipart upload in the "file" field. An optional "name"
// field overrides the client file name.
func (mc *MediaController) Store(c *ctx.Context) {
	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, mc.maxBytes+multipartOverhead)

	file, header, err := c.FormFile("file", 8<<20)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			c.Fail(services.ErrFileTooLarge)
		case errors.Is(err, http.ErrMissingFile):
			c.ValidationError(map[string]string{"file": "file is required"})
		default:
			c.Error(http.StatusBadRequest, err.Error())
		}
		return
	}
	defer file.Close()

	if header.Size > mc.maxBytes {
		c.Fail(services.ErrFileTooLarge)
		return
	}

	name := header.Filename
	if n := c.PostForm("name"); n != "" {
		name = n
	}
	medium, err := mc.service.Store(c.Context(), name, file)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(mc.transform(*medium))
}

func (mc *MediaController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound()
		return
	}
	if err := mc.service.Delete(c.Context(), id); err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, map[string]interface{}{"status": http.StatusOK, "message": "Deleted"})
}
