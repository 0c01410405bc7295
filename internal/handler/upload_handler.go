package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ticsite/internal/service"
)

const uploadFormField = "image"

// UploadImage 处理图片上传，文件存入配置的媒体存储并记录到媒体库
func (a *API) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxUploadBytes+1<<20)

	file, err := c.FormFile(uploadFormField)
	if err != nil {
		respondError(c, http.StatusBadRequest, "No image uploaded")
		return
	}

	asset, err := a.media.Upload(c.Request.Context(), file)
	if err != nil {
		a.respondMediaError(c, err, "Failed to upload image")
		return
	}

	respondOK(c, http.StatusCreated, gin.H{
		"data": asset,
		"url":  asset.URL,
	})
}

// ListMedia returns the media library, newest first.
func (a *API) ListMedia(c *gin.Context) {
	assets, pagination, err := a.media.List(queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		a.respondInternal(c, "Failed to load media", err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"data":       assets,
		"pagination": paginationPayload(pagination),
	})
}

// DeleteMedia removes an asset and its stored file.
func (a *API) DeleteMedia(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid media id")
		return
	}

	if err := a.media.Delete(c.Request.Context(), id); err != nil {
		a.respondMediaError(c, err, "Failed to delete media")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"message": "Media deleted"})
}

func (a *API) respondMediaError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, service.ErrMediaNotFound):
		respondError(c, http.StatusNotFound, "Media not found")
	case errors.Is(err, service.ErrMediaEmpty),
		errors.Is(err, service.ErrMediaNotImage),
		errors.Is(err, service.ErrMediaTooLarge):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		a.respondInternal(c, message, err)
	}
}
