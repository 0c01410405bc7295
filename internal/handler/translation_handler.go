package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ticsite/internal/db"
	"github.com/ticsite/internal/service"
	"go.uber.org/zap"
)

type manualTranslationRequest struct {
	Fields map[string]string `json:"fields" binding:"required"`
}

type translateRequest struct {
	Text   string `json:"text" binding:"required"`
	Target string `json:"target" binding:"required"`
}

// GetManualTranslations 返回某个内容在指定语言下的人工翻译
func (a *API) GetManualTranslations(c *gin.Context) {
	entity, id, lang, ok := a.translationTarget(c)
	if !ok {
		return
	}

	values, err := a.translations.ListManual(entity, id, lang)
	if err != nil {
		a.respondInternal(c, "Failed to load translations", err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"data": gin.H{
		"entityType": entity,
		"entityId":   id,
		"language":   lang,
		"fields":     values,
	}})
}

// SaveManualTranslations upserts editor translations; empty values remove a field.
func (a *API) SaveManualTranslations(c *gin.Context) {
	entity, id, lang, ok := a.translationTarget(c)
	if !ok {
		return
	}

	var req manualTranslationRequest
	if !bindJSON(c, &req, "Invalid translation payload") {
		return
	}

	values, err := a.translations.SetManual(entity, id, lang, req.Fields)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLanguageUnsupported),
			errors.Is(err, service.ErrTranslationEntityInvalid),
			errors.Is(err, service.ErrTranslationFieldRequired):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			a.respondInternal(c, "Failed to save translations", err)
		}
		return
	}
	respondOK(c, http.StatusOK, gin.H{"data": gin.H{
		"entityType": entity,
		"entityId":   id,
		"language":   lang,
		"fields":     values,
	}})
}

// TranslateText runs a free-form machine translation for editors.
func (a *API) TranslateText(c *gin.Context) {
	var req translateRequest
	if !bindJSON(c, &req, "Text and target language are required") {
		return
	}

	target := a.matcher.Normalize(req.Target)
	if target == "" {
		respondError(c, http.StatusBadRequest, "Language not supported")
		return
	}

	translated, err := a.translations.TranslateText(c.Request.Context(), req.Text, target)
	if err != nil {
		if errors.Is(err, service.ErrLanguageUnsupported) {
			respondError(c, http.StatusBadRequest, "Language not supported")
			return
		}
		a.respondInternal(c, "Translation failed", err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"data": gin.H{
		"text":     translated,
		"language": target,
	}})
}

// translationTarget 解析路径参数并确认目标内容存在
func (a *API) translationTarget(c *gin.Context) (string, uint, string, bool) {
	entity := strings.TrimSpace(c.Param("entity"))
	if !service.ValidEntity(entity) {
		respondError(c, http.StatusBadRequest, "Unknown content type")
		return "", 0, "", false
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid content id")
		return "", 0, "", false
	}

	lang := a.matcher.Normalize(c.Param("lang"))
	if lang == "" || lang == a.translations.DefaultLanguage() {
		respondError(c, http.StatusBadRequest, "Language not supported")
		return "", 0, "", false
	}

	exists, err := a.entityExists(entity, id)
	if err != nil {
		a.respondInternal(c, "Failed to load content", err)
		return "", 0, "", false
	}
	if !exists {
		respondError(c, http.StatusNotFound, "Content not found")
		return "", 0, "", false
	}
	return entity, id, lang, true
}

func (a *API) entityExists(entity string, id uint) (bool, error) {
	var err error
	var notFound error
	switch entity {
	case db.EntityBlog:
		_, err = a.blogs.Get(id)
		notFound = service.ErrBlogNotFound
	case db.EntityCareer:
		_, err = a.careers.Get(id)
		notFound = service.ErrCareerNotFound
	case db.EntityContactOffice:
		_, err = a.offices.Get(id)
		notFound = service.ErrOfficeNotFound
	case db.EntityIndustryStat:
		_, err = a.stats.Get(id)
		notFound = service.ErrIndustryStatNotFound
	case db.EntityPage:
		_, err = a.pages.Get(id)
		notFound = service.ErrPageNotFound
	case db.EntitySection:
		_, err = a.pages.GetSection(id)
		notFound = service.ErrSectionNotFound
	default:
		return false, nil
	}
	if err != nil {
		if errors.Is(err, notFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// purgeTranslations 删除内容后清理其人工翻译，失败仅记录日志
func (a *API) purgeTranslations(entity string, id uint) {
	if err := a.translations.Purge(entity, id); err != nil {
		a.logger.Warn("purge translations failed",
			zap.String("entity", entity),
			zap.Uint("id", id),
			zap.Error(err),
		)
	}
}
