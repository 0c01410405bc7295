package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ticsite/internal/db"
	"github.com/ticsite/internal/service"
)

type pageRequest struct {
	Slug            string `json:"slug"`
	Title           string `json:"title"`
	MetaTitle       string `json:"metaTitle"`
	MetaDescription string `json:"metaDescription"`
	Status          string `json:"status"`
}

func (r pageRequest) input() service.PageInput {
	return service.PageInput{
		Slug:            r.Slug,
		Title:           r.Title,
		MetaTitle:       r.MetaTitle,
		MetaDescription: r.MetaDescription,
		Status:          r.Status,
	}
}

type sectionRequest struct {
	Key       string           `json:"key"`
	Type      string           `json:"type"`
	Title     string           `json:"title"`
	Subtitle  string           `json:"subtitle"`
	Content   string           `json:"content"`
	ImageURL  string           `json:"imageUrl"`
	CTALabel  string           `json:"ctaLabel"`
	CTALink   string           `json:"ctaLink"`
	Items     []db.SectionItem `json:"items"`
	SortOrder *int             `json:"sortOrder"`
	IsVisible *bool            `json:"isVisible"`
}

func (r sectionRequest) input() service.SectionInput {
	return service.SectionInput{
		Key:       r.Key,
		Type:      r.Type,
		Title:     r.Title,
		Subtitle:  r.Subtitle,
		Content:   r.Content,
		ImageURL:  r.ImageURL,
		CTALabel:  r.CTALabel,
		CTALink:   r.CTALink,
		Items:     r.Items,
		SortOrder: r.SortOrder,
		IsVisible: r.IsVisible == nil || *r.IsVisible,
	}
}

// ListPages 返回全部页面（不含区块内容）
func (a *API) ListPages(c *gin.Context) {
	pages, err := a.pages.List()
	if err != nil {
		a.respondInternal(c, "Failed to load pages", err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"data": pages})
}

// GetPage returns a page with every section, hidden ones included.
func (a *API) GetPage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid page id")
		return
	}

	page, err := a.pages.Get(id)
	if err != nil {
		a.respondPageError(c, err, "Failed to load page")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"data": page})
}

// CreatePage creates an empty page.
func (a *API) CreatePage(c *gin.Context) {
	var req pageRequest
	if !bindJSON(c, &req, "Invalid page payload") {
		return
	}

	page, err := a.pages.Create(req.input())
	if err != nil {
		a.respondPageError(c, err, "Failed to create page")
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"data": page})
}

// UpdatePage changes page metadata.
func (a *API) UpdatePage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid page id")
		return
	}

	var req pageRequest
	if !bindJSON(c, &req, "Invalid page payload") {
		return
	}

	page, err := a.pages.Update(id, req.input())
	if err != nil {
		a.respondPageError(c, err, "Failed to update page")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"data": page})
}

// DeletePage 删除页面、区块以及它们的翻译
func (a *API) DeletePage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid page id")
		return
	}

	page, err := a.pages.Get(id)
	if err != nil {
		a.respondPageError(c, err, "Failed to delete page")
		return
	}
	if err := a.pages.Delete(id); err != nil {
		a.respondPageError(c, err, "Failed to delete page")
		return
	}

	a.purgeTranslations(db.EntityPage, id)
	for _, section := range page.Sections {
		a.purgeTranslations(db.EntitySection, section.ID)
	}
	respondOK(c, http.StatusOK, gin.H{"message": "Page deleted"})
}

// AddSection appends a section to a page.
func (a *API) AddSection(c *gin.Context) {
	pageID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid page id")
		return
	}

	var req sectionRequest
	if !bindJSON(c, &req, "Invalid section payload") {
		return
	}

	section, err := a.pages.AddSection(pageID, req.input())
	if err != nil {
		a.respondPageError(c, err, "Failed to add section")
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"data": section})
}

// UpdateSection replaces the editable fields of a section.
func (a *API) UpdateSection(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid section id")
		return
	}

	var req sectionRequest
	if !bindJSON(c, &req, "Invalid section payload") {
		return
	}

	section, err := a.pages.UpdateSection(id, req.input())
	if err != nil {
		a.respondPageError(c, err, "Failed to update section")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"data": section})
}

// DeleteSection removes a section.
func (a *API) DeleteSection(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid section id")
		return
	}

	if err := a.pages.DeleteSection(id); err != nil {
		a.respondPageError(c, err, "Failed to delete section")
		return
	}
	a.purgeTranslations(db.EntitySection, id)
	respondOK(c, http.StatusOK, gin.H{"message": "Section deleted"})
}

// ReorderSections applies the order of the submitted section ids.
func (a *API) ReorderSections(c *gin.Context) {
	pageID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid page id")
		return
	}

	var req orderRequest
	if !bindJSON(c, &req, "Invalid order payload") {
		return
	}

	if err := a.pages.ReorderSections(pageID, req.IDs); err != nil {
		a.respondPageError(c, err, "Failed to reorder sections")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"message": "Order updated"})
}

func (a *API) respondPageError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, service.ErrPageNotFound):
		respondError(c, http.StatusNotFound, "Page not found")
	case errors.Is(err, service.ErrSectionNotFound):
		respondError(c, http.StatusNotFound, "Section not found")
	case errors.Is(err, service.ErrSectionKeyExists):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrPageTitleRequired),
		errors.Is(err, service.ErrPageStatusInvalid),
		errors.Is(err, service.ErrSectionTypeInvalid),
		errors.Is(err, service.ErrSectionKeyRequired),
		errors.Is(err, service.ErrSectionPageMismatch),
		errors.Is(err, service.ErrInvalidOrder):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		a.respondInternal(c, message, err)
	}
}
