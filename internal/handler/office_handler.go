package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ticsite/internal/db"
	"github.com/ticsite/internal/service"
)

type officeRequest struct {
	Name           string   `json:"name"`
	Country        string   `json:"country"`
	City           string   `json:"city"`
	Address        string   `json:"address"`
	Phone          string   `json:"phone"`
	Email          string   `json:"email"`
	WorkingHours   string   `json:"workingHours"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	IsHeadquarters bool     `json:"isHeadquarters"`
	IsActive       *bool    `json:"isActive"`
	SortOrder      int      `json:"sortOrder"`
}

func (r officeRequest) input() service.ContactOfficeInput {
	return service.ContactOfficeInput{
		Name:           r.Name,
		Country:        r.Country,
		City:           r.City,
		Address:        r.Address,
		Phone:          r.Phone,
		Email:          r.Email,
		WorkingHours:   r.WorkingHours,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		IsHeadquarters: r.IsHeadquarters,
		IsActive:       r.IsActive == nil || *r.IsActive,
		SortOrder:      r.SortOrder,
	}
}

// ListOffices 返回全部办公室（含停用）
func (a *API) ListOffices(c *gin.Context) {
	offices, err := a.offices.List(false)
	if err != nil {
		a.respondInternal(c, "Failed to load contact offices", err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"data": offices})
}

// CreateOffice creates an office; missing coordinates are geocoded.
func (a *API) CreateOffice(c *gin.Context) {
	var req officeRequest
	if !bindJSON(c, &req, "Invalid contact office payload") {
		return
	}

	office, err := a.offices.Create(c.Request.Context(), req.input())
	if err != nil {
		a.respondOfficeError(c, err, "Failed to create contact office")
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"data": office})
}

// UpdateOffice replaces the editable fields of an office.
func (a *API) UpdateOffice(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid contact office id")
		return
	}

	var req officeRequest
	if !bindJSON(c, &req, "Invalid contact office payload") {
		return
	}

	office, err := a.offices.Update(c.Request.Context(), id, req.input())
	if err != nil {
		a.respondOfficeError(c, err, "Failed to update contact office")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"data": office})
}

// DeleteOffice removes an office.
func (a *API) DeleteOffice(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid contact office id")
		return
	}

	if err := a.offices.Delete(id); err != nil {
		a.respondOfficeError(c, err, "Failed to delete contact office")
		return
	}
	a.purgeTranslations(db.EntityContactOffice, id)
	respondOK(c, http.StatusOK, gin.H{"message": "Contact office deleted"})
}

// ReorderOffices applies the order of the submitted ids.
func (a *API) ReorderOffices(c *gin.Context) {
	var req orderRequest
	if !bindJSON(c, &req, "Invalid order payload") {
		return
	}

	if err := a.offices.Reorder(req.IDs); err != nil {
		a.respondOfficeError(c, err, "Failed to reorder contact offices")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"message": "Order updated"})
}

func (a *API) respondOfficeError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, service.ErrOfficeNotFound):
		respondError(c, http.StatusNotFound, "Contact office not found")
	case errors.Is(err, service.ErrOfficeNameRequired),
		errors.Is(err, service.ErrOfficeCoordinates),
		errors.Is(err, service.ErrInvalidOrder):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		a.respondInternal(c, message, err)
	}
}

type industryStatRequest struct {
	Industry    string `json:"industry"`
	Label       string `json:"label"`
	Value       string `json:"value"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	SortOrder   int    `json:"sortOrder"`
}

func (r industryStatRequest) input() service.IndustryStatInput {
	return service.IndustryStatInput{
		Industry:    r.Industry,
		Label:       r.Label,
		Value:       r.Value,
		Icon:        r.Icon,
		Description: r.Description,
		SortOrder:   r.SortOrder,
	}
}

// ListIndustryStatsAdmin returns every stat in the authoring language.
func (a *API) ListIndustryStatsAdmin(c *gin.Context) {
	stats, err := a.stats.List(c.Query("industry"))
	if err != nil {
		a.respondInternal(c, "Failed to load industry stats", err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"data": stats})
}

// GetIndustryStat returns a stat by id.
func (a *API) GetIndustryStat(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid industry stat id")
		return
	}

	stat, err := a.stats.Get(id)
	if err != nil {
		a.respondStatError(c, err, "Failed to load industry stat")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"data": stat})
}

// CreateIndustryStat creates a headline figure.
func (a *API) CreateIndustryStat(c *gin.Context) {
	var req industryStatRequest
	if !bindJSON(c, &req, "Invalid industry stat payload") {
		return
	}

	stat, err := a.stats.Create(req.input())
	if err != nil {
		a.respondStatError(c, err, "Failed to create industry stat")
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"data": stat})
}

// UpdateIndustryStat replaces a headline figure.
func (a *API) UpdateIndustryStat(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid industry stat id")
		return
	}

	var req industryStatRequest
	if !bindJSON(c, &req, "Invalid industry stat payload") {
		return
	}

	stat, err := a.stats.Update(id, req.input())
	if err != nil {
		a.respondStatError(c, err, "Failed to update industry stat")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"data": stat})
}

// DeleteIndustryStat removes a headline figure.
func (a *API) DeleteIndustryStat(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid industry stat id")
		return
	}

	if err := a.stats.Delete(id); err != nil {
		a.respondStatError(c, err, "Failed to delete industry stat")
		return
	}
	a.purgeTranslations(db.EntityIndustryStat, id)
	respondOK(c, http.StatusOK, gin.H{"message": "Industry stat deleted"})
}

// ReorderIndustryStats applies the order of the submitted ids.
func (a *API) ReorderIndustryStats(c *gin.Context) {
	var req orderRequest
	if !bindJSON(c, &req, "Invalid order payload") {
		return
	}

	if err := a.stats.Reorder(req.IDs); err != nil {
		a.respondStatError(c, err, "Failed to reorder industry stats")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"message": "Order updated"})
}

func (a *API) respondStatError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, service.ErrIndustryStatNotFound):
		respondError(c, http.StatusNotFound, "Industry stat not found")
	case errors.Is(err, service.ErrIndustryStatInvalid), errors.Is(err, service.ErrInvalidOrder):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		a.respondInternal(c, message, err)
	}
}
