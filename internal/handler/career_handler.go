package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ticsite/internal/db"
	"github.com/ticsite/internal/service"
)

const deadlineLayout = "2006-01-02"

type careerRequest struct {
	Title            string   `json:"title"`
	Slug             string   `json:"slug"`
	Department       string   `json:"department"`
	Location         string   `json:"location"`
	EmploymentType   string   `json:"employmentType"`
	ExperienceLevel  string   `json:"experienceLevel"`
	Summary          string   `json:"summary"`
	Description      string   `json:"description"`
	Responsibilities []string `json:"responsibilities"`
	Requirements     []string `json:"requirements"`
	Benefits         []string `json:"benefits"`
	ApplyEmail       string   `json:"applyEmail"`
	ApplyURL         string   `json:"applyUrl"`
	IsActive         *bool    `json:"isActive"`
	Deadline         string   `json:"deadline"`
	SortOrder        int      `json:"sortOrder"`
}

// input 转换请求；deadline 接受 RFC3339 或 YYYY-MM-DD（按当天结束计算）
func (r careerRequest) input() (service.CareerInput, error) {
	input := service.CareerInput{
		Title:            r.Title,
		Slug:             r.Slug,
		Department:       r.Department,
		Location:         r.Location,
		EmploymentType:   r.EmploymentType,
		ExperienceLevel:  r.ExperienceLevel,
		Summary:          r.Summary,
		Description:      r.Description,
		Responsibilities: r.Responsibilities,
		Requirements:     r.Requirements,
		Benefits:         r.Benefits,
		ApplyEmail:       r.ApplyEmail,
		ApplyURL:         r.ApplyURL,
		IsActive:         r.IsActive == nil || *r.IsActive,
		SortOrder:        r.SortOrder,
	}

	raw := strings.TrimSpace(r.Deadline)
	if raw == "" {
		return input, nil
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		input.Deadline = &parsed
		return input, nil
	}
	parsed, err := time.Parse(deadlineLayout, raw)
	if err != nil {
		return input, err
	}
	endOfDay := parsed.Add(24*time.Hour - time.Second)
	input.Deadline = &endOfDay
	return input, nil
}

// ListCareers 返回后台职位列表，包含已关闭的职位
func (a *API) ListCareers(c *gin.Context) {
	result, err := a.careers.List(service.CareerFilter{
		Search:         c.Query("search"),
		Department:     c.Query("department"),
		Location:       c.Query("location"),
		EmploymentType: c.Query("type"),
		Page:           queryInt(c, "page"),
		PerPage:        queryInt(c, "limit"),
	})
	if err != nil {
		a.respondInternal(c, "Failed to load careers", err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"data":       result.Careers,
		"pagination": paginationPayload(result.Pagination),
	})
}

// GetCareer returns a career by id.
func (a *API) GetCareer(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid career id")
		return
	}

	career, err := a.careers.Get(id)
	if err != nil {
		a.respondCareerError(c, err, "Failed to load career")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"data": career})
}

// CreateCareer creates a job opening.
func (a *API) CreateCareer(c *gin.Context) {
	input, ok := bindCareer(c)
	if !ok {
		return
	}

	career, err := a.careers.Create(input)
	if err != nil {
		a.respondCareerError(c, err, "Failed to create career")
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"data": career})
}

// UpdateCareer replaces the editable fields of a career.
func (a *API) UpdateCareer(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid career id")
		return
	}

	input, ok := bindCareer(c)
	if !ok {
		return
	}

	career, err := a.careers.Update(id, input)
	if err != nil {
		a.respondCareerError(c, err, "Failed to update career")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"data": career})
}

// DeleteCareer removes a career and its translations.
func (a *API) DeleteCareer(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid career id")
		return
	}

	if err := a.careers.Delete(id); err != nil {
		a.respondCareerError(c, err, "Failed to delete career")
		return
	}
	a.purgeTranslations(db.EntityCareer, id)
	respondOK(c, http.StatusOK, gin.H{"message": "Career deleted"})
}

func bindCareer(c *gin.Context) (service.CareerInput, bool) {
	var req careerRequest
	if !bindJSON(c, &req, "Invalid career payload") {
		return service.CareerInput{}, false
	}
	input, err := req.input()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid deadline, expected YYYY-MM-DD")
		return service.CareerInput{}, false
	}
	return input, true
}

func (a *API) respondCareerError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, service.ErrCareerNotFound):
		respondError(c, http.StatusNotFound, "Career not found")
	case errors.Is(err, service.ErrCareerTitleRequired),
		errors.Is(err, service.ErrCareerTypeInvalid),
		errors.Is(err, service.ErrCareerContactMissing):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		a.respondInternal(c, message, err)
	}
}
