package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ticsite/internal/content"
	"github.com/ticsite/internal/db"
	"github.com/ticsite/internal/locale"
	"github.com/ticsite/internal/service"
)

const relatedBlogLimit = 3

type blogDetail struct {
	db.Blog
	Blocks  []content.Block `json:"blocks"`
	HTML    string          `json:"html"`
	Images  []string        `json:"images"`
	Related []db.Blog       `json:"related"`
}

type sectionView struct {
	db.Section
	Blocks []content.Block `json:"blocks"`
	HTML   string          `json:"html"`
}

type pageView struct {
	db.Page
	Sections []sectionView `json:"sections"`
}

// Health reports whether the API and its database respond.
func (a *API) Health(c *gin.Context) {
	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Database unavailable")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"status": "ok"})
}

// ListPublishedBlogs 返回已发布的博客列表
func (a *API) ListPublishedBlogs(c *gin.Context) {
	lang := a.requestLanguage(c)
	result, err := a.blogs.List(service.BlogFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
		Status:   db.StatusPublished,
		Page:     queryInt(c, "page"),
		PerPage:  queryInt(c, "limit"),
	})
	if err != nil {
		a.respondInternal(c, "Failed to load blogs", err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"data":       a.localizeBlogs(c.Request.Context(), result.Blogs, lang),
		"pagination": paginationPayload(result.Pagination),
		"language":   lang,
	})
}

// ListBlogCategories returns categories of published blogs.
func (a *API) ListBlogCategories(c *gin.Context) {
	categories, err := a.blogs.Categories()
	if err != nil {
		a.respondInternal(c, "Failed to load categories", err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"data": categories})
}

// GetPublishedBlog 返回博客详情，附带解析后的内容块、HTML 和相关文章
func (a *API) GetPublishedBlog(c *gin.Context) {
	blog, err := a.blogs.GetPublishedBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrBlogNotFound) {
			respondError(c, http.StatusNotFound, "Blog not found")
			return
		}
		a.respondInternal(c, "Failed to load blog", err)
		return
	}

	ctx := c.Request.Context()
	lang := a.requestLanguage(c)
	related, err := a.blogs.Related(blog, relatedBlogLimit)
	if err != nil {
		a.respondInternal(c, "Failed to load related blogs", err)
		return
	}

	localized := a.localizeBlog(ctx, *blog, lang)
	html, err := content.RenderHTML(localized.Content)
	if err != nil {
		a.respondInternal(c, "Failed to render blog", err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"data": blogDetail{
			Blog:    localized,
			Blocks:  content.Parse(localized.Content),
			HTML:    html,
			Images:  content.Images(localized.Content),
			Related: a.localizeBlogs(ctx, related, lang),
		},
		"language": lang,
	})
}

// ListOpenCareers 返回公开的职位列表
func (a *API) ListOpenCareers(c *gin.Context) {
	lang := a.requestLanguage(c)
	result, err := a.careers.List(service.CareerFilter{
		Search:         c.Query("search"),
		Department:     c.Query("department"),
		Location:       c.Query("location"),
		EmploymentType: c.Query("type"),
		PublicOnly:     true,
		Page:           queryInt(c, "page"),
		PerPage:        queryInt(c, "limit"),
	})
	if err != nil {
		a.respondInternal(c, "Failed to load careers", err)
		return
	}

	careers := make([]db.Career, 0, len(result.Careers))
	for _, career := range result.Careers {
		careers = append(careers, a.localizeCareer(c.Request.Context(), career, lang))
	}
	respondOK(c, http.StatusOK, gin.H{
		"data":       careers,
		"pagination": paginationPayload(result.Pagination),
		"language":   lang,
	})
}

// ListCareerDepartments returns departments with open positions.
func (a *API) ListCareerDepartments(c *gin.Context) {
	departments, err := a.careers.Departments()
	if err != nil {
		a.respondInternal(c, "Failed to load departments", err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"data": departments})
}

// GetOpenCareer returns one open position.
func (a *API) GetOpenCareer(c *gin.Context) {
	career, err := a.careers.GetActiveBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrCareerNotFound) {
			respondError(c, http.StatusNotFound, "Career not found")
			return
		}
		a.respondInternal(c, "Failed to load career", err)
		return
	}

	lang := a.requestLanguage(c)
	localized := a.localizeCareer(c.Request.Context(), *career, lang)
	html, err := content.RenderHTML(localized.Description)
	if err != nil {
		a.respondInternal(c, "Failed to render career", err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"data": gin.H{
			"career": localized,
			"blocks": content.Parse(localized.Description),
			"html":   html,
		},
		"language": lang,
	})
}

// ListActiveOffices 返回前台联系页展示的办公室
func (a *API) ListActiveOffices(c *gin.Context) {
	offices, err := a.offices.List(true)
	if err != nil {
		a.respondInternal(c, "Failed to load contact offices", err)
		return
	}

	lang := a.requestLanguage(c)
	localized := make([]db.ContactOffice, 0, len(offices))
	for _, office := range offices {
		localized = append(localized, a.localizeOffice(c.Request.Context(), office, lang))
	}
	respondOK(c, http.StatusOK, gin.H{"data": localized, "language": lang})
}

// ListIndustryStats returns headline figures, optionally for one industry.
func (a *API) ListIndustryStats(c *gin.Context) {
	stats, err := a.stats.List(c.Query("industry"))
	if err != nil {
		a.respondInternal(c, "Failed to load industry stats", err)
		return
	}

	lang := a.requestLanguage(c)
	localized := make([]db.IndustryStat, 0, len(stats))
	for _, stat := range stats {
		localized = append(localized, a.localizeStat(c.Request.Context(), stat, lang))
	}
	respondOK(c, http.StatusOK, gin.H{"data": localized, "language": lang})
}

// GetPublishedPage 返回页面及其可见区块
func (a *API) GetPublishedPage(c *gin.Context) {
	page, err := a.pages.GetPublishedBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			respondError(c, http.StatusNotFound, "Page not found")
			return
		}
		a.respondInternal(c, "Failed to load page", err)
		return
	}

	lang := a.requestLanguage(c)
	localized := a.localizePage(c.Request.Context(), *page, lang)
	view := pageView{Page: localized, Sections: make([]sectionView, 0, len(localized.Sections))}
	for _, section := range localized.Sections {
		html, err := content.RenderHTML(section.Content)
		if err != nil {
			a.respondInternal(c, "Failed to render page", err)
			return
		}
		view.Sections = append(view.Sections, sectionView{
			Section: section,
			Blocks:  content.Parse(section.Content),
			HTML:    html,
		})
	}

	respondOK(c, http.StatusOK, gin.H{"data": view, "language": lang})
}

// GetDictionary returns the static UI strings of a language.
func (a *API) GetDictionary(c *gin.Context) {
	requested := strings.TrimSpace(c.Param("lang"))
	lang := a.matcher.Normalize(requested)
	if lang == "" {
		respondError(c, http.StatusNotFound, "Language not supported")
		return
	}

	code, entries := a.dictionaries.Lookup(lang)
	respondOK(c, http.StatusOK, gin.H{
		"language":     lang,
		"dictionary":   code,
		"direction":    locale.Direction(lang),
		"translations": entries,
	})
}

// ListLanguages returns the supported languages.
func (a *API) ListLanguages(c *gin.Context) {
	bundled := make(map[string]struct{})
	for _, code := range a.dictionaries.Languages() {
		bundled[code] = struct{}{}
	}

	languages := make([]gin.H, 0)
	for _, code := range a.matcher.Supported() {
		pref := a.matcher.Preference(code)
		_, hasDictionary := bundled[code]
		languages = append(languages, gin.H{
			"code":          code,
			"htmlLang":      pref.HTMLLang,
			"direction":     pref.Direction,
			"hasDictionary": hasDictionary,
		})
	}
	respondOK(c, http.StatusOK, gin.H{
		"default":   a.matcher.Default(),
		"languages": languages,
	})
}

type contactMessageRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Company  string `json:"company"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	OfficeID *uint  `json:"officeId"`
}

// SubmitContactMessage 保存前台联系表单并通知对应办公室
func (a *API) SubmitContactMessage(c *gin.Context) {
	var req contactMessageRequest
	if !bindJSON(c, &req, "Invalid contact form") {
		return
	}

	message, err := a.messages.Submit(c.Request.Context(), service.ContactMessageInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Company:  req.Company,
		Subject:  req.Subject,
		Message:  req.Message,
		OfficeID: req.OfficeID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContactNameRequired),
			errors.Is(err, service.ErrContactEmailInvalid),
			errors.Is(err, service.ErrContactMessageRequired),
			errors.Is(err, service.ErrContactMessageTooLong):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrOfficeNotFound):
			respondError(c, http.StatusBadRequest, "Selected office does not exist")
		default:
			a.respondInternal(c, "Failed to send message", err)
		}
		return
	}

	respondOK(c, http.StatusCreated, gin.H{
		"message": "Thank you, we will get back to you shortly",
		"id":      message.ID,
	})
}
