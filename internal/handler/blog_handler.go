package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ticsite/internal/db"
	"github.com/ticsite/internal/service"
)

type blogRequest struct {
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	Excerpt    string   `json:"excerpt"`
	Content    string   `json:"content"`
	CoverImage string   `json:"coverImage"`
	Author     string   `json:"author"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	Status     string   `json:"status"`
}

func (r blogRequest) input() service.BlogInput {
	return service.BlogInput{
		Title:      r.Title,
		Slug:       r.Slug,
		Excerpt:    r.Excerpt,
		Content:    r.Content,
		CoverImage: r.CoverImage,
		Author:     r.Author,
		Category:   r.Category,
		Tags:       r.Tags,
		Status:     r.Status,
	}
}

// ListBlogs 返回后台博客列表，包含草稿
func (a *API) ListBlogs(c *gin.Context) {
	result, err := a.blogs.List(service.BlogFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
		Status:   c.Query("status"),
		Page:     queryInt(c, "page"),
		PerPage:  queryInt(c, "limit"),
	})
	if err != nil {
		a.respondInternal(c, "Failed to load blogs", err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"data":       result.Blogs,
		"pagination": paginationPayload(result.Pagination),
		"counts": gin.H{
			"published": result.PublishedCount,
			"draft":     result.DraftCount,
		},
	})
}

// GetBlog returns a blog by id regardless of status.
func (a *API) GetBlog(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid blog id")
		return
	}

	blog, err := a.blogs.Get(id)
	if err != nil {
		a.respondBlogError(c, err, "Failed to load blog")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"data": blog})
}

// CreateBlog creates a blog post.
func (a *API) CreateBlog(c *gin.Context) {
	var req blogRequest
	if !bindJSON(c, &req, "Invalid blog payload") {
		return
	}

	blog, err := a.blogs.Create(req.input())
	if err != nil {
		a.respondBlogError(c, err, "Failed to create blog")
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"data": blog})
}

// UpdateBlog replaces the editable fields of a blog.
func (a *API) UpdateBlog(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid blog id")
		return
	}

	var req blogRequest
	if !bindJSON(c, &req, "Invalid blog payload") {
		return
	}

	blog, err := a.blogs.Update(id, req.input())
	if err != nil {
		a.respondBlogError(c, err, "Failed to update blog")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"data": blog})
}

// DeleteBlog 删除博客并清理其翻译
func (a *API) DeleteBlog(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid blog id")
		return
	}

	if err := a.blogs.Delete(id); err != nil {
		a.respondBlogError(c, err, "Failed to delete blog")
		return
	}
	a.purgeTranslations(db.EntityBlog, id)
	respondOK(c, http.StatusOK, gin.H{"message": "Blog deleted"})
}

func (a *API) respondBlogError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, service.ErrBlogNotFound):
		respondError(c, http.StatusNotFound, "Blog not found")
	case errors.Is(err, service.ErrBlogTitleRequired), errors.Is(err, service.ErrBlogStatusInvalid):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		a.respondInternal(c, message, err)
	}
}
