package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/ticsite/internal/db"
	"github.com/ticsite/internal/service"
	"go.uber.org/zap"
)

// WarmReport counts what WarmTranslations walked through.
type WarmReport struct {
	Languages  []string
	Blogs      int
	Careers    int
	Offices    int
	Stats      int
	Pages      int
	NewEntries int64
}

// WarmTranslations 预先翻译所有公开内容，写入翻译记忆，首次访问无需等待机器翻译。
// langs 为空时处理除默认语言外的全部支持语言。
func (a *API) WarmTranslations(ctx context.Context, langs []string) (WarmReport, error) {
	targets, err := a.warmTargets(langs)
	if err != nil {
		return WarmReport{}, err
	}
	report := WarmReport{Languages: targets}

	before, err := a.countMemory()
	if err != nil {
		return report, err
	}

	blogs, err := a.publishedBlogs()
	if err != nil {
		return report, err
	}
	careers, err := a.openCareers()
	if err != nil {
		return report, err
	}
	offices, err := a.offices.List(true)
	if err != nil {
		return report, err
	}
	stats, err := a.stats.List("")
	if err != nil {
		return report, err
	}
	pages, err := a.publishedPages()
	if err != nil {
		return report, err
	}

	for _, lang := range targets {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		a.localizeBlogs(ctx, blogs, lang)
		for _, career := range careers {
			a.localizeCareer(ctx, career, lang)
		}
		for _, office := range offices {
			a.localizeOffice(ctx, office, lang)
		}
		for _, stat := range stats {
			a.localizeStat(ctx, stat, lang)
		}
		for _, page := range pages {
			a.localizePage(ctx, page, lang)
		}
		a.logger.Info("translations warmed", zap.String("lang", lang))
	}

	report.Blogs = len(blogs)
	report.Careers = len(careers)
	report.Offices = len(offices)
	report.Stats = len(stats)
	report.Pages = len(pages)

	after, err := a.countMemory()
	if err != nil {
		return report, err
	}
	report.NewEntries = after - before
	return report, nil
}

func (a *API) warmTargets(langs []string) ([]string, error) {
	if len(langs) == 0 {
		langs = a.matcher.Supported()
	}
	targets := make([]string, 0, len(langs))
	seen := make(map[string]struct{}, len(langs))
	for _, raw := range langs {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		code := a.matcher.Normalize(raw)
		if code == "" {
			return nil, fmt.Errorf("language %q is not supported", raw)
		}
		if a.isDefaultLanguage(code) {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		targets = append(targets, code)
	}
	return targets, nil
}

func (a *API) publishedBlogs() ([]db.Blog, error) {
	var blogs []db.Blog
	for page := 1; ; page++ {
		result, err := a.blogs.List(service.BlogFilter{Status: db.StatusPublished, Page: page, PerPage: 100})
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, result.Blogs...)
		if !result.Pagination.HasNext {
			return blogs, nil
		}
	}
}

func (a *API) openCareers() ([]db.Career, error) {
	var careers []db.Career
	for page := 1; ; page++ {
		result, err := a.careers.List(service.CareerFilter{PublicOnly: true, Page: page, PerPage: 100})
		if err != nil {
			return nil, err
		}
		careers = append(careers, result.Careers...)
		if !result.Pagination.HasNext {
			return careers, nil
		}
	}
}

func (a *API) publishedPages() ([]db.Page, error) {
	listed, err := a.pages.List()
	if err != nil {
		return nil, err
	}
	pages := make([]db.Page, 0, len(listed))
	for _, page := range listed {
		if page.Status != db.StatusPublished {
			continue
		}
		full, err := a.pages.GetPublishedBySlug(page.Slug)
		if err != nil {
			return nil, err
		}
		pages = append(pages, *full)
	}
	return pages, nil
}

func (a *API) countMemory() (int64, error) {
	var count int64
	if err := a.db.Model(&db.TranslationMemory{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
