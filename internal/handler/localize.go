package handler

import (
	"context"
	"fmt"

	"github.com/ticsite/internal/db"
	"go.uber.org/zap"
)

// 公开接口返回的内容按请求语言翻译；翻译失败时保留原文，不影响响应。

func (a *API) localizeFields(ctx context.Context, entity string, id uint, lang string, fields map[string]string) map[string]string {
	out, err := a.translations.Localize(ctx, entity, id, lang, fields)
	if err != nil {
		a.logger.Warn("localize entity",
			zap.String("entity", entity),
			zap.Uint("id", id),
			zap.String("lang", lang),
			zap.Error(err),
		)
		return fields
	}
	return out
}

func (a *API) localizeList(ctx context.Context, entity string, id uint, lang, field string, values []string) []string {
	out, err := a.translations.LocalizeList(ctx, entity, id, lang, field, values)
	if err != nil {
		return values
	}
	return out
}

func (a *API) isDefaultLanguage(lang string) bool {
	return lang == "" || lang == a.translations.DefaultLanguage()
}

func (a *API) localizeBlog(ctx context.Context, blog db.Blog, lang string) db.Blog {
	if a.isDefaultLanguage(lang) {
		return blog
	}
	fields := a.localizeFields(ctx, db.EntityBlog, blog.ID, lang, map[string]string{
		"title":    blog.Title,
		"excerpt":  blog.Excerpt,
		"content":  blog.Content,
		"category": blog.Category,
	})
	blog.Title = fields["title"]
	blog.Excerpt = fields["excerpt"]
	blog.Content = fields["content"]
	blog.Category = fields["category"]
	blog.Tags = a.localizeList(ctx, db.EntityBlog, blog.ID, lang, "tags", blog.Tags)
	return blog
}

func (a *API) localizeBlogs(ctx context.Context, blogs []db.Blog, lang string) []db.Blog {
	out := make([]db.Blog, 0, len(blogs))
	for _, blog := range blogs {
		out = append(out, a.localizeBlog(ctx, blog, lang))
	}
	return out
}

func (a *API) localizeCareer(ctx context.Context, career db.Career, lang string) db.Career {
	if a.isDefaultLanguage(lang) {
		return career
	}
	fields := a.localizeFields(ctx, db.EntityCareer, career.ID, lang, map[string]string{
		"title":           career.Title,
		"department":      career.Department,
		"location":        career.Location,
		"experienceLevel": career.ExperienceLevel,
		"summary":         career.Summary,
		"description":     career.Description,
	})
	career.Title = fields["title"]
	career.Department = fields["department"]
	career.Location = fields["location"]
	career.ExperienceLevel = fields["experienceLevel"]
	career.Summary = fields["summary"]
	career.Description = fields["description"]
	career.Responsibilities = a.localizeList(ctx, db.EntityCareer, career.ID, lang, "responsibilities", career.Responsibilities)
	career.Requirements = a.localizeList(ctx, db.EntityCareer, career.ID, lang, "requirements", career.Requirements)
	career.Benefits = a.localizeList(ctx, db.EntityCareer, career.ID, lang, "benefits", career.Benefits)
	return career
}

func (a *API) localizeOffice(ctx context.Context, office db.ContactOffice, lang string) db.ContactOffice {
	if a.isDefaultLanguage(lang) {
		return office
	}
	fields := a.localizeFields(ctx, db.EntityContactOffice, office.ID, lang, map[string]string{
		"name":         office.Name,
		"country":      office.Country,
		"city":         office.City,
		"address":      office.Address,
		"workingHours": office.WorkingHours,
	})
	office.Name = fields["name"]
	office.Country = fields["country"]
	office.City = fields["city"]
	office.Address = fields["address"]
	office.WorkingHours = fields["workingHours"]
	return office
}

func (a *API) localizeStat(ctx context.Context, stat db.IndustryStat, lang string) db.IndustryStat {
	if a.isDefaultLanguage(lang) {
		return stat
	}
	fields := a.localizeFields(ctx, db.EntityIndustryStat, stat.ID, lang, map[string]string{
		"label":       stat.Label,
		"description": stat.Description,
	})
	stat.Label = fields["label"]
	stat.Description = fields["description"]
	return stat
}

func (a *API) localizePage(ctx context.Context, page db.Page, lang string) db.Page {
	if a.isDefaultLanguage(lang) {
		return page
	}
	fields := a.localizeFields(ctx, db.EntityPage, page.ID, lang, map[string]string{
		"title":           page.Title,
		"metaTitle":       page.MetaTitle,
		"metaDescription": page.MetaDescription,
	})
	page.Title = fields["title"]
	page.MetaTitle = fields["metaTitle"]
	page.MetaDescription = fields["metaDescription"]

	sections := make([]db.Section, 0, len(page.Sections))
	for _, section := range page.Sections {
		sections = append(sections, a.localizeSection(ctx, section, lang))
	}
	page.Sections = sections
	return page
}

func (a *API) localizeSection(ctx context.Context, section db.Section, lang string) db.Section {
	source := map[string]string{
		"title":    section.Title,
		"subtitle": section.Subtitle,
		"content":  section.Content,
		"ctaLabel": section.CTALabel,
	}
	for i, item := range section.Items {
		source[fmt.Sprintf("items.%d.title", i)] = item.Title
		source[fmt.Sprintf("items.%d.description", i)] = item.Description
	}

	fields := a.localizeFields(ctx, db.EntitySection, section.ID, lang, source)
	section.Title = fields["title"]
	section.Subtitle = fields["subtitle"]
	section.Content = fields["content"]
	section.CTALabel = fields["ctaLabel"]

	items := make([]db.SectionItem, len(section.Items))
	for i, item := range section.Items {
		item.Title = fields[fmt.Sprintf("items.%d.title", i)]
		item.Description = fields[fmt.Sprintf("items.%d.description", i)]
		items[i] = item
	}
	section.Items = items
	return section
}
