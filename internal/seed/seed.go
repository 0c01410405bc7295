// Package seed fills an empty database with demo content for local
// development. Each group is skipped when its table already has rows.
package seed

import (
	"context"
	"fmt"

	"github.com/ticsite/internal/db"
	"github.com/ticsite/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Report lists how many records each group created.
type Report struct {
	IndustryStats int
	Offices       int
	Sections      int
	Blogs         int
	Careers       int
}

// Run 生成演示数据；已有数据的分组会被跳过
func Run(ctx context.Context, gdb *gorm.DB, logger *zap.Logger) (Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var report Report
	steps := []struct {
		name  string
		model interface{}
		run   func() (int, error)
	}{
		{"industry stats", &db.IndustryStat{}, func() (int, error) { return seedIndustryStats(service.NewIndustryStatService(gdb)) }},
		{"contact offices", &db.ContactOffice{}, func() (int, error) {
			return seedOffices(ctx, service.NewContactOfficeService(gdb, nil, logger))
		}},
		{"pages", &db.Page{}, func() (int, error) { return seedHomePage(service.NewPageService(gdb)) }},
		{"blogs", &db.Blog{}, func() (int, error) { return seedBlogs(service.NewBlogService(gdb)) }},
		{"careers", &db.Career{}, func() (int, error) { return seedCareers(service.NewCareerService(gdb)) }},
	}

	counts := make([]int, len(steps))
	for i, step := range steps {
		var existing int64
		if err := gdb.Model(step.model).Count(&existing).Error; err != nil {
			return report, fmt.Errorf("count %s: %w", step.name, err)
		}
		if existing > 0 {
			logger.Info("seed skipped, data exists", zap.String("group", step.name), zap.Int64("rows", existing))
			continue
		}

		created, err := step.run()
		if err != nil {
			return report, fmt.Errorf("seed %s: %w", step.name, err)
		}
		counts[i] = created
		logger.Info("seeded", zap.String("group", step.name), zap.Int("created", created))
	}

	report.IndustryStats = counts[0]
	report.Offices = counts[1]
	report.Sections = counts[2]
	report.Blogs = counts[3]
	report.Careers = counts[4]
	return report, nil
}

func seedIndustryStats(stats *service.IndustryStatService) (int, error) {
	inputs := []service.IndustryStatInput{
		{Industry: "oil-gas", Label: "Inspections per year", Value: "12,000+", Icon: "gauge", Description: "Pipelines, storage tanks and pressure vessels."},
		{Industry: "oil-gas", Label: "Certified inspectors", Value: "350+", Icon: "hard-hat"},
		{Industry: "power", Label: "Assets under condition monitoring", Value: "4,500", Icon: "activity", Description: "Turbines, transformers and rotating equipment."},
		{Industry: "construction", Label: "Projects certified", Value: "900+", Icon: "building"},
		{Industry: "manufacturing", Label: "Accredited laboratories", Value: "8", Icon: "flask"},
	}
	for _, input := range inputs {
		if _, err := stats.Create(input); err != nil {
			return 0, err
		}
	}
	return len(inputs), nil
}

func seedOffices(ctx context.Context, offices *service.ContactOfficeService) (int, error) {
	lat, lon := 24.7136, 46.6753
	dubaiLat, dubaiLon := 25.2048, 55.2708
	inputs := []service.ContactOfficeInput{
		{
			Name:           "Head Office",
			Country:        "Saudi Arabia",
			City:           "Riyadh",
			Address:        "King Fahd Road",
			Phone:          "+966 11 000 0000",
			Email:          "info@example.com",
			WorkingHours:   "Sun - Thu, 8:00 - 17:00",
			Latitude:       &lat,
			Longitude:      &lon,
			IsHeadquarters: true,
			IsActive:       true,
		},
		{
			Name:         "Dubai Branch",
			Country:      "United Arab Emirates",
			City:         "Dubai",
			Address:      "Sheikh Zayed Road",
			Phone:        "+971 4 000 0000",
			Email:        "dubai@example.com",
			WorkingHours: "Mon - Fri, 9:00 - 18:00",
			Latitude:     &dubaiLat,
			Longitude:    &dubaiLon,
			IsActive:     true,
		},
	}
	for _, input := range inputs {
		if _, err := offices.Create(ctx, input); err != nil {
			return 0, err
		}
	}
	return len(inputs), nil
}

func seedHomePage(pages *service.PageService) (int, error) {
	page, err := pages.Create(service.PageInput{
		Slug:            "home",
		Title:           "Home",
		MetaTitle:       "Testing, Inspection and Certification",
		MetaDescription: "Independent testing, inspection and certification services.",
	})
	if err != nil {
		return 0, err
	}

	sections := []service.SectionInput{
		{
			Key:       "hero",
			Type:      db.SectionHero,
			Title:     "Assuring quality, safety and compliance",
			Subtitle:  "Testing, inspection and certification across the region",
			CTALabel:  "Contact us",
			CTALink:   "/contact",
			IsVisible: true,
		},
		{
			Key:   "services",
			Type:  db.SectionCards,
			Title: "Our services",
			Items: []db.SectionItem{
				{Title: "Testing", Description: "Accredited laboratory and field testing.", Icon: "flask"},
				{Title: "Inspection", Description: "Third-party inspection of assets and projects.", Icon: "search"},
				{Title: "Certification", Description: "Management system and product certification.", Icon: "award"},
				{Title: "Condition monitoring", Description: "Vibration, thermography and oil analysis programs.", Icon: "activity", Link: "/services/cbm"},
			},
			IsVisible: true,
		},
		{
			Key:       "about",
			Type:      db.SectionText,
			Title:     "Who we are",
			Content:   "## Independent by design\n\nWe help operators keep assets **safe** and compliant.\n\n- ISO/IEC 17020 inspection body\n- ISO/IEC 17025 laboratories",
			IsVisible: true,
		},
		{
			Key:       "cta",
			Type:      db.SectionCTA,
			Title:     "Need an inspection?",
			CTALabel:  "Request a quote",
			CTALink:   "/contact",
			IsVisible: true,
		},
	}
	for _, input := range sections {
		if _, err := pages.AddSection(page.ID, input); err != nil {
			return 0, err
		}
	}
	return len(sections), nil
}

func seedBlogs(blogs *service.BlogService) (int, error) {
	inputs := []service.BlogInput{
		{
			Title:    "Why condition-based monitoring pays off",
			Author:   "Engineering Team",
			Category: "Insights",
			Tags:     []string{"cbm", "maintenance"},
			Content:  "Planned maintenance replaces parts on a calendar.\n\nCondition-based monitoring replaces them when the data says so.\n\n> Fewer shutdowns, lower cost.",
			Status:   db.StatusPublished,
		},
		{
			Title:    "Preparing for your first ISO audit",
			Author:   "Certification Team",
			Category: "Guides",
			Tags:     []string{"iso", "audit"},
			Content:  "1. Define the scope\n2. Document your processes\n3. Run an internal audit",
			Status:   db.StatusDraft,
		},
	}
	for _, input := range inputs {
		if _, err := blogs.Create(input); err != nil {
			return 0, err
		}
	}
	return len(inputs), nil
}

func seedCareers(careers *service.CareerService) (int, error) {
	inputs := []service.CareerInput{
		{
			Title:            "Senior NDT Inspector",
			Department:       "Inspection",
			Location:         "Riyadh",
			EmploymentType:   db.EmploymentFullTime,
			ExperienceLevel:  "Senior",
			Description:      "Lead ultrasonic and radiographic inspections on client sites.",
			Requirements:     []string{"ASNT Level II", "5+ years field experience"},
			Responsibilities: []string{"Plan inspections", "Write inspection reports"},
			ApplyEmail:       "careers@example.com",
			IsActive:         true,
		},
	}
	for _, input := range inputs {
		if _, err := careers.Create(input); err != nil {
			return 0, err
		}
	}
	return len(inputs), nil
}
