package db

// Page represents a content page such as home, about or a service line.
type Page struct {
	Model
	Slug            string    `gorm:"size:160;uniqueIndex;not null" json:"slug"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	MetaTitle       string    `gorm:"size:255" json:"metaTitle"`
	MetaDescription string    `gorm:"size:512" json:"metaDescription"`
	Status          string    `gorm:"size:20;default:published" json:"status"`
	Sections        []Section `gorm:"constraint:OnDelete:CASCADE;" json:"sections"`
}

const (
	SectionHero    = "hero"
	SectionText    = "text"
	SectionCards   = "cards"
	SectionStats   = "stats"
	SectionGallery = "gallery"
	SectionCTA     = "cta"
)

// SectionItem is one card, stat or gallery entry inside a section.
type SectionItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Link        string `json:"link,omitempty"`
}

// Section is an ordered block of a page.
type Section struct {
	Model
	PageID    uint          `gorm:"not null;uniqueIndex:idx_sections_page_key" json:"pageId"`
	Key       string        `gorm:"size:80;not null;uniqueIndex:idx_sections_page_key" json:"key"`
	Type      string        `gorm:"size:20;not null" json:"type"`
	Title     string        `gorm:"size:255" json:"title"`
	Subtitle  string        `gorm:"size:255" json:"subtitle"`
	Content   string        `gorm:"type:text" json:"content"`
	ImageURL  string        `gorm:"size:512" json:"imageUrl"`
	CTALabel  string        `gorm:"size:120" json:"ctaLabel"`
	CTALink   string        `gorm:"size:512" json:"ctaLink"`
	Items     []SectionItem `gorm:"type:text;serializer:json" json:"items"`
	SortOrder int           `gorm:"default:0" json:"sortOrder"`
	IsVisible bool          `json:"isVisible"`
}
