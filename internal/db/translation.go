package db

const (
	EntityBlog          = "blog"
	EntityCareer        = "career"
	EntityContactOffice = "contact-office"
	EntityIndustryStat  = "industry-stat"
	EntityPage          = "page"
	EntitySection       = "section"
)

// ContentTranslation 存储编辑手动维护的字段译文，优先级高于机器翻译。
type ContentTranslation struct {
	Model
	EntityType string `gorm:"size:40;not null;uniqueIndex:idx_content_translation" json:"entityType"`
	EntityID   uint   `gorm:"not null;uniqueIndex:idx_content_translation" json:"entityId"`
	Language   string `gorm:"size:10;not null;uniqueIndex:idx_content_translation" json:"language"`
	Field      string `gorm:"size:60;not null;uniqueIndex:idx_content_translation" json:"field"`
	Value      string `gorm:"type:text" json:"value"`
}

// TranslationMemory caches machine translations by source text hash.
type TranslationMemory struct {
	ID             uint   `gorm:"primarykey"`
	SourceHash     string `gorm:"size:64;not null;uniqueIndex:idx_translation_memory"`
	SourceLanguage string `gorm:"size:10;not null;uniqueIndex:idx_translation_memory"`
	TargetLanguage string `gorm:"size:10;not null;uniqueIndex:idx_translation_memory"`
	Value          string `gorm:"type:text"`
	Hits           int64
}

// TableName keeps the memory table name singular-agnostic.
func (TranslationMemory) TableName() string {
	return "translation_memory"
}
