package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base 通用主键与时间戳，ID 在创建前生成 UUID
type Base struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate 生成 UUID 主键
func (b *Base) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// GetID 返回主键
func (b *Base) GetID() string {
	return b.ID
}

// GetBase 返回内嵌的 Base，供通用服务保护主键和创建时间
func (b *Base) GetBase() *Base {
	return b
}

// Language 站点支持的语言
type Language string

const (
	LangEN Language = "en"
	LangAR Language = "ar"
)

// ParseLanguage 解析语言代码，未知值返回 false
func ParseLanguage(s string) (Language, bool) {
	switch Language(s) {
	case LangEN, LangAR:
		return Language(s), true
	}
	return "", false
}

// Localized 按语言区分的文本，通过 embeddedPrefix 展开为 {prefix}en / {prefix}ar 两列
type Localized struct {
	EN string `gorm:"column:en;type:text" json:"en"`
	AR string `gorm:"column:ar;type:text" json:"ar"`
}

// Get 返回指定语言的文本
func (l Localized) Get(lang Language) string {
	if lang == LangAR {
		return l.AR
	}
	return l.EN
}

// Set 设置指定语言的文本
func (l *Localized) Set(lang Language, v string) {
	if lang == LangAR {
		l.AR = v
		return
	}
	l.EN = v
}

// Status 内容状态
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// IsPublic 匿名访问时可见的状态
func (s Status) IsPublic() bool {
	return s == StatusActive || s == StatusPublished
}

// All 需要自动迁移的全部模型
func All() []interface{} {
	return []interface{}{
		&User{},
		&AuditLog{},
		&Media{},
		&Category{},
		&Blog{},
		&Brand{},
		&Client{},
		&Testimonial{},
		&TeamMember{},
		&Location{},
		&Project{},
		&FAQ{},
		&PageSEO{},
		&SEOGeneral{},
		&Setting{},
		&ContactMessage{},
		&Subscription{},
	}
}
