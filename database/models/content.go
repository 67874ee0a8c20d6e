package models

import "time"

// Category 博客分类
type Category struct {
	Base
	Slug        string    `gorm:"size:191;not null;uniqueIndex" json:"slug"`
	Name        Localized `gorm:"embedded;embeddedPrefix:name_" json:"name"`
	Description Localized `gorm:"embedded;embeddedPrefix:description_" json:"description"`
}

// Blog 博客文章，Content 为块结构文档
type Blog struct {
	Base
	Slug          string     `gorm:"size:191;not null;uniqueIndex" json:"slug"`
	Status        Status     `gorm:"size:20;not null;default:draft;index" json:"status"`
	Title         Localized  `gorm:"embedded;embeddedPrefix:title_" json:"title"`
	Description   Localized  `gorm:"embedded;embeddedPrefix:description_" json:"description"`
	Content       Localized  `gorm:"embedded;embeddedPrefix:content_" json:"content"`
	CoverImageURL string     `gorm:"column:cover_image_url;size:1024" json:"coverImageUrl"`
	CategoryID    *string    `gorm:"type:varchar(36);index" json:"categoryId"`
	Category      *Category  `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	PublishedAt   *time.Time `json:"publishedAt"`
}

// MediaFields 引用媒体的字段
func (b *Blog) MediaFields() map[string]string {
	return map[string]string{
		"coverImageUrl": b.CoverImageURL,
		"content_en":    b.Content.EN,
		"content_ar":    b.Content.AR,
	}
}

// Brand 合作品牌
type Brand struct {
	Base
	Status       Status    `gorm:"size:20;not null;default:active;index" json:"status"`
	DisplayOrder int       `gorm:"not null;default:0" json:"displayOrder"`
	Name         Localized `gorm:"embedded;embeddedPrefix:name_" json:"name"`
	Description  Localized `gorm:"embedded;embeddedPrefix:description_" json:"description"`
	LogoURL      string    `gorm:"column:logo_url;size:1024" json:"logoUrl"`
}

func (b *Brand) MediaFields() map[string]string {
	return map[string]string{"logoUrl": b.LogoURL}
}

// Client 客户
type Client struct {
	Base
	Status       Status    `gorm:"size:20;not null;default:active;index" json:"status"`
	DisplayOrder int       `gorm:"not null;default:0" json:"displayOrder"`
	Title        Localized `gorm:"embedded;embeddedPrefix:title_" json:"title"`
	Description  Localized `gorm:"embedded;embeddedPrefix:description_" json:"description"`
	URL          string    `gorm:"size:1024" json:"url"`
	LogoURL      string    `gorm:"column:logo_url;size:1024" json:"logoUrl"`
}

func (c *Client) MediaFields() map[string]string {
	return map[string]string{"logoUrl": c.LogoURL}
}

// Testimonial 客户评价
type Testimonial struct {
	Base
	Status        Status    `gorm:"size:20;not null;default:draft;index" json:"status"`
	DisplayOrder  int       `gorm:"not null;default:0" json:"displayOrder"`
	Name          Localized `gorm:"embedded;embeddedPrefix:name_" json:"name"`
	Position      Localized `gorm:"embedded;embeddedPrefix:position_" json:"position"`
	Company       Localized `gorm:"embedded;embeddedPrefix:company_" json:"company"`
	Content       Localized `gorm:"embedded;embeddedPrefix:content_" json:"content"`
	LogoURL       string    `gorm:"column:logo_url;size:1024" json:"logoUrl"`
	CoverImageURL string    `gorm:"column:cover_image_url;size:1024" json:"coverImageUrl"`
}

func (t *Testimonial) MediaFields() map[string]string {
	return map[string]string{
		"logoUrl":       t.LogoURL,
		"coverImageUrl": t.CoverImageURL,
	}
}

// TeamMember 团队成员
type TeamMember struct {
	Base
	Status        Status    `gorm:"size:20;not null;default:active;index" json:"status"`
	DisplayOrder  int       `gorm:"not null;default:0" json:"displayOrder"`
	Name          Localized `gorm:"embedded;embeddedPrefix:name_" json:"name"`
	Title         Localized `gorm:"embedded;embeddedPrefix:title_" json:"title"`
	CoverImageURL string    `gorm:"column:cover_image_url;size:1024" json:"coverImageUrl"`
	LinkedInURL   string    `gorm:"column:linkedin_url;size:1024" json:"linkedinUrl"`
}

func (m *TeamMember) MediaFields() map[string]string {
	return map[string]string{"coverImageUrl": m.CoverImageURL}
}

// Location 办公地点
type Location struct {
	Base
	Slug         string    `gorm:"size:191;not null;uniqueIndex" json:"slug"`
	Status       Status    `gorm:"size:20;not null;default:draft;index" json:"status"`
	DisplayOrder int       `gorm:"not null;default:0" json:"displayOrder"`
	Title        Localized `gorm:"embedded;embeddedPrefix:title_" json:"title"`
	Description  Localized `gorm:"embedded;embeddedPrefix:description_" json:"description"`
	City         Localized `gorm:"embedded;embeddedPrefix:city_" json:"city"`
	Phone        Localized `gorm:"embedded;embeddedPrefix:phone_" json:"phone"`
	WorkingHours Localized `gorm:"embedded;embeddedPrefix:working_hours_" json:"workingHours"`
	Content      Localized `gorm:"embedded;embeddedPrefix:content_" json:"content"`
	Cover        string    `gorm:"size:1024" json:"cover"`
	MapURL       string    `gorm:"column:map_url;size:2048" json:"mapUrl"`
}

func (l *Location) MediaFields() map[string]string {
	return map[string]string{
		"cover":      l.Cover,
		"content_en": l.Content.EN,
		"content_ar": l.Content.AR,
	}
}

// Project 项目案例，最多四张图片
type Project struct {
	Base
	Status       Status    `gorm:"size:20;not null;default:active;index" json:"status"`
	DisplayOrder int       `gorm:"not null;default:0" json:"displayOrder"`
	Title        Localized `gorm:"embedded;embeddedPrefix:title_" json:"title"`
	Description  Localized `gorm:"embedded;embeddedPrefix:description_" json:"description"`
	URL          string    `gorm:"size:1024" json:"url"`
	Image1URL    string    `gorm:"column:image1_url;size:1024" json:"image1Url"`
	Image2URL    string    `gorm:"column:image2_url;size:1024" json:"image2Url"`
	Image3URL    string    `gorm:"column:image3_url;size:1024" json:"image3Url"`
	Image4URL    string    `gorm:"column:image4_url;size:1024" json:"image4Url"`
}

func (p *Project) MediaFields() map[string]string {
	return map[string]string{
		"image1Url": p.Image1URL,
		"image2Url": p.Image2URL,
		"image3Url": p.Image3URL,
		"image4Url": p.Image4URL,
	}
}

// FAQ 常见问题
type FAQ struct {
	Base
	Status       Status    `gorm:"size:20;not null;default:active;index" json:"status"`
	DisplayOrder int       `gorm:"not null;default:0" json:"displayOrder"`
	Question     Localized `gorm:"embedded;embeddedPrefix:question_" json:"question"`
	Answer       Localized `gorm:"embedded;embeddedPrefix:answer_" json:"answer"`
	Category     string    `gorm:"size:64;index" json:"category"`
}

func (FAQ) TableName() string {
	return "faqs"
}

func (b *Blog) GetStatus() Status {
	return b.Status
}

func (b *Brand) GetStatus() Status {
	return b.Status
}

func (c *Client) GetStatus() Status {
	return c.Status
}

func (t *Testimonial) GetStatus() Status {
	return t.Status
}

func (m *TeamMember) GetStatus() Status {
	return m.Status
}

func (l *Location) GetStatus() Status {
	return l.Status
}

func (p *Project) GetStatus() Status {
	return p.Status
}

func (f *FAQ) GetStatus() Status {
	return f.Status
}
