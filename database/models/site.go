package models

import "time"

// PageSEO 单页面 SEO 元数据，Page 为页面键（如 home、about）
type PageSEO struct {
	Base
	Page            string    `gorm:"size:100;not null;uniqueIndex" json:"page"`
	MetaTitle       Localized `gorm:"embedded;embeddedPrefix:meta_title_" json:"metaTitle"`
	MetaDescription Localized `gorm:"embedded;embeddedPrefix:meta_description_" json:"metaDescription"`
	Keywords        Localized `gorm:"embedded;embeddedPrefix:keywords_" json:"keywords"`
	OGImage         string    `gorm:"column:og_image;size:1024" json:"ogImage"`
	CanonicalURL    string    `gorm:"column:canonical_url;size:1024" json:"canonicalUrl"`
}

func (PageSEO) TableName() string {
	return "page_seo"
}

func (p *PageSEO) MediaFields() map[string]string {
	return map[string]string{"ogImage": p.OGImage}
}

// SEOGeneral 全站 SEO 设置，仅一行
type SEOGeneral struct {
	Base
	SiteName           Localized `gorm:"embedded;embeddedPrefix:site_name_" json:"siteName"`
	DefaultTitle       Localized `gorm:"embedded;embeddedPrefix:default_title_" json:"defaultTitle"`
	DefaultDescription Localized `gorm:"embedded;embeddedPrefix:default_description_" json:"defaultDescription"`
	Keywords           Localized `gorm:"embedded;embeddedPrefix:keywords_" json:"keywords"`
	OGImage            string    `gorm:"column:og_image;size:1024" json:"ogImage"`
	TwitterHandle      string    `gorm:"size:100" json:"twitterHandle"`
	GoogleAnalyticsID  string    `gorm:"column:google_analytics_id;size:100" json:"googleAnalyticsId"`
}

func (SEOGeneral) TableName() string {
	return "seo_general"
}

func (s *SEOGeneral) MediaFields() map[string]string {
	return map[string]string{"ogImage": s.OGImage}
}

// Setting 站点键值设置
type Setting struct {
	Base
	Key   string `gorm:"size:191;not null;uniqueIndex" json:"key"`
	Value string `gorm:"type:text" json:"value"`
	Group string `gorm:"column:group_name;size:64;index;not null;default:general" json:"group"`
}

// MessageStatus 联系消息状态
type MessageStatus string

const (
	MessageNew      MessageStatus = "new"
	MessageRead     MessageStatus = "read"
	MessageArchived MessageStatus = "archived"
)

// ContactMessage 前台联系表单提交
type ContactMessage struct {
	Base
	Name      string        `gorm:"size:255;not null" json:"name"`
	Email     string        `gorm:"size:255;not null;index" json:"email"`
	Phone     string        `gorm:"size:50" json:"phone"`
	Subject   string        `gorm:"size:255" json:"subject"`
	Message   string        `gorm:"type:text;not null" json:"message"`
	Status    MessageStatus `gorm:"size:20;not null;default:new;index" json:"status"`
	IPAddress string        `gorm:"column:ip_address;size:64" json:"ipAddress"`
	ReadAt    *time.Time    `json:"readAt"`
}

// SubscriptionStatus 订阅状态
type SubscriptionStatus string

const (
	SubscriptionActive       SubscriptionStatus = "active"
	SubscriptionUnsubscribed SubscriptionStatus = "unsubscribed"
)

// Subscription 邮件订阅
type Subscription struct {
	Base
	Email          string             `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Status         SubscriptionStatus `gorm:"size:20;not null;default:active;index" json:"status"`
	Language       Language           `gorm:"size:5;not null;default:en" json:"language"`
	Source         string             `gorm:"size:64" json:"source"`
	UnsubscribedAt *time.Time         `json:"unsubscribedAt"`
}
