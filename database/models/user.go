package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Role 用户角色
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleContentSupport Role = "content_support"
)

// Valid 是否为已知角色
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleContentSupport
}

// User 后台用户
type User struct {
	Base
	Username    string     `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email       string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password    string     `gorm:"size:255;not null" json:"-"`
	Role        Role       `gorm:"size:32;not null;default:content_support" json:"role"`
	IsActive    bool       `gorm:"not null;default:true" json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
}

// AuditAction 审计动作
type AuditAction string

const (
	AuditCreate AuditAction = "create"
	AuditUpdate AuditAction = "update"
	AuditDelete AuditAction = "delete"
	AuditLogin  AuditAction = "login"
	AuditLogout AuditAction = "logout"
)

// AuditLog 审计日志，只追加
type AuditLog struct {
	ID        string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time      `gorm:"index" json:"createdAt"`
	UserID    string         `gorm:"type:varchar(36);index" json:"userId"`
	Username  string         `gorm:"size:64" json:"username"`
	Action    AuditAction    `gorm:"size:20;not null;index" json:"action"`
	Entity    string         `gorm:"size:64;not null;index" json:"entity"`
	EntityID  string         `gorm:"type:varchar(36);index" json:"entityId"`
	OldValues datatypes.JSON `json:"oldValues"`
	NewValues datatypes.JSON `json:"newValues"`
	IPAddress string         `gorm:"column:ip_address;size:64" json:"ipAddress"`
	UserAgent string         `gorm:"size:512" json:"userAgent"`
}

// BeforeCreate 生成 UUID 主键
func (a *AuditLog) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
