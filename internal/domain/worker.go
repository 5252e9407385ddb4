package domain

import (
	"time"
)

type Role string

const (
	RoleWorker Role = "普通员工"
	RoleAdmin  Role = "管理员"
)

type Worker struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	PasswordHash   string    `json:"-"`
	FullName       string    `json:"fullName"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	OrganizationID *int64    `json:"organizationID"` // 为空表示该员工尚未加入任何组织
	IsSystem       bool      `json:"isSystem"`       // 系统账号不允许被排班
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	Version        int32     `json:"-"`
}

// CanBeScheduled 判断该员工是否允许被排班
func (w *Worker) CanBeScheduled() bool {
	return w.Role == RoleWorker && !w.IsSystem && w.IsActive && w.OrganizationID != nil
}
