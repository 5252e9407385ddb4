package domain

import "time"

type AssignmentStatus string

const (
	AssignmentActive   AssignmentStatus = "ACTIVE"
	AssignmentArchived AssignmentStatus = "ARCHIVED"
)

type ShiftKind string

const (
	ShiftDefault ShiftKind = "DEFAULT"
	ShiftOffice  ShiftKind = "OFFICE"
	ShiftRemote  ShiftKind = "REMOTE"
	ShiftDayOff  ShiftKind = "DAY_OFF"
)

// Shift 是隶属于某个 Assignment 的具体班段，更新 Assignment 时如果传入了新的班段列表则整体替换
type Shift struct {
	ID           int64     `json:"id"`
	AssignmentID int64     `json:"assignmentID"`
	StartsAt     time.Time `json:"startsAt"`
	EndsAt       time.Time `json:"endsAt"`
	Kind         ShiftKind `json:"kind"`
}

// Assignment 表示员工在某个工作场所的任职记录
// EndsAt 为空表示该任职没有结束时间
type Assignment struct {
	ID          int64            `json:"id"`
	WorkerID    int64            `json:"workerID"`
	WorkplaceID int64            `json:"workplaceID"`
	Status      AssignmentStatus `json:"status"`
	StartsAt    time.Time        `json:"startsAt"`
	EndsAt      *time.Time       `json:"endsAt"`
	DeletedAt   *time.Time       `json:"deletedAt"`
	Shifts      []Shift          `json:"shifts"`
	CreatedAt   time.Time        `json:"createdAt"`
	Version     int32            `json:"-"`
}

// ShiftBounds 返回一组班段中最早的开始时间和最晚的结束时间
func ShiftBounds(shifts []Shift) (time.Time, time.Time) {
	start, end := shifts[0].StartsAt, shifts[0].EndsAt
	for _, s := range shifts[1:] {
		if s.StartsAt.Before(start) {
			start = s.StartsAt
		}
		if s.EndsAt.After(end) {
			end = s.EndsAt
		}
	}
	return start, end
}

// DeriveBoundsFromShifts 将任职的时间范围设置为班段的最早开始和最晚结束
// 没有班段时保持原范围不变
func (a *Assignment) DeriveBoundsFromShifts() {
	if len(a.Shifts) == 0 {
		return
	}
	start, end := ShiftBounds(a.Shifts)
	a.StartsAt = start
	a.EndsAt = &end
}

// CoversShifts 判断任职的时间范围是否覆盖其下全部班段
func (a *Assignment) CoversShifts() bool {
	if len(a.Shifts) == 0 {
		return true
	}
	start, end := ShiftBounds(a.Shifts)
	if start.Before(a.StartsAt) {
		return false
	}
	if a.EndsAt != nil && end.After(*a.EndsAt) {
		return false
	}
	return true
}

// AssignmentRecord 是带上冗余展示信息的任职记录，供排班矩阵和导出使用
type AssignmentRecord struct {
	Assignment
	WorkerUsername   string `json:"workerUsername"`
	WorkerName       string `json:"workerName"`
	WorkplaceCode    string `json:"workplaceCode"`
	WorkplaceName    string `json:"workplaceName"`
	OrganizationID   int64  `json:"organizationID"`
	OrganizationName string `json:"organizationName"`
}
