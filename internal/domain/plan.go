package domain

import "time"

type PlanStatus string

const (
	PlanDraft     PlanStatus = "DRAFT"
	PlanPublished PlanStatus = "PUBLISHED"
	PlanArchived  PlanStatus = "ARCHIVED"
)

// Plan 是一次排班活动，归档后其下的排班记录全部冻结
type Plan struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      PlanStatus `json:"status"`
	StartsAt    time.Time  `json:"startsAt"`
	EndsAt      time.Time  `json:"endsAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	Version     int32      `json:"-"`
}

// IsMutable 判断该排班活动是否还允许修改其下的排班记录
func (p *Plan) IsMutable() bool {
	return p.Status != PlanArchived
}

type SlotStatus string

const (
	SlotPlanned   SlotStatus = "PLANNED"
	SlotConfirmed SlotStatus = "CONFIRMED"
	SlotReplaced  SlotStatus = "REPLACED"
	SlotCancelled SlotStatus = "CANCELLED"
)

// Slot 是隶属于某个 Plan 的排班记录
// Locked 为 true 时禁止修改日期、组织和员工字段
type Slot struct {
	ID             int64      `json:"id"`
	PlanID         int64      `json:"planID"`
	WorkerID       int64      `json:"workerID"`
	OrganizationID int64      `json:"organizationID"`
	DateStart      time.Time  `json:"dateStart"`
	DateEnd        time.Time  `json:"dateEnd"`
	Status         SlotStatus `json:"status"`
	Locked         bool       `json:"locked"`
	Note           string     `json:"note"`
	ColorCode      string     `json:"colorCode"`
	CreatedAt      time.Time  `json:"createdAt"`
	Version        int32      `json:"-"`
}
