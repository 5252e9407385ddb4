package domain

import (
	"encoding/json"
	"errors"
	"time"
)

type ConstraintType string

const (
	ConstraintOrgBlacklist    ConstraintType = "ORG_BLACKLIST"
	ConstraintAvailability    ConstraintType = "AVAILABILITY"
	ConstraintMaxSlotsPerWeek ConstraintType = "MAX_SLOTS_PER_WEEK"
)

type UnavailableRange struct {
	From *time.Time `json:"from"`
	To   *time.Time `json:"to"`
}

// ConstraintPayload 是按约束类型区分的载荷，只有对应类型的字段会被填充
type ConstraintPayload struct {
	OrgIDs      []int64            `json:"orgIDs,omitempty"`      // ORG_BLACKLIST
	Unavailable []UnavailableRange `json:"unavailable,omitempty"` // AVAILABILITY
	Limit       int32              `json:"limit,omitempty"`       // MAX_SLOTS_PER_WEEK
}

// Constraint 是限制自动排班的规则
// WorkerID 为空表示该规则作用于整个组织（OrganizationID 非空）或全局（两者都为空）
type Constraint struct {
	ID             int64             `json:"id"`
	WorkerID       *int64            `json:"workerID"`
	OrganizationID *int64            `json:"organizationID"`
	Type           ConstraintType    `json:"type"`
	Payload        ConstraintPayload `json:"payload"`
	CreatedAt      time.Time         `json:"createdAt"`
	Version        int32             `json:"-"`
}

// AppliesTo 判断该规则是否作用于给定员工在给定组织下的排班
func (c *Constraint) AppliesTo(workerID int64, organizationID int64) bool {
	if c.WorkerID != nil && *c.WorkerID != workerID {
		return false
	}
	if c.OrganizationID != nil && *c.OrganizationID != organizationID {
		return false
	}
	return true
}

// ParseConstraintPayload 在写入边界解析并校验约束载荷，格式不合法时直接拒绝
// 历史数据中黑名单载荷存在"直接数组"和"{orgIDs: [...]}"两种形态，这里统一归一化成 OrgIDs
func ParseConstraintPayload(t ConstraintType, raw json.RawMessage) (*ConstraintPayload, error) {
	payload := &ConstraintPayload{}

	switch t {
	case ConstraintOrgBlacklist:
		var direct []int64
		if err := json.Unmarshal(raw, &direct); err == nil {
			payload.OrgIDs = direct
			break
		}

		var wrapped struct {
			OrgIDs *[]int64 `json:"orgIDs"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil || wrapped.OrgIDs == nil {
			return nil, errors.New("组织黑名单载荷必须是组织 ID 数组或含 orgIDs 字段的对象")
		}
		payload.OrgIDs = *wrapped.OrgIDs
	case ConstraintAvailability:
		var wrapped struct {
			Unavailable *[]UnavailableRange `json:"unavailable"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil || wrapped.Unavailable == nil {
			return nil, errors.New("不可用时间载荷必须含 unavailable 字段")
		}
		for _, r := range *wrapped.Unavailable {
			if r.From != nil && r.To != nil && r.To.Before(*r.From) {
				return nil, errors.New("不可用时间段的结束时间不能早于开始时间")
			}
		}
		payload.Unavailable = *wrapped.Unavailable
	case ConstraintMaxSlotsPerWeek:
		var wrapped struct {
			Limit *int32 `json:"limit"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil || wrapped.Limit == nil {
			return nil, errors.New("每周班次上限载荷必须含 limit 字段")
		}
		if *wrapped.Limit < 1 {
			return nil, errors.New("每周班次上限必须大于等于 1")
		}
		payload.Limit = *wrapped.Limit
	default:
		return nil, errors.New("未知的约束类型")
	}

	return payload, nil
}
