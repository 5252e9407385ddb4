package scheduler

import (
	"slices"
	"time"

	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
	"github.com/teamflow-dev/workforce-crm/backend/internal/timeutil"
)

// ConstraintEngine 负责判断某个员工能否被放入建议的日期范围中
// accumulated 中记录了该次生成过程中已经占用的排班区间，后来的候选人会看到先前临时加入的记录
type ConstraintEngine struct {
	respectConstraints bool
	constraints        []*domain.Constraint
	accumulated        map[int64][]RangeSlot
}

func NewConstraintEngine(constraints []*domain.Constraint, existing []RangeSlot, respectConstraints bool) *ConstraintEngine {
	e := &ConstraintEngine{
		respectConstraints: respectConstraints,
		constraints:        constraints,
		accumulated:        make(map[int64][]RangeSlot),
	}

	for _, s := range existing {
		e.accumulated[s.WorkerID] = append(e.accumulated[s.WorkerID], s)
	}

	return e
}

// Accumulate 将一条临时生成的排班记录加入累计集合，
// 使得后续候选人的冲突检查和每周上限检查能够看到它
func (e *ConstraintEngine) Accumulate(workerID int64, dateStart, dateEnd time.Time) {
	e.accumulated[workerID] = append(e.accumulated[workerID], RangeSlot{
		WorkerID:  workerID,
		DateStart: dateStart,
		DateEnd:   dateEnd,
	})
}

// IsEligible 判断员工能否被排入 [dateStart, dateEnd]
// 无论是否启用约束，都先做硬性的时间冲突检查
func (e *ConstraintEngine) IsEligible(workerID int64, organizationID int64, dateStart, dateEnd time.Time) bool {
	for _, s := range e.accumulated[workerID] {
		if timeutil.RangesOverlap(s.DateStart, s.DateEnd, dateStart, dateEnd) {
			return false
		}
	}

	if !e.respectConstraints {
		return true
	}

	for _, c := range e.constraints {
		if !c.AppliesTo(workerID, organizationID) {
			continue
		}

		switch c.Type {
		case domain.ConstraintOrgBlacklist:
			if slices.Contains(c.Payload.OrgIDs, organizationID) {
				return false
			}
		case domain.ConstraintAvailability:
			for _, r := range c.Payload.Unavailable {
				// 缺少任意一端的时间段视为无效，直接跳过
				if r.From == nil || r.To == nil {
					continue
				}
				if timeutil.RangesOverlap(*r.From, *r.To, dateStart, dateEnd) {
					return false
				}
			}
		case domain.ConstraintMaxSlotsPerWeek:
			// 只统计累计集合中的记录，不会去查范围之外同一周的历史班次
			week := timeutil.WeekKey(dateStart)
			count := 0
			for _, s := range e.accumulated[workerID] {
				if timeutil.WeekKey(s.DateStart) == week {
					count++
				}
			}
			if count >= int(c.Payload.Limit) {
				return false
			}
		}
	}

	return true
}
