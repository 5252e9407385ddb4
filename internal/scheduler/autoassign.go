package scheduler

import (
	"sort"

	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
)

// AutoAssigner 按贪心策略为一段日期挑选班组成员
// 这不是全局最优搜索：先被选中的低负载候选人可能占用掉让后面候选人合格的容量，不做回溯
type AutoAssigner struct {
	engine  *ConstraintEngine
	workers []*domain.Worker
	tally   map[int64]int // workerID -> 范围内已持有的排班记录数
}

func NewAutoAssigner(workers []*domain.Worker, existing []RangeSlot, constraints []*domain.Constraint, respectConstraints bool) *AutoAssigner {
	a := &AutoAssigner{
		engine:  NewConstraintEngine(constraints, existing, respectConstraints),
		workers: workers,
		tally:   make(map[int64]int),
	}

	for _, s := range existing {
		a.tally[s.WorkerID]++
	}

	return a
}

// Run 挑选 TeamSize 个合格的员工并生成待持久化的排班记录
// 凑不够人数时整体失败，不产生任何记录
func (a *AutoAssigner) Run(req *Request) ([]*domain.Slot, error) {
	// 负载最低的员工优先被考虑，负载相同时按 ID 升序保证结果可复现
	candidates := make([]*domain.Worker, len(a.workers))
	copy(candidates, a.workers)
	sort.Slice(candidates, func(i, j int) bool {
		if a.tally[candidates[i].ID] != a.tally[candidates[j].ID] {
			return a.tally[candidates[i].ID] < a.tally[candidates[j].ID]
		}
		return candidates[i].ID < candidates[j].ID
	})

	picked := make([]*domain.Slot, 0, req.TeamSize)
	for _, w := range candidates {
		if len(picked) >= req.TeamSize {
			break
		}

		if !a.engine.IsEligible(w.ID, req.OrganizationID, req.DateStart, req.DateEnd) {
			continue
		}

		picked = append(picked, &domain.Slot{
			PlanID:         req.PlanID,
			WorkerID:       w.ID,
			OrganizationID: req.OrganizationID,
			DateStart:      req.DateStart,
			DateEnd:        req.DateEnd,
			Status:         domain.SlotPlanned,
			ColorCode:      req.ColorCode,
		})

		// 让后面的候选人能看到这条临时记录
		a.engine.Accumulate(w.ID, req.DateStart, req.DateEnd)
		a.tally[w.ID]++
	}

	if len(picked) < req.TeamSize {
		return nil, domain.NewBadRequest("可用员工不足，无法满足要求的班组人数")
	}

	return picked, nil
}
