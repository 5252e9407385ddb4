package scheduler

import "time"

// RangeSlot 是约束引擎所需要的最小排班记录视图
// 既包括数据库中已有的记录，也包括同一次生成过程中临时加入的记录
type RangeSlot struct {
	WorkerID  int64
	DateStart time.Time
	DateEnd   time.Time
}

// Request 描述一次自动排班请求
type Request struct {
	PlanID         int64
	OrganizationID int64
	DateStart      time.Time
	DateEnd        time.Time
	TeamSize       int
	ColorCode      string // 默认取组织短代码的大写形式
}
