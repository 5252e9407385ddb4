package timeutil

import (
	"fmt"
	"time"
)

// Overlaps 判断两个时间区间是否重叠，end 为 nil 表示该区间无限延伸
// 判定条件为 a1 <= b2 且 b1 <= a2
func Overlaps(aStart time.Time, aEnd *time.Time, bStart time.Time, bEnd *time.Time) bool {
	if aEnd != nil && aEnd.Before(bStart) {
		return false
	}
	if bEnd != nil && bEnd.Before(aStart) {
		return false
	}
	return true
}

// RangesOverlap 判断两个两端都有界的时间区间是否重叠
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aEnd.Before(bStart) && !bEnd.Before(aStart)
}

// WeekKey 返回给定时间所在的 ISO 8601 周（以周四为锚点），形如 "2025-W03"
// 用于每周班次上限的分桶统计
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
