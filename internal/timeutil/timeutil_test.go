package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name   string
		aStart time.Time
		aEnd   *time.Time
		bStart time.Time
		bEnd   *time.Time
		want   bool
	}{
		{
			name:   "部分重叠",
			aStart: date(2025, 1, 1), aEnd: datePtr(2025, 1, 10),
			bStart: date(2025, 1, 5), bEnd: datePtr(2025, 1, 15),
			want: true,
		},
		{
			name:   "完全不相交",
			aStart: date(2025, 1, 1), aEnd: datePtr(2025, 1, 10),
			bStart: date(2025, 1, 11), bEnd: datePtr(2025, 1, 15),
			want: false,
		},
		{
			name:   "端点相接视为重叠",
			aStart: date(2025, 1, 1), aEnd: datePtr(2025, 1, 10),
			bStart: date(2025, 1, 10), bEnd: datePtr(2025, 1, 15),
			want: true,
		},
		{
			name:   "a 无结束时间且开始早于 b 的结束",
			aStart: date(2025, 1, 8), aEnd: nil,
			bStart: date(2025, 1, 1), bEnd: datePtr(2025, 1, 10),
			want: true,
		},
		{
			name:   "a 无结束时间且开始晚于 b 的结束",
			aStart: date(2025, 1, 11), aEnd: nil,
			bStart: date(2025, 1, 1), bEnd: datePtr(2025, 1, 10),
			want: false,
		},
		{
			name:   "两边都无结束时间",
			aStart: date(2025, 1, 1), aEnd: nil,
			bStart: date(2030, 6, 1), bEnd: nil,
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// 重叠判定必须是对称的
			require.Equal(t, tt.want, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestRangesOverlap(t *testing.T) {
	require.True(t, RangesOverlap(date(2025, 3, 1), date(2025, 3, 5), date(2025, 3, 5), date(2025, 3, 9)))
	require.False(t, RangesOverlap(date(2025, 3, 1), date(2025, 3, 4), date(2025, 3, 5), date(2025, 3, 9)))
}

func TestWeekKey(t *testing.T) {
	// 2021-01-01 是周五，按 ISO 8601 属于 2020 年第 53 周
	require.Equal(t, "2020-W53", WeekKey(date(2021, 1, 1)))
	// 2025-12-29 是周一，按 ISO 8601 属于 2026 年第 1 周
	require.Equal(t, "2026-W01", WeekKey(date(2025, 12, 29)))
	require.Equal(t, "2025-W03", WeekKey(date(2025, 1, 15)))
}
