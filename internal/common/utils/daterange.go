package utils

import "time"

// 预订日期区间统一采用左闭右开语义 [check_in, check_out)：
// 退房当天房间即可再次入住，背靠背预订不算冲突。

// RangesOverlap 判断两个左闭右开区间是否相交
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ClampRange 将区间 [start, end) 裁剪到 [lo, hi) 内
// 不相交时返回零值区间和 false
func ClampRange(start, end, lo, hi time.Time) (time.Time, time.Time, bool) {
	if !RangesOverlap(start, end, lo, hi) {
		return time.Time{}, time.Time{}, false
	}
	if start.Before(lo) {
		start = lo
	}
	if end.After(hi) {
		end = hi
	}
	return start, end, true
}

// NightsBetween 计算入住晚数，不足一天按一晚计
func NightsBetween(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 0
	}
	nights := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		nights++
	}
	return nights
}

// DayStart 返回当天零点
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayEnd 返回次日零点（当天区间的右开端点）
func DayEnd(t time.Time) time.Time {
	return DayStart(t).Add(24 * time.Hour)
}

// SameDay 判断两个时间是否在同一天
func SameDay(a, b time.Time) bool {
	return DayStart(a).Equal(DayStart(b))
}
