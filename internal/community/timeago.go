package community

import (
	"fmt"
	"time"
)

const (
	JustNow     = "Vừa xong"
	UnknownTime = "Không xác định"
)

const (
	minute = 60
	hour   = 60 * minute
	day    = 24 * hour
	week   = 7 * day
	month  = 30 * day
	year   = 365 * day
)

// TimeAgo renders t relative to now for posts and groups. A zero t means
// the server never sent a timestamp.
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return UnknownTime
	}
	secs := int64(now.Sub(t) / time.Second)
	switch {
	case secs < minute:
		return JustNow
	case secs < hour:
		return fmt.Sprintf("%d phút trước", secs/minute)
	case secs < day:
		return fmt.Sprintf("%d giờ trước", secs/hour)
	case secs < month:
		return fmt.Sprintf("%d ngày trước", secs/day)
	case secs < year:
		return fmt.Sprintf("%d tháng trước", secs/month)
	default:
		return fmt.Sprintf("%d năm trước", secs/year)
	}
}

// CommentTimeAgo is the comment variant: it adds a week bucket and shows
// missing or future times as just now.
func CommentTimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return JustNow
	}
	secs := int64(now.Sub(t) / time.Second)
	switch {
	case secs < minute:
		return JustNow
	case secs < hour:
		return fmt.Sprintf("%d phút trước", secs/minute)
	case secs < day:
		return fmt.Sprintf("%d giờ trước", secs/hour)
	case secs < week:
		return fmt.Sprintf("%d ngày trước", secs/day)
	case secs < month:
		return fmt.Sprintf("%d tuần trước", secs/week)
	case secs < year:
		return fmt.Sprintf("%d tháng trước", secs/month)
	default:
		return fmt.Sprintf("%d năm trước", secs/year)
	}
}
