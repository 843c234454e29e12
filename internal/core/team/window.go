package team

import "time"

// ISTOffset は業務カレンダーで使用する固定オフセット (+5:30) です。
const ISTOffset = 330 * time.Minute

// DateWindow は両端を含む期間です。
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// Contains は t が期間内かどうかを返します。
func (w DateWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// MonthWindow は IST の暦月を UTC で表した期間を返します。
// UTC の月境界を組み立ててから固定オフセット分ずらします。タイムゾーンデータベースは使用しません。
func MonthWindow(month, year int) (DateWindow, error) {
	if month < 1 || month > 12 || year < 1 {
		return DateWindow{}, ErrInvalidMonth
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	// day 0 は前月末日に正規化されます。
	end := time.Date(year, time.Month(month)+1, 0, 23, 59, 59, 0, time.UTC)

	return DateWindow{
		Start: start.Add(-ISTOffset),
		End:   end.Add(-ISTOffset),
	}, nil
}

func currentISTMonth(now time.Time) (month, year int) {
	local := now.UTC().Add(ISTOffset)
	return int(local.Month()), local.Year()
}
