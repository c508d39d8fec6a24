package cache

import (
	"time"
)

// jst はキャッシュの日次切り替えに使うタイムゾーンです。
var jst = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}()

// TimeUntilNext8AM は次の午前8時（日本時間）までの期間を返します。
// 前日分の日足が揃う時刻なので、取得結果はそこまで使い回せます。
func TimeUntilNext8AM() time.Duration {
	return untilNext8AM(time.Now())
}

func untilNext8AM(now time.Time) time.Duration {
	now = now.In(jst)

	// 次の午前8時を計算
	next8am := time.Date(now.Year(), now.Month(), now.Day(), 8, 0, 0, 0, jst)

	// 今日の午前8時が既に過ぎている場合は明日の午前8時を使用
	if !now.Before(next8am) {
		next8am = next8am.Add(24 * time.Hour)
	}

	return next8am.Sub(now)
}
