package command

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// JST 「今日」の判定に使う固定オフセット（UTC+9）
var JST = time.FixedZone("JST", 9*60*60)

var (
	dateInTextRe   = regexp.MustCompile(`(?:(\d{4})[./年])?(\d{1,2})[./月](\d{1,2})日?`)
	paddedDateRe   = regexp.MustCompile(`^(\d{4})\.(\d{2})\.(\d{2})$`)
	unpaddedDateRe = regexp.MustCompile(`^(\d{4})\.(\d{1,2})\.(\d{1,2})$`)
)

// TodayJST 今日の日付を YYYY.MM.DD（ゼロ埋め）で返す
func TodayJST() string {
	now := time.Now().In(JST)
	return fmt.Sprintf("%04d.%02d.%02d", now.Year(), int(now.Month()), now.Day())
}

// ExtractDate 本文中の日付（Y.M.D / Y/M/D / M月D日 等）をゼロ埋めで取り出す。
// 年が無ければ今年（JST）を補う。見つからなければ空文字。
func ExtractDate(content string) string {
	m := dateInTextRe.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	year := m[1]
	if year == "" {
		year = strconv.Itoa(time.Now().In(JST).Year())
	}
	mo, _ := strconv.Atoi(m[2])
	da, _ := strconv.Atoi(m[3])
	return fmt.Sprintf("%s.%02d.%02d", year, mo, da)
}

// ViewDateFromPadded 表示用日付。"YYYY.MM.DD" → "YYYY.M.D"（ゼロ埋めなし）。
// 形式が違えばそのまま返す。
func ViewDateFromPadded(padded string) string {
	m := paddedDateRe.FindStringSubmatch(padded)
	if m == nil {
		return padded
	}
	mo, _ := strconv.Atoi(m[2])
	da, _ := strconv.Atoi(m[3])
	return fmt.Sprintf("%s.%d.%d", m[1], mo, da)
}

// ToDatePadded "YYYY.M.D" 形式をゼロ埋めに寄せる。形式が違えばそのまま返す。
func ToDatePadded(s string) string {
	t := strings.TrimSpace(s)
	m := unpaddedDateRe.FindStringSubmatch(t)
	if m == nil {
		return t
	}
	mo, _ := strconv.Atoi(m[2])
	da, _ := strconv.Atoi(m[3])
	return fmt.Sprintf("%s.%02d.%02d", m[1], mo, da)
}

// NormalizeDateOrToday ゼロ埋め済みならそのまま、でなければ今日（JST）
func NormalizeDateOrToday(padded string) string {
	if paddedDateRe.MatchString(padded) {
		return padded
	}
	return TodayJST()
}
