package command

import (
	"regexp"
	"strconv"
	"strings"
)

// 投稿種別
const (
	TypeNews    = "news"
	TypeVoice   = "voice"
	TypeArchive = "archive"
)

// IntentOK ペンディング画像の確定コマンド
const IntentOK = "ok"

var (
	newsPrefixRe    = regexp.MustCompile(`(?i)^(ニュース|ニュース：|N：|N:|に：|に:)`)
	archivePrefixRe = regexp.MustCompile(`(?i)^(アーカイブ|アーカイブ：|A：|A:|あ：|あ:)`)
	voicePrefixRe   = regexp.MustCompile(`^(V：|V:|v：|v:|ボイス|voice|VOICE)[:：\s]`)
	stripPrefixRe   = regexp.MustCompile(`(?i)^(ニュース|アーカイブ|ボイス|VOICE|voice|ニュース：|アーカイブ：|N：|A：|V：|N:|A:|V:|に：|あ：|に:|あ:|v：|v:)\s*[:：]?\s*`)

	typeOnlyRe   = regexp.MustCompile(`(?i)^(?:T|TYPE|種別)\s*[:：]\s*(news|voice|archive)\s*$`)
	typeOnlyJaRe = regexp.MustCompile(`^(?:T|TYPE|種別)\s*[:：]\s*(ニュース|ボイス|アーカイブ)\s*$`)
	okRe         = regexp.MustCompile(`(?i)^(OK|投稿|確定)$`)

	editStartRe  = regexp.MustCompile(`^編集[:：](\d+)$`)
	editEndRe    = regexp.MustCompile(`(?i)^(完了|終了|end)$`)
	editCancelRe = regexp.MustCompile(`(?i)^(取消|キャンセル|中止|cancel)$`)
	editFieldRe  = regexp.MustCompile(`(?is)^(JA|EN|BTNJA|BTNEN|TYPE|DATE)\s*[:：]\s*(.+)$`)

	deleteRe      = regexp.MustCompile(`(?i)^(削除|消去|さ)\s*[:：]\s*(?:id\s*[:：]\s*)?(.+)$`)
	deleteRangeRe = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)$`)
	nonDigitRe    = regexp.MustCompile(`[^0-9]`)
	quoteCharsRe  = regexp.MustCompile(`[「」『』"]`)
	spacesRe      = regexp.MustCompile(`\s+`)

	nextTypeRe = regexp.MustCompile(`(?i)^NEXT\s*[:：]\s*(.+)$`)
)

// TypedContent 本文プレフィックスの判定結果
type TypedContent struct {
	Type    string
	Content string
	// Explicit プレフィックスで種別が明示されたかどうか
	Explicit bool
}

// DetectTypeAndContent 本文先頭のプレフィックスから種別を判定し、
// プレフィックスを取り除いた本文を返す。プレフィックスが無ければ voice 扱い。
func DetectTypeAndContent(text string) TypedContent {
	t := strings.TrimSpace(text)

	out := TypedContent{Type: TypeVoice}
	switch {
	case newsPrefixRe.MatchString(t):
		out.Type = TypeNews
		out.Explicit = true
	case archivePrefixRe.MatchString(t):
		out.Type = TypeArchive
		out.Explicit = true
	case voicePrefixRe.MatchString(t):
		out.Type = TypeVoice
		out.Explicit = true
	}

	out.Content = strings.TrimSpace(stripPrefixRe.ReplaceAllString(t, ""))
	return out
}

// ParseTypeOnly T:/TYPE:/種別 コマンド、または OK/投稿/確定 を判定する。
// ペンディング画像が行き先確認待ちのときだけ使う。該当しなければ空文字。
func ParseTypeOnly(text string) string {
	s := strings.TrimSpace(text)

	if m := typeOnlyRe.FindStringSubmatch(s); m != nil {
		return strings.ToLower(m[1])
	}
	if m := typeOnlyJaRe.FindStringSubmatch(s); m != nil {
		return normalizeTypeWord(m[1])
	}
	if okRe.MatchString(s) {
		return IntentOK
	}
	return ""
}

// ParseEditStart 編集:<id> を判定して対象IDを返す。該当しなければ 0。
func ParseEditStart(text string) int64 {
	s := spacesRe.ReplaceAllString(strings.TrimSpace(text), "")
	m := editStartRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// ParseEditEnd 編集終了コマンドかどうか
func ParseEditEnd(text string) bool {
	return editEndRe.MatchString(strings.TrimSpace(text))
}

// ParseEditCancel 編集キャンセルコマンドかどうか
func ParseEditCancel(text string) bool {
	return editCancelRe.MatchString(strings.TrimSpace(text))
}

// FieldUpdate 編集中のフィールド更新コマンド
type FieldUpdate struct {
	Field string // JA | EN | BTNJA | BTNEN | TYPE | DATE
	Value string
}

// ParseEditField FIELD: value 形式の更新コマンドを判定する
func ParseEditField(text string) *FieldUpdate {
	m := editFieldRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return nil
	}
	return &FieldUpdate{
		Field: strings.ToUpper(m[1]),
		Value: strings.TrimSpace(m[2]),
	}
}

// ParseDeleteIDs 削除コマンドから対象ID一覧を取り出す。
// 単発・カンマ/空白区切り・範囲 a-b（自動で昇順化）を受け付ける。
// 有効なIDがひとつも取れなければ nil。
func ParseDeleteIDs(text string) []int64 {
	s := quoteCharsRe.ReplaceAllString(text, "")
	s = spacesRe.ReplaceAllString(strings.TrimSpace(s), " ")

	m := deleteRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	rest := strings.TrimSpace(m[2])

	if r := deleteRangeRe.FindStringSubmatch(rest); r != nil {
		lo, _ := strconv.ParseInt(r[1], 10, 64)
		hi, _ := strconv.ParseInt(r[2], 10, 64)
		if lo > hi {
			lo, hi = hi, lo
		}
		ids := make([]int64, 0, hi-lo+1)
		for i := lo; i <= hi; i++ {
			ids = append(ids, i)
		}
		return ids
	}

	seen := make(map[int64]struct{})
	var ids []int64
	for _, part := range strings.FieldsFunc(rest, func(r rune) bool { return r == ',' || r == ' ' }) {
		n, err := strconv.ParseInt(nonDigitRe.ReplaceAllString(part, ""), 10, 64)
		if err != nil || n <= 0 {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		ids = append(ids, n)
	}
	if len(ids) == 0 {
		return nil
	}
	return ids
}

// ParseNextType NEXT:<type> コマンドを判定して正規化済み種別を返す。
// 該当しなければ空文字。
func ParseNextType(text string) string {
	m := nextTypeRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return ""
	}
	return normalizeTypeWord(m[1])
}

// NormalizeTypeWord 日本語/英語の種別表記を news|voice|archive に寄せる。
// 判定できなければ空文字。
func NormalizeTypeWord(raw string) string {
	return normalizeTypeWord(raw)
}

func normalizeTypeWord(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	switch t {
	case TypeNews, TypeVoice, TypeArchive:
		return t
	}
	switch {
	case strings.Contains(t, "ニュー"):
		return TypeNews
	case strings.Contains(t, "アーカ"):
		return TypeArchive
	case strings.Contains(t, "ボイ"), strings.Contains(t, "voice"):
		return TypeVoice
	}
	return ""
}

// IsPostType news|voice|archive のいずれかかどうか
func IsPostType(t string) bool {
	return t == TypeNews || t == TypeVoice || t == TypeArchive
}
