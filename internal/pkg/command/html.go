package command

import (
	"regexp"
	"strings"
)

var (
	urlRe       = regexp.MustCompile(`https?://[\w!?/+\-_~=;.,*&@#$%()'\[\]]+`)
	spanRe      = regexp.MustCompile(`(?s)^<span>.*</span>$`)
	brSplitRe   = regexp.MustCompile(`(?i)<br\s*/?>`)
	japaneseRe  = regexp.MustCompile(`[ぁ-んァ-ヶ一-龠]`)
	alreadyCast = regexp.MustCompile(`出演(し|い)ます|出演予定|出演致|出演いた`)
	htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

// ExtractURL 本文中の最初の http(s) URL。無ければ空文字。
func ExtractURL(content string) string {
	return urlRe.FindString(content)
}

// EscapeHTML & < > のみエスケープする（サイト側の既存仕様）
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// LooksJapanese ひらがな・カタカナ・漢字を含むかどうか。空文字は true。
func LooksJapanese(s string) bool {
	if s == "" {
		return true
	}
	return japaneseRe.MatchString(s)
}

// NormalizeVoiceSpan voice 本文を <span>…</span> に正規化する。
// 改行・<br> は <br> 区切りに寄せる。既に <span> 包みなら何もしない。
func NormalizeVoiceSpan(s string) string {
	t := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n"))
	if spanRe.MatchString(t) {
		return t
	}

	var parts []string
	for _, chunk := range brSplitRe.Split(t, -1) {
		for _, line := range strings.Split(chunk, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				parts = append(parts, EscapeHTML(line))
			}
		}
	}
	return "<span>" + strings.Join(parts, "<br>") + "</span>"
}

// WrapIfVoice voice のときだけ <span> 正規化する
func WrapIfVoice(typ, htmlOrText string) string {
	t := strings.TrimSpace(htmlOrText)
	if typ == TypeVoice {
		return NormalizeVoiceSpan(t)
	}
	return t
}

// NL2BR 改行区切りのテキストを <br> 連結へ。空行は落とす。
func NL2BR(s string) string {
	normalized := strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n")
	var parts []string
	for _, line := range strings.Split(normalized, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, "<br>")
}

// NewsSuffix ニュース自動投稿時に公演名へ足す定型文
const NewsSuffix = "に出演します。"

// AddNewsSuffixFirstLine 先頭1行（公演名）にだけ定型文を足す。
// 既に出演文が入っていれば二重付与しない。2行目以降は一切触らない。
func AddNewsSuffixFirstLine(html, suffix string) string {
	raw := strings.TrimSpace(html)
	if raw == "" {
		return raw
	}

	parts := brSplitRe.Split(raw, -1)
	first := strings.TrimSpace(parts[0])
	if !alreadyCast.MatchString(first) {
		first += suffix
	}

	out := make([]string, 0, len(parts))
	out = append(out, first)
	for _, p := range parts[1:] {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "<br>")
}
