package legacycsv

import (
	"encoding/csv"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

var charsetRe = regexp.MustCompile(`(?i)charset\s*=\s*([^\s;"']+)`)

// 化け文字スコア。Shift_JIS を UTF-8 として読んだときに出やすい文字
var mojibakeRe = regexp.MustCompile(`縲|繝|譁|蠕|蟷|豎|迚`)

// Decode CSV バイト列を文字列へ。Content-Type の charset を優先し、
// 無ければ UTF-8 と Shift_JIS の両方で読んで化けの少ない方を採る
func Decode(raw []byte, contentType string) string {
	if m := charsetRe.FindStringSubmatch(contentType); m != nil {
		switch strings.ToLower(m[1]) {
		case "utf-8", "utf8":
			return stripBOM(string(raw))
		case "shift_jis", "shift-jis", "sjis", "windows-31j", "cp932":
			if s, err := decodeShiftJIS(raw); err == nil {
				return s
			}
		}
	}

	utf8Str := stripBOM(string(raw))
	if utf8.ValidString(utf8Str) {
		return utf8Str
	}

	sjisStr, err := decodeShiftJIS(raw)
	if err != nil || sjisStr == "" {
		return utf8Str
	}
	if score(sjisStr) < score(utf8Str) {
		return sjisStr
	}
	return utf8Str
}

func decodeShiftJIS(raw []byte) (string, error) {
	out, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func score(s string) int {
	rep := strings.Count(s, "�")
	moj := len(mojibakeRe.FindAllString(s, -1))
	return rep*100 + moj*3
}

func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}

// Parse ヘッダー行をキーにした行マップへ展開する。空行は捨てる
func Parse(text string) ([]map[string]string, error) {
	if text == "" {
		return nil, nil
	}

	r := csv.NewReader(strings.NewReader(stripBOM(text)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	head := make([]string, len(records[0]))
	for i, h := range records[0] {
		head[i] = strings.TrimSpace(h)
	}

	var rows []map[string]string
	for _, cols := range records[1:] {
		empty := true
		for _, v := range cols {
			if strings.TrimSpace(v) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}

		row := make(map[string]string, len(head))
		for i, h := range head {
			if h == "" {
				continue
			}
			v := ""
			if i < len(cols) {
				v = strings.TrimSpace(cols[i])
			}
			row[h] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}
