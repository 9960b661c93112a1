package dto

// ImportResultDTO レガシーCSV取り込みの件数サマリ
type ImportResultDTO struct {
	Scanned  int `json:"scanned"`
	Inserted int `json:"inserted"`
	Ignored  int `json:"ignored"`
}

// DebugLogDTO /debug-last の戻り
type DebugLogDTO struct {
	Scope string   `json:"scope"`
	Lines []string `json:"lines"`
}
