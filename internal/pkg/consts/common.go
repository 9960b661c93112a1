package consts

const (
	EnabledTrue  = "TRUE"
	EnabledFalse = "FALSE"
)

const (
	DebugScopeGeneral = "general"
	DebugScopeOpenAI  = "openai"
	DebugScopeGemini  = "gemini"
	DebugScopeLine    = "line"
	DebugScopeDB      = "db"
)
