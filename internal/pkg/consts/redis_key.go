package consts

const (
	PendingImageKey = "pending:image:"
	PendingVideoKey = "pending:video:"
	EditingKey      = "editing:"
	NextTypeKey     = "next:type:"
	DebugLogKey     = "debug:log:"
)

const (
	ImportLock = "import:lock:"
)
