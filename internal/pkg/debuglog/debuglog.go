package debuglog

import (
	"context"
	"fmt"
	"time"

	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/consts"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/redis"
)

const (
	ttl        = 24 * time.Hour
	maxEntries = 200
)

// Append スコープ別の診断ログへ1行追記する。失敗しても呼び出し側は気にしない
func Append(ctx context.Context, scope, format string, args ...interface{}) {
	if redis.GetRdbClient() == nil {
		return
	}

	line := fmt.Sprintf("[%s] %s",
		time.Now().UTC().Format(time.RFC3339),
		fmt.Sprintf(format, args...),
	)
	_ = redis.AppendListCapped(ctx, consts.DebugLogKey+scope, line, maxEntries, ttl)
}

// ReadLast スコープの直近ログを返す。n<=0 は全件
func ReadLast(ctx context.Context, scope string, n int) ([]string, error) {
	if redis.GetRdbClient() == nil {
		return nil, nil
	}
	return redis.GetList(ctx, consts.DebugLogKey+scope, n)
}

// Scopes 参照可能なスコープ一覧
func Scopes() []string {
	return []string{
		consts.DebugScopeGeneral,
		consts.DebugScopeOpenAI,
		consts.DebugScopeGemini,
		consts.DebugScopeLine,
		consts.DebugScopeDB,
	}
}
