package service

import (
	"errors"

	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/llm"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	BadGateway          = 502
	InternalServerError = 500
)

var (
	ErrParamInvalid    = errors.New("パラメータが不正です")
	ErrInvalidType     = errors.New("投稿種別が不正です")
	ErrMediaNotFound   = errors.New("メディアが見つかりません")
	ErrMediaKeyMissing = errors.New("メディアキーが指定されていません")
	ErrRangeInvalid    = errors.New("Range指定が不正です")
	ErrBadSignature    = errors.New("署名が不正です")
	ErrTokenInvalid    = errors.New("トークンが不正です")
	ErrCSVFetch        = errors.New("CSVの取得に失敗しました")
	ErrImportRunning   = errors.New("取り込み処理が実行中です")
	UnExpectedError    = errors.New("システム異常です。しばらくしてからお試しください")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:    BadRequest,
	ErrInvalidType:     BadRequest,
	ErrMediaNotFound:   NotFound,
	ErrMediaKeyMissing: BadRequest,
	ErrRangeInvalid:    BadRequest,
	ErrBadSignature:    Unauthorized,
	ErrTokenInvalid:    Forbidden,
	ErrCSVFetch:        BadGateway,
	ErrImportRunning:   Conflict,
	llm.ErrProvider:    BadGateway,
	UnExpectedError:    InternalServerError,
}
