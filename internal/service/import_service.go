package service

import (
	"context"
	log "log/slog"
	"strings"
	"time"

	"github.com/haruhisa-hosei/hosei-content-api/internal/api/config"
	"github.com/haruhisa-hosei/hosei-content-api/internal/api/dto"
	"github.com/haruhisa-hosei/hosei-content-api/internal/model"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/command"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/consts"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/debuglog"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/legacycsv"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/redis"
	"github.com/haruhisa-hosei/hosei-content-api/internal/repository"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type ImportService interface {
	Run(ctx context.Context) (*dto.ImportResultDTO, error)
}

type ImportServiceImpl struct {
	postRepo repository.PostRepo
	http     *resty.Client
}

func NewImportService(postRepo repository.PostRepo) ImportService {
	return &ImportServiceImpl{
		postRepo: postRepo,
		http:     resty.New().SetTimeout(60 * time.Second),
	}
}

// Run レガシーCSV（Google シート書き出し）を DB へ冪等に取り込む。
// 既存 legacy_key の行はスキップする
func (s *ImportServiceImpl) Run(ctx context.Context) (*dto.ImportResultDTO, error) {
	// cron と手動実行の二重取り込みを防ぐ
	lockVal := uuid.NewString()
	locked, err := redis.TryLock(ctx, consts.ImportLock, lockVal, 10*time.Minute, 1)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrImportRunning
	}
	defer redis.UnLock(ctx, consts.ImportLock, lockVal)

	result := &dto.ImportResultDTO{}

	sources := map[string]string{
		command.TypeNews:    config.Cfg.Import.NewsCSV,
		command.TypeVoice:   config.Cfg.Import.VoiceCSV,
		command.TypeArchive: config.Cfg.Import.ArchiveCSV,
	}

	for _, postType := range []string{command.TypeNews, command.TypeVoice, command.TypeArchive} {
		csvURL := sources[postType]
		if csvURL == "" {
			continue
		}

		if err = s.importOne(ctx, postType, csvURL, result); err != nil {
			debuglog.Append(ctx, consts.DebugScopeDB, "import error [%s]: %v", postType, err)
			return nil, err
		}
	}

	log.InfoContext(ctx, "CSV取り込み完了",
		"scanned", result.Scanned, "inserted", result.Inserted, "ignored", result.Ignored)
	debuglog.Append(ctx, consts.DebugScopeDB, "import done: scanned=%d inserted=%d ignored=%d",
		result.Scanned, result.Inserted, result.Ignored)
	return result, nil
}

func (s *ImportServiceImpl) importOne(ctx context.Context, postType, csvURL string, result *dto.ImportResultDTO) error {
	resp, err := s.http.R().SetContext(ctx).Get(csvURL)
	if err != nil {
		return errors.Wrapf(ErrCSVFetch, "%s: %v", postType, err)
	}
	if resp.IsError() {
		return errors.Wrapf(ErrCSVFetch, "%s: status=%d", postType, resp.StatusCode())
	}

	rows, err := legacycsv.Parse(legacycsv.Decode(resp.Body(), resp.Header().Get("Content-Type")))
	if err != nil {
		return errors.Wrapf(ErrCSVFetch, "%s: parse: %v", postType, err)
	}

	for _, row := range rows {
		dateRaw := strings.TrimSpace(row["date"])
		if dateRaw == "" {
			continue
		}

		date := dateRaw
		if postType == command.TypeArchive {
			date = command.ToDatePadded(dateRaw)
		}
		result.Scanned++

		post := csvRowToPost(postType, date, row)
		inserted, err := s.postRepo.InsertIgnore(ctx, post)
		if err != nil {
			return err
		}
		if inserted {
			result.Inserted++
		} else {
			result.Ignored++
		}
	}
	return nil
}

func csvRowToPost(postType, date string, row map[string]string) *model.Post {
	jaHTML := row["ja_html"]
	enHTML := row["en_html"]
	if postType == command.TypeArchive {
		if jaHTML == "" {
			jaHTML = row["title_ja"]
		}
		if enHTML == "" {
			enHTML = row["title_en"]
		}
	}

	viewDate := strings.TrimSpace(row["view_date"])
	if viewDate == "" {
		viewDate = command.ViewDateFromPadded(date)
	}

	mediaType := strings.TrimSpace(row["media_type"])
	if mediaType == "" {
		mediaType = "image"
	}

	return &model.Post{
		Type:       postType,
		Date:       date,
		JaHTML:     jaHTML,
		EnHTML:     enHTML,
		JaLinkText: row["ja_link_text"],
		JaLinkHref: row["ja_link_href"],
		EnLinkText: row["en_link_text"],
		EnLinkHref: row["en_link_href"],
		ImageSrc:   strings.TrimSpace(row["image_src"]),
		ImageKind:  strings.TrimSpace(row["image_kind"]),
		Enabled:    normalizeBoolText(row["enabled"]),
		ViewDate:   viewDate,
		MediaType:  mediaType,
		MediaSrc:   strings.TrimSpace(row["media_src"]),
		PosterSrc:  strings.TrimSpace(row["poster_src"]),
		LegacyKey:  repository.LegacyKeyFromCSVRow(postType, row, date),
	}
}

// normalizeBoolText 空や曖昧な値は TRUE 扱い（レガシーCSV互換）
func normalizeBoolText(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "false", "0", "no", "off":
		return consts.EnabledFalse
	}
	return consts.EnabledTrue
}
