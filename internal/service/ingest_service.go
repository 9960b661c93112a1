package service

import (
	"context"
	"encoding/base64"
	"fmt"
	log "log/slog"
	"strings"

	"github.com/haruhisa-hosei/hosei-content-api/internal/api/config"
	"github.com/haruhisa-hosei/hosei-content-api/internal/api/dto"
	"github.com/haruhisa-hosei/hosei-content-api/internal/model"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/command"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/consts"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/debuglog"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/line"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/llm"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/session"
	"github.com/haruhisa-hosei/hosei-content-api/internal/repository"
)

// IngestService LINE からの受信イベントを投稿へ変換する中枢
type IngestService interface {
	ProcessWebhook(ctx context.Context, payload *dto.WebhookPayload)
}

type IngestServiceImpl struct {
	store      session.Store
	messenger  line.Messenger
	media      MediaService
	postRepo   repository.PostRepo
	generator  llm.Generator
	classifier llm.Classifier
}

func NewIngestService(
	store session.Store,
	messenger line.Messenger,
	media MediaService,
	postRepo repository.PostRepo,
	generator llm.Generator,
	classifier llm.Classifier,
) IngestService {
	return &IngestServiceImpl{
		store:      store,
		messenger:  messenger,
		media:      media,
		postRepo:   postRepo,
		generator:  generator,
		classifier: classifier,
	}
}

// ProcessWebhook 1イベントの失敗は他のイベントへ波及させない
func (s *IngestServiceImpl) ProcessWebhook(ctx context.Context, payload *dto.WebhookPayload) {
	if payload == nil {
		return
	}
	for _, event := range payload.Events {
		s.processEvent(ctx, event)
	}
}

func (s *IngestServiceImpl) processEvent(ctx context.Context, event *dto.WebhookEvent) {
	defer func() {
		if r := recover(); r != nil {
			log.ErrorContext(ctx, "イベント処理で panic", "recover", r)
			debuglog.Append(ctx, consts.DebugScopeLine, "event panic: %v", r)
		}
	}()

	if event == nil {
		return
	}

	userID := event.Source.UserID
	// 管理者以外からのメッセージはすべて無視する
	if userID == "" || userID != config.Cfg.Line.AdminUserID {
		return
	}

	var err error
	switch event.Message.Type {
	case "image":
		err = s.handleImage(ctx, userID, event.ReplyToken, event.Message.ID)
	case "video":
		err = s.handleVideo(ctx, userID, event.ReplyToken, event.Message.ID)
	case "text":
		err = s.handleText(ctx, userID, event.ReplyToken, event.Message.Text)
	default:
		return
	}

	if err != nil {
		log.ErrorContext(ctx, "イベント処理に失敗", "err", err,
			"msg_type", event.Message.Type, "msg_id", event.Message.ID)
		debuglog.Append(ctx, consts.DebugScopeLine, "event error: type=%s err=%v", event.Message.Type, err)
	}
}

// -------------------------
// 画像
// -------------------------

func (s *IngestServiceImpl) handleImage(ctx context.Context, userID, replyToken, messageID string) error {
	// 動画のサムネ待ちなら、この画像はポスターとして取り込む
	pv, err := s.store.GetPendingVideo(ctx, userID)
	if err == nil && pv != nil && pv.Stage == session.StageAwaitPoster && pv.VideoMessageID != "" {
		return s.handlePosterImage(ctx, userID, replyToken, messageID, pv)
	}

	data, contentType, err := s.messenger.FetchContent(ctx, messageID)
	if err != nil {
		s.messenger.ReplyOrPush(ctx, replyToken, userID, "⚠️ 画像保存に失敗しました。")
		return err
	}

	stored, err := s.media.StoreImage(ctx, userID, messageID, data, contentType)
	if err != nil {
		debuglog.Append(ctx, consts.DebugScopeGeneral, "image store failed: size=%d err=%v", len(data), err)
		s.messenger.ReplyOrPush(ctx, replyToken, userID, "⚠️ 画像保存に失敗しました。")
		return err
	}

	// NEXT:type が予約済みならこの画像で1回分を消費する
	forcedType, _ := s.store.GetNextType(ctx, userID)
	if forcedType != "" {
		_ = s.store.ClearNextType(ctx, userID)
	}

	pending := &session.PendingImage{
		ImageSrc:   stored.Src,
		Stage:      session.StageAwaitConfirmOrText,
		ForcedType: forcedType,
	}
	if err = s.store.SetPendingImage(ctx, userID, pending); err != nil {
		return err
	}

	// 大きい画像は自動読取をスキップして本文待ちへ
	if stored.Kind == StoredKindMinIO {
		if forcedType != "" {
			s.messenger.ReplyOrPush(ctx, replyToken, userID,
				fmt.Sprintf("📷 画像を保存しました。\n画像が大きいため自動読取はスキップしました。\n行き先は %s に確定済みです。\n続けて本文（に:/N:/A:/あ:/V:）を送ってください。",
					strings.ToUpper(forcedType)))
		} else {
			s.messenger.ReplyOrPush(ctx, replyToken, userID,
				"📷 画像を保存しました。\n画像が大きいため自動読取はスキップしました。\n続けて本文（に:/N:/A:/あ:/V: または T:news 等）を送ってください。")
		}
		return nil
	}

	draft, err := s.classifier.GenerateFromImage(ctx, toDataURL(contentType, data))
	if err != nil {
		debuglog.Append(ctx, consts.DebugScopeGeneral, "vision failed: %v", err)
		s.messenger.ReplyOrPush(ctx, replyToken, userID,
			"📷 画像は保存しました。自動読取に失敗したため、本文（に:/N:/A:/あ:/V:）を送ってください。")
		return nil
	}

	finalType := strings.ToLower(draft.Type)
	if forcedType != "" {
		finalType = forcedType
	}
	if !command.IsPostType(finalType) {
		finalType = command.TypeVoice
	}

	// voice は撮影日ではなく投稿日を使う
	date := draft.Date
	if finalType == command.TypeVoice || date == "" {
		date = command.TodayJST()
	}

	conf := draft.Confidence
	canAutoEvent := draft.HasEvent && (finalType == command.TypeNews || finalType == command.TypeArchive) &&
		conf >= config.Cfg.Vision.AutopostMinConf
	canAutoVoice := !draft.HasEvent && finalType == command.TypeVoice &&
		conf >= config.Cfg.Vision.AutopostVoiceMinConf

	// 行き先を手動確定しているときは自動投稿しない（OK か本文を待つ）
	if forcedType != "" {
		canAutoEvent = false
		canAutoVoice = false
	}

	pending.Draft = &session.Draft{
		Type: finalType,
		Date: date,
		JA:   draft.JaHTML,
		EN:   draft.EnHTML,
	}
	if err = s.store.SetPendingImage(ctx, userID, pending); err != nil {
		return err
	}

	if canAutoEvent || canAutoVoice {
		newID, err := s.postFromDraft(ctx, finalType, date, pending.Draft, pending.ImageSrc)
		if err != nil {
			return err
		}
		_ = s.store.ClearPendingImage(ctx, userID)

		s.messenger.ReplyOrPush(ctx, replyToken, userID,
			fmt.Sprintf("✅ 画像から自動投稿しました (ID:%d)\n[%s] date=%s (conf=%v)\n必要なら「編集:%d」で修正できます。",
				newID, strings.ToUpper(finalType), date, conf, newID))
		return nil
	}

	s.messenger.ReplyOrPush(ctx, replyToken, userID,
		fmt.Sprintf("📷 画像を保存しました。\n推定: [%s] date=%s (conf=%v)\nこのままなら「OK」で投稿。\n種別変更は「T:voice / T:news / T:archive」。\n本文で上書きするなら（に:/N:/A:/あ:/V:）を送ってください。",
			strings.ToUpper(finalType), date, conf))
	return nil
}

func (s *IngestServiceImpl) handlePosterImage(ctx context.Context, userID, replyToken, messageID string, pv *session.PendingVideo) error {
	data, contentType, err := s.messenger.FetchContent(ctx, messageID)
	if err != nil {
		s.messenger.ReplyOrPush(ctx, replyToken, userID, "⚠️ サムネ保存に失敗しました。")
		return err
	}

	posterKey, err := s.media.StorePoster(ctx, userID, pv.VideoMessageID, data, contentType)
	if err != nil {
		s.messenger.ReplyOrPush(ctx, replyToken, userID, "⚠️ サムネ保存に失敗しました。")
		return err
	}

	pv.Stage = session.StageAwaitText
	pv.PosterKey = posterKey
	if err = s.store.SetPendingVideo(ctx, userID, pv); err != nil {
		return err
	}

	s.messenger.ReplyOrPush(ctx, replyToken, userID,
		"🖼 サムネを受け取りました。続けて本文（N:/に: / V: / A:/あ:）を送ってください。")
	return nil
}

// -------------------------
// 動画
// -------------------------

func (s *IngestServiceImpl) handleVideo(ctx context.Context, userID, replyToken, messageID string) error {
	data, contentType, err := s.messenger.FetchContent(ctx, messageID)
	if err != nil {
		s.messenger.ReplyOrPush(ctx, replyToken, userID, "⚠️ 動画保存に失敗しました。")
		return err
	}

	videoKey, err := s.media.StoreVideo(ctx, userID, messageID, data, contentType)
	if err != nil {
		s.messenger.ReplyOrPush(ctx, replyToken, userID, "⚠️ 動画保存に失敗しました。")
		return err
	}

	// 未投稿のまま差し替えられた前の動画セットは掃除する
	if old, _ := s.store.GetPendingVideo(ctx, userID); old != nil && old.VideoKey != videoKey {
		s.media.Discard(ctx, old.VideoKey, old.PosterKey)
	}

	pv := &session.PendingVideo{
		Stage:          session.StageAwaitPoster,
		VideoKey:       videoKey,
		VideoMessageID: messageID,
	}
	if err = s.store.SetPendingVideo(ctx, userID, pv); err != nil {
		return err
	}

	s.messenger.ReplyOrPush(ctx, replyToken, userID, "🎥 動画を受け取りました。続けてサムネ画像を送ってください。")
	return nil
}

// -------------------------
// テキスト
// -------------------------

func (s *IngestServiceImpl) handleText(ctx context.Context, userID, replyToken, text string) error {
	text = strings.TrimSpace(text)

	if command.ParseEditEnd(text) {
		_ = s.store.ClearEditing(ctx, userID)
		s.messenger.ReplyOrPush(ctx, replyToken, userID, "✅ 編集モードを終了しました。")
		return nil
	}
	if command.ParseEditCancel(text) {
		_ = s.store.ClearEditing(ctx, userID)
		s.messenger.ReplyOrPush(ctx, replyToken, userID, "🟡 編集をキャンセルしました。")
		return nil
	}

	if editID := command.ParseEditStart(text); editID > 0 {
		return s.startEditing(ctx, userID, replyToken, editID)
	}

	editing, _ := s.store.GetEditing(ctx, userID)
	if upd := command.ParseEditField(text); editing != nil && upd != nil {
		return s.applyEditField(ctx, userID, replyToken, editing, upd)
	}

	if delIDs := command.ParseDeleteIDs(text); delIDs != nil {
		n, err := s.postRepo.Disable(ctx, delIDs)
		if err != nil {
			return err
		}
		s.messenger.ReplyOrPush(ctx, replyToken, userID,
			fmt.Sprintf("🗑️ 非表示にしました：%d/%d 件\n(%s)", n, len(delIDs), joinIDs(delIDs)))
		return nil
	}

	if nextType := command.ParseNextType(text); nextType != "" {
		if err := s.store.SetNextType(ctx, userID, nextType); err != nil {
			return err
		}
		s.messenger.ReplyOrPush(ctx, replyToken, userID,
			fmt.Sprintf("✅ 次の画像の行き先を %s に確定しました。続けて画像を送ってください。", strings.ToUpper(nextType)))
		return nil
	}

	// ペンディング画像がある間だけ効くコマンド（T: / OK）
	cmd := command.ParseTypeOnly(text)
	pending, _ := s.store.GetPendingImage(ctx, userID)
	if pending != nil && cmd != "" {
		if command.IsPostType(cmd) {
			pending.ForcedType = cmd
			if err := s.store.SetPendingImage(ctx, userID, pending); err != nil {
				return err
			}
			s.messenger.ReplyOrPush(ctx, replyToken, userID,
				fmt.Sprintf("✅ 種別を %s に設定しました。続けて「OK」で投稿、または本文で上書きしてください。", strings.ToUpper(cmd)))
			return nil
		}

		if cmd == command.IntentOK {
			return s.confirmPendingImage(ctx, userID, replyToken, pending)
		}
	}

	return s.submitText(ctx, userID, replyToken, text, pending)
}

func (s *IngestServiceImpl) startEditing(ctx context.Context, userID, replyToken string, editID int64) error {
	row, err := s.postRepo.GetByID(ctx, editID)
	if err != nil || row == nil {
		s.messenger.ReplyOrPush(ctx, replyToken, userID, fmt.Sprintf("⚠️ ID:%d が見つかりませんでした。", editID))
		return nil
	}

	if err = s.store.SetEditing(ctx, userID, &session.Editing{ID: row.ID, Type: row.Type}); err != nil {
		return err
	}

	s.messenger.ReplyOrPush(ctx, replyToken, userID,
		fmt.Sprintf("✏️ 編集モード (ID:%d / %s)\n\nDATE:\n%s\n\nJA:\n%s\n\nEN:\n%s\n\n修正はこう送ってください：\nDATE: YYYY.MM.DD / JA: ... / EN: ... / BTNJA: ... / BTNEN: ... / TYPE: news|voice|archive\n終わるとき：完了　やめる：取消",
			row.ID, strings.ToUpper(row.Type), row.Date, row.JaHTML, row.EnHTML))
	return nil
}

func (s *IngestServiceImpl) applyEditField(ctx context.Context, userID, replyToken string, editing *session.Editing, upd *command.FieldUpdate) error {
	row, err := s.postRepo.GetByID(ctx, editing.ID)
	if err != nil || row == nil {
		_ = s.store.ClearEditing(ctx, userID)
		s.messenger.ReplyOrPush(ctx, replyToken, userID, "⚠️ 対象が消えました。編集モードを解除しました。")
		return nil
	}

	var ok bool

	switch upd.Field {
	case "TYPE":
		newType := command.NormalizeTypeWord(upd.Value)
		if newType == "" {
			s.messenger.ReplyOrPush(ctx, replyToken, userID, "⚠️ TYPE は news|voice|archive のみです。")
			return nil
		}

		// 種別替えは表示日付・本文の包み・画像種別まで引き直す
		newJa := row.JaHTML
		newEn := row.EnHTML
		newImageKind := row.ImageKind
		if newType == command.TypeVoice {
			newJa = command.WrapIfVoice(command.TypeVoice, newJa)
			if newEn == "" {
				newEn = newJa
			} else {
				newEn = command.WrapIfVoice(command.TypeVoice, newEn)
			}
			if row.ImageSrc != "" {
				newImageKind = "voice"
			} else {
				newImageKind = ""
			}
		} else {
			newImageKind = ""
		}

		ok, err = s.postRepo.UpdateFields(ctx, row.ID, map[string]interface{}{
			"type":       newType,
			"view_date":  command.ViewDateFromPadded(strings.TrimSpace(row.Date)),
			"ja_html":    newJa,
			"en_html":    newEn,
			"image_kind": newImageKind,
		})
		if err != nil {
			return err
		}
		if ok {
			_ = s.store.SetEditing(ctx, userID, &session.Editing{ID: row.ID, Type: newType})
		}

	case "DATE":
		newDate := command.ExtractDate(upd.Value)
		if newDate == "" {
			s.messenger.ReplyOrPush(ctx, replyToken, userID, "⚠️ DATE は YYYY.MM.DD（または 2/8 形式）で送ってください。")
			return nil
		}
		ok, err = s.postRepo.UpdateFields(ctx, row.ID, map[string]interface{}{
			"date":      newDate,
			"view_date": command.ViewDateFromPadded(newDate),
		})
		if err != nil {
			return err
		}

	case "JA":
		newJa := upd.Value
		if row.Type == command.TypeVoice {
			newJa = command.WrapIfVoice(command.TypeVoice, newJa)
		}
		ok, err = s.postRepo.UpdateFields(ctx, row.ID, map[string]interface{}{"ja_html": newJa})
		if err != nil {
			return err
		}

	case "EN":
		newEn := upd.Value
		if row.Type == command.TypeVoice {
			newEn = command.WrapIfVoice(command.TypeVoice, newEn)
		}
		ok, err = s.postRepo.UpdateFields(ctx, row.ID, map[string]interface{}{"en_html": newEn})
		if err != nil {
			return err
		}

	case "BTNJA":
		ok, err = s.postRepo.UpdateFields(ctx, row.ID, map[string]interface{}{"ja_link_text": upd.Value})
		if err != nil {
			return err
		}

	case "BTNEN":
		ok, err = s.postRepo.UpdateFields(ctx, row.ID, map[string]interface{}{"en_link_text": upd.Value})
		if err != nil {
			return err
		}
	}

	if ok {
		s.messenger.ReplyOrPush(ctx, replyToken, userID, fmt.Sprintf("✅ %s を更新しました (ID:%d)", upd.Field, row.ID))
	} else {
		s.messenger.ReplyOrPush(ctx, replyToken, userID, fmt.Sprintf("⚠️ 更新できませんでした (ID:%d)", row.ID))
	}
	return nil
}

// confirmPendingImage OK コマンドで自動読取の下書きをそのまま投稿する
func (s *IngestServiceImpl) confirmPendingImage(ctx context.Context, userID, replyToken string, pending *session.PendingImage) error {
	if pending.Draft == nil {
		s.messenger.ReplyOrPush(ctx, replyToken, userID,
			"⚠️ 自動投稿用の下書きがありません。本文（に:/N:/A:/あ:/V:）を送ってください。")
		return nil
	}

	finalType := pending.Draft.Type
	if pending.ForcedType != "" {
		finalType = pending.ForcedType
	}
	if !command.IsPostType(finalType) {
		finalType = command.TypeVoice
	}

	date := pending.Draft.Date
	if date == "" {
		date = command.TodayJST()
	}

	newID, err := s.postFromDraft(ctx, finalType, date, pending.Draft, pending.ImageSrc)
	if err != nil {
		return err
	}
	_ = s.store.ClearPendingImage(ctx, userID)

	s.messenger.ReplyOrPush(ctx, replyToken, userID,
		fmt.Sprintf("✅ 投稿しました (ID:%d)\n[%s] date=%s", newID, strings.ToUpper(finalType), date))
	return nil
}

// postFromDraft 画像由来の下書きを投稿行へ確定する
func (s *IngestServiceImpl) postFromDraft(ctx context.Context, finalType, date string, draft *session.Draft, imageSrc string) (int64, error) {
	jaHTML := draft.JA
	enHTML := draft.EN

	// NEWS は公演名（先頭1行）へ定型文を足すだけ。EN は読取結果を壊さない
	if finalType == command.TypeNews {
		jaHTML = command.AddNewsSuffixFirstLine(jaHTML, command.NewsSuffix)
	}

	imageKind := ""
	if finalType == command.TypeVoice {
		jaHTML = command.WrapIfVoice(command.TypeVoice, jaHTML)
		if enHTML == "" {
			enHTML = jaHTML
		} else {
			enHTML = command.WrapIfVoice(command.TypeVoice, enHTML)
		}
		imageKind = "voice"
	}

	post := &model.Post{
		Type:      finalType,
		Date:      date,
		JaHTML:    jaHTML,
		EnHTML:    enHTML,
		ImageSrc:  imageSrc,
		ImageKind: imageKind,
		Enabled:   consts.EnabledTrue,
		ViewDate:  command.ViewDateFromPadded(date),
		MediaType: "image",
		LegacyKey: repository.LegacyKey(finalType, date, imageSrc+":"+jaHTML),
	}
	return s.postRepo.Upsert(ctx, post)
}

// submitText 本文からの通常投稿。ペンディング画像・動画があれば一緒に確定する
func (s *IngestServiceImpl) submitText(ctx context.Context, userID, replyToken, text string, pending *session.PendingImage) error {
	tc := command.DetectTypeAndContent(text)
	postType := tc.Type

	// NEXT/T: で種別が固定されていれば従う。ただし本文の明示プレフィックスが最優先
	if pending != nil && pending.ForcedType != "" && !tc.Explicit {
		postType = pending.ForcedType
	}

	date := command.ExtractDate(tc.Content)
	if date == "" {
		date = command.TodayJST()
	}

	urlInText := command.ExtractURL(tc.Content)
	content := tc.Content
	if urlInText != "" {
		content = strings.TrimSpace(strings.Replace(content, urlInText, "", 1))
	}

	cp, err := s.generator.GenerateCopy(ctx, postType, content)
	if err != nil || cp == nil {
		debuglog.Append(ctx, consts.DebugScopeGeneral, "generate failed: %v", err)
		cp = &llm.Copy{JA: content, BTNJA: llm.DefaultBtnJA, BTNEN: llm.DefaultBtnEN}
	}

	// ペンディング画像はこの投稿で消費する
	imageSrc := ""
	if pending != nil {
		imageSrc = pending.ImageSrc
		_ = s.store.ClearPendingImage(ctx, userID)
	}

	// サムネまで揃った動画も一緒に確定する
	mediaType := "image"
	mediaSrc := ""
	posterSrc := ""
	if pv, _ := s.store.GetPendingVideo(ctx, userID); pv != nil &&
		pv.Stage == session.StageAwaitText && pv.VideoKey != "" && pv.PosterKey != "" {
		mediaType = "video"
		mediaSrc = pv.VideoKey
		posterSrc = pv.PosterKey
		_ = s.store.ClearPendingVideo(ctx, userID)
	}

	jaHTML := cp.JA
	enHTML := cp.EN
	jaLinkText, jaLinkHref := "", ""
	enLinkText, enLinkHref := "", ""
	imageKind := ""

	switch postType {
	case command.TypeNews:
		if urlInText != "" {
			jaLinkText = cp.BTNJA
			enLinkText = cp.BTNEN
			jaLinkHref = urlInText
			enLinkHref = urlInText
		}
	case command.TypeArchive:
		// 本文そのまま
	default:
		jaHTML = command.WrapIfVoice(command.TypeVoice, cp.JA)
		if cp.EN == "" {
			enHTML = command.WrapIfVoice(command.TypeVoice, cp.JA)
		} else {
			enHTML = command.WrapIfVoice(command.TypeVoice, cp.EN)
		}
		if imageSrc != "" {
			imageKind = "voice"
		}
	}

	hashSource := content
	if postType == command.TypeNews && jaLinkHref != "" {
		hashSource = jaLinkHref
	}

	post := &model.Post{
		Type:       postType,
		Date:       date,
		JaHTML:     jaHTML,
		EnHTML:     enHTML,
		JaLinkText: jaLinkText,
		JaLinkHref: jaLinkHref,
		EnLinkText: enLinkText,
		EnLinkHref: enLinkHref,
		ImageSrc:   imageSrc,
		ImageKind:  imageKind,
		Enabled:    consts.EnabledTrue,
		ViewDate:   command.ViewDateFromPadded(date),
		MediaType:  mediaType,
		MediaSrc:   mediaSrc,
		PosterSrc:  posterSrc,
		LegacyKey:  repository.LegacyKey(postType, date, hashSource),
	}

	newID, err := s.postRepo.Upsert(ctx, post)
	if err != nil {
		s.messenger.ReplyOrPush(ctx, replyToken, userID, "⚠️ 投稿の保存に失敗しました。")
		return err
	}

	s.messenger.ReplyOrPush(ctx, replyToken, userID,
		fmt.Sprintf("✅ 更新完了 (ID: %d)\n[%s] %s", newID, strings.ToUpper(postType), preview(content, 20)))
	return nil
}

func toDataURL(contentType string, data []byte) string {
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}
