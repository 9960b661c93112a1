package service

import (
	"context"
	"strings"
	"testing"

	"github.com/haruhisa-hosei/hosei-content-api/internal/api/config"
	"github.com/haruhisa-hosei/hosei-content-api/internal/api/dto"
	"github.com/haruhisa-hosei/hosei-content-api/internal/model"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/command"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/llm"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/session"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminID = "U_admin"

// -------------------------
// fakes
// -------------------------

type fakeStore struct {
	pendingImage map[string]*session.PendingImage
	pendingVideo map[string]*session.PendingVideo
	editing      map[string]*session.Editing
	nextType     map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		pendingImage: map[string]*session.PendingImage{},
		pendingVideo: map[string]*session.PendingVideo{},
		editing:      map[string]*session.Editing{},
		nextType:     map[string]string{},
	}
}

func (f *fakeStore) GetPendingImage(_ context.Context, userID string) (*session.PendingImage, error) {
	return f.pendingImage[userID], nil
}
func (f *fakeStore) SetPendingImage(_ context.Context, userID string, p *session.PendingImage) error {
	f.pendingImage[userID] = p
	return nil
}
func (f *fakeStore) ClearPendingImage(_ context.Context, userID string) error {
	delete(f.pendingImage, userID)
	return nil
}
func (f *fakeStore) GetPendingVideo(_ context.Context, userID string) (*session.PendingVideo, error) {
	return f.pendingVideo[userID], nil
}
func (f *fakeStore) SetPendingVideo(_ context.Context, userID string, p *session.PendingVideo) error {
	f.pendingVideo[userID] = p
	return nil
}
func (f *fakeStore) ClearPendingVideo(_ context.Context, userID string) error {
	delete(f.pendingVideo, userID)
	return nil
}
func (f *fakeStore) GetEditing(_ context.Context, userID string) (*session.Editing, error) {
	return f.editing[userID], nil
}
func (f *fakeStore) SetEditing(_ context.Context, userID string, e *session.Editing) error {
	f.editing[userID] = e
	return nil
}
func (f *fakeStore) ClearEditing(_ context.Context, userID string) error {
	delete(f.editing, userID)
	return nil
}
func (f *fakeStore) GetNextType(_ context.Context, userID string) (string, error) {
	return f.nextType[userID], nil
}
func (f *fakeStore) SetNextType(_ context.Context, userID string, postType string) error {
	f.nextType[userID] = postType
	return nil
}
func (f *fakeStore) ClearNextType(_ context.Context, userID string) error {
	delete(f.nextType, userID)
	return nil
}

type fakeMessenger struct {
	replies  []string
	content  []byte
	ctype    string
	fetchErr error
}

func (f *fakeMessenger) ReplyText(_ context.Context, _ string, texts ...string) error {
	f.replies = append(f.replies, texts...)
	return nil
}
func (f *fakeMessenger) PushText(_ context.Context, _ string, texts ...string) error {
	f.replies = append(f.replies, texts...)
	return nil
}
func (f *fakeMessenger) ReplyOrPush(_ context.Context, _ string, _ string, texts ...string) {
	f.replies = append(f.replies, texts...)
}
func (f *fakeMessenger) FetchContent(_ context.Context, _ string) ([]byte, string, error) {
	if f.fetchErr != nil {
		return nil, "", f.fetchErr
	}
	return f.content, f.ctype, nil
}

func (f *fakeMessenger) lastReply() string {
	if len(f.replies) == 0 {
		return ""
	}
	return f.replies[len(f.replies)-1]
}

type fakeMedia struct {
	imageKind string
	imageSrc  string
	storeErr  error
	discarded []string
}

func (f *fakeMedia) StoreImage(_ context.Context, _, _ string, _ []byte, _ string) (*StoredImage, error) {
	if f.storeErr != nil {
		return nil, f.storeErr
	}
	return &StoredImage{Kind: f.imageKind, Src: f.imageSrc}, nil
}
func (f *fakeMedia) StoreVideo(_ context.Context, _, messageID string, _ []byte, _ string) (string, error) {
	return "media/video/202608/u/" + messageID + ".mp4", nil
}
func (f *fakeMedia) StorePoster(_ context.Context, _, videoMessageID string, _ []byte, _ string) (string, error) {
	return "media/poster/202608/u/" + videoMessageID + ".jpg", nil
}
func (f *fakeMedia) Discard(_ context.Context, keys ...string) {
	for _, k := range keys {
		if k != "" {
			f.discarded = append(f.discarded, k)
		}
	}
}

type fakeRepo struct {
	posts       map[int64]*model.Post
	nextID      int64
	upserted    []*model.Post
	updated     map[int64]map[string]interface{}
	disabledIDs []int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		posts:   map[int64]*model.Post{},
		nextID:  100,
		updated: map[int64]map[string]interface{}{},
	}
}

func (f *fakeRepo) Upsert(_ context.Context, post *model.Post) (int64, error) {
	f.nextID++
	post.ID = f.nextID
	f.posts[post.ID] = post
	f.upserted = append(f.upserted, post)
	return post.ID, nil
}
func (f *fakeRepo) InsertIgnore(_ context.Context, post *model.Post) (bool, error) {
	f.nextID++
	post.ID = f.nextID
	f.posts[post.ID] = post
	return true, nil
}
func (f *fakeRepo) GetByID(_ context.Context, id int64) (*model.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return p, nil
}
func (f *fakeRepo) UpdateFields(_ context.Context, id int64, fields map[string]interface{}) (bool, error) {
	if _, ok := f.posts[id]; !ok {
		return false, nil
	}
	f.updated[id] = fields
	return true, nil
}
func (f *fakeRepo) Disable(_ context.Context, ids []int64) (int64, error) {
	f.disabledIDs = append(f.disabledIDs, ids...)
	return int64(len(ids)), nil
}
func (f *fakeRepo) List(_ context.Context, _ string, _ bool, _, _ int) ([]*model.Post, error) {
	return nil, nil
}

type fakeGenerator struct {
	copy *llm.Copy
	err  error
}

func (f *fakeGenerator) GenerateCopy(_ context.Context, _, content string) (*llm.Copy, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.copy != nil {
		return f.copy, nil
	}
	return &llm.Copy{JA: content, EN: "english " + content, BTNJA: llm.DefaultBtnJA, BTNEN: llm.DefaultBtnEN}, nil
}

type fakeClassifier struct {
	draft *llm.VisionDraft
	err   error
}

func (f *fakeClassifier) GenerateFromImage(_ context.Context, _ string) (*llm.VisionDraft, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.draft, nil
}

// -------------------------
// helpers
// -------------------------

type ingestFixture struct {
	svc        IngestService
	store      *fakeStore
	messenger  *fakeMessenger
	media      *fakeMedia
	repo       *fakeRepo
	generator  *fakeGenerator
	classifier *fakeClassifier
}

func newIngestFixture() *ingestFixture {
	config.Cfg = &config.Config{}
	config.Cfg.Line.AdminUserID = testAdminID
	config.Cfg.Vision.AutopostMinConf = 0.85
	config.Cfg.Vision.AutopostVoiceMinConf = 0.90

	f := &ingestFixture{
		store:      newFakeStore(),
		messenger:  &fakeMessenger{content: []byte("binary"), ctype: "image/jpeg"},
		media:      &fakeMedia{imageKind: StoredKindGitHub, imageSrc: "voice_20260828_msg1_42.jpg"},
		repo:       newFakeRepo(),
		generator:  &fakeGenerator{},
		classifier: &fakeClassifier{},
	}
	f.svc = NewIngestService(f.store, f.messenger, f.media, f.repo, f.generator, f.classifier)
	return f
}

func textEvent(text string) *dto.WebhookPayload {
	return eventFrom(testAdminID, "text", text)
}

func eventFrom(userID, msgType, text string) *dto.WebhookPayload {
	e := &dto.WebhookEvent{
		Type:       "message",
		ReplyToken: "rtoken",
	}
	e.Source.Type = "user"
	e.Source.UserID = userID
	e.Message.ID = "msg1"
	e.Message.Type = msgType
	e.Message.Text = text
	return &dto.WebhookPayload{Events: []*dto.WebhookEvent{e}}
}

// -------------------------
// tests
// -------------------------

func TestIgnoreNonAdminSender(t *testing.T) {
	f := newIngestFixture()

	f.svc.ProcessWebhook(context.Background(), eventFrom("U_stranger", "text", "V: こんにちは"))

	assert.Empty(t, f.messenger.replies)
	assert.Empty(t, f.repo.upserted)
}

func TestImageAutoPostNews(t *testing.T) {
	f := newIngestFixture()
	f.classifier.draft = &llm.VisionDraft{
		Type:       "news",
		HasEvent:   true,
		Date:       "2026.09.12",
		JaHTML:     "サマーフェス2026<br>会場：渋谷",
		EnHTML:     "Summer Fes 2026<br>Venue: Shibuya",
		Confidence: 0.93,
	}

	f.svc.ProcessWebhook(context.Background(), eventFrom(testAdminID, "image", ""))

	require.Len(t, f.repo.upserted, 1)
	post := f.repo.upserted[0]
	assert.Equal(t, "news", post.Type)
	assert.Equal(t, "2026.09.12", post.Date)
	assert.Equal(t, "2026.9.12", post.ViewDate)
	// 定型文は先頭行（公演名）だけに付く
	assert.Equal(t, "サマーフェス2026に出演します。<br>会場：渋谷", post.JaHTML)
	assert.Equal(t, "Summer Fes 2026<br>Venue: Shibuya", post.EnHTML)
	assert.Equal(t, "voice_20260828_msg1_42.jpg", post.ImageSrc)
	assert.Empty(t, post.ImageKind)

	// 自動投稿後はペンディングが残らない
	assert.Nil(t, f.store.pendingImage[testAdminID])
	assert.Contains(t, f.messenger.lastReply(), "自動投稿しました")
	assert.Contains(t, f.messenger.lastReply(), "編集:")
}

func TestImageAutoPostVoiceWrapsSpan(t *testing.T) {
	f := newIngestFixture()
	f.classifier.draft = &llm.VisionDraft{
		Type:       "voice",
		HasEvent:   false,
		Date:       "2020.01.01",
		JaHTML:     "今日はいい天気",
		EnHTML:     "Nice weather today",
		Confidence: 0.95,
	}

	f.svc.ProcessWebhook(context.Background(), eventFrom(testAdminID, "image", ""))

	require.Len(t, f.repo.upserted, 1)
	post := f.repo.upserted[0]
	assert.Equal(t, "voice", post.Type)
	// voice は読取日付を使わず常に今日
	assert.Equal(t, command.TodayJST(), post.Date)
	assert.Equal(t, "<span>今日はいい天気</span>", post.JaHTML)
	assert.Equal(t, "<span>Nice weather today</span>", post.EnHTML)
	assert.Equal(t, "voice", post.ImageKind)
}

func TestImageBelowConfidenceWaitsForConfirm(t *testing.T) {
	f := newIngestFixture()
	f.classifier.draft = &llm.VisionDraft{
		Type:       "news",
		HasEvent:   true,
		Date:       "2026.09.12",
		JaHTML:     "なにかのイベント",
		Confidence: 0.80,
	}

	f.svc.ProcessWebhook(context.Background(), eventFrom(testAdminID, "image", ""))

	assert.Empty(t, f.repo.upserted)
	pending := f.store.pendingImage[testAdminID]
	require.NotNil(t, pending)
	require.NotNil(t, pending.Draft)
	assert.Equal(t, "news", pending.Draft.Type)
	assert.Contains(t, f.messenger.lastReply(), "推定")
	assert.Contains(t, f.messenger.lastReply(), "OK")
}

func TestImageWithNextTypeNeverAutoPosts(t *testing.T) {
	f := newIngestFixture()
	f.store.nextType[testAdminID] = "archive"
	f.classifier.draft = &llm.VisionDraft{
		Type:       "news",
		HasEvent:   true,
		Date:       "2026.09.12",
		JaHTML:     "確度は高いが行き先は手動確定済み",
		Confidence: 0.99,
	}

	f.svc.ProcessWebhook(context.Background(), eventFrom(testAdminID, "image", ""))

	assert.Empty(t, f.repo.upserted)
	pending := f.store.pendingImage[testAdminID]
	require.NotNil(t, pending)
	assert.Equal(t, "archive", pending.ForcedType)
	// NEXT 予約は画像1枚で消費される
	assert.Empty(t, f.store.nextType[testAdminID])
}

func TestLargeImageSkipsVision(t *testing.T) {
	f := newIngestFixture()
	f.media.imageKind = StoredKindMinIO
	f.media.imageSrc = "media/image/202608/u/msg1.jpg"
	f.classifier.err = errors.New("should not be called")

	f.svc.ProcessWebhook(context.Background(), eventFrom(testAdminID, "image", ""))

	assert.Empty(t, f.repo.upserted)
	pending := f.store.pendingImage[testAdminID]
	require.NotNil(t, pending)
	assert.Nil(t, pending.Draft)
	assert.Contains(t, f.messenger.lastReply(), "自動読取はスキップ")
}

func TestVisionFailureKeepsPendingImage(t *testing.T) {
	f := newIngestFixture()
	f.classifier.err = errors.New("vision down")

	f.svc.ProcessWebhook(context.Background(), eventFrom(testAdminID, "image", ""))

	assert.Empty(t, f.repo.upserted)
	require.NotNil(t, f.store.pendingImage[testAdminID])
	assert.Contains(t, f.messenger.lastReply(), "自動読取に失敗")
}

func TestOkConfirmPostsPendingDraft(t *testing.T) {
	f := newIngestFixture()
	f.store.pendingImage[testAdminID] = &session.PendingImage{
		ImageSrc: "voice_20260828_msg1_42.jpg",
		Stage:    session.StageAwaitConfirmOrText,
		Draft: &session.Draft{
			Type: "voice",
			Date: "2026.08.28",
			JA:   "下書き本文",
			EN:   "draft body",
		},
	}

	f.svc.ProcessWebhook(context.Background(), textEvent("OK"))

	require.Len(t, f.repo.upserted, 1)
	post := f.repo.upserted[0]
	assert.Equal(t, "voice", post.Type)
	assert.Equal(t, "<span>下書き本文</span>", post.JaHTML)
	assert.Equal(t, "voice", post.ImageKind)
	assert.Nil(t, f.store.pendingImage[testAdminID])
}

func TestOkWithoutDraftWarns(t *testing.T) {
	f := newIngestFixture()
	f.store.pendingImage[testAdminID] = &session.PendingImage{
		ImageSrc: "media/image/202608/u/msg1.jpg",
		Stage:    session.StageAwaitConfirmOrText,
	}

	f.svc.ProcessWebhook(context.Background(), textEvent("ok"))

	assert.Empty(t, f.repo.upserted)
	assert.Contains(t, f.messenger.lastReply(), "下書きがありません")
	// 本文待ちは継続する
	require.NotNil(t, f.store.pendingImage[testAdminID])
}

func TestTypeCommandOverridesPendingDestination(t *testing.T) {
	f := newIngestFixture()
	f.store.pendingImage[testAdminID] = &session.PendingImage{
		ImageSrc: "voice_20260828_msg1_42.jpg",
		Stage:    session.StageAwaitConfirmOrText,
		Draft:    &session.Draft{Type: "voice", Date: "2026.08.28", JA: "本文"},
	}

	f.svc.ProcessWebhook(context.Background(), textEvent("T:news"))

	assert.Equal(t, "news", f.store.pendingImage[testAdminID].ForcedType)
	assert.Empty(t, f.repo.upserted)

	f.svc.ProcessWebhook(context.Background(), textEvent("OK"))

	require.Len(t, f.repo.upserted, 1)
	assert.Equal(t, "news", f.repo.upserted[0].Type)
}

func TestNormalTextPostNewsWithURL(t *testing.T) {
	f := newIngestFixture()
	f.generator.copy = &llm.Copy{
		JA:    "ライブに出演します。",
		EN:    "Performing at the live show.",
		BTNJA: "チケット情報",
		BTNEN: "Ticket Info",
	}

	f.svc.ProcessWebhook(context.Background(), textEvent("N: 9/12 サマーフェス https://example.com/fes"))

	require.Len(t, f.repo.upserted, 1)
	post := f.repo.upserted[0]
	assert.Equal(t, "news", post.Type)
	assert.Equal(t, "2026.09.12", post.Date)
	assert.Equal(t, "https://example.com/fes", post.JaLinkHref)
	assert.Equal(t, "https://example.com/fes", post.EnLinkHref)
	assert.Equal(t, "チケット情報", post.JaLinkText)
	assert.Equal(t, "Ticket Info", post.EnLinkText)
	// URL は本文から取り除かれている
	assert.NotContains(t, post.JaHTML, "https://")
	assert.Contains(t, f.messenger.lastReply(), "更新完了")
}

func TestNormalTextVoiceDefaultsAndWraps(t *testing.T) {
	f := newIngestFixture()
	f.generator.err = errors.New("llm down")

	f.svc.ProcessWebhook(context.Background(), textEvent("今日のひとこと"))

	require.Len(t, f.repo.upserted, 1)
	post := f.repo.upserted[0]
	// プレフィックス無しは voice、生成失敗でも原文で投稿する
	assert.Equal(t, "voice", post.Type)
	assert.Equal(t, command.TodayJST(), post.Date)
	assert.Equal(t, "<span>今日のひとこと</span>", post.JaHTML)
	assert.Equal(t, "<span>今日のひとこと</span>", post.EnHTML)
}

func TestTextConsumesPendingImage(t *testing.T) {
	f := newIngestFixture()
	f.store.pendingImage[testAdminID] = &session.PendingImage{
		ImageSrc: "voice_20260828_msg1_42.jpg",
		Stage:    session.StageAwaitConfirmOrText,
	}

	f.svc.ProcessWebhook(context.Background(), textEvent("V: 写真に本文をつける"))

	require.Len(t, f.repo.upserted, 1)
	post := f.repo.upserted[0]
	assert.Equal(t, "voice_20260828_msg1_42.jpg", post.ImageSrc)
	assert.Equal(t, "voice", post.ImageKind)
	assert.Nil(t, f.store.pendingImage[testAdminID])
}

func TestForcedTypeYieldsToExplicitPrefix(t *testing.T) {
	f := newIngestFixture()
	f.store.pendingImage[testAdminID] = &session.PendingImage{
		ImageSrc:   "voice_20260828_msg1_42.jpg",
		Stage:      session.StageAwaitConfirmOrText,
		ForcedType: "archive",
	}

	// 明示プレフィックスは T:/NEXT: の固定より強い
	f.svc.ProcessWebhook(context.Background(), textEvent("に: 9/12 フェス出演"))

	require.Len(t, f.repo.upserted, 1)
	assert.Equal(t, "news", f.repo.upserted[0].Type)
}

func TestVideoThenPosterThenText(t *testing.T) {
	f := newIngestFixture()

	f.svc.ProcessWebhook(context.Background(), eventFrom(testAdminID, "video", ""))

	pv := f.store.pendingVideo[testAdminID]
	require.NotNil(t, pv)
	assert.Equal(t, session.StageAwaitPoster, pv.Stage)
	assert.Contains(t, f.messenger.lastReply(), "サムネ画像")

	// 次の画像はポスターとして取り込まれ、通常の画像フローには乗らない
	f.svc.ProcessWebhook(context.Background(), eventFrom(testAdminID, "image", ""))

	pv = f.store.pendingVideo[testAdminID]
	require.NotNil(t, pv)
	assert.Equal(t, session.StageAwaitText, pv.Stage)
	assert.NotEmpty(t, pv.PosterKey)
	assert.Nil(t, f.store.pendingImage[testAdminID])

	f.svc.ProcessWebhook(context.Background(), textEvent("V: ライブ映像です"))

	require.Len(t, f.repo.upserted, 1)
	post := f.repo.upserted[0]
	assert.Equal(t, "video", post.MediaType)
	assert.Equal(t, pv.VideoKey, post.MediaSrc)
	assert.Equal(t, pv.PosterKey, post.PosterSrc)
	assert.Nil(t, f.store.pendingVideo[testAdminID])
}

func TestNewVideoDiscardsReplacedOne(t *testing.T) {
	f := newIngestFixture()

	f.svc.ProcessWebhook(context.Background(), eventFrom(testAdminID, "video", ""))
	f.svc.ProcessWebhook(context.Background(), eventFrom(testAdminID, "image", ""))
	first := f.store.pendingVideo[testAdminID]
	require.NotNil(t, first)
	require.NotEmpty(t, first.PosterKey)

	// 未投稿のまま別の動画が来たら前のセットは掃除される
	ev := eventFrom(testAdminID, "video", "")
	ev.Events[0].Message.ID = "msg2"
	f.svc.ProcessWebhook(context.Background(), ev)

	assert.Contains(t, f.media.discarded, first.VideoKey)
	assert.Contains(t, f.media.discarded, first.PosterKey)
	assert.Equal(t, "media/video/202608/u/msg2.mp4", f.store.pendingVideo[testAdminID].VideoKey)
}

func TestEditFlowUpdatesSingleField(t *testing.T) {
	f := newIngestFixture()
	f.repo.posts[7] = &model.Post{
		ID: 7, Type: "voice", Date: "2026.08.01",
		JaHTML: "<span>元の本文</span>", EnHTML: "<span>original</span>",
	}

	f.svc.ProcessWebhook(context.Background(), textEvent("編集:7"))

	require.NotNil(t, f.store.editing[testAdminID])
	assert.Equal(t, int64(7), f.store.editing[testAdminID].ID)
	assert.Contains(t, f.messenger.lastReply(), "編集モード")

	f.svc.ProcessWebhook(context.Background(), textEvent("JA: 直した本文"))

	fields := f.repo.updated[7]
	require.NotNil(t, fields)
	// JA 更新は ja_html 以外に触らない。voice なので span 包み
	assert.Len(t, fields, 1)
	assert.Equal(t, "<span>直した本文</span>", fields["ja_html"])

	f.svc.ProcessWebhook(context.Background(), textEvent("完了"))
	assert.Nil(t, f.store.editing[testAdminID])
}

func TestEditTypeRederivesDependentFields(t *testing.T) {
	f := newIngestFixture()
	f.repo.posts[7] = &model.Post{
		ID: 7, Type: "voice", Date: "2026.08.01",
		JaHTML: "<span>本文</span>", EnHTML: "<span>body</span>",
		ImageSrc: "voice_20260801_x_1.jpg", ImageKind: "voice",
	}
	f.store.editing[testAdminID] = &session.Editing{ID: 7, Type: "voice"}

	f.svc.ProcessWebhook(context.Background(), textEvent("TYPE: news"))

	fields := f.repo.updated[7]
	require.NotNil(t, fields)
	assert.Equal(t, "news", fields["type"])
	assert.Equal(t, "2026.8.1", fields["view_date"])
	// voice 以外に変えたら画像種別は落とす
	assert.Equal(t, "", fields["image_kind"])
	assert.Equal(t, "news", f.store.editing[testAdminID].Type)
}

func TestEditDateRequiresParseableDate(t *testing.T) {
	f := newIngestFixture()
	f.repo.posts[7] = &model.Post{ID: 7, Type: "news", Date: "2026.08.01"}
	f.store.editing[testAdminID] = &session.Editing{ID: 7, Type: "news"}

	f.svc.ProcessWebhook(context.Background(), textEvent("DATE: いつか"))

	assert.Nil(t, f.repo.updated[7])
	assert.Contains(t, f.messenger.lastReply(), "DATE は")

	f.svc.ProcessWebhook(context.Background(), textEvent("DATE: 2026.9.5"))

	fields := f.repo.updated[7]
	require.NotNil(t, fields)
	assert.Equal(t, "2026.09.05", fields["date"])
	assert.Equal(t, "2026.9.5", fields["view_date"])
}

func TestEditTargetGoneClearsEditing(t *testing.T) {
	f := newIngestFixture()
	f.store.editing[testAdminID] = &session.Editing{ID: 404, Type: "news"}

	f.svc.ProcessWebhook(context.Background(), textEvent("JA: 宛先なし"))

	assert.Nil(t, f.store.editing[testAdminID])
	assert.Contains(t, f.messenger.lastReply(), "対象が消えました")
}

func TestDeleteCommandDisablesRange(t *testing.T) {
	f := newIngestFixture()

	f.svc.ProcessWebhook(context.Background(), textEvent("削除: 3-5"))

	assert.Equal(t, []int64{3, 4, 5}, f.repo.disabledIDs)
	assert.Contains(t, f.messenger.lastReply(), "3/3 件")
}

func TestNextTypeCommandReserves(t *testing.T) {
	f := newIngestFixture()

	f.svc.ProcessWebhook(context.Background(), textEvent("NEXT:archive"))

	assert.Equal(t, "archive", f.store.nextType[testAdminID])
	assert.Contains(t, f.messenger.lastReply(), "ARCHIVE")
}

func TestLegacyKeyNewsPrefersLink(t *testing.T) {
	f := newIngestFixture()
	f.generator.copy = &llm.Copy{JA: "告知", EN: "announce", BTNJA: "詳細", BTNEN: "More"}

	f.svc.ProcessWebhook(context.Background(), textEvent("N: 9/12 告知A https://example.com/same"))
	f.svc.ProcessWebhook(context.Background(), textEvent("N: 9/12 告知B https://example.com/same"))

	require.Len(t, f.repo.upserted, 2)
	// news は URL が冪等キーの署名になるので、本文違いでもキーは同じ
	assert.Equal(t, f.repo.upserted[0].LegacyKey, f.repo.upserted[1].LegacyKey)
	assert.True(t, strings.HasPrefix(f.repo.upserted[0].LegacyKey, "news:2026.09.12:"))
}
