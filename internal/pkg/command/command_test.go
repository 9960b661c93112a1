package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectTypeAndContent(t *testing.T) {
	tests := []struct {
		in       string
		typ      string
		content  string
		explicit bool
	}{
		{"ニュース：公演のお知らせ", TypeNews, "公演のお知らせ", true},
		{"N: 夏の公演 7/20", TypeNews, "夏の公演 7/20", true},
		{"に:新しいお知らせ", TypeNews, "新しいお知らせ", true},
		{"アーカイブ 2024.5.3 演奏会", TypeArchive, "2024.5.3 演奏会", true},
		{"あ：昨年の公演", TypeArchive, "昨年の公演", true},
		{"V: 今日はいい天気", TypeVoice, "今日はいい天気", true},
		{"ボイス 稽古の帰り道", TypeVoice, "稽古の帰り道", true},
		{"ただのつぶやき", TypeVoice, "ただのつぶやき", false},
	}
	for _, tt := range tests {
		got := DetectTypeAndContent(tt.in)
		assert.Equal(t, tt.typ, got.Type, tt.in)
		assert.Equal(t, tt.content, got.Content, tt.in)
		assert.Equal(t, tt.explicit, got.Explicit, tt.in)
	}
}

func TestParseTypeOnly(t *testing.T) {
	assert.Equal(t, TypeNews, ParseTypeOnly("T:news"))
	assert.Equal(t, TypeVoice, ParseTypeOnly("TYPE: voice"))
	assert.Equal(t, TypeArchive, ParseTypeOnly("種別：アーカイブ"))
	assert.Equal(t, TypeNews, ParseTypeOnly("T：ニュース"))
	assert.Equal(t, IntentOK, ParseTypeOnly("OK"))
	assert.Equal(t, IntentOK, ParseTypeOnly("投稿"))
	assert.Equal(t, IntentOK, ParseTypeOnly("確定"))
	assert.Equal(t, "", ParseTypeOnly("T:unknown"))
	assert.Equal(t, "", ParseTypeOnly("こんにちは"))
}

func TestParseEditCommands(t *testing.T) {
	assert.EqualValues(t, 42, ParseEditStart("編集:42"))
	assert.EqualValues(t, 7, ParseEditStart("編集 ： 7"))
	assert.EqualValues(t, 0, ParseEditStart("編集:abc"))

	assert.True(t, ParseEditEnd("完了"))
	assert.True(t, ParseEditEnd("end"))
	assert.False(t, ParseEditEnd("完了です"))

	assert.True(t, ParseEditCancel("取消"))
	assert.True(t, ParseEditCancel("cancel"))

	upd := ParseEditField("JA: 新しい本文")
	assert.NotNil(t, upd)
	assert.Equal(t, "JA", upd.Field)
	assert.Equal(t, "新しい本文", upd.Value)

	upd = ParseEditField("btnja：詳細はこちら")
	assert.NotNil(t, upd)
	assert.Equal(t, "BTNJA", upd.Field)

	assert.Nil(t, ParseEditField("FOO: bar"))
}

func TestParseDeleteIDs(t *testing.T) {
	assert.Equal(t, []int64{5, 6, 7}, ParseDeleteIDs("削除:5,6,7"))
	assert.Equal(t, []int64{5, 6, 7, 8}, ParseDeleteIDs("削除:5-8"))
	assert.Equal(t, []int64{3, 4, 5}, ParseDeleteIDs("消去: 5-3"))
	assert.Equal(t, []int64{12}, ParseDeleteIDs("さ:id:12"))
	assert.Equal(t, []int64{1, 2}, ParseDeleteIDs("削除：「1」 「2」 1"))
	assert.Nil(t, ParseDeleteIDs("削除:"))
	assert.Nil(t, ParseDeleteIDs("削除: abc"))
	assert.Nil(t, ParseDeleteIDs("こんにちは"))
}

func TestParseNextType(t *testing.T) {
	assert.Equal(t, TypeVoice, ParseNextType("NEXT:voice"))
	assert.Equal(t, TypeNews, ParseNextType("next: ニュース"))
	assert.Equal(t, TypeArchive, ParseNextType("NEXT：アーカイブ"))
	assert.Equal(t, "", ParseNextType("NEXT:そのほか"))
	assert.Equal(t, "", ParseNextType("voice"))
}

func TestExtractURL(t *testing.T) {
	assert.Equal(t, "https://example.com/event?id=1",
		ExtractURL("詳細は https://example.com/event?id=1 をご覧ください"))
	assert.Equal(t, "", ExtractURL("URLなし"))
}
