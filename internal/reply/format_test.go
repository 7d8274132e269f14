package reply

import (
	"strings"
	"testing"
	"time"

	"github.com/dileep-u-k/quakebot/internal/quake"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestFormatNumbers(t *testing.T) {
	assert.Equal(t, "7.2", FormatMagnitude(ptr(7.24)))
	assert.Equal(t, "5.0", FormatMagnitude(ptr(5)))
	assert.Equal(t, "—", FormatMagnitude(nil))
	assert.Equal(t, "16", FormatDepth(ptr(15.5)))
	assert.Equal(t, "10", FormatDepth(ptr(10)))
	assert.Equal(t, "—", FormatDepth(nil))
}

func TestList(t *testing.T) {
	got := List("H:", 3, 2, []string{"a", "b", "c"})
	assert.Equal(t, "H:\n\n--------------------\n\na\n\nb\n\n... (還有 1 筆資料)", got)

	got = List("H:", 1, 5, []string{"a"})
	assert.Equal(t, "H:\n\n--------------------\n\na", got)
}

func TestSignificantBlock(t *testing.T) {
	r := quake.Record{
		OriginTime: time.Date(2024, 4, 2, 23, 58, 9, 0, time.UTC),
		Location:   "花蓮縣政府南南東方 25.0 公里 (位於臺灣東部海域)",
		Magnitude:  ptr(7.2),
		Depth:      ptr(15.5),
		ReportURL:  "https://scweb.cwa.gov.tw/zh-tw/earthquake/details/2024040307580972019",
	}
	want := "時間: 2024-04-03 07:58\n" +
		"地點: 花蓮縣政府南南東方 25.0 公里 (位於臺灣東部海域)\n" +
		"規模: M7.2 | 深度: 16 km\n" +
		"報告: https://scweb.cwa.gov.tw/zh-tw/earthquake/details/2024040307580972019"
	assert.Equal(t, want, SignificantBlock(r))
}

func TestSignificantBlockMissingValues(t *testing.T) {
	want := "時間: —\n地點: —\n規模: M— | 深度: — km\n報告: 無"
	assert.Equal(t, want, SignificantBlock(quake.Record{}))
}

func TestUSGSBlock(t *testing.T) {
	r := quake.Record{
		OriginTime: time.Date(2024, 4, 2, 23, 58, 11, 0, time.UTC),
		Location:   "18 km SSW of Hualien City, Taiwan",
		Magnitude:  ptr(7.4),
		ReportURL:  "https://earthquake.usgs.gov/earthquakes/eventpage/us7000m9g4",
	}
	want := "規模: 7.4 | 日期時間: 2024-04-02 23:58 (UTC)\n" +
		"地點: 18 km SSW of Hualien City, Taiwan\n" +
		"報告連結: https://earthquake.usgs.gov/earthquakes/eventpage/us7000m9g4"
	assert.Equal(t, want, USGSBlock(r))

	assert.Contains(t, USGSBlock(quake.Record{}), "地點: N/A")
}

func TestAlarmBlockKeepsBraces(t *testing.T) {
	a := quake.Alarm{
		Record: quake.Record{
			OriginTime: time.Date(2024, 4, 2, 23, 58, 0, 0, time.UTC),
			Magnitude:  ptr(6.8),
			Depth:      ptr(20),
		},
		Identifier: "CWA-EEW{113}",
		MsgType:    "Update",
		MsgNo:      "3",
		Areas:      []string{"花蓮縣", "宜蘭縣 {北部}"},
	}
	want := "事件: CWA-EEW{113} | 類型: Update#3\n" +
		"規模/深度: M6.8 / 20 km\n" +
		"時間: 2024-04-03 07:58（台灣）\n" +
		"地點: 花蓮縣, 宜蘭縣 {北部}"
	assert.Equal(t, want, AlarmBlock(a))
}

func TestAlarmBlockDefaults(t *testing.T) {
	want := "事件: — | 類型: —#—\n規模/深度: M— / — km\n時間: 未知（台灣）\n地點: —"
	assert.Equal(t, want, AlarmBlock(quake.Alarm{}))
}

func TestLatestText(t *testing.T) {
	r := quake.Record{
		OriginTime: time.Date(2024, 4, 2, 23, 58, 9, 0, time.UTC),
		Location:   "花蓮縣 %s {x}",
		Magnitude:  ptr(7.2),
		Depth:      ptr(15.5),
	}
	got := LatestText(r)
	assert.True(t, strings.HasPrefix(got, "🚨 CWA 最新顯著有感地震\n----------------------------------\n"))
	assert.Contains(t, got, "時間: 2024-04-03 07:58\n")
	assert.Contains(t, got, "地點: 花蓮縣 %s {x}\n")
	assert.Contains(t, got, "規模: M7.2 | 深度: 16 km\n")
	assert.True(t, strings.HasSuffix(got, "報告: 無"))
}
