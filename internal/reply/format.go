package reply

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dileep-u-k/quakebot/internal/quake"
)

const (
	Separator = "--------------------"
	missing   = "—"
	noLink    = "無"
)

// FormatMagnitude renders one decimal, or "—" when unknown.
func FormatMagnitude(m *float64) string {
	if m == nil {
		return missing
	}
	return strconv.FormatFloat(*m, 'f', 1, 64)
}

// FormatDepth renders whole kilometres, or "—" when unknown.
func FormatDepth(d *float64) string {
	if d == nil {
		return missing
	}
	return strconv.FormatFloat(*d, 'f', 0, 64)
}

// List renders a header, the separator and up to limit blocks. When count
// exceeds limit a trailing line reports how many were left out.
func List(header string, count, limit int, blocks []string) string {
	if len(blocks) > limit {
		blocks = blocks[:limit]
	}
	parts := make([]string, 0, len(blocks)+3)
	parts = append(parts, header, Separator)
	parts = append(parts, blocks...)
	if count > limit {
		parts = append(parts, fmt.Sprintf("... (還有 %d 筆資料)", count-limit))
	}
	return strings.Join(parts, "\n\n")
}

func localTime(r quake.Record, def string) string {
	if !r.HasTime() {
		return def
	}
	return r.Local().Format(quake.DisplayLayout)
}

// AlarmBlock renders one early-warning message.
func AlarmBlock(a quake.Alarm) string {
	areas := missing
	if len(a.Areas) > 0 {
		areas = strings.Join(a.Areas, ", ")
	}
	return fmt.Sprintf("事件: %s | 類型: %s#%s\n規模/深度: M%s / %s km\n時間: %s（台灣）\n地點: %s",
		Escape(OrDefault(a.Identifier, missing)),
		Escape(OrDefault(a.MsgType, missing)),
		Escape(OrDefault(a.MsgNo, missing)),
		FormatMagnitude(a.Magnitude),
		FormatDepth(a.Depth),
		localTime(a.Record, "未知"),
		Escape(areas),
	)
}

// SignificantBlock renders one CWA significant report, times in UTC+8.
func SignificantBlock(r quake.Record) string {
	return fmt.Sprintf("時間: %s\n地點: %s\n規模: M%s | 深度: %s km\n報告: %s",
		localTime(r, missing),
		Escape(OrDefault(r.Location, missing)),
		FormatMagnitude(r.Magnitude),
		FormatDepth(r.Depth),
		OrDefault(r.ReportURL, noLink),
	)
}

// USGSBlock renders one USGS event, times in UTC.
func USGSBlock(r quake.Record) string {
	when := missing
	if r.HasTime() {
		when = r.OriginTime.UTC().Format(quake.DisplayLayout)
	}
	return fmt.Sprintf("規模: %s | 日期時間: %s (UTC)\n地點: %s\n報告連結: %s",
		FormatMagnitude(r.Magnitude),
		when,
		Escape(OrDefault(r.Location, "N/A")),
		OrDefault(r.ReportURL, noLink),
	)
}

// LatestText renders the single most recent significant report.
func LatestText(r quake.Record) string {
	return fmt.Sprintf("🚨 CWA 最新顯著有感地震\n----------------------------------\n時間: %s\n地點: %s\n規模: M%s | 深度: %s km\n報告: %s",
		localTime(r, missing),
		Escape(OrDefault(r.Location, missing)),
		FormatMagnitude(r.Magnitude),
		FormatDepth(r.Depth),
		OrDefault(r.ReportURL, noLink),
	)
}
