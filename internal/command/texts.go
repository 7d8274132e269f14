package command

const helpText = "📖 指令列表 (輸入數字即可)\n\n" +
	"【地震資訊】\n" +
	"• 1 - 最新一筆顯著地震 (含圖)\n" +
	"• 2 - 全球近24小時顯著地震（USGS)\n" +
	"• 3 - 今年台灣顯著地震列表（USGS)\n" +
	"• 4 - CWA 地震目錄查詢 (外部連結)\n" +
	"• 5 - CWA 最新地震預警\n" +
	"• 6 - CWA 最近7天顯著有感地震\n\n" +
	"【AI 與工具】\n" +
	"• 7 <問題> - 與 AI 助理對話\n\n" +
	"【基本指令】\n" +
	"• 8 - 關於此機器人\n" +
	"• 9 - 顯示此說明"

const infoText = "🤖 關於我\n\n" +
	"我是一個多功能助理機器人，提供地震查詢與 AI 對話功能。\n\n" +
	"• 版本: 5.0 (Gemini Edition) 搭配搜尋地震目錄的MCP功能（可用資料 : 1973-01-01 至 2025-07-06）\n" +
	"• 資料來源: CWA, USGS, Google Gemini\n" +
	"• 開發者: dayichen"

const (
	emptyPromptText      = "請輸入問題，例如：7 台灣最高的山是哪座？"
	noLatestText         = "✅ 近期無顯著有感地震報告。"
	latestNoKeyText      = "❌ 查詢最新地震失敗：錯誤：尚未設定 CWA_API_KEY Secret。"
	noAlarmText          = "✅ 目前沒有地震預警。"
	significantNoKeyText = "❌ 顯著地震查詢失敗：管理者尚未設定 CWA_API_KEY。"
	mapTextFormat        = "🗺️ 外部地震查詢服務\n\n請點擊以下連結：\n%s"
)
