// Package main provides localization for the framepick CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI and log messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Pick a representative still frame from a video.": "動画から代表的な静止画フレームを選び出します。",

		// Pick command
		"Extract a still frame from a video at a timestamp.": "指定タイムスタンプの静止画フレームを動画から抽出",
		"Loading %s...":                          "%s を読み込み中...",
		"Captured frame at %s":                   "%s のフレームをキャプチャしました",
		"Output saved to %s (video duration %s)": "%s に保存しました（動画の長さ %s）",

		// Probe command
		"Show codec, duration and dimensions of a video.": "動画のコーデック・長さ・解像度を表示",

		// Version command
		"Show version information.": "バージョン情報を表示",
		"framepick version %s":      "framepick バージョン %s",

		// Shared
		"Interrupted, shutting down...": "中断されました。終了しています...",
	})
}
