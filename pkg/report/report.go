package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/shouni/go-covid-stats/pkg/types"
)

// Palette は、端末出力に使用する色の設定です。
type Palette struct {
	Red   *color.Color
	Green *color.Color
}

// DefaultPalette は太字の赤と緑を返します。端末判定に関係なく常に色付けします。
func DefaultPalette() Palette {
	red := color.New(color.Bold, color.FgRed)
	red.EnableColor()
	green := color.New(color.Bold, color.FgGreen)
	green.EnableColor()
	return Palette{Red: red, Green: green}
}

// PlainPalette はエスケープシーケンスを一切出力しないパレットを返します。
func PlainPalette() Palette {
	red := color.New(color.Bold, color.FgRed)
	red.DisableColor()
	green := color.New(color.Bold, color.FgGreen)
	green.DisableColor()
	return Palette{Red: red, Green: green}
}

// Render は統計値を整形して w に書き込みます。同じ入力には常に同じバイト列を出力します。
func Render(w io.Writer, stats *types.Stats, p Palette) error {
	if stats == nil {
		return fmt.Errorf("report.Render: stats cannot be nil")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "========= %s =========\n\n", p.Red.Sprint("Covid-19 Info"))

	fmt.Fprintf(&b, " Coronavirus cases => %s\n", stats.Cases)
	fmt.Fprintf(&b, " Death => %s\n", p.Red.Sprint(stats.Death))
	fmt.Fprintf(&b, " Recovered => %s\n\n", p.Green.Sprint(stats.Recovered))

	b.WriteString("========= Top Ten Countries =========\n\n")

	// 番号は位置で決まる (同名の国が並んでも重複しない)
	for i, country := range stats.TopCountries {
		fmt.Fprintf(&b, " #%d: %s\n", i+1, country)
	}

	b.WriteString("\n========= Hands | Face | Space =========\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("レポートの出力に失敗しました: %w", err)
	}
	return nil
}

// ConnectionErrorLine は通信失敗時に表示する1行を返します。
func ConnectionErrorLine(p Palette) string {
	return fmt.Sprintf("[%s] Connection error...\n", p.Red.Sprint("-"))
}

// ScrapeErrorLine は抽出失敗時に表示する1行を返します。
func ScrapeErrorLine(p Palette) string {
	return fmt.Sprintf("[%s] Web scraping error...\n", p.Red.Sprint("-"))
}
