package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/shouni/go-covid-stats/pkg/client"
	"github.com/shouni/go-covid-stats/pkg/extract"
	"github.com/shouni/go-covid-stats/pkg/report"
)

// TargetURL は統計値の取得元です。
const TargetURL = "https://www.worldometers.info/coronavirus/"

// Run は取得・抽出・表示を一度だけ実行するメインの処理パイプラインです。
// 失敗時は errOut に赤色のエラー行を書き込み、原因のエラーを返します。
// ConnectionError 以外のフェッチャーエラーは ConnectionError に包み直しますが、
// その URL は常に TargetURL です (フェッチャーが実際に別の URL を取得していても同じ)。
func Run(ctx context.Context, fetcher extract.Fetcher, out, errOut io.Writer, palette report.Palette) error {
	// 1. Extractor を初期化 (DI)
	extractor, err := extract.NewExtractor(fetcher)
	if err != nil {
		return fmt.Errorf("Extractorの初期化エラー: %w", err)
	}

	// 2. 取得と抽出の実行
	stats, err := extractor.FetchAndExtractStats(ctx, TargetURL)
	switch {
	case client.IsConnectionError(err):
		log.Debug().Err(err).Msg("ページの取得に失敗しました")
		fmt.Fprint(errOut, report.ConnectionErrorLine(palette))
		return err
	case extract.IsScrapeError(err):
		log.Debug().Err(err).Msg("統計値の抽出に失敗しました")
		fmt.Fprint(errOut, report.ScrapeErrorLine(palette))
		return err
	case err != nil:
		// 想定外のフェッチャー実装からのエラーも通信失敗として扱う
		log.Debug().Err(err).Msg("ページの取得に失敗しました")
		fmt.Fprint(errOut, report.ConnectionErrorLine(palette))
		return &client.ConnectionError{URL: TargetURL, Err: err}
	}

	// 3. 結果の出力
	return report.Render(out, stats, palette)
}
