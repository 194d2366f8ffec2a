package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/shouni/go-covid-stats/internal/config"
	"github.com/shouni/go-covid-stats/internal/pipeline"
	"github.com/shouni/go-covid-stats/pkg/client"
	"github.com/shouni/go-covid-stats/pkg/extract"
	"github.com/shouni/go-covid-stats/pkg/report"
)

// --- グローバル定数 ---

const (
	appName = "covid-stats"

	exitOK      = 0
	exitFailure = 1
)

// NewRootCmd は、指定されたフェッチャーを使うルートコマンドを生成します。
// 引数もフラグも受け付けません。
func NewRootCmd(fetcher extract.Fetcher) *cobra.Command {
	return &cobra.Command{
		Use:           appName,
		Short:         "COVID-19 の世界統計と上位の国を表示します",
		Long:          `worldometers のページを取得し、感染者数・死者数・回復者数と上位の国名を色付きで表示します。`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return pipeline.Run(
				context.Background(),
				fetcher,
				cmd.OutOrStdout(),
				cmd.ErrOrStderr(),
				report.DefaultPalette(),
			)
		},
	}
}

// exitCode はコマンドの実行結果をプロセスの終了コードに変換します。
func exitCode(err error) int {
	if err != nil {
		return exitFailure
	}
	return exitOK
}

// --- エントリポイント ---

// Execute は、設定とロガーを初期化してルートコマンドを実行し、終了コードを返します。
func Execute() int {
	cfg, loadErr := config.Load()
	if loadErr != nil {
		cfg = config.Config{LogLevel: config.DefaultLogLevel}
	}
	config.SetupLogging(cfg, os.Stderr)
	if loadErr != nil {
		log.Warn().Err(loadErr).Msg("環境変数の読み込みに失敗したため既定値を使用します")
	}

	err := NewRootCmd(client.New()).Execute()
	reportUnhandled(os.Stderr, err)
	return exitCode(err)
}

// reportUnhandled は、パイプラインが既に表示していないエラー (引数エラーなど) を表示します。
func reportUnhandled(w io.Writer, err error) {
	if err == nil || client.IsConnectionError(err) || extract.IsScrapeError(err) {
		return
	}
	fmt.Fprintln(w, "Error:", err)
}
