package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/shouni/go-covid-stats/pkg/types"
)

// ----------------------------------------------------------------------
// 定数定義 (解析関連のみ)
// ----------------------------------------------------------------------
const (
	// StatSelector は統計値を保持するタグです。
	StatSelector = "span"
	// CountryLinkSelector は国名リンクを表すセレクターです。
	CountryLinkSelector = "a.mt_a"

	CasesIndex     = 4
	DeathIndex     = 5
	RecoveredIndex = 6

	// MinStatSpans は抽出に必要な span の最小数です。
	MinStatSpans = RecoveredIndex + 1
	// MaxTopCountries は国名リストの上限です。見出しは "Top Ten" だが 9 件に制限される。
	MaxTopCountries = 9
)

// ScrapeError は、HTML の構造が想定と異なり抽出できなかったことを示します。
type ScrapeError struct {
	Reason string
	Err    error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("スクレイピングエラー: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("スクレイピングエラー: %s", e.Reason)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// IsScrapeError は与えられたエラーが ScrapeError を含むかどうかを判断します。
func IsScrapeError(err error) bool {
	if err == nil {
		return false
	}

	var scrapeErr *ScrapeError
	return errors.As(err, &scrapeErr)
}

// Extractor は、Fetcher を使って統計値の抽出プロセスを管理します。
type Extractor struct {
	fetcher Fetcher
}

// NewExtractor は、新しいExtractorのインスタンスを生成します。
func NewExtractor(fetcher Fetcher) (*Extractor, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("extract.NewExtractor: Fetcher cannot be nil")
	}
	return &Extractor{
		fetcher: fetcher,
	}, nil
}

// ----------------------------------------------------------------------
// メイン関数
// ----------------------------------------------------------------------

// FetchAndExtractStats は指定されたURLからHTMLを取得し、統計値を抽出します。
// Fetcher のエラーはラップせずにそのまま返します。
func (e *Extractor) FetchAndExtractStats(ctx context.Context, url string) (*types.Stats, error) {
	// 1. Fetcherから生のバイト配列を取得 (通信の責務)
	htmlBytes, err := e.fetcher.FetchBytes(ctx, url)
	if err != nil {
		return nil, err
	}

	// 2. 解析の責務
	return ParseStats(htmlBytes)
}

// ParseStats は HTML から統計値と国名リストを位置指定で抽出します。
//
// 前提条件: span 要素が MinStatSpans 個以上存在すること。満たさない場合は *ScrapeError を返します。
// 国名リンクは 0 件でもエラーにはならず、先頭から最大 MaxTopCountries 件を採用します。
// 要素の並びが変わっても検出はできず、誤った値をそのまま返します。
func ParseStats(html []byte) (stats *types.Stats, err error) {
	defer func() {
		if r := recover(); r != nil {
			stats = nil
			err = &ScrapeError{Reason: fmt.Sprintf("要素の選択中に予期しない失敗が発生しました: %v", r)}
		}
	}()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, &ScrapeError{Reason: "HTML解析に失敗しました", Err: err}
	}

	spans := doc.Find(StatSelector)
	links := doc.Find(CountryLinkSelector)

	log.Debug().
		Int("spans", spans.Length()).
		Int("country_links", links.Length()).
		Msg("HTMLを解析しました")

	if spans.Length() < MinStatSpans {
		return nil, &ScrapeError{
			Reason: fmt.Sprintf("%s 要素が不足しています (必要: %d, 検出: %d)", StatSelector, MinStatSpans, spans.Length()),
		}
	}

	stats = &types.Stats{
		Cases:        spans.Eq(CasesIndex).Text(),
		Death:        spans.Eq(DeathIndex).Text(),
		Recovered:    spans.Eq(RecoveredIndex).Text(),
		TopCountries: make([]string, 0, MaxTopCountries),
	}

	links.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= MaxTopCountries {
			return false
		}
		stats.TopCountries = append(stats.TopCountries, s.Text())
		return true
	})

	return stats, nil
}
