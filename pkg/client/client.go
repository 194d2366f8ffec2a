package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"
)

// ----------------------------------------------------------------------
// インターフェースとエラー
// ----------------------------------------------------------------------

// Doer は、標準の *http.Client.Do() と互換性のあるHTTPクライアントのインターフェースを定義します。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ConnectionError は、通信レベルの失敗 (DNS、接続拒否、TLS、タイムアウト、ボディ読み込み) を示します。
// HTTPステータスコードはこのエラーの対象外です。
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("接続エラー (URL: %s): %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsConnectionError は与えられたエラーが ConnectionError を含むかどうかを判断します。
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var connErr *ConnectionError
	return errors.As(err, &connErr)
}

// ----------------------------------------------------------------------
// 設定とコンストラクタ
// ----------------------------------------------------------------------

// Client は、一度きりの GET リクエストを実行するフェッチャーです。
// タイムアウトもリトライも持ちません。
type Client struct {
	httpClient Doer
	userAgent  string
}

// Option は Client の設定を行うための関数型です。
type Option func(*Client)

// WithHTTPClient はカスタムの Doer を設定します。
func WithHTTPClient(doer Doer) Option {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithUserAgent は User-Agent ヘッダーを明示的に設定します。
// 指定しない場合は net/http のデフォルト (Go-http-client/x.x) が送信されます。
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New は新しい Client を初期化します。
// デフォルトの Doer は標準トランスポートを使う &http.Client{} で、独自ヘッダーは付与しません。
func New(options ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// ----------------------------------------------------------------------
// フェッチ処理
// ----------------------------------------------------------------------

// FetchBytes は URL に GET リクエストを一度だけ送り、UTF-8 に変換したレスポンスボディを返します。
// ステータスコードは検査しません。通信が成功していれば 4xx/5xx のボディもそのまま返します。
func (c *Client) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &ConnectionError{URL: url, Err: fmt.Errorf("GETリクエスト作成に失敗しました: %w", err)}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	log.Debug().Str("url", url).Msg("GETリクエストを送信します")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ConnectionError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return nil, &ConnectionError{URL: url, Err: err}
	}

	log.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Msg("レスポンスを受信しました")

	return body, nil
}

// readBody は Content-Type の charset に従ってボディを UTF-8 として読み込みます。
// 呼び出し元が resp.Body.Close() を実行する必要があります。
func readBody(resp *http.Response) ([]byte, error) {
	// 判定できない charset は windows-1252 として扱われる (ASCII 部分は不変)
	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの先読みに失敗しました: %w", err)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み込みに失敗しました: %w", err)
	}
	return body, nil
}
