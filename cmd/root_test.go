package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-covid-stats/pkg/client"
	"github.com/shouni/go-covid-stats/pkg/extract"
)

// serverFetcher は対象URLを無視して httptest サーバーへリクエストを転送します。
type serverFetcher struct {
	url    string
	client *client.Client
}

func (f *serverFetcher) FetchBytes(ctx context.Context, _ string) ([]byte, error) {
	return f.client.FetchBytes(ctx, f.url)
}

func newServerFetcher(url string) *serverFetcher {
	return &serverFetcher{url: url, client: client.New()}
}

func page(countries ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><span>0</span><span>1</span><span>2</span><span>3</span>`)
	b.WriteString(`<span>38,406,711</span><span>1,091,593</span><span>28,875,950</span>`)
	for _, c := range countries {
		fmt.Fprintf(&b, `<a class="mt_a" href="#">%s</a>`, c)
	}
	b.WriteString(`</body></html>`)
	return b.String()
}

func runCmd(t *testing.T, fetcher extract.Fetcher, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd(fetcher)
	root.SetOut(&out)
	root.SetErr(&errOut)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), exitCode(err)
}

func TestRootCmd_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page("USA", "India", "Brazil", "France", "Spain", "UK", "Argentina", "Colombia", "Russia"))
	}))
	defer server.Close()

	stdout, stderr, code := runCmd(t, newServerFetcher(server.URL))
	assert.Equal(t, exitOK, code)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, " Coronavirus cases => 38,406,711\n")
	assert.Contains(t, stdout, "\x1b[1;31m1,091,593")
	assert.Contains(t, stdout, "\x1b[1;32m28,875,950")
	assert.Contains(t, stdout, " #1: USA\n")
	assert.Contains(t, stdout, " #9: Russia\n")
	assert.True(t, strings.HasSuffix(stdout, "========= Hands | Face | Space =========\n"))
}

func TestRootCmd_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	stdout, stderr, code := runCmd(t, newServerFetcher(addr))
	assert.Equal(t, exitFailure, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Connection error...")
}

func TestRootCmd_ScrapeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><span>redesigned</span></body></html>`)
	}))
	defer server.Close()

	stdout, stderr, code := runCmd(t, newServerFetcher(server.URL))
	assert.Equal(t, exitFailure, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Web scraping error...")
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	_, _, code := runCmd(t, newServerFetcher("http://127.0.0.1:0"), "extra")
	assert.Equal(t, exitFailure, code)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 1, exitCode(&client.ConnectionError{URL: "u", Err: errors.New("x")}))
	assert.Equal(t, 1, exitCode(&extract.ScrapeError{Reason: "r"}))
}

func TestReportUnhandled(t *testing.T) {
	t.Run("handled errors are silent", func(t *testing.T) {
		var buf bytes.Buffer
		reportUnhandled(&buf, nil)
		reportUnhandled(&buf, &client.ConnectionError{URL: "u", Err: errors.New("x")})
		reportUnhandled(&buf, &extract.ScrapeError{Reason: "r"})
		assert.Empty(t, buf.String())
	})

	t.Run("other errors are printed", func(t *testing.T) {
		var buf bytes.Buffer
		reportUnhandled(&buf, errors.New(`unknown command "extra"`))
		require.NotEmpty(t, buf.String())
		assert.Contains(t, buf.String(), "extra")
	})
}
