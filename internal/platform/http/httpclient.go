// Package http はAPIクライアント向けのHTTPトランスポート設定を提供します。
package http

import (
	"net"
	"net/http"
	"time"
)

// DefaultTimeout はNewHTTPClientに0以下が渡された場合のリクエスト全体のタイムアウトです。
const DefaultTimeout = 15 * time.Second

// NewHTTPClient はkanbanサーバー呼び出し用のHTTPクライアントを作成します。
// CLIは単一サーバーへ逐次リクエストするだけなので、アイドル接続は少数に抑えます。
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	dialer := &net.Dialer{Timeout: 5 * time.Second}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         dialer.DialContext,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     30 * time.Second,
			TLSHandshakeTimeout: 5 * time.Second,
		},
	}
}
