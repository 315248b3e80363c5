package sink

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"LsTree/internal/infrastructure/logging"
)

const (
	DefaultAddr     = "localhost:5000"
	shutdownTimeout = 5 * time.Second
)

// WrapHTML は木表示を最小限の HTML で包みます。charset は本文を書き出す文字コードと一致させます
func WrapHTML(body, charset string) string {
	return strings.Join([]string{
		`<meta charset="` + charset + `"/>`,
		`<pre class="prettyprint">`,
		body,
		`</pre>`,
	}, "\n")
}

// HTTPSink は同じ本文をすべての GET リクエストに返します。
// リクエストごとの再描画は行いません。
type HTTPSink struct {
	Addr   string
	body   []byte
	ctype  string
	logger logging.Logger

	shutdownTimeout time.Duration
}

// NewHTTPSink は HTTPSink を作成します。HTML モードでは本文を HTML で包みます
func NewHTTPSink(addr, body string, htmlMode bool, logger logging.Logger) *HTTPSink {
	if addr == "" {
		addr = DefaultAddr
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &HTTPSink{
		Addr:   addr,
		ctype:  "text/plain; charset=utf-8",
		logger: logger,

		shutdownTimeout: shutdownTimeout,
	}
	if htmlMode {
		body = WrapHTML(body, UTF8)
		s.ctype = "text/html; charset=utf-8"
	}
	s.body = []byte(body)
	return s
}

// Handler は配信用の http.Handler を返します
func (s *HTTPSink) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Unsupported method", http.StatusNotImplemented)
			return
		}
		w.Header().Set("Content-Type", s.ctype)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(s.body); err != nil {
			s.logger.Log(logging.LevelWarn, "レスポンスの書き込みに失敗", err)
		}
	})
}

// Deliver は Addr で待ち受け、ctx がキャンセルされるまで配信を続けます
func (s *HTTPSink) Deliver(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("%s で待ち受けできません: %w", s.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve は ln で配信します。ln は Serve が閉じます
func (s *HTTPSink) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				s.logger.Log(logging.LevelWarn, "HTTP サーバーの停止に失敗", err)
			}
		case <-done:
		}
	}()
	defer func() {
		close(done)
		<-stopped
	}()

	s.logger.Log(logging.LevelInfo, fmt.Sprintf("Server Listening On %s", ln.Addr()), nil)
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP サーバーが停止しました: %w", err)
	}
	return nil
}
