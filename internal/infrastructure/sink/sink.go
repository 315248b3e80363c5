// Package sink は生成済みの木表示を出力先へ届けます
package sink

import (
	"context"
	"fmt"
	"io"
	"os"

	"LsTree/internal/infrastructure/logging"
)

// Sink は生成済みの文字列を1つの出力先へ届けます
type Sink interface {
	Deliver(ctx context.Context) error
}

// Options は出力先の選択条件です
type Options struct {
	// Output は追記先ファイル、または出力ファイルを作成するディレクトリです
	Output string
	// Print が true の場合は Writer に書き出します
	Print  bool
	Writer io.Writer
	// Addr は HTTP で配信する場合の待ち受けアドレスです
	Addr     string
	HTMLMode bool
	// Encoding はファイル・標準出力へ書き出す際の文字コードです。HTTP 配信では使いません
	Encoding string
	Logger   logging.Logger
}

// Select は Options に応じて Sink を選びます。
// 既存ファイルなら追記、既存ディレクトリなら新規ファイル、それ以外は HTTP で配信します。
func Select(opts Options, body string) (Sink, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	charset, err := LookupCharset(opts.Encoding)
	if err != nil {
		return nil, err
	}
	enc := charset.Encoding

	if opts.Print {
		w := opts.Writer
		if w == nil {
			w = os.Stdout
		}
		return &WriterSink{Writer: w, Body: body, Encoding: enc}, nil
	}

	if opts.Output != "" {
		info, err := os.Stat(opts.Output)
		switch {
		case err == nil && info.Mode().IsRegular():
			return &FileSink{Path: opts.Output, Body: body, Encoding: enc, Logger: logger}, nil
		case err == nil && info.IsDir():
			return &DirectorySink{Dir: opts.Output, Body: body, HTMLMode: opts.HTMLMode, Charset: charset, Logger: logger}, nil
		default:
			logger.Log(logging.LevelWarn, fmt.Sprintf("出力先 '%s' が既存のファイルではないため HTTP で配信します", opts.Output), err)
		}
	}

	if !charset.IsUTF8() {
		logger.Log(logging.LevelWarn, fmt.Sprintf("HTTP 配信は常に UTF-8 のため文字コード '%s' を無視します", charset.Name), nil)
	}
	return NewHTTPSink(opts.Addr, body, opts.HTMLMode, logger), nil
}
