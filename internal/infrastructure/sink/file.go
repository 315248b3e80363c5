package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/encoding"

	"LsTree/internal/infrastructure/logging"
)

const (
	OutputFilePrefix = "lstree_"
	TimestampLayout  = "20060102_150405"
)

// FileSink は既存ファイルの末尾に追記します
type FileSink struct {
	Path     string
	Body     string
	Encoding encoding.Encoding
	Logger   logging.Logger
}

// Deliver は Body を Path に追記します
func (s *FileSink) Deliver(ctx context.Context) error {
	data, err := encode(s.Encoding, s.Body)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(s.Path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("出力ファイルを開けません: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("出力ファイルへの追記に失敗しました: %w", err)
	}
	if s.Logger != nil {
		s.Logger.Log(logging.LevelInfo, fmt.Sprintf("ツリーを追記しました: %s", s.Path), nil)
	}
	return nil
}

// DirectorySink はディレクトリ内にタイムスタンプ付きの出力ファイルを作成します
type DirectorySink struct {
	Dir      string
	Body     string
	HTMLMode bool
	// Charset は書き込む文字コードです。HTML の charset 宣言にも使います
	Charset Charset
	Logger  logging.Logger

	now func() time.Time
}

// OutputPath は作成する出力ファイルのパスを返します
func (s *DirectorySink) OutputPath() string {
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	ext := ".txt"
	if s.HTMLMode {
		ext = ".html"
	}
	return filepath.Join(s.Dir, OutputFilePrefix+now().Format(TimestampLayout)+ext)
}

// Deliver は出力ファイルを作成して書き込みます
func (s *DirectorySink) Deliver(ctx context.Context) error {
	body := s.Body
	if s.HTMLMode {
		body = WrapHTML(body, s.Charset.charsetName())
	}
	data, err := encode(s.Charset.Encoding, body)
	if err != nil {
		return err
	}

	outputPath := s.OutputPath()
	f, err := os.OpenFile(outputPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("出力ファイルの作成に失敗しました: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("出力ファイルへの書き込みに失敗しました: %w", err)
	}
	if s.Logger != nil {
		s.Logger.Log(logging.LevelInfo, fmt.Sprintf("ツリーを出力しました: %s", outputPath), nil)
	}
	return nil
}

// WriterSink は io.Writer に書き出します
type WriterSink struct {
	Writer   io.Writer
	Body     string
	Encoding encoding.Encoding
}

// Deliver は Body を Writer に書き出します
func (s *WriterSink) Deliver(ctx context.Context) error {
	data, err := encode(s.Encoding, s.Body)
	if err != nil {
		return err
	}
	if _, err := s.Writer.Write(data); err != nil {
		return fmt.Errorf("出力に失敗しました: %w", err)
	}
	return nil
}
