// Package config は描画設定と出力設定の読み込みを提供します
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"LsTree/internal/infrastructure/filesystem"
	"LsTree/internal/infrastructure/sink"
)

// DefaultEnvFile は既定で読み込む .env ファイルです
const DefaultEnvFile = ".env"

// 環境変数名
const (
	EnvMode      = "LSTREE_MODE"
	EnvLinkWidth = "LSTREE_LINK_WIDTH"
	EnvLinkChar  = "LSTREE_LINK_CHAR"
	EnvDirMark   = "LSTREE_DIR_MARK"
	EnvFileMark  = "LSTREE_FILE_MARK"
	EnvDelimiter = "LSTREE_DELIMITER"
	EnvAddr      = "LSTREE_ADDR"
	EnvEncoding  = "LSTREE_ENCODING"
	EnvMaxDepth  = "LSTREE_MAX_DEPTH"
)

// Config はツリー描画と出力に関する設定です。
// 空文字のスタイル項目は既定値のまま変更しないことを表します。
type Config struct {
	Mode      string
	LinkWidth string
	LinkChar  string
	DirMark   string
	FileMark  string
	Delimiter string

	Addr     string
	Encoding string
	MaxDepth int
}

// Default は既定の設定を返します
func Default() Config {
	return Config{
		Addr:     sink.DefaultAddr,
		Encoding: "utf-8",
		MaxDepth: filesystem.DefaultMaxDepth,
	}
}

// Load は envFile と環境変数から設定を読み込みます。
// 環境変数が .env の値より優先されます。envFile が存在しない場合は無視します。
func Load(envFile string) (Config, error) {
	cfg := Default()

	values := map[string]string{}
	if envFile != "" {
		read, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			values = read
		case errors.Is(err, fs.ErrNotExist):
		default:
			return cfg, fmt.Errorf("%s の読み込みに失敗しました: %w", envFile, err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}

	assign := map[string]*string{
		EnvMode:      &cfg.Mode,
		EnvLinkWidth: &cfg.LinkWidth,
		EnvLinkChar:  &cfg.LinkChar,
		EnvDirMark:   &cfg.DirMark,
		EnvFileMark:  &cfg.FileMark,
		EnvDelimiter: &cfg.Delimiter,
		EnvAddr:      &cfg.Addr,
		EnvEncoding:  &cfg.Encoding,
	}
	for key, dst := range assign {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup(EnvMaxDepth); ok && v != "" {
		depth, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s が数値ではありません: %w", EnvMaxDepth, err)
		}
		cfg.MaxDepth = depth
	}

	return cfg, nil
}

// StyleSetter は描画スタイルの設定操作です
type StyleSetter interface {
	SetMode(token string) bool
	ParseLinkWidth(token string) bool
	SetLinkChar(token string) bool
	SetDirMark(mark string) bool
	SetFileMark(mark string) bool
	SetDelimiterMark(token string) bool
}

// Apply はスタイル項目を順に適用し、受け付けられなかった項目名を返します。
// 区切り文字の実体参照化は適用時のモードに依存するため、モードを最初に設定します。
func (c Config) Apply(r StyleSetter) []string {
	steps := []struct {
		name  string
		value string
		set   func(string) bool
	}{
		{"mode", c.Mode, r.SetMode},
		{"link-width", c.LinkWidth, r.ParseLinkWidth},
		{"link-char", c.LinkChar, r.SetLinkChar},
		{"dir-mark", c.DirMark, r.SetDirMark},
		{"file-mark", c.FileMark, r.SetFileMark},
		{"delimiter", c.Delimiter, r.SetDelimiterMark},
	}

	var rejected []string
	for _, step := range steps {
		if step.value == "" {
			continue
		}
		if !step.set(step.value) {
			rejected = append(rejected, step.name)
		}
	}
	return rejected
}
