// Package filesystem はファイルシステム操作を提供します
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"LsTree/internal/domain/model"
	"LsTree/internal/infrastructure/logging"
)

// DefaultMaxDepth は走査するディレクトリ階層の既定上限です
const DefaultMaxDepth = 512

// DirectoryValidator はディレクトリの検証機能を提供するインターフェースです
type DirectoryValidator interface {
	ValidateDirectoryPath(path string) error
}

// TreeBuilder はディレクトリ構造を DirectoryEntry の木として収集するインターフェースです
type TreeBuilder interface {
	DirectoryValidator
	BuildTree(ctx context.Context, rootDir string) ([]model.DirectoryEntry, error)
}

// Option は Scanner の設定を変更します
type Option func(*Scanner)

// WithMaxDepth は走査する階層の上限を設定します。0 以下は無制限です
func WithMaxDepth(depth int) Option {
	return func(s *Scanner) {
		s.maxDepth = depth
	}
}

// Scanner はファイルシステムを走査するための構造体です
type Scanner struct {
	logger   logging.Logger
	maxDepth int
}

// NewScanner は新しい Scanner インスタンスを作成します
func NewScanner(logger logging.Logger, opts ...Option) *Scanner {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &Scanner{
		logger:   logger,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateDirectoryPath はパスが存在するディレクトリであることを確認します
func (s *Scanner) ValidateDirectoryPath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: ディレクトリパスが指定されていません", model.ErrInvalidRoot)
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", model.ErrInvalidRoot, path, err)
	}

	if !fileInfo.IsDir() {
		return fmt.Errorf("%w: %s", model.ErrInvalidRoot, path)
	}

	return nil
}

// BuildTree は rootDir 直下の要素を再帰的に収集します。
// 並び順はディレクトリの読み取り順のままで、ソートは行いません。
func (s *Scanner) BuildTree(ctx context.Context, rootDir string) ([]model.DirectoryEntry, error) {
	if err := s.ValidateDirectoryPath(rootDir); err != nil {
		return nil, err
	}

	s.logger.Log(logging.LevelDebug, fmt.Sprintf("走査を開始: %s", rootDir), nil)
	return s.listDir(ctx, rootDir, 1)
}

func (s *Scanner) listDir(ctx context.Context, dir string, level int) ([]model.DirectoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("ディレクトリ '%s' を開けません: %w", dir, err)
	}
	// os.ReadDir は名前順にソートするため File.ReadDir を使う
	dirEntries, err := f.ReadDir(-1)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("ディレクトリ '%s' の読み込みに失敗しました: %w", dir, err)
	}

	entries := make([]model.DirectoryEntry, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		if name == "." || name == ".." {
			continue
		}
		path := filepath.Join(dir, name)

		entry := model.DirectoryEntry{
			Name:  name,
			IsDir: s.isDir(path, de),
		}

		if entry.IsDir {
			if s.maxDepth > 0 && level >= s.maxDepth {
				s.logger.Log(logging.LevelWarn, fmt.Sprintf("階層の上限 %d に達したため展開しません: %s", s.maxDepth, path), nil)
			} else {
				children, err := s.listDir(ctx, path, level+1)
				if err != nil {
					return nil, err
				}
				entry.Children = children
			}
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// isDir はシンボリックリンクを辿って種別を判定します
func (s *Scanner) isDir(path string, de fs.DirEntry) bool {
	if de.Type()&fs.ModeSymlink == 0 {
		return de.IsDir()
	}

	info, err := os.Stat(path)
	if err != nil {
		s.logger.Log(logging.LevelWarn, fmt.Sprintf("リンク先を解決できないためファイルとして扱います: %s", path), err)
		return false
	}
	return info.IsDir()
}
