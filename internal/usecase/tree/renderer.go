// Package tree はディレクトリ構造の木表示を生成します
package tree

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"LsTree/internal/domain/model"
	"LsTree/internal/infrastructure/filesystem"
	"LsTree/internal/infrastructure/logging"
)

// DelimiterCatalog は種別タグを囲める区切り文字の一覧です。
// 中央を軸に対になる文字が鏡像の位置に並びます。
const DelimiterCatalog = `&<[({"''"})]>&`

var htmlEntities = map[rune]string{
	'<':  "&lt;",
	'>':  "&gt;",
	'&':  "&amp;",
	'"':  "&quot;",
	'\'': "&#039;",
}

// Renderer はディレクトリを走査して木表示の文字列を生成します。
// 並行利用には対応していません。
type Renderer struct {
	builder filesystem.TreeBuilder
	logger  logging.Logger
	style   model.RenderStyle
	result  string
}

// NewRenderer は既定スタイルの Renderer を作成します
func NewRenderer(builder filesystem.TreeBuilder, logger logging.Logger) *Renderer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Renderer{
		builder: builder,
		logger:  logger,
		style:   model.DefaultRenderStyle(),
	}
}

// Style は現在のスタイルを返します
func (r *Renderer) Style() model.RenderStyle {
	return r.style.Derive()
}

// Result は直近に成功した Ls の結果を返します
func (r *Renderer) Result() string {
	return r.result
}

func (r *Renderer) apply(s model.RenderStyle) bool {
	r.style = s.Derive()
	return true
}

// SetMode は "html" / "text" など先頭文字で出力モードを切り替えます
func (r *Renderer) SetMode(token string) bool {
	first, ok := firstRune(token)
	if !ok {
		return false
	}

	s := r.style
	switch unicode.ToLower(first) {
	case 'h':
		s.HTMLMode = true
		s.SpaceUnit = model.HTMLSpace
		s.Newline = model.HTMLNewline
	case 't':
		s.HTMLMode = false
		s.SpaceUnit = model.TextSpace
		s.Newline = model.TextNewline
	default:
		return false
	}
	return r.apply(s)
}

// SetLinkWidth は連結文字の繰り返し数を設定します。絶対値が 1 以下なら失敗します
func (r *Renderer) SetLinkWidth(n int) bool {
	if n < 0 {
		n = -n
	}
	if n <= 1 {
		return false
	}

	s := r.style
	s.LinkWidth = n
	return r.apply(s)
}

// ParseLinkWidth は文字列で与えられた繰り返し数を SetLinkWidth に渡します
func (r *Renderer) ParseLinkWidth(token string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(token))
	if err != nil {
		return false
	}
	return r.SetLinkWidth(n)
}

// SetLinkChar は連結文字を設定します。先頭の1文字のみ使います
func (r *Renderer) SetLinkChar(token string) bool {
	first, ok := firstRune(token)
	if !ok {
		return false
	}

	s := r.style
	s.LinkChar = string(first)
	return r.apply(s)
}

// SetDirMark はディレクトリの種別タグを設定します
func (r *Renderer) SetDirMark(mark string) bool {
	if mark == "" {
		return false
	}

	s := r.style
	s.DirMark = mark
	return r.apply(s)
}

// SetFileMark はファイルの種別タグを設定します
func (r *Renderer) SetFileMark(mark string) bool {
	if mark == "" {
		return false
	}

	s := r.style
	s.FileMark = mark
	return r.apply(s)
}

// SetDelimiterMark は種別タグの区切り文字を設定します。
// 左右どちらを渡しても対になる文字が選ばれます。
// HTML モードでは < > & " ' を実体参照に置き換えます。
func (r *Renderer) SetDelimiterMark(token string) bool {
	first, ok := firstRune(token)
	if !ok {
		return false
	}
	idx := strings.IndexRune(DelimiterCatalog, first)
	if idx == -1 {
		return false
	}

	s := r.style
	if entity, escaped := htmlEntities[first]; s.HTMLMode && escaped {
		switch first {
		case '<', '>':
			s.LeftDelimiter, s.RightDelimiter = htmlEntities['<'], htmlEntities['>']
		default:
			s.LeftDelimiter, s.RightDelimiter = entity, entity
		}
	} else {
		mirror := len(DelimiterCatalog) - idx - 1
		s.LeftDelimiter = string(DelimiterCatalog[min(idx, mirror)])
		s.RightDelimiter = string(DelimiterCatalog[max(idx, mirror)])
	}
	return r.apply(s)
}

// Ls は dir を走査し、絶対パスの見出しに続けて木表示を保持します。
// 失敗した場合、以前の結果はそのまま残ります。
func (r *Renderer) Ls(ctx context.Context, dir string) error {
	style := r.style.Derive()
	r.style = style

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", model.ErrInvalidRoot, dir, err)
	}

	entries, err := r.builder.BuildTree(ctx, dir)
	if err != nil {
		return fmt.Errorf("ツリーの構築に失敗しました: %w", err)
	}

	r.result = absDir + style.Newline + GenerateTree(style, entries, "")
	r.logger.Log(logging.LevelDebug, fmt.Sprintf("ツリーを生成しました: %s (%d バイト)", absDir, len(r.result)), nil)
	return nil
}

// GenerateTree はエントリ列を深さ優先で木表示の文字列にします。
// 各呼び出しは部分木の文字列を返すだけで、状態を持ちません。
func GenerateTree(style model.RenderStyle, entries []model.DirectoryEntry, prefix string) string {
	var b strings.Builder
	last := len(entries) - 1

	for i, entry := range entries {
		b.WriteString(prefix)
		b.WriteString(style.Ramification)
		b.WriteString(entry.Name)
		b.WriteString(style.Suffix(entry))
		b.WriteString(style.Newline)

		if entry.IsDir && len(entry.Children) > 0 {
			childPrefix := prefix + style.BranchChar + style.FillUnit
			if i == last {
				childPrefix = prefix + style.SpaceUnit + style.FillUnit
			}
			b.WriteString(GenerateTree(style, entry.Children, childPrefix))
		}

		if i == last {
			b.WriteString(prefix)
			b.WriteString(style.Newline)
		}
	}

	return b.String()
}

func firstRune(token string) (rune, bool) {
	if token == "" {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(token)
	return r, true
}
