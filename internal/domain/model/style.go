package model

import "strings"

// HTML モードとテキストモードの改行・空白
const (
	HTMLNewline  = "<br/>"
	HTMLSpace    = "&nbsp;"
	TextNewline  = "\n"
	TextSpace    = " "
	DefaultWidth = 4
)

// RenderStyle はツリー描画の装飾設定です。
// 派生フィールドは Derive で再計算されるまで生フィールドと一致しない場合があります。
type RenderStyle struct {
	HTMLMode       bool
	Newline        string
	SpaceUnit      string
	BranchChar     string
	LinkChar       string
	LinkWidth      int
	DirMark        string
	FileMark       string
	LeftDelimiter  string
	RightDelimiter string

	// 以下は Derive が生成します
	Ramification string
	FillUnit     string
	FileSuffix   string
	DirSuffix    string
}

// DefaultRenderStyle は HTML モードの既定スタイルを返します
func DefaultRenderStyle() RenderStyle {
	return RenderStyle{
		HTMLMode:       true,
		Newline:        HTMLNewline,
		SpaceUnit:      HTMLSpace,
		BranchChar:     "|",
		LinkChar:       "-",
		LinkWidth:      DefaultWidth,
		DirMark:        "d",
		FileMark:       "f",
		LeftDelimiter:  "(",
		RightDelimiter: ")",
	}.Derive()
}

// Derive は生フィールドから派生フィールドを計算した新しいスタイルを返します
func (s RenderStyle) Derive() RenderStyle {
	s.Ramification = s.BranchChar + strings.Repeat(s.LinkChar, s.LinkWidth)
	s.FillUnit = strings.Repeat(s.SpaceUnit, s.LinkWidth)
	s.FileSuffix = s.LeftDelimiter + s.FileMark + s.RightDelimiter
	s.DirSuffix = s.LeftDelimiter + s.DirMark + s.RightDelimiter
	return s
}

// Suffix はエントリ種別に応じた種別タグを返します
func (s RenderStyle) Suffix(entry DirectoryEntry) string {
	if entry.IsDir {
		return s.DirSuffix
	}
	return s.FileSuffix
}
