package tree

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LsTree/internal/domain/model"
	"LsTree/internal/infrastructure/filesystem"
)

// fixedBuilder は読み取り順を固定したエントリを返します
type fixedBuilder struct {
	entries []model.DirectoryEntry
	err     error
	calls   int
}

func (f *fixedBuilder) ValidateDirectoryPath(string) error { return f.err }

func (f *fixedBuilder) BuildTree(context.Context, string) ([]model.DirectoryEntry, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func file(name string) model.DirectoryEntry { return model.DirectoryEntry{Name: name} }

func dir(name string, children ...model.DirectoryEntry) model.DirectoryEntry {
	return model.DirectoryEntry{Name: name, IsDir: true, Children: children}
}

const nbsp4 = "&nbsp;&nbsp;&nbsp;&nbsp;"

func TestGenerateTree(t *testing.T) {
	html := model.DefaultRenderStyle()
	text := html
	text.HTMLMode, text.SpaceUnit, text.Newline = false, model.TextSpace, model.TextNewline
	text = text.Derive()

	tests := []struct {
		name    string
		style   model.RenderStyle
		entries []model.DirectoryEntry
		want    string
	}{
		{
			name:  "空のディレクトリ",
			style: html,
			want:  "",
		},
		{
			name:    "ファイル1件",
			style:   html,
			entries: []model.DirectoryEntry{file("a.txt")},
			want:    "|----a.txt(f)<br/><br/>",
		},
		{
			name:    "兄弟ファイル2件は最後の後だけ閉じる",
			style:   html,
			entries: []model.DirectoryEntry{file("a"), file("b")},
			want:    "|----a(f)<br/>|----b(f)<br/><br/>",
		},
		{
			name:    "最後のサブディレクトリは空白で字下げ",
			style:   html,
			entries: []model.DirectoryEntry{dir("sub", file("x"))},
			want: "|----sub(d)<br/>" +
				"&nbsp;" + nbsp4 + "|----x(f)<br/>" +
				"&nbsp;" + nbsp4 + "<br/>" +
				"<br/>",
		},
		{
			name:    "兄弟が続くサブディレクトリは枝線で字下げ",
			style:   html,
			entries: []model.DirectoryEntry{dir("sub", file("x")), file("z")},
			want: "|----sub(d)<br/>" +
				"|" + nbsp4 + "|----x(f)<br/>" +
				"|" + nbsp4 + "<br/>" +
				"|----z(f)<br/>" +
				"<br/>",
		},
		{
			name:    "空のディレクトリは1行のみ",
			style:   html,
			entries: []model.DirectoryEntry{dir("empty"), file("a")},
			want:    "|----empty(d)<br/>|----a(f)<br/><br/>",
		},
		{
			name:    "テキストモード",
			style:   text,
			entries: []model.DirectoryEntry{file("a.txt")},
			want:    "|----a.txt(f)\n\n",
		},
		{
			name:  "テキストモードの入れ子",
			style: text,
			entries: []model.DirectoryEntry{
				dir("a", dir("b", file("c"))),
				file("d"),
			},
			want: "|----a(d)\n" +
				"|    |----b(d)\n" +
				"|         |----c(f)\n" +
				"|         \n" +
				"|    \n" +
				"|----d(f)\n" +
				"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateTree(tt.style, tt.entries, ""))
		})
	}
}

func TestGenerateTree_Prefix(t *testing.T) {
	got := GenerateTree(model.DefaultRenderStyle(), []model.DirectoryEntry{file("a")}, "P")
	assert.Equal(t, "P|----a(f)<br/>P<br/>", got)
}

func TestRenderer_SetMode(t *testing.T) {
	tests := []struct {
		token    string
		want     bool
		wantHTML bool
	}{
		{token: "", want: false, wantHTML: true},
		{token: "text", want: true, wantHTML: false},
		{token: "TEXT", want: true, wantHTML: false},
		{token: "Html", want: true, wantHTML: true},
		{token: "xml", want: false, wantHTML: true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			r := NewRenderer(&fixedBuilder{}, nil)
			assert.Equal(t, tt.want, r.SetMode(tt.token))
			assert.Equal(t, tt.wantHTML, r.Style().HTMLMode)
		})
	}

	r := NewRenderer(&fixedBuilder{}, nil)
	require.True(t, r.SetMode("t"))
	assert.Equal(t, "\n", r.Style().Newline)
	assert.Equal(t, "    ", r.Style().FillUnit)

	// 認識できない値は現在のモードを変えない
	assert.False(t, r.SetMode("q"))
	assert.False(t, r.Style().HTMLMode)
}

func TestRenderer_SetLinkWidth(t *testing.T) {
	r := NewRenderer(&fixedBuilder{}, nil)

	assert.False(t, r.SetLinkWidth(0))
	assert.False(t, r.SetLinkWidth(-1))
	assert.False(t, r.SetLinkWidth(1))
	assert.Equal(t, 4, r.Style().LinkWidth)

	require.True(t, r.SetLinkWidth(3))
	assert.Equal(t, 3, r.Style().LinkWidth)
	assert.Equal(t, "|---", r.Style().Ramification)

	require.True(t, r.SetLinkWidth(-6))
	assert.Equal(t, 6, r.Style().LinkWidth)
}

func TestRenderer_ParseLinkWidth(t *testing.T) {
	r := NewRenderer(&fixedBuilder{}, nil)

	assert.False(t, r.ParseLinkWidth(""))
	assert.False(t, r.ParseLinkWidth("abc"))
	assert.False(t, r.ParseLinkWidth("0"))
	assert.True(t, r.ParseLinkWidth(" 2 "))
	assert.Equal(t, "|--", r.Style().Ramification)
}

func TestRenderer_SetLinkChar(t *testing.T) {
	r := NewRenderer(&fixedBuilder{}, nil)

	assert.False(t, r.SetLinkChar(""))
	assert.Equal(t, "-", r.Style().LinkChar)

	require.True(t, r.SetLinkChar("=+"))
	assert.Equal(t, "=", r.Style().LinkChar)
	assert.Equal(t, "|====", r.Style().Ramification)

	require.True(t, r.SetLinkChar("─x"))
	assert.Equal(t, "|────", r.Style().Ramification)
}

func TestRenderer_SetMarks(t *testing.T) {
	r := NewRenderer(&fixedBuilder{}, nil)

	assert.False(t, r.SetDirMark(""))
	assert.False(t, r.SetFileMark(""))
	assert.Equal(t, "(d)", r.Style().DirSuffix)
	assert.Equal(t, "(f)", r.Style().FileSuffix)

	assert.True(t, r.SetDirMark("dir"))
	assert.True(t, r.SetFileMark("file"))
	assert.Equal(t, "(dir)", r.Style().DirSuffix)
	assert.Equal(t, "(file)", r.Style().FileSuffix)
}

func TestRenderer_SetDelimiterMark(t *testing.T) {
	tests := []struct {
		name      string
		mode      string
		token     string
		want      bool
		wantLeft  string
		wantRight string
	}{
		{name: "空", mode: "html", token: "", want: false, wantLeft: "(", wantRight: ")"},
		{name: "一覧にない文字", mode: "html", token: "*", want: false, wantLeft: "(", wantRight: ")"},
		{name: "HTMLの山括弧", mode: "html", token: "<", want: true, wantLeft: "&lt;", wantRight: "&gt;"},
		{name: "HTMLの閉じ山括弧", mode: "html", token: ">", want: true, wantLeft: "&lt;", wantRight: "&gt;"},
		{name: "HTMLのアンパサンド", mode: "html", token: "&", want: true, wantLeft: "&amp;", wantRight: "&amp;"},
		{name: "HTMLの二重引用符", mode: "html", token: `"`, want: true, wantLeft: "&quot;", wantRight: "&quot;"},
		{name: "HTMLの一重引用符", mode: "html", token: "'", want: true, wantLeft: "&#039;", wantRight: "&#039;"},
		{name: "角括弧", mode: "html", token: "[", want: true, wantLeft: "[", wantRight: "]"},
		{name: "閉じ角括弧", mode: "html", token: "]x", want: true, wantLeft: "[", wantRight: "]"},
		{name: "波括弧", mode: "text", token: "}", want: true, wantLeft: "{", wantRight: "}"},
		{name: "テキストの山括弧", mode: "text", token: ">", want: true, wantLeft: "<", wantRight: ">"},
		{name: "テキストの引用符", mode: "text", token: "'", want: true, wantLeft: "'", wantRight: "'"},
		{name: "テキストの二重引用符", mode: "text", token: `"`, want: true, wantLeft: `"`, wantRight: `"`},
		{name: "テキストのアンパサンド", mode: "text", token: "&", want: true, wantLeft: "&", wantRight: "&"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRenderer(&fixedBuilder{}, nil)
			require.True(t, r.SetMode(tt.mode))

			assert.Equal(t, tt.want, r.SetDelimiterMark(tt.token))
			s := r.Style()
			assert.Equal(t, tt.wantLeft, s.LeftDelimiter)
			assert.Equal(t, tt.wantRight, s.RightDelimiter)
			assert.Equal(t, tt.wantLeft+"f"+tt.wantRight, s.FileSuffix)
		})
	}
}

func TestRenderer_Ls(t *testing.T) {
	root := t.TempDir()
	builder := &fixedBuilder{entries: []model.DirectoryEntry{file("a.txt")}}
	r := NewRenderer(builder, nil)

	require.NoError(t, r.Ls(context.Background(), root))

	abs, err := filepath.Abs(root)
	require.NoError(t, err)
	assert.Equal(t, abs+"<br/>|----a.txt(f)<br/><br/>", r.Result())
}

func TestRenderer_Ls_TextMode(t *testing.T) {
	root := t.TempDir()
	r := NewRenderer(&fixedBuilder{entries: []model.DirectoryEntry{file("a.txt")}}, nil)
	require.True(t, r.SetMode("text"))

	require.NoError(t, r.Ls(context.Background(), root))
	assert.True(t, strings.HasSuffix(r.Result(), "\n|----a.txt(f)\n\n"))
}

func TestRenderer_Ls_Filesystem(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "x"), nil, 0644))

	r := NewRenderer(filesystem.NewScanner(nil), nil)
	require.True(t, r.SetMode("text"))
	require.NoError(t, r.Ls(context.Background(), root))

	abs, err := filepath.Abs(root)
	require.NoError(t, err)
	want := abs + "\n" +
		"|----sub(d)\n" +
		"     |----x(f)\n" +
		"     \n" +
		"\n"
	assert.Equal(t, want, r.Result())
}

func TestRenderer_Ls_InvalidRootKeepsResult(t *testing.T) {
	root := t.TempDir()
	plain := filepath.Join(root, "plain.txt")
	require.NoError(t, os.WriteFile(plain, nil, 0644))

	r := NewRenderer(filesystem.NewScanner(nil), nil)
	require.NoError(t, r.Ls(context.Background(), root))
	before := r.Result()
	require.NotEmpty(t, before)

	err := r.Ls(context.Background(), plain)
	assert.ErrorIs(t, err, model.ErrInvalidRoot)
	assert.Equal(t, before, r.Result())
}

func TestRenderer_Ls_BuilderError(t *testing.T) {
	ioErr := errors.New("読み込み失敗")
	r := NewRenderer(&fixedBuilder{err: ioErr}, nil)

	err := r.Ls(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ioErr)
	assert.Empty(t, r.Result())
}

func TestRenderer_Ls_UsesStyleAtCallTime(t *testing.T) {
	root := t.TempDir()
	r := NewRenderer(&fixedBuilder{entries: []model.DirectoryEntry{file("a")}}, nil)
	require.True(t, r.SetMode("text"))
	require.True(t, r.SetLinkWidth(2))
	require.True(t, r.SetDelimiterMark("["))

	require.NoError(t, r.Ls(context.Background(), root))
	assert.True(t, strings.HasSuffix(r.Result(), "|--a[f]\n\n"))
}
