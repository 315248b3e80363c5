package sink

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
)

// UTF8 は変換を行わない既定の文字コードです
const UTF8 = "utf-8"

// Charset は出力時の文字コードです。Name は HTML の charset 宣言に使う名前です
type Charset struct {
	Name     string
	Encoding encoding.Encoding
}

var charsets = map[string]Charset{
	"":             {Name: UTF8},
	"utf-8":        {Name: UTF8},
	"utf8":         {Name: UTF8},
	"windows-1252": {Name: "windows-1252", Encoding: charmap.Windows1252},
	"cp1252":       {Name: "windows-1252", Encoding: charmap.Windows1252},
	"iso-8859-1":   {Name: "iso-8859-1", Encoding: charmap.ISO8859_1},
	"latin1":       {Name: "iso-8859-1", Encoding: charmap.ISO8859_1},
	"shift_jis":    {Name: "shift_jis", Encoding: japanese.ShiftJIS},
	"shift-jis":    {Name: "shift_jis", Encoding: japanese.ShiftJIS},
	"sjis":         {Name: "shift_jis", Encoding: japanese.ShiftJIS},
	"cp932":        {Name: "shift_jis", Encoding: japanese.ShiftJIS},
}

// LookupCharset は文字コード名から Charset を返します
func LookupCharset(name string) (Charset, error) {
	c, ok := charsets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Charset{}, fmt.Errorf("未対応の文字コードです: %s", name)
	}
	return c, nil
}

// LookupEncoding は文字コード名から encoding.Encoding を返します。
// UTF-8 の場合は nil を返し、変換を行いません。
func LookupEncoding(name string) (encoding.Encoding, error) {
	c, err := LookupCharset(name)
	return c.Encoding, err
}

// IsUTF8 は変換が不要な文字コードかどうかを返します
func (c Charset) IsUTF8() bool {
	return c.Encoding == nil
}

// charsetName は宣言用の名前を返します。空の場合は UTF-8 です
func (c Charset) charsetName() string {
	if c.Name == "" {
		return UTF8
	}
	return c.Name
}

// encode は body を enc で変換します。表現できない文字は置換文字になります
func encode(enc encoding.Encoding, body string) ([]byte, error) {
	if enc == nil {
		return []byte(body), nil
	}
	out, err := encoding.ReplaceUnsupported(enc.NewEncoder()).String(body)
	if err != nil {
		return nil, fmt.Errorf("文字コードの変換に失敗しました: %w", err)
	}
	return []byte(out), nil
}
