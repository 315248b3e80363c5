// package model はドメインモデルを定義します
package model

import "errors"

// DirectoryEntry はツリー走査中のファイルまたはディレクトリ1件を表します
type DirectoryEntry struct {
	// Name はベース名を表します（フルパスではありません）
	Name string
	// IsDir はディレクトリであるかどうかを示します
	IsDir bool
	// Children はディレクトリ直下の要素を読み取り順に保持します
	Children []DirectoryEntry
}

// ErrInvalidRoot は走査対象のパスがディレクトリでないことを表します
var ErrInvalidRoot = errors.New("ディレクトリではありません")

// ErrInvalidConfiguration は描画設定の値が不正であることを表します
var ErrInvalidConfiguration = errors.New("描画設定が不正です")
