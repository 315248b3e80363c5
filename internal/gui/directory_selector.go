// Package gui はGUIを提供します
package gui

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
)

// Default window size constants
const (
	DefaultWindowWidth  = 800
	DefaultWindowHeight = 600
)

// DirectoryValidator は、ディレクトリパスの検証を行うインターフェース
type DirectoryValidator interface {
	ValidateDirectoryPath(path string) error
}

// DirectorySelector は、Fyneを使用して走査対象のディレクトリを選択する構造体
type DirectorySelector struct {
	validator DirectoryValidator
}

// NewDirectorySelector は、DirectorySelectorの新しいインスタンスを作成します
func NewDirectorySelector(validator DirectoryValidator) *DirectorySelector {
	return &DirectorySelector{
		validator: validator,
	}
}

// SelectDirectory は、Fyneダイアログを使用してディレクトリを選択し、
// 選択されたパスまたはエラーを返します
func (s *DirectorySelector) SelectDirectory(title string) (string, error) {
	a := app.New()
	w := a.NewWindow(title)
	w.Resize(fyne.NewSize(DefaultWindowWidth, DefaultWindowHeight))

	var (
		path      string
		resultErr error
	)
	finish := func() {
		w.Close()
		a.Quit()
	}

	d := dialog.NewFolderOpen(func(selectedURI fyne.ListableURI, err error) {
		defer finish()
		path, resultErr = s.accept(selectedURI, err)
	}, w)
	d.Show()
	w.Show()

	// ダイアログを介さずウィンドウが閉じられた場合もキャンセルとして扱う
	a.Run()
	return selectionResult(path, resultErr)
}

// errCanceled はフォルダが選択されなかったことを表します
var errCanceled = errors.New("ユーザーがキャンセルしました")

// selectionResult はイベントループ終了後の結果を確定します
func selectionResult(path string, err error) (string, error) {
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", errCanceled
	}
	return path, nil
}

// accept はダイアログの結果を検証します
func (s *DirectorySelector) accept(selectedURI fyne.ListableURI, err error) (string, error) {
	if err != nil {
		return "", fmt.Errorf("フォルダ選択エラー: %w", err)
	}
	if selectedURI == nil {
		return "", errCanceled
	}
	path := selectedURI.Path()
	if err := s.validator.ValidateDirectoryPath(path); err != nil {
		return "", fmt.Errorf("パス検証エラー: %w", err)
	}
	return path, nil
}
