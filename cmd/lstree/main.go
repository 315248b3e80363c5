// Package main はアプリケーションのエントリーポイントを提供します
package main

func main() {
	execute()
}
