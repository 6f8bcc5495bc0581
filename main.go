package main

import (
	"github.com/shouni/thumbnail-architect/cmd"
)

// main はアプリケーションのエントリーポイントです。
// コマンドライン引数の解析と実行は cmd パッケージに委ねます。
func main() {
	cmd.Execute()
}
