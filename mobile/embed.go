//go:build mobile

// embed.go - 移动端资源嵌入声明
//
// 此文件仅在使用 -tags mobile 构建时编译。
// //go:embed 只能嵌入当前包目录下的文件，构建前先复制配置：
//
//	go generate -tags mobile ./mobile
//	go build -tags mobile ./mobile
package mobile

import "embed"

//go:generate cp ../data/reveal.yaml data/reveal.yaml

//go:embed data/reveal.yaml
var dataFS embed.FS
