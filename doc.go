// Package main provides the go-deepsign CLI tool for recursive macOS code signing.
//
// For the library API, see the codesign subpackage:
//
//	import "github.com/aluedeke/go-deepsign/pkg/codesign"
//
// # Installation
//
// Install the CLI:
//
//	go install github.com/aluedeke/go-deepsign@latest
package main
