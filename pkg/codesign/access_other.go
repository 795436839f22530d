//go:build !unix

package codesign

import "os"

func canExecute(_ string, info os.FileInfo) bool {
	return info.Mode()&0111 != 0
}
