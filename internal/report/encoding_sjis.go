//go:build sjis

package report

import (
	"golang.org/x/text/encoding/japanese"
)

// sjis build: reports target spreadsheet tools expecting Shift_JIS.
func encodeBytes(b []byte) ([]byte, error) {
	return japanese.ShiftJIS.NewEncoder().Bytes(b)
}
