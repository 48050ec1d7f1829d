//go:build !sjis

package report

// Default build: BOM-less UTF-8, bytes pass through untouched.
func encodeBytes(b []byte) ([]byte, error) {
	return b, nil
}
