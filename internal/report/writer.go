package report

import (
	"path/filepath"
	"time"

	"refaudit/internal/core/errors"
	"refaudit/internal/shared/util"
)

// Filename embeds the run timestamp: RefAuditResult_YYYYMMDDHHmmss.csv.
func Filename(ts time.Time) string {
	return "RefAuditResult_" + ts.Format("20060102150405") + ".csv"
}

// Write serializes the buffer through the build's encoder and writes it next
// to the executable, or into dir when set. Returns the written path.
func Write(b *RowBuffer, dir string, ts time.Time) (string, error) {
	if dir == "" {
		dir = util.ExecutableDir()
	}
	path := filepath.Join(dir, Filename(ts))

	data, err := encodeBytes(b.Encode())
	if err != nil {
		return "", errors.Wrap(err, errors.CodeWriteError, "report encoding failed")
	}
	if err := util.WriteFileWithDirs(path, data, 0o644); err != nil {
		return "", errors.AddContext(
			errors.Wrap(err, errors.CodeWriteError, "report write failed"),
			errors.CtxPath, path)
	}
	return path, nil
}
