package common

import (
	"net/url"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// FilePathSeparator is the separator FileSystems paths are normalized to.
const FilePathSeparator = string(filepath.Separator)

// InitEnvironment contains properties that can be accessed by Go code executed
// in the init context, before any module export is used.
type InitEnvironment struct {
	Logger      logrus.FieldLogger
	FileSystems map[string]afero.Fs
	CWD         *url.URL
}

// GetAbsFilePath should be used to access the FileSystems, since afero has a
// bug when opening files with relative paths - it caches them from the FS root,
// not the current working directory... So, if necessary, this method will
// transform any relative paths into absolute ones, using the CWD.
func (ie *InitEnvironment) GetAbsFilePath(filename string) string {
	// Here IsAbs should be enough but unfortunately it doesn't handle absolute paths starting from
	// the current drive on windows like `\users\noname\...`.
	if filename[0] != '/' && filename[0] != '\\' && !filepath.IsAbs(filename) {
		cwd := ""
		if ie.CWD != nil {
			cwd = ie.CWD.Path
		}
		filename = filepath.Join(cwd, filename)
	}
	filename = filepath.Clean(filename)
	if filename[0:1] != FilePathSeparator {
		filename = FilePathSeparator + filename
	}
	return filename
}
