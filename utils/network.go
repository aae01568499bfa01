package utils

import (
	"path/filepath"
	"strings"
)

// mountPoints map common NFS/SMB mount roots to how the upload warning names them
var mountPoints = []struct {
	prefix string
	label  string
}{
	{"/mnt/", "mount under /mnt"},
	{"/media/", "mount under /media"},
	{"/Volumes/", "macOS volume"},
}

var remoteProtocols = []string{"nfs", "cifs", "smb", "webdav", "sftp", "ftp"}

// NetworkSource reports whether a video would be streamed from a network share
// while uploading, and names the share kind that matched. Reads from such
// sources are slow, so the upload progress can stall between updates.
func NetworkSource(filePath string) (string, bool) {
	// UNC paths must be checked before filepath.Abs mangles them
	if strings.HasPrefix(filePath, "//") || strings.HasPrefix(filePath, `\\`) {
		return "UNC share", true
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", false
	}

	for _, mp := range mountPoints {
		if strings.HasPrefix(absPath, mp.prefix) {
			return mp.label, true
		}
	}

	lowerPath := strings.ToLower(absPath)
	for _, proto := range remoteProtocols {
		if strings.Contains(lowerPath, proto) {
			return strings.ToUpper(proto) + " path", true
		}
	}

	return "", false
}
