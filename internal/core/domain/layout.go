package domain

import "path/filepath"

const (
	// SdnodeDirName is the name of the internal workspace directory.
	SdnodeDirName = ".sdnode"

	// StoreDirName is the name of the persistent result store directory.
	StoreDirName = "store"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "sdnode.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultSdnodePath returns the default root directory for sdnode metadata.
func DefaultSdnodePath() string {
	return SdnodeDirName
}

// DefaultStorePath returns the default path for the disk result store.
// It joins .sdnode and store.
func DefaultStorePath() string {
	return filepath.Join(SdnodeDirName, StoreDirName)
}
