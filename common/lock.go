// Package common provides shared constants, types, and utilities
// used across the AdGuard VPN GUI application.
package common

import (
	"os"
	"path/filepath"
	"syscall"
)

// InstanceLock holds an exclusive advisory lock on the app lock file for
// the lifetime of the process, so a second GUI instance can detect the
// first and bail out.
type InstanceLock struct {
	file *os.File
}

// AcquireInstanceLock takes a non-blocking exclusive flock on path. An
// empty path selects the lock file in the user's data directory. A lock
// already held by another instance returns ErrAlreadyRunning.
func AcquireInstanceLock(path string) (*InstanceLock, error) {
	if path == "" {
		dir, err := GetDataDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, LockFileName)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, WrapError(err, "opening lock file")
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		return nil, ErrAlreadyRunning
	}
	return &InstanceLock{file: f}, nil
}

// Release drops the lock. The file stays behind; the flock itself is the
// guard, not the file's existence.
func (l *InstanceLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	err := l.file.Close()
	l.file = nil
	return err
}
