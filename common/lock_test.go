package common

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestAcquireInstanceLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), LockFileName)

	lock, err := AcquireInstanceLock(path)
	if err != nil {
		t.Fatalf("AcquireInstanceLock() error = %v", err)
	}

	// A second acquisition through a fresh descriptor must be refused.
	if _, err := AcquireInstanceLock(path); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second AcquireInstanceLock() error = %v, want ErrAlreadyRunning", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	// After release the lock is free again.
	lock, err = AcquireInstanceLock(path)
	if err != nil {
		t.Fatalf("reacquire after Release() error = %v", err)
	}
	lock.Release()
}

func TestInstanceLock_ReleaseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), LockFileName)
	lock, err := AcquireInstanceLock(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("first Release() error = %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Errorf("second Release() error = %v, want nil", err)
	}
}
