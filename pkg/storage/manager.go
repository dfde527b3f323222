package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/aircon-store/storefront/config"
)

var (
	managerMu sync.RWMutex
	current   Disk
)

// Connect boots the disk named by STORAGE_DISK and makes it the default.
// Only one backend is active per deployment.
func Connect(ctx context.Context) (Disk, error) {
	var (
		d   Disk
		err error
	)
	switch config.StorageDisk() {
	case "s3":
		d, err = NewS3(ctx, S3Config{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			URL:      config.StorageS3URL(),
		})
	default:
		d, err = NewLocal(config.StorageLocalRoot(), config.StorageURL())
	}
	if err != nil {
		return nil, err
	}
	Use(d)
	return d, nil
}

// Use replaces the default disk. Tests use it to plug in a temp directory.
func Use(d Disk) {
	managerMu.Lock()
	current = d
	managerMu.Unlock()
}

// Default returns the active disk, or panics if Connect was never called.
func Default() Disk {
	managerMu.RLock()
	d := current
	managerMu.RUnlock()
	if d == nil {
		panic(fmt.Sprintf("storage: no disk configured (STORAGE_DISK=%s)", config.StorageDisk()))
	}
	return d
}
