package config

import (
	"strconv"
	"sync"
)

type StorageConfig struct {
	UploadDir    string
	MaxFileBytes int64
	MaxFiles     int
}

var (
	storageConfig *StorageConfig
	storageOnce   sync.Once
)

func LoadStorageConfig() *StorageConfig {
	storageOnce.Do(func() {
		maxBytes, err := strconv.ParseInt(getEnv("UPLOAD_MAX_BYTES", "10485760"), 10, 64)
		if err != nil || maxBytes <= 0 {
			maxBytes = 10 * 1024 * 1024
		}
		maxFiles, err := strconv.Atoi(getEnv("UPLOAD_MAX_FILES", "5"))
		if err != nil || maxFiles <= 0 {
			maxFiles = 5
		}
		storageConfig = &StorageConfig{
			UploadDir:    getEnv("UPLOAD_DIR", "./uploads"),
			MaxFileBytes: maxBytes,
			MaxFiles:     maxFiles,
		}
	})
	return storageConfig
}
