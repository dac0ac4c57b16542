// file: internals/features/users/user/scheduler/blacklist_cleanup.go
package scheduler

import (
	"log"
	"strconv"
	"time"

	"gorm.io/gorm"

	"akademiku_backend/internals/configs"
	umodel "akademiku_backend/internals/features/users/user/model"
)

// StartTokenBlacklistCleanup menghapus entri blacklist yang sudah lewat exp.
// Interval default 1 jam, override via TOKEN_BLACKLIST_CLEANUP_INTERVAL_SEC.
func StartTokenBlacklistCleanup(db *gorm.DB) {
	interval := time.Hour
	if raw := configs.GetEnv("TOKEN_BLACKLIST_CLEANUP_INTERVAL_SEC"); raw != "" {
		if sec, err := strconv.Atoi(raw); err == nil && sec > 0 {
			interval = time.Duration(sec) * time.Second
		}
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			res := db.Unscoped().
				Where("token_blacklist_expired_at < ?", time.Now()).
				Delete(&umodel.TokenBlacklist{})
			if res.Error != nil {
				log.Printf("[BLACKLIST-CLEANUP] gagal: %v", res.Error)
				continue
			}
			if res.RowsAffected > 0 {
				log.Printf("[BLACKLIST-CLEANUP] %d token kadaluarsa dihapus", res.RowsAffected)
			}
		}
	}()
}
