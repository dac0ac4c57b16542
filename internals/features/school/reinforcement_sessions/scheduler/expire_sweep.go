// file: internals/features/school/reinforcement_sessions/scheduler/expire_sweep.go
package scheduler

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	service "akademiku_backend/internals/features/school/reinforcement_sessions/service"
)

// StartSessionExpireSweep: backstop server-side untuk sesi pending yang
// sudah lewat waktu (client hilang jaringan / tidak pernah submit).
// Idempoten — bersaing aman dengan expire-on-read di controller.
func StartSessionExpireSweep(db *gorm.DB) {
	go func() {
		// interval dari env (default: 60 detik)
		intervalSec := 60
		if val := os.Getenv("SESSION_EXPIRE_SWEEP_INTERVAL_SEC"); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
				intervalSec = parsed
			}
		}

		svc := service.NewReinforcementSessionService(db)
		for {
			n, err := svc.SweepExpired(context.Background())
			if err != nil {
				log.Printf("[EXPIRE-SWEEP] Gagal sweep sesi: %v", err)
			} else if n > 0 {
				log.Printf("[EXPIRE-SWEEP] %d sesi difinalkan", n)
			}
			time.Sleep(time.Duration(intervalSec) * time.Second)
		}
	}()
}
