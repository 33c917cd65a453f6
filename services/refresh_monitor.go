package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/motopaint/paintshop-app/board"
)

// RefreshMonitor re-emits the change signal on a fixed cadence so
// boards converge even if a broadcast was missed (client reconnects,
// urgency flags flipping as the clock moves). Mutations broadcast
// immediately; this is only the safety-net tick.
type RefreshMonitor struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration
}

func NewRefreshMonitor(db *gorm.DB) *RefreshMonitor {
	return &RefreshMonitor{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: 5 * time.Second,
	}
}

func (rm *RefreshMonitor) Start() {
	go func() {
		ticker := time.NewTicker(rm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				board.BroadcastDataChanged()
			case <-rm.StopChan:
				return
			}
		}
	}()
}

func (rm *RefreshMonitor) Stop() {
	close(rm.StopChan)
}
