package health

import (
	"sync"

	"github.com/mxxx222/TennisBot-sub003/internal/pkg/models"
)

var (
	mu          sync.RWMutex
	lastReport  *models.CycleReport
	totalCycles int
)

// SetReport records the most recent cycle report for the /report endpoint.
func SetReport(report *models.CycleReport) {
	mu.Lock()
	defer mu.Unlock()
	lastReport = report
	totalCycles++
}

// GetReport returns the most recent cycle report and how many cycles ran.
func GetReport() (*models.CycleReport, int) {
	mu.RLock()
	defer mu.RUnlock()
	return lastReport, totalCycles
}
