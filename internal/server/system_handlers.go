package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

var startupTime = time.Now()

// SystemHealthResponse reports process and host level health.
type SystemHealthResponse struct {
	Status       string  `json:"status"`
	UptimeHours  float64 `json:"uptime_hours"`
	CPUPercent   float64 `json:"cpu_percent"`
	RAMPercent   float64 `json:"ram_percent"`
	Goroutines   int     `json:"goroutines"`
	Connections  int     `json:"connections"`
	RecentAlerts int     `json:"recent_alerts"`
}

// handleSystemHealth returns host resource usage alongside engine vitals.
func (s *Server) handleSystemHealth(w http.ResponseWriter, r *http.Request) {
	cpuPercent, ramPercent := s.getSystemStats()

	s.writeJSON(w, http.StatusOK, SystemHealthResponse{
		Status:       "healthy",
		UptimeHours:  time.Since(startupTime).Hours(),
		CPUPercent:   cpuPercent,
		RAMPercent:   ramPercent,
		Goroutines:   runtime.NumGoroutine(),
		Connections:  s.hub.ClientCount(),
		RecentAlerts: len(s.hub.Recent()),
	})
}

// getSystemStats calculates CPU and RAM usage percentages.
// Uses a 100ms sample interval so the handler responds quickly.
func (s *Server) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}
