// Package telemetry registra las métricas Prometheus del bot.
package telemetry

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	RoomsCreated          prometheus.Counter
	RoomsReused           prometheus.Counter
	RoomsRecreated        prometheus.Counter
	RoomCreateFailures    prometheus.Counter
	RoomsReclaimed        prometheus.Counter
	ChannelDeleteFailures prometheus.Counter
	ActivityTouches       *prometheus.CounterVec
	SweepRuns             prometheus.Counter
	SweepDuration         prometheus.Observer
	ActiveRooms           prometheus.Gauge
)

// Init registra las métricas en el registry default (idempotente).
func Init() {
	once.Do(func() {
		RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{Name: "tempvoice_rooms_created_total", Help: "Temporary rooms created"})
		RoomsReused = promauto.NewCounter(prometheus.CounterOpts{Name: "tempvoice_rooms_reused_total", Help: "Members redirected into their existing room"})
		RoomsRecreated = promauto.NewCounter(prometheus.CounterOpts{Name: "tempvoice_rooms_recreated_total", Help: "Rooms recreated because the recorded voice channel no longer resolved"})
		RoomCreateFailures = promauto.NewCounter(prometheus.CounterOpts{Name: "tempvoice_room_create_failures_total", Help: "Room creations that failed and were rolled back"})
		RoomsReclaimed = promauto.NewCounter(prometheus.CounterOpts{Name: "tempvoice_rooms_reclaimed_total", Help: "Rooms removed by the inactivity sweep"})
		ChannelDeleteFailures = promauto.NewCounter(prometheus.CounterOpts{Name: "tempvoice_channel_delete_failures_total", Help: "Channel delete calls that failed"})
		ActivityTouches = promauto.NewCounterVec(prometheus.CounterOpts{Name: "tempvoice_activity_touches_total", Help: "Activity refreshes by source"}, []string{"source"})
		SweepRuns = promauto.NewCounter(prometheus.CounterOpts{Name: "tempvoice_sweep_runs_total", Help: "Inactivity sweeps executed"})
		SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "tempvoice_sweep_duration_seconds", Help: "Inactivity sweep duration", Buckets: prometheus.DefBuckets})
		ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{Name: "tempvoice_active_rooms", Help: "Rooms tracked after the last sweep"})
	})
}

// Los helpers toleran métricas sin inicializar (tests, lambda).

func Inc(c prometheus.Counter) {
	if c != nil {
		c.Inc()
	}
}

func Add(c prometheus.Counter, n int) {
	if c != nil && n > 0 {
		c.Add(float64(n))
	}
}

func Touch(source string) {
	if ActivityTouches != nil {
		ActivityTouches.WithLabelValues(source).Inc()
	}
}

func SetActiveRooms(n int) {
	if ActiveRooms != nil {
		ActiveRooms.Set(float64(n))
	}
}

// ObserveSince registra la duración desde start si el observer existe.
func ObserveSince(obs prometheus.Observer, start time.Time) time.Duration {
	d := time.Since(start)
	if obs != nil {
		obs.Observe(d.Seconds())
	}
	return d
}
