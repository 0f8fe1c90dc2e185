package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"Paratoner/internal/channel"
	"Paratoner/internal/domain/models"
	"Paratoner/internal/domain/repository"
	"Paratoner/internal/ledger"
	"Paratoner/internal/service/eventlog"
	applogger "Paratoner/pkg/logger"
)

const systemVersion = "2.0.0"

// Service builds backup snapshots of the ledger and channel configuration.
// Writing the backup file is best effort; a failed write never fails the
// snapshot handed back to the caller.
type Service struct {
	ledger   *ledger.Ledger
	registry *channel.Registry
	metrics  repository.Metrics
	events   *eventlog.Service
	log      *applogger.Logger
	dir      string
}

// New creates the export service. dir is where backup files are written.
func New(led *ledger.Ledger, reg *channel.Registry, metrics repository.Metrics, events *eventlog.Service, log *applogger.Logger, dir string) *Service {
	return &Service{ledger: led, registry: reg, metrics: metrics, events: events, log: log, dir: dir}
}

// Snapshot serializes the current ledger and channel configuration.
func (s *Service) Snapshot(_ context.Context) ([]byte, models.ExportSnapshot, error) {
	alarms := s.ledger.All()
	snap := models.ExportSnapshot{
		ExportTimestamp: time.Now(),
		SystemVersion:   systemVersion,
		Alarms:          alarms,
		ServiceConfig:   s.registry.StatusAll(),
		TotalAlarms:     len(alarms),
	}
	if s.metrics != nil {
		snap.UptimeSeconds = s.metrics.Uptime().Seconds()
	}

	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, models.ExportSnapshot{}, fmt.Errorf("marshal snapshot: %w", err)
	}

	s.writeBackup(b, snap.ExportTimestamp)
	s.events.Record(eventlog.KindDataExport, fmt.Sprintf("%d sinyal ve sistem ayarları", len(alarms)), "INFO")
	return b, snap, nil
}

func (s *Service) writeBackup(b []byte, at time.Time) {
	if s.dir == "" {
		return
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		if s.log != nil {
			s.log.Warn("backup dir create failed", applogger.Error(err))
		}
		return
	}
	name := filepath.Join(s.dir, fmt.Sprintf("backup_%s.json", at.Format("20060102_150405")))
	if err := os.WriteFile(name, b, 0o644); err != nil && s.log != nil {
		s.log.Warn("backup write failed", applogger.String("file", name), applogger.Error(err))
	}
}
