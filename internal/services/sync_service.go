package services

import (
	"context"
	"fmt"

	"github.com/campusmedia/confsync/internal/providers/notify"
	"github.com/campusmedia/confsync/internal/report"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const reportSubject = "Conference sync job [Error(s) encountered]"

// SyncService runs one full reconciliation pass: discovery, recording
// polling, identity matching, file ingestion, then report delivery. Stages
// run strictly in that order, each completing before the next starts.
type SyncService interface {
	Run(ctx context.Context) error
}

type syncService struct {
	reconcile  ReconcileService
	recordings RecordingService
	matching   MatchingService
	ingest     IngestService
	notifier   notify.Provider
	log        *logrus.Logger
}

func NewSyncService(
	reconcile ReconcileService,
	recordings RecordingService,
	matching MatchingService,
	ingest IngestService,
	notifier notify.Provider,
	log *logrus.Logger,
) SyncService {
	return &syncService{
		reconcile:  reconcile,
		recordings: recordings,
		matching:   matching,
		ingest:     ingest,
		notifier:   notifier,
		log:        log,
	}
}

// Run returns an error only when the store itself fails or the report could
// not be delivered; everything else ends up in the report. A store failure
// aborts the run where it happened, writes already committed stay committed.
func (s *syncService) Run(ctx context.Context) error {
	runLog := s.log.WithField("run_id", uuid.NewString())
	rep := report.New(runLog)

	runLog.Info("conference sync run started")

	if err := s.reconcile.Run(ctx, rep); err != nil {
		return err
	}
	if err := s.recordings.Run(ctx, rep); err != nil {
		return err
	}
	if err := s.matching.Run(ctx, rep); err != nil {
		return err
	}
	if err := s.ingest.Run(ctx, rep); err != nil {
		return err
	}

	if rep.Empty() {
		runLog.Info("conference sync run completed, no reportable errors")
		return nil
	}

	if err := s.notifier.SendAdminReport(ctx, reportSubject, rep.Text(), rep.HTML()); err != nil {
		return fmt.Errorf("failed to deliver admin report: %w", err)
	}
	runLog.WithField("errors", rep.Len()).Info("conference sync run completed, admin report delivered")
	return nil
}
