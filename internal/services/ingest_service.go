package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/campusmedia/confsync/config"
	"github.com/campusmedia/confsync/internal/models"
	"github.com/campusmedia/confsync/internal/providers/encoder"
	"github.com/campusmedia/confsync/internal/report"
	postgres "github.com/campusmedia/confsync/internal/repositories/postgres"
	"github.com/campusmedia/confsync/internal/storage"
	"github.com/campusmedia/confsync/internal/utils"

	"github.com/sirupsen/logrus"
)

// IngestService publishes finished recording files from the drop directory:
// each file's stem is the internal meeting id, the file is moved into the
// media library and a video asset is created and submitted for encoding.
type IngestService interface {
	Run(ctx context.Context, rep *report.Collector) error
}

type ingestService struct {
	meetings postgres.MeetingRepository
	videos   postgres.VideoRepository
	dropbox  storage.Dropbox
	library  storage.Library
	enc      encoder.Provider
	cfg      *config.Config
	log      *logrus.Logger
	now      func() time.Time
}

func NewIngestService(
	meetings postgres.MeetingRepository,
	videos postgres.VideoRepository,
	dropbox storage.Dropbox,
	library storage.Library,
	enc encoder.Provider,
	cfg *config.Config,
	log *logrus.Logger,
) IngestService {
	return &ingestService{
		meetings: meetings,
		videos:   videos,
		dropbox:  dropbox,
		library:  library,
		enc:      enc,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

func (s *ingestService) Run(ctx context.Context, rep *report.Collector) error {
	const op = "IngestService.Run"

	files, err := s.dropbox.Scan(ctx)
	if err != nil {
		rep.Error(op, "failed to scan the drop directory", err)
		return nil
	}

	for _, f := range files {
		if err := s.ingestFile(ctx, f, rep); err != nil {
			return err
		}
	}
	return nil
}

func (s *ingestService) ingestFile(ctx context.Context, f storage.DropFile, rep *report.Collector) error {
	const op = "IngestService.ingestFile"

	ext := filepath.Ext(f.Name)
	if ext == "" || !s.cfg.ExtensionAllowed(ext) {
		s.log.WithField("file", f.Name).Warn("skipping file, extension not in VIDEO_ALLOWED_EXTENSIONS")
		return nil
	}
	internalMeetingID := strings.TrimSuffix(f.Name, ext)

	m, err := s.meetings.GetByInternalID(ctx, internalMeetingID)
	if errors.Is(err, utils.ErrNotFound) {
		// The meeting was most likely deleted locally. The file stays in
		// place untouched.
		rep.Warn(op, fmt.Sprintf("no meeting with internal id %s for file %s, it may have been deleted locally", internalMeetingID, f.Name))
		return nil
	}
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to look up meeting", err)
	}

	video := &models.Video{
		Title:   m.MeetingName,
		OwnerID: m.EncodedByID,
		TypeID:  s.cfg.DefaultTypeID,
		DateEvt: m.SessionDate,
	}

	dst := s.library.AllocatePath(m.EncodedByID, f.Name, s.now())
	if err := s.library.Move(f.Path, dst); err != nil {
		rep.Error(op, fmt.Sprintf("failed to move %s into the media library", f.Name), err)
		return nil
	}
	video.FilePath = dst

	if err := s.videos.Create(ctx, video); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to persist video", err)
	}

	if err := s.enc.Submit(ctx, video.ID); err != nil {
		rep.Error(op, fmt.Sprintf("failed to submit video %d for encoding", video.ID), err)
		return nil
	}

	s.log.WithFields(logrus.Fields{
		"internal_meeting_id": internalMeetingID,
		"video_id":            video.ID,
		"file_path":           dst,
	}).Debug("ingested recording file")
	return nil
}
