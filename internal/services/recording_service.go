package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusmedia/confsync/internal/models"
	"github.com/campusmedia/confsync/internal/providers/conference"
	"github.com/campusmedia/confsync/internal/report"
	postgres "github.com/campusmedia/confsync/internal/repositories/postgres"
	"github.com/campusmedia/confsync/internal/utils"

	"github.com/sirupsen/logrus"
)

// RecordingLookback bounds how far back the poller looks for recordings.
// The remote recorded flag is unreliable for stale or deleted sessions;
// without the bound, dead sessions would be re-polled forever.
const RecordingLookback = 4 * 24 * time.Hour

// RecordingService polls the conference server for recordings of meetings
// that are flagged recorded but have no available recording yet, and
// publishes the playback URLs once found. The available transition is
// one-way and one-time.
type RecordingService interface {
	Run(ctx context.Context, rep *report.Collector) error
}

type recordingService struct {
	conf     conference.Provider
	meetings postgres.MeetingRepository
	log      *logrus.Logger
	now      func() time.Time
}

func NewRecordingService(
	conf conference.Provider,
	meetings postgres.MeetingRepository,
	log *logrus.Logger,
) RecordingService {
	return &recordingService{conf: conf, meetings: meetings, log: log, now: time.Now}
}

func (s *recordingService) Run(ctx context.Context, rep *report.Collector) error {
	const op = "RecordingService.Run"

	since := s.now().Add(-RecordingLookback)
	meetings, err := s.meetings.ListAwaitingRecording(ctx, since)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to list meetings awaiting a recording", err)
	}
	s.log.WithField("meetings", len(meetings)).Debug("polling for recordings")

	for _, m := range meetings {
		if err := s.pollMeeting(ctx, m, rep); err != nil {
			return err
		}
	}
	return nil
}

func (s *recordingService) pollMeeting(ctx context.Context, m models.Meeting, rep *report.Collector) error {
	const op = "RecordingService.pollMeeting"

	recordings, err := s.conf.ListRecordings(ctx, m.MeetingID)
	if err != nil {
		rep.Error(op, fmt.Sprintf("failed to look up recordings for meeting %s", m.InternalMeetingID), err)
		return nil
	}

	for _, rec := range recordings {
		// The server can return unrelated recordings for the same external
		// id; only the one for this concrete run counts.
		if rec.InternalID != m.InternalMeetingID {
			continue
		}

		url, thumbnail := pickPlayback(rec)
		if url == "" {
			return nil
		}

		// The meeting can be deleted locally between selection and update.
		cur, err := s.meetings.GetByInternalID(ctx, m.InternalMeetingID)
		if errors.Is(err, utils.ErrNotFound) {
			rep.Warn(op, fmt.Sprintf("meeting %s no longer exists locally, recording skipped", m.InternalMeetingID))
			return nil
		}
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to re-check meeting", err)
		}

		if err := s.meetings.SetRecording(ctx, cur.ID, url, thumbnail); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to publish recording", err)
		}
		s.log.WithFields(logrus.Fields{
			"internal_meeting_id": m.InternalMeetingID,
			"recording_url":       url,
		}).Debug("recording is now available")
		return nil
	}
	return nil
}

// pickPlayback takes the first playback entry's URL and the first thumbnail
// found across all playback entries.
func pickPlayback(rec conference.Recording) (url, thumbnail string) {
	if len(rec.Playbacks) > 0 {
		url = rec.Playbacks[0].URL
	}
	for _, p := range rec.Playbacks {
		if p.ThumbnailURL != "" {
			thumbnail = p.ThumbnailURL
			break
		}
	}
	return url, thumbnail
}
