package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusmedia/confsync/internal/models"
	"github.com/campusmedia/confsync/internal/providers/conference"
	"github.com/campusmedia/confsync/internal/report"
	postgres "github.com/campusmedia/confsync/internal/repositories/postgres"
	"github.com/campusmedia/confsync/internal/utils"

	"github.com/sirupsen/logrus"
)

// ReconcileService mirrors the sessions known to the conference server into
// the local store. Discovery is idempotent: re-running it against identical
// remote data changes nothing.
type ReconcileService interface {
	Run(ctx context.Context, rep *report.Collector) error
}

type reconcileService struct {
	conf      conference.Provider
	meetings  postgres.MeetingRepository
	attendees postgres.AttendeeRepository
	log       *logrus.Logger
}

func NewReconcileService(
	conf conference.Provider,
	meetings postgres.MeetingRepository,
	attendees postgres.AttendeeRepository,
	log *logrus.Logger,
) ReconcileService {
	return &reconcileService{conf: conf, meetings: meetings, attendees: attendees, log: log}
}

// Run lists the remote sessions and upserts local state for each. Remote
// failures and per-session anomalies land in the report; only store failures
// return an error.
func (s *reconcileService) Run(ctx context.Context, rep *report.Collector) error {
	const op = "ReconcileService.Run"

	sessions, err := s.conf.ListSessions(ctx)
	if err != nil {
		rep.Error(op, "failed to list sessions on the conference server", err)
		return nil
	}
	s.log.WithField("sessions", len(sessions)).Debug("discovered conference sessions")

	for _, sess := range sessions {
		if err := s.reconcileSession(ctx, sess, rep); err != nil {
			return err
		}
	}
	return nil
}

func (s *reconcileService) reconcileSession(ctx context.Context, sess conference.Session, rep *report.Collector) error {
	const op = "ReconcileService.reconcileSession"

	if sess.InternalID == "" {
		rep.Error(op, fmt.Sprintf("session %q has no internal meeting id", sess.ExternalID), nil)
		return nil
	}
	if sess.CreatedAt.IsZero() {
		rep.Error(op, fmt.Sprintf("session %s has an unparsable create date", sess.InternalID), nil)
		return nil
	}

	m, err := s.meetings.GetByInternalID(ctx, sess.InternalID)
	switch {
	case errors.Is(err, utils.ErrNotFound):
		m = &models.Meeting{
			MeetingID:          sess.ExternalID,
			InternalMeetingID:  sess.InternalID,
			MeetingName:        sess.Name,
			SessionDate:        sess.CreatedAt,
			Recorded:           sess.Recorded,
			RecordingAvailable: false,
			EncodingStep:       0,
		}
		if err := s.meetings.Create(ctx, m); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to create meeting", err)
		}
		s.log.WithField("internal_meeting_id", m.InternalMeetingID).Debug("created meeting")
	case err != nil:
		return utils.E(utils.CodeInternal, op, "failed to look up meeting", err)
	default:
		// Only the recorded flag may change on a later sighting, and only
		// false -> true.
		if !m.Recorded && sess.Recorded {
			if err := s.meetings.MarkRecorded(ctx, m.ID); err != nil {
				return utils.E(utils.CodeInternal, op, "failed to mark meeting recorded", err)
			}
			s.log.WithField("internal_meeting_id", m.InternalMeetingID).Debug("meeting is now recorded")
		}
	}

	for _, name := range sess.Moderators {
		if err := s.upsertModerator(ctx, name, m.ID); err != nil {
			return err
		}
	}
	return nil
}

// upsertModerator creates the attendee row on first sighting. Later sightings
// of the same (name, meeting) never overwrite anything.
func (s *reconcileService) upsertModerator(ctx context.Context, fullName string, meetingID uint) error {
	const op = "ReconcileService.upsertModerator"

	_, err := s.attendees.GetByNameAndMeeting(ctx, fullName, meetingID)
	switch {
	case errors.Is(err, utils.ErrNotFound):
		a := &models.Attendee{
			FullName:  fullName,
			Role:      models.RoleModerator,
			MeetingID: meetingID,
		}
		if err := s.attendees.Create(ctx, a); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to create attendee", err)
		}
		s.log.WithFields(logrus.Fields{"full_name": fullName, "meeting_id": meetingID}).Debug("created attendee")
		return nil
	case err != nil:
		return utils.E(utils.CodeInternal, op, "failed to look up attendee", err)
	default:
		return nil
	}
}
