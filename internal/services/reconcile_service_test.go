package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campusmedia/confsync/internal/providers/conference"
	"github.com/campusmedia/confsync/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileCreatesMeetingWithModerators(t *testing.T) {
	created := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	conf := &mockConference{sessions: []conference.Session{
		{
			Name:       "Algebra II",
			ExternalID: "room-7",
			InternalID: "int-abc",
			CreatedAt:  created,
			Recorded:   true,
			Moderators: []string{"Ana Gomez", "Marc Petit"},
		},
	}}
	meetings := newMockMeetingRepo()
	attendees := &mockAttendeeRepo{}
	svc := NewReconcileService(conf, meetings, attendees, testLogger())
	rep := report.New(testLogger())

	require.NoError(t, svc.Run(context.Background(), rep))

	require.Equal(t, 1, meetings.createCalls)
	m := meetings.byInternal["int-abc"]
	require.NotNil(t, m)
	assert.Equal(t, "room-7", m.MeetingID)
	assert.Equal(t, "Algebra II", m.MeetingName)
	assert.Equal(t, created, m.SessionDate)
	assert.True(t, m.Recorded)
	assert.False(t, m.RecordingAvailable)
	assert.Equal(t, 0, m.EncodingStep)

	assert.Equal(t, 2, attendees.createCalls)
	assert.True(t, rep.Empty())
}

func TestReconcileIsIdempotent(t *testing.T) {
	conf := &mockConference{sessions: []conference.Session{
		{
			Name:       "Weekly standup",
			ExternalID: "room-1",
			InternalID: "int-1",
			CreatedAt:  time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC),
			Recorded:   true,
			Moderators: []string{"Marie Curie"},
		},
	}}
	meetings := newMockMeetingRepo()
	attendees := &mockAttendeeRepo{}
	svc := NewReconcileService(conf, meetings, attendees, testLogger())
	rep := report.New(testLogger())

	require.NoError(t, svc.Run(context.Background(), rep))
	require.NoError(t, svc.Run(context.Background(), rep))

	assert.Equal(t, 1, meetings.createCalls)
	assert.Equal(t, 1, attendees.createCalls)
	assert.Empty(t, meetings.markRecordedCalls)
	assert.True(t, rep.Empty())
}

func TestReconcileFlipsRecordedOnce(t *testing.T) {
	conf := &mockConference{sessions: []conference.Session{
		{
			Name:       "Colloquium",
			ExternalID: "room-2",
			InternalID: "int-2",
			CreatedAt:  time.Date(2026, 8, 29, 14, 0, 0, 0, time.UTC),
			Recorded:   false,
		},
	}}
	meetings := newMockMeetingRepo()
	attendees := &mockAttendeeRepo{}
	svc := NewReconcileService(conf, meetings, attendees, testLogger())
	rep := report.New(testLogger())

	require.NoError(t, svc.Run(context.Background(), rep))
	require.False(t, meetings.byInternal["int-2"].Recorded)

	// The server now reports the recording flag.
	conf.sessions[0].Recorded = true
	require.NoError(t, svc.Run(context.Background(), rep))
	assert.Len(t, meetings.markRecordedCalls, 1)
	assert.True(t, meetings.byInternal["int-2"].Recorded)

	// A later sighting with the flag off never resets it.
	conf.sessions[0].Recorded = false
	require.NoError(t, svc.Run(context.Background(), rep))
	assert.Len(t, meetings.markRecordedCalls, 1)
	assert.True(t, meetings.byInternal["int-2"].Recorded)
}

func TestReconcileSuppressesDuplicateModerators(t *testing.T) {
	session := conference.Session{
		Name:       "Physics",
		ExternalID: "room-3",
		InternalID: "int-3",
		CreatedAt:  time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC),
		Recorded:   true,
		Moderators: []string{"Marie Curie"},
	}
	conf := &mockConference{sessions: []conference.Session{session}}
	meetings := newMockMeetingRepo()
	attendees := &mockAttendeeRepo{}
	svc := NewReconcileService(conf, meetings, attendees, testLogger())
	rep := report.New(testLogger())

	require.NoError(t, svc.Run(context.Background(), rep))
	require.NoError(t, svc.Run(context.Background(), rep))

	require.Equal(t, 1, attendees.createCalls)
	a, err := attendees.GetByNameAndMeeting(context.Background(), "Marie Curie", 1)
	require.NoError(t, err)
	assert.Equal(t, "MODERATOR", a.Role)
}

func TestReconcileReportsInvalidSessionsAndContinues(t *testing.T) {
	conf := &mockConference{sessions: []conference.Session{
		{Name: "no internal id", ExternalID: "room-x", CreatedAt: time.Now()},
		{Name: "bad date", ExternalID: "room-y", InternalID: "int-y"},
		{Name: "valid", ExternalID: "room-z", InternalID: "int-z", CreatedAt: time.Now()},
	}}
	meetings := newMockMeetingRepo()
	attendees := &mockAttendeeRepo{}
	svc := NewReconcileService(conf, meetings, attendees, testLogger())
	rep := report.New(testLogger())

	require.NoError(t, svc.Run(context.Background(), rep))

	assert.Equal(t, 2, rep.Len())
	assert.Equal(t, 1, meetings.createCalls)
	assert.NotNil(t, meetings.byInternal["int-z"])
}

func TestReconcileReportsRemoteFailure(t *testing.T) {
	conf := &mockConference{sessionsErr: errors.New("connection refused")}
	meetings := newMockMeetingRepo()
	svc := NewReconcileService(conf, meetings, &mockAttendeeRepo{}, testLogger())
	rep := report.New(testLogger())

	require.NoError(t, svc.Run(context.Background(), rep))

	assert.Equal(t, 1, rep.Len())
	assert.Contains(t, rep.Text(), "connection refused")
	assert.Equal(t, 0, meetings.createCalls)
}
