package services

import (
	"context"
	"io"
	"path/filepath"
	"sort"
	"time"

	"github.com/campusmedia/confsync/internal/models"
	"github.com/campusmedia/confsync/internal/providers/conference"
	"github.com/campusmedia/confsync/internal/providers/encoder"
	"github.com/campusmedia/confsync/internal/providers/notify"
	postgres "github.com/campusmedia/confsync/internal/repositories/postgres"
	"github.com/campusmedia/confsync/internal/storage"
	"github.com/campusmedia/confsync/internal/utils"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type mockConference struct {
	sessions      []conference.Session
	sessionsErr   error
	recordings    map[string][]conference.Recording
	recordingsErr map[string]error

	recordingCalls []string
}

var _ conference.Provider = (*mockConference)(nil)

func (m *mockConference) ListSessions(_ context.Context) ([]conference.Session, error) {
	if m.sessionsErr != nil {
		return nil, m.sessionsErr
	}
	return m.sessions, nil
}

func (m *mockConference) ListRecordings(_ context.Context, externalMeetingID string) ([]conference.Recording, error) {
	m.recordingCalls = append(m.recordingCalls, externalMeetingID)
	if err := m.recordingsErr[externalMeetingID]; err != nil {
		return nil, err
	}
	return m.recordings[externalMeetingID], nil
}

type setRecordingCall struct {
	id             uint
	url, thumbnail string
}

type mockMeetingRepo struct {
	byInternal map[string]*models.Meeting
	nextID     uint

	createCalls       int
	markRecordedCalls []uint
	setRecordingCalls []setRecordingCall
	lastSince         time.Time
}

var _ postgres.MeetingRepository = (*mockMeetingRepo)(nil)

func newMockMeetingRepo() *mockMeetingRepo {
	return &mockMeetingRepo{byInternal: map[string]*models.Meeting{}}
}

func (m *mockMeetingRepo) GetByInternalID(_ context.Context, internalMeetingID string) (*models.Meeting, error) {
	mt, ok := m.byInternal[internalMeetingID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *mt
	return &cp, nil
}

func (m *mockMeetingRepo) Create(_ context.Context, mt *models.Meeting) error {
	m.nextID++
	mt.ID = m.nextID
	m.createCalls++
	cp := *mt
	m.byInternal[mt.InternalMeetingID] = &cp
	return nil
}

func (m *mockMeetingRepo) MarkRecorded(_ context.Context, id uint) error {
	m.markRecordedCalls = append(m.markRecordedCalls, id)
	for _, mt := range m.byInternal {
		if mt.ID == id {
			mt.Recorded = true
		}
	}
	return nil
}

func (m *mockMeetingRepo) SetRecording(_ context.Context, id uint, recordingURL, thumbnailURL string) error {
	m.setRecordingCalls = append(m.setRecordingCalls, setRecordingCall{id: id, url: recordingURL, thumbnail: thumbnailURL})
	for _, mt := range m.byInternal {
		if mt.ID == id && !mt.RecordingAvailable {
			mt.RecordingAvailable = true
			u, t := recordingURL, thumbnailURL
			mt.RecordingURL = &u
			mt.ThumbnailURL = &t
		}
	}
	return nil
}

func (m *mockMeetingRepo) ListAwaitingRecording(_ context.Context, since time.Time) ([]models.Meeting, error) {
	m.lastSince = since
	var out []models.Meeting
	for _, mt := range m.byInternal {
		if mt.Recorded && !mt.RecordingAvailable && !mt.SessionDate.Before(since) {
			out = append(out, *mt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type linkCall struct {
	attendeeID, userID uint
	username           string
}

type mockAttendeeRepo struct {
	attendees []*models.Attendee
	nextID    uint

	createCalls int
	lastLimit   int
	linkCalls   []linkCall
}

var _ postgres.AttendeeRepository = (*mockAttendeeRepo)(nil)

func (m *mockAttendeeRepo) GetByNameAndMeeting(_ context.Context, fullName string, meetingID uint) (*models.Attendee, error) {
	for _, a := range m.attendees {
		if a.FullName == fullName && a.MeetingID == meetingID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (m *mockAttendeeRepo) Create(_ context.Context, a *models.Attendee) error {
	m.nextID++
	a.ID = m.nextID
	m.createCalls++
	cp := *a
	m.attendees = append(m.attendees, &cp)
	return nil
}

func (m *mockAttendeeRepo) ListUnlinked(_ context.Context, limit int) ([]models.Attendee, error) {
	m.lastLimit = limit
	var out []models.Attendee
	for _, a := range m.attendees {
		if a.UserID == nil {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockAttendeeRepo) LinkUser(_ context.Context, attendeeID, userID uint, username string) error {
	m.linkCalls = append(m.linkCalls, linkCall{attendeeID: attendeeID, userID: userID, username: username})
	for _, a := range m.attendees {
		if a.ID == attendeeID {
			id := userID
			a.UserID = &id
			a.Username = username
		}
	}
	return nil
}

type mockUserRepo struct {
	users []models.User
}

var _ postgres.UserRepository = (*mockUserRepo)(nil)

func (m *mockUserRepo) List(_ context.Context) ([]models.User, error) {
	return m.users, nil
}

type mockVideoRepo struct {
	videos    []*models.Video
	nextID    uint
	createErr error
}

var _ postgres.VideoRepository = (*mockVideoRepo)(nil)

func (m *mockVideoRepo) Create(_ context.Context, v *models.Video) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	v.ID = m.nextID
	cp := *v
	m.videos = append(m.videos, &cp)
	return nil
}

type mockDropbox struct {
	files   []storage.DropFile
	scanErr error
}

var _ storage.Dropbox = (*mockDropbox)(nil)

func (m *mockDropbox) Scan(_ context.Context) ([]storage.DropFile, error) {
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	return m.files, nil
}

type moveCall struct {
	src, dst string
}

type mockLibrary struct {
	moves   []moveCall
	moveErr map[string]error // keyed by src
}

var _ storage.Library = (*mockLibrary)(nil)

func (m *mockLibrary) AllocatePath(_ *uint, filename string, _ time.Time) string {
	return filepath.Join("/media/videos", filename)
}

func (m *mockLibrary) Move(src, dst string) error {
	if err := m.moveErr[src]; err != nil {
		return err
	}
	m.moves = append(m.moves, moveCall{src: src, dst: dst})
	return nil
}

type mockEncoder struct {
	submitted []uint
	submitErr error
}

var _ encoder.Provider = (*mockEncoder)(nil)

func (m *mockEncoder) Submit(_ context.Context, videoID uint) error {
	if m.submitErr != nil {
		return m.submitErr
	}
	m.submitted = append(m.submitted, videoID)
	return nil
}

type adminReport struct {
	subject, text, html string
}

type mockNotifier struct {
	reports []adminReport
}

var _ notify.Provider = (*mockNotifier)(nil)

func (m *mockNotifier) SendAdminReport(_ context.Context, subject, textBody, htmlBody string) error {
	m.reports = append(m.reports, adminReport{subject: subject, text: textBody, html: htmlBody})
	return nil
}
