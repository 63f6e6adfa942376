package conference

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	roleModerator     = "MODERATOR"
	returnCodeSuccess = "SUCCESS"

	// DefaultTimeout bounds a single API call; the job performs no retries,
	// a failed call is simply retried on the next scheduled run.
	DefaultTimeout = 30 * time.Second
)

// BBBConfig holds the connection settings for a BigBlueButton/Scalelite server.
type BBBConfig struct {
	// BaseURL includes any provider prefix (e.g. https://host/bigbluebutton),
	// without a trailing slash. API calls are appended as /api/{call}.
	BaseURL string
	// Secret is the shared API secret (Scalelite LOADBALANCER_SECRET).
	Secret string
	// Optional: override timeout for HTTP requests.
	Timeout time.Duration
}

// BBBClient issues checksum-signed requests against the BigBlueButton API
// and decodes its XML responses into typed records.
type BBBClient struct {
	httpClient *http.Client
	cfg        BBBConfig
	log        *logrus.Logger
}

var _ Provider = (*BBBClient)(nil)

func NewBBBClient(cfg BBBConfig, log *logrus.Logger) *BBBClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &BBBClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		log:        log,
	}
}

func (c *BBBClient) ListSessions(ctx context.Context) ([]Session, error) {
	var resp meetingsResponse
	if err := c.get(ctx, "getMeetings", "", &resp); err != nil {
		return nil, err
	}
	if resp.ReturnCode != returnCodeSuccess {
		return nil, fmt.Errorf("getMeetings returned %s: %s", resp.ReturnCode, resp.Message)
	}

	sessions := make([]Session, 0, len(resp.Meetings))
	for _, m := range resp.Meetings {
		s := Session{
			Name:       m.Name,
			ExternalID: m.MeetingID,
			InternalID: m.InternalMeetingID,
			CreatedAt:  parseCreateDate(m.CreateDate),
			Recorded:   m.Recording == "true",
		}
		for _, a := range m.Attendees {
			if a.Role == roleModerator {
				s.Moderators = append(s.Moderators, a.FullName)
			}
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (c *BBBClient) ListRecordings(ctx context.Context, externalMeetingID string) ([]Recording, error) {
	query := "meetingID=" + url.QueryEscape(externalMeetingID)

	var resp recordingsResponse
	if err := c.get(ctx, "getRecordings", query, &resp); err != nil {
		return nil, err
	}
	if resp.ReturnCode != returnCodeSuccess {
		return nil, fmt.Errorf("getRecordings returned %s: %s", resp.ReturnCode, resp.Message)
	}

	recordings := make([]Recording, 0, len(resp.Recordings))
	for _, r := range resp.Recordings {
		rec := Recording{InternalID: r.InternalMeetingID}
		for _, p := range r.Playbacks {
			rec.Playbacks = append(rec.Playbacks, Playback{
				URL:          p.URL,
				ThumbnailURL: p.Image,
			})
		}
		recordings = append(recordings, rec)
	}
	return recordings, nil
}

// checksum signs an API call per the BigBlueButton security scheme:
// hex(sha1(callName + rawQuery + secret)).
func (c *BBBClient) checksum(call, rawQuery string) string {
	sum := sha1.Sum([]byte(call + rawQuery + c.cfg.Secret))
	return hex.EncodeToString(sum[:])
}

func (c *BBBClient) get(ctx context.Context, call, rawQuery string, out any) error {
	u := c.cfg.BaseURL + "/api/" + call + "?"
	if rawQuery != "" {
		u += rawQuery + "&"
	}
	u += "checksum=" + c.checksum(call, rawQuery)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", call, err)
	}

	c.log.WithFields(logrus.Fields{"call": call, "query": rawQuery}).Debug("conference API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", call, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned unexpected status %d", call, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", call, err)
	}
	if err := xml.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", call, err)
	}

	c.log.WithFields(logrus.Fields{"call": call, "status": resp.StatusCode}).Debug("conference API response")
	return nil
}

// parseCreateDate accepts the two date forms BigBlueButton servers emit:
// epoch milliseconds and the textual "Mon Jan  2 15:04:05 MST 2006" form.
// Returns the zero time when neither applies.
func parseCreateDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	for _, layout := range []string{time.UnixDate, "Mon Jan 2 15:04:05 MST 2006", time.RFC1123} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Wire format of the XML API, confined to this file.

type meetingsResponse struct {
	XMLName    xml.Name     `xml:"response"`
	ReturnCode string       `xml:"returncode"`
	Message    string       `xml:"message"`
	Meetings   []xmlMeeting `xml:"meetings>meeting"`
}

type xmlMeeting struct {
	Name              string        `xml:"meetingName"`
	MeetingID         string        `xml:"meetingID"`
	InternalMeetingID string        `xml:"internalMeetingID"`
	CreateDate        string        `xml:"createDate"`
	Recording         string        `xml:"recording"`
	Attendees         []xmlAttendee `xml:"attendees>attendee"`
}

type xmlAttendee struct {
	FullName string `xml:"fullName"`
	Role     string `xml:"role"`
}

type recordingsResponse struct {
	XMLName    xml.Name       `xml:"response"`
	ReturnCode string         `xml:"returncode"`
	Message    string         `xml:"message"`
	Recordings []xmlRecording `xml:"recordings>recording"`
}

type xmlRecording struct {
	InternalMeetingID string        `xml:"internalMeetingID"`
	Playbacks         []xmlPlayback `xml:"playback"`
}

type xmlPlayback struct {
	URL   string `xml:"url"`
	Image string `xml:"image"`
}
