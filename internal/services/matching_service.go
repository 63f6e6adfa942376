package services

import (
	"context"
	"strings"

	"github.com/campusmedia/confsync/config"
	"github.com/campusmedia/confsync/internal/models"
	"github.com/campusmedia/confsync/internal/report"
	postgres "github.com/campusmedia/confsync/internal/repositories/postgres"
	"github.com/campusmedia/confsync/internal/utils"

	"github.com/sirupsen/logrus"
)

// MatchBatchSize bounds how many unlinked attendees one run considers, most
// recent first. Attendees unknown to the platform stay unlinked and are
// retried on later runs, so the matcher converges without ever scanning the
// whole backlog.
const MatchBatchSize = 500

// MatchingService resolves conference moderator names to local accounts.
// An account matches when its formatted name appears inside the remote full
// name, case-insensitively. When several accounts match, the first one in
// id order wins; namesakes can therefore be misattributed. That is accepted,
// documented behavior.
type MatchingService interface {
	Run(ctx context.Context, rep *report.Collector) error
}

type matchingService struct {
	attendees postgres.AttendeeRepository
	users     postgres.UserRepository
	format    string
	log       *logrus.Logger
}

func NewMatchingService(
	attendees postgres.AttendeeRepository,
	users postgres.UserRepository,
	usernameFormat string,
	log *logrus.Logger,
) MatchingService {
	return &matchingService{attendees: attendees, users: users, format: usernameFormat, log: log}
}

func (s *matchingService) Run(ctx context.Context, rep *report.Collector) error {
	const op = "MatchingService.Run"

	unlinked, err := s.attendees.ListUnlinked(ctx, MatchBatchSize)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to list unlinked attendees", err)
	}
	if len(unlinked) == 0 {
		return nil
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to list accounts", err)
	}
	s.log.WithFields(logrus.Fields{"unlinked": len(unlinked), "accounts": len(users)}).Debug("matching attendees to accounts")

	for _, a := range unlinked {
		u := s.match(a.FullName, users)
		if u == nil {
			s.log.WithField("full_name", a.FullName).Debug("no account matches attendee")
			continue
		}
		// First successful match is final; the link is never re-evaluated.
		if err := s.attendees.LinkUser(ctx, a.ID, u.ID, u.Username); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to link attendee", err)
		}
		s.log.WithFields(logrus.Fields{"full_name": a.FullName, "username": u.Username}).Debug("linked attendee to account")
	}
	return nil
}

func (s *matchingService) match(fullName string, users []models.User) *models.User {
	remote := strings.ToLower(fullName)
	for i := range users {
		candidate := strings.ToLower(s.candidateName(&users[i]))
		if strings.TrimSpace(candidate) == "" {
			continue
		}
		if strings.Contains(remote, candidate) {
			return &users[i]
		}
	}
	return nil
}

func (s *matchingService) candidateName(u *models.User) string {
	if s.format == config.UsernameFormatLastFirst {
		return u.LastName + " " + u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
