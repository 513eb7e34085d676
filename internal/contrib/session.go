package contrib

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Session holds the whole-repository author sets shared across one
// planning run: who committed anywhere in the trailing active window,
// and who ever committed. Both are expensive whole-history scans, so
// they are computed once on first use and read-only afterwards. A
// Session is passed explicitly to the scorer and assignment engine;
// it is never a process-wide singleton.
type Session struct {
	git          Queries
	log          *logrus.Logger
	activeMonths int
	now          func() time.Time

	activeOnce sync.Once
	active     map[string]bool
	activeErr  error

	allOnce sync.Once
	all     map[string]bool
	allErr  error
}

// NewSession creates a session with the given active-contributor window.
func NewSession(git Queries, activeMonths int, log *logrus.Logger) *Session {
	if log == nil {
		log = logrus.New()
	}
	if activeMonths < 1 {
		activeMonths = 3
	}
	return &Session{git: git, log: log, activeMonths: activeMonths, now: time.Now}
}

// ActiveAuthors returns the set of authors with at least one commit
// repository-wide within the active window.
func (s *Session) ActiveAuthors(ctx context.Context) (map[string]bool, error) {
	s.activeOnce.Do(func() {
		since := s.now().AddDate(0, -s.activeMonths, 0)
		authors, err := s.git.RepoAuthors(ctx, since)
		if err != nil {
			s.activeErr = err
			return
		}
		s.active = toSet(authors)
		s.log.WithField("count", len(s.active)).Debug("computed active contributor set")
	})
	return s.active, s.activeErr
}

// AllAuthors returns the set of every author in repository history.
func (s *Session) AllAuthors(ctx context.Context) (map[string]bool, error) {
	s.allOnce.Do(func() {
		authors, err := s.git.RepoAuthors(ctx, time.Time{})
		if err != nil {
			s.allErr = err
			return
		}
		s.all = toSet(authors)
		s.log.WithField("count", len(s.all)).Debug("computed all-time contributor set")
	})
	return s.all, s.allErr
}

// InactiveAuthors returns all-time authors absent from the active set.
func (s *Session) InactiveAuthors(ctx context.Context) (map[string]bool, error) {
	active, err := s.ActiveAuthors(ctx)
	if err != nil {
		return nil, err
	}
	all, err := s.AllAuthors(ctx)
	if err != nil {
		return nil, err
	}
	inactive := make(map[string]bool)
	for a := range all {
		if !active[a] {
			inactive[a] = true
		}
	}
	return inactive, nil
}

func toSet(authors []string) map[string]bool {
	set := make(map[string]bool, len(authors))
	for _, a := range authors {
		set[a] = true
	}
	return set
}
