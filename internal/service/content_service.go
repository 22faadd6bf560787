package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/school-site-api/internal/models"
	"github.com/noah-isme/school-site-api/internal/repository"
	appErrors "github.com/noah-isme/school-site-api/pkg/errors"
)

// ContentReader is the read side of the content repository.
type ContentReader interface {
	repository.ChildReader
	Document(ctx context.Context, path string, dest interface{}) (bool, error)
}

// ContentService serves site content, reading collections through the cache
// when it is enabled.
type ContentService struct {
	repo   ContentReader
	cache  *CacheService
	logger *zap.Logger
}

// NewContentService constructs the content read service.
func NewContentService(repo ContentReader, cache *CacheService, logger *zap.Logger) *ContentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentService{repo: repo, cache: cache, logger: logger}
}

// snapshot returns the raw children of path from cache or the store.
func (s *ContentService) snapshot(ctx context.Context, path string) (map[string]json.RawMessage, bool) {
	key := snapshotKey(path)
	var cached map[string]json.RawMessage
	if s.cache.Lookup(ctx, key, &cached) {
		return cached, true
	}
	children := s.repo.Children(ctx, path)
	if len(children) > 0 {
		s.cache.Remember(ctx, key, children, 0)
	}
	return children, false
}

func listCollection[T any](ctx context.Context, s *ContentService, c models.Collection) ([]T, bool) {
	children, hit := s.snapshot(ctx, c.Path())
	return repository.DecodeChildren[T](s.logger, c.Path(), children), hit
}

// SiteSettings returns the site settings document, or nil when none exist yet.
func (s *ContentService) SiteSettings(ctx context.Context) (*models.SiteSettings, bool, error) {
	key := snapshotKey(models.PathSiteSettings)
	var settings models.SiteSettings
	if s.cache.Lookup(ctx, key, &settings) {
		return &settings, true, nil
	}
	found, err := s.repo.Document(ctx, models.PathSiteSettings, &settings)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load site settings")
	}
	if !found {
		return nil, false, nil
	}
	s.cache.Remember(ctx, key, settings, 0)
	return &settings, false, nil
}

// PublicResultsMetadata returns the free-form results metadata document.
func (s *ContentService) PublicResultsMetadata(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	found, err := s.repo.Document(ctx, models.PathPublicResultsMetadata, &raw)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load results metadata")
	}
	if !found {
		return json.RawMessage(`{}`), nil
	}
	return raw, nil
}

// Teachers returns the directory without private fields.
func (s *ContentService) Teachers(ctx context.Context) ([]models.Teacher, bool) {
	teachers, hit := listCollection[models.Teacher](ctx, s, models.CollectionTeachers)
	return models.PublicTeachers(teachers), hit
}

// AdminTeachers returns teachers including contact and salary.
func (s *ContentService) AdminTeachers(ctx context.Context) ([]models.Teacher, bool) {
	return listCollection[models.Teacher](ctx, s, models.CollectionTeachers)
}

// Teacher returns one teacher. Private fields are kept only when includePrivate is set.
func (s *ContentService) Teacher(ctx context.Context, id string, includePrivate bool) (*models.Teacher, error) {
	teacher := repository.FetchItem[models.Teacher](ctx, s.repo, models.CollectionTeachers.Path(), id)
	if teacher == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	if !includePrivate {
		public := teacher.Public()
		return &public, nil
	}
	return teacher, nil
}

// News returns articles newest first.
func (s *ContentService) News(ctx context.Context) ([]models.News, bool) {
	news, hit := listCollection[models.News](ctx, s, models.CollectionNews)
	sort.SliceStable(news, func(i, j int) bool { return news[i].Date > news[j].Date })
	return news, hit
}

// NewsItem returns one article.
func (s *ContentService) NewsItem(ctx context.Context, id string) (*models.News, error) {
	item := repository.FetchItem[models.News](ctx, s.repo, models.CollectionNews.Path(), id)
	if item == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "news article not found")
	}
	return item, nil
}

// Events returns events ordered by date.
func (s *ContentService) Events(ctx context.Context) ([]models.Event, bool) {
	events, hit := listCollection[models.Event](ctx, s, models.CollectionEvents)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Date < events[j].Date })
	return events, hit
}

// Event returns one event.
func (s *ContentService) Event(ctx context.Context, id string) (*models.Event, error) {
	item := repository.FetchItem[models.Event](ctx, s.repo, models.CollectionEvents.Path(), id)
	if item == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	return item, nil
}

func (s *ContentService) Gallery(ctx context.Context) ([]models.GalleryImage, bool) {
	return listCollection[models.GalleryImage](ctx, s, models.CollectionGallery)
}

func (s *ContentService) Announcements(ctx context.Context) ([]models.Announcement, bool) {
	return listCollection[models.Announcement](ctx, s, models.CollectionAnnouncements)
}

func (s *ContentService) Toppers(ctx context.Context) ([]models.Topper, bool) {
	return listCollection[models.Topper](ctx, s, models.CollectionToppers)
}

func (s *ContentService) Testimonials(ctx context.Context) ([]models.Testimonial, bool) {
	return listCollection[models.Testimonial](ctx, s, models.CollectionTestimonials)
}

func (s *ContentService) FAQs(ctx context.Context) ([]models.FAQ, bool) {
	return listCollection[models.FAQ](ctx, s, models.CollectionFAQ)
}

// FAQ returns one question.
func (s *ContentService) FAQ(ctx context.Context, id string) (*models.FAQ, error) {
	item := repository.FetchItem[models.FAQ](ctx, s.repo, models.CollectionFAQ.Path(), id)
	if item == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "faq not found")
	}
	return item, nil
}

// Students returns every student with their report cards.
func (s *ContentService) Students(ctx context.Context) ([]models.Student, bool) {
	students, hit := listCollection[models.Student](ctx, s, models.CollectionStudents)
	for i := range students {
		for id, card := range students[i].Results {
			card.ID = id
			students[i].Results[id] = card
		}
	}
	return students, hit
}

// ReportCard returns one report card of a student.
func (s *ContentService) ReportCard(ctx context.Context, studentID, resultID string) (*models.ReportCard, *models.Student, error) {
	student := repository.FetchItem[models.Student](ctx, s.repo, models.CollectionStudents.Path(), studentID)
	if student == nil {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	card, ok := student.Results[resultID]
	if !ok {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "report card not found")
	}
	card.ID = resultID
	return &card, student, nil
}

// LookupResults finds a student by roll number, case-insensitively, and
// returns the sessions on record plus the report card for session when given.
func (s *ContentService) LookupResults(ctx context.Context, rollNumber, session string) (*models.ResultLookup, error) {
	rollNumber = strings.TrimSpace(rollNumber)
	if rollNumber == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "roll number is required")
	}
	students, _ := s.Students(ctx)
	var student *models.Student
	for i := range students {
		if strings.EqualFold(students[i].ID, rollNumber) || strings.EqualFold(students[i].RollNumber, rollNumber) {
			student = &students[i]
			break
		}
	}
	if student == nil || len(student.Results) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "No results found for this roll number.")
	}

	lookup := &models.ResultLookup{
		Student: models.StudentSummary{
			ID:         student.ID,
			Name:       student.Name,
			RollNumber: firstNonEmpty(student.RollNumber, student.ID),
			Class:      student.Class,
		},
	}
	seen := make(map[string]struct{})
	ids := make([]string, 0, len(student.Results))
	for id := range student.Results {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		card := student.Results[id]
		if _, ok := seen[card.Session]; !ok && card.Session != "" {
			seen[card.Session] = struct{}{}
			lookup.Sessions = append(lookup.Sessions, card.Session)
		}
		if session != "" && strings.EqualFold(card.Session, session) && lookup.Report == nil {
			report := card
			lookup.Report = &report
		}
	}
	sort.Strings(lookup.Sessions)
	if session != "" && lookup.Report == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "No report card found for this session.")
	}
	return lookup, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
