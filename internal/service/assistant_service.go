package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/school-site-api/pkg/errors"
	"github.com/noah-isme/school-site-api/pkg/llm"
)

const (
	msgFAQFailed    = "Sorry, I was unable to find an answer to your question."
	msgSearchFailed = "An error occurred during the search. Please try again."
)

var (
	faqPrompt = template.Must(template.New("faq").Parse(`You are an AI assistant for a school website. Your goal is to answer user questions about the school, its policies, admissions process, or events.
You have access to the following data sources:
- Site Settings: {{.SiteSettings}}
- Events Data: {{.Events}}
- Teachers Data: {{.Teachers}}
- FAQ Data: {{.FAQ}}
- Public Results Metadata: {{.ResultsMetadata}}
- Announcements Data: {{.Announcements}}
- Students Data: {{.Students}}
Use the data to provide helpful and informative answers to the user.
If you cannot answer the question based on the data provided, respond that you are unable to find the answer to the question.
The news section has been removed, do not mention it.
Question: {{.Query}}`))

	searchPrompt = template.Must(template.New("search").Parse(`You are an AI-powered search assistant for a school website.
Your goal is to provide relevant search results based on the user's query using both semantic and keyword search.
You have access to the following data sources:
- Site Settings: {{.SiteSettings}}
- Events: {{.Events}}
{{if .News}}- News: {{.News}}
{{end}}- Teachers: {{.Teachers}}
- FAQ: {{.FAQ}}
- Public Results Metadata: {{.ResultsMetadata}}
- Announcements: {{.Announcements}}
- Students Data (including grades): {{.Students}}
Use the data to provide the most relevant search results to the user, considering both the meaning of the query and specific keywords.
If the user asks about a specific student's grades, provide the grades from the 'studentsData'.
If the query is not relevant to the data provided, respond that you are unable to find results for the query.
The news section has been removed, do not mention it.
Query: {{.Query}}`))

	faqSchema    = llm.StringObject("answer", "The answer to the user question.")
	searchSchema = llm.StringObject("results", "The search results based on the query.")
)

// LanguageModel produces structured JSON answers.
type LanguageModel interface {
	GenerateJSON(ctx context.Context, prompt string, schema llm.Schema, dest interface{}) error
}

// siteContext is the serialised site data handed to the model.
type siteContext struct {
	Query           string
	SiteSettings    string
	Events          string
	News            string
	Teachers        string
	FAQ             string
	ResultsMetadata string
	Announcements   string
	Students        string
}

// AssistantService answers visitor questions with the hosted model.
type AssistantService struct {
	model   LanguageModel
	content *ContentService
	metrics *MetricsService
	logger  *zap.Logger
}

// NewAssistantService constructs an AssistantService. A nil model makes every
// call fail with the generic message.
func NewAssistantService(model LanguageModel, content *ContentService, metrics *MetricsService, logger *zap.Logger) *AssistantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssistantService{model: model, content: content, metrics: metrics, logger: logger}
}

// AskFAQ answers a question. News is withheld from this flow.
func (s *AssistantService) AskFAQ(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "Please enter a question.")
	}
	data := s.gather(ctx, query, false)
	var out struct {
		Answer string `json:"answer"`
	}
	if err := s.generate(ctx, "faq", faqPrompt, data, faqSchema, &out); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, msgFAQFailed)
	}
	return out.Answer, nil
}

// SmartSearch answers a search query. An empty query yields an empty result.
func (s *AssistantService) SmartSearch(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}
	data := s.gather(ctx, query, true)
	var out struct {
		Results string `json:"results"`
	}
	if err := s.generate(ctx, "search", searchPrompt, data, searchSchema, &out); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, msgSearchFailed)
	}
	return out.Results, nil
}

func (s *AssistantService) generate(ctx context.Context, flow string, tmpl *template.Template, data siteContext, schema llm.Schema, dest interface{}) error {
	if s.model == nil {
		return errors.New("language model not configured")
	}
	var prompt bytes.Buffer
	if err := tmpl.Execute(&prompt, data); err != nil {
		return err
	}
	start := time.Now()
	err := s.model.GenerateJSON(ctx, prompt.String(), schema, dest)
	s.metrics.ObserveAIRequest(flow, err == nil, time.Since(start))
	if err != nil {
		s.logger.Error("assistant request failed", zap.String("flow", flow), zap.Error(err))
	}
	return err
}

// gather serialises the site data used as model context.
func (s *AssistantService) gather(ctx context.Context, query string, includeNews bool) siteContext {
	settings, _, err := s.content.SiteSettings(ctx)
	if err != nil {
		s.logger.Warn("site settings unavailable for assistant", zap.Error(err))
	}
	metadata, err := s.content.PublicResultsMetadata(ctx)
	if err != nil {
		metadata = json.RawMessage(`{}`)
	}
	events, _ := s.content.Events(ctx)
	teachers, _ := s.content.Teachers(ctx)
	faqs, _ := s.content.FAQs(ctx)
	announcements, _ := s.content.Announcements(ctx)
	students, _ := s.content.Students(ctx)

	data := siteContext{
		Query:           query,
		SiteSettings:    s.marshal(settings),
		Events:          s.marshal(events),
		News:            "",
		Teachers:        s.marshal(teachers),
		FAQ:             s.marshal(faqs),
		ResultsMetadata: string(metadata),
		Announcements:   s.marshal(announcements),
		Students:        s.marshal(students),
	}
	if includeNews {
		news, _ := s.content.News(ctx)
		data.News = s.marshal(news)
	}
	return data
}

func (s *AssistantService) marshal(v interface{}) string {
	raw, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("marshal assistant context failed", zap.Error(err))
		return "[]"
	}
	return string(raw)
}
