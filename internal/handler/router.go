package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/school-site-api/internal/middleware"
	"github.com/noah-isme/school-site-api/internal/service"
	"github.com/noah-isme/school-site-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/school-site-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/school-site-api/pkg/middleware/requestid"
)

// DefaultLoginRedirect is where unauthenticated browsers are sent.
const DefaultLoginRedirect = "/admin/login"

// Handlers groups every HTTP handler mounted by NewRouter.
type Handlers struct {
	Auth       *AuthHandler
	Teachers   *TeacherHandler
	News       *NewsHandler
	Showcase   *ShowcaseHandler
	Site       *SiteHandler
	Students   *StudentHandler
	Results    *ResultsHandler
	Admissions *AdmissionHandler
	Contacts   *ContactHandler
	Assistant  *AssistantHandler
	Data       *DataHandler
	Dashboard  *DashboardHandler
	Metrics    *MetricsHandler
	Media      *MediaHandler
}

// RouterConfig carries the transport settings of the router.
type RouterConfig struct {
	APIPrefix      string
	MediaPath      string
	LoginRedirect  string
	AllowedOrigins []string
	EnableDocs     bool
	// MaxBodyBytes bounds request bodies; zero disables the limit.
	MaxBodyBytes int64
	Logger       *zap.Logger
	Tokens       middleware.TokenValidator
	Audit        middleware.AuditRecorder
	Metrics      *service.MetricsService
}

// NewRouter builds the gin engine with public, admin and operational routes.
func NewRouter(cfg RouterConfig, h Handlers) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.LoginRedirect == "" {
		cfg.LoginRedirect = DefaultLoginRedirect
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(cfg.Logger))
	r.Use(corsmiddleware.New(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))
	if cfg.MaxBodyBytes > 0 {
		r.MaxMultipartMemory = cfg.MaxBodyBytes
		r.Use(limitBody(cfg.MaxBodyBytes))
	}

	r.GET("/health", h.Metrics.Health)
	r.GET("/metrics", h.Metrics.Prometheus)
	if cfg.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if h.Media != nil && cfg.MediaPath != "" {
		r.GET(strings.TrimRight(cfg.MediaPath, "/")+"/*filepath", h.Media.Serve)
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())
	registerPublicRoutes(api, h)

	api.POST("/admin/login", h.Auth.Login)
	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuth(cfg.Tokens, cfg.LoginRedirect))
	registerAdminRoutes(admin, h, cfg.Audit)

	return r
}

func registerPublicRoutes(api *gin.RouterGroup, h Handlers) {
	api.GET("/settings", h.Site.Settings)
	api.GET("/teachers", h.Teachers.List)
	api.GET("/teachers/:id", h.Teachers.Get)
	api.GET("/news", h.News.ListNews)
	api.GET("/news/:id", h.News.GetNews)
	api.GET("/events", h.News.ListEvents)
	api.GET("/events/:id", h.News.GetEvent)
	api.GET("/gallery", h.Showcase.Gallery)
	api.GET("/announcements", h.Showcase.Announcements)
	api.GET("/toppers", h.Showcase.Toppers)
	api.GET("/testimonials", h.Showcase.Testimonials)
	api.GET("/faq", h.Site.ListFAQ)
	api.GET("/faq/:id", h.Site.GetFAQ)

	api.GET("/results", h.Results.Lookup)
	api.GET("/results/metadata", h.Site.ResultsMetadata)
	api.GET("/results/report-card.pdf", h.Results.ReportCardPDF)

	api.POST("/contact", h.Contacts.Submit)
	api.POST("/admissions", h.Admissions.Submit)

	api.POST("/search", h.Assistant.Search)
	api.POST("/faq-assistant", h.Assistant.FAQ)
}

func registerAdminRoutes(admin *gin.RouterGroup, h Handlers, recorder middleware.AuditRecorder) {
	admin.GET("/me", h.Auth.Me)
	admin.POST("/logout", h.Auth.Logout)
	admin.GET("/dashboard", h.Dashboard.Admin)
	admin.GET("/audit-logs", h.Dashboard.AuditLogs)
	admin.GET("/feed", h.Metrics.Feed)

	teachers := admin.Group("/teachers", middleware.Audit(recorder, "teachers"))
	teachers.GET("", h.Teachers.AdminList)
	teachers.GET("/:id", h.Teachers.AdminGet)
	teachers.POST("", h.Teachers.Create)
	teachers.PUT("/:id", h.Teachers.Update)
	teachers.DELETE("/:id", h.Teachers.Delete)

	news := admin.Group("/news", middleware.Audit(recorder, "news"))
	news.POST("", h.News.CreateNews)
	news.PUT("/:id", h.News.UpdateNews)
	news.DELETE("/:id", h.News.DeleteNews)

	events := admin.Group("/events", middleware.Audit(recorder, "events"))
	events.POST("", h.News.CreateEvent)
	events.PUT("/:id", h.News.UpdateEvent)
	events.DELETE("/:id", h.News.DeleteEvent)

	gallery := admin.Group("/gallery", middleware.Audit(recorder, "gallery"))
	gallery.POST("", h.Showcase.CreateGalleryImage)
	gallery.DELETE("/:id", h.Showcase.DeleteGalleryImage)

	announcements := admin.Group("/announcements", middleware.Audit(recorder, "announcements"))
	announcements.POST("", h.Showcase.CreateAnnouncement)
	announcements.DELETE("/:id", h.Showcase.DeleteAnnouncement)

	toppers := admin.Group("/toppers", middleware.Audit(recorder, "toppers"))
	toppers.POST("", h.Showcase.CreateTopper)
	toppers.DELETE("/:id", h.Showcase.DeleteTopper)

	testimonials := admin.Group("/testimonials", middleware.Audit(recorder, "testimonials"))
	testimonials.POST("", h.Showcase.CreateTestimonial)
	testimonials.DELETE("/:id", h.Showcase.DeleteTestimonial)

	faq := admin.Group("/faq", middleware.Audit(recorder, "faq"))
	faq.POST("", h.Site.CreateFAQ)
	faq.PUT("/:id", h.Site.UpdateFAQ)
	faq.DELETE("/:id", h.Site.DeleteFAQ)

	admin.PUT("/settings", middleware.Audit(recorder, "settings"), h.Site.UpdateSettings)

	students := admin.Group("/students", middleware.Audit(recorder, "students"))
	students.GET("", h.Students.List)
	students.DELETE("/:id", h.Students.Delete)
	students.GET("/:id/results/:resultId", h.Students.GetReportCard)
	students.PUT("/:id/results/:resultId", h.Students.UpdateReportCard)
	students.DELETE("/:id/results/:resultId", h.Students.DeleteReportCard)
	students.GET("/:id/results/:resultId/pdf", h.Students.ReportCardPDF)

	imports := admin.Group("/import", middleware.Audit(recorder, "imports"))
	imports.POST("/teachers", h.Data.ImportTeachers)
	imports.POST("/students", h.Data.ImportStudents)
	imports.POST("/results", h.Data.ImportResults)
	admin.GET("/export/teachers.csv", h.Data.ExportTeachers)
	admin.GET("/export/students.csv", h.Data.ExportStudents)

	admissions := admin.Group("/admissions", middleware.Audit(recorder, "admissions"))
	admissions.GET("", h.Admissions.List)
	admissions.GET("/documents/:token", h.Admissions.Document)
	admissions.GET("/:id", h.Admissions.Get)
	admissions.GET("/:id/document", h.Admissions.DocumentLink)
	admissions.POST("/:id/approve", h.Admissions.Approve)
	admissions.POST("/:id/reject", h.Admissions.Reject)

	contacts := admin.Group("/contacts", middleware.Audit(recorder, "contacts"))
	contacts.GET("", h.Contacts.List)
	contacts.DELETE("/:id", h.Contacts.Delete)
}

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
