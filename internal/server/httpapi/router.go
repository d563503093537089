package httpapi

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sibeni-li/khronos/internal/logging"
	"github.com/sibeni-li/khronos/internal/server/models"
	"github.com/sibeni-li/khronos/internal/server/services"
	"github.com/sibeni-li/khronos/internal/server/stats"
)

// Accounts is implemented by *services.UserService.
type Accounts interface {
	Register(ctx context.Context, username, password, confirmation string) (*models.User, string, error)
	Login(ctx context.Context, username, password string) (string, error)
	UserIDFromToken(token string) (int64, error)
}

// Uploads is implemented by *services.IngestService.
type Uploads interface {
	Ingest(ctx context.Context, userID int64, filename string, raw []byte) (*services.Receipt, error)
}

// Reports is implemented by *services.ReportService.
type Reports interface {
	Dashboard(ctx context.Context, userID int64) (stats.Summary, error)
	History(ctx context.Context, userID int64) ([]*models.Analysis, error)
	Report(ctx context.Context, userID, analysisID int64) (*services.AnalysisReport, error)
}

// Library is implemented by *services.ObjectStore.
type Library interface {
	LibraryURL(ctx context.Context) (string, error)
}

// Pinger is implemented by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Deps struct {
	Accounts      Accounts
	Uploads       Uploads
	Reports       Reports
	Library       Library
	DB            Pinger
	Logger        logging.Logger
	MaxUploadSize int64
}

type handler struct {
	Deps
	log logging.Logger
}

// NewRouter builds the gin engine with every route and middleware.
func NewRouter(d Deps) *gin.Engine {
	h := &handler{Deps: d, log: d.Logger.With("module", "http")}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger(h.log), noCache())

	r.GET("/healthz", h.health)
	r.GET("/download", h.download)

	api := r.Group("/api")
	api.POST("/register", h.register)
	api.POST("/login", h.login)

	authed := api.Group("", authRequired(d.Accounts))
	authed.POST("/upload", bodyLimit(d.MaxUploadSize), h.upload)
	authed.GET("/dashboard", h.dashboard)
	authed.GET("/history", h.history)
	authed.GET("/analyses/:id", h.report)

	return r
}
