package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/absensi-sd-api/internal/middleware"
	"github.com/noah-isme/absensi-sd-api/internal/models"
	"github.com/noah-isme/absensi-sd-api/internal/service"
	"github.com/noah-isme/absensi-sd-api/pkg/config"
	"github.com/noah-isme/absensi-sd-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/absensi-sd-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/absensi-sd-api/pkg/middleware/requestid"
)

// Services bundles everything the router needs.
type Services struct {
	Auth       *service.AuthService
	Attendance *service.AttendanceService
	Student    *service.StudentService
	Teacher    *service.TeacherService
	Calendar   *service.CalendarService
	Report     *service.ReportService
	Message    *service.MessageService
	Sync       *service.SyncService
	Metrics    *service.MetricsService
}

// NewRouter assembles the gin engine with middleware and all routes.
func NewRouter(cfg *config.Config, logr *zap.Logger, svcs Services) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(svcs.Metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if svcs.Metrics != nil {
		r.GET("/metrics", gin.WrapH(svcs.Metrics.Handler()))
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := NewAuthHandler(svcs.Auth)
	attendanceHandler := NewAttendanceHandler(svcs.Attendance)
	studentHandler := NewStudentHandler(svcs.Student)
	teacherHandler := NewTeacherHandler(svcs.Teacher)
	calendarHandler := NewCalendarHandler(svcs.Calendar)
	reportHandler := NewReportHandler(svcs.Report)
	messageHandler := NewMessageHandler(svcs.Message)
	syncHandler := NewSyncHandler(svcs.Sync)

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(svcs.Auth))
	authed.GET("/auth/me", authHandler.Me)
	authed.PUT("/auth/password", middleware.RequireRoles(models.RoleAdmin, models.RoleWaliKelas), authHandler.ChangePassword)

	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleWaliKelas)
	admin := middleware.RequireRoles(models.RoleAdmin)

	authed.GET("/dashboard", reportHandler.Dashboard)

	authed.POST("/attendance", staff, attendanceHandler.Mark)
	authed.GET("/attendance/:classId/sheet", staff, attendanceHandler.Sheet)
	authed.GET("/attendance/:classId/recap", staff, attendanceHandler.Recap)

	authed.GET("/students", staff, studentHandler.List)
	authed.GET("/students/:id", middleware.RBAC(string(models.RoleAdmin), string(models.RoleWaliKelas), "SELF"), studentHandler.Get)
	authed.POST("/students", admin, studentHandler.Create)
	authed.PUT("/students/:id", admin, studentHandler.Update)
	authed.DELETE("/students/:id", admin, studentHandler.Delete)
	authed.POST("/students/:id/promote", admin, studentHandler.Promote)
	authed.POST("/students/:id/transfer", admin, studentHandler.Transfer)
	authed.POST("/students/import/:classId", admin, studentHandler.Import)
	authed.GET("/alumni", staff, studentHandler.Alumni)

	authed.GET("/teachers", admin, teacherHandler.List)
	authed.POST("/teachers", admin, teacherHandler.Create)
	authed.PUT("/teachers/:id", admin, teacherHandler.Update)
	authed.DELETE("/teachers/:id", admin, teacherHandler.Delete)
	authed.GET("/headmaster", staff, teacherHandler.Headmaster)
	authed.PUT("/headmaster", admin, teacherHandler.SetHeadmaster)

	authed.GET("/holidays", calendarHandler.Holidays)
	authed.POST("/holidays", admin, calendarHandler.AddHoliday)
	authed.DELETE("/holidays/:id", admin, calendarHandler.DeleteHoliday)
	authed.POST("/holidays/import", admin, calendarHandler.ImportHolidays)
	authed.GET("/academic-years", calendarHandler.Years)
	authed.POST("/academic-years", admin, calendarHandler.AddYear)
	authed.POST("/academic-years/:id/activate", admin, calendarHandler.ActivateYear)
	authed.DELETE("/academic-years/:id", admin, calendarHandler.DeleteYear)

	authed.GET("/reports/monthly", staff, reportHandler.Monthly)
	authed.GET("/reports/monthly.csv", staff, reportHandler.MonthlyCSV)
	authed.GET("/reports/monthly.pdf", staff, reportHandler.MonthlyPDF)

	authed.GET("/messages/parent/:id", staff, messageHandler.Parent)
	authed.GET("/messages/recap/:classId", staff, messageHandler.Recap)

	authed.GET("/sync/status", syncHandler.Status)
	authed.POST("/sync/push", admin, syncHandler.Push)
	authed.POST("/sync/pull", admin, syncHandler.Pull)
	authed.PUT("/sync/endpoint", admin, syncHandler.SetEndpoint)

	return r
}
