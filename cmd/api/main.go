package main

import (
	"context"
	"fmt"
	"log"

	"chums-admin/internal/apiclient"
	common_api "chums-admin/internal/common/api"
	"chums-admin/internal/config"
	"chums-admin/internal/database"
	"chums-admin/internal/features/attendance"
	"chums-admin/internal/features/audit"
	"chums-admin/internal/features/donation"
	"chums-admin/internal/features/form"
	"chums-admin/internal/features/group"
	"chums-admin/internal/features/report"
	"chums-admin/internal/features/system"
	"chums-admin/internal/logger"
	"chums-admin/internal/middleware"
	"chums-admin/pkg/utils"

	_ "chums-admin/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// AsReport adds a report definition to the "reports" group.
func AsReport(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(report.Definition)),
		fx.ResultTags(`group:"reports"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for i, route := range routes {
		log.Printf("Setting up route %d: %T\n", i+1, route)
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// NewReportRegistry collects every report definition in the "reports" group.
var NewReportRegistry = fx.Annotate(
	report.NewRegistry,
	fx.ParamTags(`group:"reports"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// StartHealthChecks schedules the upstream probes for the life of the app.
func StartHealthChecks(lc fx.Lifecycle, health system.HealthService) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return health.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return health.Stop()
		},
	})
}

// @title           Chums Admin API
// @version         1.0
// @description     Back end for the church administration screens: donations, forms, groups and attendance.

// @contact.name    API Support

// @license.name    MIT

// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Remote APIs
			apiclient.NewMetrics,
			apiclient.NewClient,

			// Initialize Repository
			audit.NewAuditRepository,
			donation.NewDonationRepository,
			form.NewFormRepository,
			group.NewGroupRepository,
			attendance.NewAttendanceRepository,

			// Reports
			donation.NewSummaryReport,
			AsReport(func(s *donation.SummaryReport) report.Definition { return s }),
			NewReportRegistry,

			audit.NewAuditService,
			report.NewReportService,
			donation.NewDonationService,
			form.NewFormService,
			group.NewGroupService,
			attendance.NewAttendanceService,
			system.NewHealthService,

			// Initialize Controller
			audit.NewAuditController,
			report.NewReportController,
			donation.NewDonationController,
			form.NewFormController,
			group.NewGroupController,
			attendance.NewAttendanceController,
			system.NewSystemController,

			// Initialize API Routes
			AsRoute(audit.NewAuditApi),
			AsRoute(report.NewReportApi),
			AsRoute(donation.NewDonationApi),
			AsRoute(form.NewFormApi),
			AsRoute(group.NewGroupApi),
			AsRoute(attendance.NewAttendanceApi),
			AsRoute(system.NewSystemApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) { utils.SetSecret(cfg.JWTSecret) },
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			StartHealthChecks,
		),
	)

	app.Run()
}
