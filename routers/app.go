// Package routers assembles the fiber application.
package routers

import (
	"errors"
	"time"

	"sankalp/config"
	authController "sankalp/controllers/auth"
	controllers "sankalp/controllers/course"
	registrationController "sankalp/controllers/registration"
	"sankalp/middleware"
	"sankalp/routers/authRoutes"
	"sankalp/routers/courseRoutes"
	"sankalp/routers/registrationRoutes"
	"sankalp/services/account"
	"sankalp/services/catalog"
	"sankalp/services/certificate"
	"sankalp/services/otp"
	"sankalp/services/registration"
	"sankalp/services/videotoken"
	"sankalp/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Services bundles everything the handlers depend on.
type Services struct {
	Accounts      *account.Service
	Registrations *registration.Service
	Catalog       *catalog.Service
	Videos        *videotoken.Service
	Certificates  *certificate.Service
}

func NewServices(cfg *config.Config, db *gorm.DB, otpStore otp.Store, mailer utils.Mailer) Services {
	notifier := utils.NewNotifier(mailer, cfg.ContactInbox)
	otps := otp.NewService(otpStore, cfg.OTPTTL)

	return Services{
		Accounts:      account.NewService(db, otps, notifier, cfg.SaltRound),
		Registrations: registration.NewService(db, notifier, cfg.ReferralReward),
		Catalog:       catalog.NewService(db),
		Videos:        videotoken.NewService(db, videotoken.NewIssuer(cfg.JWTKey, cfg.VideoTokenTTL)),
		Certificates:  certificate.NewService(db, certificate.NewRenderer(cfg.CertificateServiceURL, 30*time.Second)),
	}
}

// NewApp builds the fiber app with every route mounted under /api.
func NewApp(cfg *config.Config, svc Services) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	adminOnly := middleware.AdminOnly(cfg.AdminPassword)

	authRoutes.SetupAuthRoutes(api,
		authController.NewHandler(svc.Accounts, cfg.AdminEmail, cfg.AdminPassword),
		otpLimiter(cfg.RateLimitPerMin))
	registrationRoutes.SetupRegistrationRoutes(api,
		registrationController.NewHandler(svc.Registrations), adminOnly)
	courseRoutes.SetupCourseRoutes(api, controllers.NewCourseHandler(svc.Catalog), adminOnly)
	courseRoutes.SetupVideoRoutes(api, controllers.NewVideoHandler(svc.Videos))
	courseRoutes.SetupCertificateRoutes(api, controllers.NewCertificateHandler(svc.Certificates))

	return app
}

// otpLimiter throttles the routes that send email, per client IP.
func otpLimiter(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return middleware.JsonResponse(c, fiber.StatusTooManyRequests, false, "Too many requests, please try again later", nil)
		},
	})
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	return middleware.JsonResponse(c, code, false, message, nil)
}
