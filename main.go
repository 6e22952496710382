package main

import (
	"log"

	"sankalp/config"
	"sankalp/database"
	"sankalp/routers"
	"sankalp/services/otp"
	"sankalp/utils"

	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger, err := utils.InitLogger(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	database.ConnectDb(cfg)

	var store otp.Store
	switch cfg.OTPBackend {
	case "redis":
		store = otp.NewRedisStore(otp.NewRedisClient(cfg.RedisAddr), "sankalp:otp:")
		logger.Info("OTP store: redis", zap.String("addr", cfg.RedisAddr))
	default:
		memory := otp.NewMemoryStore()
		sweeper, err := utils.InitializeOTPSweeper(memory, utils.OTPSweepSchedule)
		if err != nil {
			logger.Fatal("failed to start OTP sweeper", zap.Error(err))
		}
		defer sweeper.Stop()
		store = memory
		logger.Info("OTP store: memory")
	}

	services := routers.NewServices(cfg, database.Database.Db, store, utils.NewMailer(cfg))
	app := routers.NewApp(cfg, services)

	logger.Info("Server is running", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
