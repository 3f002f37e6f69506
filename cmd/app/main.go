package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"fulfillment/cmd"
	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/notify"
	"fulfillment/internal/adapters/out/postgres/healingrepo"
	"fulfillment/internal/adapters/out/postgres/ledgerrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/retailerrepo"
	"fulfillment/internal/adapters/out/postgres/settingsrepo"
	"fulfillment/internal/adapters/out/postgres/vendorrepo"
	"fulfillment/internal/adapters/out/postgres/windowrepo"
	"fulfillment/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	_ "github.com/lib/pq"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := openDatabase(configs)
	migrateDatabase(gormDB)

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Failed to build composition root: %v", err)
	}

	jobManager := jobs.NewJobManager(
		app.CreateScanTimeoutsCommandHandler(),
		app.CreateHealStuckOrdersCommandHandler(),
		app.CreateDecayVendorScoresCommandHandler(),
		logger,
	)
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE"),

		VendorGatewayURL: goDotEnvVariable("VENDOR_GATEWAY_URL"),
		AdminAlertURL:    goDotEnvVariable("ADMIN_ALERT_URL"),
		EventSinkURL:     goDotEnvVariable("EVENT_SINK_URL"),

		VendorResponseTimeout:    envDuration("VENDOR_RESPONSE_TIMEOUT", 10*time.Minute),
		MaxRoutingAttempts:       envInt("MAX_ROUTING_ATTEMPTS", 5),
		NotifyAdminAfterAttempts: envInt("NOTIFY_ADMIN_AFTER_ATTEMPTS", 3),
		MinReliability:           envFloat("MIN_RELIABILITY", 30),

		RoutingStallAfter:  envDuration("ROUTING_STALL_AFTER", 30*time.Minute),
		WorkflowStallAfter: envDuration("WORKFLOW_STALL_AFTER", 4*time.Hour),
		ScanBatchSize:      envInt("SCAN_BATCH_SIZE", 50),
		ScoreDecayAfter:    envDuration("SCORE_DECAY_AFTER", 7*24*time.Hour),
		ScoreDecayFactor:   envFloat("SCORE_DECAY_FACTOR", 0.1),

		TierACeiling: int64(envInt("TIER_A_CEILING_CENTS", 0)),
		TierBCeiling: int64(envInt("TIER_B_CEILING_CENTS", 5000000)),
		TierCCeiling: int64(envInt("TIER_C_CEILING_CENTS", 1000000)),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := goDotEnvVariable(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("Invalid duration for %s: %v", key, err)
	}
	return d
}

func envInt(key string, fallback int) int {
	raw := goDotEnvVariable(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Invalid integer for %s: %v", key, err)
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	raw := goDotEnvVariable(key)
	if raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Fatalf("Invalid float for %s: %v", key, err)
	}
	return f
}

// openDatabase connects through lib/pq so driver errors surface as
// *pq.Error; TranslateError additionally maps them onto GORM's sentinels.
func openDatabase(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	gormDB, err := gorm.Open(
		gormpostgres.New(gormpostgres.Config{Conn: sqlDB}),
		&gorm.Config{TranslateError: true},
	)
	if err != nil {
		log.Fatalf("Failed to connect GORM: %v", err)
	}

	return gormDB
}

func migrateDatabase(gormDB *gorm.DB) {
	err := gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&orderrepo.StatusLogDTO{},
		&retailerrepo.RetailerDTO{},
		&ledgerrepo.EntryDTO{},
		&vendorrepo.VendorDTO{},
		&vendorrepo.ScoreDTO{},
		&vendorrepo.StockDTO{},
		&windowrepo.WindowDTO{},
		&healingrepo.ActionDTO{},
		&settingsrepo.SettingsDTO{},
		&notify.DeadLetterDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// AutoMigrate cannot express a partial index; the open-action guard
	// that makes healing claims race-safe is created directly.
	err = gormDB.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_healing_actions_open " +
			"ON healing_actions (order_id) WHERE status = 'IN_PROGRESS'").Error
	if err != nil {
		log.Fatalf("Failed to create healing claim index: %v", err)
	}
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server := httpin.NewServer(
		app.CreateCreateOrderCommandHandler(),
		app.CreateRouteOrderCommandHandler(),
		app.CreateRecordVendorResponseCommandHandler(),
		app.CreateTransitionOrderCommandHandler(),
		app.CreateAssignVendorManuallyCommandHandler(),
		app.CreateRecordPaymentCommandHandler(),
		app.CreateReverseLedgerEntryCommandHandler(),
		app.CreateVerifyLedgerCommandHandler(),
		app.CreateSetLedgerFreezeCommandHandler(),
		app.CreateSetSafeModeCommandHandler(),
		app.CreateGetRetailerLedgerQueryHandler(),
		app.CreateGetVendorRankingQueryHandler(),
		app.CreateGetActiveOrdersQueryHandler(),
		app.CreateGetInterventionLogQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
