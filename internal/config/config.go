package config

import (
	"time"

	"go-university-etl/pkg/utils"
)

// Config holds every runtime setting, read from environment variables
// with defaults that work out of the box.
type Config struct {
	Addr string

	// Extractor
	APIURL         string
	RequestTimeout time.Duration
	MaxAttempts    int
	BaseDelay      time.Duration
	MaxDelay       time.Duration

	// Loader
	DataDir         string
	BackupDir       string
	BackupRetention int

	// Run-history store
	DBPath string

	// Scheduler
	ScheduleHour   int
	ScheduleMinute int
	Timezone       string
	HistoryCap     int
	AutoStart      bool
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		Addr: utils.Getenv("ETL_ADDR", ":8080"),

		APIURL:         utils.Getenv("ETL_API_URL", "http://universities.hipolabs.com/search?country=United+States"),
		RequestTimeout: utils.GetenvDuration("ETL_REQUEST_TIMEOUT", 30*time.Second),
		MaxAttempts:    utils.GetenvInt("ETL_MAX_ATTEMPTS", 3),
		BaseDelay:      utils.GetenvDuration("ETL_RETRY_BASE_DELAY", time.Second),
		MaxDelay:       utils.GetenvDuration("ETL_RETRY_MAX_DELAY", 10*time.Second),

		DataDir:         utils.Getenv("ETL_DATA_DIR", "data"),
		BackupDir:       utils.Getenv("ETL_BACKUP_DIR", "data/backups"),
		BackupRetention: utils.GetenvInt("ETL_BACKUP_RETENTION", 20),

		DBPath: utils.Getenv("ETL_DB_PATH", "etl.db"),

		ScheduleHour:   utils.GetenvInt("ETL_SCHEDULE_HOUR", 2),
		ScheduleMinute: utils.GetenvInt("ETL_SCHEDULE_MINUTE", 0),
		Timezone:       utils.Getenv("ETL_TIMEZONE", "UTC"),
		HistoryCap:     utils.GetenvInt("ETL_HISTORY_CAP", 10),
		AutoStart:      utils.GetenvBool("ETL_SCHEDULER_AUTOSTART", true),
	}
}
