package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/agenda-facil/internal/config"
	"github.com/BruksfildServices01/agenda-facil/internal/models"
)

// activeSlotIndex keeps at most one pending/confirmed appointment per slot.
const activeSlotIndex = `
	CREATE UNIQUE INDEX IF NOT EXISTS ux_appointments_active_slot
	ON appointments (profile_id, appointment_date, appointment_time)
	WHERE status IN ('pending', 'confirmed')
`

func NewDB(cfg *config.Config, log *zap.Logger) *gorm.DB {
	gormLog := logger.Default.LogMode(logger.Warn)
	if cfg.IsProduction() {
		gormLog = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormLog,
	})
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", zap.Error(err))
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db, cfg.DefaultTimezone); err != nil {
		log.Fatal("failed to migrate", zap.Error(err))
	}

	return db
}

// Migrate creates the schema and the active-slot index.
func Migrate(db *gorm.DB, defaultTZ string) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Service{},
		&models.AvailableHour{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	if err := db.Exec(activeSlotIndex).Error; err != nil {
		return err
	}

	return db.Exec(`
		UPDATE profiles
		SET timezone = ?
		WHERE timezone IS NULL OR timezone = ''
	`, defaultTZ).Error
}
