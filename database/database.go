package database

import (
	"log"
	"strings"

	"timecard/models"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the database, migrates the schema and seeds the default admin
// and job-site catalog. Postgres DSNs use the postgres driver; anything else
// is treated as a sqlite path, which keeps local development and tests free
// of a running server.
func Init(dsn string) error {
	dialector := openDialector(dsn)

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return err
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Crew{},
		&models.CrewSupervisor{},
		&models.Invite{},
		&models.JobSite{},
		&models.Task{},
		&models.TimeEvent{},
		&models.ApprovalRecord{},
	)
	if err != nil {
		return err
	}

	if err := seedDefaultAdmin(); err != nil {
		return err
	}
	return seedDefaultJobSites()
}

func openDialector(dsn string) gorm.Dialector {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return postgres.Open(dsn)
	}
	return sqlite.Open(dsn)
}

func seedDefaultAdmin() error {
	var count int64
	DB.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count > 0 {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:           "admin",
		FullName:           "Administrator",
		PasswordHash:       string(hashedPassword),
		Role:               models.RoleAdmin,
		MustChangePassword: true,
	}

	if result := DB.Create(&admin); result.Error != nil {
		return result.Error
	}

	log.Println("Default admin user created (username: admin, password: admin)")
	return nil
}

func seedDefaultJobSites() error {
	var count int64
	DB.Model(&models.JobSite{}).Count(&count)
	if count > 0 {
		return nil
	}

	sites := []models.JobSite{
		{
			Name:                  "Downtown Office Building",
			Address:               "123 Main St, Downtown",
			Latitude:              37.7749,
			Longitude:             -122.4194,
			ProximityRadiusMeters: models.DefaultProximityRadiusMeters,
			Tasks: []models.Task{
				{Name: "General Construction"},
				{Name: "Electrical Work"},
				{Name: "Plumbing"},
			},
		},
		{
			Name:                  "Residential Complex",
			Address:               "456 Oak Ave, Suburbs",
			Latitude:              37.7849,
			Longitude:             -122.4094,
			ProximityRadiusMeters: models.DefaultProximityRadiusMeters,
			Tasks: []models.Task{
				{Name: "Framing"},
				{Name: "Roofing"},
				{Name: "Landscaping"},
			},
		},
		{
			Name:                  "Industrial Warehouse",
			Address:               "789 Industrial Blvd, Industrial District",
			Latitude:              37.7649,
			Longitude:             -122.4294,
			ProximityRadiusMeters: models.DefaultProximityRadiusMeters,
			Tasks: []models.Task{
				{Name: "Equipment Installation"},
				{Name: "Safety Inspection"},
				{Name: "Maintenance"},
			},
		},
	}

	if result := DB.Create(&sites); result.Error != nil {
		return result.Error
	}

	log.Printf("Seeded %d default job sites", len(sites))
	return nil
}

func GetDB() *gorm.DB {
	return DB
}
