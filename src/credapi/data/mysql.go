package data

import (
	"fmt"
	"log"

	"github.com/OneOfOne/xxhash"
	"github.com/stake-plus/discord-credcheck/src/credapi/types"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func MustMySQL(dsn string) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	return db
}

// Migrate creates or updates the credential_checks table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&types.CredentialCheck{})
}

// HashAccountID digests a Discord user id for at-rest storage. The raw
// snowflake never reaches the database.
func HashAccountID(id string) string {
	h := xxhash.NewS64(0)
	h.WriteString(id)
	return fmt.Sprintf("%016x", h.Sum64())
}

// SaveCheck records the summary row for one completed evaluation.
func SaveCheck(db *gorm.DB, row *types.CredentialCheck) error {
	return db.Create(row).Error
}

// RecentChecks returns the newest check summaries, capped at limit.
func RecentChecks(db *gorm.DB, limit int) ([]types.CredentialCheck, error) {
	var rows []types.CredentialCheck
	err := db.Order("created_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}
