package webserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stake-plus/discord-credcheck/src/credapi/data"
)

const recentChecksLimit = 100

type Admin struct {
	db *gorm.DB
}

func NewAdmin(db *gorm.DB) Admin {
	return Admin{db: db}
}

// ListChecks returns the newest persisted check summaries. Rows carry only
// hashed account ids and counts.
func (h Admin) ListChecks(c *gin.Context) {
	rows, err := data.RecentChecks(h.db, recentChecksLimit)
	if err != nil {
		log.Printf("admin: failed to list checks: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "failed to list checks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"checks": rows})
}
