package webserver

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stake-plus/discord-credcheck/src/credapi/credential"
	"github.com/stake-plus/discord-credcheck/src/credapi/data"
	"github.com/stake-plus/discord-credcheck/src/credapi/types"
)

type Credentials struct {
	db  *gorm.DB
	svc *credential.Service
}

func NewCredentials(db *gorm.DB, svc *credential.Service) Credentials {
	return Credentials{db: db, svc: svc}
}

// Check runs the evaluation pipeline for one access token and returns the
// credential report. Upstream failures surface as generic messages; the
// provider's own error bodies never reach the caller.
func (h Credentials) Check(c *gin.Context) {
	var req struct {
		AccessToken string `json:"accessToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "access token is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), credential.EvalTimeout)
	defer cancel()

	report, err := h.svc.Check(ctx, req.AccessToken)
	if err != nil {
		if errors.Is(err, credential.ErrTokenInvalid) {
			c.JSON(http.StatusUnauthorized, gin.H{"err": "invalid or expired access token"})
			return
		}
		log.Printf("credentials: check failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "failed to check credentials"})
		return
	}

	if h.db != nil {
		row := &types.CredentialCheck{
			AccountHash:         data.HashAccountID(report.ID),
			AccountAgeDays:      report.AccountAge.Days,
			ServerCount:         report.ServerCount.Count,
			ServersWithRoles:    report.RoleAssignments.ServersWithRoles,
			VerifiedConnections: report.VerifiedConnections.Count,
			OverallPassed:       report.OverallPassed,
		}
		if err := data.SaveCheck(h.db, row); err != nil {
			// Audit persistence must not fail the live response.
			log.Printf("credentials: failed to save check row: %v", err)
		}
	}

	c.JSON(http.StatusOK, report)
}
