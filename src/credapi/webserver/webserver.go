package webserver

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/stake-plus/discord-credcheck/src/credapi/config"
	"github.com/stake-plus/discord-credcheck/src/credapi/credential"
)

func New(cfg config.Config, db *gorm.DB, rdb *redis.Client, svc *credential.Service) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	attachRoutes(g, cfg, db, rdb, svc)
	return g
}

func attachRoutes(r *gin.Engine, cfg config.Config, db *gorm.DB, rdb *redis.Client, svc *credential.Service) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AppURL},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	authH := NewAuth(cfg, rdb)
	credH := NewCredentials(db, svc)

	v1 := r.Group("/v1")
	{
		v1.GET("/auth/discord", authH.Login)
		v1.GET("/auth/callback", authH.Callback)
		v1.POST("/auth/admin", authH.Admin)

		v1.POST("/credentials/check", credH.Check)

		admin := v1.Group("/admin")
		admin.Use(JWTMiddleware([]byte(cfg.JWTSecret)))
		{
			adminH := NewAdmin(db)
			admin.GET("/checks", adminH.ListChecks)
		}
	}
}
