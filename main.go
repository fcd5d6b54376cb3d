package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	apirest "github.com/exceedrpg/exceedsheet/server/api/rest"
	"github.com/exceedrpg/exceedsheet/server/audit"
	"github.com/exceedrpg/exceedsheet/server/cache"
	"github.com/exceedrpg/exceedsheet/server/config"
	dbadapter "github.com/exceedrpg/exceedsheet/server/db"
	"github.com/exceedrpg/exceedsheet/server/game/dice"
	"github.com/exceedrpg/exceedsheet/server/game/sheet"
	mw "github.com/exceedrpg/exceedsheet/server/middleware"
	"github.com/exceedrpg/exceedsheet/server/model"
	"github.com/exceedrpg/exceedsheet/server/resource"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	// Warn loudly if admin endpoints will be disabled.
	if cfg.Server.AdminKey == "" {
		logger.Warn("server.admin_key is not set; admin endpoints are disabled")
	}

	// ---- Database ----
	db, err := dbadapter.Open(cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	logger.Info("DB initialized")

	// ---- Audit ----
	auditSvc := audit.New(db, logger)
	defer auditSvc.Stop(context.Background())

	// ---- Cache ----
	c, err := cache.New(cache.Config{
		RedisAddr:       cfg.Cache.RedisAddr,
		RedisPassword:   cfg.Cache.RedisPassword,
		RedisDB:         cfg.Cache.RedisDB,
		LocalGCInterval: cfg.Cache.LocalGCInterval,
	})
	if err != nil {
		log.Fatalf("cache: %v", err)
	}
	logger.Info("Cache initialized")

	// ---- EXCEED data tables ----
	res := resource.NewLoader(cfg.Game.DataPath)
	if err := res.Load(); err != nil {
		logger.Warn("resource load warning", zap.Error(err))
	} else {
		logger.Info("EXCEED data tables loaded")
	}

	// ---- Services ----
	sheetSvc := sheet.NewService(db, res, cfg.Game, logger)
	roller := dice.New()

	// ---- Gin HTTP Server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))

	// Health check
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	// ---- REST API routes ----
	authH := apirest.NewAuthHandler(db, c, cfg.Security)
	charH := apirest.NewCharacterHandler(sheetSvc, auditSvc)
	progH := apirest.NewProgressionHandler(sheetSvc, auditSvc)
	invH := apirest.NewInventoryHandler(sheetSvc, auditSvc)
	spellH := apirest.NewSpellHandler(sheetSvc, auditSvc)
	diceH := apirest.NewDiceHandler(sheetSvc, roller)
	rulesH := apirest.NewRulesHandler(c, cfg.Rules)
	adminH := apirest.NewAdminHandler(db, logger)

	api := r.Group("/api")
	{
		authG := api.Group("/auth")
		authG.POST("/login", authH.Login)
		authG.POST("/logout", mw.Auth(cfg.Security, c), authH.Logout)
		authG.POST("/refresh", mw.Auth(cfg.Security, c), authH.Refresh)

		charsG := api.Group("/characters")
		charsG.Use(mw.Auth(cfg.Security, c))
		charsG.GET("", charH.List)
		charsG.POST("", charH.Create)
		charsG.POST("/import", charH.Import)
		charsG.GET("/:id", charH.Get)
		charsG.GET("/:id/sheet", charH.Sheet)
		charsG.GET("/:id/export", charH.Export)
		charsG.DELETE("/:id", charH.Delete)

		charsG.POST("/:id/skills", progH.LearnSkill)
		charsG.POST("/:id/skills/levelup", progH.LevelUpSkill)
		charsG.POST("/:id/skills/leveldown", progH.LevelDownSkill)
		charsG.DELETE("/:id/skills/:name", progH.RemoveSkill)

		charsG.POST("/:id/perks", progH.BuyPerk)
		charsG.DELETE("/:id/perks/:name", progH.RemovePerk)
		charsG.POST("/:id/conditioning", progH.StartConditioning)
		charsG.POST("/:id/conditioning/advance", progH.AdvanceConditioning)
		charsG.DELETE("/:id/conditioning", progH.AbandonConditioning)

		charsG.POST("/:id/hp/extra", progH.BuyExtraHP)
		charsG.DELETE("/:id/hp/extra", progH.RemoveExtraHP)
		charsG.PUT("/:id/hp", progH.SetHP)
		charsG.POST("/:id/wounds", progH.SetWound)
		charsG.POST("/:id/money", progH.AdjustMoney)
		charsG.POST("/:id/xp", progH.GrantXP)

		charsG.POST("/:id/items", invH.Add)
		charsG.DELETE("/:id/items/:itemID", invH.Remove)
		charsG.PUT("/:id/items/:itemID/state", invH.SetState)
		charsG.PUT("/:id/items/:itemID/quantity", invH.SetQuantity)
		charsG.POST("/:id/items/:itemID/customize", invH.Customize)

		charsG.POST("/:id/spells", spellH.Learn)
		charsG.DELETE("/:id/spells/:spellID", spellH.Delete)
		charsG.POST("/:id/spells/:spellID/upgrade", spellH.Upgrade)
		charsG.PUT("/:id/spells/:spellID/attune", spellH.Attune)

		charsG.POST("/:id/roll/damage", diceH.Damage)

		diceG := api.Group("/dice")
		diceG.Use(mw.Auth(cfg.Security, c))
		diceG.POST("/check", diceH.Check)

		rulesG := api.Group("/rules")
		rulesG.GET("", rulesH.List)
		rulesG.GET("/:name", rulesH.Get)

		adminG := api.Group("/admin")
		adminG.Use(mw.IPWhitelist(cfg.Server.AdminWhitelist))
		adminG.Use(apirest.AdminAuth(cfg.Server.AdminKey))
		adminG.GET("/metrics", adminH.Metrics)
		adminG.POST("/accounts/:id/ban", adminH.BanAccount)
		adminG.GET("/characters/:id/audit", adminH.AuditTrail)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("HTTP server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
