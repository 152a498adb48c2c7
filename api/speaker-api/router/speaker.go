// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package speaker_routers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	responded_api "github.com/rapidaai/speaker/api/speaker-api/api/responded"
	"github.com/rapidaai/speaker/config"
	"github.com/rapidaai/speaker/pkg/commons"
	"github.com/rapidaai/speaker/pkg/utils"
)

func SpeakerApiRoute(cfg *config.AppConfig, engine *gin.Engine, logger commons.Logger, handler *responded_api.Handler) {
	logger.Info("Speaker routes added to engine.")
	apiv1 := engine.Group("v1")
	{
		apiv1.POST("/responded", handler.Responded)
		apiv1.GET("/responded/stream", handler.Stream)
		apiv1.POST("/normalize", handler.Normalize)
	}
}

// NewEngine builds the gin engine with the shared middleware chain.
func NewEngine(cfg *config.AppConfig, logger commons.Logger) *gin.Engine {
	if cfg.Environment() == utils.PRODUCTION {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestID())
	engine.Use(AccessLog(logger))
	engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept",
			utils.HEADER_REQUEST_ID,
			utils.HEADER_CHARACTER_KEY,
			utils.HEADER_LANGUAGE_KEY,
			utils.HEADER_ENVIRONMENT_KEY,
		},
		ExposeHeaders: []string{utils.HEADER_REQUEST_ID},
		MaxAge:        12 * time.Hour,
	}))
	return engine
}

// RequestID keeps the caller's request id or assigns a new one, and echoes
// it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(utils.HEADER_REQUEST_ID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(utils.HEADER_REQUEST_ID, id)
		c.Header(utils.HEADER_REQUEST_ID, id)
		c.Next()
	}
}

func AccessLog(logger commons.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debugf("%s %s %d %s request_id=%s",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start),
			c.GetString(utils.HEADER_REQUEST_ID),
		)
	}
}
