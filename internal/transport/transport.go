package transport

import (
	"net/http"

	"github.com/ds124wfegd/nutritionist/internal/transport/middleware"
	"github.com/ds124wfegd/nutritionist/internal/web"
	"github.com/gin-gonic/gin"
)

func InitRoutes(analysisHandler *AnalysisHandler) (*gin.Engine, error) {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)
	router.StaticFS("/static", web.Static())

	router.GET("/", analysisHandler.Index)
	router.POST("/analyze", analysisHandler.AnalyzePage)

	api := router.Group("/api")
	{
		api.POST("/analyze", analysisHandler.AnalyzeAPI)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "nutritionist",
		})
	})
	return router, nil
}
