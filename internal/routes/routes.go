package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"pledge-backend/internal/controllers"
	"pledge-backend/internal/ingest"
)

func Register(db *gorm.DB, log zerolog.Logger) (*gin.Engine, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	ing := controllers.IngestionController{
		Service: ingest.NewService(ingest.SQLStore{DB: sqlDB}, log),
		Log:     log,
	}
	txc := controllers.TransactionController{DB: sqlDB}
	ind := controllers.IndividualController{DB: db}
	plc := controllers.PledgeController{DB: db}
	cmc := controllers.CommitmentController{DB: db}
	out := controllers.OutgoingController{DB: db}
	rep := controllers.ReportsController{DB: sqlDB}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		if err := sqlDB.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	api.POST("/bank-transactions/import", func(c *gin.Context) { ing.Upload(c.Writer, c.Request) })
	api.GET("/bank-transactions", func(c *gin.Context) { txc.List(c.Writer, c.Request) })
	api.GET("/bank-transactions/:id", func(c *gin.Context) {
		c.Request.URL.Path = "/bank-transactions/" + c.Param("id")
		txc.GetByID(c.Writer, c.Request)
	})
	api.PUT("/bank-transactions/:id/link", func(c *gin.Context) {
		c.Request.URL.Path = "/bank-transactions/" + c.Param("id") + "/link"
		txc.Link(c.Writer, c.Request)
	})

	api.POST("/individuals", func(c *gin.Context) { ind.CreateOrList(c.Writer, c.Request) })
	api.GET("/individuals", func(c *gin.Context) { ind.CreateOrList(c.Writer, c.Request) })
	api.GET("/individuals/:id", func(c *gin.Context) {
		c.Request.URL.Path = "/individuals/" + c.Param("id")
		ind.GetByID(c.Writer, c.Request)
	})

	api.POST("/pledges", func(c *gin.Context) { plc.Create(c.Writer, c.Request) })
	api.GET("/pledges", func(c *gin.Context) { plc.List(c.Writer, c.Request) })
	api.GET("/pledges/:id", func(c *gin.Context) {
		c.Request.URL.Path = "/pledges/" + c.Param("id")
		plc.GetByID(c.Writer, c.Request)
	})
	api.DELETE("/pledges/:id", func(c *gin.Context) {
		c.Request.URL.Path = "/pledges/" + c.Param("id")
		plc.Delete(c.Writer, c.Request)
	})
	api.POST("/pledges/:id/commitments", func(c *gin.Context) {
		c.Request.URL.Path = "/pledges/" + c.Param("id") + "/commitments"
		cmc.CreateOrListForPledge(c.Writer, c.Request)
	})
	api.GET("/pledges/:id/commitments", func(c *gin.Context) {
		c.Request.URL.Path = "/pledges/" + c.Param("id") + "/commitments"
		cmc.CreateOrListForPledge(c.Writer, c.Request)
	})
	api.POST("/commitments/:id/review", func(c *gin.Context) {
		c.Request.URL.Path = "/commitments/" + c.Param("id") + "/review"
		cmc.Review(c.Writer, c.Request)
	})

	api.POST("/outgoings", func(c *gin.Context) { out.CreateOrList(c.Writer, c.Request) })
	api.GET("/outgoings", func(c *gin.Context) { out.CreateOrList(c.Writer, c.Request) })

	api.GET("/reports/pledges", func(c *gin.Context) { rep.ListPledges(c.Writer, c.Request) })
	api.GET("/reports/pledges/:id/fulfillment", func(c *gin.Context) {
		c.Request.URL.Path = "/reports/pledges/" + c.Param("id") + "/fulfillment"
		rep.GetPledge(c.Writer, c.Request)
	})
	api.GET("/reports/individuals/:id/fulfillment", func(c *gin.Context) {
		c.Request.URL.Path = "/reports/individuals/" + c.Param("id") + "/fulfillment"
		rep.GetIndividual(c.Writer, c.Request)
	})
	api.GET("/reports/fulfillment", func(c *gin.Context) { rep.GetOrganization(c.Writer, c.Request) })
	api.GET("/reports/balance", func(c *gin.Context) { rep.GetBalance(c.Writer, c.Request) })

	return r, nil
}
