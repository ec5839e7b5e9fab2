package web

import (
	"context"
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/scienceol/chemdb/internal/config"
	"github.com/scienceol/chemdb/pkg/core/compound"
	compoundImpl "github.com/scienceol/chemdb/pkg/core/compound/compound"
	"github.com/scienceol/chemdb/pkg/core/export"
	"github.com/scienceol/chemdb/pkg/core/export/excel"
	"github.com/scienceol/chemdb/pkg/core/meta"
	metaImpl "github.com/scienceol/chemdb/pkg/core/meta/meta"
	"github.com/scienceol/chemdb/pkg/core/storage"
	storageImpl "github.com/scienceol/chemdb/pkg/core/storage/storage"
	"github.com/scienceol/chemdb/pkg/middleware/db"
	"github.com/scienceol/chemdb/pkg/middleware/logger"
	"github.com/scienceol/chemdb/pkg/middleware/redis"
	repoCompound "github.com/scienceol/chemdb/pkg/repo/compound"
	"github.com/scienceol/chemdb/pkg/repo/objectstore"
	"github.com/scienceol/chemdb/pkg/repo/pubchem"
	compoundView "github.com/scienceol/chemdb/pkg/web/views/compound"
	"github.com/scienceol/chemdb/pkg/web/views/health"
	metaView "github.com/scienceol/chemdb/pkg/web/views/meta"
	"github.com/scienceol/chemdb/pkg/web/views/upload"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Services are the handlers' collaborators.
type Services struct {
	Compound       compound.Service
	Meta           meta.Service
	Storage        storage.Service
	Export         export.Service
	MaxUploadBytes int64
}

// NewServices builds every service on top of the initialized datastore, redis
// client and the configured object store.
func NewServices(ctx context.Context) (*Services, error) {
	conf := config.Global()
	store, err := objectstore.New(ctx, &conf.Storage)
	if err != nil {
		return nil, fmt.Errorf("init object store: %w", err)
	}
	maxUpload := conf.Storage.MaxUploadMB << 20
	files := storageImpl.New(store, storageImpl.Config{
		MaxUploadBytes: maxUpload,
		Workers:        conf.Storage.CleanupWorkers,
	})

	compoundRepo := repoCompound.NewCompoundImpl(db.DB())
	metaService := metaImpl.New(compoundRepo, pubchem.NewPubChemRepo(conf.RPC.PubChem.Addr), redis.GetClient())
	compoundService := compoundImpl.New(compoundRepo, files, metaService)
	resolver := excel.NewResolver(files, conf.Export.FetchTimeout, conf.Storage.PublicURL)

	return &Services{
		Compound:       compoundService,
		Meta:           metaService,
		Storage:        files,
		Export:         excel.New(compoundService, resolver),
		MaxUploadBytes: maxUpload,
	}, nil
}

func (s *Services) Close() {
	if s.Storage != nil {
		s.Storage.Close()
	}
}

func NewRouter(ctx context.Context, g *gin.Engine, s *Services) {
	installMiddleware(g)
	installURL(ctx, g, s)
}

func installMiddleware(g *gin.Engine) {
	g.ContextWithFallback = true
	server := config.Global().Server
	g.Use(cors.Default())
	g.Use(otelgin.Middleware(fmt.Sprintf("%s-%s", server.Platform, server.Service)))
	g.Use(logger.LogWithWriter())
}

func installURL(_ context.Context, g *gin.Engine, s *Services) {
	g.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	api := g.Group("/api")
	hHandle := health.NewHealthHandle(s.Storage)
	api.GET("/health", hHandle.Health)
	api.GET("/health/live", hHandle.Live)
	api.GET("/health/ready", hHandle.Ready)

	{
		cHandle := compoundView.NewCompoundHandle(s.Compound, s.Export)
		compoundRouter := api.Group("/compounds")
		compoundRouter.GET("", cHandle.List)
		compoundRouter.POST("", cHandle.Create)
		compoundRouter.GET("/:id", cHandle.Get)
		compoundRouter.PUT("/:id", cHandle.Update)
		compoundRouter.DELETE("/:id", cHandle.Delete)
		compoundRouter.GET("/:id/export", cHandle.Export)
	}

	{
		mHandle := metaView.NewMetaHandle(s.Meta)
		metaRouter := api.Group("/meta")
		metaRouter.GET("/next-stt", mHandle.NextSerialNumber)
		metaRouter.GET("/next-table-number", mHandle.NextTableNumber)
		metaRouter.GET("/pubchem", mHandle.PubChem)
		metaRouter.GET("/:kind", mHandle.Values)
	}

	{
		uHandle := upload.NewUploadHandle(s.Storage, s.MaxUploadBytes)
		uploadRouter := api.Group("/uploads")
		uploadRouter.POST("", uHandle.Upload)
		uploadRouter.POST("/multiple", uHandle.UploadMany)
		uploadRouter.DELETE("", uHandle.Delete)
	}
}
