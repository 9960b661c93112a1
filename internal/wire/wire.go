package wire

import (
	"github.com/haruhisa-hosei/hosei-content-api/internal/api"
	"github.com/haruhisa-hosei/hosei-content-api/internal/api/handler"
	"github.com/haruhisa-hosei/hosei-content-api/internal/job"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/cron"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/github"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/line"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/llm"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/session"
	"github.com/haruhisa-hosei/hosei-content-api/internal/repository"
	"github.com/haruhisa-hosei/hosei-content-api/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer アプリ起動に必要なトップレベル部品のまとまり
type ApplicationContainer struct {
	Router  *gin.Engine
	DB      *gorm.DB
	CronMgr *cron.Manager
}

func BuildApplication(db *gorm.DB) (*ApplicationContainer, error) {
	postRepo := repository.NewPostRepository(db)

	store := session.NewRedisStore()
	messenger := line.NewClient()
	uploader := github.NewClient()

	mediaSvc := service.NewMediaService(uploader)
	streamSvc := service.NewMediaStreamService()
	postSvc := service.NewPostService(postRepo)
	importSvc := service.NewImportService(postRepo)
	ingestSvc := service.NewIngestService(store, messenger, mediaSvc, postRepo, llm.NewGenerator(), llm.NewClassifier())

	handlers := &api.HandlersGroup{
		WebhookHandler: handler.NewWebhookHandler(ingestSvc),
		PostHandler:    handler.NewPostHandler(postSvc),
		MediaHandler:   handler.NewMediaHandler(streamSvc),
		ImportHandler:  handler.NewImportHandler(importSvc),
		DebugHandler:   handler.NewDebugHandler(),
	}

	router := api.SetupRouter(handlers)

	cronMgr := cron.NewCronManager(job.NewImportJob(importSvc))

	return &ApplicationContainer{
		Router:  router,
		DB:      db,
		CronMgr: cronMgr,
	}, nil
}
