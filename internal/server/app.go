// Package server initializes and runs the application server. It selects the
// document store backend, wires the blob store, services and HTTP router, and
// handles graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ndenisov/showcase/internal/logging"
	"github.com/ndenisov/showcase/internal/server/blobstore"
	"github.com/ndenisov/showcase/internal/server/config"
	"github.com/ndenisov/showcase/internal/server/docstore"
	"github.com/ndenisov/showcase/internal/server/entity"
	"github.com/ndenisov/showcase/internal/server/httpapi"
	"github.com/ndenisov/showcase/internal/server/mail"
	"github.com/ndenisov/showcase/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	handler http.Handler
	store   docstore.Store
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	store, err := NewDocStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	newRepo := func(def entity.Definition) *entity.Repository {
		return entity.NewRepository(def, store, blobs, logger)
	}

	users := services.NewUsers(store, cfg, logger)
	gallery := services.NewGallery(newRepo(entity.GalleryItems()), logger)
	mailer := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.FromEmail)
	contacts := services.NewContacts(newRepo(entity.Contacts()), mailer, cfg.AdminEmail, logger)

	handler := httpapi.NewRouter(httpapi.Deps{
		Users:         users,
		Gallery:       gallery,
		Contacts:      contacts,
		Clients:       newRepo(entity.Clients()),
		Team:          newRepo(entity.TeamMembers()),
		Portfolios:    newRepo(entity.Portfolios()),
		Services:      newRepo(entity.Services()),
		Sentences:     newRepo(entity.Sentences()),
		Store:         store,
		MaxUpload:     cfg.MaxUploadBytes,
		AllowedOrigin: cfg.CORSAllowedOrigin,
		Log:           logger,
	})

	return &App{config: cfg, logger: logger, handler: handler, store: store}, nil
}

// NewDocStore picks PostgreSQL when a DSN is configured, DynamoDB otherwise.
func NewDocStore(ctx context.Context, cfg *config.Config) (docstore.Store, error) {
	if cfg.DatabaseDSN != "" {
		return docstore.NewPostgresStore(ctx, cfg.DatabaseDSN)
	}
	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.AWSBaseEndpoint != "" {
			o.BaseEndpoint = &cfg.AWSBaseEndpoint
		}
	})
	return docstore.NewDynamoStore(client, cfg.TablePrefix), nil
}

func newBlobStore(ctx context.Context, cfg *config.Config) (blobstore.Store, error) {
	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.AWSBaseEndpoint != "" {
			o.BaseEndpoint = &cfg.AWSBaseEndpoint
			o.UsePathStyle = true
		}
	})
	return blobstore.NewS3Store(client, cfg.S3Bucket, cfg.AWSBaseEndpoint), nil
}

func loadAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")))
	}
	return awsconfig.LoadDefaultConfig(ctx, opts...)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.handler,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
