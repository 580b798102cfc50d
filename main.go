package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"simpleTwitter/auth"
	"simpleTwitter/crud"
	"simpleTwitter/domain"
	"simpleTwitter/http"
	"simpleTwitter/metrics"
	"simpleTwitter/seed"
	"simpleTwitter/storage"
)

// imagesPrefix is the url path under which images on local disk are served.
const imagesPrefix = "/images/"

// main is the app's entry point.
func main() {
	// "-prod" means that we're running in production. In that case the .config.json file
	// is required and the app will not start without it.
	productionBool := flag.Bool("prod", false, "Provide this flag in production to ensure that a .config.json file is provided before the application starts.")
	seedBool := flag.Bool("seed", false, "Fill an empty database with sample users, tweets, replies, likes and followships.")
	resetBool := flag.Bool("reset", false, "Drop and recreate all tables before starting. Development only.")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Environment variables from a .env file, if present, override the config file.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fail("load .env", err)
	}
	config, err := LoadConfig(configFile, *productionBool)
	if err != nil {
		fail("load config", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open a database connection.
	db := NewDB(config.Database.ConnectionInfo())
	if err := Open(db, config.IsProd()); err != nil {
		fail("open database", err)
	}
	defer Close(db)

	// Set up the image host.
	var (
		host     domain.ImageHost
		imageDir string
	)
	if config.ImageHost.UsesS3() {
		s3, err := storage.NewS3Host(storage.S3Config{
			Endpoint:  config.ImageHost.Endpoint,
			AccessKey: config.ImageHost.AccessKey,
			SecretKey: config.ImageHost.SecretKey,
			UseSSL:    config.ImageHost.UseSSL,
			Bucket:    config.ImageHost.Bucket,
			PublicURL: config.ImageHost.PublicURL,
		})
		if err != nil {
			fail("connect image host", err)
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			fail("ensure image bucket", err)
		}
		host = s3
	} else {
		imageDir = config.ImageHost.Dir
		host = storage.NewDiskHost(imageDir, imagesPrefix)
	}

	// Start the crud services.
	services, err := crud.NewServices(
		db.Gorm,
		crud.WithUser(config.Pepper),
		crud.WithTweet(),
		crud.WithReply(),
		crud.WithLike(),
		crud.WithFollowship(),
		crud.WithImage(host),
	)
	if err != nil {
		fail("create services", err)
	}

	if *resetBool && !config.IsProd() {
		err = services.DestructiveReset()
	} else {
		err = services.AutoMigrate()
	}
	if err != nil {
		fail("migrate database", err)
	}

	if *seedBool {
		if err := seed.Run(ctx, db.Gorm, services, 0); err != nil {
			fail("seed database", err)
		}
	}

	// Set up a webserver.
	tokens := auth.NewTokenIssuer(config.JWTSecret, config.TokenTTL())
	collector := metrics.NewCollector(prometheus.NewRegistry())
	server := http.NewServer(services, tokens, collector)
	if imageDir != "" {
		server.ServeImages(imagesPrefix, imageDir)
	}

	// Serve the app until interrupted.
	if err := server.Run(ctx, config.Port); err != nil {
		fail("serve http", err)
	}
	slog.Info("http server stopped")
}

// fail logs a fatal startup error and exits.
func fail(msg string, err error) {
	slog.Error(msg, slog.String("error", err.Error()))
	os.Exit(1)
}
