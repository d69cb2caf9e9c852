package main

import (
	"database/sql"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/go-sql-driver/mysql"
	"github.com/gorilla/websocket"
	"github.com/pusher/pusher-http-go/v5"
	"golang.org/x/exp/slog"

	"resultpost/internal/config"
	"resultpost/internal/dataservice"
	drawsave "resultpost/internal/http-server/handlers/draw/save"
	"resultpost/internal/http-server/handlers/event"
	gamelist "resultpost/internal/http-server/handlers/game/list"
	gamesave "resultpost/internal/http-server/handlers/game/save"
	"resultpost/internal/http-server/handlers/job"
	"resultpost/internal/http-server/handlers/mysql"
	"resultpost/internal/http-server/handlers/postflow"
	resultget "resultpost/internal/http-server/handlers/result/get"
	resultlist "resultpost/internal/http-server/handlers/result/list"
	"resultpost/internal/http-server/handlers/result/review"
	resultsave "resultpost/internal/http-server/handlers/result/save"
	"resultpost/internal/http-server/middleware/logger"
	"resultpost/internal/lib/logger/handler/slogpretty"
	"resultpost/internal/lib/logger/sl"
	"resultpost/internal/repository"
	"resultpost/internal/seed"
	"resultpost/internal/workflow/publish"
	"resultpost/internal/workflow/share"
	"resultpost/internal/workflow/snapshot"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

const (
	jobQueueSize         = 32
	workerPoolSize       = 4
	drawReminderInterval = time.Minute
	sessionTTL           = 2 * time.Hour
)

func main() {
	seedGames := flag.Bool("seed", false, "seed the game catalog and exit")
	flag.Parse()

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting server...", slog.String("env", cfg.Env))
	log.Debug("debug messages are enabled")

	db, err := sql.Open("mysql", cfg.Database.DSN)
	if err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	if err = db.Ping(); err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	handler := mysql.New(db)

	gameRepo := repository.NewGameRepository(*handler)

	if *seedGames {
		if err = seed.Games(log, gameRepo); err != nil {
			log.Error("Failed to seed games", sl.Err(err))
			os.Exit(1)
		}

		return
	}

	pusherClient := &pusher.Client{
		AppID:   cfg.Pusher.AppID,
		Key:     cfg.Pusher.Key,
		Secret:  cfg.Pusher.Secret,
		Cluster: cfg.Pusher.Cluster,
	}

	pusherEvent := event.NewPusherEvent(log, pusherClient)

	var events event.Interface = pusherEvent

	// The ws hub is optional; without it events still reach Pusher.
	wsConn, _, err := websocket.DefaultDialer.Dial("ws://"+cfg.WSServer.Address+"/ws", nil)
	if err != nil {
		log.Warn("ws hub unavailable, events go to pusher only", sl.Err(err))
	} else {
		defer wsConn.Close()

		events = event.NewFanout(pusherEvent, event.NewWSRelay(log, wsConn))
	}

	drawRepo := repository.NewDrawRepository(*handler)
	resultRepo := repository.NewResultRepository(*handler)
	approvalRepo := repository.NewResultApprovalRepository(*handler)

	composer := share.NewComposer(cfg.Share)

	gameSave := gamesave.NewGame(log, gameRepo)
	gameList := gamelist.NewGames(log, gameRepo)
	drawSave := drawsave.NewDraw(log, drawRepo, gameRepo)
	resultSave := resultsave.NewResult(log, resultRepo, drawRepo, composer, events)
	resultList := resultlist.NewResults(log, resultRepo)
	resultGet := resultget.NewResult(log, resultRepo, drawRepo, approvalRepo)
	resultReview := review.NewReview(log, resultRepo, approvalRepo, events)

	dataClient := dataservice.New(log, cfg.DataService)
	publisher := publish.New(log, dataClient)
	capturer := snapshot.New(log, cfg.Snapshot)
	sessions := postflow.NewSessionStore(sessionTTL)

	post := postflow.New(log, sessions, dataClient, publisher, composer, capturer, cfg.Share, cfg.Snapshot)

	job.Queue = make(job.JobQueue, jobQueueSize)
	pool := job.NewWorkerPool(workerPoolSize, job.Queue)
	pool.Start()

	job.Dispatch(&job.DrawReminderJob{
		Log:      log,
		Draws:    drawRepo,
		Event:    events,
		Interval: drawReminderInterval,
	}, drawReminderInterval)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Get("/games", gameList.New())
	router.Post("/games", gameSave.New())
	router.Post("/draws", drawSave.New())
	router.Post("/results", resultSave.New())
	router.Get("/results", resultList.New())
	router.Get("/results/{id}", resultGet.New())
	router.Post("/results/{id}/review", resultReview.New())

	router.Route("/post", func(r chi.Router) {
		r.Get("/games", post.Games())
		r.Post("/sessions", post.NewSession())
		r.Route("/sessions/{session_id}", func(r chi.Router) {
			r.Get("/", post.State())
			r.Post("/select", post.SelectGame())
			r.Post("/slots", post.SetSlot())
			r.Post("/continue", post.Continue())
			r.Post("/back", post.Back())
			r.Post("/verify", post.Verify())
			r.Post("/advance", post.Advance())
			r.Post("/reset", post.Reset())
			r.Post("/share", post.Share())
			r.Get("/card", post.Card())
			r.Get("/snapshot", post.Snapshot())
		})
	})

	log.Info("Server started", slog.String("address", cfg.HTTPServer.Address))

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	if err = srv.ListenAndServe(); err != nil {
		log.Error("Server failed", sl.Err(err))
	}

	log.Error("Server stopped")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlogLogger()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

func setupPrettySlogLogger() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
