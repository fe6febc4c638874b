package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/exaring/otelpgx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ozherelyev/cinema-ticketing/internal/domain"
	"github.com/ozherelyev/cinema-ticketing/internal/events"
	"github.com/ozherelyev/cinema-ticketing/internal/mailer"
	"github.com/ozherelyev/cinema-ticketing/internal/poster"
	"github.com/ozherelyev/cinema-ticketing/internal/repository"
	appvalidator "github.com/ozherelyev/cinema-ticketing/internal/validator"
	"github.com/ozherelyev/cinema-ticketing/internal/vcs"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
)

var (
	version = vcs.Version()
)

type Application struct {
	config         Config
	logger         *slog.Logger
	db             *pgxpool.Pool
	redis          redis.UniversalClient
	validator      *validator.Validate
	mailer         mailer.Mailer
	sessionManager *scs.SessionManager
	hall           domain.HallLayout
	posters        poster.Store
	publisher      events.Publisher

	userRepo   domain.UserRepository
	showRepo   domain.ShowRepository
	ticketRepo domain.TicketRepository
}

type Config struct {
	Port             int
	Env              string
	DB               DBConfig
	Redis            RedisConfig
	SMTP             SMTPConfig
	AMQP             AMQPConfig
	Hall             HallConfig
	PosterDir        string
	OtelCollectorUrl string
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

type AMQPConfig struct {
	URL string
}

// HallConfig is the process-wide hall geometry: every show in this
// deployment shares one seating grid.
type HallConfig struct {
	Rows        int
	SeatsPerRow int
}

func Run() error {
	var cfg Config

	flag.IntVar(&cfg.Port, "port", 3000, "server port")
	flag.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")

	flag.StringVar(&cfg.DB.DSN, "db-dsn", "", "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.Redis.URL, "redis-url", "", "Redis URL")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.StringVar(&cfg.SMTP.Host, "smtp-host", "sandbox.smtp.mailtrap.io", "SMTP host")
	flag.IntVar(&cfg.SMTP.Port, "smtp-port", 2525, "SMTP port")
	flag.StringVar(&cfg.SMTP.Username, "smtp-username", "", "SMTP username")
	flag.StringVar(&cfg.SMTP.Password, "smtp-password", "", "SMTP password")
	flag.StringVar(&cfg.SMTP.Sender, "smtp-sender", "Cinema <no-reply@cinema.ozherelyev.net>", "SMTP sender")

	flag.StringVar(&cfg.AMQP.URL, "amqp-url", "", "RabbitMQ URL for ticket sold events")

	flag.IntVar(&cfg.Hall.Rows, "hall-rows", 7, "Number of rows in the hall")
	flag.IntVar(&cfg.Hall.SeatsPerRow, "hall-seats-per-row", 8, "Number of seats in each row")

	flag.StringVar(&cfg.PosterDir, "poster-dir", "./uploads", "Directory for uploaded show posters")

	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", "", "OpenTelemetry collector URL")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	app, err := New(cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	return app.serve()
}

// New wires up an Application from configuration. Callers own the returned
// application and must Close it.
func New(cfg Config, logger *slog.Logger) (*Application, error) {
	hall, err := domain.NewHallLayout(cfg.Hall.Rows, cfg.Hall.SeatsPerRow)
	if err != nil {
		return nil, err
	}

	db, err := NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	posterStore, err := poster.NewLocalStore(cfg.PosterDir)
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, err
	}

	app := NewApp(
		cfg,
		logger,
		db,
		redisClient,
		appvalidator.NewValidator(),
		mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Sender),
		NewSessionManager(redisClient),
		hall,
		posterStore,
		events.NewAMQPPublisher(cfg.AMQP.URL),
		repository.NewPostgresUserRepository(db),
		repository.NewPostgresShowRepository(db),
		repository.NewPostgresTicketRepository(db),
	)

	return app, nil
}

// NewApp assembles an Application from already constructed collaborators.
// Tests use it to swap in fakes.
func NewApp(
	cfg Config,
	logger *slog.Logger,
	db *pgxpool.Pool,
	redisClient redis.UniversalClient,
	validator *validator.Validate,
	mailer mailer.Mailer,
	sessionManager *scs.SessionManager,
	hall domain.HallLayout,
	posters poster.Store,
	publisher events.Publisher,
	userRepo domain.UserRepository,
	showRepo domain.ShowRepository,
	ticketRepo domain.TicketRepository,
) *Application {
	return &Application{
		config:         cfg,
		logger:         logger,
		db:             db,
		redis:          redisClient,
		validator:      validator,
		mailer:         mailer,
		sessionManager: sessionManager,
		hall:           hall,
		posters:        posters,
		publisher:      publisher,
		userRepo:       userRepo,
		showRepo:       showRepo,
		ticketRepo:     ticketRepo,
	}
}

func (app *Application) Close() {
	if app.db != nil {
		app.db.Close()
	}
	if app.redis != nil {
		app.redis.Close()
	}
}

func NewSessionManager(client *redis.Client) *scs.SessionManager {
	sessionManager := scs.New()

	sessionManager.Store = goredisstore.New(client)
	sessionManager.IdleTimeout = 20 * time.Minute
	sessionManager.Cookie.Name = "session_id"

	return sessionManager
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	if err := redisotel.InstrumentTracing(rdb); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) serve() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
		}

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.RequestID)
	r.Use(otelchi.Middleware("cinema-ticketing", otelchi.WithChiRoutes(r)))
	r.Use(app.requestLogger)
	r.Use(app.recoverPanic)
	r.Use(app.sessionManager.LoadAndSave)

	r.Get("/health", app.GetHealth)

	r.Post("/users", app.RegisterUser)
	r.Post("/sessions", app.Login)
	r.Delete("/sessions", app.Logout)

	r.Get("/shows", app.ListShows)
	r.Get("/shows/{showId}", app.GetShow)
	r.Get("/shows/{showId}/poster", app.GetShowPoster)
	r.Get("/shows/{showId}/seats", app.GetSeatMap)
	r.Get("/shows/{showId}/rows", app.GetAvailableRows)
	r.Get("/shows/{showId}/rows/{row}/seats", app.GetFreeSeatsInRow)

	r.With(app.requireAuthentication).Route("/booking", func(r chi.Router) {
		r.Post("/show", app.SelectBookingShow)
		r.Post("/row", app.SelectBookingRow)
		r.Post("/seat", app.SelectBookingSeat)
		r.Post("/confirm", app.ConfirmBooking)
		r.Delete("/", app.CancelBooking)
	})

	r.With(app.requireAuthentication).Route("/users/me", func(r chi.Router) {
		r.Get("/", app.GetCurrentUser)
	})

	r.With(app.requireAuthentication).Get("/tickets/{ticketId}/pass", app.GetTicketPass)

	r.With(app.requireAuthentication, app.requireAdmin).Group(func(r chi.Router) {
		r.Post("/shows", app.CreateShow)
		r.Patch("/shows/{showId}", app.UpdateShow)
		r.Delete("/shows/{showId}", app.DeleteShow)
		r.Delete("/shows/{showId}/tickets", app.ClearShowTickets)
		r.Delete("/tickets/{ticketId}", app.DeleteTicket)
	})

	return r
}
