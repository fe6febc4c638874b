package integration_test

import (
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ozherelyev/cinema-ticketing/internal/app"
	"github.com/ozherelyev/cinema-ticketing/internal/domain"
	"github.com/ozherelyev/cinema-ticketing/internal/events"
	"github.com/ozherelyev/cinema-ticketing/internal/mailer"
	"github.com/ozherelyev/cinema-ticketing/internal/poster"
	"github.com/ozherelyev/cinema-ticketing/internal/repository"
	appvalidator "github.com/ozherelyev/cinema-ticketing/internal/validator"
)

type TestApp struct {
	App        *app.Application
	DB         *pgxpool.Pool
	Mailer     *mailer.MockMailer
	Publisher  *events.MockPublisher
	UserRepo   domain.UserRepository
	ShowRepo   domain.ShowRepository
	TicketRepo domain.TicketRepository
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	validator := appvalidator.NewValidator()
	mockMailer := &mailer.MockMailer{}
	mockPublisher := &events.MockPublisher{}

	hall, err := domain.NewHallLayout(cfg.Hall.Rows, cfg.Hall.SeatsPerRow)
	if err != nil {
		return nil, err
	}

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	sessionManager := app.NewSessionManager(redisClient)

	posters, err := poster.NewLocalStore(cfg.PosterDir)
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, err
	}

	userRepo := repository.NewPostgresUserRepository(db)
	showRepo := repository.NewPostgresShowRepository(db)
	ticketRepo := repository.NewPostgresTicketRepository(db)

	application := app.NewApp(
		cfg,
		logger,
		db,
		redisClient,
		validator,
		mockMailer,
		sessionManager,
		hall,
		posters,
		mockPublisher,
		userRepo,
		showRepo,
		ticketRepo,
	)

	testApp := &TestApp{
		App:        application,
		DB:         db,
		Mailer:     mockMailer,
		Publisher:  mockPublisher,
		UserRepo:   userRepo,
		ShowRepo:   showRepo,
		TicketRepo: ticketRepo,
	}

	return testApp, nil
}
