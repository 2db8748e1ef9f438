// Package app builds the shared object graph of the server and worker
// binaries from configuration.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Barathimeena/AirRoute-Hub/internal/activities"
	"github.com/Barathimeena/AirRoute-Hub/internal/allocator"
	"github.com/Barathimeena/AirRoute-Hub/internal/assistant"
	"github.com/Barathimeena/AirRoute-Hub/internal/booking"
	"github.com/Barathimeena/AirRoute-Hub/internal/catalog"
	"github.com/Barathimeena/AirRoute-Hub/internal/config"
	"github.com/Barathimeena/AirRoute-Hub/internal/events"
	"github.com/Barathimeena/AirRoute-Hub/internal/geo"
	"github.com/Barathimeena/AirRoute-Hub/internal/kvstore"
	"github.com/Barathimeena/AirRoute-Hub/internal/logging"
	"github.com/Barathimeena/AirRoute-Hub/internal/mailer"
	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/Barathimeena/AirRoute-Hub/internal/notification"
	"github.com/Barathimeena/AirRoute-Hub/internal/pricing"
	"github.com/Barathimeena/AirRoute-Hub/internal/receipt"
	"github.com/Barathimeena/AirRoute-Hub/internal/reminder"
	"github.com/Barathimeena/AirRoute-Hub/internal/repository"
	"github.com/Barathimeena/AirRoute-Hub/internal/service"
	"github.com/Barathimeena/AirRoute-Hub/internal/workflows"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
)

// App holds the stores, collaborators and services shared by the binaries
type App struct {
	Config   *config.Config
	Clock    clockwork.Clock
	Location *time.Location

	Redis *redis.Client
	Pool  *pgxpool.Pool

	KV            kvstore.Store
	Flights       repository.FlightRepository
	Bookings      *repository.BookingRepository
	Notifications *notification.Center
	Scheduler     *reminder.Scheduler
	Tracker       *reminder.ThresholdTracker
	Receipts      *receipt.Issuer
	Converter     *pricing.Converter
	Menu          *allocator.Menu
	Events        events.Publisher
	Geo           *geo.Detector
	Assistant     *assistant.Service

	// MailSender delivers reminder e-mails, directly or from the queue
	MailSender mailer.Sender
	amqpConn   *amqp.Connection
	amqpCh     *amqp.Channel

	closers []func()
}

// New connects the configured backends and builds the object graph
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	a := &App{
		Config:    cfg,
		Clock:     clockwork.NewRealClock(),
		Location:  loc,
		Converter: pricing.NewConverter(cfg.Booking.INRRate),
		Menu:      allocator.DefaultMenu(),
	}

	if err := a.openKV(ctx); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.openFlights(ctx); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.openMail(ctx); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.openReceipts(ctx); err != nil {
		a.Close()
		return nil, err
	}

	if cfg.Kafka.Enabled {
		kp := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		a.Events = kp
		a.closers = append(a.closers, func() { _ = kp.Close() })
	} else {
		a.Events = events.Nop{}
	}

	a.Bookings = repository.NewBookingRepository(a.KV)
	a.Notifications = notification.NewCenter(repository.NewNotificationRepository(a.KV), a.Clock)
	if a.Redis != nil {
		a.Notifications.Subscribe(notification.NewRedisPublisher(a.Redis, cfg.Redis.NotificationChannel))
	}

	var dispatcher reminder.Dispatcher = mailer.NewDirect(a.MailSender, loc)
	if a.amqpCh != nil {
		dispatcher = mailer.NewQueueDispatcher(a.amqpCh, cfg.RabbitMQ.Queue, loc)
	}
	a.Scheduler = reminder.NewScheduler(repository.NewReminderRepository(a.KV), dispatcher, a.Clock,
		reminder.WithLead(cfg.Reminders.Lead),
		reminder.WithImmediateWindow(cfg.Reminders.ImmediateWindow),
	)
	a.Tracker = reminder.NewThresholdTracker(repository.NewThresholdRepository(a.KV), a.Notifications, a.Clock)

	a.Geo = geo.NewDetector(cfg.Geo.Endpoint, cfg.Geo.Timeout, models.Currency(cfg.Booking.FallbackCurrency))
	var completer assistant.Completer
	if cfg.Assistant.APIKey != "" {
		completer = assistant.NewClient(cfg.Assistant.Endpoint, cfg.Assistant.Model, cfg.Assistant.APIKey, cfg.Assistant.Timeout)
	}
	a.Assistant = assistant.NewService(completer)

	return a, nil
}

func (a *App) openKV(ctx context.Context) error {
	if a.Config.Storage.KV != "redis" {
		a.KV = kvstore.NewMemoryStore()
		return nil
	}
	rc := redis.NewClient(&redis.Options{
		Addr:     a.Config.Redis.Addr,
		Password: a.Config.Redis.Password,
		DB:       a.Config.Redis.DB,
	})
	if err := rc.Ping(ctx).Err(); err != nil {
		rc.Close()
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	a.Redis = rc
	a.KV = kvstore.NewRedisStore(rc, a.Config.Redis.Prefix)
	a.closers = append(a.closers, func() { _ = rc.Close() })
	logrus.WithField("addr", a.Config.Redis.Addr).Info("Connected to redis")
	return nil
}

// catalogStart is the first departure day of the generated catalog
func (a *App) catalogStart() (time.Time, error) {
	if a.Config.Booking.CatalogStart == "" {
		return a.Clock.Now().In(a.Location), nil
	}
	start, err := time.ParseInLocation(models.DateLayout, a.Config.Booking.CatalogStart, a.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid booking.catalog_start: %w", err)
	}
	return start, nil
}

func (a *App) openFlights(ctx context.Context) error {
	start, err := a.catalogStart()
	if err != nil {
		return err
	}
	generated := catalog.Generate(start)

	if a.Config.Storage.Flights != "postgres" {
		a.Flights = repository.NewMemoryFlightRepository(generated)
		return nil
	}

	pool, err := pgxpool.New(ctx, a.Config.Postgres.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	a.closers = append(a.closers, pool.Close)
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	a.Pool = pool

	repo := repository.NewPostgresFlightRepository(pool)
	if err := repo.Migrate(ctx); err != nil {
		return err
	}
	seeded, err := repo.Seed(ctx, generated)
	if err != nil {
		return err
	}
	logrus.WithField("seeded", seeded).Info("Connected to database")
	a.Flights = repo
	return nil
}

func (a *App) openMail(ctx context.Context) error {
	cfg := a.Config
	if cfg.SMTP.Enabled {
		sender, err := mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			FromName: cfg.SMTP.FromName,
		})
		if err != nil {
			return err
		}
		a.MailSender = sender
	} else {
		a.MailSender = mailer.NewLogSender()
	}

	if !cfg.RabbitMQ.Enabled {
		return nil
	}
	conn, ch, err := mailer.OpenQueue(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
	if err != nil {
		return err
	}
	a.amqpConn, a.amqpCh = conn, ch
	a.closers = append(a.closers, func() {
		_ = ch.Close()
		_ = conn.Close()
	})
	return nil
}

func (a *App) openReceipts(ctx context.Context) error {
	var store receipt.Store
	if a.Config.Receipts.S3Bucket != "" {
		s3, err := receipt.NewS3StoreFromEnv(ctx, a.Config.Receipts.S3Bucket, a.Config.Receipts.S3Region)
		if err != nil {
			return err
		}
		store = s3
	} else {
		store = receipt.NewFileStore(a.Config.Receipts.Dir)
	}
	a.Receipts = receipt.NewIssuer(store, a.Converter, a.Menu)
	return nil
}

// TemporalClient dials Temporal with SDK logs routed through logrus
func (a *App) TemporalClient() (client.Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  a.Config.Temporal.HostPort,
		Namespace: a.Config.Temporal.Namespace,
		Logger:    logging.NewTemporalLogger(logrus.WithField("component", "temporal")),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Temporal client: %w", err)
	}
	return c, nil
}

// Activities builds the booking activities over the app's stores
func (a *App) Activities() *activities.Activities {
	confirmer := booking.NewConfirmer(a.Flights, a.Bookings, a.Notifications, a.Events)
	return activities.NewActivities(confirmer, a.Flights, a.Receipts, a.Scheduler, a.Notifications, a.Config.Reminders.AlertHorizon)
}

// NewWorker creates a Temporal worker hosting the booking workflow
func (a *App) NewWorker(c client.Client) worker.Worker {
	w := worker.New(c, a.Config.Temporal.TaskQueue, worker.Options{})

	w.RegisterWorkflowWithOptions(workflows.BookingWorkflow, workflow.RegisterOptions{Name: service.WorkflowName})

	acts := a.Activities()
	w.RegisterActivityWithOptions(acts.ConfirmBooking, activity.RegisterOptions{Name: workflows.ActivityConfirmBooking})
	w.RegisterActivityWithOptions(acts.IssueReceipt, activity.RegisterOptions{Name: workflows.ActivityIssueReceipt})
	w.RegisterActivityWithOptions(acts.ScheduleReminder, activity.RegisterOptions{Name: workflows.ActivityScheduleReminder})
	return w
}

// Sweeper builds the reminder sweeper
func (a *App) Sweeper() (*reminder.Sweeper, error) {
	return reminder.NewSweeper(a.Scheduler, a.Tracker, a.Bookings, a.Notifications, a.Config.Reminders.SweepInterval)
}

// RunMailConsumer sends queued reminder e-mails until ctx is done. It
// returns immediately when the queue is disabled.
func (a *App) RunMailConsumer(ctx context.Context) error {
	if a.amqpCh == nil {
		return nil
	}
	return mailer.NewConsumer(a.MailSender).Run(ctx, a.amqpCh, a.Config.RabbitMQ.Queue)
}

// Service builds the API's booking service
func (a *App) Service(c client.Client) service.BookingService {
	cfg := a.Config
	return service.NewBookingService(service.Deps{
		Temporal:      c,
		Flights:       a.Flights,
		Bookings:      a.Bookings,
		Notifications: a.Notifications,
		Reminders:     a.Scheduler,
		Converter:     a.Converter,
		Menu:          a.Menu,
		Geo:           a.Geo,
		Assistant:     a.Assistant,
		Events:        a.Events,
		Clock:         a.Clock,
	}, service.Options{
		TaskQueue:       cfg.Temporal.TaskQueue,
		ListingLimit:    cfg.Server.ListingLimit,
		CabinRows:       cfg.Booking.CabinRows,
		ProcessingDelay: cfg.Booking.ProcessingDelay,
		SessionTimeout:  cfg.Booking.SessionTimeout,
		DueWindow:       cfg.Reminders.DueWindow,
		Location:        a.Location,
	})
}

// Close releases every connection in reverse order of opening
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
