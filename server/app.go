package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fixdesk/config"
	"fixdesk/internal/admin"
	"fixdesk/internal/cloudflare"
	"fixdesk/internal/db"
	"fixdesk/internal/health"
	"fixdesk/internal/logs"
	"fixdesk/internal/mail"
	"fixdesk/internal/middleware"
	"fixdesk/internal/models"
	"fixdesk/internal/repo"
	"fixdesk/internal/ticket"
	"fixdesk/internal/web"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type App struct {
	cfg        *config.Config
	db         *gorm.DB
	Router     *mux.Router
	httpServer *http.Server

	ctx    context.Context
	cancel context.CancelFunc
}

func (a *App) Initialize(cfg *config.Config) {
	a.cfg = cfg

	/* 1) logging */
	logs.Init(logs.Options{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		File:   a.cfg.Logging.File,
	})

	/* 2) database */
	d, err := db.Open(a.cfg.Database.Driver, a.cfg.Database.DSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	a.db = d

	if err := a.db.AutoMigrate(
		&models.User{},
		&models.LoginToken{},
		&models.Category{},
		&models.Ticket{},
		&models.Message{},
		&models.TicketNote{},
		&models.TimeLog{},
		&models.BlogPost{},
		&models.KBArticle{},
		&models.Lead{},
		&models.Testimonial{},
		&models.SiteConfig{},
	); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	/* 3) stores and services */
	users := repo.NewUserStore(a.db)
	tokens := repo.NewTokenStore(a.db)
	tickets := repo.NewTicketStore(a.db)
	content := repo.NewContentStore(a.db)

	mailer := mail.New(a.cfg.Mail.ResendAPIKey, a.cfg.Mail.From, a.cfg.App.Name, a.cfg.App.URL)
	cf := cloudflare.New(a.cfg.Cloudflare.APIKey, a.cfg.Cloudflare.AccountID, a.cfg.Cloudflare.ZoneID, a.cfg.Cloudflare.EmailDomain)
	svc := ticket.NewService(tickets, users, mailer)

	/* 4) router + middleware */
	a.Router = mux.NewRouter().StrictSlash(true)
	a.Router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.LoggerMW,
	)

	/* 5) health */
	health.RegisterRoutes(a.Router, a.db) // /healthz, /readyz

	/* 6) back-office */
	admin.Attach(a.Router, admin.Dependencies{
		CFG:     a.cfg,
		Users:   users,
		Tickets: tickets,
		Content: content,
		Svc:     svc,
	})

	/* 7) public site + client portal */
	web.Attach(a.Router, web.Dependencies{
		CFG:     a.cfg,
		Users:   users,
		Tokens:  tokens,
		Tickets: tickets,
		Content: content,
		Svc:     svc,
		Mailer:  mailer,
		CF:      cf,
	})

	/* log known routes at startup */
	_ = a.Router.Walk(func(rt *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, _ := rt.GetPathTemplate()
		methods, _ := rt.GetMethods()
		if len(methods) == 0 {
			methods = []string{"ANY"}
		}
		log.Printf("route: %-6v %s", methods, path)
		return nil
	})
}

func (a *App) Run() error {
	if a.Router == nil || a.cfg == nil {
		return fmt.Errorf("server not initialized")
	}

	bind := net.JoinHostPort(a.cfg.Server.Address, a.cfg.Server.HTTPPort)

	a.ctx, a.cancel = context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigs
		logs.Logger.Infof("shutdown signal: %s", s)
		a.cancel()
	}()

	// hard timeouts matter in production
	a.httpServer = &http.Server{
		Addr:              bind,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logs.Logger.Infof("HTTP listening on %s", bind)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logs.Logger.Fatalf("http server error: %v", err)
		}
	}()

	<-a.ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logs.Logger.Errorf("http shutdown: %v", err)
	}
	return nil
}
