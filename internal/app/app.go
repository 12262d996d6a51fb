// Package app wires repositories, services, and the Telegram surface.
package app

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"

	"imagekingbot/core/bootstrap"
	coretelegram "imagekingbot/core/telegram"
	"imagekingbot/core/telegram/commands"
	tghelpers "imagekingbot/core/telegram/helpers"
	"imagekingbot/core/telegram/router"
	"imagekingbot/core/telegram/state"
	"imagekingbot/internal/bot"
	"imagekingbot/internal/config"
	"imagekingbot/internal/otp"
	"imagekingbot/internal/services"
	"imagekingbot/internal/sms"
	"imagekingbot/internal/stability"
	"imagekingbot/internal/storage"
)

// App holds the assembled bot.
type App struct {
	cfg      *config.Config
	db       *sqlx.DB
	fsm      state.Manager
	registry *coretelegram.Registry
	flow     *bot.Flow
	// chatOTP is non-nil when codes are delivered in-chat; it needs the bot
	// instance, which only exists once the runtime starts.
	chatOTP *otp.ChatSender
}

// Bootstrap initializes infrastructure and wires the bot.
func Bootstrap(cfg *config.Config) (*App, error) {
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	users := storage.NewUsers(res.DB)
	challenges := storage.NewChallenges(res.DB)
	generations := storage.NewGenerations(res.DB)
	galleryRepo := storage.NewGallery(res.DB)

	var sender otp.Sender
	var chatOTP *otp.ChatSender
	if cfg.OTP.Channel == config.OtpChannelSMS {
		sender = otp.NewSMSSender(sms.New(cfg.OTP.SMS))
	} else {
		chatOTP = otp.NewChatSender()
		sender = chatOTP
	}

	registration := services.NewRegistration(users, challenges, sender, services.RegistrationOptions{
		TTL:          time.Duration(cfg.OTP.TTLSeconds) * time.Second,
		MaxAttempts:  cfg.OTP.MaxAttempts,
		ResendWindow: time.Duration(cfg.OTP.ResendSeconds) * time.Second,
	})
	generation := services.NewGeneration(users, generations, stability.New(cfg.Stability))
	gallery := services.NewGallery(galleryRepo, cfg.Gallery.Dir)

	fsm := state.NewMemoryManager()
	flow := bot.NewFlow(fsm, registration, generation, gallery, cfg.Gallery.AlbumSize)
	flow.RegisterStates()

	registry := coretelegram.NewRegistry()
	registry.RegisterCommand("/start", commands.Command{
		Handler:     flow.Start,
		Description: "Register or start a new image",
	})
	registry.RegisterCommand("/gallery", commands.Command{
		Handler:     flow.Gallery,
		Description: "Show your saved images",
	})
	registry.RegisterCommand("/cancel", commands.Command{
		Handler:     flow.Cancel,
		Description: "Cancel the current conversation",
	})
	registry.RegisterCommand("/stats", commands.Command{
		Handler:     bot.StatsHandler(storage.NewStats(res.DB)),
		Description: "Service counters",
		AdminOnly:   true,
		Hidden:      true,
	})
	if err := registry.RegisterCallback("dim", flow.DimensionCallback()); err != nil {
		return nil, err
	}
	if err := registry.RegisterCallback("act", flow.ActionCallback()); err != nil {
		return nil, err
	}
	registry.SetTextFallback(func(c tele.Context) error {
		return tghelpers.SendText(c, "Use /start to begin.")
	})

	return &App{
		cfg:      cfg,
		db:       res.DB,
		fsm:      fsm,
		registry: registry,
		flow:     flow,
		chatOTP:  chatOTP,
	}, nil
}

// TelegramRunOptions builds the runtime options for the core runner.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	routes := router.CommandRoutes(a.registry, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes, router.TextRoutes(a.fsm, a.registry, router.TextOptions{})...)
	routes = append(routes, router.CallbackRoute(a.registry, router.CallbackOptions{}))

	middlewares := coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil)
	middlewares = append(middlewares, coretelegram.Middleware{
		Name: "session",
		Use:  state.WithSession(a.fsm),
	})

	return coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    a.registry,
		Middlewares: middlewares,
		Routes:      routes,
		OnStart: func(_ context.Context, rt coretelegram.Runtime) error {
			if a.chatOTP != nil {
				a.chatOTP.Attach(rt.Bot)
			}
			return nil
		},
		OnStop: func(_ context.Context, _ coretelegram.Runtime) error {
			return a.db.Close()
		},
	}, nil
}
