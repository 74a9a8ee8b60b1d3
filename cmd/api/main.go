package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"resolveit/attachment"
	"resolveit/auth"
	"resolveit/complaint"
	"resolveit/config"
	"resolveit/db"
	"resolveit/escalation"
	"resolveit/httpapi"
	"resolveit/mail"
	"resolveit/notification"
	"resolveit/report"
	"resolveit/staffapp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("bootstrap database pool: %v", err)
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()

	store, err := attachment.NewFileStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("bootstrap upload dir: %v", err)
	}

	var mailer mail.Sender
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPUsername, cfg.SMTPPassword)
	} else {
		log.Println("SMTP not configured; email notifications disabled")
	}

	handler := &httpapi.Handler{
		Auth:          auth.NewService(auth.NewRepository(pool), cfg.JWTSecret),
		Complaints:    complaint.NewService(complaint.NewRepository(pool)),
		Status:        complaint.NewStatusService(pool, nil, mailer),
		Notifications: notification.NewService(notification.NewRepository(pool), notification.NewRedisCache(rdb)),
		Applications:  staffapp.NewService(staffapp.NewRepository(pool)),
		Attachments:   attachment.NewService(attachment.NewRepository(pool), store),
		Reports:       report.NewService(report.NewStore(pool)),
	}

	worker := escalation.NewWorker(escalation.NewStore(pool), cfg.EscalationInterval, mailer)
	go worker.Run(ctx)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
