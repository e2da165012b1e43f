package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/Nikachu96/Ready-2-Dink-sub000/repositories"
)

// Notifier is the fire-and-forget notification collaborator. It is only ever
// invoked after a transaction has committed and its errors are logged, never
// surfaced to the caller of the primary operation.
type Notifier interface {
	Notify(ctx context.Context, playerID int, title, message string) error
}

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

type emailNotifier struct {
	cfg        SMTPConfig
	db         repositories.SQLExecutor
	playerRepo repositories.PlayerRepository
	logger     *slog.Logger
}

func NewEmailNotifier(cfg SMTPConfig, db repositories.SQLExecutor, playerRepo repositories.PlayerRepository, logger *slog.Logger) Notifier {
	return &emailNotifier{
		cfg:        cfg,
		db:         db,
		playerRepo: playerRepo,
		logger:     logger,
	}
}

func (n *emailNotifier) Notify(ctx context.Context, playerID int, title, message string) error {
	player, err := n.playerRepo.GetByID(ctx, n.db, playerID)
	if err != nil {
		return fmt.Errorf("failed to resolve player %d for notification: %w", playerID, err)
	}

	msg := []byte("To: " + player.Email + "\r\n" +
		"From: " + n.cfg.From + "\r\n" +
		"Subject: " + title + "\r\n" +
		"\r\n" +
		message + "\r\n")

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	auth := smtp.PlainAuth("", n.cfg.User, n.cfg.Pass, n.cfg.Host)

	if err := smtp.SendMail(addr, auth, n.cfg.From, []string{player.Email}, msg); err != nil {
		return fmt.Errorf("failed to send notification email to player %d: %w", playerID, err)
	}

	n.logger.Debug("notification sent",
		slog.Int("player_id", playerID),
		slog.String("title", title),
	)
	return nil
}

// NoopNotifier discards notifications. Used when SMTP is not configured.
type NoopNotifier struct{}

func (NoopNotifier) Notify(ctx context.Context, playerID int, title, message string) error {
	return nil
}
