package main

import (
	"os"
	"os/signal"
	"syscall"

	"yamdb/pkg/config"
	"yamdb/pkg/logger"
	"yamdb/pkg/mailer"
	"yamdb/pkg/queue"
)

// The mailer drains confirmation-code tasks published by the API and
// delivers them over SMTP.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.NewWithLevel(logger.ParseLevel(cfg.LogLevel))

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v", err)
		panic(err)
	}
	defer queueClient.Close()

	smtpMailer, err := mailer.NewSMTPMailer(cfg)
	if err != nil {
		log.Error("Failed to configure SMTP: %v", err)
		panic(err)
	}

	err = queueClient.ConsumeConfirmationTasks(func(task queue.ConfirmationTask) error {
		if err := smtpMailer.SendConfirmation(task.Email, task.ConfirmationCode); err != nil {
			return err
		}
		log.Info("Confirmation code delivered to %s", task.Username)
		return nil
	})
	if err != nil {
		log.Error("Failed to start consumer: %v", err)
		panic(err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Mailer exited")
}
