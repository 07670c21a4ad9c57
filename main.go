package main

import (
	"log"

	tracking_service "github.com/DigamberMehta/Store2Door-sub001/cmd/tracking-service"
	"github.com/DigamberMehta/Store2Door-sub001/internal/common/config"
	"github.com/DigamberMehta/Store2Door-sub001/internal/common/db"
	"github.com/DigamberMehta/Store2Door-sub001/internal/common/mq"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	cfg.Print()

	pg, err := db.NewPostgres(
		cfg.Database.Host, cfg.Database.Port,
		cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
	)
	if err != nil {
		log.Printf("⚠️ running without Postgres: %v", err)
		pg = nil
	} else {
		defer pg.Close()
		if err := pg.RunMigrations("migrations"); err != nil {
			log.Fatalf("migration error: %v", err)
		}
	}

	rmq, err := mq.NewRabbitMQ(
		cfg.RabbitMQ.Host, cfg.RabbitMQ.Port,
		cfg.RabbitMQ.User, cfg.RabbitMQ.Password,
	)
	if err != nil {
		log.Printf("⚠️ running without RabbitMQ: %v", err)
		rmq = nil
	} else {
		defer rmq.Close()
	}

	if err := tracking_service.Run(cfg, pg, rmq); err != nil {
		log.Fatalf("tracking service error: %v", err)
	}
}
