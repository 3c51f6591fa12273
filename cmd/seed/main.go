package main

import (
	"context"
	"flag"
	"os"

	"pony-express/config"
	"pony-express/config/common"
)

func main() {
	file := flag.String("file", "database/initial.json", "seed document")
	flag.Parse()

	cfg := common.NewViper()
	log := config.NewLogger(cfg)

	appLogger, err := config.NewAppLogger(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to open log files")
	}

	db, err := config.NewDB(cfg, appLogger)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}

	f, err := os.Open(*file)
	if err != nil {
		log.WithError(err).Fatalf("failed to open %s", *file)
	}
	defer f.Close()

	doc, err := decode(f)
	if err != nil {
		log.WithError(err).Fatal("failed to read seed document")
	}

	inserted, err := seed(context.Background(), db.GetDB(), doc)
	if err != nil {
		log.WithError(err).Fatal("failed to seed database")
	}
	log.WithField("accounts", inserted.Accounts).
		WithField("chats", inserted.Chats).
		WithField("memberships", inserted.Memberships).
		WithField("messages", inserted.Messages).
		Info("seed finished")
}
