package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/oggyb/muzz-realtime/internal/auth"
	"github.com/oggyb/muzz-realtime/internal/config"
	"github.com/oggyb/muzz-realtime/internal/db"
	"github.com/oggyb/muzz-realtime/internal/logger"
)

func main() {
	tokensFor := flag.String("tokens", "", "comma separated usernames to print dev tokens for")
	ttl := flag.Duration("ttl", 24*time.Hour, "lifetime of printed tokens")
	flag.Parse()

	// Load configuration
	cfg := config.New()
	logger.InitFromConfig(cfg)
	log := logger.Component("seed")

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		os.Exit(1)
	}

	if err := db.SeedTestData(database, log); err != nil {
		log.Error("failed to seed", "err", err)
		os.Exit(1)
	}
	log.Info("seeding completed")

	if *tokensFor == "" {
		return
	}
	v := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	for _, name := range strings.Split(*tokensFor, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		token, err := v.Issue(name, *ttl)
		if err != nil {
			log.Error("failed to issue token", "identity", name, "err", err)
			os.Exit(1)
		}
		fmt.Printf("%s\t%s\n", name, token)
	}
}
