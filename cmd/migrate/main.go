package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/geocoder89/invoicehub/internal/config"
	"github.com/geocoder89/invoicehub/internal/db"
	"github.com/geocoder89/invoicehub/internal/observability"
)

const usage = "usage: migrate up | status | down [version]"

func main() {
	cfg := config.Load()
	log := observability.NewLogger(cfg.Env, cfg.LogLevel)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	m, err := db.NewMigrator(cfg.DBURL, log)
	if err != nil {
		log.Error("migrator init failed", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch os.Args[1] {
	case "up":
		err = m.Up(ctx)
	case "status":
		err = m.Status(ctx)
	case "down":
		// without a version only the latest migration is rolled back
		target := int64(-1)
		if len(os.Args) > 2 {
			target, err = strconv.ParseInt(os.Args[2], 10, 64)
			if err != nil {
				fmt.Fprintln(os.Stderr, usage)
				os.Exit(2)
			}
		}
		err = m.Down(ctx, target)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		log.Error("migrate failed", "cmd", os.Args[1], "err", err)
		os.Exit(1)
	}
}
