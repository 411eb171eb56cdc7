// Command token prints a bearer token for the ShopLite API signed with
// AUTH_SECRET.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/shoplite/internal/config"
	"github.com/MrJamesThe3rd/shoplite/internal/http/auth"
)

func main() {
	subject := flag.String("subject", "till", "token subject, usually the till or operator name")
	ttl := flag.Duration("ttl", 0, "token lifetime, defaults to AUTH_TOKEN_TTL")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if *ttl == 0 {
		*ttl = cfg.Auth.TokenTTL
	}

	token, err := auth.Issue([]byte(cfg.Auth.Secret), *subject, *ttl, time.Now())
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
