package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/billyrestey/golfstrategy/internal/infra"
	"github.com/billyrestey/golfstrategy/internal/sqlinline"
)

func main() {
	var (
		idFlag      string
		emailFlag   string
		tierFlag    string
		creditsFlag int
	)

	flag.StringVar(&idFlag, "id", "", "user ID to update (UUID)")
	flag.StringVar(&emailFlag, "email", "", "user email to update")
	flag.StringVar(&tierFlag, "tier", "", "tier to assign (free or pro, empty keeps current)")
	flag.IntVar(&creditsFlag, "credits", 0, "credits to grant on top of the current balance")
	flag.Parse()

	userID := strings.TrimSpace(idFlag)
	email := strings.TrimSpace(emailFlag)
	tier := strings.TrimSpace(strings.ToLower(tierFlag))

	if userID == "" && email == "" {
		exitWithError(errors.New("either -id or -email must be provided"))
	}
	switch tier {
	case "", "free", "pro":
	default:
		exitWithError(fmt.Errorf("unsupported tier %q", tier))
	}
	if tier == "" && creditsFlag == 0 {
		exitWithError(errors.New("nothing to do: provide -tier and/or -credits"))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "grantcredits").Logger()
	runner := infra.NewSQLRunner(pool, logger)

	var idArg any
	if userID != "" {
		idArg = userID
	}

	updateCtx, cancelUpdate := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelUpdate()
	row := runner.QueryRow(updateCtx, sqlinline.QAdminAdjustUser, idArg, email, tier, creditsFlag)

	var (
		updatedID    string
		updatedEmail string
		updatedTier  string
		credits      int
	)
	if err := row.Scan(&updatedID, &updatedEmail, &updatedTier, &credits); err != nil {
		exitWithError(fmt.Errorf("failed to update user: %w", err))
	}

	fmt.Printf("User %s (%s) is now tier=%s credits=%d\n", updatedID, updatedEmail, updatedTier, credits)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
