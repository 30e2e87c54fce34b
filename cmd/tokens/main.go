// Command tokens grants creation tokens to an account from the command line.
// It exists for support workflows: refunds, goodwill credits, and manual
// fixes after a failed payment webhook.
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

	"github.com/LaykenV/teach-magic-server/internal/infra"
	"github.com/LaykenV/teach-magic-server/internal/sqlinline"
)

func main() {
	var (
		idFlag    string
		emailFlag string
		grantFlag int
	)

	flag.StringVar(&idFlag, "id", "", "user ID to credit (UUID)")
	flag.StringVar(&emailFlag, "email", "", "user email to credit")
	flag.IntVar(&grantFlag, "grant", 1, "number of tokens to grant")
	flag.Parse()

	userID := strings.TrimSpace(idFlag)
	email := strings.TrimSpace(emailFlag)
	if userID == "" && email == "" {
		exitWithError(errors.New("either -id or -email must be provided"))
	}
	if grantFlag <= 0 {
		exitWithError(errors.New("-grant must be positive"))
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

	logger := infra.NewLogger("cli").With().Str("cmd", "tokens").Logger()
	runner := infra.NewSQLRunner(pool, logger)

	lookupCtx, cancelLookup := context.WithTimeout(context.Background(), 5*time.Second)
	var (
		foundID    string
		foundEmail string
		foundName  string
		tokens     int
		plan       int
		createdAt  time.Time
	)
	var scanErr error
	if userID != "" {
		row := runner.QueryRow(lookupCtx, sqlinline.QSelectUserByID, userID)
		scanErr = row.Scan(&foundID, &foundEmail, &foundName, &tokens, &plan, &createdAt)
	} else {
		row := runner.QueryRow(lookupCtx, sqlinline.QSelectUserByEmail, email)
		scanErr = row.Scan(&foundID, &foundEmail, &foundName, &tokens, &plan, &createdAt)
	}
	cancelLookup()
	if scanErr != nil {
		exitWithError(fmt.Errorf("failed to load user: %w", scanErr))
	}

	creditCtx, cancelCredit := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelCredit()
	var balance int
	row := runner.QueryRow(creditCtx, sqlinline.QCreditTokens, foundID, grantFlag)
	if err := row.Scan(&balance); err != nil {
		exitWithError(fmt.Errorf("failed to credit tokens: %w", err))
	}

	fmt.Printf("User %s (%s) credited %d tokens, balance %d\n", foundID, foundEmail, grantFlag, balance)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
