// Package admin implements the operator CLI: it creates accounts directly
// against the database, bypassing the HTTP API. Useful for bootstrapping
// the first user of a fresh deployment.
package admin

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/conduit/internal/server/config"
	"github.com/dmitrijs2005/conduit/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/conduit/internal/server/services"
)

type App struct {
	config *config.Config
	out    io.Writer
	in     *bufio.Reader
}

func NewApp(cfg *config.Config) *App {
	return &App{
		config: cfg,
		out:    os.Stdout,
		in:     bufio.NewReader(os.Stdin),
	}
}

// Run prompts for account details and creates the user. Migrations are
// applied first so the command works against an empty database.
func (app *App) Run(ctx context.Context) error {
	db, err := sql.Open("pgx", app.config.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	username, err := GetSimpleText(app.in, "Username", app.out)
	if err != nil {
		return err
	}

	email, err := GetSimpleText(app.in, "Email", app.out)
	if err != nil {
		return err
	}

	password, err := GetPassword(app.out)
	if err != nil {
		return err
	}

	userService := services.NewUserService(db, m, app.config)
	user, _, err := userService.Register(ctx, username, email, string(password))
	if err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}

	fmt.Fprintf(app.out, "created user %s (%s)\n", user.Username, user.ID)
	return nil
}
