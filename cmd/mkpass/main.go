// mkpass mints or lists workshop passwords straight against Postgres, for
// setting up a workshop before the server (or its admin) is reachable.
//
// Usage:
//
//	mkpass -workshop "Prompt Basics" -ttl 12h
//	mkpass -list
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/PromptFeedback/PF-Backend/internal/auth"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

var (
	workshop = flag.String("workshop", "", "Workshop name for the new password")
	ttl      = flag.Duration("ttl", 12*time.Hour, "How long the password stays valid")
	length   = flag.Int("length", 6, "Number of digits in the generated password")
	list     = flag.Bool("list", false, "List existing passwords instead of creating one")
	dsn      = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres DSN (default: env DATABASE_URL)")
)

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()

	if *dsn == "" {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}
	if !*list && *workshop == "" {
		fatalf("--workshop is required (or use --list)")
	}

	conn, err := sql.Open("pgx", *dsn)
	if err != nil {
		fatalf("open database: %v", err)
	}
	defer conn.Close()

	if *list {
		listPasswords(conn)
		return
	}

	password, err := auth.GeneratePassword(*length)
	if err != nil {
		fatalf("generate password: %v", err)
	}

	expiresAt := time.Now().Add(*ttl)
	_, err = conn.Exec(
		`INSERT INTO app_auth.credentials (password, workshop_name, expires_at, created_at)
		 VALUES ($1, $2, $3, $4)`,
		password, *workshop, expiresAt, time.Now(),
	)
	if err != nil {
		fatalf("insert credential: %v", err)
	}

	fmt.Printf("%s\t%s\texpires %s\n", password, *workshop, expiresAt.Format(time.RFC3339))
}

func listPasswords(conn *sql.DB) {
	rows, err := conn.Query(
		`SELECT password, workshop_name, expires_at
		 FROM app_auth.credentials ORDER BY expires_at DESC`)
	if err != nil {
		fatalf("query credentials: %v", err)
	}
	defer rows.Close()

	now := time.Now()
	for rows.Next() {
		var password, name string
		var expiresAt time.Time
		if err := rows.Scan(&password, &name, &expiresAt); err != nil {
			fatalf("scan row: %v", err)
		}
		state := "valid"
		if !now.Before(expiresAt) {
			state = "expired"
		}
		fmt.Printf("%s\t%s\t%s\t%s\n", password, name, expiresAt.Format(time.RFC3339), state)
	}
	if err := rows.Err(); err != nil {
		fatalf("iterate rows: %v", err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
