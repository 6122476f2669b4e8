// Command seed bootstraps the first admin account. It prompts for the
// account details on the terminal, reading the password without echo.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/ndenisov/showcase/internal/logging"
	"github.com/ndenisov/showcase/internal/server"
	"github.com/ndenisov/showcase/internal/server/config"
	"github.com/ndenisov/showcase/internal/server/services"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	store, err := server.NewDocStore(ctx, cfg)
	if err != nil {
		log.Fatalf("store init error: %v", err)
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	users := services.NewUsers(store, cfg, logger)

	reader := bufio.NewReader(os.Stdin)

	name, err := prompt(reader, "Admin name: ")
	if err != nil {
		log.Fatalf("read error: %v", err)
	}
	email, err := prompt(reader, "Admin email: ")
	if err != nil {
		log.Fatalf("read error: %v", err)
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		log.Fatalf("password read error: %v", err)
	}

	user, _, err := users.Register(ctx, name, email, string(password), "admin")
	if err != nil {
		log.Fatalf("admin creation failed: %v", err)
	}

	fmt.Printf("Admin account created: %s\n", user.Email)
}

func prompt(r *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
