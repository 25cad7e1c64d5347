package main

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// adminPasswordEnv is the environment variable getPassword falls back
// to before prompting, mirroring the teacher's BINDICATOR_PASSWORD.
const adminPasswordEnv = "SPECCYBOOT_ADMIN_PASSWORD"

// getPassword resolves the password gating an admin command.
// Priority: flag > env var > interactive no-echo prompt.
func getPassword(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if envPass := os.Getenv(adminPasswordEnv); envPass != "" {
		return envPass, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("no password supplied and stdin is not a terminal (set -password or %s)", adminPasswordEnv)
	}
	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(password), nil
}

// requireAdminPassword gates a ROM-burning or TFTP-root-override
// command behind a non-empty password, resolved via getPassword.
func requireAdminPassword(flagValue string) error {
	pass, err := getPassword(flagValue)
	if err != nil {
		return err
	}
	if pass == "" {
		return fmt.Errorf("a password is required for this command")
	}
	return nil
}
