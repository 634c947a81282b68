package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/kmazurek/scorecap"
)

// Run executes the login command. It opens a visible browser on the
// login page, waits for the user to finish, and records the outcome in
// the profile.
func (c *LoginCmd) Run(deps *Dependencies) error {
	session, err := deps.Sessions.Start(deps.Ctx, false)
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer session.Close()

	if err := session.BeginInteractiveLogin(deps.Ctx); err != nil {
		return err
	}

	fmt.Fprintln(deps.Stdout, "Complete the login in the browser window, then press Enter.")
	if _, err := bufio.NewReader(deps.Stdin).ReadString('\n'); err != nil && err != io.EOF {
		return err
	}

	currentURL, err := session.CurrentURL(deps.Ctx)
	if err != nil {
		return err
	}
	if strings.Contains(currentURL, "login") {
		_ = deps.Login.ClearLogin()
		fmt.Fprintln(deps.Stdout, "Still on the login page; login not recorded.")
		return scorecap.Errorf(scorecap.EUNAUTHORIZED, "login was not completed")
	}

	if err := deps.Login.MarkLoggedIn(); err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, "Login saved. Future captures will reuse this session.")
	return nil
}
