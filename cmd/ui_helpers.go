package cmd

import (
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pterm/pterm"
	"golang.org/x/term"

	apperrors "fashionstore/cli/internal/errors"
)

// reportedError marks an error the user has already been shown.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// alreadyReported wraps err so Execute does not print it a second time.
func alreadyReported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err: err}
}

func reported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

// interactive reports whether stdin is a terminal that can answer prompts.
func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// askString fills *dst from a prompt when it is empty. Outside a terminal a missing
// value is an error naming the flag to pass instead.
func askString(dst *string, flag, message string, secret bool) error {
	if *dst != "" {
		return nil
	}
	if !interactive() {
		return apperrors.New(apperrors.ConfigInvalid, fmt.Sprintf("--%s is required when not running in a terminal", flag))
	}
	var prompt survey.Prompt = &survey.Input{Message: message}
	if secret {
		prompt = &survey.Password{Message: message}
	}
	return survey.AskOne(prompt, dst, survey.WithValidator(survey.Required))
}

// withSpinner runs fn while a spinner with text is shown.
func withSpinner(text string, fn func() error) error {
	sp, err := pterm.DefaultSpinner.WithRemoveWhenDone(true).Start(text)
	if err != nil {
		return fn()
	}
	defer func() { _ = sp.Stop() }()
	return fn()
}

// notLoggedIn prints the hint shown by commands that need a session.
func notLoggedIn() {
	fmt.Println("🔒 You're not logged in yet!")
	fmt.Println("   Run 'fashionstore login' to get started.")
}

// getRandomLoginGreeting returns a random greeting phrase with the user's identifier
func getRandomLoginGreeting(identifier string) string {
	greetings := []string{
		"🎉 Welcome back, %s!",
		"✨ Great to see you, %s!",
		"🛍️  Happy shopping, %s!",
		"👋 Hello %s! The new collection is waiting.",
		"💫 Successfully signed in as %s",
		"✅ Authentication complete! Hi %s!",
	}
	return fmt.Sprintf(greetings[rand.Intn(len(greetings))], identifier)
}
