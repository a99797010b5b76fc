package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alc6/pgpopulate/config"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

type status int

const (
	statusOK status = iota
	statusWarn
	statusFail
)

func printStatus(w io.Writer, s status, format string, args ...any) {
	var label string
	switch s {
	case statusOK:
		label = okStyle.Render("OK")
	case statusWarn:
		label = warnStyle.Render("WARN")
	default:
		label = failStyle.Render("FAIL")
	}
	fmt.Fprintf(w, "%s %s\n", label, fmt.Sprintf(format, args...))
}

// profileAnswers holds the raw strings collected by the interactive form
type profileAnswers struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	Schema   string
	Tables   string
}

// promptProfile asks for the connection profile; tests replace it.
var promptProfile = func(cfg *config.Config) (profileAnswers, error) {
	answers := profileAnswers{
		Host:     cfg.Database.Host,
		Port:     strconv.Itoa(cfg.Database.Port),
		Name:     cfg.Database.Name,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Schema:   cfg.Schema,
		Tables:   strings.Join(cfg.Tables, ","),
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Host").Value(&answers.Host).Validate(required("host")),
			huh.NewInput().Title("Port").Value(&answers.Port).Validate(validPort),
			huh.NewInput().Title("Database").Value(&answers.Name).Validate(required("database")),
			huh.NewInput().Title("User").Value(&answers.User).Validate(required("user")),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&answers.Password),
		),
		huh.NewGroup(
			huh.NewInput().Title("Schema").Value(&answers.Schema).Validate(required("schema")),
			huh.NewInput().Title("Tables").Description("Comma separated, in output order").Value(&answers.Tables).Validate(required("tables")),
		),
	)

	if err := form.Run(); err != nil {
		return profileAnswers{}, err
	}
	return answers, nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validPort(s string) error {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %q", s)
	}
	return nil
}

// applyProfileAnswers copies the form answers into cfg and validates the result
func applyProfileAnswers(cfg *config.Config, answers profileAnswers) error {
	if err := validPort(answers.Port); err != nil {
		return err
	}
	port, _ := strconv.Atoi(strings.TrimSpace(answers.Port))

	var tables []string
	for _, name := range strings.Split(answers.Tables, ",") {
		if name = strings.TrimSpace(name); name != "" {
			tables = append(tables, name)
		}
	}

	cfg.Database.Host = strings.TrimSpace(answers.Host)
	cfg.Database.Port = port
	cfg.Database.Name = strings.TrimSpace(answers.Name)
	cfg.Database.User = strings.TrimSpace(answers.User)
	cfg.Database.Password = answers.Password
	cfg.Schema = strings.TrimSpace(answers.Schema)
	cfg.Tables = tables

	return cfg.Validate()
}
