package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr string
	GinMode string

	DBUser string
	DBPass string
	DBHost string
	DBName string

	JWTSecret string

	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPass      string
	MailFrom      string
	MailRetries   int
	MailRetryWait int // seconds
}

func LoadEnv() Env {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	return Env{
		AppAddr: getenvDefault("APP_ADDR", ":8080"),
		GinMode: strings.TrimSpace(os.Getenv("GIN_MODE")),

		DBUser: getenvDefault("DB_USER", "root"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: getenvDefault("DB_HOST", "127.0.0.1:3306"),
		DBName: getenvDefault("DB_NAME", "busbooking"),

		JWTSecret: getenvDefault("JWT_SECRET", "super-secret-key-change-me"),

		SMTPHost:      getenvDefault("SMTP_HOST", "127.0.0.1"),
		SMTPPort:      getenvInt("SMTP_PORT", 587),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPass:      os.Getenv("SMTP_PASS"),
		MailFrom:      getenvDefault("MAIL_FROM", "noreply@busbooking.local"),
		MailRetries:   getenvInt("MAIL_RETRIES", 3),
		MailRetryWait: getenvInt("MAIL_RETRY_WAIT_SEC", 2),
	}
}

func getenvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
