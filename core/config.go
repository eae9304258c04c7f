package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Address            string
		Host               string
		DebugHost          string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine     string
		Host       string
		Port       int
		Name       string
		User       string
		Password   string
		DisableTLS bool
	}

	TimetableConfig struct {
		CheckRowLabels bool // reject day rows whose label does not match THEORY / LAB
	}

	CalendarConfig struct {
		TermStart time.Time // first week of the term; events recur weekly from here
		Weeks     int
		Timezone  string
	}

	Config struct {
		Env              string // DEV (local; default), TEST, QA, PROD
		Debug            bool
		TestMode         bool
		AppName          string
		Build            string
		WorkDir          string
		SecretKey        string
		RollbarToken     string
		SendgridApiKey   string
		FrontendBaseURL  string
		Storage          string // postgres | memory
		defaultFromEmail string

		Server    ServerConfig
		Database  DatabaseConfig
		Timetable TimetableConfig
		Calendar  CalendarConfig
	}
)

// NewConfig loads the configuration of the current ENV from `config/.env.<env>` (if present) and the environment.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "FacSched")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "x7#n4q2!lm0v(8zr$ke)9pw+jt5c@hd6yb3ua&g1sf%oi*ew")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("defaultFromEmail", "FacSched <noreply@localhost>")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("storage", "postgres")
	v.SetDefault("testMode", false)

	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "facsched")
	v.SetDefault("database.user", "facsched")
	v.SetDefault("database.password", "")
	v.SetDefault("database.disableTLS", true)

	v.SetDefault("timetable.checkRowLabels", false)

	v.SetDefault("calendar.termStart", "")
	v.SetDefault("calendar.weeks", 16)
	v.SetDefault("calendar.timezone", "UTC")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:              env,
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		AppName:          v.GetString("appName"),
		Build:            v.GetString("build"),
		WorkDir:          wd,
		SecretKey:        v.GetString("secretKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		Storage:          strings.ToLower(v.GetString("storage")),
		defaultFromEmail: v.GetString("defaultFromEmail"),
		Server: ServerConfig{
			Address:            v.GetString("server.address"),
			DebugHost:          v.GetString("server.debugHost"),
			ShutdownTimeout:    v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("server.jwtExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:     v.GetString("database.engine"),
			Host:       v.GetString("database.host"),
			Port:       v.GetInt("database.port"),
			Name:       v.GetString("database.name"),
			User:       v.GetString("database.user"),
			Password:   v.GetString("database.password"),
			DisableTLS: v.GetBool("database.disableTLS"),
		},
		Timetable: TimetableConfig{
			CheckRowLabels: v.GetBool("timetable.checkRowLabels"),
		},
		Calendar: CalendarConfig{
			Weeks:    v.GetInt("calendar.weeks"),
			Timezone: v.GetString("calendar.timezone"),
		},
	}

	if host, err := os.Hostname(); err == nil {
		conf.Server.Host = host
	}
	if ts := v.GetString("calendar.termStart"); ts != "" {
		start, err := time.Parse("2006-01-02", ts)
		if err != nil {
			log.Fatalf("config.calendar.termStart(%s): %v", ts, err)
		}
		conf.Calendar.TermStart = start
	}
	return conf
}

// NewTestConfig returns the configuration used by tests: in-memory storage, no external services.
func NewTestConfig() *Config {
	return &Config{
		Env:              "TEST",
		Debug:            true,
		TestMode:         true,
		AppName:          "FacSched",
		Build:            "test",
		SecretKey:        "test-secret",
		FrontendBaseURL:  "http://localhost:3000",
		Storage:          "memory",
		defaultFromEmail: "FacSched <noreply@localhost>",
		Server: ServerConfig{
			Address:            ":0",
			ShutdownTimeout:    time.Second,
			JWTExpirationDelta: time.Hour,
		},
		Calendar: CalendarConfig{
			TermStart: time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC),
			Weeks:     16,
			Timezone:  "UTC",
		},
	}
}

func (conf *Config) DefaultFromEmail() mail.Address {
	addr, err := mail.ParseAddress(conf.defaultFromEmail)
	if err != nil {
		return mail.Address{Name: conf.AppName, Address: "noreply@localhost"}
	}
	return *addr
}

func (db DatabaseConfig) Address() string {
	return net.JoinHostPort(db.Host, strconv.Itoa(db.Port))
}
