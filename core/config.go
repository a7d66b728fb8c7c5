package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage engines
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Identity providers
const (
	IdentityLocal  = "local"
	IdentityGoTrue = "gotrue"
)

// Password policies
const (
	PasswordPolicyBasic  = "basic"
	PasswordPolicyStrict = "strict"
)

type Config struct {
	Env                       string
	Build                     string
	AppName                   string
	Debug                     bool
	TestMode                  bool
	WorkDir                   string
	SecretKey                 string
	FrontendBaseURL           string
	SendgridApiKey            string
	RollbarToken              string
	PasswordPolicy            string
	PasswordResetTimeoutDelta time.Duration
	Server                    struct {
		Host            string
		Address         string
		DebugAddress    string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}
	Database struct {
		Engine     string
		Host       string
		Port       string
		Name       string
		User       string
		Password   string
		DisableTLS bool
	}
	Storage struct {
		Engine string
	}
	Identity struct {
		Provider  string
		URL       string
		AnonKey   string
		JWTSecret string
		StorePath string
		TokenTTL  time.Duration
	}

	defaultFromEmail string
	v                *viper.Viper
}

func (c *Config) DefaultFromEmail() mail.Address {
	addr, err := mail.ParseAddress(c.defaultFromEmail)
	if err != nil {
		return mail.Address{Name: c.AppName, Address: c.defaultFromEmail}
	}
	return *addr
}

// DatabaseAddress returns the database "host:port".
func (c *Config) DatabaseAddress() string {
	if c.Database.Port == "" {
		return c.Database.Host
	}
	return c.Database.Host + ":" + c.Database.Port
}

// NewConfig loads the configuration from defaults, the environment,
// config/.env.<env> and the optional file named by CONFIG_FILE.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("build", "dev")
	v.SetDefault("appName", "Sesiones Formativas")
	v.SetDefault("secretKey", "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("passwordPolicy", PasswordPolicyBasic)
	v.SetDefault("passwordResetTimeoutDelta", 3*24*time.Hour)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugAddress", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "postgres")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.disableTLS", false)
	v.SetDefault("storage.engine", StorageMemory)
	v.SetDefault("identity.provider", IdentityLocal)
	v.SetDefault("identity.url", "")
	v.SetDefault("identity.anonKey", "")
	v.SetDefault("identity.jwtSecret", "")
	v.SetDefault("identity.storePath", "identity.db")
	v.SetDefault("identity.tokenTTL", time.Hour)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
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

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			log.Fatalf("config.ReadInConfig(%s): %v", file, err)
		}
	}

	conf := load(v, env)
	conf.WorkDir = wd
	return conf
}

func load(v *viper.Viper, env string) *Config {
	conf := &Config{
		Env:                       env,
		Build:                     v.GetString("build"),
		AppName:                   v.GetString("appName"),
		Debug:                     v.GetBool("debug"),
		TestMode:                  v.GetBool("testMode"),
		SecretKey:                 v.GetString("secretKey"),
		FrontendBaseURL:           strings.TrimRight(v.GetString("frontendBaseURL"), "/"),
		SendgridApiKey:            v.GetString("sendgridApiKey"),
		RollbarToken:              v.GetString("rollbarToken"),
		PasswordPolicy:            v.GetString("passwordPolicy"),
		PasswordResetTimeoutDelta: v.GetDuration("passwordResetTimeoutDelta"),
		defaultFromEmail:          v.GetString("defaultFromEmail"),
		v:                         v,
	}

	conf.Server.Host = v.GetString("server.host")
	conf.Server.Address = v.GetString("server.address")
	conf.Server.DebugAddress = v.GetString("server.debugAddress")
	conf.Server.ShutdownTimeout = v.GetDuration("server.shutdownTimeout")
	conf.Server.DisableReqLogs = v.GetBool("server.disableReqLogs")

	conf.Database.Engine = v.GetString("database.engine")
	conf.Database.Host = v.GetString("database.host")
	conf.Database.Port = v.GetString("database.port")
	conf.Database.Name = v.GetString("database.name")
	conf.Database.User = v.GetString("database.user")
	conf.Database.Password = v.GetString("database.password")
	conf.Database.DisableTLS = v.GetBool("database.disableTLS")

	conf.Storage.Engine = v.GetString("storage.engine")

	conf.Identity.Provider = v.GetString("identity.provider")
	conf.Identity.URL = strings.TrimRight(v.GetString("identity.url"), "/")
	conf.Identity.AnonKey = v.GetString("identity.anonKey")
	conf.Identity.JWTSecret = v.GetString("identity.jwtSecret")
	if conf.Identity.JWTSecret == "" {
		conf.Identity.JWTSecret = conf.SecretKey
	}
	conf.Identity.StorePath = v.GetString("identity.storePath")
	conf.Identity.TokenTTL = v.GetDuration("identity.tokenTTL")
	return conf
}

// Watch calls onChange with a freshly loaded Config every time the file named
// by CONFIG_FILE is written. It is a no-op when no config file is in use.
func (c *Config) Watch(onChange func(*Config)) {
	if c.v == nil || c.v.ConfigFileUsed() == "" {
		return
	}
	c.v.OnConfigChange(func(e fsnotify.Event) {
		if e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}
		conf := load(c.v, c.Env)
		conf.WorkDir = c.WorkDir
		onChange(conf)
	})
	c.v.WatchConfig()
}

// NewTestConfig returns a Config suitable for unit tests: no env lookups,
// in-memory storage and a fixed secret.
func NewTestConfig() *Config {
	conf := &Config{
		Env:                       "TEST",
		Build:                     "test",
		AppName:                   "Sesiones Formativas",
		Debug:                     false,
		TestMode:                  true,
		SecretKey:                 "test-secret",
		FrontendBaseURL:           "http://localhost:3000",
		PasswordPolicy:            PasswordPolicyBasic,
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		defaultFromEmail:          "noreply@test.local",
	}
	conf.Server.Host = "localhost"
	conf.Server.DisableReqLogs = true
	conf.Storage.Engine = StorageMemory
	conf.Identity.Provider = IdentityLocal
	conf.Identity.JWTSecret = conf.SecretKey
	conf.Identity.TokenTTL = time.Hour
	return conf
}
