package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Port           int      `yaml:"port"`
	LogLevel       string   `yaml:"log_level"`
	LogJSON        bool     `yaml:"log_json"`
	SecureCookies  bool     `yaml:"secure_cookies"` // Secure flag on session cookie (requires HTTPS)
	AllowedOrigins []string `yaml:"allowed_origins"`

	DefaultFetchLimit int `yaml:"default_fetch_limit"` // window used when limit is absent or out of range
	MaxFetchLimit     int `yaml:"max_fetch_limit"`

	PostInterval time.Duration `yaml:"post_interval"` // min time between accepted posts per session
	SessionTTL   time.Duration `yaml:"session_ttl"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Private struct {
	Pg         Pg     `yaml:"pg"`
	SessionKey string `yaml:"session_key"` // HMAC key for the session cookie
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		panic(err.Error())
	}
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Public.Port == 0 {
		c.Public.Port = 8080
	}
	if c.Public.LogLevel == "" {
		c.Public.LogLevel = "info"
	}
	if c.Public.DefaultFetchLimit == 0 {
		c.Public.DefaultFetchLimit = 100
	}
	if c.Public.MaxFetchLimit == 0 {
		c.Public.MaxFetchLimit = 200
	}
	if c.Public.PostInterval == 0 {
		c.Public.PostInterval = time.Second
	}
	if c.Public.SessionTTL == 0 {
		c.Public.SessionTTL = 24 * time.Hour
	}
}

func (c *Config) validate() error {
	if c.Private.SessionKey == "" {
		return fmt.Errorf("session_key is required")
	}
	if c.Private.Pg.Host == "" || c.Private.Pg.Dbname == "" {
		return fmt.Errorf("pg host and dbname are required")
	}
	if c.Public.DefaultFetchLimit > c.Public.MaxFetchLimit {
		return fmt.Errorf("default_fetch_limit %d exceeds max_fetch_limit %d",
			c.Public.DefaultFetchLimit, c.Public.MaxFetchLimit)
	}
	return nil
}
