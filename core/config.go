package core

import (
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Debug    bool
	TestMode bool
	Env      string // DEV (default), TEST, QA, PROD
	Build    string
	AppName  string

	RollbarToken string

	Server struct {
		Host            string
		Address         string
		DebugHost       string
		ShutdownTimeout time.Duration
	}

	Database struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	Blob struct {
		Container string // bucket holding uploaded CSV files
		Region    string
		Endpoint  string // optional, for MinIO/localstack
		PathStyle bool
	}

	EventGrid struct {
		TopicEndpoint  string
		AccessKey      string
		PublishTimeout time.Duration
	}
}

// NewConfig loads configuration from the environment, with an optional
// per-env dotenv file under config/.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "AssignKun")
	conf.SetDefault("serverHost", "localhost")
	conf.SetDefault("serverAddress", ":8000")
	conf.SetDefault("serverDebugHost", "localhost:4000")
	conf.SetDefault("serverShutdownTimeout", 5*time.Second)
	conf.SetDefault("databaseEngine", "postgres")
	conf.SetDefault("databaseHost", "localhost")
	conf.SetDefault("databasePort", "5432")
	conf.SetDefault("databaseName", "assignkun")
	conf.SetDefault("databaseDisableTLS", true)
	conf.SetDefault("blobContainer", "csv-uploads")
	conf.SetDefault("blobRegion", "us-east-1")
	conf.SetDefault("eventgridPublishTimeout", 30*time.Second)

	env := os.Getenv("ENV")
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	c := &Config{
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		Env:          env,
		Build:        conf.GetString("build"),
		AppName:      conf.GetString("appName"),
		RollbarToken: conf.GetString("rollbarToken"),
	}
	c.Server.Host = conf.GetString("serverHost")
	c.Server.Address = conf.GetString("serverAddress")
	c.Server.DebugHost = conf.GetString("serverDebugHost")
	c.Server.ShutdownTimeout = conf.GetDuration("serverShutdownTimeout")
	c.Database.Engine = conf.GetString("databaseEngine")
	c.Database.Host = conf.GetString("databaseHost")
	c.Database.Port = conf.GetString("databasePort")
	c.Database.Name = conf.GetString("databaseName")
	c.Database.User = conf.GetString("databaseUser")
	c.Database.Password = conf.GetString("databasePassword")
	c.Database.AdminUser = conf.GetString("databaseAdminUser")
	c.Database.AdminPassword = conf.GetString("databaseAdminPassword")
	c.Database.DisableTLS = conf.GetBool("databaseDisableTLS")
	c.Blob.Container = conf.GetString("blobContainer")
	c.Blob.Region = conf.GetString("blobRegion")
	c.Blob.Endpoint = conf.GetString("blobEndpoint")
	c.Blob.PathStyle = conf.GetBool("blobPathStyle")
	c.EventGrid.TopicEndpoint = conf.GetString("eventgridTopicEndpoint")
	c.EventGrid.AccessKey = conf.GetString("eventgridAccessKey")
	c.EventGrid.PublishTimeout = conf.GetDuration("eventgridPublishTimeout")
	return c
}

// DatabaseAddress returns the host:port pair of the configured database.
func (c *Config) DatabaseAddress() string {
	return net.JoinHostPort(c.Database.Host, c.Database.Port)
}

// ServerURL is the externally visible base URL of the API.
func (c *Config) ServerURL() string {
	return fmt.Sprintf("http://%s%s", c.Server.Host, c.Server.Address)
}
