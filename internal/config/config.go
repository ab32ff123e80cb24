package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	DB       *DBconfig
	Redis    *Redisconfig
	RabbitMq *RabbitMqconfig
	Srv      *Serviceconfig
	Log      *Loggerconfig
	App      *Appconfig
	Dispatch *Dispatchconfig
}

type DBconfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type Redisconfig struct {
	Host string
	Port int
}

type RabbitMqconfig struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
}

type Serviceconfig struct {
	DispatchServicePort string
}

type Loggerconfig struct {
	Level string
}

type Appconfig struct {
	JwtSecret string
	// AdminSecretHash is a bcrypt hash of the admin enrollment secret.
	AdminSecretHash string
}

type Dispatchconfig struct {
	// SimulatorIntervalSeconds is how often an available driver's simulated
	// position drifts.
	SimulatorIntervalSeconds int
}

func New() (*Config, error) {
	getEnv := func(key, def string) string {
		val := os.Getenv(key)
		if val == "" {
			fmt.Printf("using default for %v\n", key)
			return def
		}
		return val
	}

	getEnvInt := func(key string, def int) int {
		valStr := os.Getenv(key)
		if valStr == "" {
			fmt.Printf("using default for %v\n", key)
			return def
		}
		val, err := strconv.Atoi(valStr)
		if err != nil {
			fmt.Printf("using default for %v\n", key)
			return def
		}
		return val
	}

	cnf := &Config{
		DB: &DBconfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "dispatch_user"),
			Password: getEnv("DB_PASSWORD", "dispatch_pass"),
			Database: getEnv("DB_NAME", "dispatch_db"),
		},
		Redis: &Redisconfig{
			Host: getEnv("REDIS_HOST", "localhost"),
			Port: getEnvInt("REDIS_PORT", 6379),
		},
		RabbitMq: &RabbitMqconfig{
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnvInt("RABBITMQ_PORT", 5672),
			User:     getEnv("RABBITMQ_USER", "guest"),
			Password: getEnv("RABBITMQ_PASSWORD", "guest"),
			VHost:    getEnv("RABBITMQ_VHOST", ""),
		},
		Srv: &Serviceconfig{
			DispatchServicePort: getEnv("DISPATCH_SERVICE_PORT", "3000"),
		},
		Log: &Loggerconfig{
			Level: getEnv("LOG_LEVEL", "INFO"),
		},
		App: &Appconfig{
			JwtSecret:       getEnv("JWT_SECRET", "dev-secret"),
			AdminSecretHash: getEnv("ADMIN_SECRET_HASH", ""),
		},
		Dispatch: &Dispatchconfig{
			SimulatorIntervalSeconds: getEnvInt("SIMULATOR_INTERVAL_SECONDS", 5),
		},
	}

	return cnf, nil
}
