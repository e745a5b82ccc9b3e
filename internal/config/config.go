// Package config содержит логику чтения конфигурации сервиса.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации сервиса
type Config struct {
	RunAddress       string `env:"RUN_ADDRESS"`
	DatabaseURI      string `env:"DATABASE_URI"`
	JWTSecret        string `env:"JWT_SECRET"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"development"`
	AnalyticsAddress string `env:"ANALYTICS_ADDRESS"`

	// Пул отправки аналитических событий
	WorkerPoolSize  int `env:"WORKER_POOL_SIZE" envDefault:"2"`
	WorkerQueueSize int `env:"WORKER_QUEUE_SIZE" envDefault:"256"`

	// Период прохода обработчика начислений за доставленные заказы, секунды
	AwardSweepSec int `env:"AWARD_SWEEP_SEC" envDefault:"5"`

	// Оптовое ценообразование корзины: при общем количестве от
	// BulkMinQty каждая единица продается по BulkUnitPrice
	BulkMinQty    int     `env:"BULK_MIN_QTY" envDefault:"10"`
	BulkUnitPrice float64 `env:"BULK_UNIT_PRICE" envDefault:"450"`

	// Процент начисления бонусов от финальной суммы доставленного заказа
	BonusEarnPercent float64 `env:"BONUS_EARN_PERCENT" envDefault:"5"`

	// Процент выплаты курьеру от суммы доставленного заказа
	CourierPayoutPercent float64 `env:"COURIER_PAYOUT_PERCENT" envDefault:"20"`

	// Шаг временных слотов курьерской доставки, минуты
	CourierSlotStepMin int `env:"COURIER_SLOT_STEP_MIN" envDefault:"10"`
}

// Load считывает конфигурацию из переменных окружения и флагов.
// Приоритет: env переменные > флаги > дефолтные значения.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI

	flag.StringVar(&cfg.RunAddress, "a", ":8080", "address and port to run server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "default-secret-key-change-in-production"
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI is required (use -d flag or DATABASE_URI env)")
	}

	if cfg.BulkMinQty < 1 {
		return nil, fmt.Errorf("BULK_MIN_QTY must be positive, got %d", cfg.BulkMinQty)
	}

	return cfg, nil
}
