package config_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/cropprospector/backend/internal/config"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.History.ResolvedDriver(), convey.ShouldEqual, config.DriverMemory)
				convey.So(cfg.History.SaveTimeout, convey.ShouldEqual, 5*time.Second)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PROSPECTOR_ADDR", ":9090")
			_ = os.Setenv("PROSPECTOR_LOG_LEVEL", "debug")
			_ = os.Setenv("PROSPECTOR_READ_TIMEOUT", "3s")
			_ = os.Setenv("PROSPECTOR_MAX_BATCH_SIZE", "50")
			_ = os.Setenv("PROSPECTOR_HISTORY__DRIVER", "sqlite")
			_ = os.Setenv("PROSPECTOR_HISTORY__SQLITE_PATH", "/tmp/history.db")
			_ = os.Setenv("PROSPECTOR_HISTORY__MAX_LIMIT", "25")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.ReadTimeout, convey.ShouldEqual, 3*time.Second)
				convey.So(cfg.MaxBatchSize, convey.ShouldEqual, 50)
				convey.So(cfg.History.Driver, convey.ShouldEqual, config.DriverSQLite)
				convey.So(cfg.History.SQLitePath, convey.ShouldEqual, "/tmp/history.db")
				convey.So(cfg.History.MaxLimit, convey.ShouldEqual, 25)
				convey.So(cfg.History.MemoryCapacity, convey.ShouldEqual, 500) // From defaults
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":7070"
batch_concurrency: 8
catalog_path: /etc/prospector/catalog.yaml
history:
  driver: memory
  memory_capacity: 42
`
			tmpFile := createTempConfigFile(t, yamlContent)
			_ = os.Setenv("PROSPECTOR_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.BatchConcurrency, convey.ShouldEqual, 8)
				convey.So(cfg.CatalogPath, convey.ShouldEqual, "/etc/prospector/catalog.yaml")
				convey.So(cfg.History.MemoryCapacity, convey.ShouldEqual, 42)
				convey.So(cfg.History.MaxLimit, convey.ShouldEqual, 100) // From defaults
			})

			convey.Convey("And environment variables should override file values", func() {
				_ = os.Setenv("PROSPECTOR_ADDR", ":6060")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
				convey.So(cfg.BatchConcurrency, convey.ShouldEqual, 8)
			})
		})

		convey.Convey("When DATABASE_URL and PORT are set", func() {
			_ = os.Setenv("DATABASE_URL", "postgres://db/prospector")
			_ = os.Setenv("PORT", "3000")

			cfg, err := config.Load(ctx)

			convey.Convey("Then they fill in absent prefixed keys", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":3000")
				convey.So(cfg.History.DatabaseURL, convey.ShouldEqual, "postgres://db/prospector")
				convey.So(cfg.History.ResolvedDriver(), convey.ShouldEqual, config.DriverPostgres)
			})

			convey.Convey("And prefixed keys still win", func() {
				_ = os.Setenv("PROSPECTOR_ADDR", ":4000")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":4000")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv("PROSPECTOR_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("PROSPECTOR_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("PROSPECTOR_MAX_BATCH_SIZE", "not_a_number")

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When the postgres driver has no database url", func() {
			_ = os.Setenv("PROSPECTOR_HISTORY__DRIVER", "postgres")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "database_url")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the driver is unknown", func() {
			_ = os.Setenv("PROSPECTOR_HISTORY__DRIVER", "mongo")

			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the log level is unknown", func() {
			_ = os.Setenv("PROSPECTOR_LOG_LEVEL", "chatty")

			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the batch size is zero", func() {
			_ = os.Setenv("PROSPECTOR_MAX_BATCH_SIZE", "0")

			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "max_batch_size")
		})
	})
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "prospector-*.yaml")
	if err != nil {
		t.Fatalf("create temp config: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return f.Name()
}

func clearConfigEnvVars() {
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, config.EnvPrefix) {
			_ = os.Unsetenv(key)
		}
	}
	_ = os.Unsetenv("DATABASE_URL")
	_ = os.Unsetenv("PORT")
}
