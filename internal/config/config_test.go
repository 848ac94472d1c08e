package config_test

import (
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/cropprospector/backend/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.ReadTimeout, convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.MaxBatchSize, convey.ShouldEqual, 20)
			convey.So(cfg.History.Driver, convey.ShouldEqual, config.DriverAuto)
			convey.So(cfg.History.MaxLimit, convey.ShouldEqual, 100)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then auto resolves by database url", func() {
			convey.So(cfg.History.ResolvedDriver(), convey.ShouldEqual, config.DriverMemory)
			cfg.History.DatabaseURL = "postgres://localhost/prospector"
			convey.So(cfg.History.ResolvedDriver(), convey.ShouldEqual, config.DriverPostgres)
			cfg.History.Driver = config.DriverSQLite
			convey.So(cfg.History.ResolvedDriver(), convey.ShouldEqual, config.DriverSQLite)
		})
	})
}
