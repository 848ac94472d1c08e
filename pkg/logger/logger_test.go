package logger

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	Convey("Given level strings", t, func() {
		cases := map[string]zapcore.Level{
			"debug":   zapcore.DebugLevel,
			"":        zapcore.InfoLevel,
			" INFO ":  zapcore.InfoLevel,
			"warning": zapcore.WarnLevel,
			"Warn":    zapcore.WarnLevel,
			"error":   zapcore.ErrorLevel,
		}

		Convey("Then known names parse", func() {
			for in, want := range cases {
				got, err := ParseLevel(in)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, want)
			}
		})

		Convey("Then unknown names are rejected", func() {
			_, err := ParseLevel("verbose")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "verbose")
		})
	})
}

func TestNew(t *testing.T) {
	Convey("Given logger construction", t, func() {
		Convey("When building a production logger", func() {
			l, err := New("warn", "production")

			Convey("Then it honours the level", func() {
				So(err, ShouldBeNil)
				So(l.Core().Enabled(zapcore.InfoLevel), ShouldBeFalse)
				So(l.Core().Enabled(zapcore.WarnLevel), ShouldBeTrue)
				_ = l.Sync()
			})
		})

		Convey("When building a development logger", func() {
			l, err := New("debug", "development")

			Convey("Then debug is enabled", func() {
				So(err, ShouldBeNil)
				So(l.Core().Enabled(zapcore.DebugLevel), ShouldBeTrue)
				So(func() { l.Named("test").Debug("test message") }, ShouldNotPanic)
			})
		})

		Convey("When the level is invalid", func() {
			l, err := New("loud", "production")
			So(err, ShouldNotBeNil)
			So(l, ShouldBeNil)
		})

		Convey("Then Nop never panics", func() {
			So(func() { Nop().Info("discarded") }, ShouldNotPanic)
		})
	})
}
