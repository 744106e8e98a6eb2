package config

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoadDefaults(t *testing.T) {
	Convey("Given no overrides", t, func() {
		cfg, err := Load()
		So(err, ShouldBeNil)
		So(cfg.Addr, ShouldEqual, ":8080")
		So(cfg.IndexPath, ShouldEqual, "data/games.csv")
		So(cfg.LogLevel, ShouldEqual, "info")
		So(cfg.FeedRateLimit, ShouldEqual, 8)
	})
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CLUTCH_ADDR", ":9999")
	t.Setenv("CLUTCH_WORKER_COUNT", "4")
	t.Setenv("CLUTCH_LOG_LEVEL", "debug")

	Convey("Given env overrides", t, func() {
		cfg, err := Load()
		So(err, ShouldBeNil)
		So(cfg.Addr, ShouldEqual, ":9999")
		So(cfg.WorkerCount, ShouldEqual, 4)
		So(cfg.LogLevel, ShouldEqual, "debug")
		So(cfg.IndexPath, ShouldEqual, "data/games.csv")
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":7070\"\nindex_path: /srv/games.csv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CLUTCH_CONFIG", path)

	Convey("Given a config file", t, func() {
		cfg, err := Load()
		So(err, ShouldBeNil)
		So(cfg.Addr, ShouldEqual, ":7070")
		So(cfg.IndexPath, ShouldEqual, "/srv/games.csv")
	})
}

func TestLoadValidation(t *testing.T) {
	t.Setenv("CLUTCH_ADDR", "")

	Convey("Given a blank addr the load fails", t, func() {
		_, err := Load()
		So(err, ShouldWrap, ErrInvalidConfig)
	})
}
