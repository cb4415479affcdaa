package stdlogger_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vigil-vms/vigil/internal/logger/adapter/stdlogger"
)

type entry struct {
	Level     string `json:"level"`
	Component string `json:"component"`
	Message   string `json:"message"`
}

// capture points the global logger at a buffer for the duration of the test.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	prev, prevLevel := log.Logger, zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})

	return &buf
}

func entries(t *testing.T, buf *bytes.Buffer) []entry {
	t.Helper()

	var out []entry
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var e entry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e), sc.Text())
		out = append(out, e)
	}

	return out
}

func TestGormLines(t *testing.T) {
	buf := capture(t)
	ctx := context.Background()

	gl := gormlogger.New(stdlogger.New("gorm"), gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  gormlogger.Info,
		IgnoreRecordNotFoundError: true,
	})

	query := func(sql string) func() (string, int64) {
		return func() (string, int64) { return sql, 3 }
	}

	gl.Trace(ctx, time.Now(), query("SELECT * FROM `cameras`"), nil)
	gl.Trace(ctx, time.Now().Add(-2*time.Second), query("SELECT * FROM `videos`"), nil)
	gl.Trace(ctx, time.Now(), query("INSERT INTO `events`"), errors.New("FOREIGN KEY constraint failed"))
	gl.Trace(ctx, time.Now(), query("SELECT * FROM `users` WHERE id = 9"), gormlogger.ErrRecordNotFound)
	gl.Warn(ctx, "pool exhausted after %d tries", 3)
	gl.Error(ctx, "migration %s failed", "videos")
	gl.Info(ctx, "migrated %d tables", 9)

	got := entries(t, buf)
	require.Len(t, got, 7)

	levels := make([]string, 0, len(got))
	for _, e := range got {
		assert.Equal(t, "gorm", e.Component)
		assert.NotContains(t, e.Message, "\n")
		levels = append(levels, e.Level)
	}

	assert.Equal(t, []string{"info", "warn", "error", "info", "warn", "error", "info"}, levels)

	assert.Contains(t, got[0].Message, "[rows:3] SELECT * FROM `cameras`")
	assert.Contains(t, got[1].Message, "SLOW SQL >= 1s")
	assert.Contains(t, got[2].Message, "FOREIGN KEY constraint failed")
	assert.Contains(t, got[2].Message, "INSERT INTO `events`")
	assert.Contains(t, got[4].Message, "[warn] pool exhausted after 3 tries")
	assert.Contains(t, got[5].Message, "[error] migration videos failed")
}

func TestLeveledMethods(t *testing.T) {
	buf := capture(t)

	l := stdlogger.New("")
	l.Debugf("decoded %d frames", 12)
	l.Infof("camera %s online", "gate")
	l.Warningf("disk %d%% full", 91)
	l.Errorf("upload %v", errors.New("aborted"))

	got := entries(t, buf)
	require.Len(t, got, 4)

	assert.Equal(t, entry{Level: "debug", Message: "decoded 12 frames"}, got[0])
	assert.Equal(t, entry{Level: "info", Message: "camera gate online"}, got[1])
	assert.Equal(t, entry{Level: "warn", Message: "disk 91% full"}, got[2])
	assert.Equal(t, entry{Level: "error", Message: "upload aborted"}, got[3])

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	l.Debugf("suppressed")
	assert.Empty(t, entries(t, buf))
}
