package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mikey/llm-doc-triage/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func exerciseSink(t *testing.T, s core.Sink) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "last_output")
	assert.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, s.Put(ctx, "last_output", `{"status":"success"}`))
	got, err := s.Get(ctx, "last_output")
	require.NoError(t, err)
	assert.Equal(t, `{"status":"success"}`, got)

	// collisions overwrite
	require.NoError(t, s.Put(ctx, "last_output", `{"status":"error"}`))
	got, err = s.Get(ctx, "last_output")
	require.NoError(t, err)
	assert.Equal(t, `{"status":"error"}`, got)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Put(ctx, "last_classification", fmt.Sprintf("v%d", i)))
		}(i)
	}
	wg.Wait()

	got, err = s.Get(ctx, "last_classification")
	require.NoError(t, err)
	assert.Regexp(t, `^v\d+$`, got)
}

func TestMemorySink(t *testing.T) {
	s := NewMemorySink(zaptest.NewLogger(t))
	exerciseSink(t, s)

	require.NoError(t, s.Close())
	_, err := s.Get(context.Background(), "last_output")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestSQLiteSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triage.db")
	s, err := NewSQLiteSink(path, zaptest.NewLogger(t))
	require.NoError(t, err)
	exerciseSink(t, s)
	require.NoError(t, s.Close())

	// entries survive a reopen
	reopened, err := NewSQLiteSink(path, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(context.Background(), "last_output")
	require.NoError(t, err)
	assert.Equal(t, `{"status":"error"}`, got)
}

func TestMySQLSink(t *testing.T) {
	dsn := os.Getenv("DOC_TRIAGE_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("DOC_TRIAGE_TEST_MYSQL_DSN not set")
	}

	s, err := NewMySQLSink(dsn, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer s.Close()
	exerciseSink(t, s)
}

func TestParseMySQLDSN(t *testing.T) {
	dsn, err := ParseMySQLDSN("user:password@tcp(localhost:3306)/doc_triage")
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")

	_, err = ParseMySQLDSN("not a dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid MySQL DSN")
}
