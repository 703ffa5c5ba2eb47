package cmd

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/speaktest/internal/speakingtest"
	"github.com/abhisek/speaktest/internal/testlist"
)

func testCommand() *cobra.Command {
	c := &cobra.Command{}
	c.SetContext(context.Background())
	return c
}

func TestCreateAndReport_Success(t *testing.T) {
	api := &speakingtest.MockAPI{CreateResult: &speakingtest.Record{ID: 9, Question: "Q"}}
	svc := testlist.NewService(api, 3)

	require.NoError(t, createAndReport(testCommand(), svc, "Q"))
	require.Len(t, api.CreateCalls, 1)
	assert.Equal(t, int64(3), api.CreateCalls[0].AuthorID)
}

func TestCreateAndReport_ServerMessage(t *testing.T) {
	api := &speakingtest.MockAPI{CreateErr: &speakingtest.StatusError{
		Op: "create", StatusCode: http.StatusBadRequest, Message: "Question too long",
	}}

	err := createAndReport(testCommand(), testlist.NewService(api, 1), "Q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Question too long")
}

func TestCreateAndReport_GenericFailure(t *testing.T) {
	api := &speakingtest.MockAPI{CreateErr: &speakingtest.TransportError{Op: "create"}}

	err := createAndReport(testCommand(), testlist.NewService(api, 1), "Q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), testlist.MsgCreateFailed)
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SPEAKTEST_CONFIG", "")
	t.Setenv("SPEAKTEST_API_URL", "http://env.example:5000")

	c := &cobra.Command{}
	c.Flags().String("config", "", "")
	c.Flags().String("api-url", "", "")
	c.Flags().String("db", "", "")
	require.NoError(t, c.Flags().Set("api-url", "http://flag.example:8080"))
	require.NoError(t, c.Flags().Set("db", "/tmp/x.db"))

	cfg, err := loadConfig(c)
	require.NoError(t, err)
	assert.Equal(t, "http://flag.example:8080", cfg.API.BaseURL)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
}

func TestLoadConfig_InvalidURL(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SPEAKTEST_CONFIG", "")

	c := &cobra.Command{}
	c.Flags().String("config", "", "")
	c.Flags().String("api-url", "", "")
	c.Flags().String("db", "", "")
	require.NoError(t, c.Flags().Set("api-url", "ftp://nope"))

	_, err := loadConfig(c)
	assert.Error(t, err)
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0012", formatCost(0.00123))
	assert.Equal(t, "$1.50", formatCost(1.5))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
}

func eventsListFlags() *cobra.Command {
	c := &cobra.Command{}
	c.Flags().IntP("limit", "n", 20, "")
	c.Flags().Int64("after", 0, "")
	c.Flags().Int64("before", 0, "")
	c.Flags().Duration("since", 0, "")
	c.Flags().String("until", "", "")
	return c
}

func TestQueryOptsFromFlags(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	c := eventsListFlags()
	require.NoError(t, c.Flags().Set("limit", "5"))
	require.NoError(t, c.Flags().Set("after", "10"))
	require.NoError(t, c.Flags().Set("before", "20"))
	require.NoError(t, c.Flags().Set("since", "2h"))
	require.NoError(t, c.Flags().Set("until", "2025-03-10T11:00:00Z"))

	opts, err := queryOptsFromFlags(c, now)
	require.NoError(t, err)
	assert.Equal(t, 5, opts.Limit)
	assert.Equal(t, int64(10), opts.After)
	assert.Equal(t, int64(20), opts.Before)
	assert.True(t, opts.From.Equal(now.Add(-2*time.Hour)))
	assert.True(t, opts.To.Equal(time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)))
}

func TestQueryOptsFromFlags_Defaults(t *testing.T) {
	opts, err := queryOptsFromFlags(eventsListFlags(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 20, opts.Limit)
	assert.True(t, opts.From.IsZero())
	assert.True(t, opts.To.IsZero())
}

func TestQueryOptsFromFlags_UntilBeforeSince(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	c := eventsListFlags()
	require.NoError(t, c.Flags().Set("since", "1h"))
	require.NoError(t, c.Flags().Set("until", "2025-03-10T10:00:00Z"))

	_, err := queryOptsFromFlags(c, now)
	assert.Error(t, err)
}

func TestParseUntil(t *testing.T) {
	d, err := parseUntil("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Day())
	assert.Equal(t, 23, d.Hour())

	_, err = parseUntil("last tuesday")
	assert.Error(t, err)
}

func TestListError(t *testing.T) {
	down := &speakingtest.TransportError{Op: "list", Err: errors.New("connection refused")}
	err := listError("http://localhost:8080", down)
	assert.ErrorIs(t, err, down)
	assert.Contains(t, err.Error(), "backend at http://localhost:8080 is not reachable")

	status := &speakingtest.StatusError{Op: "list", StatusCode: http.StatusInternalServerError}
	err = listError("http://localhost:8080", status)
	assert.ErrorIs(t, err, status)
	assert.NotContains(t, err.Error(), "not reachable")
}
