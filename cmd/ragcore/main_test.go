package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSetupLogger(t *testing.T) {
	originalLogger := slog.Default()
	defer slog.SetDefault(originalLogger)

	app := &cli.App{
		Name: "ragcore",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
			},
		},
		Before: setupLogger,
		Action: func(*cli.Context) error { return nil },
	}

	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{"debug", "debug", false},
		{"info", "info", false},
		{"warn", "warn", false},
		{"error", "error", false},
		{"uppercase accepted", "DEBUG", false},
		{"invalid", "verbose", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := app.Run([]string{"ragcore", "--log-level", tt.level})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQueryArg(t *testing.T) {
	app := &cli.App{
		Name: "ragcore",
		Action: func(c *cli.Context) error {
			query, err := queryArg(c)
			if err != nil {
				return err
			}
			assert.Equal(t, "connection pooling", query)
			return nil
		},
	}

	require.NoError(t, app.Run([]string{"ragcore", "connection", "pooling"}))
	assert.Error(t, app.Run([]string{"ragcore"}))
}

func TestSearchCommand_RejectsBadFilterValues(t *testing.T) {
	dir := t.TempDir()

	app := &cli.App{
		Name: "ragcore",
		Commands: []*cli.Command{
			{
				Name:   "search",
				Action: searchCommand,
				Flags: append(append(dbFlags(), embeddingFlags()...),
					&cli.IntFlag{Name: "limit", Value: 10},
					&cli.Float64Flag{Name: "min-quality", Value: 0.7},
					&cli.StringSliceFlag{Name: "type"},
					&cli.StringSliceFlag{Name: "source"},
					&cli.BoolFlag{Name: "keyword-only"},
				),
			},
		},
	}

	err := app.Run([]string{"ragcore", "search", "--db", dir, "--type", "bogus", "query"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document type")
}
