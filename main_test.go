package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"election-dashboard/config"
	"election-dashboard/storage"
	"election-dashboard/utils"
)

func writeInputs(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		return path
	}

	c := config.LoadFrom(viper.New())
	c.CandidatesPath = write("candidates.csv",
		"State,Constituency_No,Candidate Name,Party,Gender,Age,Application Status\n"+
			"Goa,1,Edwin,BJP,MALE,55,Accepted\n")
	c.ResultsPath = write("results.csv",
		"State,PC No,PC Name,Candidate,Party,Total Votes\n"+
			"Goa,1,North Goa,Edwin,BJP,7000\n")
	c.WinnersPath = write("winners.csv",
		"State,PC No,Winning Candidate,Winning Party,Margin Votes\n"+
			"Goa,1,Edwin,BJP,500\n")
	c.SQLitePath = filepath.Join(dir, "election.db")
	return c
}

func TestLoadStoreFromCSV(t *testing.T) {
	cfg, logger = writeInputs(t), utils.NewNopLogger()

	store, err := loadStore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, "Goa", store.DefaultState())
}

func TestLoadStoreMissingTable(t *testing.T) {
	cfg, logger = writeInputs(t), utils.NewNopLogger()
	cfg.ResultsPath = filepath.Join(t.TempDir(), "missing.csv")

	_, err := loadStore(context.Background())

	var loadErr *storage.LoadError
	require.True(t, errors.As(err, &loadErr), "got %v", err)
	assert.Equal(t, storage.TableResults, loadErr.Table)
}

func TestLoadStoreFromSQLite(t *testing.T) {
	cfg, logger = writeInputs(t), utils.NewNopLogger()
	cfg.MaxRetries = 1

	seedCmd.SetContext(context.Background())
	require.NoError(t, seedCmd.RunE(seedCmd, nil))

	cfg.Source = config.SourceSQLite
	store, err := loadStore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, int64(500), *store.Rows()[0].MarginVotes)
}

func TestServeLoopback(t *testing.T) {
	logger = utils.NewNopLogger()
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { io.WriteString(w, "ok") })

	base, shutdown, err := serveLoopback(h)
	require.NoError(t, err)
	defer shutdown()

	resp, err := http.Get(base + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ok", string(body))
}
