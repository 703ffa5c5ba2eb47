package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/abhisek/speaktest/internal/config"
	"github.com/abhisek/speaktest/internal/llm"
	"github.com/abhisek/speaktest/internal/speakingtest"
	"github.com/abhisek/speaktest/internal/store"
	"github.com/abhisek/speaktest/internal/suggest"
)

// deps bundles what a command needs to talk to the backend.
type deps struct {
	cfg   *config.Config
	api   speakingtest.API
	store *store.Store // nil when the event log could not be opened
}

// openDeps builds the REST client and, when possible, the event log that
// records its requests. A store failure is reported and otherwise ignored.
func openDeps(cfg *config.Config) (*deps, error) {
	client, err := speakingtest.NewClient(speakingtest.ClientConfig{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	})
	if err != nil {
		return nil, err
	}

	d := &deps{cfg: cfg, api: client}

	st, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: request log disabled: %v\n", err)
		return d, nil
	}
	d.store = st
	d.api = speakingtest.WithLogging(client, client.Endpoint(), st.EventRepo())
	return d, nil
}

func openStore(cfg *config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func (d *deps) Close() {
	if d.store != nil {
		d.store.Close()
	}
}

// suggester returns nil, nil when no LLM provider is configured.
func (d *deps) suggester(ctx context.Context) (*suggest.Suggester, error) {
	var repo store.EventRepo
	if d.store != nil {
		repo = d.store.EventRepo()
	}

	provider, err := llm.NewProvider(ctx, d.cfg.LLM, repo)
	if errors.Is(err, llm.ErrDisabled) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return suggest.New(provider, suggest.DefaultConfig()), nil
}
