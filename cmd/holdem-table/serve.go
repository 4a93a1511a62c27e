package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/cardroomlabs/holdem/internal/broadcast"
	"github.com/cardroomlabs/holdem/internal/config"
	"github.com/cardroomlabs/holdem/internal/handlog"
	"github.com/cardroomlabs/holdem/internal/manager"
)

type ServeCmd struct {
	Config    string        `short:"c" default:"holdem-table.hcl" help:"Path to HCL configuration file"`
	Addr      string        `short:"a" help:"Listen address (overrides config)"`
	HandLog   string        `help:"Directory to write JSON hand histories"`
	HandDelay time.Duration `default:"1s" help:"Pause between hands so spectators can follow"`
}

func (s *ServeCmd) Run(logger *log.Logger) error {
	cfg, err := config.Load(s.Config)
	if err != nil {
		return err
	}
	addr := cfg.Server.Address
	if s.Addr != "" {
		addr = s.Addr
	}

	hub := broadcast.NewHub(logger)
	go hub.Run()
	defer hub.Stop()

	stats := newTrackerSet()
	sinks := []manager.Sink{hub.Publish, stats.Record}

	var hl *handlog.Log
	if s.HandLog != "" {
		hl = handlog.New(s.HandLog)
		sinks = append(sinks, hl.Record)
	}

	mgr := manager.New(logger, manager.WithSink(fanout(sinks...)))

	tables := make([]*runningTable, 0, len(cfg.Tables))
	for _, tbl := range cfg.Tables {
		rt, err := createTable(mgr, tbl, 0, tbl.ActTimeout())
		if err != nil {
			return fmt.Errorf("table %s: %w", tbl.Name, err)
		}
		logger.Info("table registered", "table", tbl.Name, "game", rt.id)
		tables = append(tables, rt)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	srv := &http.Server{Addr: addr, Handler: mux}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	for _, rt := range tables {
		rt := rt
		g.Go(func() error {
			return rt.runHands(ctx, mgr, s.HandDelay)
		})
	}

	err = g.Wait()

	if hl != nil {
		if flushErr := hl.FlushAll(); flushErr != nil && err == nil {
			err = flushErr
		}
	}
	for _, rt := range tables {
		printSummary(rt.cfg.Name, stats.get(rt.id))
	}
	return err
}
