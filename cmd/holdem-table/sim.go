package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/cardroomlabs/holdem/internal/config"
	"github.com/cardroomlabs/holdem/internal/handlog"
	"github.com/cardroomlabs/holdem/internal/manager"
)

type SimCmd struct {
	Config  string `short:"c" default:"holdem-table.hcl" help:"Path to HCL configuration file"`
	Seed    int64  `help:"Override every table's seed"`
	HandLog string `help:"Directory to write JSON hand histories"`
}

func (s *SimCmd) Run(logger *log.Logger) error {
	cfg, err := config.Load(s.Config)
	if err != nil {
		return err
	}

	stats := newTrackerSet()
	sinks := []manager.Sink{stats.Record}

	var hl *handlog.Log
	if s.HandLog != "" {
		hl = handlog.New(s.HandLog)
		sinks = append(sinks, hl.Record)
	}

	mgr := manager.New(logger, manager.WithSink(fanout(sinks...)))

	tables := make([]*runningTable, 0, len(cfg.Tables))
	for _, tbl := range cfg.Tables {
		// Bots act synchronously, so the act clock stays off here.
		rt, err := createTable(mgr, tbl, s.Seed, 0)
		if err != nil {
			return fmt.Errorf("table %s: %w", tbl.Name, err)
		}
		logger.Info("table registered", "table", tbl.Name, "game", rt.id, "hands", tbl.Hands)
		tables = append(tables, rt)
	}

	g, ctx := errgroup.WithContext(context.Background())
	for _, rt := range tables {
		rt := rt
		g.Go(func() error {
			return rt.runHands(ctx, mgr, 0)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if hl != nil {
		if err := hl.FlushAll(); err != nil {
			return err
		}
		logger.Info("hand histories written", "dir", s.HandLog)
	}

	for _, rt := range tables {
		printSummary(rt.cfg.Name, stats.get(rt.id))
	}
	return nil
}
