package game

// flushTelemetry checks if the stats window should be flushed and writes it out.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.step) {
		return
	}

	stats := g.collector.Flush(g.step, g.solver.Particles())
	perfStats := g.perfCollector.Stats()

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			g.logger.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndStep); err != nil {
			g.logger.Error("failed to write perf", "error", err)
		}
	}
}

// writeSnapshot dumps all particles every snapshotEvery steps.
func (g *Game) writeSnapshot() {
	if g.outputManager == nil || g.snapshotEvery <= 0 || g.step%g.snapshotEvery != 0 {
		return
	}

	g.solver.SnapshotInto(&g.snapshot)
	if err := g.outputManager.WriteParticles(&g.snapshot); err != nil {
		g.logger.Error("failed to write particles", "error", err)
		return
	}
	g.logger.Info("particles saved", "step", g.step, "dir", g.outputManager.Dir())
}
