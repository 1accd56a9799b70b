package commands

import (
	"errors"
	"log/slog"

	"github.com/sakib/mankey/config"
	"github.com/sakib/mankey/loader"
	"github.com/sakib/mankey/runtime"
	"github.com/sakib/mankey/viz"
)

// loadDataset reads the configured stock and flow files.
func loadDataset(cfg config.Config) (*loader.Dataset, error) {
	return loader.NewLoader(nil).Load(cfg.StocksFile, cfg.FlowsFile)
}

// reconcile checks stock colours and reconciles the dataset under the
// configured policy. Colour and reconcile violations are reported together.
func reconcile(cfg config.Config, ds *loader.Dataset, palette viz.Palette) (*runtime.Reconciled, error) {
	policy, err := runtime.NewBalancePolicy(cfg.Policy, cfg.Marker)
	if err != nil {
		return nil, err
	}
	colorErr := palette.Check(ds.Stocks)
	rec, err := runtime.NewSystem(ds.Stocks, ds.Flows, runtime.WithPolicy(policy)).Reconcile()
	if err := errors.Join(colorErr, err); err != nil {
		return nil, err
	}
	return rec, nil
}

// build runs the whole pipeline: load, reconcile, project.
func build(cfg config.Config) (*runtime.Reconciled, *viz.Diagram, error) {
	ds, err := loadDataset(cfg)
	if err != nil {
		return nil, nil, err
	}
	palette := viz.DefaultPalette()
	rec, err := reconcile(cfg, ds, palette)
	if err != nil {
		return nil, nil, err
	}
	d, err := viz.NewProjector(palette, viz.DefaultLayout()).Project(rec)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("pipeline.projected", "nodes", len(d.Node.Label), "links", len(d.Link.Source))
	return rec, d, nil
}
