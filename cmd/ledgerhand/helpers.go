package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/athakur/ledgerhand/internal/config"
	"github.com/athakur/ledgerhand/internal/device"
	"github.com/athakur/ledgerhand/internal/ledger"
	"github.com/athakur/ledgerhand/internal/model"
	"github.com/athakur/ledgerhand/internal/profile"
	"github.com/athakur/ledgerhand/internal/sheet"
	"github.com/athakur/ledgerhand/internal/taxonomy"
)

// loadTaxonomy returns the built-in taxonomy, with any list replaced
// wholesale from the config file's taxonomy section.
func loadTaxonomy() (taxonomy.Taxonomy, error) {
	tax := taxonomy.Default()
	if viper.IsSet("taxonomy") {
		if err := viper.UnmarshalKey("taxonomy", &tax); err != nil {
			return taxonomy.Taxonomy{}, fmt.Errorf("invalid taxonomy in config: %w", err)
		}
	}
	return tax, nil
}

// loadValidated loads the pending rows from a workbook and validates them
// against the app's accounts and categories.
func loadValidated(path string) (*sheet.Source, []model.Transaction, error) {
	src, err := sheet.Open(config.ExpandPath(path))
	if err != nil {
		return nil, nil, err
	}

	txns, err := src.LoadPending()
	if err != nil {
		return nil, nil, err
	}

	tax, err := loadTaxonomy()
	if err != nil {
		return nil, nil, err
	}
	if err := ledger.NewValidator(tax).Validate(txns); err != nil {
		return nil, nil, err
	}
	return src, txns, nil
}

// connectDevice resolves the device model, picks its coordinate profile, and
// wraps the connection in the foreground-app guard.
func connectDevice(ctx context.Context, cfg config.Automation) (*device.Guard, profile.Profile, string, error) {
	probe, err := device.NewADB(cfg.ADBPath, device.WithSerial(cfg.Serial))
	if err != nil {
		return nil, profile.Profile{}, "", err
	}

	deviceModel := cfg.Model
	if deviceModel == "" {
		deviceModel, err = probe.Model(ctx)
		if err != nil {
			return nil, profile.Profile{}, "", fmt.Errorf("is the device connected and authorized? %w", err)
		}
	}

	prof, err := profile.ForModel(deviceModel)
	if err != nil {
		return nil, profile.Profile{}, "", err
	}

	conn, err := device.NewADB(cfg.ADBPath,
		device.WithSerial(cfg.Serial),
		device.WithDelays(prof.ShortDelay, prof.LongDelay))
	if err != nil {
		return nil, profile.Profile{}, "", err
	}

	slog.Info("Connected to device", "model", deviceModel, "package", prof.PackageName)
	return device.NewGuard(conn, prof.PackageName), prof, deviceModel, nil
}
