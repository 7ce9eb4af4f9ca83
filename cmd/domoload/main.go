// Copyright (c) 2025 Netskope, Inc. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	domo "github.com/netSkope/domo-stream-client"
	"github.com/netSkope/domo-stream-client/internal/config"
	domolog "github.com/netSkope/domo-stream-client/internal/log"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Pull DOMO_* variables from a local .env when present.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := domolog.New(cfg.LogFile, cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting domoload",
		zap.String("file", cfg.InputFile),
		zap.String("dataset_id", cfg.DatasetID),
		zap.String("name", cfg.Name))

	f, err := os.Open(cfg.InputFile)
	if err != nil {
		logger.Error("Failed to open input file", zap.Error(err))
		os.Exit(1)
	}
	table, err := domo.ReadCSV(f)
	f.Close()
	if err != nil {
		logger.Error("Failed to parse input file", zap.Error(err))
		os.Exit(1)
	}

	client, err := domo.New(domo.Config{
		Customer:      cfg.Customer,
		BaseURL:       cfg.BaseURL,
		Token:         cfg.Token,
		UserAgent:     cfg.UserAgent,
		ChunkBudgetKB: cfg.ChunkBudgetKB,
		HTTPClient:    &http.Client{Timeout: time.Duration(cfg.TimeoutSecs) * time.Second},
	}, logger)
	if err != nil {
		logger.Error("Failed to create client", zap.Error(err))
		os.Exit(1)
	}

	ctx := context.Background()

	datasetID := cfg.DatasetID
	var res *domo.UploadResult
	if datasetID == "" {
		datasetID, err = client.CreateDataset(ctx, table, cfg.Name, cfg.Description)
		if err != nil {
			logger.Error("Failed to create dataset", zap.Error(err))
			os.Exit(1)
		}
	} else {
		res, err = client.ReplaceDataset(ctx, datasetID, table)
		if err != nil {
			logger.Error("Failed to replace dataset", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("Load completed successfully", zap.String("dataset_id", datasetID))

	if !cfg.Quiet {
		fmt.Printf("\n=== Load Summary ===\n")
		fmt.Printf("Dataset id: %s\n", datasetID)
		fmt.Printf("Rows loaded: %d\n", table.NumRows())
		fmt.Printf("Columns: %d\n", table.NumColumns())
		if res != nil {
			fmt.Printf("Parts uploaded: %d\n", res.Parts)
			if res.SchemaUpdated {
				fmt.Printf("Remote schema was replaced to match the input file\n")
			}
		}
		fmt.Printf("====================\n")
	}
}
