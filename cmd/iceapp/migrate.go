package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Hunter-sfcb/iceapp/internal/repository"
	"github.com/Hunter-sfcb/iceapp/internal/service"
	"github.com/Hunter-sfcb/iceapp/pkg/database"
	"github.com/Hunter-sfcb/iceapp/pkg/logger"
)

func runMigrate(cmd *cobra.Command, args []string) error {
	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := repository.AutoMigrate(db); err != nil {
		return err
	}
	logger.Info("schema migrated", zap.String("driver", cfg.Database.Driver))
	return nil
}

func runGrantOwner(cmd *cobra.Command, args []string) error {
	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	store := repository.NewStore(db)
	profile, err := service.GrantOwner(cmd.Context(), store.Ranks, store.Profiles, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is now %s\n", profile.Username, profile.ID, profile.Rank.Name)
	return nil
}
