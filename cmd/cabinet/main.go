package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medicabinet/cabinet/internal/config"
	"github.com/medicabinet/cabinet/internal/repository/file"
	"github.com/medicabinet/cabinet/internal/service/audit"
	consultationService "github.com/medicabinet/cabinet/internal/service/consultation"
	patientService "github.com/medicabinet/cabinet/internal/service/patient"
	"github.com/medicabinet/cabinet/pkg/logger"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

type app struct {
	log           zerolog.Logger
	patients      *patientService.Service
	consultations *consultationService.Service
}

func newApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(&logger.Config{
		Level:      logger.ParseLevel(cfg.Logging.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stderr,
	})

	store := file.NewStore(cfg.Storage.DataFile, log)
	recorder := audit.NewFileRecorder(cfg.Storage.ActionLog, log)

	patients, err := patientService.NewService(store, recorder, log)
	if err != nil {
		return nil, err
	}
	consultations, err := consultationService.NewService(store, patients, recorder, log)
	if err != nil {
		return nil, err
	}

	return &app{log: log, patients: patients, consultations: consultations}, nil
}

func main() {
	var a *app

	root := &cobra.Command{
		Use:           "cabinet",
		Short:         "Clinic patient and consultation record keeping",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		a, err = newApp()
		return err
	}

	root.AddCommand(newPatientCmd(&a))
	root.AddCommand(newConsultCmd(&a))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
