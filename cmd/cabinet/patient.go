package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/medicabinet/cabinet/internal/model"
	"github.com/medicabinet/cabinet/internal/validate"
)

func newPatientCmd(a **app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patient",
		Short: "Manage patient records",
	}
	cmd.AddCommand(newPatientAddCmd(a))
	cmd.AddCommand(newPatientListCmd(a))
	cmd.AddCommand(newPatientFindCmd(a))
	cmd.AddCommand(newPatientHistoryCmd(a))
	return cmd
}

func newPatientAddCmd(a **app) *cobra.Command {
	var req model.CreatePatientRequest

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validate.Struct(&req); err != nil {
				return err
			}
			birthDate, err := time.Parse(dateLayout, req.BirthDate)
			if err != nil {
				return fmt.Errorf("invalid birth date: %w", err)
			}

			p := &model.Patient{
				SecurityNumber: req.SecurityNumber,
				Surname:        req.Surname,
				GivenName:      req.GivenName,
				BirthDate:      birthDate,
				Address:        req.Address,
				Phone:          req.Phone,
			}
			if err := (*a).patients.Add(cmd.Context(), p); err != nil {
				return err
			}

			fmt.Printf("Patient %s registered\n", p.SecurityNumber)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.SecurityNumber, "number", "", "security number (15 digits)")
	cmd.Flags().StringVar(&req.Surname, "surname", "", "surname")
	cmd.Flags().StringVar(&req.GivenName, "given-name", "", "given name")
	cmd.Flags().StringVar(&req.BirthDate, "birth-date", "", "birth date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.Address, "address", "", "address")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "phone number")
	return cmd
}

func newPatientListCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all patients",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range (*a).patients.List() {
				printPatient(p)
			}
			return nil
		},
	}
}

func newPatientFindCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "find <security-number>",
		Short: "Look up a patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := (*a).patients.Find(args[0])
			if err != nil {
				return err
			}
			printPatient(p)
			return nil
		},
	}
}

func newPatientHistoryCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "history <security-number>",
		Short: "Show a patient's consultations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := (*a).consultations.History(args[0])
			if err != nil {
				return err
			}
			for _, c := range history {
				printConsultation(c)
			}
			return nil
		},
	}
}

func printPatient(p *model.Patient) {
	fmt.Printf("%s  %s %s  age %d  %s  %s\n",
		p.SecurityNumber, p.Surname, p.GivenName, p.Age(time.Now()), p.Address, p.Phone)
}
