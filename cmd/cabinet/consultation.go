package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/medicabinet/cabinet/internal/model"
)

func newConsultCmd(a **app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consult",
		Short: "Manage consultations",
	}
	cmd.AddCommand(newConsultScheduleCmd(a))
	cmd.AddCommand(newConsultUpcomingCmd(a))
	cmd.AddCommand(newConsultCompleteCmd(a))
	cmd.AddCommand(newConsultCancelCmd(a))
	cmd.AddCommand(newConsultRescheduleCmd(a))
	cmd.AddCommand(newConsultDiagnoseCmd(a))
	cmd.AddCommand(newConsultPrescribeCmd(a))
	return cmd
}

func newConsultScheduleCmd(a **app) *cobra.Command {
	var (
		patientNum string
		at         string
		physician  string
		reason     string
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Schedule a consultation",
		RunE: func(cmd *cobra.Command, args []string) error {
			dateTime, err := time.Parse(dateTimeLayout, at)
			if err != nil {
				return fmt.Errorf("invalid date-time, expected YYYY-MM-DD HH:MM: %w", err)
			}

			c, err := (*a).consultations.Schedule(cmd.Context(), patientNum, dateTime, physician, reason)
			if err != nil {
				return err
			}

			fmt.Printf("Consultation %s scheduled for %s\n", c.ID, c.DateTime.Format(dateTimeLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&patientNum, "patient", "", "patient security number")
	cmd.Flags().StringVar(&at, "at", "", "date-time (YYYY-MM-DD HH:MM)")
	cmd.Flags().StringVar(&physician, "physician", "", "physician name")
	cmd.Flags().StringVar(&reason, "reason", "", "consultation reason")
	return cmd
}

func newConsultUpcomingCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "upcoming",
		Short: "List upcoming consultations",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, c := range (*a).consultations.ListUpcoming() {
				printConsultation(c)
			}
			return nil
		},
	}
}

func newConsultCompleteCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a consultation completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return (*a).consultations.MarkCompleted(cmd.Context(), args[0])
		},
	}
}

func newConsultCancelCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a consultation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return (*a).consultations.Cancel(cmd.Context(), args[0])
		},
	}
}

func newConsultRescheduleCmd(a **app) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "reschedule <id>",
		Short: "Move a scheduled consultation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dateTime, err := time.Parse(dateTimeLayout, at)
			if err != nil {
				return fmt.Errorf("invalid date-time, expected YYYY-MM-DD HH:MM: %w", err)
			}
			return (*a).consultations.Reschedule(cmd.Context(), args[0], dateTime)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "new date-time (YYYY-MM-DD HH:MM)")
	return cmd
}

func newConsultDiagnoseCmd(a **app) *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "diagnose <id>",
		Short: "Attach a diagnosis to a completed consultation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return (*a).consultations.AddDiagnosis(cmd.Context(), args[0], text)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "diagnosis text")
	return cmd
}

func newConsultPrescribeCmd(a **app) *cobra.Command {
	var (
		prescType string
		drug      string
		dosage    string
		frequency string
		duration  string
		examType  string
		lab       string
		sessions  int
		zone      string
	)

	cmd := &cobra.Command{
		Use:   "prescribe <id>",
		Short: "Attach a prescription to a consultation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p model.Prescription
			switch model.PrescriptionType(prescType) {
			case model.PrescriptionTypeMedicated:
				p = model.NewMedicatedPrescription(drug, dosage, frequency, duration)
			case model.PrescriptionTypeExamination:
				p = model.NewExaminationPrescription(examType, lab)
			case model.PrescriptionTypePhysiotherapy:
				p = model.NewPhysiotherapyPrescription(sessions, zone)
			default:
				return fmt.Errorf("unknown prescription type %q", prescType)
			}
			return (*a).consultations.AddPrescription(cmd.Context(), args[0], p)
		},
	}

	cmd.Flags().StringVar(&prescType, "type", "", "medicated, examination or physiotherapy")
	cmd.Flags().StringVar(&drug, "drug", "", "drug name (medicated)")
	cmd.Flags().StringVar(&dosage, "dosage", "", "dosage (medicated)")
	cmd.Flags().StringVar(&frequency, "frequency", "", "intake frequency (medicated)")
	cmd.Flags().StringVar(&duration, "duration", "", "treatment duration (medicated)")
	cmd.Flags().StringVar(&examType, "exam", "", "examination type (examination)")
	cmd.Flags().StringVar(&lab, "lab", "", "laboratory (examination)")
	cmd.Flags().IntVar(&sessions, "sessions", 0, "session count (physiotherapy)")
	cmd.Flags().StringVar(&zone, "zone", "", "treated zone (physiotherapy)")
	return cmd
}

func printConsultation(c *model.Consultation) {
	diagnosis := "-"
	if c.Diagnosis != nil {
		diagnosis = *c.Diagnosis
	}
	fmt.Printf("%s  %s  %s  %s  %s  diagnosis: %s  prescriptions: %d\n",
		c.ID, c.DateTime.Format(dateTimeLayout), c.Status, c.Physician, c.Reason,
		diagnosis, len(c.Prescriptions))
}
