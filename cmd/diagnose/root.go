package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"clarity-backend/internal/diagnostic/deepdive"
	"clarity-backend/internal/diagnostic/insights"
	"clarity-backend/internal/diagnostic/intake"
	"clarity-backend/internal/diagnostic/preview"
	"clarity-backend/internal/diagnostic/report"
)

const dateLayout = "2006-01-02"

type rootOptions struct {
	date string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "diagnose",
		Short:        "Run the diagnostic engines against an intake",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.date, "date", "", "run date as YYYY-MM-DD (default today)")

	root.AddCommand(
		newPreviewCmd(opts),
		newReportCmd(opts),
		newInsightsCmd(),
		newPackCmd(opts),
		newBankCmd(),
	)
	return root
}

func (o *rootOptions) now() (time.Time, error) {
	if strings.TrimSpace(o.date) == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(dateLayout, o.date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", o.date)
	}
	return t, nil
}

func newPreviewCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "preview [intake.json]",
		Short: "Print the free preview for an intake",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, now, err := loadRun(cmd, opts, args)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), preview.RunAt(answers, now))
		},
	}
}

func newReportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report [intake.json]",
		Short: "Print the full diagnostic report for an intake",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, now, err := loadRun(cmd, opts, args)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report.RunAt(answers, now))
		},
	}
}

func newInsightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insights [intake.json]",
		Short: "Print the insight flags an intake raises",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, err := readAnswers(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), insights.DeriveFlags(intake.Normalize(answers)))
		},
	}
}

type packOptions struct {
	mode              string
	focus             string
	avoidFinance      bool
	excludePersonable bool
	maxQuestions      int
	bankPath          string
}

func newPackCmd(opts *rootOptions) *cobra.Command {
	po := &packOptions{}
	cmd := &cobra.Command{
		Use:   "pack [intake.json]",
		Short: "Build the deep-dive question pack for an intake",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, now, err := loadRun(cmd, opts, args)
			if err != nil {
				return err
			}
			bank, err := loadBank(po.bankPath)
			if err != nil {
				return err
			}
			pack := deepdive.BuildFrom(bank, deepdive.Input{
				Intake:  answers,
				Preview: preview.RunAt(answers, now),
				Prefs: deepdive.Prefs{
					Mode:              deepdive.Mode(strings.ToUpper(po.mode)),
					Focus:             deepdive.FocusArea(strings.ToUpper(po.focus)),
					AvoidFinance:      po.avoidFinance,
					ExcludePersonable: po.excludePersonable,
					MaxQuestions:      po.maxQuestions,
				},
			})
			return writeJSON(cmd.OutOrStdout(), pack)
		},
	}
	f := cmd.Flags()
	f.StringVar(&po.mode, "mode", "", "SHORT, STANDARD or DEEP")
	f.StringVar(&po.focus, "focus", "", "SYSTEMS, TEAM, DELIVERY, SALES or MIXED")
	f.BoolVar(&po.avoidFinance, "avoid-finance", false, "leave out the finance module")
	f.BoolVar(&po.excludePersonable, "exclude-personable", false, "leave out the founder reality questions")
	f.IntVar(&po.maxQuestions, "max", 0, "cap on core questions")
	f.StringVar(&po.bankPath, "bank", "", "question bank YAML (default built-in)")
	return cmd
}

func newBankCmd() *cobra.Command {
	var bankPath string
	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Print the question bank",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bank, err := loadBank(bankPath)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), bank)
		},
	}
	cmd.Flags().StringVar(&bankPath, "bank", "", "question bank YAML (default built-in)")
	return cmd
}

func loadRun(cmd *cobra.Command, opts *rootOptions, args []string) (intake.Response, time.Time, error) {
	now, err := opts.now()
	if err != nil {
		return nil, time.Time{}, err
	}
	answers, err := readAnswers(cmd.InOrStdin(), args)
	if err != nil {
		return nil, time.Time{}, err
	}
	return answers, now, nil
}

// readAnswers decodes the answers object from the named file, or from stdin
// when no file or "-" is given.
func readAnswers(stdin io.Reader, args []string) (intake.Response, error) {
	src := stdin
	name := "stdin"
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		src, name = f, args[0]
	}
	var answers intake.Response
	if err := json.NewDecoder(src).Decode(&answers); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if len(answers) == 0 {
		return nil, fmt.Errorf("%s: no answers", name)
	}
	return answers, nil
}

func loadBank(path string) (*deepdive.Bank, error) {
	if path == "" {
		return deepdive.DefaultBank(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return deepdive.ParseBank(data)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
