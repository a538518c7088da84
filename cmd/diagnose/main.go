// Command diagnose is the operator tool for inspecting and repairing
// stored simulation records: statistics, integrity validation, cleanup
// and stuck-run detection.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Daniel-Kats256/simulations/config"
	"github.com/Daniel-Kats256/simulations/internal/bootstrap"
	"github.com/Daniel-Kats256/simulations/internal/integrity"
	"github.com/Daniel-Kats256/simulations/internal/simulations/repository"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var threshold time.Duration

	root := &cobra.Command{
		Use:          "diagnose",
		Short:        "Inspect and repair simulation records",
		SilenceUsage: true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Print record counts and success rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, svc *integrity.Service) error {
				st, err := svc.Stats(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("Total simulations: %d\n", st.Total)
				fmt.Printf("Completed:         %d\n", st.Completed)
				fmt.Printf("Failed:            %d\n", st.Failed)
				fmt.Printf("Running:           %d\n", st.Running)
				fmt.Printf("Success rate:      %.2f\n", st.SuccessRate)
				return nil
			})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "List data integrity issues without mutating anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, svc *integrity.Service) error {
				issues, err := svc.Validate(ctx)
				if err != nil {
					return err
				}
				if len(issues) == 0 {
					fmt.Println("All simulation data is valid")
					return nil
				}
				fmt.Printf("Found %d issue(s):\n", len(issues))
				for _, issue := range issues {
					fmt.Printf("  - %s\n", issue)
				}
				return nil
			})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "cleanup",
		Short: "Repair records flagged by validate",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, svc *integrity.Service) error {
				n, err := svc.Cleanup(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("Cleaned up %d simulation record(s)\n", n)
				return nil
			})
		},
	})

	stuck := &cobra.Command{
		Use:   "stuck",
		Short: "List running records with no update past the threshold",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, svc *integrity.Service) error {
				recs, err := svc.FindStuck(ctx, threshold)
				if err != nil {
					return err
				}
				if len(recs) == 0 {
					fmt.Println("No stuck simulations found")
					return nil
				}
				fmt.Printf("Found %d potentially stuck simulation(s):\n", len(recs))
				for _, rec := range recs {
					fmt.Printf("  - %s %q (%s) last update %s\n",
						rec.ID, rec.Name, rec.Type, rec.UpdatedAt.Format(time.RFC3339))
				}
				return nil
			})
		},
	}
	stuck.Flags().DurationVar(&threshold, "threshold", 5*time.Minute, "staleness threshold")
	root.AddCommand(stuck)

	return root
}

func withService(ctx context.Context, fn func(context.Context, *integrity.Service) error) error {
	dbCfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	pool, err := bootstrap.OpenDB(ctx, dbCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	return fn(ctx, integrity.NewService(repository.NewRepo(pool)))
}
