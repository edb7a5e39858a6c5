package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/ssargent/dbf2sql/pkg/dbf"
	"github.com/ssargent/dbf2sql/pkg/loader"
	"github.com/ssargent/dbf2sql/pkg/schema"
)

var (
	codepage      string
	driver        string
	dsn           string
	strategy      string
	metricsListen string
)

// loadCmd represents the load command
var loadCmd = &cobra.Command{
	Use:   "load <file-or-glob>...",
	Short: "Load DBF files into the destination database",
	Long: `Load one or more DBF files into the destination database, one
table per file. Each file is processed independently; a failed file is
rolled back and reported without stopping the rest of the batch.

Example:
  dbf2sql load --dsn ./legacy.db 'data/*.DBF'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Config file values apply wherever the flag was left alone.
		if !cmd.Flags().Changed("codepage") {
			codepage = cfg.Codepage
		}
		if !cmd.Flags().Changed("driver") {
			driver = cfg.Database.Driver
		}
		if !cmd.Flags().Changed("dsn") {
			dsn = cfg.Database.DSN
		}
		if !cmd.Flags().Changed("strategy") {
			strategy = cfg.Loader.Strategy
		}
		if !cmd.Flags().Changed("metrics-listen") {
			metricsListen = cfg.Metrics.Listen
		}

		files, err := expandArgs(args)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		return runLoad(cmd.Context(), files)
	},
}

func runLoad(ctx context.Context, files []string) error {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	var metrics *loader.Metrics
	if metricsListen != "" {
		metrics = loader.NewMetrics()
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(metricsListen, mux); err != nil {
				fmt.Printf("metrics listener: %v\n", err)
			}
		}()
	}

	auditor := loader.NewAuditor(db)
	if err := auditor.EnsureSchema(ctx); err != nil {
		return err
	}
	fmt.Printf("run %s: %d file(s)\n", auditor.RunID(), len(files))

	failed := 0
	for _, file := range files {
		started := time.Now()
		rows, table, err := loadFile(ctx, db, metrics, file)

		rec := loader.FileRecord{
			FileName:   file,
			TableName:  table,
			Rows:       rows,
			Status:     loader.StatusLoaded,
			StartedAt:  started,
			FinishedAt: time.Now(),
		}
		if err != nil {
			failed++
			rec.Status = loader.StatusFailed
			rec.Error = err.Error()
			fmt.Printf("%s: FAILED: %v\n", file, err)
		} else {
			fmt.Printf("%s: %d rows -> %s\n", file, rows, table)
		}
		metrics.RecordFile(rec.Status, rec.FinishedAt.Sub(started))
		if auditErr := auditor.RecordFile(ctx, rec); auditErr != nil {
			return auditErr
		}
	}

	fmt.Printf("done: %d loaded, %d failed\n", len(files)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(files))
	}
	return nil
}

// loadFile decodes one DBF file and drives it into the destination.
// The whole file either loads or is reported failed; there is no
// partial success.
func loadFile(ctx context.Context, db *sql.DB, metrics *loader.Metrics, file string) (int64, string, error) {
	table, err := dbf.OpenTable(dbf.TableConfig{Path: file, Codepage: codepage})
	if err != nil {
		return 0, "", fmt.Errorf("%s: %w", file, err)
	}
	defer table.Close()

	dest := schema.TableName(file)
	cols, err := schema.Columns(table.Fields())
	if err != nil {
		return 0, dest, fmt.Errorf("%s: %w", file, err)
	}
	if _, err := db.ExecContext(ctx, schema.CreateTableDDL(dest, cols)); err != nil {
		return 0, dest, fmt.Errorf("%s: create table %s: %w", file, dest, err)
	}

	config := loader.Config{
		BatchSize:     cfg.Loader.BatchSize,
		ProgressEvery: cfg.Loader.ProgressEvery,
		Progress: func(rows int64) {
			fmt.Printf("  %s: %d rows...\n", dest, rows)
		},
		Metrics: metrics,
	}

	var result *loader.Result
	switch strategy {
	case "bulk":
		result, err = loader.NewBulkLoader(db, config).Load(ctx, table, dest)
	case "tx":
		result, err = loader.NewTransactionalLoader(db, config).Load(ctx, table, dest)
	default:
		return 0, dest, fmt.Errorf("unknown strategy %q (want bulk or tx)", strategy)
	}
	if err != nil {
		return 0, dest, fmt.Errorf("%s: %w", file, err)
	}
	return result.Rows, dest, nil
}

// expandArgs resolves glob patterns; an argument with no glob match is
// kept literally so a missing file is reported as a load failure.
func expandArgs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			files = append(files, arg)
			continue
		}
		files = append(files, matches...)
	}
	return files, nil
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().StringVar(&codepage, "codepage", "", "Codepage for character fields (e.g. cp1252); default is 7-bit ASCII")
	loadCmd.Flags().StringVar(&driver, "driver", "sqlite", "database/sql driver name")
	loadCmd.Flags().StringVar(&dsn, "dsn", "./dbf2sql.db", "Destination database DSN")
	loadCmd.Flags().StringVar(&strategy, "strategy", "bulk", "Load strategy: bulk or tx")
	loadCmd.Flags().StringVar(&metricsListen, "metrics-listen", "", "Expose Prometheus metrics on this address during the load")
}
