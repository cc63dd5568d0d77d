// Command entityorm-demo registers the example entities and prints the SQL
// the query compiler produces for a handful of chained-query scenarios,
// without requiring a live database unless --execute is passed.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bwmarrin/snowflake"

	"github.com/irvanherz/entityorm/compose"
	"github.com/irvanherz/entityorm/constants"
	"github.com/irvanherz/entityorm/datasource"
	"github.com/irvanherz/entityorm/query"
	"github.com/irvanherz/entityorm/schema"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "entityorm-demo",
		Short: "Compiles chained entityorm queries into SQL without a live database",
	}

	viper.SetEnvPrefix(constants.EnvKeyPrefix)
	viper.AutomaticEnv()

	root.AddCommand(newCompileCmd())
	root.AddCommand(newSeedCmd())

	return root
}

func newCompileCmd() *cobra.Command {
	var execute bool

	cmd := &cobra.Command{
		Use:   "compile [scenario]",
		Short: "Prints the compiled SQL for one named scenario, or all of them",
		Long: "Prints the compiled SQL for one named scenario, or all of them. " +
			"Never dials a database unless --execute is passed, in which case " +
			"ENTITYORM_DATABASE_URL (read through viper) selects the Postgres " +
			"connection string to run the compiled query against.",
		RunE: func(cmd *cobra.Command, args []string) error {
			all := scenarios()

			targets := all

			if len(args) != 0 {
				targets = nil

				for _, s := range all {
					if s.name == args[0] {
						targets = []scenario{s}

						break
					}
				}

				if targets == nil {
					return fmt.Errorf("unknown scenario %q", args[0])
				}
			}

			var ds *datasource.Postgres

			if execute {
				url := viper.GetString(constants.ViperDatabaseURLKey)
				if url == "" {
					return fmt.Errorf("%s must be set to use --execute", constants.EnvDatabaseURL)
				}

				opened, err := datasource.Open(url, schema.Default)
				if err != nil {
					return fmt.Errorf("opening data source: %w", err)
				}
				defer opened.Close()

				ds = opened
			}

			for _, s := range targets {
				if err := printCompiled(cmd, s, ds); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&execute, "execute", false,
		"run the compiled query against ENTITYORM_DATABASE_URL and print its rows")

	return cmd
}

func printCompiled(cmd *cobra.Command, s scenario, ds *datasource.Postgres) error {
	cq, err := compose.Compile(schema.Default, s.entityType, s.operations, s.scope)
	if err != nil {
		return fmt.Errorf("compiling scenario %q: %w", s.name, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "-- %s: %s\n%s\n", s.name, s.description, cq.Sql)

	if ds == nil {
		fmt.Fprintln(cmd.OutOrStdout())

		return nil
	}

	rows, err := ds.Engine().ToArray(context.Background(), query.State{
		EntityType: s.entityType,
		Operations: s.operations,
		Scope:      s.scope,
	})
	if err != nil {
		return fmt.Errorf("executing scenario %q: %w", s.name, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "-- %d row(s)\n%v\n\n", len(rows), rows)

	return nil
}

func newSeedCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Prints demo primary keys the way a seeding script would generate them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			node, err := snowflake.NewNode(1)
			if err != nil {
				return fmt.Errorf("creating snowflake node: %w", err)
			}

			for i := 0; i < count; i++ {
				fmt.Fprintf(cmd.OutOrStdout(), "user id=%s course id=%s\n", uuid.NewString(), node.Generate().String())
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %s rows\n", humanize.Comma(int64(count)))

			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 10, "number of demo rows to print ids for")

	return cmd
}
