package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	gnseed "github.com/gnames/gnseed/pkg"
	"github.com/gnames/gnseed/pkg/config"
	"github.com/spf13/cobra"
)

func versionFlag(cmd *cobra.Command) {
	hasVersionFlag, _ := cmd.Flags().GetBool("version")
	if hasVersionFlag {
		fmt.Printf("\nversion: %s\nbuild: %s\n\n", gnseed.Version, gnseed.Build)
		os.Exit(0)
	}
}

// fakerFlags holds flags that modify faker settings for one run.
type fakerFlags struct {
	seed         int64
	locale       string
	fillNullable bool
	fillDefault  bool
	noSmart      bool
	bulkSize     int
	jobs         int
}

func (f *fakerFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.Int64VarP(&f.seed, "seed", "s", 0,
		"seed for reproducible rows")
	fl.StringVarP(&f.locale, "locale", "l", "",
		"locale of generated data, e.g. en-US, de-DE")
	fl.BoolVar(&f.fillNullable, "fill-nullable", false,
		"generate values for nullable columns")
	fl.BoolVar(&f.fillDefault, "fill-default", false,
		"generate values for columns with defaults")
	fl.BoolVar(&f.noSmart, "no-smart", false,
		"do not infer data kind from column names")
	fl.IntVarP(&f.bulkSize, "bulk-size", "b", 0,
		"number of rows inserted together")
	fl.IntVarP(&f.jobs, "jobs", "j", 0,
		"number of tables seeded concurrently (PostgreSQL only)")
}

// options converts explicitly set flags to config options.
func (f *fakerFlags) options(cmd *cobra.Command) []config.Option {
	var res []config.Option
	changed := cmd.Flags().Changed

	if changed("seed") {
		res = append(res, config.OptFakerSeed(f.seed))
	}
	if changed("locale") {
		res = append(res, config.OptFakerLocale(f.locale))
	}
	if changed("fill-nullable") {
		res = append(res, config.OptFakerFillNullable(f.fillNullable))
	}
	if changed("fill-default") {
		res = append(res, config.OptFakerFillDefault(f.fillDefault))
	}
	if changed("no-smart") {
		res = append(res, config.OptFakerSmartDetection(!f.noSmart))
	}
	if changed("bulk-size") {
		res = append(res, config.OptFakerBulkSize(f.bulkSize))
	}
	if changed("jobs") {
		res = append(res, config.OptJobsNumber(f.jobs))
	}
	return res
}

// confirm asks a yes/no question on the terminal.
func confirm(question string) (bool, error) {
	fmt.Printf("\n%s (yes/no): ", question)

	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes" || response == "y", nil
}
