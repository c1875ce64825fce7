package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"scholarcite/lib/configutil"
	"scholarcite/lib/scholar"
	"scholarcite/lib/serviceutil"

	"github.com/spf13/cobra"
)

type Config struct {
	// sent on every request, some upstream anti-bot checks reject the
	// Go default
	UserAgent string `json:"user_agent"`
}

var queryFormat *string
var queryCiteId *string
var queryClusterId *string
var queryFromYear *int
var queryToYear *int
var querySort *string
var queryLang *string
var queryLangLimit *[]string
var queryLimit *int
var queryOffset *int
var queryTake *int

func init() {
	queryFormat = queryCmd.Flags().StringP("format", "f", "bibtex", "Reference format: bibtex, endnote, refman or refworks.")
	queryCiteId = queryCmd.Flags().String("cite-id", "", "Only return results citing this citation id.")
	queryClusterId = queryCmd.Flags().String("cluster-id", "", "Only return results from this version cluster.")
	queryFromYear = queryCmd.Flags().Int("from-year", 0, "Only return results published after this year.")
	queryToYear = queryCmd.Flags().Int("to-year", 0, "Only return results published before this year.")
	querySort = queryCmd.Flags().String("sort", "", "Sort mode: relevance, abstracts or everything.")
	queryLang = queryCmd.Flags().String("lang", "", "Interface language, e.g. en.")
	queryLangLimit = queryCmd.Flags().StringSlice("lang-limit", nil, "Restrict result languages, e.g. lang_en,lang_fr.")
	queryLimit = queryCmd.Flags().Int("limit", 0, "Maximum number of search results per page.")
	queryOffset = queryCmd.Flags().Int("offset", -1, "Result offset to start from.")
	queryTake = queryCmd.Flags().IntP("take", "n", 0, "Stop after this many references (0 takes everything).")
	rootCmd.AddCommand(queryCmd)
}

func parseFormat(name string) (scholar.ReferenceFormat, error) {
	switch strings.ToLower(name) {
	case "bibtex":
		return scholar.FormatBibTeX, nil
	case "endnote":
		return scholar.FormatEndNote, nil
	case "refman":
		return scholar.FormatRefMan, nil
	case "refworks":
		return scholar.FormatRefWorks, nil
	}
	return 0, fmt.Errorf("unknown reference format: %s", name)
}

func parseSort(name string) (*scholar.SortBy, error) {
	switch strings.ToLower(name) {
	case "":
		return nil, nil
	case "relevance":
		return scholar.Sort(scholar.SortByRelevance), nil
	case "abstracts":
		return scholar.Sort(scholar.SortByAbstracts), nil
	case "everything":
		return scholar.Sort(scholar.SortByEverything), nil
	}
	return nil, fmt.Errorf("unknown sort mode: %s", name)
}

var queryCmd = &cobra.Command{
	Use:   "query <search terms...>",
	Short: "Searches Google Scholar and prints one reference export per result.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := configutil.ReadConfig[Config]("config.json5")
		if err != nil && !os.IsNotExist(err) {
			serviceutil.Fatal("failed to read config", err)
		}

		format, err := parseFormat(*queryFormat)
		if err != nil {
			serviceutil.Fatal("bad --format", err)
		}
		sortBy, err := parseSort(*querySort)
		if err != nil {
			serviceutil.Fatal("bad --sort", err)
		}

		client, err := scholar.NewClient(scholar.ClientOptions{
			UserAgent: cfg.UserAgent,
			Timeout:   time.Second * 30,
		})
		if err != nil {
			serviceutil.Fatal("failed to initialize client", err)
		}

		queryArgs := scholar.QueryArgs{
			Query:     strings.Join(args, " "),
			CiteID:    *queryCiteId,
			ClusterID: *queryClusterId,
			FromYear:  *queryFromYear,
			ToYear:    *queryToYear,
			SortBy:    sortBy,
			Lang:      *queryLang,
			LangLimit: *queryLangLimit,
		}
		if *queryLimit > 0 {
			queryArgs.Limit = scholar.Int(*queryLimit)
		}
		if *queryOffset >= 0 {
			queryArgs.Offset = scholar.Int(*queryOffset)
		}

		slog.Info("querying scholar", "query", queryArgs.Query, "format", format.Label())
		t1 := time.Now()

		it, err := client.GetReferencesWithQuery(cmd.Context(), queryArgs, format)
		if err != nil {
			serviceutil.Fatal("failed to query scholar", err)
		}

		count := 0
		for it.Next(cmd.Context()) {
			fmt.Println(it.Reference())
			count++
			if *queryTake > 0 && count >= *queryTake {
				break
			}
		}
		if it.Err() != nil {
			serviceutil.Fatal("reference pipeline failed", it.Err())
		}

		slog.Info(
			"done",
			"references", count,
			"seconds", time.Since(t1).Seconds(),
		)
	},
}
