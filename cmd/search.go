package cmd

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/spf13/cobra"

	"github.com/sheersh03/CaveBeat-Search-Engine/library/search"
)

var searchCMD = &cobra.Command{
	Use:   "search <query...>",
	Short: "run one search and print the results as JSON",
	Args:  cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return initialize(context.Background(), cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := searchRequestFromFlags(cmd, args)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		svc, closeCache, err := newSearchService(ctx, newSearchEngine())
		if err != nil {
			return err
		}
		defer func() { _ = closeCache() }()

		resp, err := svc.Search(ctx, req)
		if err != nil {
			return errors.Wrap(err, "search")
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	},
}

func searchRequestFromFlags(cmd *cobra.Command, args []string) (*search.Request, error) {
	flags := cmd.Flags()
	resultType, _ := flags.GetString("type")
	timeRange, _ := flags.GetString("time")
	region, _ := flags.GetString("region")
	safe, _ := flags.GetBool("safe")
	siteScope, _ := flags.GetString("site-scope")

	return search.NewRequest(
		strings.Join(args, " "),
		search.Filters{
			Time:   search.ParseTimeRange(timeRange),
			Region: search.ParseRegion(region),
			Safe:   safe,
		},
		siteScope,
		search.ParseResultType(resultType),
	)
}

func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().String("type", string(search.ResultTypeWeb), "`web/image/news/video/academic/code`")
	cmd.Flags().String("time", string(search.TimeAny), "time range, like `Past week`")
	cmd.Flags().String("region", string(search.RegionGlobal), "`Global/US/India/EU/SEA`")
	cmd.Flags().Bool("safe", true, "enable safe search")
	cmd.Flags().String("site-scope", "", "extra query text, like `site:go.dev`")
}

func init() {
	addSearchFlags(searchCMD)
	rootCMD.AddCommand(searchCMD)
}
