package main

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Harshitk-cp/keml-analysis/internal/config"
	"github.com/Harshitk-cp/keml-analysis/internal/loader"
	"github.com/Harshitk-cp/keml-analysis/internal/report"
	"github.com/Harshitk-cp/keml-analysis/internal/service"
)

var (
	trustWeight   int
	trustAuthor   float64
	trustPartners []string
	trustAll      float64
)

var trustCmd = &cobra.Command{
	Use:   "trust <file>",
	Short: "Propagate trust through one conversation and print the trust table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conv, err := loader.Load(args[0])
		if err != nil {
			return err
		}

		var partnerTrust map[string]float64
		if cmd.Flags().Changed("all") {
			partnerTrust = service.UniformPartnerTrust(conv.PartnerNames(), trustAll)
		} else {
			partnerTrust = map[string]float64{}
		}
		explicit, err := parsePartnerTrust(trustPartners)
		if err != nil {
			return err
		}
		for name, v := range explicit {
			partnerTrust[name] = v
		}

		weight := config.TrustWeightMin()
		if cmd.Flags().Changed("weight") {
			weight = trustWeight
		}
		author := config.AuthorTrust()
		if cmd.Flags().Changed("author") {
			author = trustAuthor
		}

		ev, err := service.NewTrustEvaluator(conv, weight, zap.L())
		if err != nil {
			return err
		}
		res, err := ev.Run(partnerTrust, author)
		if err != nil {
			return eris.Wrapf(err, "trust %s", args[0])
		}
		return report.WriteTrustTable(cmd.OutOrStdout(), conv.AllInformation(), res)
	},
}

func init() {
	trustCmd.Flags().IntVar(&trustWeight, "weight", service.DefaultMinWeight, "argumentation weight (default TRUST_WEIGHT_MIN)")
	trustCmd.Flags().Float64Var(&trustAuthor, "author", service.DefaultAuthorTrust, "initial trust of prior knowledge (default AUTHOR_TRUST)")
	trustCmd.Flags().StringArrayVar(&trustPartners, "partner", nil, "partner trust as NAME=VALUE, repeatable")
	trustCmd.Flags().Float64Var(&trustAll, "all", 1.0, "trust for every partner not set with --partner")
	rootCmd.AddCommand(trustCmd)
}

func parsePartnerTrust(pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, eris.Errorf("invalid --partner %q, want NAME=VALUE", p)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid trust for partner %q", name)
		}
		if math.IsNaN(v) {
			return nil, eris.Wrapf(service.ErrInvalidTrust, "trust for partner %q is NaN", name)
		}
		out[name] = v
	}
	return out, nil
}
