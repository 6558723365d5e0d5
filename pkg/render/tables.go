package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"pancompare/pkg/model"
)

// Column layouts of the result tables. Downstream parsers key on these
// headers, so they are fixed here rather than derived.
var (
	panGenomeHeader = []string{"Genome", "Core genome size", "Percent of average genome size"}

	saturationHeader = []string{
		"Group size",
		"Core mean", "Core median", "Core standard deviation",
		"Core minimum", "Core maximum", "Core p90", "Core p10",
		"Accessory mean", "Accessory median", "Accessory standard deviation",
		"Accessory minimum", "Accessory maximum", "Accessory p90", "Accessory p10",
	}

	featureSummaryHeader = []string{
		"Feature", "Group",
		"Mean", "Median", "Standard deviation", "Minimum", "Maximum", "p90", "p10",
	}

	featureTestsHeader = []string{"Feature", "Group 1", "Group 2", "U statistic", "p value"}

	syntenyHeader = []string{
		"Genome",
		"Synteny mean", "Synteny median", "Synteny standard deviation",
		"Synteny minimum", "Synteny maximum", "Synteny p90", "Synteny p10",
	}
)

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeRow(w io.Writer, fields []string) error {
	_, err := fmt.Fprintln(w, strings.Join(fields, "\t"))
	return err
}

// RenderPanGenomeTable writes one row per group with its core genome size.
// The percent column keeps two decimals, so a full core prints as 100.00.
func RenderPanGenomeTable(w io.Writer, rows []model.GroupCore) error {
	if err := writeRow(w, panGenomeHeader); err != nil {
		return err
	}
	for _, row := range rows {
		fields := []string{
			row.Group,
			strconv.Itoa(row.CoreSize),
			strconv.FormatFloat(row.Percent, 'f', 2, 64),
		}
		if err := writeRow(w, fields); err != nil {
			return err
		}
	}
	return nil
}

// RenderSaturationTable writes one row per subset size with the core and
// accessory summary statistics.
func RenderSaturationTable(w io.Writer, curve []model.SizeSummary) error {
	if err := writeRow(w, saturationHeader); err != nil {
		return err
	}
	for _, size := range curve {
		fields := make([]string, 0, len(saturationHeader))
		fields = append(fields, strconv.Itoa(size.Size))
		for _, v := range size.Core.Row() {
			fields = append(fields, formatStat(v))
		}
		for _, v := range size.Accessory.Row() {
			fields = append(fields, formatStat(v))
		}
		if err := writeRow(w, fields); err != nil {
			return err
		}
	}
	return nil
}

// RenderFeatureSummary writes one row per feature and group.
func RenderFeatureSummary(w io.Writer, comparisons []model.FeatureComparison) error {
	if err := writeRow(w, featureSummaryHeader); err != nil {
		return err
	}
	for _, cmp := range comparisons {
		for _, group := range cmp.Groups {
			fields := make([]string, 0, len(featureSummaryHeader))
			fields = append(fields, cmp.Feature, group.Label)
			for _, v := range group.Stats.Row() {
				fields = append(fields, formatStat(v))
			}
			if err := writeRow(w, fields); err != nil {
				return err
			}
		}
	}
	return nil
}

// RenderFeatureTests writes one row per feature and group pair.
func RenderFeatureTests(w io.Writer, comparisons []model.FeatureComparison) error {
	if err := writeRow(w, featureTestsHeader); err != nil {
		return err
	}
	for _, cmp := range comparisons {
		for _, test := range cmp.Tests {
			fields := []string{
				cmp.Feature,
				test.GroupA,
				test.GroupB,
				formatStat(test.U),
				formatStat(test.P),
			}
			if err := writeRow(w, fields); err != nil {
				return err
			}
		}
	}
	return nil
}

// RenderSyntenyTable writes one row per genome with its synteny summary.
func RenderSyntenyTable(w io.Writer, rows []model.GenomeSynteny) error {
	if err := writeRow(w, syntenyHeader); err != nil {
		return err
	}
	for _, row := range rows {
		fields := make([]string, 0, len(syntenyHeader))
		fields = append(fields, row.Genome)
		for _, v := range row.Stats.Row() {
			fields = append(fields, formatStat(v))
		}
		if err := writeRow(w, fields); err != nil {
			return err
		}
	}
	return nil
}
