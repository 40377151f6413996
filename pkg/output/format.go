// Package output provides utilities for formatting and displaying model
// results.
package output

import (
	"fmt"
	"strings"

	"github.com/hydrocast/hydrocast/internal/model"
	"github.com/hydrocast/hydrocast/internal/optimizer"
	"github.com/hydrocast/hydrocast/internal/sensitivity"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(eval model.Evaluation) {
	p := message.NewPrinter(language.English)

	fmt.Printf("--- Cost components [per unit] ---\n")
	_, _ = p.Printf("CAPEX (annualized) | %.4f\n", eval.Breakdown.AnnualizedCAPEX)
	_, _ = p.Printf("Fixed OPEX         | %.4f\n", eval.Breakdown.FixedOPEX)
	_, _ = p.Printf("Variable OPEX      | %.4f\n", eval.Breakdown.VariableOPEX)
	_, _ = p.Printf("Electricity        | %.4f\n", eval.Breakdown.Electricity)
	_, _ = p.Printf("Carbon tax         | %.4f\n", eval.Breakdown.CarbonTax)
	_, _ = p.Printf("Tax credit         | -%.4f\n", eval.Breakdown.TaxCredit)
	_, _ = p.Printf("LCOH               | %.4f\n", eval.Breakdown.LCOH)
	_, _ = p.Printf("Margin vs price    | %.4f\n", eval.Margin)

	fmt.Printf("\n--- Cashflow ---\n")
	fmt.Printf("Year | Revenue       | Cost          | Net           | Discounted\n")
	fmt.Printf("____ | _____________ | _____________ | _____________ | _____________\n")
	for _, year := range eval.Cashflows {
		_, _ = p.Printf("%4d | $%.2f | $%.2f | $%.2f | $%.2f\n",
			year.Year, year.Revenue, year.TotalCost, year.Net, year.Discounted)
	}
	_, _ = p.Printf("\nNPV: $%.2f\n", eval.NPV)
}

// PrettyOptimization outputs the optimizer's per-variable adjustments and
// final result.
func PrettyOptimization(result *optimizer.Result) {
	p := message.NewPrinter(language.English)

	fmt.Printf("--- Optimization ---\n")
	fmt.Printf("Converged: %t (%s, %d iterations)\n", result.Converged, result.Status, result.Iterations)
	for _, summary := range result.Summaries {
		marker := ""
		if summary.AtBound {
			marker = " (at bound)"
		}
		_, _ = p.Printf("%s: %.4f -> %.4f within [%.4f, %.4f]%s\n",
			summary.Field, summary.Original, summary.Value, summary.Min, summary.Max, marker)
	}
	fmt.Printf("\n")
	PrettyFormat(result.Evaluation)
}

// PrettyCurves outputs sensitivity curves as per-field tables.
func PrettyCurves(curves []sensitivity.Curve) {
	p := message.NewPrinter(language.English)

	for i, curve := range curves {
		fmt.Printf("--- Sensitivity of NPV vs %s ---\n", curve.Field)
		fmt.Printf("Value         | LCOH          | NPV\n")
		fmt.Printf("_____________ | _____________ | _____________\n")
		for _, point := range curve.Points {
			if point.Err != "" {
				_, _ = p.Printf("%.4f | %s\n", point.Value, point.Err)
				continue
			}
			_, _ = p.Printf("%.4f | %.4f | $%.2f\n", point.Value, point.LCOH, point.NPV)
		}
		if i < len(curves)-1 {
			fmt.Printf("\n")
		}
	}
}

// CsvFormat outputs the cashflow series in comma-separated value format.
func CsvFormat(eval model.Evaluation) {
	fmt.Print(CsvString(eval))
}

// CsvString renders the cashflow series as CSV; used by the HTTP server.
func CsvString(eval model.Evaluation) string {
	var b strings.Builder
	b.WriteString(`"year","revenue","cost","net","discounted"` + "\n")
	for _, year := range eval.Cashflows {
		fmt.Fprintf(&b, `"%d","%.2f","%.2f","%.2f","%.2f"`+"\n",
			year.Year, year.Revenue, year.TotalCost, year.Net, year.Discounted)
	}
	fmt.Fprintf(&b, `"npv","%.2f","","",""`+"\n", eval.NPV)
	return b.String()
}

// CsvCurves outputs sensitivity curves in comma-separated value format.
func CsvCurves(curves []sensitivity.Curve) {
	fmt.Print(CsvCurvesString(curves))
}

// CsvCurvesString renders sensitivity curves as CSV; used by the HTTP
// server.
func CsvCurvesString(curves []sensitivity.Curve) string {
	var b strings.Builder
	b.WriteString(`"field","value","lcoh","npv","error"` + "\n")
	for _, curve := range curves {
		for _, point := range curve.Points {
			if point.Err != "" {
				fmt.Fprintf(&b, `"%s","%.6f","","","%s"`+"\n", curve.Field, point.Value, point.Err)
				continue
			}
			fmt.Fprintf(&b, `"%s","%.6f","%.6f","%.2f",""`+"\n", curve.Field, point.Value, point.LCOH, point.NPV)
		}
	}
	return b.String()
}
