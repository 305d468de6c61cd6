package pricing

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Formatter formats cost estimates for display.
type Formatter struct{}

// NewFormatter creates a new formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format returns a detailed, formatted cost estimate for terminal display.
func (f *Formatter) Format(e *Estimate) string {
	var sb strings.Builder

	width := 61

	sb.WriteString(boxTop(width))
	sb.WriteString(boxLine("aistack Cost Estimate", width))
	sb.WriteString(boxLine(fmt.Sprintf("Stack: %s", e.StackName), width))
	sb.WriteString(boxSep(width))

	sb.WriteString(boxLine(fmt.Sprintf("Mode: %s", e.Mode), width))
	sb.WriteString(boxLine(fmt.Sprintf("Region: %s", e.Region), width))
	sb.WriteString(boxLine(fmt.Sprintf("Instance: %s", e.InstanceType), width))
	sb.WriteString(boxSep(width))

	sb.WriteString(boxEmpty(width))
	for _, item := range e.Items {
		line := fmt.Sprintf("%-18s %d x %-10s %8.2f/mo",
			item.Description, item.Quantity, item.Unit, item.Monthly)
		sb.WriteString(boxLine(line, width))
	}

	sb.WriteString(boxDash(width))
	sb.WriteString(boxLine(fmt.Sprintf("%-28s %8.2f/mo", "Total", e.MonthlyTotal), width))
	sb.WriteString(boxEmpty(width))
	sb.WriteString(boxLine(fmt.Sprintf("Annual estimate: %.2f", e.AnnualCost()), width))
	sb.WriteString(boxEmpty(width))

	if e.SpotSavings > 0 {
		sb.WriteString(boxLine(fmt.Sprintf("Spot saves ~%.2f/mo vs on-demand", e.SpotSavings), width))
	}

	sb.WriteString(boxBottom(width))

	sb.WriteString("\n  Prices in USD, billed hourly (730 h/mo)\n")
	sb.WriteString("  CDN request and transfer charges not included\n")

	return sb.String()
}

// FormatCompact returns a single-line cost summary.
func (f *Formatter) FormatCompact(e *Estimate) string {
	return fmt.Sprintf("%s (%s, %s): $%.2f/mo ($%.2f/yr)",
		e.StackName, e.Mode, e.InstanceType, e.MonthlyTotal, e.AnnualCost())
}

// FormatJSON returns the estimate as JSON.
func (f *Formatter) FormatJSON(e *Estimate) string {
	type jsonEstimate struct {
		StackName    string     `json:"stack_name"`
		Mode         string     `json:"mode"`
		Region       string     `json:"region"`
		InstanceType string     `json:"instance_type"`
		Items        []LineItem `json:"items"`
		MonthlyTotal float64    `json:"monthly_total"`
		Annual       float64    `json:"annual"`
		SpotSavings  float64    `json:"spot_savings"`
	}

	je := jsonEstimate{
		StackName:    e.StackName,
		Mode:         string(e.Mode),
		Region:       e.Region,
		InstanceType: e.InstanceType,
		Items:        e.Items,
		MonthlyTotal: e.MonthlyTotal,
		Annual:       e.AnnualCost(),
		SpotSavings:  e.SpotSavings,
	}

	data, _ := json.MarshalIndent(je, "", "  ")
	return string(data)
}

// Helper functions for box drawing

func boxTop(width int) string {
	return fmt.Sprintf("┌%s┐\n", strings.Repeat("─", width-2))
}

func boxBottom(width int) string {
	return fmt.Sprintf("└%s┘\n", strings.Repeat("─", width-2))
}

func boxSep(width int) string {
	return fmt.Sprintf("├%s┤\n", strings.Repeat("─", width-2))
}

func boxDash(width int) string {
	return fmt.Sprintf("│ %s │\n", strings.Repeat("─", width-4))
}

func boxLine(text string, width int) string {
	padding := width - 4 - len(text)
	if padding < 0 {
		padding = 0
		text = text[:width-4]
	}
	return fmt.Sprintf("│ %s%s │\n", text, strings.Repeat(" ", padding))
}

func boxEmpty(width int) string {
	return fmt.Sprintf("│%s│\n", strings.Repeat(" ", width-2))
}
