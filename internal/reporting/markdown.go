package reporting

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// RenderMarkdown renders a report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Gold/Silver Ratio Strategy Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Window: %s .. %s (%s)\n\n", r.StartKey, r.EndKey, r.Summary.Duration))

	sb.WriteString("## Parameters\n\n")
	sb.WriteString("| Parameter | Value |\n")
	sb.WriteString("|-----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Starting amount | $%.2f |\n", r.Params.Amount))
	sb.WriteString(fmt.Sprintf("| Gold to silver threshold | %s |\n", thresholdString(r.Params.GoldToSilver)))
	sb.WriteString(fmt.Sprintf("| Silver to gold threshold | %s |\n", thresholdString(r.Params.SilverToGold)))
	sb.WriteString(fmt.Sprintf("| Starting metal | %s |\n", r.Params.StartMetal))
	sb.WriteString(fmt.Sprintf("| Switch cost | %.1f%% |\n", r.Params.SwitchCostPct*100))
	sb.WriteString("\n")

	s := r.Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Gold | Silver | Strategy |\n")
	sb.WriteString("|--------|------|--------|----------|\n")
	sb.WriteString(fmt.Sprintf("| End value | $%.2f | $%.2f | $%.2f |\n",
		s.EndGoldValue, s.EndSilverValue, s.EndStrategyValue))
	sb.WriteString(fmt.Sprintf("| Change | $%.2f | $%.2f | $%.2f |\n",
		s.GoldChange, s.SilverChange, s.StrategyChange))
	sb.WriteString(fmt.Sprintf("| Return | %.2f%% | %.2f%% | %.2f%% |\n",
		s.GoldReturnPct, s.SilverReturnPct, s.StrategyReturnPct))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Strategy vs gold: %+.2f%% | vs silver: %+.2f%%\n\n", s.VsGoldPct, s.VsSilverPct))
	sb.WriteString(fmt.Sprintf("Days ahead of gold: %.1f%% | ahead of silver: %.1f%%\n\n", s.BeatsGoldPct, s.BeatsSilverPct))
	if s.FinalMetal != "" {
		sb.WriteString(fmt.Sprintf("Switches: %d, ends in %s.\n\n", s.SwitchCount, s.FinalMetal))
	}

	sb.WriteString("## Past Runs\n\n")
	if len(r.PastRuns) > 0 {
		sb.WriteString("| Run | Window | Return | Switches | Ends in | Created |\n")
		sb.WriteString("|-----|--------|--------|----------|---------|--------|\n")
		for _, run := range r.PastRuns {
			sb.WriteString(fmt.Sprintf("| %s | %s .. %s | %.2f%% | %d | %s | %s |\n",
				shortRunID(run.RunID), run.StartKey, run.EndKey,
				run.StrategyReturnPct, run.SwitchCount, run.FinalMetal,
				run.CreatedAt.Format("2006-01-02 15:04")))
		}
	} else {
		sb.WriteString("No past runs recorded.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

func thresholdString(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "disabled"
	}
	return fmt.Sprintf("%.2f", v)
}

func shortRunID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
