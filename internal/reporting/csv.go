package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders the trajectory as a CSV string.
func RenderCSV(rows []TrajectoryRow) string {
	var sb strings.Builder

	sb.WriteString("date,gold,silver,gsr,gold_value,silver_value,strategy_value,held_metal,switch_count\n")

	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("%s,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%s,%d\n",
			row.DateKey,
			row.Gold,
			row.Silver,
			row.GSR,
			row.GoldValue,
			row.SilverValue,
			row.StrategyValue,
			row.HeldMetal,
			row.SwitchCount,
		))
	}

	return sb.String()
}
