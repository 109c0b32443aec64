package transcript

import (
	"strings"

	"github.com/dipgate/judged/pkg/judge"
)

// ClassifyOrder assigns one of the fixed order types to a history line, or
// reports false if the line is not an order. Orders are kept as raw text
// plus a class; nothing here decodes province names or adjudicates
// legality. The checks are ordered so compound forms (support-move,
// waived builds) win over their simpler substrings.
func ClassifyOrder(line string) (judge.OrderType, bool) {
	up := strings.ToUpper(line)

	switch {
	case strings.Contains(up, "SUPPORT") && strings.Contains(up, "->"):
		return judge.OrderSupportMove, true
	case strings.Contains(up, "SUPPORT"):
		return judge.OrderSupportHold, true
	case strings.Contains(up, "CONVOY"):
		return judge.OrderConvoy, true
	case strings.Contains(up, "RETREAT"):
		return judge.OrderRetreat, true
	case strings.Contains(up, "DISBAND"):
		return judge.OrderDisband, true
	case strings.Contains(up, "BUILD") && strings.Contains(up, "WAIV"):
		return judge.OrderWaiveBuild, true
	case strings.Contains(up, "BUILD"):
		return judge.OrderBuild, true
	case strings.Contains(up, "REMOV") && strings.Contains(up, "WAIV"):
		return judge.OrderWaiveRemoval, true
	case strings.Contains(up, "REMOV"):
		return judge.OrderRemove, true
	case strings.Contains(up, "->"):
		return judge.OrderMove, true
	case strings.Contains(up, "HOLD"):
		return judge.OrderHold, true
	}
	return "", false
}
