package notifier

import (
	"fmt"
	"html"
	"math"
	"strings"

	"QuantResearch/internal/dashboard"
)

// HelpText lists the bot commands.
const HelpText = `🤖 <b>QuantResearch 可用命令</b>

/report - 立即分析当前视图
/symbol &lt;代码&gt; - 切换股票代码
/range &lt;5Y|3Y|1Y|9M|6M|3M|1M&gt; - 切换时间范围
/toggle &lt;SMA|EMA|DEMA|TEMA|BB|RVWAP|MACD|ATR|RSI&gt; - 开关指标
/state - 查看当前视图
/history - 查看最近分析记录`

// FormatAnalysisReport formats one analysis session into a Telegram message.
func FormatAnalysisReport(s dashboard.Summary) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s → %s\n\n", html.EscapeString(s.Symbol),
		s.From.Format("2006-01-02"), s.To.Format("2006-01-02")))

	arrow := "🔺"
	if s.ChangePct < 0 {
		arrow = "🔻"
	}
	b.WriteString(fmt.Sprintf("收盘价: <b>%.2f</b> %s %+.2f%%\n", s.LastClose, arrow, s.ChangePct))
	b.WriteString(fmt.Sprintf("区间: %.2f ~ %.2f (位置 %.0f%%)\n", s.PeriodLow, s.PeriodHigh, s.Position*100))
	b.WriteString(fmt.Sprintf("K线数: %d\n", s.Rows))

	if len(s.Readings) > 0 {
		b.WriteString("\n📈 <b>指标:</b>\n")
		for _, r := range s.Readings {
			b.WriteString(fmt.Sprintf("  %s: %s\n", html.EscapeString(r.Name), dashboard.FormatValue(r.Value)))
		}
	}

	if w := rsiWarning(s.Readings); w != "" {
		b.WriteString("\n" + w + "\n")
	}
	return b.String()
}

// rsiWarning flags overbought and oversold readings against the 70/30 guides.
func rsiWarning(readings []dashboard.Reading) string {
	for _, r := range readings {
		if !strings.HasPrefix(r.Name, "RSI") || math.IsNaN(r.Value) {
			continue
		}
		switch {
		case r.Value >= 70:
			return fmt.Sprintf("⚠️ %s 超买 (%.1f)", r.Name, r.Value)
		case r.Value <= 30:
			return fmt.Sprintf("⚠️ %s 超卖 (%.1f)", r.Name, r.Value)
		}
	}
	return ""
}

// FormatState formats the current view state.
func FormatState(v dashboard.ViewState) string {
	return "📦 <b>当前视图</b>\n\n<pre>" + html.EscapeString(v.String()) + "</pre>"
}

// FormatError formats a user-facing error.
func FormatError(err error) string {
	return FormatFailure(err.Error())
}

// FormatFailure formats a plain failure message.
func FormatFailure(msg string) string {
	return "❌ " + html.EscapeString(msg)
}
