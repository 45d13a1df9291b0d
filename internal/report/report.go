package report

import (
	"bitkub-grid-bot-go/internal/exchange"
	"bitkub-grid-bot-go/internal/journal"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// PrintCycleHistory 把周期日志渲染成表格输出到stdout
func PrintCycleHistory(j journal.Journal) error {
	records, err := j.List()
	if err != nil {
		return fmt.Errorf("读取周期日志失败: %v", err)
	}
	if len(records) == 0 {
		fmt.Println("周期日志为空。")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "时间", "现价", "动作", "买价", "卖价", "数量", "撤销订单", "错误"})

	for i, rec := range records {
		t.AppendRow(table.Row{
			i + 1,
			rec.Time.Format("2006-01-02 15:04:05"),
			rec.Price,
			rec.Action,
			rec.BuyPrice,
			rec.SellPrice,
			rec.Quantity,
			strings.Join(rec.CancelledIDs, ","),
			rec.Error,
		})
	}
	t.Render()
	return nil
}

// PrintBalances 查询并打印账户当前余额, 只显示非零币种
func PrintBalances(ctx context.Context, ex exchange.Exchange) error {
	balances, err := ex.GetBalances(ctx)
	if err != nil {
		return fmt.Errorf("获取余额失败: %v", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"币种", "可用", "冻结"})

	for asset, b := range balances {
		if b.Available.IsZero() && b.Reserved.IsZero() {
			continue
		}
		t.AppendRow(table.Row{asset, b.Available.String(), b.Reserved.String()})
	}
	t.Render()
	return nil
}
