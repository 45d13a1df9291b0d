package journal

import "bitkub-grid-bot-go/internal/models"

// Journal 定义了周期日志的持久化接口。它把底层存储引擎与其余代码隔离,
// 只支持追加与顺序读取: 周期决策逻辑从不读取历史记录, 每个周期的状态
// 一律从交易所的挂单列表重新推导。
type Journal interface {
	// Append 追加一条周期记录
	Append(rec *models.CycleRecord) error

	// List 按写入顺序返回全部记录
	List() ([]models.CycleRecord, error)

	// Close 优雅关闭底层数据库
	Close() error
}

// Nop 是路径未配置时的无操作实现
type Nop struct{}

func (Nop) Append(*models.CycleRecord) error    { return nil }
func (Nop) List() ([]models.CycleRecord, error) { return nil, nil }
func (Nop) Close() error                        { return nil }
