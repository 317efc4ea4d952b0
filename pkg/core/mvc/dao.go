package mvc

import (
	"context"
)

// IBaseDao 定义通用的数据访问接口
type IBaseDao[T any] interface {
	// Create 创建记录
	Create(ctx context.Context, entity *T) error
	// DeleteById 根据ID删除记录
	DeleteById(ctx context.Context, id interface{}) error
	// DeleteByColumn 根据指定列删除记录
	DeleteByColumn(ctx context.Context, column string, value interface{}) error
	// UpdateById 根据ID更新记录
	UpdateById(ctx context.Context, id interface{}, entity *T) (int64, error)
	// FindById 根据ID查询记录
	FindById(ctx context.Context, id interface{}) (*T, error)
	// FindOneByColumn 根据指定列查询单条记录
	FindOneByColumn(ctx context.Context, column string, value interface{}) (*T, error)
	// FindByColumn 根据指定列查询记录列表
	FindByColumn(ctx context.Context, column string, value interface{}) ([]*T, error)
	// FindPage 分页查询
	FindPage(ctx context.Context, page *Page, condition *T) ([]*T, int64, error)
	// Count 按条件统计记录数
	Count(ctx context.Context, condition *T) (int64, error)
	// Exists 按条件判断记录是否存在
	Exists(ctx context.Context, condition *T) (bool, error)
	// WithTx 使用事务创建临时的 IBaseDao 实例
	WithTx(tx interface{}) IBaseDao[T]
}
