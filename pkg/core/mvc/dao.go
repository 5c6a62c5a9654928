package mvc

import (
	"context"
)

// IBaseDao 定义通用的数据访问接口
type IBaseDao[T any] interface {
	// Create 创建记录
	Create(ctx context.Context, entity *T) error
	// DeleteById 根据ID删除，记录不存在时返回 NotFound
	DeleteById(ctx context.Context, id interface{}) error
	// FindById 根据ID查询
	FindById(ctx context.Context, id interface{}) (*T, error)
	// FindOneByColumn 根据列查询单条记录
	FindOneByColumn(ctx context.Context, column string, value interface{}) (*T, error)
	// FindFirstOrdered 按排序取第一条，没有记录时返回 NotFound
	FindFirstOrdered(ctx context.Context, order ...string) (*T, error)
	// FindAllOrdered 按排序取全部记录，没有记录时返回空切片
	FindAllOrdered(ctx context.Context, order ...string) ([]*T, error)
	// ExistsByColumn 判断列值是否存在
	ExistsByColumn(ctx context.Context, column string, value interface{}) (bool, error)
}
