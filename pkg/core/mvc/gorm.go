package mvc

import (
	"context"

	errorc "apkdist/pkg/core/err"

	"gorm.io/gorm"
)

// GormDaoImpl GORM数据访问实现
type GormDaoImpl[T any] struct {
	db *gorm.DB
}

// NewGormDao 创建GORM数据访问实例
func NewGormDao[T any](db *gorm.DB) IBaseDao[T] {
	return &GormDaoImpl[T]{
		db: db,
	}
}

func (d *GormDaoImpl[T]) Create(ctx context.Context, entity *T) error {
	err := d.db.WithContext(ctx).Create(entity).Error
	if err != nil {
		if IsDuplicateKey(err) {
			return errorc.New("记录已存在", err).Conflict()
		}
		return errorc.New("数据库操作失败", err).DB()
	}
	return nil
}

func (d *GormDaoImpl[T]) DeleteById(ctx context.Context, id interface{}) error {
	result := d.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return errorc.New("删除记录失败", result.Error).DB()
	}
	if result.RowsAffected == 0 {
		return errorc.New("要删除的记录不存在", nil).WithCode(errorc.ErrorCodeNotFound)
	}
	return nil
}

func (d *GormDaoImpl[T]) FindById(ctx context.Context, id interface{}) (*T, error) {
	var entity T
	err := d.db.WithContext(ctx).First(&entity, id).Error
	if err != nil {
		return nil, errorc.New("查询记录失败", err).DB()
	}
	return &entity, nil
}

func (d *GormDaoImpl[T]) FindOneByColumn(ctx context.Context, column string, value interface{}) (*T, error) {
	var entity T
	err := d.db.WithContext(ctx).Where(column+" = ?", value).First(&entity).Error
	if err != nil {
		return nil, errorc.New("查询记录失败", err).DB()
	}
	return &entity, nil
}

func (d *GormDaoImpl[T]) FindFirstOrdered(ctx context.Context, order ...string) (*T, error) {
	var entity T
	db := d.db.WithContext(ctx)
	for _, o := range order {
		db = db.Order(o)
	}
	// Take 不会追加主键排序，排序完全由调用方决定
	err := db.Take(&entity).Error
	if err != nil {
		return nil, errorc.New("查询记录失败", err).DB()
	}
	return &entity, nil
}

func (d *GormDaoImpl[T]) FindAllOrdered(ctx context.Context, order ...string) ([]*T, error) {
	entities := make([]*T, 0)
	db := d.db.WithContext(ctx)
	for _, o := range order {
		db = db.Order(o)
	}
	err := db.Find(&entities).Error
	if err != nil {
		return nil, errorc.New("查询记录失败", err).DB()
	}
	return entities, nil
}

func (d *GormDaoImpl[T]) ExistsByColumn(ctx context.Context, column string, value interface{}) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(new(T)).Where(column+" = ?", value).Count(&count).Error
	if err != nil {
		return false, errorc.New("查询记录失败", err).DB()
	}
	return count > 0, nil
}
