package mvc

import (
	"context"
	"testing"

	errorc "apkdist/pkg/core/err"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testItem struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;size:32"`
	Rank int
}

func setupDao(t *testing.T) IBaseDao[testItem] {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	// 内存库每个连接独立，限制为单连接
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&testItem{}))
	return NewGormDao[testItem](db)
}

func TestGormDao_CreateConflict(t *testing.T) {
	dao := setupDao(t)
	ctx := context.Background()

	require.NoError(t, dao.Create(ctx, &testItem{Name: "a"}))
	err := dao.Create(ctx, &testItem{Name: "a"})
	require.Error(t, err)
	assert.True(t, errorc.IsConflict(err))
}

func TestGormDao_Ordered(t *testing.T) {
	dao := setupDao(t)
	ctx := context.Background()

	_, err := dao.FindFirstOrdered(ctx, "rank DESC")
	assert.True(t, errorc.IsNotFound(err))

	all, err := dao.FindAllOrdered(ctx, "rank DESC")
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	for i, name := range []string{"low", "high", "mid"} {
		require.NoError(t, dao.Create(ctx, &testItem{Name: name, Rank: []int{1, 3, 2}[i]}))
	}

	first, err := dao.FindFirstOrdered(ctx, "rank DESC")
	require.NoError(t, err)
	assert.Equal(t, "high", first.Name)

	all, err = dao.FindAllOrdered(ctx, "rank DESC", "id DESC")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"high", "mid", "low"}, []string{all[0].Name, all[1].Name, all[2].Name})
}

func TestGormDao_DeleteAndExists(t *testing.T) {
	dao := setupDao(t)
	ctx := context.Background()

	item := &testItem{Name: "x"}
	require.NoError(t, dao.Create(ctx, item))

	ok, err := dao.ExistsByColumn(ctx, "name", "x")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, dao.DeleteById(ctx, item.ID))
	err = dao.DeleteById(ctx, item.ID)
	assert.True(t, errorc.IsNotFound(err))

	_, err = dao.FindOneByColumn(ctx, "name", "x")
	assert.True(t, errorc.IsNotFound(err))
}
