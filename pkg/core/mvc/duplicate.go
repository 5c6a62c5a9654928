package mvc

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// mysql 唯一键冲突
const mysqlDuplicateEntry = 1062

// IsDuplicateKey 判断是否为唯一键冲突
// 开启 TranslateError 后 gorm 会统一翻译为 ErrDuplicatedKey，这里兜底未翻译的驱动错误
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
