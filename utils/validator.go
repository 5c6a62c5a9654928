package utils

import (
	"sync"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// 项目自定义的校验规则，标签名 -> 校验函数
// 错误提示在 customErrorMessages 中配置
var customRules = map[string]validator.Func{
	// 版本号只接受 x.y.z
	"semver": func(fl validator.FieldLevel) bool {
		return IsSemver(fl.Field().String())
	},
}

var (
	validate     *validator.Validate
	translator   ut.Translator
	validateOnce sync.Once
)

// registerRules 注册全部自定义规则，标签重复注册时 validator 会覆盖旧规则
func registerRules(v *validator.Validate) {
	for tag, fn := range customRules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic("注册校验规则 " + tag + " 失败: " + err.Error())
		}
	}
}

// GetValidator 全局验证器，首次调用时初始化
func GetValidator() (*validator.Validate, ut.Translator) {
	validateOnce.Do(func() {
		validate, translator = NewValidator()
	})
	return validate, translator
}

// Validate 校验结构体，失败时返回中文提示和原始错误
func Validate(data interface{}) (string, error) {
	v, trans := GetValidator()
	return ValidateStruct(v, trans, data)
}
