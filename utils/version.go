package utils

import (
	"regexp"
	"strings"
)

var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// IsSemver 仅接受 x.y.z 三段纯数字
func IsSemver(v string) bool {
	return semverPattern.MatchString(v)
}

// CompareVersion 按数值逐段比较，a<b 返回 -1，相等返回 0，a>b 返回 1
// 调用方需保证两者都通过 IsSemver；每段按十进制字符串比较，不受整数位宽限制
func CompareVersion(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := compareDigits(as[i], bs[i]); c != 0 {
			return c
		}
	}
	return 0
}

// compareDigits 比较两个纯数字串，忽略前导零
func compareDigits(x, y string) int {
	x = strings.TrimLeft(x, "0")
	y = strings.TrimLeft(y, "0")
	switch {
	case len(x) < len(y):
		return -1
	case len(x) > len(y):
		return 1
	}
	return strings.Compare(x, y)
}
