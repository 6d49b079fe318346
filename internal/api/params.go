package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParseID はパスパラメータを正の整数IDとして解釈します。
// 数値でない、0、または範囲外の場合はfalseを返します。
func ParseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
