// Package middleware 提供了通用的 Gin 中间件实现。
// 生成摘要:
// 1) HTTP 上下文增强中间件自动注入客户端 IP 与 UA 信息。
package middleware

import (
	"github.com/wyfcoding/rangequery/contextx"

	"github.com/gin-gonic/gin"
)

// RequestContextEnricher 返回一个 Gin 中间件，用于注入常用上下文字段。
func RequestContextEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ctx = contextx.WithIP(ctx, c.ClientIP())
		ctx = contextx.WithUserAgent(ctx, c.Request.UserAgent())

		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
