package consts

// TraceKey 上下文与 fiber Locals 中存放链路 ID 的键
const TraceKey = "traceId"

// TraceHeaderName 上游透传链路 ID 使用的请求头
const TraceHeaderName = "X-Trace-Id"

// 运行环境
const (
	EnvDev  = "dev"
	EnvTest = "test"
	EnvProd = "prod"
)
