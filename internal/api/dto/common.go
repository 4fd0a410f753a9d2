package dto

// Response 统一 JSON 返回封装
type Response struct {
	Code    int
	Message string
	Data    interface{}
}
