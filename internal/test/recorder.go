package test

import (
	"encoding/json"
	"net/http/httptest"
)

type JSONResponseRecorder[T any] struct {
	*httptest.ResponseRecorder
}

func NewJSONResponseRecorder[T any]() JSONResponseRecorder[T] {
	return JSONResponseRecorder[T]{
		ResponseRecorder: httptest.NewRecorder(),
	}
}

// MustScan 把响应体解析成 T，失败直接 panic
func (r JSONResponseRecorder[T]) MustScan() T {
	var t T
	err := json.NewDecoder(r.Body).Decode(&t)
	if err != nil {
		panic(err)
	}
	return t
}
