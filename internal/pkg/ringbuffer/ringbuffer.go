package ringbuffer

// RingBuffer 固定容量，写满之后覆盖最老的元素
// 不是线程安全的，由调用方加锁
type RingBuffer[T any] struct {
	buf   []T
	start int
	size  int
}

func New[T any](capacity int) *RingBuffer[T] {
	if capacity <= 0 {
		panic("ringbuffer: capacity 必须大于 0")
	}
	return &RingBuffer[T]{
		buf: make([]T, capacity),
	}
}

// Push 追加元素，返回被挤出去的元素
func (r *RingBuffer[T]) Push(val T) (evicted T, ok bool) {
	if r.size < len(r.buf) {
		r.buf[(r.start+r.size)%len(r.buf)] = val
		r.size++
		return evicted, false
	}
	evicted = r.buf[r.start]
	r.buf[r.start] = val
	r.start = (r.start + 1) % len(r.buf)
	return evicted, true
}

func (r *RingBuffer[T]) Len() int {
	return r.size
}

// Last 最近的 n 个元素，按写入顺序从老到新
func (r *RingBuffer[T]) Last(n int) []T {
	if n > r.size || n < 0 {
		n = r.size
	}
	res := make([]T, 0, n)
	for i := r.size - n; i < r.size; i++ {
		res = append(res, r.buf[(r.start+i)%len(r.buf)])
	}
	return res
}
