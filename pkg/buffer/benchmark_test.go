package buffer

import (
	"testing"
)

// BenchmarkBufferWrite benchmarks buffer Write operations across overflow policies.
func BenchmarkBufferWrite(b *testing.B) {
	buf1, err := NewCircularBuffer[int](100, WithOverflowPolicy[int](DropOldest))
	if err != nil {
		b.Fatal(err)
	}
	buf2, err := NewCircularBuffer[int](100, WithOverflowPolicy[int](DropNewest))
	if err != nil {
		b.Fatal(err)
	}

	benchmarks := []struct {
		name   string
		buffer Buffer[int]
	}{
		{"Circular_100_DropOldest", buf1},
		{"Circular_100_DropNewest", buf2},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			buffer := bm.buffer
			defer buffer.Close()

			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				i := 0
				for pb.Next() {
					buffer.Write(i)
					i++
				}
			})
		})
	}
}

// BenchmarkBufferRead benchmarks interleaved write/read cycles.
func BenchmarkBufferRead(b *testing.B) {
	buf, err := NewCircularBuffer[int](1000)
	if err != nil {
		b.Fatal(err)
	}
	defer buf.Close()

	for i := 0; i < 1000; i++ {
		if err := buf.Write(i); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := buf.Read(); !ok {
			buf.Write(i)
		}
	}
}

// BenchmarkActivityLogPush benchmarks insert-at-front pushes on a full log.
func BenchmarkActivityLogPush(b *testing.B) {
	log := NewActivityLog[int](100)
	for i := 0; i < 100; i++ {
		log.Push(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		log.Push(i)
	}
}

// BenchmarkActivityLogItems benchmarks snapshotting a full log.
func BenchmarkActivityLogItems(b *testing.B) {
	log := NewActivityLog[int](100)
	for i := 0; i < 100; i++ {
		log.Push(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		log.Items()
	}
}
