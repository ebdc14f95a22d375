//go:build bench

package handbook

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func BenchmarkResolvePoolSize(b *testing.B) {
	for _, w := range []int{0, 1, 4} {
		b.Run(fmt.Sprintf("workers_%d", w), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = ResolvePoolSize(w)
			}
		})
	}
}

func BenchmarkRendererPool_Render(b *testing.B) {
	markdown := "# Chapter\n\n" + strings.Repeat("## Section\n\nSome *text* with `code`.\n\n", 50)

	for _, size := range []int{1, 2, 4} {
		b.Run(fmt.Sprintf("pool_%d", size), func(b *testing.B) {
			pool, err := NewRendererPool(size)
			if err != nil {
				b.Fatal(err)
			}
			defer pool.Close()

			b.ReportAllocs()
			b.RunParallel(func(pb *testing.PB) {
				ctx := context.Background()
				for pb.Next() {
					r := pool.Acquire()
					if _, err := r.Render(ctx, Input{Markdown: markdown}); err != nil {
						b.Error(err)
					}
					pool.Release(r)
				}
			})
		})
	}
}
