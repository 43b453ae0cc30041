package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	grpc_adapter "github.com/JoeShih716/go-mem-point/internal/app/core/adapter/in/grpc"
	grpcpool "github.com/JoeShih716/go-mem-point/pkg/grpc"
	pb "github.com/JoeShih716/go-mem-point/proto"
)

func main() {
	target := flag.String("target", "localhost:50051", "point server address")
	userID := flag.Int64("user", 1, "user id to charge")
	total := flag.Int("total", 1000, "number of charge requests")
	concurrency := flag.Int("concurrency", 100, "concurrent requests")
	amount := flag.Int64("amount", 1, "amount per charge")
	flag.Parse()

	pool := grpcpool.NewPool(grpcpool.WithInterceptor(requestIDInterceptor))
	defer pool.Close()

	conn, err := pool.GetConnection(*target)
	if err != nil {
		log.Fatalf("did not connect: %v", err)
	}
	c := pb.NewPointServiceClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	before, err := c.GetPoint(ctx, *userID)
	if err != nil {
		log.Fatalf("GetPoint failed: %v", err)
	}

	var (
		wg     sync.WaitGroup
		failed atomic.Int64
	)
	sem := make(chan struct{}, *concurrency)
	startTime := time.Now()

	for i := 0; i < *total; i++ {
		sem <- struct{}{}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			if _, err := c.Charge(ctx, *userID, *amount); err != nil {
				failed.Add(1)
				if idx%1000 == 0 {
					log.Printf("Charge %d failed: %v", idx, err)
				}
			}
		}(i)
	}
	wg.Wait()
	elapsed := time.Since(startTime)

	after, err := c.GetPoint(ctx, *userID)
	if err != nil {
		log.Fatalf("GetPoint failed: %v", err)
	}

	succeeded := int64(*total) - failed.Load()
	fmt.Printf("Completed %d requests in %v (%d failed)\n", *total, elapsed, failed.Load())
	fmt.Printf("TPS: %.2f\n", float64(*total)/elapsed.Seconds())
	fmt.Printf("Point: %d -> %d (expected %d)\n", before.Point, after.Point, before.Point+succeeded*(*amount))
	if after.Point != before.Point+succeeded*(*amount) {
		log.Fatalf("lost update detected")
	}
}

// requestIDInterceptor 每個請求帶上 uuid，方便對照 server log
func requestIDInterceptor(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
	ctx = metadata.AppendToOutgoingContext(ctx, grpc_adapter.RequestIDHeader, uuid.NewString())
	return invoker(ctx, method, req, reply, cc, opts...)
}
