package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	grpc_adapter "github.com/JoeShih716/go-account-core/internal/app/core/adapter/in/grpc"
	"github.com/JoeShih716/go-account-core/pkg/grpc"
	"github.com/JoeShih716/go-account-core/pkg/logger"
)

func main() {
	addr := flag.String("addr", "localhost:50051", "account service address")
	account := flag.String("account", "LoadTest", "account to deposit into")
	accountType := flag.String("type", "Checking", "account type used when opening")
	total := flag.Int("n", 100000, "number of deposits")
	concurrency := flag.Int("c", 100, "concurrent requests")
	amount := flag.Float64("amount", 1, "amount per deposit")
	timeout := flag.Duration("timeout", 120*time.Second, "overall timeout")
	flag.Parse()

	log, err := logger.New("dev", "info")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	pool := grpc.NewPool()
	defer pool.Close()
	conn, err := pool.GetConnection(*addr)
	if err != nil {
		log.Fatal("did not connect", "addr", *addr, "error", err)
	}
	c := grpc_adapter.NewClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// 帳戶已存在時開戶會被拒絕，直接沿用即可
	res, err := c.OpenAccount(ctx, grpc_adapter.Request{Name: *account, Type: *accountType})
	if err != nil {
		log.Fatal("open account failed", "error", err)
	}
	if !res.Success {
		log.Info("open account rejected", "reason", res.Message)
	}

	var (
		wg       sync.WaitGroup
		failed   atomic.Int64
		rejected atomic.Int64
	)
	sem := make(chan struct{}, *concurrency)
	startTime := time.Now()

	for i := 0; i < *total; i++ {
		sem <- struct{}{}
		wg.Add(1)

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			res, err := c.Deposit(ctx, grpc_adapter.Request{
				RefID:  uuid.New(),
				Name:   *account,
				Amount: *amount,
			})
			switch {
			case err != nil:
				if failed.Add(1) == 1 || idx%10000 == 0 {
					log.Warn("deposit failed", "index", idx, "error", err)
				}
			case !res.Success:
				rejected.Add(1)
			}
		}(i)
	}
	wg.Wait()

	elapsed := time.Since(startTime)
	fmt.Printf("Completed %d requests in %v (failed %d, rejected %d)\n", *total, elapsed, failed.Load(), rejected.Load())
	fmt.Printf("TPS: %.2f\n", float64(*total)/elapsed.Seconds())

	snapshot, err := c.GetAccount(ctx, *account)
	if err != nil {
		log.Fatal("get account failed", "error", err)
	}
	fmt.Printf("Account %s (%s) has $%.2f and is %s\n", snapshot.Name, snapshot.Type, snapshot.Balance, snapshot.State)
}
