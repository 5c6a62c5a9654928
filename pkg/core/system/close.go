package system

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var (
	closes = []func(){}
	mu     = sync.Mutex{}
)

// RegisterClose 注册退出时的清理函数，按注册的逆序执行
func RegisterClose(f func()) {
	mu.Lock()
	defer mu.Unlock()

	closes = append(closes, f)
}

// RunCloses 执行全部清理函数，每个函数只会执行一次
func RunCloses() {
	mu.Lock()
	fs := closes
	closes = nil
	mu.Unlock()

	for i := len(fs) - 1; i >= 0; i-- {
		fs[i]()
	}
}

// WaitSignal 阻塞直到收到退出信号，然后执行清理函数
func WaitSignal() os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(ch)

	sig := <-ch
	RunCloses()
	return sig
}
