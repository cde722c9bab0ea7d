//go:build wasm

package internal

import (
	"sync"

	"github.com/rs/zerolog"
)

var mu sync.Mutex
var globalRuntime *Runtime

func GetRuntime() *Runtime {
	mu.Lock()
	defer mu.Unlock()

	if globalRuntime == nil {
		globalRuntime = NewRuntime(zerolog.Nop())
	}

	return globalRuntime
}

func DropRuntime() {
	mu.Lock()
	defer mu.Unlock()
	globalRuntime = nil
}
