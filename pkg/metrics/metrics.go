package metrics

import (
	"sync/atomic"
)

type Metrics struct {
	broadcastsTotal     int64
	broadcastFailsTotal int64
	activeConnections   int64
	batchItemsTotal     int64
	batchItemFailsTotal int64
	subjectsOpenedTotal int64
}

var global = &Metrics{}

func IncrementBroadcasts() {
	atomic.AddInt64(&global.broadcastsTotal, 1)
}

func IncrementBroadcastFails() {
	atomic.AddInt64(&global.broadcastFailsTotal, 1)
}

func SetActiveConnections(count int64) {
	atomic.StoreInt64(&global.activeConnections, count)
}

func AddBatchItems(count int64) {
	atomic.AddInt64(&global.batchItemsTotal, count)
}

func AddBatchItemFails(count int64) {
	atomic.AddInt64(&global.batchItemFailsTotal, count)
}

func IncrementSubjectsOpened() {
	atomic.AddInt64(&global.subjectsOpenedTotal, 1)
}

func GetBroadcasts() int64 {
	return atomic.LoadInt64(&global.broadcastsTotal)
}

func GetBroadcastFails() int64 {
	return atomic.LoadInt64(&global.broadcastFailsTotal)
}

func GetActiveConnections() int64 {
	return atomic.LoadInt64(&global.activeConnections)
}

func GetBatchItems() int64 {
	return atomic.LoadInt64(&global.batchItemsTotal)
}

func GetBatchItemFails() int64 {
	return atomic.LoadInt64(&global.batchItemFailsTotal)
}

func GetSubjectsOpened() int64 {
	return atomic.LoadInt64(&global.subjectsOpenedTotal)
}

func Reset() {
	atomic.StoreInt64(&global.broadcastsTotal, 0)
	atomic.StoreInt64(&global.broadcastFailsTotal, 0)
	atomic.StoreInt64(&global.activeConnections, 0)
	atomic.StoreInt64(&global.batchItemsTotal, 0)
	atomic.StoreInt64(&global.batchItemFailsTotal, 0)
	atomic.StoreInt64(&global.subjectsOpenedTotal, 0)
}
