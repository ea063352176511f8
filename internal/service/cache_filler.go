package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/country-posts/internal/model"
	"github.com/d60-Lab/country-posts/pkg/logger"
)

type fillJob struct {
	countryID uint64
	posts     []*model.Post
	enqAt     time.Time
}

// CacheFiller 异步回填缓存，查询路径不等待缓存写入
type CacheFiller struct {
	cache PostsCache
	ch    chan fillJob
	quit  chan struct{}
	wg    sync.WaitGroup
}

func NewCacheFiller(cache PostsCache, queueSize int) *CacheFiller {
	if queueSize <= 0 {
		queueSize = 1024
	}
	return &CacheFiller{
		cache: cache,
		ch:    make(chan fillJob, queueSize),
		quit:  make(chan struct{}),
	}
}

// Start 启动 workers 个协程；返回的停止函数会先排空队列
func (f *CacheFiller) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 2
	}
	for i := 0; i < workers; i++ {
		f.wg.Add(1)
		go f.loop()
	}
	var once sync.Once
	return func(ctx context.Context) error {
		once.Do(func() { close(f.quit) })
		done := make(chan struct{})
		go func() {
			f.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (f *CacheFiller) loop() {
	defer f.wg.Done()
	for {
		select {
		case job := <-f.ch:
			f.fill(job)
		case <-f.quit:
			for {
				select {
				case job := <-f.ch:
					f.fill(job)
				default:
					return
				}
			}
		}
	}
}

func (f *CacheFiller) fill(job fillJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := f.cache.Set(ctx, job.countryID, job.posts); err != nil {
		logger.Warn("cache fill failed", zap.Uint64("country_id", job.countryID), zap.Error(err))
		return
	}
	// latency: 入队到写入完成
	logger.Debug("cache filled",
		zap.Uint64("country_id", job.countryID),
		zap.Int("posts", len(job.posts)),
		zap.Duration("latency", time.Since(job.enqAt)))
}

// Enqueue 队列满时丢弃
func (f *CacheFiller) Enqueue(countryID uint64, posts []*model.Post) {
	select {
	case f.ch <- fillJob{countryID: countryID, posts: posts, enqAt: time.Now()}:
	default:
		logger.Warn("cache filler queue full, drop", zap.Uint64("country_id", countryID))
	}
}

func (f *CacheFiller) QueueLen() int { return len(f.ch) }
