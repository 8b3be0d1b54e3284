package infolib

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
)

type lookupTask struct {
	ctx    context.Context
	result *LookupResult
	wg     *sync.WaitGroup
}

type poolGroupRequest struct {
	ctx  context.Context
	wg   *sync.WaitGroup
	pool *ants.PoolWithFunc
}

func (p *poolGroupRequest) Do(result *LookupResult) error {
	select {
	case <-p.ctx.Done():
		return ErrContextIsClosed
	default:
	}

	p.wg.Add(1)

	task := &lookupTask{
		ctx:    p.ctx,
		result: result,
		wg:     p.wg,
	}

	if err := p.pool.Invoke(task); err != nil {
		p.wg.Done()

		return fmt.Errorf("cannot schedule a task: %w", err)
	}

	return nil
}

func newPoolGroupRequest(ctx context.Context, wg *sync.WaitGroup, pool *ants.PoolWithFunc) *poolGroupRequest {
	return &poolGroupRequest{
		ctx:  ctx,
		wg:   wg,
		pool: pool,
	}
}
