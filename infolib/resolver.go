package infolib

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

const (
	DefaultWorkerPoolSize  = 64
	DefaultProviderTimeout = 10 * time.Second

	workerPoolExpireTime = time.Minute
)

var (
	errEmptyResult      = errors.New("provider has returned nothing")
	errDomainNoAddress  = errors.New("domain has no ip addresses")
	errNoDomainResolver = errors.New("domain resolver is not set")
)

// ResolverOpts is a set of optional parameters for Resolver.
type ResolverOpts struct {
	// DomainResolver is used to convert domain queries into IP
	// addresses. If it is not set, domain queries are unknown.
	DomainResolver DomainResolver

	// ProviderTimeout limits a time of a single provider lookup.
	ProviderTimeout time.Duration

	// WorkerPoolSize is a number of workers used by LookupAll.
	WorkerPoolSize int
}

// Resolver asks providers one by one until one of them returns
// something meaningful. Providers are never raced: the next one is
// asked only if the previous one has failed.
type Resolver struct {
	logger          Logger
	providers       []Provider
	usageStats      []*UsageStats
	domainResolver  DomainResolver
	providerTimeout time.Duration
	rwmutex         sync.RWMutex
	closeOnce       sync.Once
	workerPool      *ants.PoolWithFunc
	closed          bool
}

// Lookup returns an information about the query. Query is either an IP
// address or a domain name.
//
// If every provider has failed, Lookup returns nil without any error.
// Errors are returned only if the query is invalid, the context is
// closed or resolver was shutdown.
func (r *Resolver) Lookup(ctx context.Context, query string) (*IPInfo, error) {
	r.rwmutex.RLock()
	defer r.rwmutex.RUnlock()

	if r.closed {
		return nil, ErrResolverShutdown
	}

	parsed, err := ParseQuery(query)
	if err != nil {
		return nil, err
	}

	return r.lookup(ctx, parsed)
}

// LookupAll resolves a batch of queries concurrently. Each query is
// still resolved with sequential fallback. Results have the same order
// as queries.
func (r *Resolver) LookupAll(ctx context.Context, queries []string) ([]LookupResult, error) {
	r.rwmutex.RLock()
	defer r.rwmutex.RUnlock()

	if r.closed {
		return nil, ErrResolverShutdown
	}

	rv := make([]LookupResult, len(queries))
	wg := &sync.WaitGroup{}
	groupRequest := newPoolGroupRequest(ctx, wg, r.workerPool)

	for i, v := range queries {
		rv[i].Query = v
	}

	for i := range rv {
		if err := groupRequest.Do(&rv[i]); err != nil {
			for j := i; j < len(rv); j++ {
				rv[j].Error = err.Error()
			}

			break
		}
	}

	wg.Wait()

	return rv, nil
}

// DomainIPs returns IP addresses of the given domain name. IPv4
// addresses go first.
func (r *Resolver) DomainIPs(ctx context.Context, domain string) ([]net.IP, error) {
	r.rwmutex.RLock()
	defer r.rwmutex.RUnlock()

	if r.closed {
		return nil, ErrResolverShutdown
	}

	parsed, err := ParseQuery(domain)
	if err != nil {
		return nil, err
	}

	if !parsed.IsDomain() {
		return []net.IP{parsed.IP}, nil
	}

	if r.domainResolver == nil {
		return nil, errNoDomainResolver
	}

	return r.domainResolver.LookupIPs(ctx, parsed.Host)
}

// Providers returns names of providers in the order they are asked.
func (r *Resolver) Providers() []string {
	rv := make([]string, len(r.providers))

	for i, v := range r.providers {
		rv[i] = v.Name()
	}

	return rv
}

// UsageStats returns statistics for each provider in the order they
// are asked.
func (r *Resolver) UsageStats() []*UsageStats {
	rv := make([]*UsageStats, len(r.usageStats))

	copy(rv, r.usageStats)

	return rv
}

// Shutdown stops a worker pool. Resolver is unusable after this call.
func (r *Resolver) Shutdown() {
	r.rwmutex.Lock()
	defer r.rwmutex.Unlock()

	r.closed = true

	r.closeOnce.Do(func() {
		r.workerPool.Release()
	})
}

func (r *Resolver) lookup(ctx context.Context, query Query) (*IPInfo, error) {
	if query.IsDomain() {
		ip, err := r.resolveDomain(ctx, query.Host)

		switch {
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			r.logger.LookupError(query, "domain", err)
			r.logger.LookupExhausted(query)

			return nil, nil
		}

		query.IP = ip
	}

	for i, provider := range r.providers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := r.lookupProvider(ctx, provider, query)

		r.usageStats[i].Used(err)

		if err == nil {
			return info, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		r.logger.LookupError(query, provider.Name(), err)
	}

	r.logger.LookupExhausted(query)

	return nil, nil
}

func (r *Resolver) lookupProvider(ctx context.Context, provider Provider, query Query) (*IPInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, r.providerTimeout)
	defer cancel()

	info, err := provider.Lookup(ctx, query)
	if err != nil {
		return nil, err
	}

	info.Normalize()

	if info.Empty() {
		return nil, errEmptyResult
	}

	info.IP = query.IP
	info.Provider = provider.Name()

	return info, nil
}

func (r *Resolver) resolveDomain(ctx context.Context, domain string) (net.IP, error) {
	if r.domainResolver == nil {
		return nil, errNoDomainResolver
	}

	ips, err := r.domainResolver.LookupIPs(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve domain: %w", err)
	}

	if len(ips) == 0 {
		return nil, errDomainNoAddress
	}

	return ips[0], nil
}

func (r *Resolver) lookupTask(args interface{}) {
	task := args.(*lookupTask)
	defer task.wg.Done()

	info, err := r.lookupQuery(task.ctx, task.result.Query)
	if err != nil {
		task.result.Error = err.Error()
	}

	task.result.Result = info
}

func (r *Resolver) lookupQuery(ctx context.Context, query string) (*IPInfo, error) {
	parsed, err := ParseQuery(query)
	if err != nil {
		return nil, err
	}

	return r.lookup(ctx, parsed)
}

// NewResolver creates a new Resolver. Order of providers is
// significant and is preserved: it is an order of preference.
func NewResolver(providers []Provider, logger Logger, opts ResolverOpts) (*Resolver, error) {
	if len(providers) == 0 {
		return nil, ErrNoProviders
	}

	rv := &Resolver{
		logger:          logger,
		providers:       make([]Provider, 0, len(providers)),
		usageStats:      make([]*UsageStats, 0, len(providers)),
		domainResolver:  opts.DomainResolver,
		providerTimeout: opts.ProviderTimeout,
	}

	seenNames := map[string]struct{}{}

	for _, v := range providers {
		if _, ok := seenNames[v.Name()]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProvider, v.Name())
		}

		seenNames[v.Name()] = struct{}{}

		rv.providers = append(rv.providers, v)
		rv.usageStats = append(rv.usageStats, &UsageStats{Name: v.Name()})
	}

	if rv.providerTimeout <= 0 {
		rv.providerTimeout = DefaultProviderTimeout
	}

	poolSize := opts.WorkerPoolSize
	if poolSize <= 0 {
		poolSize = DefaultWorkerPoolSize
	}

	pool, err := ants.NewPoolWithFunc(poolSize, rv.lookupTask,
		ants.WithExpiryDuration(workerPoolExpireTime))
	if err != nil {
		return nil, fmt.Errorf("cannot create a worker pool: %w", err)
	}

	rv.workerPool = pool

	return rv, nil
}
