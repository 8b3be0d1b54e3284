package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/9seconds/ipinfo/infolib"
	"github.com/9seconds/ipinfo/providers"
)

func makeRootContext() (context.Context, context.CancelFunc) {
	rootCtx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)

	go func() {
		for range sigChan {
			cancel()
		}
	}()

	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	return rootCtx, cancel
}

func makeProviders(conf *config) ([]infolib.Provider, error) {
	var (
		provs []infolib.Provider
		err   error
	)

	if configured := conf.GetProviders(); len(configured) > 0 {
		provs, err = makeConfiguredProviders(configured)
	} else {
		provs, err = providers.DefaultProviders(func(name string) infolib.HTTPClient {
			return makeNewHTTPClient(configProvider{Name: name})
		})
	}

	if err != nil {
		return nil, fmt.Errorf("cannot create provider: %w", err)
	}

	if cacheConf := conf.GetCache(); cacheConf.Enabled() {
		for i, v := range provs {
			provs[i] = infolib.NewCachingProvider(v, cacheConf.Size, cacheConf.GetTTL())
		}
	}

	return provs, nil
}

func makeConfiguredProviders(configured []configProvider) ([]infolib.Provider, error) {
	rv := make([]infolib.Provider, 0, len(configured))

	for _, v := range configured {
		prov, err := providers.NewByName(v.GetName(), makeNewHTTPClient(v))
		if err != nil {
			return nil, err
		}

		rv = append(rv, prov)
	}

	return rv, nil
}

func makeNewHTTPClient(conf configProvider) infolib.HTTPClient {
	httpClient := &http.Client{
		Timeout: conf.GetHTTPTimeout(),
	}

	return infolib.NewHTTPClient(httpClient, conf.GetHTTPClientOpts())
}

func makeDomainResolver() *providers.DomainResolver {
	return providers.NewDomainResolver(
		providers.NewDoHClient(makeNewHTTPClient(configProvider{Name: "domain-cloudflare"}),
			providers.CloudflareDoHURL),
		providers.NewDoHClient(makeNewHTTPClient(configProvider{Name: "domain-google"}),
			providers.GoogleDoHURL))
}

func makeResolver(conf *config) (*infolib.Resolver, error) {
	provs, err := makeProviders(conf)
	if err != nil {
		return nil, err
	}

	return infolib.NewResolver(provs, newLogger(os.Stderr), infolib.ResolverOpts{
		DomainResolver:  makeDomainResolver(),
		ProviderTimeout: conf.GetProviderTimeout(),
		WorkerPoolSize:  conf.GetWorkerPoolSize(),
	})
}
