package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/9seconds/ipinfo/infolib"
	"github.com/9seconds/ipinfo/providers"
)

const serverShutdownTimeout = 10 * time.Second

var version = "dev"

var (
	app = kingpin.New(
		"ipinfo",
		"Get information about IP addresses and domains")

	debug = app.Flag("debug", "Run in debug mode.").
		Short('d').
		Envar("IPINFO_DEBUG").
		Bool()
	providerTimeout = app.Flag("timeout", "Timeout for a single provider.").
			Default("10s").
			Envar("IPINFO_TIMEOUT").
			Duration()

	lookupCmd     = app.Command("lookup", "Get information about IP addresses or domains.")
	lookupQueries = lookupCmd.Arg("query", "IP address or domain name.").
			Required().
			Strings()
	lookupProviders = lookupCmd.Flag("provider", "Use only these providers in given order.").
			Short('p').
			Enums(providers.DefaultOrder...)

	domainCmd  = app.Command("domain", "Get IP addresses of the domain.")
	domainName = domainCmd.Arg("name", "Domain name.").
			Required().
			String()

	myipCmd  = app.Command("myip", "Detect a public IP address.")
	myipIPv6 = myipCmd.Flag("ipv6", "Detect IPv6 address instead of IPv4.").
			Short('6').
			Bool()

	ptrCmd     = app.Command("ptr", "Print a name for reverse DNS lookup of the address.")
	ptrAddress = ptrCmd.Arg("address", "IP address.").
			Required().
			String()

	serveCmd    = app.Command("serve", "Run HTTP API.")
	serveConfig = serveCmd.Arg("config-path", "Path to the config.").
			Required().
			ExistingFile()
)

func init() {
	app.Version(version)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx, cancel := makeRootContext()
	defer cancel()

	var err error

	switch command {
	case lookupCmd.FullCommand():
		err = mainLookup(ctx, os.Stdout)
	case domainCmd.FullCommand():
		err = mainDomain(ctx, os.Stdout)
	case myipCmd.FullCommand():
		err = mainMyIP(ctx, os.Stdout)
	case ptrCmd.FullCommand():
		err = mainPTR(os.Stdout)
	case serveCmd.FullCommand():
		err = mainServe(ctx)
	}

	if err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("Command has failed")
	}
}

func mainLookup(ctx context.Context, out io.Writer) error {
	conf := &config{}
	conf.ProviderTimeout.Duration = *providerTimeout

	for _, v := range *lookupProviders {
		conf.Providers = append(conf.Providers, configProvider{Name: v})
	}

	resolver, err := makeResolver(conf)
	if err != nil {
		return fmt.Errorf("cannot create resolver: %w", err)
	}

	defer resolver.Shutdown()

	results, err := resolver.LookupAll(ctx, *lookupQueries)
	if err != nil {
		return fmt.Errorf("cannot resolve: %w", err)
	}

	return printJSON(out, results)
}

func mainDomain(ctx context.Context, out io.Writer) error {
	query, err := infolib.ParseQuery(*domainName)

	switch {
	case err != nil:
		return fmt.Errorf("incorrect domain name: %w", err)
	case !query.IsDomain():
		return printJSON(out, []net.IP{query.IP})
	}

	ips, err := makeDomainResolver().LookupIPs(ctx, query.Host)
	if err != nil {
		return fmt.Errorf("cannot resolve domain: %w", err)
	}

	return printJSON(out, ips)
}

func mainMyIP(ctx context.Context, out io.Writer) error {
	myIP := providers.NewMyIP(makeNewHTTPClient(configProvider{Name: "myip"}))
	detect := myIP.IPv4

	if *myipIPv6 {
		detect = myIP.IPv6
	}

	ip, err := detect(ctx)
	if err != nil {
		return fmt.Errorf("cannot detect ip address: %w", err)
	}

	_, err = fmt.Fprintln(out, ip.String())

	return err
}

func mainPTR(out io.Writer) error {
	name, err := infolib.ReverseName(*ptrAddress)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, name)

	return err
}

func mainServe(ctx context.Context) error {
	conf, err := parseConfig(*serveConfig)
	if err != nil {
		return fmt.Errorf("cannot parse config: %w", err)
	}

	resolver, err := makeResolver(conf)
	if err != nil {
		return fmt.Errorf("cannot create resolver: %w", err)
	}

	defer resolver.Shutdown()

	registry := prometheus.NewRegistry()
	registry.MustRegister(usageCollector{resolver: resolver})

	srv := &http.Server{
		Addr:              conf.GetListen(),
		Handler:           makeServerRouter(resolver, registry, conf.GetBasicAuth()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
		defer cancel()

		srv.Shutdown(shutdownCtx) // nolint: errcheck
	}()

	log.Info().Str("listen", conf.GetListen()).Strs("providers", resolver.Providers()).Msg("Start server")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server has failed: %w", err)
	}

	return nil
}

func makeServerRouter(resolver *infolib.Resolver, gatherer prometheus.Gatherer,
	auth configBasicAuth) *chi.Mux {
	router := chi.NewRouter()

	router.Get("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}).ServeHTTP)
	router.Mount("/", withBasicAuth(infolib.NewHTTPHandler(resolver), auth))

	return router
}

func printJSON(out io.Writer, data interface{}) error {
	encoder := json.NewEncoder(out)

	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")

	return encoder.Encode(data)
}
