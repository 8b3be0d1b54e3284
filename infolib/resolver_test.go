package infolib_test

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/9seconds/ipinfo/infolib"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ResolverTestSuite struct {
	suite.Suite

	ctx            context.Context
	ctxCancel      context.CancelFunc
	providers      []*ProviderMock
	domainResolver *DomainResolverMock
	logger         *LoggerMock
	r              *infolib.Resolver
}

func (suite *ResolverTestSuite) SetupTest() {
	suite.ctx, suite.ctxCancel = context.WithCancel(context.Background())
	suite.domainResolver = &DomainResolverMock{}
	suite.logger = &LoggerMock{}
	suite.providers = nil

	providers := []infolib.Provider{}

	for _, name := range []string{"first", "second", "third"} {
		prov := &ProviderMock{}
		prov.On("Name").Return(name).Maybe()

		suite.providers = append(suite.providers, prov)
		providers = append(providers, prov)
	}

	suite.logger.On("LookupError", mock.Anything, mock.Anything, mock.Anything).Maybe()
	suite.logger.On("LookupExhausted", mock.Anything).Maybe()

	resolver, err := infolib.NewResolver(providers, suite.logger, infolib.ResolverOpts{
		DomainResolver:  suite.domainResolver,
		ProviderTimeout: 100 * time.Millisecond,
		WorkerPoolSize:  4,
	})

	suite.NoError(err)

	suite.r = resolver
}

func (suite *ResolverTestSuite) TearDownTest() {
	suite.ctxCancel()
	suite.r.Shutdown()

	for _, v := range suite.providers {
		v.AssertExpectations(suite.T())
	}

	suite.domainResolver.AssertExpectations(suite.T())
	suite.logger.AssertExpectations(suite.T())
}

func (suite *ResolverTestSuite) TestProvidersOrder() {
	suite.Equal([]string{"first", "second", "third"}, suite.r.Providers())

	stats := suite.r.UsageStats()

	suite.Len(stats, 3)
	suite.Equal("first", stats[0].Name)
	suite.Equal("second", stats[1].Name)
	suite.Equal("third", stats[2].Name)
}

func (suite *ResolverTestSuite) TestFirstProviderAnswers() {
	suite.providers[0].On("Lookup", mock.Anything, queryWithIP("8.8.8.8")).
		Return(&infolib.IPInfo{City: "Mountain View", CountryCode: "us"}, nil).
		Once()

	info, err := suite.r.Lookup(suite.ctx, "8.8.8.8")

	suite.NoError(err)
	suite.Equal("Mountain View", info.City)
	suite.Equal("US", info.CountryCode)
	suite.Equal("first", info.Provider)
	suite.True(info.IP.Equal(net.ParseIP("8.8.8.8")))

	suite.providers[1].AssertNotCalled(suite.T(), "Lookup", mock.Anything, mock.Anything)
	suite.providers[2].AssertNotCalled(suite.T(), "Lookup", mock.Anything, mock.Anything)
}

func (suite *ResolverTestSuite) TestFallbackAfterError() {
	suite.providers[0].On("Lookup", mock.Anything, queryWithIP("1.1.1.1")).
		Return(nil, io.EOF).
		Once()
	suite.providers[1].On("Lookup", mock.Anything, queryWithIP("1.1.1.1")).
		Return(&infolib.IPInfo{Organization: "Cloudflare"}, nil).
		Once()

	info, err := suite.r.Lookup(suite.ctx, "1.1.1.1")

	suite.NoError(err)
	suite.Equal("Cloudflare", info.Organization)
	suite.Equal("second", info.Provider)

	suite.providers[0].AssertNumberOfCalls(suite.T(), "Lookup", 1)
	suite.providers[1].AssertNumberOfCalls(suite.T(), "Lookup", 1)
	suite.providers[2].AssertNotCalled(suite.T(), "Lookup", mock.Anything, mock.Anything)
	suite.logger.AssertCalled(suite.T(), "LookupError", mock.Anything, "first", io.EOF)

	stats := suite.r.UsageStats()
	success, failure := stats[0].Counters()

	suite.EqualValues(0, success)
	suite.EqualValues(1, failure)

	success, failure = stats[1].Counters()

	suite.EqualValues(1, success)
	suite.EqualValues(0, failure)
}

func (suite *ResolverTestSuite) TestEmptyResultIsFailure() {
	suite.providers[0].On("Lookup", mock.Anything, mock.Anything).
		Return(nil, nil).
		Once()
	suite.providers[1].On("Lookup", mock.Anything, mock.Anything).
		Return(&infolib.IPInfo{CountryCode: "XX"}, nil).
		Once()
	suite.providers[2].On("Lookup", mock.Anything, mock.Anything).
		Return(&infolib.IPInfo{Hostname: "dns.google"}, nil).
		Once()

	info, err := suite.r.Lookup(suite.ctx, "8.8.4.4")

	suite.NoError(err)
	suite.Equal("dns.google", info.Hostname)
	suite.Equal("third", info.Provider)
}

func (suite *ResolverTestSuite) TestAllProvidersFail() {
	for _, v := range suite.providers {
		v.On("Lookup", mock.Anything, mock.Anything).
			Return(nil, io.EOF).
			Once()
	}

	info, err := suite.r.Lookup(suite.ctx, "192.0.2.1")

	suite.NoError(err)
	suite.Nil(info)
	suite.logger.AssertNumberOfCalls(suite.T(), "LookupError", 3)
	suite.logger.AssertNumberOfCalls(suite.T(), "LookupExhausted", 1)
}

func (suite *ResolverTestSuite) TestSlowProviderIsSkipped() {
	suite.providers[0].On("Lookup", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.DeadlineExceeded).
		Once()
	suite.providers[1].On("Lookup", mock.Anything, mock.Anything).
		Return(&infolib.IPInfo{City: "Sydney"}, nil).
		Once()

	info, err := suite.r.Lookup(suite.ctx, "1.0.0.1")

	suite.NoError(err)
	suite.Equal("Sydney", info.City)
}

func (suite *ResolverTestSuite) TestCancelledContext() {
	suite.ctxCancel()

	info, err := suite.r.Lookup(suite.ctx, "1.0.0.1")

	suite.True(errors.Is(err, context.Canceled))
	suite.Nil(info)

	for _, v := range suite.providers {
		v.AssertNotCalled(suite.T(), "Lookup", mock.Anything, mock.Anything)
	}
}

func (suite *ResolverTestSuite) TestInvalidQuery() {
	_, err := suite.r.Lookup(suite.ctx, "")

	suite.True(errors.Is(err, infolib.ErrEmptyQuery))

	_, err = suite.r.Lookup(suite.ctx, "not an address")

	suite.True(errors.Is(err, infolib.ErrInvalidQuery))
}

func (suite *ResolverTestSuite) TestDomainQuery() {
	suite.domainResolver.On("LookupIPs", mock.Anything, "example.com").
		Return([]net.IP{net.ParseIP("93.184.216.34"), net.ParseIP("2606:2800:220:1::248")}, nil).
		Once()
	suite.providers[0].On("Lookup", mock.Anything, mock.MatchedBy(func(q infolib.Query) bool {
		return q.Host == "example.com" && q.IP.Equal(net.ParseIP("93.184.216.34"))
	})).
		Return(&infolib.IPInfo{ASN: 15133}, nil).
		Once()

	info, err := suite.r.Lookup(suite.ctx, "Example.com")

	suite.NoError(err)
	suite.EqualValues(15133, info.ASN)
	suite.True(info.IP.Equal(net.ParseIP("93.184.216.34")))
}

func (suite *ResolverTestSuite) TestDomainWithoutAddresses() {
	suite.domainResolver.On("LookupIPs", mock.Anything, "example.org").
		Return([]net.IP{}, nil).
		Once()

	info, err := suite.r.Lookup(suite.ctx, "example.org")

	suite.NoError(err)
	suite.Nil(info)
	suite.logger.AssertNumberOfCalls(suite.T(), "LookupExhausted", 1)
}

func (suite *ResolverTestSuite) TestDomainIPs() {
	suite.domainResolver.On("LookupIPs", mock.Anything, "example.com").
		Return([]net.IP{net.ParseIP("93.184.216.34")}, nil).
		Once()

	ips, err := suite.r.DomainIPs(suite.ctx, "example.com")

	suite.NoError(err)
	suite.Len(ips, 1)

	ips, err = suite.r.DomainIPs(suite.ctx, "10.0.0.1")

	suite.NoError(err)
	suite.True(ips[0].Equal(net.ParseIP("10.0.0.1")))
}

func (suite *ResolverTestSuite) TestLookupAllKeepsOrder() {
	suite.providers[0].On("Lookup", mock.Anything, queryWithIP("10.0.0.1")).
		Run(func(_ mock.Arguments) {
			time.Sleep(50 * time.Millisecond)
		}).
		Return(&infolib.IPInfo{City: "slow"}, nil).
		Once()
	suite.providers[0].On("Lookup", mock.Anything, queryWithIP("10.0.0.2")).
		Return(&infolib.IPInfo{City: "fast"}, nil).
		Once()

	results, err := suite.r.LookupAll(suite.ctx, []string{"10.0.0.1", "10.0.0.2", "???"})

	suite.NoError(err)
	suite.Len(results, 3)

	suite.Equal("10.0.0.1", results[0].Query)
	suite.True(results[0].OK())
	suite.Equal("slow", results[0].Result.City)

	suite.Equal("10.0.0.2", results[1].Query)
	suite.True(results[1].OK())
	suite.Equal("fast", results[1].Result.City)

	suite.Equal("???", results[2].Query)
	suite.False(results[2].OK())
	suite.NotEmpty(results[2].Error)
}

func (suite *ResolverTestSuite) TestShutdown() {
	suite.r.Shutdown()

	_, err := suite.r.Lookup(suite.ctx, "8.8.8.8")

	suite.True(errors.Is(err, infolib.ErrResolverShutdown))

	_, err = suite.r.LookupAll(suite.ctx, []string{"8.8.8.8"})

	suite.True(errors.Is(err, infolib.ErrResolverShutdown))

	_, err = suite.r.DomainIPs(suite.ctx, "example.com")

	suite.True(errors.Is(err, infolib.ErrResolverShutdown))
}

func TestResolver(t *testing.T) {
	suite.Run(t, &ResolverTestSuite{})
}

func TestNewResolverNoProviders(t *testing.T) {
	_, err := infolib.NewResolver(nil, &LoggerMock{}, infolib.ResolverOpts{})

	if !errors.Is(err, infolib.ErrNoProviders) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewResolverDuplicateProviders(t *testing.T) {
	prov1 := &ProviderMock{}
	prov1.On("Name").Return("same")

	prov2 := &ProviderMock{}
	prov2.On("Name").Return("same")

	_, err := infolib.NewResolver([]infolib.Provider{prov1, prov2}, &LoggerMock{}, infolib.ResolverOpts{})

	if !errors.Is(err, infolib.ErrDuplicateProvider) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResolverWithoutDomainResolver(t *testing.T) {
	prov := &ProviderMock{}
	prov.On("Name").Return("only")

	logger := &LoggerMock{}
	logger.On("LookupError", mock.Anything, "domain", mock.Anything).Once()
	logger.On("LookupExhausted", mock.Anything).Once()

	resolver, err := infolib.NewResolver([]infolib.Provider{prov}, logger, infolib.ResolverOpts{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	defer resolver.Shutdown()

	info, err := resolver.Lookup(context.Background(), "example.com")
	if err != nil || info != nil {
		t.Fatalf("unexpected result: %v, %v", info, err)
	}

	prov.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
	logger.AssertExpectations(t)
}
