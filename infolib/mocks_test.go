package infolib_test

import (
	"context"
	"net"

	"github.com/9seconds/ipinfo/infolib"
	"github.com/stretchr/testify/mock"
)

type ProviderMock struct {
	mock.Mock
}

func (m *ProviderMock) Lookup(ctx context.Context, query infolib.Query) (*infolib.IPInfo, error) {
	args := m.Called(ctx, query)
	info, _ := args.Get(0).(*infolib.IPInfo)

	return info, args.Error(1)
}

func (m *ProviderMock) Name() string {
	return m.Called().String(0)
}

type DomainResolverMock struct {
	mock.Mock
}

func (m *DomainResolverMock) LookupIPs(ctx context.Context, domain string) ([]net.IP, error) {
	args := m.Called(ctx, domain)
	ips, _ := args.Get(0).([]net.IP)

	return ips, args.Error(1)
}

type LoggerMock struct {
	mock.Mock
}

func (m *LoggerMock) LookupError(query infolib.Query, name string, err error) {
	m.Called(query, name, err)
}

func (m *LoggerMock) LookupExhausted(query infolib.Query) {
	m.Called(query)
}

func queryWithIP(ip string) interface{} {
	expected := net.ParseIP(ip)

	return mock.MatchedBy(func(q infolib.Query) bool {
		return q.IP.Equal(expected)
	})
}
