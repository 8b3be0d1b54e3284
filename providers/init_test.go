package providers_test

import (
	"io"
	"net/http"
	"time"

	"github.com/9seconds/ipinfo/infolib"
	"github.com/jarcoal/httpmock"
	"github.com/miekg/dns"
	"github.com/stretchr/testify/suite"
)

type ProviderTestSuite struct {
	suite.Suite

	http infolib.HTTPClient
}

func (suite *ProviderTestSuite) SetupTest() {
	suite.http = infolib.NewHTTPClient(&http.Client{}, infolib.HTTPClientOpts{
		UserAgent:         "test-agent",
		RateLimitInterval: time.Millisecond,
		RateLimitBurst:    100,
	})
}

type MockedProviderTestSuite struct {
	ProviderTestSuite
}

func (suite *MockedProviderTestSuite) SetupSuite() {
	httpmock.Activate()
}

func (suite *MockedProviderTestSuite) TearDownSuite() {
	httpmock.DeactivateAndReset()
}

func (suite *MockedProviderTestSuite) TearDownTest() {
	httpmock.Reset()
}

// dohResponder emulates RFC8484 server: it unpacks a query and packs
// whatever answer callback returns.
func dohResponder(answer func(*dns.Msg) *dns.Msg) httpmock.Responder {
	return func(req *http.Request) (*http.Response, error) {
		if req.Header.Get("Content-Type") != "application/dns-message" {
			return httpmock.NewStringResponse(http.StatusUnsupportedMediaType, ""), nil
		}

		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}

		query := &dns.Msg{}
		if err := query.Unpack(body); err != nil || query.Id != 0 || len(query.Question) != 1 {
			return httpmock.NewStringResponse(http.StatusBadRequest, ""), nil
		}

		packed, err := answer(query).Pack()
		if err != nil {
			return nil, err
		}

		resp := httpmock.NewBytesResponse(http.StatusOK, packed)
		resp.Header.Set("Content-Type", "application/dns-message")

		return resp, nil
	}
}

// dnsRecords answers with those records which match a question.
func dnsRecords(records ...string) func(*dns.Msg) *dns.Msg {
	return func(query *dns.Msg) *dns.Msg {
		reply := &dns.Msg{}
		reply.SetReply(query)

		for _, v := range records {
			rr, err := dns.NewRR(v)
			if err != nil {
				panic(err)
			}

			header := rr.Header()
			if header.Rrtype == query.Question[0].Qtype && header.Name == query.Question[0].Name {
				reply.Answer = append(reply.Answer, rr)
			}
		}

		return reply
	}
}

func dnsRcode(rcode int) func(*dns.Msg) *dns.Msg {
	return func(query *dns.Msg) *dns.Msg {
		reply := &dns.Msg{}
		reply.SetRcode(query, rcode)

		return reply
	}
}
