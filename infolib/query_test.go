package infolib_test

import (
	"errors"
	"net"
	"testing"

	"github.com/9seconds/ipinfo/infolib"
	"github.com/stretchr/testify/suite"
)

type ParseQueryTestSuite struct {
	suite.Suite
}

func (suite *ParseQueryTestSuite) TestEmpty() {
	for _, v := range []string{"", "  ", "\t\n"} {
		_, err := infolib.ParseQuery(v)

		suite.True(errors.Is(err, infolib.ErrEmptyQuery))
	}
}

func (suite *ParseQueryTestSuite) TestIPv4() {
	query, err := infolib.ParseQuery(" 8.8.8.8 ")

	suite.NoError(err)
	suite.False(query.IsDomain())
	suite.True(query.IP.Equal(net.ParseIP("8.8.8.8")))
	suite.Equal(" 8.8.8.8 ", query.Raw)
	suite.Equal("8.8.8.8", query.String())
}

func (suite *ParseQueryTestSuite) TestIPv6() {
	for _, v := range []string{"2001:db8::1", "[2001:db8::1]"} {
		query, err := infolib.ParseQuery(v)

		suite.NoError(err)
		suite.False(query.IsDomain())
		suite.True(query.IP.Equal(net.ParseIP("2001:db8::1")))
	}
}

func (suite *ParseQueryTestSuite) TestDomain() {
	query, err := infolib.ParseQuery("Example.COM.")

	suite.NoError(err)
	suite.True(query.IsDomain())
	suite.Equal("example.com", query.Host)
	suite.Nil(query.IP)
	suite.Equal("example.com", query.String())
}

func (suite *ParseQueryTestSuite) TestInternationalizedDomain() {
	query, err := infolib.ParseQuery("пример.рф")

	suite.NoError(err)
	suite.Equal("xn--e1afmkfd.xn--p1ai", query.Host)
}

func (suite *ParseQueryTestSuite) TestInvalid() {
	testData := []string{
		"localhost",
		"1.2.3.256",
		"1.2.3",
		"http://example.com",
		"user@example.com",
		"exa mple.com",
		"2001:db8:::1",
	}

	for _, v := range testData {
		_, err := infolib.ParseQuery(v)

		suite.True(errors.Is(err, infolib.ErrInvalidQuery), v)
	}
}

func (suite *ParseQueryTestSuite) TestStringWithResolvedDomain() {
	query := infolib.Query{
		Host: "example.com",
		IP:   net.ParseIP("93.184.216.34"),
	}

	suite.Equal("example.com (93.184.216.34)", query.String())
}

func TestParseQuery(t *testing.T) {
	suite.Run(t, &ParseQueryTestSuite{})
}
