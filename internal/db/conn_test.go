package db

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentials_ConnString(t *testing.T) {
	c := Credentials{
		Name:     "crm",
		User:     "reporter",
		Password: "p@ss:word",
		Host:     "db.internal",
		Port:     6543,
		SSLMode:  "require",
	}

	u, err := url.Parse(c.ConnString())
	require.NoError(t, err)
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "db.internal:6543", u.Host)
	assert.Equal(t, "/crm", u.Path)
	assert.Equal(t, "reporter", u.User.Username())
	pw, ok := u.User.Password()
	assert.True(t, ok)
	assert.Equal(t, "p@ss:word", pw)
	assert.Equal(t, "require", u.Query().Get("sslmode"))
}

func TestCredentials_ConnString_DefaultPort(t *testing.T) {
	c := Credentials{Name: "crm", User: "reporter", Host: "localhost"}
	assert.Equal(t, "postgres://reporter@localhost:5432/crm", c.ConnString())
}

func TestCredentials_ConnString_URLWins(t *testing.T) {
	c := Credentials{Name: "ignored", URL: "postgres://a@b/c"}
	assert.Equal(t, "postgres://a@b/c", c.ConnString())
}

func TestCredentials_Validate(t *testing.T) {
	assert.NoError(t, Credentials{URL: "postgres://x"}.Validate())
	assert.NoError(t, Credentials{Name: "n", User: "u", Host: "h"}.Validate())

	err := Credentials{Name: "n"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user")
	assert.Contains(t, err.Error(), "host")

	err = Credentials{Name: "n", User: "u", Host: "h", Port: 70000}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
}

func TestNewConnector_InvalidURL(t *testing.T) {
	_, err := NewConnector(Credentials{URL: "postgres://%zz"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestNewConnector_MissingCredentials(t *testing.T) {
	_, err := NewConnector(Credentials{})
	require.Error(t, err)
}

func TestConnector_Unreachable(t *testing.T) {
	connect, err := NewConnector(Credentials{URL: "postgres://u:p@127.0.0.1:1/none?connect_timeout=2&sslmode=disable"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := connect(ctx)
	assert.Error(t, err)
	assert.Nil(t, conn)
}
