package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     3306,
		Username: "app",
		Password: "secret",
		Database: "lucerna",
	}

	dsn := cfg.GetDSN()
	assert.Contains(t, dsn, "app:secret@tcp(db.internal:3306)/lucerna")
	assert.Contains(t, dsn, "parseTime=True")
	// Matched rows, not changed rows: a values-identical UPDATE must not
	// look like a missing row to the repositories.
	assert.Contains(t, dsn, "clientFoundRows=true")
}

func TestGetAddr(t *testing.T) {
	server := ServerConfig{Host: "0.0.0.0", Port: 8080}
	assert.Equal(t, "0.0.0.0:8080", server.GetAddr())

	redis := RedisConfig{Host: "localhost", Port: 6379}
	assert.Equal(t, "localhost:6379", redis.GetAddr())
}
