package database

import (
	"net"
	"net/url"
	"strconv"

	"github.com/rickgao/chatlink/internal/config"
)

// applicationName is reported to the server in pg_stat_activity.
const applicationName = "chatlink"

// BuildConnString builds a PostgreSQL connection URL from config.
// User and password are escaped; IPv6 hosts are bracketed.
func BuildConnString(cfg config.DBConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	q := url.Values{}
	q.Set("sslmode", sslMode)
	q.Set("application_name", applicationName)

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}
