package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/userhub/internal/flagx"
)

var knownFlags = []string{
	"-a", "-l", "-g", "-d", "-b", "-t", "-r", "-o",
	"-redis", "-require-auth", "-strict-refresh", "-log-level", "-log-format",
}

// parseFlags overlays command-line flags onto config.
//
//	-a string     HTTP bind address
//	-l string     account service bind address
//	-g string     account service address dialed by the HTTP tier
//	-d string     PostgreSQL DSN
//	-b string     storage backend (postgres|memory)
//	-t duration   access token lifetime
//	-r duration   refresh token lifetime
//	-o duration   RemoveUser call timeout
//	-redis        redis address for login throttling
//
// Secrets are intentionally not accepted on the command line.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("userhub", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "l", config.EndpointAddrGRPC, "account service listen address")
	fs.StringVar(&config.AccountServiceAddr, "g", config.AccountServiceAddr, "account service address")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.StorageBackend, "b", config.StorageBackend, "storage backend (postgres|memory)")
	fs.DurationVar(&config.AccessTTL, "t", config.AccessTTL, "access token lifetime")
	fs.DurationVar(&config.RefreshTTL, "r", config.RefreshTTL, "refresh token lifetime")
	fs.DurationVar(&config.RemovalTimeout, "o", config.RemovalTimeout, "account removal RPC timeout")
	fs.StringVar(&config.RedisAddr, "redis", config.RedisAddr, "redis address for login throttling")
	fs.BoolVar(&config.RequireAuth, "require-auth", config.RequireAuth, "require access tokens on protected routes")
	fs.BoolVar(&config.StrictRefresh, "strict-refresh", config.StrictRefresh, "require the stored refresh token on refresh")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "log-format", config.LogFormat, "log format (json|text)")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
