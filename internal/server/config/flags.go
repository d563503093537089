package config

import (
	"flag"
	"os"
	"time"

	"github.com/sibeni-li/khronos/internal/flagx"
)

var (
	valueFlags = []string{"-a", "-g", "-D", "-d", "-s", "-t", "-m", "-l", "-L", "-u", "-p", "-b", "-r", "-e", "-k"}
	boolFlags  = []string{"-A"}
)

// parseFlags populates Config from command-line flags.
//
//	-a string   HTTP bind address
//	-g string   gRPC bind address
//	-D string   database driver (pgx, sqlite)
//	-d string   database DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-m int      max upload size, bytes
//	-l string   log backend (slog, zap)
//	-L string   log level (debug, info, warn, error)
//	-u/-p       S3 root user / password
//	-b string   S3 bucket, empty disables object storage
//	-r string   S3 region
//	-e string   S3 base endpoint
//	-k string   profiler library object key
//	-A          archive accepted uploads
//
// Panics on a malformed flag.
func parseFlags(config *Config) {
	args := flagx.FilterArgsWithBools(os.Args[1:], valueFlags, boolFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.DatabaseDriver, "D", config.DatabaseDriver, "database driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")

	fs.Int64Var(&config.MaxUploadSize, "m", config.MaxUploadSize, "max upload size (in bytes)")
	fs.StringVar(&config.LogBackend, "l", config.LogBackend, "log backend")
	fs.StringVar(&config.LogLevel, "L", config.LogLevel, "log level")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.LibraryKey, "k", config.LibraryKey, "profiler library object key")
	fs.BoolVar(&config.ArchiveUploads, "A", config.ArchiveUploads, "archive accepted uploads")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
}
