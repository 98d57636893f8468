/*
Refaserve starts the refa HTTP API server and begins listening for
connections.

Usage:

	refaserve [flags]
	refaserve [flags] -l [[ADDRESS]:PORT]

Once started, the refa server listens for HTTP requests and responds to them
using the REST API described in SPEC_FULL.md §4.11. By default it listens on
localhost:8080. This can be changed with the --listen/-l flag (or via
environment variable).

If a JWT token secret is not given, one is automatically generated using
crypto/rand. As a consequence, in this mode of operation all tokens are
rendered invalid as soon as the server shuts down. This is suitable for
testing, but a secret must be given via either a CLI flag, a config file, or
an environment variable if running in production.

The flags are:

	-v, --version
		Give the current version of refaserve and then exit.

	--config PATH
		Load configuration from the given TOML file.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, defaults to the configured listen address.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less
		than 32 bytes in the secret, it is repeated until it is. The maximum
		size is 64 bytes. If no secret is specified, a random secret is
		automatically generated.

	--api-key KEY
		The plaintext API key clients must present to POST /v1/auth in
		order to receive a bearer token. Required; refaserve refuses to
		start without one.

	--cache-driver {inmem|sqlite}
		Select the compiled-pattern cache backend.

	--cache-dir PATH
		Directory the sqlite cache backend stores its database file in.
		Ignored when --cache-driver is inmem.
*/
package main

import (
	"crypto/rand"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"

	"github.com/dekarrin/refa/internal/cache"
	"github.com/dekarrin/refa/internal/config"
	"github.com/dekarrin/refa/internal/version"
	"github.com/dekarrin/refa/server"
)

var (
	flagVersion     = pflag.BoolP("version", "v", false, "Give the current version of refaserve and then exit.")
	flagConfig      = pflag.String("config", "", "Load configuration from the given TOML file.")
	flagListen      = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret      = pflag.StringP("secret", "s", "", "Use the given secret for token signing.")
	flagAPIKey      = pflag.String("api-key", "", "The plaintext API key clients must present to authenticate.")
	flagCacheDriver = pflag.String("cache-driver", "", "Select the compiled-pattern cache backend (inmem or sqlite).")
	flagCacheDir    = pflag.String("cache-dir", "", "Directory the sqlite cache backend stores its database in.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (refa v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL could not load config: %s\n", err.Error())
		os.Exit(1)
	}
	if pflag.Lookup("listen").Changed {
		cfg.Listen = *flagListen
	}
	if pflag.Lookup("secret").Changed {
		cfg.TokenSecret = *flagSecret
	}
	if pflag.Lookup("cache-driver").Changed {
		cfg.CacheDriver = *flagCacheDriver
	}
	if pflag.Lookup("cache-dir").Changed {
		cfg.CacheDir = *flagCacheDir
	}

	if *flagAPIKey == "" {
		fmt.Fprintf(os.Stderr, "FATAL --api-key is required\nDo -h for help.\n")
		os.Exit(1)
	}
	apiKeyHash, err := bcrypt.GenerateFromPassword([]byte(*flagAPIKey), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL could not hash API key: %s\n", err.Error())
		os.Exit(1)
	}

	tokSecret := tokenSecret(cfg.TokenSecret)

	store, err := buildStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL could not initialize cache: %s\n", err.Error())
		os.Exit(1)
	}
	defer store.Close()

	h := server.New(server.Config{
		Store:       store,
		TokenSecret: tokSecret,
		APIKeyHash:  apiKeyHash,
		UnauthDelay: 300 * time.Millisecond,
	})

	log.Printf("INFO  Starting refa server %s on %s...", version.ServerCurrent, cfg.Listen)
	if err := http.ListenAndServe(cfg.Listen, h); err != nil {
		log.Fatalf("FATAL server exited: %s", err.Error())
	}
}

// tokenSecret pads secret by doubling until it is at least 32 bytes, or
// generates a fresh random 64-byte secret if none was configured.
func tokenSecret(secret string) []byte {
	if secret == "" {
		tokSecret := make([]byte, 64)
		if _, err := rand.Read(tokSecret); err != nil {
			log.Fatalf("FATAL could not generate token secret: %s", err.Error())
		}
		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
		return tokSecret
	}

	tokSecret := []byte(secret)
	for len(tokSecret) < 32 {
		doubled := make([]byte, len(tokSecret)*2)
		copy(doubled, tokSecret)
		copy(doubled[len(tokSecret):], tokSecret)
		tokSecret = doubled
	}
	if len(tokSecret) > 64 {
		tokSecret = tokSecret[:64]
	}
	return tokSecret
}

func buildStore(cfg config.Config) (cache.Store, error) {
	switch cfg.CacheDriver {
	case "", "inmem":
		return cache.NewMemStore(), nil
	case "sqlite":
		if err := os.MkdirAll(cfg.CacheDir, 0770); err != nil {
			return nil, fmt.Errorf("build cache directory: %w", err)
		}
		return cache.NewSQLiteStore(cfg.CacheDir)
	default:
		return nil, fmt.Errorf("unsupported cache driver: %q", cfg.CacheDriver)
	}
}
