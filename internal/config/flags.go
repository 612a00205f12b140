// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses configuration flags from the process command line.
//
// Flags:
//
//	-a listen address in format [host]:[port] (client: metrics endpoint)
//	-d database DSN (PostgreSQL on the server, SQLite path on the client)
//	-c/-config json file path with configs
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "1h", "30m")
//	-request-timeout server request timeout (e.g., "30s", "1m")
//	-server client: server address
//	-adapter-timeout client: outbound request timeout
//	-client-id client: identity used as token subject
//	-root client: mirrored directory
//	-watch client: sync on filesystem events
//	-sync-interval client: scan-and-push period
//	-watch-debounce client: event coalescing window
//	-reset client: send the full tree on the first sync
func ParseFlags(args []string) (*StructuredConfig, error) {
	return parseFlags(args)
}

func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("tree-mirror", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var serverAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var tokenSignKey string
	var tokenIssuer string
	var tokenDuration time.Duration
	var requestTimeout time.Duration
	var adapterAddress string
	var adapterTimeout time.Duration
	var clientID string
	var rootDir string
	var watch bool
	var syncInterval time.Duration
	var watchDebounce time.Duration
	var resetOnStart bool

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&adapterAddress, "server", "", "Server address for the client")
	fs.DurationVar(&adapterTimeout, "adapter-timeout", 0, "Client request timeout")
	fs.StringVar(&clientID, "client-id", "", "Client identity")
	fs.StringVar(&rootDir, "root", "", "Mirrored directory")
	fs.BoolVar(&watch, "watch", false, "Sync on filesystem events")
	fs.DurationVar(&syncInterval, "sync-interval", 0, "Sync period")
	fs.DurationVar(&watchDebounce, "watch-debounce", 0, "Filesystem event debounce")
	fs.BoolVar(&resetOnStart, "reset", false, "Send the full tree on the first sync")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
			ClientID:      clientID,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress:    adapterAddress,
			RequestTimeout: adapterTimeout,
		},
		Workers: Workers{
			SyncInterval:  syncInterval,
			WatchDebounce: watchDebounce,
			ResetOnStart:  resetOnStart,
		},
		Scanner: Scanner{
			RootDir: rootDir,
			Watch:   watch,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost"
// or empty, and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
