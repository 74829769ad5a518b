package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"time"
)

// Storage backend names accepted by -storage.
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
	StorageMongo  = "mongo"
)

type Config struct {
	Addr        string
	Storage     string
	DBUrl       string
	MongoURL    string
	TokenSecret string
	TokenTTL    time.Duration
	Debug       bool
}

func ParseFlags() (cfg Config, err error) {
	var host string
	flag.StringVar(&host, "host", "0.0.0.0", "listen host name (default 0.0.0.0)")
	var port uint
	flag.UintVar(&port, "port", 80, "listen port number (default 80)")
	flag.StringVar(&cfg.Storage, "storage", StorageMemory, "storage backend: memory, sqlite or mongo (default memory)")
	flag.StringVar(&cfg.DBUrl, "db-url", "survey.sqlite", "path to SQLite3 DB file (default survey.sqlite)")
	flag.StringVar(&cfg.MongoURL, "mongo-url", "mongodb://localhost:27017", "MongoDB connection URI")
	flag.StringVar(&cfg.TokenSecret, "token-secret", "", "secret key for token encryption and decryption")
	var ttl uint
	flag.UintVar(&ttl, "token-ttl", 3600, "token TTL in seconds (default 3600)")
	flag.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")
	flag.Parse()

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.TokenTTL = time.Duration(ttl) * time.Second

	switch cfg.Storage {
	case StorageMemory, StorageSQLite, StorageMongo:
	default:
		err = fmt.Errorf("unknown -storage value %q", cfg.Storage)
		return
	}

	if cfg.TokenSecret == "" {
		err = errors.New("missing parameter -token-secret")
	}

	return
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}
